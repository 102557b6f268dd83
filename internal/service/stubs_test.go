package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-allocator/internal/models"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
	"github.com/noah-isme/campus-allocator/pkg/jobs"
)

type stubCourseRepo struct {
	rows  []models.Course
	err   error
	calls int
}

func (s *stubCourseRepo) List(context.Context) ([]models.Course, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

type stubApplicationRepo struct {
	mu    sync.Mutex
	items []models.CourseApplication
	clock int64
}

func (s *stubApplicationRepo) List(context.Context) ([]models.CourseApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CourseApplication, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *stubApplicationRepo) ListByRequester(_ context.Context, requesterID string) ([]models.CourseApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CourseApplication
	for _, item := range s.items {
		if item.RequesterID == requesterID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubApplicationRepo) FindByID(_ context.Context, id string) (*models.CourseApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubApplicationRepo) Create(_ context.Context, app *models.CourseApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	s.clock++
	app.SubmittedAt = 1000 + s.clock
	s.items = append(s.items, *app)
	return nil
}

func (s *stubApplicationRepo) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type memoryCacheRepo struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = payload
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix, wildcard := strings.CutSuffix(pattern, "*")
	for key := range m.store {
		if key == pattern || (wildcard && strings.HasPrefix(key, prefix)) {
			delete(m.store, key)
		}
	}
	return nil
}

func (m *memoryCacheRepo) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store[key]
	return ok
}

func newMemoryCache(repo *memoryCacheRepo, metrics *MetricsService) *CacheService {
	return NewCacheService(repo, metrics, time.Minute, zap.NewNop(), true)
}

type stubQueue struct {
	jobs []jobs.Job
}

func (s *stubQueue) Enqueue(job jobs.Job) (bool, error) {
	s.jobs = append(s.jobs, job)
	return true, nil
}

type stubVenueCatalog struct {
	venues     []models.Venue
	activities []models.ClubActivity
	listCalls  int
}

func (s *stubVenueCatalog) List(context.Context) ([]models.Venue, error) {
	s.listCalls++
	return s.venues, nil
}

func (s *stubVenueCatalog) FindByName(_ context.Context, name string) (*models.Venue, error) {
	for _, v := range s.venues {
		if v.Name == name {
			found := v
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubVenueCatalog) ListActivities(context.Context) ([]models.ClubActivity, error) {
	return s.activities, nil
}

type stubBookRepo struct {
	books []models.Book
	calls int
}

func (s *stubBookRepo) FindByIDs(_ context.Context, ids []string) ([]models.Book, error) {
	s.calls++
	var out []models.Book
	for _, id := range ids {
		for _, b := range s.books {
			if b.ID == id {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func errorCode(err error) string {
	if e := appErrors.FromError(err); e != nil {
		return e.Code
	}
	return ""
}
