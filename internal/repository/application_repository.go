package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-allocator/internal/models"
)

const applicationColumns = `id, requester_id, course_id, priority, submitted_at, created_at`

// ApplicationRepository persists course applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// List returns every stored application in submission order.
func (r *ApplicationRepository) List(ctx context.Context) ([]models.CourseApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM course_applications ORDER BY submitted_at, id`
	var apps []models.CourseApplication
	if err := r.db.SelectContext(ctx, &apps, query); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ListByRequester returns the applications of one requester.
func (r *ApplicationRepository) ListByRequester(ctx context.Context, requesterID string) ([]models.CourseApplication, error) {
	query := r.db.Rebind(`SELECT ` + applicationColumns + ` FROM course_applications WHERE requester_id = ? ORDER BY submitted_at, id`)
	var apps []models.CourseApplication
	if err := r.db.SelectContext(ctx, &apps, query, requesterID); err != nil {
		return nil, fmt.Errorf("list applications for %s: %w", requesterID, err)
	}
	return apps, nil
}

// FindByID returns one application.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.CourseApplication, error) {
	query := r.db.Rebind(`SELECT ` + applicationColumns + ` FROM course_applications WHERE id = ?`)
	var app models.CourseApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// Create inserts an application, assigning id and timestamps when missing.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.CourseApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	if app.SubmittedAt == 0 {
		app.SubmittedAt = now.UnixMilli()
	}

	const query = `INSERT INTO course_applications (id, requester_id, course_id, priority, submitted_at, created_at)
		VALUES (:id, :requester_id, :course_id, :priority, :submitted_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// Delete removes an application. It returns sql.ErrNoRows when nothing matched.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM course_applications WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
