package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/catalog"
	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/models"
	"github.com/noah-isme/campus-allocator/internal/service"
	"github.com/noah-isme/campus-allocator/pkg/export"
)

// AllocateCmd runs the priority allocator over a course catalog and application list.
type AllocateCmd struct {
	Instance     string `help:"YAML instance with courses, applications and prior selections." type:"path" short:"i"`
	Courses      string `help:"Course catalog CSV." type:"path"`
	Applications string `help:"Application CSV." type:"path"`
	MaxDemands   int    `help:"Largest application batch accepted." default:"5000"`
}

func (c *AllocateCmd) Run(ctx *Context) error {
	inst, err := loadInstance(c.Instance)
	if err != nil {
		return err
	}
	if c.Courses != "" {
		if inst.Courses, err = catalog.LoadCourses(c.Courses, ctx.Comma); err != nil {
			return err
		}
	}
	if c.Applications != "" {
		if inst.Applications, err = catalog.LoadApplications(c.Applications, ctx.Comma); err != nil {
			return err
		}
	}
	if len(inst.Courses) == 0 {
		return errors.New("no courses given: use --instance or --courses")
	}

	svc := service.NewAllocationService(nil, nil, nil, nil, nil, ctx.Logger, service.AllocationConfig{MaxDemands: c.MaxDemands})
	result, err := svc.Allocate(context.Background(), dto.AllocateRequest{
		Courses:      coursePayloads(inst.Courses),
		Applications: applicationPayloads(inst.Applications),
		Prior:        inst.Prior,
	})
	if err != nil {
		return err
	}
	summary := fmt.Sprintf("%d granted, %d rejected", result.Succeeded, result.Failed)
	return ctx.render(result, service.AllocationDataset(result), summary)
}

// ScheduleCmd places activities into venues.
type ScheduleCmd struct {
	Instance      string `help:"YAML instance with venues and activities." type:"path" short:"i"`
	Venues        string `help:"Venue CSV." type:"path"`
	Activities    string `help:"Club activity CSV." type:"path"`
	RequireSeats  bool   `help:"Reject venues smaller than an activity's membership."`
	MaxExhaustive int    `help:"Activities above this count skip the exhaustive search." default:"12"`
	MaxNodes      int    `help:"Candidates the exhaustive search may try before falling back to greedy." default:"2000000"`
}

func (c *ScheduleCmd) Run(ctx *Context) error {
	inst, err := loadInstance(c.Instance)
	if err != nil {
		return err
	}
	if c.Venues != "" {
		if inst.Venues, err = catalog.LoadVenues(c.Venues, ctx.Comma); err != nil {
			return err
		}
	}
	if c.Activities != "" {
		if inst.Activities, err = catalog.LoadActivities(c.Activities, ctx.Comma); err != nil {
			return err
		}
	}
	if len(inst.Venues) == 0 || len(inst.Activities) == 0 {
		return errors.New("venues and activities are both required")
	}

	svc := service.NewActivityScheduleService(nil, nil, nil, nil, ctx.Logger, service.ScheduleConfig{
		MaxExhaustiveActivities: c.MaxExhaustive,
		MaxSearchNodes:          c.MaxNodes,
		TraceSearch:             ctx.Trace,
	})
	result, err := svc.Schedule(context.Background(), dto.ScheduleActivitiesRequest{
		Venues:       venuePayloads(inst.Venues),
		Activities:   activityPayloads(inst.Activities),
		RequireSeats: c.RequireSeats,
	})
	if err != nil {
		return err
	}
	summary := fmt.Sprintf("%d placed, %d unplaced, strategy %s, %d nodes",
		len(result.Placements), len(result.Unplaced), result.Strategy, result.Nodes)
	return ctx.render(result, service.TimetableDataset(result), summary)
}

// PlanCmd orders books to finish reading as early as possible.
type PlanCmd struct {
	Instance      string   `help:"YAML instance with books." type:"path" short:"i"`
	Books         string   `help:"Book CSV." type:"path"`
	Select        []string `help:"Only plan these book ids, in this order." sep:","`
	MaxExhaustive int      `help:"Tasks above this count skip the exhaustive search." default:"8"`
}

func (c *PlanCmd) Run(ctx *Context) error {
	inst, err := loadInstance(c.Instance)
	if err != nil {
		return err
	}
	if c.Books != "" {
		if inst.Books, err = catalog.LoadBooks(c.Books, ctx.Comma); err != nil {
			return err
		}
	}
	books, err := selectBooks(inst.Books, c.Select)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		return errors.New("no books given: use --instance or --books")
	}

	svc := service.NewReadingPlanService(nil, nil, nil, nil, ctx.Logger, service.PlanConfig{
		MaxExhaustiveTasks: c.MaxExhaustive,
		TraceSearch:        ctx.Trace,
	})
	result, err := svc.Plan(context.Background(), dto.ReadingPlanRequest{Tasks: taskPayloads(books)})
	if err != nil {
		return err
	}
	summary := fmt.Sprintf("finishes on day %d, strategy %s", result.Makespan, result.Strategy)
	return ctx.render(result, planDataset(result), summary)
}

func selectBooks(books []models.Book, ids []string) ([]models.Book, error) {
	if len(ids) == 0 {
		return books, nil
	}
	byID := make(map[string]models.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	out := make([]models.Book, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown book %q", id)
		}
		out = append(out, b)
	}
	return out, nil
}

func planDataset(plan *dto.ReadingPlanResponse) export.Dataset {
	data := export.Dataset{
		Title:   "Reading Plan",
		Headers: []string{"task", "title", "start", "end"},
	}
	for _, iv := range plan.Intervals {
		data.Rows = append(data.Rows, map[string]string{
			"task":  iv.TaskID,
			"title": iv.Title,
			"start": strconv.Itoa(iv.Start),
			"end":   strconv.Itoa(iv.End),
		})
	}
	return data
}

// RankCmd recommends a conflict-free course set.
type RankCmd struct {
	Instance string `help:"YAML instance with courses." type:"path" short:"i"`
	Courses  string `help:"Course catalog CSV." type:"path"`
	Ceiling  int    `help:"Credit ceiling." required:""`
	Strategy string `help:"credits, interest, workload, balanced or recommend. Empty ranks with every strategy."`
	Strict   bool   `help:"Never exceed the ceiling."`
}

func (c *RankCmd) Run(ctx *Context) error {
	inst, err := loadInstance(c.Instance)
	if err != nil {
		return err
	}
	if c.Courses != "" {
		if inst.Courses, err = catalog.LoadCourses(c.Courses, ctx.Comma); err != nil {
			return err
		}
	}
	if len(inst.Courses) == 0 {
		return errors.New("no courses given: use --instance or --courses")
	}

	svc := service.NewRecommendationService(nil, nil, nil, ctx.Logger)
	result, err := svc.Recommend(context.Background(), dto.RecommendRequest{
		Courses:  coursePayloads(inst.Courses),
		Ceiling:  c.Ceiling,
		Strategy: c.Strategy,
		Strict:   c.Strict,
	})
	if err != nil {
		return err
	}
	return ctx.render(result, recommendationDataset(result), "")
}

func recommendationDataset(result *dto.RecommendResponse) export.Dataset {
	data := export.Dataset{
		Title:   "Course Recommendations",
		Headers: []string{"strategy", "course", "name", "credits", "slots", "total_credits"},
	}
	for _, rec := range result.Recommendations {
		for _, course := range rec.Courses {
			data.Rows = append(data.Rows, map[string]string{
				"strategy":      string(rec.Strategy),
				"course":        course.ID,
				"name":          course.Name,
				"credits":       strconv.Itoa(course.Credits),
				"slots":         allocator.FormatPeriodSlots(course.Slots),
				"total_credits": strconv.Itoa(rec.TotalCredits),
			})
		}
	}
	return data
}

// TokenCmd issues a signed access token.
type TokenCmd struct {
	User   string        `help:"Subject user id." required:""`
	Role   string        `help:"ADMIN or STUDENT." enum:"ADMIN,STUDENT" default:"STUDENT"`
	Secret string        `help:"Signing secret." env:"JWT_SECRET" required:""`
	Issuer string        `help:"Token issuer." default:"campus-allocator"`
	TTL    time.Duration `help:"Token lifetime." default:"24h"`
}

type issuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (c *TokenCmd) Run(ctx *Context) error {
	svc := service.NewTokenService(service.TokenConfig{Secret: c.Secret, Expiry: c.TTL, Issuer: c.Issuer})
	token, expiresAt, err := svc.Issue(c.User, models.UserRole(c.Role))
	if err != nil {
		return err
	}
	issued := issuedToken{Token: token, ExpiresAt: expiresAt.UTC()}
	data := export.Dataset{
		Headers: []string{"token", "expires_at"},
		Rows:    []map[string]string{{"token": token, "expires_at": issued.ExpiresAt.Format(time.RFC3339)}},
	}
	return ctx.render(issued, data, "")
}
