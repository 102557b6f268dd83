package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-allocator/internal/models"
)

// VenueRepository reads venues and the club activities scheduled into them.
type VenueRepository struct {
	db *sqlx.DB
}

// NewVenueRepository constructs the repository.
func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

// List returns venues ordered by name. The order is the venue enumeration order of the
// scheduler.
func (r *VenueRepository) List(ctx context.Context) ([]models.Venue, error) {
	const query = `SELECT name, venue_type, capacity FROM venues ORDER BY name`
	var venues []models.Venue
	if err := r.db.SelectContext(ctx, &venues, query); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

// FindByName returns a single venue.
func (r *VenueRepository) FindByName(ctx context.Context, name string) (*models.Venue, error) {
	query := r.db.Rebind(`SELECT name, venue_type, capacity FROM venues WHERE name = ?`)
	var venue models.Venue
	if err := r.db.GetContext(ctx, &venue, query, name); err != nil {
		return nil, err
	}
	return &venue, nil
}

// ListActivities returns club activities ordered by id.
func (r *VenueRepository) ListActivities(ctx context.Context) ([]models.ClubActivity, error) {
	const query = `SELECT id, name, duration_hours, required_venues, frequency, max_members FROM club_activities ORDER BY id`
	var activities []models.ClubActivity
	if err := r.db.SelectContext(ctx, &activities, query); err != nil {
		return nil, fmt.Errorf("list club activities: %w", err)
	}
	return activities, nil
}
