package activities

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
)

// Repository exposes activity persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new activity row.
func (r *Repository) Create(ctx context.Context, tripID, creatorID uuid.UUID, input CreateActivityInput) (*models.Activity, error) {
	activity := &models.Activity{
		ID:          uuid.New(),
		TripID:      tripID,
		CreatorID:   creatorID,
		Name:        input.Name,
		Category:    input.Category,
		ScheduledAt: input.ScheduledAt,
	}
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

// FindByID loads an activity by its id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).First(&activity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// Update persists the provided activity model.
func (r *Repository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

// Delete removes the activity row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Activity{}, "id = ?", id).Error
}

// ListForTrip returns the trip's activities ordered by schedule.
func (r *Repository) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error) {
	var rows []models.Activity
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("scheduled_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
