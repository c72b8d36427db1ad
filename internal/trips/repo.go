package trips

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/pagination"
)

// Repository exposes trip persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts a trip row using the supplied transaction handle. Trip
// creation always runs inside a transaction so the owner membership row
// lands atomically with it.
func (r *Repository) CreateTx(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID, input CreateTripInput) (*models.Trip, error) {
	trip := &models.Trip{
		ID:          uuid.New(),
		CreatorID:   creatorID,
		Title:       input.Title,
		Destination: input.Destination,
		RadiusKM:    input.RadiusKM,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsPrivate:   input.IsPrivate,
	}
	if err := tx.WithContext(ctx).Create(trip).Error; err != nil {
		return nil, err
	}
	return trip, nil
}

// FindByID loads a trip by its id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// Update persists the provided trip model.
func (r *Repository) Update(ctx context.Context, trip *models.Trip) error {
	return r.db.WithContext(ctx).Save(trip).Error
}

// Delete removes the trip row; memberships, activities, votes and comments
// follow via the cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Trip{}, "id = ?", id).Error
}

type listQuery struct {
	viewerID uuid.UUID
	limit    int
	cursor   *pagination.Cursor
}

// ListVisible returns public trips plus the viewer's own trips, newest
// first, using cursor pagination.
func (r *Repository) ListVisible(ctx context.Context, opts listQuery) ([]models.Trip, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Where("trips.is_private = ? OR trips.id IN (?)",
			false,
			r.db.Model(&models.TripMembership{}).
				Select("trip_id").
				Where("user_id = ?", opts.viewerID),
		)

	if opts.cursor != nil {
		query = query.Where("(trips.created_at < ?) OR (trips.created_at = ? AND trips.id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("trips.created_at DESC").Order("trips.id DESC").Limit(opts.limit)

	var rows []models.Trip
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListForUser returns every trip the user is a member of, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	var rows []models.Trip
	err := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Joins("JOIN trip_memberships ON trip_memberships.trip_id = trips.id").
		Where("trip_memberships.user_id = ?", userID).
		Order("trips.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
