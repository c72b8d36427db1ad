package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
)

// Repository exposes trip membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a membership row for the (trip, user) pair.
func (r *Repository) Create(ctx context.Context, tripID, userID uuid.UUID, role enums.MemberRole) (*models.TripMembership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}
	membership := &models.TripMembership{
		ID:     uuid.New(),
		TripID: tripID,
		UserID: userID,
		Role:   role,
	}
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// CreateTx inserts a membership using the supplied transaction handle.
func (r *Repository) CreateTx(ctx context.Context, tx *gorm.DB, tripID, userID uuid.UUID, role enums.MemberRole) (*models.TripMembership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}
	membership := &models.TripMembership{
		ID:     uuid.New(),
		TripID: tripID,
		UserID: userID,
		Role:   role,
	}
	if err := tx.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// Get retrieves the membership for the (trip, user) pair.
func (r *Repository) Get(ctx context.Context, tripID, userID uuid.UUID) (*models.TripMembership, error) {
	var membership models.TripMembership
	err := r.db.WithContext(ctx).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Delete removes the membership addressed by the (trip, user) composite.
// It reports gorm.ErrRecordNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, tripID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		Delete(&models.TripMembership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists reports whether a membership row exists for the (trip, user) pair.
func (r *Repository) Exists(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TripMembership{}).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// TripOwnedBy reports whether the trip row exists with the given creator.
// Unknown trip or user ids yield false, not an error.
func (r *Repository) TripOwnedBy(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Where("id = ? AND creator_id = ?", tripID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForTrip returns all members of a trip with their profile columns.
func (r *Repository) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]TripMemberDTO, error) {
	var rows []tripMemberRow
	err := r.db.WithContext(ctx).
		Model(&models.TripMembership{}).
		Select("trip_memberships.*, users.username AS username, users.picture_url AS picture_url").
		Joins("JOIN users ON users.id = trip_memberships.user_id").
		Where("trip_memberships.trip_id = ?", tripID).
		Order("trip_memberships.joined_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return memberRowsToDTO(rows), nil
}

// ListTripIDsForUser returns the ids of every trip the user belongs to.
func (r *Repository) ListTripIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.TripMembership{}).
		Where("user_id = ?", userID).
		Pluck("trip_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
