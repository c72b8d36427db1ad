package votes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
)

// Repository exposes vote persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find retrieves the vote for the (activity, user) pair.
func (r *Repository) Find(ctx context.Context, activityID, userID uuid.UUID) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Create inserts a new vote row.
func (r *Repository) Create(ctx context.Context, activityID, userID uuid.UUID, value int) (*models.Vote, error) {
	vote := &models.Vote{
		ID:         uuid.New(),
		ActivityID: activityID,
		UserID:     userID,
		Value:      value,
	}
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		return nil, err
	}
	return vote, nil
}

// UpdateValue overwrites the stored value and refreshes updated_at.
func (r *Repository) UpdateValue(ctx context.Context, id uuid.UUID, value int) error {
	return r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"value":      value,
			"updated_at": time.Now().UTC(),
		}).Error
}

// Delete removes the vote row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Vote{}, "id = ?", id).Error
}

// Tally counts the activity's votes by sign. Zero counts when no rows exist.
func (r *Repository) Tally(ctx context.Context, activityID uuid.UUID) (*TallyDTO, error) {
	type signCount struct {
		Value int   `gorm:"column:value"`
		N     int64 `gorm:"column:n"`
	}
	var rows []signCount
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("value, COUNT(*) AS n").
		Where("activity_id = ?", activityID).
		Group("value").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	tally := &TallyDTO{}
	for _, row := range rows {
		switch {
		case row.Value > 0:
			tally.Upvotes += int(row.N)
		case row.Value < 0:
			tally.Downvotes += int(row.N)
		}
	}
	return tally, nil
}

// ListForActivities loads all votes for the given activity ids, grouped by
// activity. Activities with no votes are absent from the map.
func (r *Repository) ListForActivities(ctx context.Context, activityIDs []uuid.UUID) (map[uuid.UUID][]models.Vote, error) {
	grouped := make(map[uuid.UUID][]models.Vote)
	if len(activityIDs) == 0 {
		return grouped, nil
	}

	var rows []models.Vote
	err := r.db.WithContext(ctx).
		Where("activity_id IN ?", activityIDs).
		Order("updated_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		grouped[row.ActivityID] = append(grouped[row.ActivityID], row)
	}
	return grouped, nil
}
