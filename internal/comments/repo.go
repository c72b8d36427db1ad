package comments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
)

// Repository exposes comment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new comment row.
func (r *Repository) Create(ctx context.Context, tripID, userID uuid.UUID, body string) (*models.Comment, error) {
	comment := &models.Comment{
		ID:     uuid.New(),
		TripID: tripID,
		UserID: userID,
		Body:   body,
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// FindByID loads a comment by its id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes the comment row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}

// ListForTrip returns the trip's comments with author profile columns,
// oldest first.
func (r *Repository) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]CommentDTO, error) {
	var rows []commentWithAuthorRow
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("comments.*, users.username AS author_username, users.picture_url AS author_picture_url").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.trip_id = ?", tripID).
		Order("comments.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToDTO(rows), nil
}
