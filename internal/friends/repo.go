package friends

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
)

// Repository exposes friendship persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a pending friendship with the given sender/recipient order.
func (r *Repository) Create(ctx context.Context, senderID, recipientID uuid.UUID) (*models.Friendship, error) {
	friendship := &models.Friendship{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      enums.FriendshipStatusPending,
	}
	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		return nil, err
	}
	return friendship, nil
}

// FindByID loads a friendship row by its id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).First(&friendship, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

// FindPair retrieves the relationship row for the unordered pair, if any.
func (r *Repository) FindPair(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		First(&friendship).Error
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// UpdateStatus transitions the row's status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.FriendshipStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes the friendship row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Friendship{}, "id = ?", id).Error
}

// AcceptedExists reports whether an accepted row exists for the unordered pair.
func (r *Repository) AcceptedExists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("status = ?", enums.FriendshipStatusAccepted).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForUser returns every relationship row the user participates in,
// joined with both parties' usernames and picture URLs.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]FriendshipWithUsers, error) {
	var rows []FriendshipWithUsers
	err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Select(`friendships.*,
			senders.username AS sender_username,
			senders.picture_url AS sender_picture_url,
			recipients.username AS recipient_username,
			recipients.picture_url AS recipient_picture_url`).
		Joins("JOIN users senders ON senders.id = friendships.sender_id").
		Joins("JOIN users recipients ON recipients.id = friendships.recipient_id").
		Where("friendships.sender_id = ? OR friendships.recipient_id = ?", userID, userID).
		Order("friendships.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
