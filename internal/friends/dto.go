package friends

import (
	"time"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
)

// FriendshipDTO is the transport shape for a single relationship row.
type FriendshipDTO struct {
	ID          uuid.UUID              `json:"id"`
	SenderID    uuid.UUID              `json:"sender_id"`
	RecipientID uuid.UUID              `json:"recipient_id"`
	Status      enums.FriendshipStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// RelationshipEntryDTO pairs a relationship with the counterpart user as
// seen from the querying user's side.
type RelationshipEntryDTO struct {
	FriendshipID uuid.UUID `json:"friendship_id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	PictureURL   *string   `json:"picture_url,omitempty"`
	Since        time.Time `json:"since"`
}

// RelationshipsDTO holds the three disjoint lists returned by ListForUser.
type RelationshipsDTO struct {
	Friends  []RelationshipEntryDTO `json:"friends"`
	Incoming []RelationshipEntryDTO `json:"incoming_requests"`
	Outgoing []RelationshipEntryDTO `json:"outgoing_requests"`
}

// FriendshipWithUsers is a friendship row joined with both usernames.
type FriendshipWithUsers struct {
	models.Friendship
	SenderUsername      string  `gorm:"column:sender_username"`
	RecipientUsername   string  `gorm:"column:recipient_username"`
	SenderPictureURL    *string `gorm:"column:sender_picture_url"`
	RecipientPictureURL *string `gorm:"column:recipient_picture_url"`
}

func FromModel(f *models.Friendship) *FriendshipDTO {
	if f == nil {
		return nil
	}
	return &FriendshipDTO{
		ID:          f.ID,
		SenderID:    f.SenderID,
		RecipientID: f.RecipientID,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
