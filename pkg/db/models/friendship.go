package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
)

// Friendship records a directional friend request between two users.
// The (sender, recipient) order is fixed at creation; reverse duplicates
// are rejected at the service layer with an unordered-pair lookup.
type Friendship struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SenderID    uuid.UUID              `gorm:"column:sender_id;type:uuid;not null;uniqueIndex:idx_friendships_pair"`
	RecipientID uuid.UUID              `gorm:"column:recipient_id;type:uuid;not null;uniqueIndex:idx_friendships_pair"`
	Status      enums.FriendshipStatus `gorm:"column:status;type:friendship_status;not null;default:'pending'"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
