package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is the single-slot vote a user holds on an activity.
// Value is always -1 or +1; removal deletes the row instead of storing 0.
type Vote struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ActivityID uuid.UUID `gorm:"column:activity_id;type:uuid;not null;uniqueIndex:idx_votes_pair"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_votes_pair"`
	Value      int       `gorm:"column:value;type:smallint;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
