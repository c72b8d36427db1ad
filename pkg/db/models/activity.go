package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
)

// Activity is a schedulable item inside a trip, votable by trip members.
type Activity struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TripID      uuid.UUID              `gorm:"column:trip_id;type:uuid;not null;index"`
	CreatorID   uuid.UUID              `gorm:"column:creator_id;type:uuid;not null"`
	Name        string                 `gorm:"type:text;not null"`
	Category    enums.ActivityCategory `gorm:"column:category;type:activity_category;not null"`
	ScheduledAt time.Time              `gorm:"column:scheduled_at;not null"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
