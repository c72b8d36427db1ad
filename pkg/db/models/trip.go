package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a shared travel-planning container owned by its creator.
type Trip struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID   uuid.UUID `gorm:"column:creator_id;type:uuid;not null"`
	Title       string    `gorm:"type:text;not null"`
	Destination string    `gorm:"type:text;not null"`
	RadiusKM    float64   `gorm:"column:radius_km;not null;default:0"`
	StartDate   time.Time `gorm:"column:start_date;not null"`
	EndDate     time.Time `gorm:"column:end_date;not null"`
	IsPrivate   bool      `gorm:"column:is_private;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
