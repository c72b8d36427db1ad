package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
)

// TripMembership links a user with a trip and captures their role.
type TripMembership struct {
	ID       uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TripID   uuid.UUID        `gorm:"column:trip_id;type:uuid;not null;uniqueIndex:idx_trip_memberships_pair"`
	UserID   uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_trip_memberships_pair"`
	Role     enums.MemberRole `gorm:"column:role;type:member_role;not null"`
	JoinedAt time.Time        `gorm:"column:joined_at;autoCreateTime"`
}
