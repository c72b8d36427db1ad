package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
)

// MembershipDTO is the transport shape for a single membership row.
type MembershipDTO struct {
	ID       uuid.UUID        `json:"id"`
	TripID   uuid.UUID        `json:"trip_id"`
	UserID   uuid.UUID        `json:"user_id"`
	Role     enums.MemberRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
}

// TripMemberDTO pairs a membership with the member's profile columns.
type TripMemberDTO struct {
	UserID     uuid.UUID        `json:"user_id"`
	Username   string           `json:"username"`
	PictureURL *string          `json:"picture_url,omitempty"`
	Role       enums.MemberRole `json:"role"`
	JoinedAt   time.Time        `json:"joined_at"`
}

type tripMemberRow struct {
	models.TripMembership
	Username   string  `gorm:"column:username"`
	PictureURL *string `gorm:"column:picture_url"`
}

func FromModel(m *models.TripMembership) *MembershipDTO {
	if m == nil {
		return nil
	}
	return &MembershipDTO{
		ID:       m.ID,
		TripID:   m.TripID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

func memberRowsToDTO(rows []tripMemberRow) []TripMemberDTO {
	out := make([]TripMemberDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, TripMemberDTO{
			UserID:     row.UserID,
			Username:   row.Username,
			PictureURL: row.PictureURL,
			Role:       row.Role,
			JoinedAt:   row.JoinedAt,
		})
	}
	return out
}
