package votes

import (
	"time"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
)

// VoteDTO is the transport shape for a stored vote.
type VoteDTO struct {
	ID         uuid.UUID `json:"id"`
	ActivityID uuid.UUID `json:"activity_id"`
	UserID     uuid.UUID `json:"user_id"`
	Value      int       `json:"value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TallyDTO aggregates a single activity's votes by sign.
type TallyDTO struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// CastResultDTO reports the outcome of a cast operation. Vote is nil when
// the cast removed an existing vote.
type CastResultDTO struct {
	Removed bool     `json:"removed"`
	Vote    *VoteDTO `json:"vote,omitempty"`
}

func FromModel(v *models.Vote) *VoteDTO {
	if v == nil {
		return nil
	}
	return &VoteDTO{
		ID:         v.ID,
		ActivityID: v.ActivityID,
		UserID:     v.UserID,
		Value:      v.Value,
		UpdatedAt:  v.UpdatedAt,
	}
}

// FromModels maps vote rows into DTOs, always returning a non-nil slice.
func FromModels(rows []models.Vote) []VoteDTO {
	out := make([]VoteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
