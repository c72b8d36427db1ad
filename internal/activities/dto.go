package activities

import (
	"time"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/internal/votes"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
)

// ActivityDTO is the transport shape for a single activity.
type ActivityDTO struct {
	ID          uuid.UUID              `json:"id"`
	TripID      uuid.UUID              `json:"trip_id"`
	CreatorID   uuid.UUID              `json:"creator_id"`
	Name        string                 `json:"name"`
	Category    enums.ActivityCategory `json:"category"`
	ScheduledAt time.Time              `json:"scheduled_at"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ActivityWithVotesDTO embeds the activity's vote list and tally for the
// trip detail payload. Votes is always a slice, never null.
type ActivityWithVotesDTO struct {
	ActivityDTO
	Votes []votes.VoteDTO `json:"votes"`
	Tally votes.TallyDTO  `json:"tally"`
}

// CreateActivityInput holds the fields required to create an activity.
type CreateActivityInput struct {
	Name        string
	Category    enums.ActivityCategory
	ScheduledAt time.Time
}

// ActivityPatch enumerates the updatable activity fields; each is optional
// and an all-absent patch is rejected.
type ActivityPatch struct {
	Name        *string
	Category    *enums.ActivityCategory
	ScheduledAt *time.Time
}

// Empty reports whether the patch carries no fields.
func (p ActivityPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.ScheduledAt == nil
}

func FromModel(a *models.Activity) *ActivityDTO {
	if a == nil {
		return nil
	}
	return &ActivityDTO{
		ID:          a.ID,
		TripID:      a.TripID,
		CreatorID:   a.CreatorID,
		Name:        a.Name,
		Category:    a.Category,
		ScheduledAt: a.ScheduledAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
