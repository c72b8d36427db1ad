package trips

import (
	"time"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/internal/activities"
	"github.com/wanderplanhq/wanderplan-backend/internal/comments"
	"github.com/wanderplanhq/wanderplan-backend/internal/memberships"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
)

// TripDTO is the transport shape for a single trip row.
type TripDTO struct {
	ID          uuid.UUID `json:"id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	RadiusKM    float64   `json:"radius_km"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TripDetailDTO is the nested trip payload assembled by Get.
type TripDetailDTO struct {
	TripDTO
	Members    []memberships.TripMemberDTO       `json:"members"`
	Activities []activities.ActivityWithVotesDTO `json:"activities"`
	Comments   []comments.CommentDTO             `json:"comments"`
}

// TripListDTO is a cursor-paginated page of trips.
type TripListDTO struct {
	Trips      []TripDTO `json:"trips"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// CreateTripInput holds the fields required to create a trip.
type CreateTripInput struct {
	Title       string
	Destination string
	RadiusKM    float64
	StartDate   time.Time
	EndDate     time.Time
	IsPrivate   bool
}

// TripPatch enumerates the updatable trip fields; each is optional and an
// all-absent patch is rejected.
type TripPatch struct {
	Title       *string
	Destination *string
	RadiusKM    *float64
	StartDate   *time.Time
	EndDate     *time.Time
	IsPrivate   *bool
}

// Empty reports whether the patch carries no fields.
func (p TripPatch) Empty() bool {
	return p.Title == nil && p.Destination == nil && p.RadiusKM == nil &&
		p.StartDate == nil && p.EndDate == nil && p.IsPrivate == nil
}

func FromModel(t *models.Trip) *TripDTO {
	if t == nil {
		return nil
	}
	return &TripDTO{
		ID:          t.ID,
		CreatorID:   t.CreatorID,
		Title:       t.Title,
		Destination: t.Destination,
		RadiusKM:    t.RadiusKM,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		IsPrivate:   t.IsPrivate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
