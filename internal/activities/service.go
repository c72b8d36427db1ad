package activities

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/internal/votes"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
)

type activityRepository interface {
	Create(ctx context.Context, tripID, creatorID uuid.UUID, input CreateActivityInput) (*models.Activity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error)
}

type tripsRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
}

type votesLister interface {
	ListForActivities(ctx context.Context, activityIDs []uuid.UUID) (map[uuid.UUID][]models.Vote, error)
}

// Service manages the activities scheduled inside a trip. Membership checks
// happen at the route guard; the service validates inputs and existence.
type Service interface {
	Create(ctx context.Context, tripID, creatorID uuid.UUID, input CreateActivityInput) (*ActivityDTO, error)
	Get(ctx context.Context, activityID uuid.UUID) (*ActivityDTO, error)
	Update(ctx context.Context, tripID, activityID uuid.UUID, patch ActivityPatch) (*ActivityDTO, error)
	Delete(ctx context.Context, tripID, activityID uuid.UUID) error
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]ActivityDTO, error)
	ListWithVotes(ctx context.Context, tripID uuid.UUID) ([]ActivityWithVotesDTO, error)
}

type service struct {
	repo  activityRepository
	trips tripsRepository
	votes votesLister
}

// NewService builds an activities service with the provided repositories.
func NewService(repo activityRepository, trips tripsRepository, votes votesLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	if trips == nil {
		return nil, fmt.Errorf("trips repository required")
	}
	if votes == nil {
		return nil, fmt.Errorf("votes repository required")
	}
	return &service{repo: repo, trips: trips, votes: votes}, nil
}

// Create validates the input and inserts the activity into the trip.
func (s *service) Create(ctx context.Context, tripID, creatorID uuid.UUID, input CreateActivityInput) (*ActivityDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity name is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid activity category")
	}
	if input.ScheduledAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_at is required")
	}

	if _, err := s.trips.FindByID(ctx, tripID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}

	activity, err := s.repo.Create(ctx, tripID, creatorID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create activity")
	}
	return FromModel(activity), nil
}

// Get loads a single activity.
func (s *service) Get(ctx context.Context, activityID uuid.UUID) (*ActivityDTO, error) {
	activity, err := s.loadActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	return FromModel(activity), nil
}

// Update applies the patch fields present; an all-absent patch is rejected.
func (s *service) Update(ctx context.Context, tripID, activityID uuid.UUID, patch ActivityPatch) (*ActivityDTO, error) {
	if patch.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	activity, err := s.loadTripActivity(ctx, tripID, activityID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity name cannot be empty")
		}
		activity.Name = name
	}
	if patch.Category != nil {
		if !patch.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid activity category")
		}
		activity.Category = *patch.Category
	}
	if patch.ScheduledAt != nil {
		if patch.ScheduledAt.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_at cannot be empty")
		}
		activity.ScheduledAt = *patch.ScheduledAt
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update activity")
	}
	return FromModel(activity), nil
}

// Delete removes the activity; its votes go with it via the cascade.
func (s *service) Delete(ctx context.Context, tripID, activityID uuid.UUID) error {
	if _, err := s.loadTripActivity(ctx, tripID, activityID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, activityID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete activity")
	}
	return nil
}

// ListForTrip returns the trip's activities without vote data.
func (s *service) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]ActivityDTO, error) {
	rows, err := s.repo.ListForTrip(ctx, tripID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activities")
	}
	out := make([]ActivityDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// ListWithVotes fans out to the vote rows for each activity. Activities
// with no votes carry an empty slice, never null.
func (s *service) ListWithVotes(ctx context.Context, tripID uuid.UUID) ([]ActivityWithVotesDTO, error) {
	rows, err := s.repo.ListForTrip(ctx, tripID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activities")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	grouped, err := s.votes.ListForActivities(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list votes")
	}

	out := make([]ActivityWithVotesDTO, 0, len(rows))
	for i := range rows {
		entry := ActivityWithVotesDTO{
			ActivityDTO: *FromModel(&rows[i]),
			Votes:       votes.FromModels(grouped[rows[i].ID]),
		}
		for _, vote := range entry.Votes {
			if vote.Value > 0 {
				entry.Tally.Upvotes++
			} else if vote.Value < 0 {
				entry.Tally.Downvotes++
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *service) loadActivity(ctx context.Context, activityID uuid.UUID) (*models.Activity, error) {
	activity, err := s.repo.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load activity")
	}
	return activity, nil
}

// loadTripActivity hides activities outside the addressed trip behind
// NOT_FOUND so cross-trip ids cannot be probed.
func (s *service) loadTripActivity(ctx context.Context, tripID, activityID uuid.UUID) (*models.Activity, error) {
	activity, err := s.loadActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity.TripID != tripID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
	}
	return activity, nil
}
