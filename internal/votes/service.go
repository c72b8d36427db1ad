package votes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
)

type voteRepository interface {
	Find(ctx context.Context, activityID, userID uuid.UUID) (*models.Vote, error)
	Create(ctx context.Context, activityID, userID uuid.UUID, value int) (*models.Vote, error)
	UpdateValue(ctx context.Context, id uuid.UUID, value int) error
	Delete(ctx context.Context, id uuid.UUID) error
	Tally(ctx context.Context, activityID uuid.UUID) (*TallyDTO, error)
}

type activitiesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
}

// Service maintains the single-slot vote each user holds on an activity.
type Service interface {
	Cast(ctx context.Context, userID, tripID, activityID uuid.UUID, value int) (*CastResultDTO, error)
	Tally(ctx context.Context, activityID uuid.UUID) (*TallyDTO, error)
}

type service struct {
	repo       voteRepository
	activities activitiesRepository
}

// NewService builds a votes service with the provided repositories.
func NewService(repo voteRepository, activities activitiesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vote repository required")
	}
	if activities == nil {
		return nil, fmt.Errorf("activities repository required")
	}
	return &service{repo: repo, activities: activities}, nil
}

// Cast applies one of three outcomes for the (user, activity) slot: insert
// a new vote, overwrite the stored value, or delete when value is zero.
// Zero is a removal command, never a stored state.
func (s *service) Cast(ctx context.Context, userID, tripID, activityID uuid.UUID, value int) (*CastResultDTO, error) {
	if value < -1 || value > 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vote value must be -1, 0 or 1")
	}

	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load activity")
	}
	// Activities outside the addressed trip stay invisible.
	if activity.TripID != tripID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
	}

	existing, err := s.repo.Find(ctx, activityID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vote")
	}

	if existing == nil {
		if value == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "no vote to remove")
		}
		vote, err := s.repo.Create(ctx, activityID, userID, value)
		if err != nil {
			if db.IsUniqueViolation(err, "votes_activity_user_key") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "vote already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vote")
		}
		return &CastResultDTO{Vote: FromModel(vote)}, nil
	}

	if value == 0 {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vote")
		}
		return &CastResultDTO{Removed: true}, nil
	}

	if err := s.repo.UpdateValue(ctx, existing.ID, value); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vote")
	}
	existing.Value = value
	return &CastResultDTO{Vote: FromModel(existing)}, nil
}

// Tally returns the activity's up/down counts. An activity with no votes
// tallies to zeroes rather than an error.
func (s *service) Tally(ctx context.Context, activityID uuid.UUID) (*TallyDTO, error) {
	tally, err := s.repo.Tally(ctx, activityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "tally votes")
	}
	return tally, nil
}
