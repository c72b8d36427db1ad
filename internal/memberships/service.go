package memberships

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
)

type membershipRepository interface {
	Create(ctx context.Context, tripID, userID uuid.UUID, role enums.MemberRole) (*models.TripMembership, error)
	Get(ctx context.Context, tripID, userID uuid.UUID) (*models.TripMembership, error)
	Delete(ctx context.Context, tripID, userID uuid.UUID) error
	Exists(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	TripOwnedBy(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]TripMemberDTO, error)
}

// Service answers membership and ownership queries and mutates membership
// rows. Route guards and the trips service both consume it.
type Service interface {
	Add(ctx context.Context, tripID, userID uuid.UUID, role enums.MemberRole) (*MembershipDTO, error)
	Remove(ctx context.Context, tripID, userID uuid.UUID) error
	Get(ctx context.Context, tripID, userID uuid.UUID) (*MembershipDTO, error)
	IsMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	IsOwner(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]TripMemberDTO, error)
}

type service struct {
	repo membershipRepository
}

// NewService builds a memberships service with the provided repository.
func NewService(repo membershipRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("membership repository required")
	}
	return &service{repo: repo}, nil
}

// Add inserts a membership row. Duplicate pairs conflict, including the
// unique-constraint race between two concurrent adds.
func (s *service) Add(ctx context.Context, tripID, userID uuid.UUID, role enums.MemberRole) (*MembershipDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid member role")
	}

	exists, err := s.repo.Exists(ctx, tripID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a trip member")
	}

	membership, err := s.repo.Create(ctx, tripID, userID, role)
	if err != nil {
		if db.IsUniqueViolation(err, "trip_memberships_trip_user_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a trip member")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}
	return FromModel(membership), nil
}

// Remove deletes the membership addressed by the (trip, user) composite.
func (s *service) Remove(ctx context.Context, tripID, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, tripID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete membership")
	}
	return nil
}

// Get returns the membership row or an explicit not-found. Callers that
// need to distinguish a missing trip or user must check those separately.
func (s *service) Get(ctx context.Context, tripID, userID uuid.UUID) (*MembershipDTO, error) {
	membership, err := s.repo.Get(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return FromModel(membership), nil
}

// IsMember reports whether the user holds any membership row on the trip.
func (s *service) IsMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	ok, err := s.repo.Exists(ctx, tripID, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	return ok, nil
}

// IsOwner reports whether the trip exists and is created by the user.
// False for unknown ids, never an error.
func (s *service) IsOwner(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	ok, err := s.repo.TripOwnedBy(ctx, tripID, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check trip ownership")
	}
	return ok, nil
}

// ListForTrip returns the trip's members joined with profile columns.
func (s *service) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]TripMemberDTO, error) {
	members, err := s.repo.ListForTrip(ctx, tripID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trip members")
	}
	return members, nil
}
