package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/internal/friends"
	"github.com/wanderplanhq/wanderplan-backend/internal/trips"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type tripsLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error)
}

type relationshipsLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) (*friends.RelationshipsDTO, error)
}

// Service manages user profiles and the aggregate profile read.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserDetailDTO, error)
	Update(ctx context.Context, userID uuid.UUID, patch UserPatch) (*UserDTO, error)
	Delete(ctx context.Context, userID, actorID uuid.UUID, actorIsAdmin bool) error
}

type service struct {
	repo          userRepository
	trips         tripsLister
	relationships relationshipsLister
}

// NewService builds a users service with the provided dependencies.
func NewService(repo userRepository, trips tripsLister, relationships relationshipsLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if trips == nil {
		return nil, fmt.Errorf("trips lister required")
	}
	if relationships == nil {
		return nil, fmt.Errorf("relationships lister required")
	}
	return &service{repo: repo, trips: trips, relationships: relationships}, nil
}

// Get assembles the aggregate profile: user fields, the trips they belong
// to, and their three relationship lists.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*UserDetailDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tripRows, err := s.trips.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user trips")
	}
	relationships, err := s.relationships.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tripDTOs := make([]trips.TripDTO, 0, len(tripRows))
	for i := range tripRows {
		tripDTOs = append(tripDTOs, *trips.FromModel(&tripRows[i]))
	}

	return &UserDetailDTO{
		UserDTO:       *FromModel(user),
		Trips:         tripDTOs,
		Relationships: relationships,
	}, nil
}

// Update applies the patch fields present. A username collision with
// another user is a conflict.
func (s *service) Update(ctx context.Context, userID uuid.UUID, patch UserPatch) (*UserDTO, error) {
	if patch.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "username cannot be empty")
		}
		if username != user.Username {
			if _, err := s.repo.FindByUsername(ctx, username); err == nil {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
			}
			user.Username = username
		}
	}
	if patch.Bio != nil {
		user.Bio = patch.Bio
	}
	if patch.PictureURL != nil {
		user.PictureURL = patch.PictureURL
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "users_username_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return FromModel(user), nil
}

// Delete removes the user account. Only the user themselves or an admin
// may delete; memberships, relationships and content cascade away.
func (s *service) Delete(ctx context.Context, userID, actorID uuid.UUID, actorIsAdmin bool) error {
	if userID != actorID && !actorIsAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot delete another user's account")
	}

	if _, err := s.loadUser(ctx, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
