package trips

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/internal/activities"
	"github.com/wanderplanhq/wanderplan-backend/internal/comments"
	"github.com/wanderplanhq/wanderplan-backend/internal/memberships"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
	"github.com/wanderplanhq/wanderplan-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type tripRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID, input CreateTripInput) (*models.Trip, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListVisible(ctx context.Context, opts listQuery) ([]models.Trip, error)
}

type membershipRepository interface {
	Create(ctx context.Context, tripID, userID uuid.UUID, role enums.MemberRole) (*models.TripMembership, error)
	CreateTx(ctx context.Context, tx *gorm.DB, tripID, userID uuid.UUID, role enums.MemberRole) (*models.TripMembership, error)
	Exists(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, tripID, userID uuid.UUID) error
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]memberships.TripMemberDTO, error)
}

type activityAssembler interface {
	ListWithVotes(ctx context.Context, tripID uuid.UUID) ([]activities.ActivityWithVotesDTO, error)
}

type commentsLister interface {
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]comments.CommentDTO, error)
}

type friendChecker interface {
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// Service drives the trip lifecycle, its member management, and the nested
// trip detail assembly.
type Service interface {
	Create(ctx context.Context, creatorID uuid.UUID, input CreateTripInput) (*TripDTO, error)
	Get(ctx context.Context, tripID, viewerID uuid.UUID) (*TripDetailDTO, error)
	CanView(ctx context.Context, tripID, viewerID uuid.UUID) (bool, error)
	Update(ctx context.Context, tripID, actorID uuid.UUID, patch TripPatch) (*TripDTO, error)
	Delete(ctx context.Context, tripID, actorID uuid.UUID) error
	List(ctx context.Context, viewerID uuid.UUID, params pagination.Params) (*TripListDTO, error)
	ListMembers(ctx context.Context, tripID uuid.UUID) ([]memberships.TripMemberDTO, error)
	AddMember(ctx context.Context, tripID, actorID, userID uuid.UUID, role enums.MemberRole) (*memberships.MembershipDTO, error)
	RemoveMember(ctx context.Context, tripID, actorID, userID uuid.UUID) error
}

// ServiceParams packages the trips service dependencies.
type ServiceParams struct {
	TxRunner    txRunner
	Repo        tripRepository
	Memberships membershipRepository
	Activities  activityAssembler
	Comments    commentsLister
	Friends     friendChecker
}

type service struct {
	tx          txRunner
	repo        tripRepository
	memberships membershipRepository
	activities  activityAssembler
	comments    commentsLister
	friends     friendChecker
}

// NewService builds a trips service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "trip repository required")
	}
	if params.Memberships == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "membership repository required")
	}
	if params.Activities == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "activities assembler required")
	}
	if params.Comments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "comments lister required")
	}
	if params.Friends == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "friend checker required")
	}
	return &service{
		tx:          params.TxRunner,
		repo:        params.Repo,
		memberships: params.Memberships,
		activities:  params.Activities,
		comments:    params.Comments,
		friends:     params.Friends,
	}, nil
}

// Create inserts the trip and its creator's owner membership as one
// transaction. A trip must never exist without its owner row.
func (s *service) Create(ctx context.Context, creatorID uuid.UUID, input CreateTripInput) (*TripDTO, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Destination = strings.TrimSpace(input.Destination)
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip title is required")
	}
	if input.Destination == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip destination is required")
	}
	if input.RadiusKM < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "radius_km cannot be negative")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date are required")
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date must not precede start_date")
	}

	var trip *models.Trip
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.CreateTx(ctx, tx, creatorID, input)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create trip")
		}
		if _, err := s.memberships.CreateTx(ctx, tx, created.ID, creatorID, enums.MemberRoleOwner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create owner membership")
		}
		trip = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create trip transaction")
	}
	return FromModel(trip), nil
}

// Get assembles the nested trip payload. Private trips are visible to
// members only; public trips to any authenticated user.
func (s *service) Get(ctx context.Context, tripID, viewerID uuid.UUID) (*TripDetailDTO, error) {
	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if err := s.checkVisible(ctx, trip, viewerID); err != nil {
		return nil, err
	}

	members, err := s.memberships.ListForTrip(ctx, tripID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trip members")
	}
	acts, err := s.activities.ListWithVotes(ctx, tripID)
	if err != nil {
		return nil, err
	}
	comms, err := s.comments.ListForTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if members == nil {
		members = []memberships.TripMemberDTO{}
	}
	if acts == nil {
		acts = []activities.ActivityWithVotesDTO{}
	}
	if comms == nil {
		comms = []comments.CommentDTO{}
	}

	return &TripDetailDTO{
		TripDTO:    *FromModel(trip),
		Members:    members,
		Activities: acts,
		Comments:   comms,
	}, nil
}

// CanView reports whether the viewer may read the trip's contents.
// NOT_FOUND for unknown trips so guards surface the same error as reads.
func (s *service) CanView(ctx context.Context, tripID, viewerID uuid.UUID) (bool, error) {
	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return false, err
	}
	if !trip.IsPrivate {
		return true, nil
	}
	member, err := s.memberships.Exists(ctx, tripID, viewerID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	return member, nil
}

func (s *service) checkVisible(ctx context.Context, trip *models.Trip, viewerID uuid.UUID) error {
	if !trip.IsPrivate {
		return nil
	}
	member, err := s.memberships.Exists(ctx, trip.ID, viewerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !member {
		return pkgerrors.New(pkgerrors.CodeForbidden, "trip is private")
	}
	return nil
}

// Update applies the patch fields present. Any member may update a trip.
func (s *service) Update(ctx context.Context, tripID, actorID uuid.UUID, patch TripPatch) (*TripDTO, error) {
	if patch.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if err := s.requireMember(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip title cannot be empty")
		}
		trip.Title = title
	}
	if patch.Destination != nil {
		destination := strings.TrimSpace(*patch.Destination)
		if destination == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip destination cannot be empty")
		}
		trip.Destination = destination
	}
	if patch.RadiusKM != nil {
		if *patch.RadiusKM < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "radius_km cannot be negative")
		}
		trip.RadiusKM = *patch.RadiusKM
	}
	if patch.StartDate != nil {
		trip.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		trip.EndDate = *patch.EndDate
	}
	if trip.EndDate.Before(trip.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date must not precede start_date")
	}
	if patch.IsPrivate != nil {
		trip.IsPrivate = *patch.IsPrivate
	}

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update trip")
	}
	return FromModel(trip), nil
}

// Delete removes the trip and everything under it. Owner only.
func (s *service) Delete(ctx context.Context, tripID, actorID uuid.UUID) error {
	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.CreatorID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the trip owner can delete it")
	}
	if err := s.repo.Delete(ctx, tripID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete trip")
	}
	return nil
}

// List returns a cursor-paginated page of trips visible to the viewer.
func (s *service) List(ctx context.Context, viewerID uuid.UUID, params pagination.Params) (*TripListDTO, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := listQuery{
		viewerID: viewerID,
		limit:    pagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.ListVisible(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trips")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	trips := make([]TripDTO, 0, len(rows))
	for i := range rows {
		trips = append(trips, *FromModel(&rows[i]))
	}
	return &TripListDTO{Trips: trips, NextCursor: nextCursor}, nil
}

// ListMembers returns the trip's members with profile columns.
func (s *service) ListMembers(ctx context.Context, tripID uuid.UUID) ([]memberships.TripMemberDTO, error) {
	if _, err := s.loadTrip(ctx, tripID); err != nil {
		return nil, err
	}
	members, err := s.memberships.ListForTrip(ctx, tripID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trip members")
	}
	return members, nil
}

// AddMember inserts a membership. Only the owner may add, and only users
// who are accepted friends of the owner.
func (s *service) AddMember(ctx context.Context, tripID, actorID, userID uuid.UUID, role enums.MemberRole) (*memberships.MembershipDTO, error) {
	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.CreatorID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the trip owner can add members")
	}

	if role == "" {
		role = enums.MemberRoleMember
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid member role")
	}

	friends, err := s.friends.AreFriends(ctx, actorID, userID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "can only add accepted friends to a trip")
	}

	exists, err := s.memberships.Exists(ctx, tripID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a trip member")
	}

	membership, err := s.memberships.Create(ctx, tripID, userID, role)
	if err != nil {
		if db.IsUniqueViolation(err, "trip_memberships_trip_user_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a trip member")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}
	return memberships.FromModel(membership), nil
}

// RemoveMember deletes a membership by the (trip, user) composite. Owner
// only; the owner's own membership row is not removable.
func (s *service) RemoveMember(ctx context.Context, tripID, actorID, userID uuid.UUID) error {
	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.CreatorID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the trip owner can remove members")
	}
	if userID == actorID {
		return pkgerrors.New(pkgerrors.CodeValidation, "the owner cannot remove their own membership")
	}

	if err := s.memberships.Delete(ctx, tripID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete membership")
	}
	return nil
}

func (s *service) loadTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := s.repo.FindByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}
	return trip, nil
}

func (s *service) requireMember(ctx context.Context, tripID, userID uuid.UUID) error {
	member, err := s.memberships.Exists(ctx, tripID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !member {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a trip member")
	}
	return nil
}
