package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/internal/friends"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
)

type fakeUserRepo struct {
	byID       map[uuid.UUID]*models.User
	byUsername map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:       make(map[uuid.UUID]*models.User),
		byUsername: make(map[string]*models.User),
	}
}

func (f *fakeUserRepo) seed(username string) *models.User {
	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: time.Now().UTC(),
	}
	f.byID[user.ID] = user
	f.byUsername[username] = user
	return user
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if user, ok := f.byUsername[username]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	old, ok := f.byID[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byUsername, old.Username)
	copied := *user
	f.byID[user.ID] = &copied
	f.byUsername[user.Username] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if user, ok := f.byID[id]; ok {
		delete(f.byUsername, user.Username)
		delete(f.byID, id)
	}
	return nil
}

type fakeTripsLister struct {
	rows []models.Trip
}

func (f *fakeTripsLister) ListForUser(_ context.Context, _ uuid.UUID) ([]models.Trip, error) {
	return f.rows, nil
}

type fakeRelationshipsLister struct {
	lists *friends.RelationshipsDTO
}

func (f *fakeRelationshipsLister) ListForUser(_ context.Context, _ uuid.UUID) (*friends.RelationshipsDTO, error) {
	if f.lists == nil {
		return &friends.RelationshipsDTO{
			Friends:  []friends.RelationshipEntryDTO{},
			Incoming: []friends.RelationshipEntryDTO{},
			Outgoing: []friends.RelationshipEntryDTO{},
		}, nil
	}
	return f.lists, nil
}

func mustService(t *testing.T, repo userRepository, trips tripsLister, relationships relationshipsLister) Service {
	t.Helper()
	svc, err := NewService(repo, trips, relationships)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestGetAssemblesAggregate(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.seed("alice")
	lister := &fakeTripsLister{rows: []models.Trip{{ID: uuid.New(), CreatorID: user.ID, Title: "T"}}}
	svc := mustService(t, repo, lister, &fakeRelationshipsLister{})

	detail, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Username != "alice" {
		t.Fatalf("unexpected username %q", detail.Username)
	}
	if len(detail.Trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(detail.Trips))
	}
	if detail.Relationships == nil || detail.Relationships.Friends == nil {
		t.Fatal("relationship lists must be present")
	}
}

func TestGetUnknownUserNotFound(t *testing.T) {
	svc := mustService(t, newFakeUserRepo(), &fakeTripsLister{}, &fakeRelationshipsLister{})

	_, err := svc.Get(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateAppliesPatch(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.seed("alice")
	svc := mustService(t, repo, &fakeTripsLister{}, &fakeRelationshipsLister{})

	bio := "travels a lot"
	dto, err := svc.Update(context.Background(), user.ID, UserPatch{Bio: &bio})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Bio == nil || *dto.Bio != bio {
		t.Fatalf("expected bio to be set, got %v", dto.Bio)
	}
	if dto.Username != "alice" {
		t.Fatalf("username must be untouched, got %q", dto.Username)
	}
}

func TestUpdateEmptyPatchRejected(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.seed("alice")
	svc := mustService(t, repo, &fakeTripsLister{}, &fakeRelationshipsLister{})

	_, err := svc.Update(context.Background(), user.ID, UserPatch{})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateDuplicateUsernameConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.seed("alice")
	repo.seed("bob")
	svc := mustService(t, repo, &fakeTripsLister{}, &fakeRelationshipsLister{})

	taken := "bob"
	_, err := svc.Update(context.Background(), user.ID, UserPatch{Username: &taken})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestUpdateSameUsernameIsNoop(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.seed("alice")
	svc := mustService(t, repo, &fakeTripsLister{}, &fakeRelationshipsLister{})

	same := "alice"
	dto, err := svc.Update(context.Background(), user.ID, UserPatch{Username: &same})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Username != "alice" {
		t.Fatalf("unexpected username %q", dto.Username)
	}
}

func TestDeleteSelfSucceeds(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.seed("alice")
	svc := mustService(t, repo, &fakeTripsLister{}, &fakeRelationshipsLister{})

	if err := svc.Delete(context.Background(), user.ID, user.ID, false); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := svc.Get(context.Background(), user.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteOtherUserForbidden(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.seed("alice")
	svc := mustService(t, repo, &fakeTripsLister{}, &fakeRelationshipsLister{})

	err := svc.Delete(context.Background(), user.ID, uuid.New(), false)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestDeleteByAdminSucceeds(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.seed("alice")
	svc := mustService(t, repo, &fakeTripsLister{}, &fakeRelationshipsLister{})

	if err := svc.Delete(context.Background(), user.ID, uuid.New(), true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
