package friends

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
)

type fakeFriendshipRepo struct {
	rows map[uuid.UUID]*models.Friendship

	createErr error
	listRows  []FriendshipWithUsers
	listErr   error
}

func newFakeFriendshipRepo() *fakeFriendshipRepo {
	return &fakeFriendshipRepo{rows: make(map[uuid.UUID]*models.Friendship)}
}

func (f *fakeFriendshipRepo) seed(senderID, recipientID uuid.UUID, status enums.FriendshipStatus) *models.Friendship {
	row := &models.Friendship{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	f.rows[row.ID] = row
	return row
}

func (f *fakeFriendshipRepo) Create(_ context.Context, senderID, recipientID uuid.UUID) (*models.Friendship, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.seed(senderID, recipientID, enums.FriendshipStatusPending), nil
}

func (f *fakeFriendshipRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Friendship, error) {
	if row, ok := f.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFriendshipRepo) FindPair(_ context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	for _, row := range f.rows {
		if (row.SenderID == a && row.RecipientID == b) || (row.SenderID == b && row.RecipientID == a) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFriendshipRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.FriendshipStatus) error {
	row, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Status = status
	return nil
}

func (f *fakeFriendshipRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeFriendshipRepo) AcceptedExists(_ context.Context, a, b uuid.UUID) (bool, error) {
	for _, row := range f.rows {
		if row.Status != enums.FriendshipStatusAccepted {
			continue
		}
		if (row.SenderID == a && row.RecipientID == b) || (row.SenderID == b && row.RecipientID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriendshipRepo) ListForUser(_ context.Context, _ uuid.UUID) ([]FriendshipWithUsers, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listRows, nil
}

type fakeUsersRepo struct {
	known map[uuid.UUID]bool
}

func (f *fakeUsersRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if f.known[id] {
		return &models.User{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func usersWith(ids ...uuid.UUID) *fakeUsersRepo {
	known := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &fakeUsersRepo{known: known}
}

func mustService(t *testing.T, repo friendshipRepository, users usersRepository) Service {
	t.Helper()
	svc, err := NewService(repo, users)
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

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, usersWith()); err == nil {
		t.Fatal("expected error creating service without friendship repo")
	}
	if _, err := NewService(newFakeFriendshipRepo(), nil); err == nil {
		t.Fatal("expected error creating service without users repo")
	}
}

func TestSendCreatesPendingRequest(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	svc := mustService(t, repo, usersWith(sender, recipient))

	dto, err := svc.Send(context.Background(), sender, recipient)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if dto.Status != enums.FriendshipStatusPending {
		t.Fatalf("expected pending status, got %s", dto.Status)
	}
	if dto.SenderID != sender || dto.RecipientID != recipient {
		t.Fatalf("sender/recipient order not preserved: %+v", dto)
	}
}

func TestSendToSelfFails(t *testing.T) {
	user := uuid.New()
	svc := mustService(t, newFakeFriendshipRepo(), usersWith(user))

	_, err := svc.Send(context.Background(), user, user)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestSendToUnknownRecipientFails(t *testing.T) {
	sender := uuid.New()
	svc := mustService(t, newFakeFriendshipRepo(), usersWith(sender))

	_, err := svc.Send(context.Background(), sender, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestSendDuplicateFails(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	repo.seed(sender, recipient, enums.FriendshipStatusPending)
	svc := mustService(t, repo, usersWith(sender, recipient))

	_, err := svc.Send(context.Background(), sender, recipient)
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestSendReverseDuplicateFails(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	repo.seed(recipient, sender, enums.FriendshipStatusPending)
	svc := mustService(t, repo, usersWith(sender, recipient))

	_, err := svc.Send(context.Background(), sender, recipient)
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestSendBlockedByAcceptedRelationship(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	repo.seed(sender, recipient, enums.FriendshipStatusAccepted)
	svc := mustService(t, repo, usersWith(sender, recipient))

	_, err := svc.Send(context.Background(), sender, recipient)
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestAcceptByRecipientSucceeds(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	row := repo.seed(sender, recipient, enums.FriendshipStatusPending)
	svc := mustService(t, repo, usersWith(sender, recipient))

	dto, err := svc.Accept(context.Background(), row.ID, recipient)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if dto.Status != enums.FriendshipStatusAccepted {
		t.Fatalf("expected accepted status, got %s", dto.Status)
	}

	ok, err := svc.AreFriends(context.Background(), recipient, sender)
	if err != nil {
		t.Fatalf("are friends: %v", err)
	}
	if !ok {
		t.Fatal("expected accepted pair to be friends")
	}
}

func TestAcceptBySenderForbidden(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	row := repo.seed(sender, recipient, enums.FriendshipStatusPending)
	svc := mustService(t, repo, usersWith(sender, recipient))

	_, err := svc.Accept(context.Background(), row.ID, sender)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestAcceptUnknownIDNotFound(t *testing.T) {
	svc := mustService(t, newFakeFriendshipRepo(), usersWith())

	_, err := svc.Accept(context.Background(), uuid.New(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestAcceptTwiceFailsNotPending(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	row := repo.seed(sender, recipient, enums.FriendshipStatusPending)
	svc := mustService(t, repo, usersWith(sender, recipient))

	if _, err := svc.Accept(context.Background(), row.ID, recipient); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	_, err := svc.Accept(context.Background(), row.ID, recipient)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRemoveByEitherPartyDeletesRow(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	row := repo.seed(sender, recipient, enums.FriendshipStatusAccepted)
	svc := mustService(t, repo, usersWith(sender, recipient))

	if err := svc.Remove(context.Background(), row.ID, sender); err != nil {
		t.Fatalf("remove: %v", err)
	}

	ok, err := svc.AreFriends(context.Background(), sender, recipient)
	if err != nil {
		t.Fatalf("are friends: %v", err)
	}
	if ok {
		t.Fatal("expected pair to no longer be friends after removal")
	}
}

func TestRemoveByOutsiderForbidden(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	row := repo.seed(sender, recipient, enums.FriendshipStatusAccepted)
	svc := mustService(t, repo, usersWith(sender, recipient))

	err := svc.Remove(context.Background(), row.ID, uuid.New())
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestRemoveUnknownIDNotFound(t *testing.T) {
	svc := mustService(t, newFakeFriendshipRepo(), usersWith())

	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestAreFriendsFalseWhilePending(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	repo.seed(sender, recipient, enums.FriendshipStatusPending)
	svc := mustService(t, repo, usersWith(sender, recipient))

	ok, err := svc.AreFriends(context.Background(), sender, recipient)
	if err != nil {
		t.Fatalf("are friends: %v", err)
	}
	if ok {
		t.Fatal("pending request must not count as friendship")
	}
}

func TestListForUserPartitionsDisjointLists(t *testing.T) {
	user := uuid.New()
	friend := uuid.New()
	requester := uuid.New()
	invited := uuid.New()

	repo := newFakeFriendshipRepo()
	repo.listRows = []FriendshipWithUsers{
		{
			Friendship: models.Friendship{
				ID:          uuid.New(),
				SenderID:    friend,
				RecipientID: user,
				Status:      enums.FriendshipStatusAccepted,
			},
			SenderUsername:    "friend",
			RecipientUsername: "me",
		},
		{
			Friendship: models.Friendship{
				ID:          uuid.New(),
				SenderID:    requester,
				RecipientID: user,
				Status:      enums.FriendshipStatusPending,
			},
			SenderUsername:    "requester",
			RecipientUsername: "me",
		},
		{
			Friendship: models.Friendship{
				ID:          uuid.New(),
				SenderID:    user,
				RecipientID: invited,
				Status:      enums.FriendshipStatusPending,
			},
			SenderUsername:    "me",
			RecipientUsername: "invited",
		},
	}
	svc := mustService(t, repo, usersWith(user))

	lists, err := svc.ListForUser(context.Background(), user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(lists.Friends) != 1 || lists.Friends[0].UserID != friend {
		t.Fatalf("unexpected friends list: %+v", lists.Friends)
	}
	if lists.Friends[0].Username != "friend" {
		t.Fatalf("expected counterpart username, got %q", lists.Friends[0].Username)
	}
	if len(lists.Incoming) != 1 || lists.Incoming[0].UserID != requester {
		t.Fatalf("unexpected incoming list: %+v", lists.Incoming)
	}
	if len(lists.Outgoing) != 1 || lists.Outgoing[0].UserID != invited {
		t.Fatalf("unexpected outgoing list: %+v", lists.Outgoing)
	}
}

func TestListForUserEmptyReturnsEmptySlices(t *testing.T) {
	svc := mustService(t, newFakeFriendshipRepo(), usersWith())

	lists, err := svc.ListForUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if lists.Friends == nil || lists.Incoming == nil || lists.Outgoing == nil {
		t.Fatal("expected empty slices, not nil")
	}
}

func TestSendDependencyErrorWrapped(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	repo := newFakeFriendshipRepo()
	repo.createErr = errors.New("boom")
	svc := mustService(t, repo, usersWith(sender, recipient))

	_, err := svc.Send(context.Background(), sender, recipient)
	assertCode(t, err, pkgerrors.CodeDependency)
}
