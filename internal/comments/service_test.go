package comments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
)

type fakeCommentRepo struct {
	rows map[uuid.UUID]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{rows: make(map[uuid.UUID]*models.Comment)}
}

func (f *fakeCommentRepo) seed(tripID, userID uuid.UUID, body string) *models.Comment {
	comment := &models.Comment{
		ID:        uuid.New(),
		TripID:    tripID,
		UserID:    userID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	f.rows[comment.ID] = comment
	return comment
}

func (f *fakeCommentRepo) Create(_ context.Context, tripID, userID uuid.UUID, body string) (*models.Comment, error) {
	return f.seed(tripID, userID, body), nil
}

func (f *fakeCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	if comment, ok := f.rows[id]; ok {
		copied := *comment
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeCommentRepo) ListForTrip(_ context.Context, tripID uuid.UUID) ([]CommentDTO, error) {
	out := []CommentDTO{}
	for _, comment := range f.rows {
		if comment.TripID == tripID {
			out = append(out, *FromModel(comment))
		}
	}
	return out, nil
}

func mustService(t *testing.T, repo commentRepository) Service {
	t.Helper()
	svc, err := NewService(repo)
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

func TestCreateTrimsAndPersists(t *testing.T) {
	repo := newFakeCommentRepo()
	svc := mustService(t, repo)

	dto, err := svc.Create(context.Background(), uuid.New(), uuid.New(), "  lovely spot  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Body != "lovely spot" {
		t.Fatalf("expected trimmed body, got %q", dto.Body)
	}
}

func TestCreateRejectsEmptyBody(t *testing.T) {
	svc := mustService(t, newFakeCommentRepo())

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), "   ")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateRejectsOversizedBody(t *testing.T) {
	svc := mustService(t, newFakeCommentRepo())

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), strings.Repeat("a", maxCommentLength+1))
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteByAuthorSucceeds(t *testing.T) {
	repo := newFakeCommentRepo()
	author := uuid.New()
	comment := repo.seed(uuid.New(), author, "bye")
	svc := mustService(t, repo)

	if err := svc.Delete(context.Background(), comment.ID, author); err != nil {
		t.Fatalf("delete: %v", err)
	}

	err := svc.Delete(context.Background(), comment.ID, author)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteByNonAuthorForbidden(t *testing.T) {
	repo := newFakeCommentRepo()
	comment := repo.seed(uuid.New(), uuid.New(), "mine")
	svc := mustService(t, repo)

	err := svc.Delete(context.Background(), comment.ID, uuid.New())
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestListForTripReturnsOnlyThatTrip(t *testing.T) {
	repo := newFakeCommentRepo()
	tripID := uuid.New()
	repo.seed(tripID, uuid.New(), "one")
	repo.seed(tripID, uuid.New(), "two")
	repo.seed(uuid.New(), uuid.New(), "elsewhere")
	svc := mustService(t, repo)

	list, err := svc.ListForTrip(context.Background(), tripID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(list))
	}
}
