package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/internal/users"
	pkgAuth "github.com/wanderplanhq/wanderplan-backend/pkg/auth"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
	"github.com/wanderplanhq/wanderplan-backend/pkg/security"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterRepo struct {
	byEmail    map[string]*models.User
	byUsername map[string]*models.User
	created    *models.User
	createErr  error
}

func newStubRegisterRepo() *stubRegisterRepo {
	return &stubRegisterRepo{
		byEmail:    map[string]*models.User{},
		byUsername: map[string]*models.User{},
	}
}

func (s *stubRegisterRepo) seed(username, email string) {
	user := &models.User{ID: uuid.New(), Username: username, Email: email}
	s.byEmail[email] = user
	s.byUsername[username] = user
}

func (s *stubRegisterRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := &models.User{
		ID:           uuid.New(),
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		Bio:          dto.Bio,
	}
	s.byEmail[dto.Email] = user
	s.byUsername[dto.Username] = user
	s.created = user
	return user, nil
}

type registerTestSetup struct {
	service  RegisterService
	repo     *stubRegisterRepo
	sessions *stubSessionManager
}

func newRegisterTestSetup(t *testing.T) *registerTestSetup {
	t.Helper()
	repo := newStubRegisterRepo()
	sessions := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return repo
		},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{service: svc, repo: repo, sessions: sessions}
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Username: "newcomer",
		Email:    "newcomer@example.com",
		Password: "long enough secret",
	}
}

func TestRegisterCreatesUserAndLogsIn(t *testing.T) {
	setup := newRegisterTestSetup(t)

	resp, err := setup.service.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	created := setup.repo.created
	if created == nil {
		t.Fatalf("expected user to be created")
	}
	if created.Username != "newcomer" || created.Email != "newcomer@example.com" {
		t.Fatalf("unexpected created user %q / %q", created.Username, created.Email)
	}

	ok, err := security.VerifyPassword("long enough secret", created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to verify, ok=%v err=%v", ok, err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != created.ID {
		t.Fatalf("expected claims for created user, got %s", claims.UserID)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("expected refresh token from session manager, got %q", resp.RefreshToken)
	}
	if len(setup.sessions.generatedFor) != 1 || setup.sessions.generatedFor[0] != claims.ID {
		t.Fatalf("expected session for jti %q, got %v", claims.ID, setup.sessions.generatedFor)
	}
	if resp.User == nil || resp.User.ID != created.ID {
		t.Fatalf("expected user payload in response")
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)

	req := validRegisterRequest()
	req.Email = "  Newcomer@Example.COM "
	if _, err := setup.service.Register(context.Background(), req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if setup.repo.created.Email != "newcomer@example.com" {
		t.Fatalf("expected lowered email, got %q", setup.repo.created.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.repo.seed("existing", "newcomer@example.com")

	_, err := setup.service.Register(context.Background(), validRegisterRequest())
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.repo.seed("newcomer", "other@example.com")

	_, err := setup.service.Register(context.Background(), validRegisterRequest())
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterMissingFields(t *testing.T) {
	setup := newRegisterTestSetup(t)

	for name, mutate := range map[string]func(*RegisterRequest){
		"username": func(r *RegisterRequest) { r.Username = "  " },
		"email":    func(r *RegisterRequest) { r.Email = "" },
		"password": func(r *RegisterRequest) { r.Password = "" },
	} {
		req := validRegisterRequest()
		mutate(&req)
		_, err := setup.service.Register(context.Background(), req)
		if err == nil {
			t.Fatalf("expected validation error for missing %s", name)
		}
		assertCode(t, err, pkgerrors.CodeValidation)
	}
}
