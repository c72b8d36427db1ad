package memberships

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
)

func setupMembershipsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0,
  bio TEXT,
  picture_url TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	trips := `
CREATE TABLE IF NOT EXISTS trips (
  id TEXT PRIMARY KEY,
  creator_id TEXT NOT NULL,
  title TEXT NOT NULL,
  destination TEXT NOT NULL,
  radius_km REAL NOT NULL DEFAULT 0,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  is_private INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	memberships := `
CREATE TABLE IF NOT EXISTS trip_memberships (
  id TEXT PRIMARY KEY,
  trip_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL,
  joined_at DATETIME,
  UNIQUE (trip_id, user_id)
);`
	require.NoError(t, conn.Exec(users).Error)
	require.NoError(t, conn.Exec(trips).Error)
	require.NoError(t, conn.Exec(memberships).Error)

	t.Cleanup(func() {
		_ = conn.Exec("DELETE FROM trip_memberships").Error
		_ = conn.Exec("DELETE FROM trips").Error
		_ = conn.Exec("DELETE FROM users").Error
	})
	return conn
}

func createMembershipsTestUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "hash",
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func createMembershipsTestTrip(t *testing.T, conn *gorm.DB, creatorID uuid.UUID) *models.Trip {
	t.Helper()
	trip := &models.Trip{
		ID:          uuid.New(),
		CreatorID:   creatorID,
		Title:       "Test Trip",
		Destination: "Lisbon",
		StartDate:   time.Now().UTC(),
		EndDate:     time.Now().UTC().Add(72 * time.Hour),
	}
	require.NoError(t, conn.Create(trip).Error)
	return trip
}

func TestRepositoryMembershipLifecycle(t *testing.T) {
	conn := setupMembershipsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := createMembershipsTestUser(t, conn, "owner")
	member := createMembershipsTestUser(t, conn, "member")
	trip := createMembershipsTestTrip(t, conn, owner.ID)

	_, err := repo.Create(ctx, trip.ID, owner.ID, enums.MemberRoleOwner)
	require.NoError(t, err)
	created, err := repo.Create(ctx, trip.ID, member.ID, enums.MemberRoleMember)
	require.NoError(t, err)
	assert.Equal(t, enums.MemberRoleMember, created.Role)

	got, err := repo.Get(ctx, trip.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	exists, err := repo.Exists(ctx, trip.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	owned, err := repo.TripOwnedBy(ctx, trip.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, owned)
	owned, err = repo.TripOwnedBy(ctx, trip.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, owned)

	members, err := repo.ListForTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	names := map[string]enums.MemberRole{}
	for _, m := range members {
		names[m.Username] = m.Role
	}
	assert.Equal(t, enums.MemberRoleOwner, names["owner"])
	assert.Equal(t, enums.MemberRoleMember, names["member"])

	ids, err := repo.ListTripIDsForUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{trip.ID}, ids)

	require.NoError(t, repo.Delete(ctx, trip.ID, member.ID))
	err = repo.Delete(ctx, trip.ID, member.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateRejectsInvalidRole(t *testing.T) {
	conn := setupMembershipsTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.Create(context.Background(), uuid.New(), uuid.New(), enums.MemberRole("captain"))
	assert.Error(t, err)
}

func TestRepositoryCreateDuplicatePairFails(t *testing.T) {
	conn := setupMembershipsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := createMembershipsTestUser(t, conn, "owner")
	trip := createMembershipsTestTrip(t, conn, owner.ID)

	_, err := repo.Create(ctx, trip.ID, owner.ID, enums.MemberRoleOwner)
	require.NoError(t, err)
	_, err = repo.Create(ctx, trip.ID, owner.ID, enums.MemberRoleMember)
	assert.Error(t, err)
}
