package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/internal/friends"
	"github.com/wanderplanhq/wanderplan-backend/internal/trips"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsAdmin     bool       `json:"is_admin"`
	Bio         *string    `json:"bio,omitempty"`
	PictureURL  *string    `json:"picture_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserDetailDTO is the aggregate profile payload: the user's trips and
// relationship lists alongside the profile fields.
type UserDetailDTO struct {
	UserDTO
	Trips         []trips.TripDTO           `json:"trips"`
	Relationships *friends.RelationshipsDTO `json:"relationships"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	Email        string
	PasswordHash string
	Bio          *string
	PictureURL   *string
}

// UserPatch enumerates the updatable profile fields; each is optional and
// an all-absent patch is rejected.
type UserPatch struct {
	Username   *string
	Bio        *string
	PictureURL *string
}

// Empty reports whether the patch carries no fields.
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Bio == nil && p.PictureURL == nil
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		Bio:         u.Bio,
		PictureURL:  u.PictureURL,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Username:     c.Username,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Bio:          c.Bio,
		PictureURL:   c.PictureURL,
	}
}
