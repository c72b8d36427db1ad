package controllers

import (
	"net/http"

	"github.com/wanderplanhq/wanderplan-backend/api/middleware"
	"github.com/wanderplanhq/wanderplan-backend/api/responses"
	"github.com/wanderplanhq/wanderplan-backend/api/validators"
	"github.com/wanderplanhq/wanderplan-backend/internal/users"
	"github.com/wanderplanhq/wanderplan-backend/pkg/logger"
)

type userPatchRequest struct {
	Username   *string `json:"username,omitempty" validate:"omitempty,min=3,max=32"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	PictureURL *string `json:"picture_url,omitempty" validate:"omitempty,url"`
}

func (r userPatchRequest) toPatch() users.UserPatch {
	return users.UserPatch{
		Username:   r.Username,
		Bio:        r.Bio,
		PictureURL: r.PictureURL,
	}
}

// UserGetMe returns the caller's aggregate profile.
func UserGetMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Get(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// UserGet returns another user's aggregate profile by id.
func UserGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// UserUpdateMe applies a partial update to the caller's profile.
func UserUpdateMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body userPatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), uid, body.toPatch())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// UserDeleteMe removes the caller's account and all owned data.
func UserDeleteMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isAdmin := middleware.IsAdminFromContext(r.Context())
		if err := svc.Delete(r.Context(), uid, uid, isAdmin); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
