package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/api/responses"
	"github.com/wanderplanhq/wanderplan-backend/api/validators"
	"github.com/wanderplanhq/wanderplan-backend/internal/friends"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
	"github.com/wanderplanhq/wanderplan-backend/pkg/logger"
)

type friendRequestBody struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
}

// FriendList returns the caller's accepted, incoming, and outgoing lists.
func FriendList(svc friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		relationships, err := svc.ListForUser(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, relationships)
	}
}

// FriendSend creates a pending friend request to the recipient.
func FriendSend(svc friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body friendRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		recipientID, err := uuid.Parse(body.RecipientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid recipient_id"))
			return
		}

		friendship, err := svc.Send(r.Context(), uid, recipientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, friendship)
	}
}

// FriendAccept marks a pending request as accepted. Recipient only.
func FriendAccept(svc friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		friendshipID, err := pathUUID(r, "friendshipId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		friendship, err := svc.Accept(r.Context(), friendshipID, uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, friendship)
	}
}

// FriendRemove deletes a friendship or pending request. Either party may call it.
func FriendRemove(svc friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		friendshipID, err := pathUUID(r, "friendshipId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), friendshipID, uid); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
