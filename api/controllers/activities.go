package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/wanderplanhq/wanderplan-backend/api/responses"
	"github.com/wanderplanhq/wanderplan-backend/api/validators"
	"github.com/wanderplanhq/wanderplan-backend/internal/activities"
	"github.com/wanderplanhq/wanderplan-backend/internal/votes"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
	"github.com/wanderplanhq/wanderplan-backend/pkg/logger"
)

type activityCreateRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=200"`
	Category    string    `json:"category" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

func (r activityCreateRequest) toInput() (activities.CreateActivityInput, error) {
	category, err := enums.ParseActivityCategory(strings.TrimSpace(r.Category))
	if err != nil {
		return activities.CreateActivityInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid activity category")
	}
	return activities.CreateActivityInput{
		Name:        strings.TrimSpace(r.Name),
		Category:    category,
		ScheduledAt: r.ScheduledAt,
	}, nil
}

type activityPatchRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category    *string    `json:"category,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func (r activityPatchRequest) toPatch() (activities.ActivityPatch, error) {
	patch := activities.ActivityPatch{
		Name:        r.Name,
		ScheduledAt: r.ScheduledAt,
	}
	if r.Category != nil {
		category, err := enums.ParseActivityCategory(strings.TrimSpace(*r.Category))
		if err != nil {
			return activities.ActivityPatch{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid activity category")
		}
		patch.Category = &category
	}
	return patch, nil
}

type voteRequest struct {
	Value int `json:"value"`
}

// ActivityList returns the trip's activities with votes and tallies.
func ActivityList(svc activities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID, err := pathUUID(r, "tripId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListWithVotes(r.Context(), tripID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ActivityCreate adds an activity to the trip.
func ActivityCreate(svc activities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tripID, err := pathUUID(r, "tripId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body activityCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activity, err := svc.Create(r.Context(), tripID, uid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, activity)
	}
}

// ActivityUpdate applies a partial update to an activity.
func ActivityUpdate(svc activities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID, err := pathUUID(r, "tripId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		activityID, err := pathUUID(r, "activityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body activityPatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		patch, err := body.toPatch()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activity, err := svc.Update(r.Context(), tripID, activityID, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, activity)
	}
}

// ActivityDelete removes an activity and its votes.
func ActivityDelete(svc activities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID, err := pathUUID(r, "tripId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		activityID, err := pathUUID(r, "activityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), tripID, activityID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ActivityVote casts, changes, or removes (value 0) the caller's vote.
func ActivityVote(svc votes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tripID, err := pathUUID(r, "tripId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		activityID, err := pathUUID(r, "activityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body voteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Cast(r.Context(), uid, tripID, activityID, body.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
