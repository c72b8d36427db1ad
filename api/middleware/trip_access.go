package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/api/responses"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
	"github.com/wanderplanhq/wanderplan-backend/pkg/logger"
)

type tripMembershipChecker interface {
	IsMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	IsOwner(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

type tripViewChecker interface {
	CanView(ctx context.Context, tripID, viewerID uuid.UUID) (bool, error)
}

// RequireTripViewer rejects requests for trips the caller may not read:
// private trips are readable by members only, public trips by anyone
// authenticated.
func RequireTripViewer(checker tripViewChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tripID, err := uuid.Parse(chi.URLParam(r, "tripId"))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid trip id"))
				return
			}
			userID, err := uuid.Parse(UserIDFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			visible, err := checker.CanView(ctx, tripID, userID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if !visible {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "trip is private"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireTripMember rejects requests whose caller is not a member of the
// trip addressed by the tripId route parameter.
func RequireTripMember(checker tripMembershipChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return requireTripAccess(checker, logg, false)
}

// RequireTripOwner rejects requests whose caller does not hold the owner
// role on the addressed trip.
func RequireTripOwner(checker tripMembershipChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return requireTripAccess(checker, logg, true)
}

func requireTripAccess(checker tripMembershipChecker, logg *logger.Logger, ownerOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tripID, err := uuid.Parse(chi.URLParam(r, "tripId"))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid trip id"))
				return
			}
			userID, err := uuid.Parse(UserIDFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			var allowed bool
			if ownerOnly {
				allowed, err = checker.IsOwner(ctx, tripID, userID)
			} else {
				allowed, err = checker.IsMember(ctx, tripID, userID)
			}
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if !allowed {
				msg := "trip membership required"
				if ownerOnly {
					msg = "trip owner role required"
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, msg))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
