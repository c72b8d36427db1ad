package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderplanhq/wanderplan-backend/api/controllers"
	"github.com/wanderplanhq/wanderplan-backend/api/middleware"
	"github.com/wanderplanhq/wanderplan-backend/internal/activities"
	"github.com/wanderplanhq/wanderplan-backend/internal/auth"
	"github.com/wanderplanhq/wanderplan-backend/internal/comments"
	"github.com/wanderplanhq/wanderplan-backend/internal/friends"
	"github.com/wanderplanhq/wanderplan-backend/internal/memberships"
	"github.com/wanderplanhq/wanderplan-backend/internal/trips"
	"github.com/wanderplanhq/wanderplan-backend/internal/users"
	"github.com/wanderplanhq/wanderplan-backend/internal/votes"
	"github.com/wanderplanhq/wanderplan-backend/pkg/auth/session"
	"github.com/wanderplanhq/wanderplan-backend/pkg/config"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db"
	"github.com/wanderplanhq/wanderplan-backend/pkg/logger"
	"github.com/wanderplanhq/wanderplan-backend/pkg/metrics"
	"github.com/wanderplanhq/wanderplan-backend/pkg/redis"
)

// RouterParams packages everything the HTTP surface depends on.
type RouterParams struct {
	Config *config.Config
	Logger *logger.Logger

	DB    db.Pinger
	Redis *redis.Client

	SessionChecker session.AccessSessionChecker

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	AuthService     auth.Service
	RegisterService auth.RegisterService
	UserService     users.Service
	FriendService   friends.Service
	TripService     trips.Service
	MembershipCheck memberships.Service
	ActivityService activities.Service
	VoteService     votes.Service
	CommentService  comments.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UserGetMe(p.UserService, logg))
			r.Patch("/me", controllers.UserUpdateMe(p.UserService, logg))
			r.Delete("/me", controllers.UserDeleteMe(p.UserService, logg))
			r.Get("/{userId}", controllers.UserGet(p.UserService, logg))
		})

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", controllers.FriendList(p.FriendService, logg))
			r.Post("/", controllers.FriendSend(p.FriendService, logg))
			r.Post("/{friendshipId}/accept", controllers.FriendAccept(p.FriendService, logg))
			r.Delete("/{friendshipId}", controllers.FriendRemove(p.FriendService, logg))
		})

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", controllers.TripList(p.TripService, logg))
			r.Post("/", controllers.TripCreate(p.TripService, logg))

			r.Route("/{tripId}", func(r chi.Router) {
				viewer := middleware.RequireTripViewer(p.TripService, logg)
				member := middleware.RequireTripMember(p.MembershipCheck, logg)
				owner := middleware.RequireTripOwner(p.MembershipCheck, logg)

				// Reads follow trip visibility: public trips stay
				// readable to any authenticated user.
				r.Get("/", controllers.TripGet(p.TripService, logg))
				r.With(member).Patch("/", controllers.TripUpdate(p.TripService, logg))
				r.With(owner).Delete("/", controllers.TripDelete(p.TripService, logg))

				r.Route("/activities", func(r chi.Router) {
					r.With(viewer).Get("/", controllers.ActivityList(p.ActivityService, logg))
					r.Group(func(r chi.Router) {
						r.Use(member)
						r.Post("/", controllers.ActivityCreate(p.ActivityService, logg))
						r.Patch("/{activityId}", controllers.ActivityUpdate(p.ActivityService, logg))
						r.Delete("/{activityId}", controllers.ActivityDelete(p.ActivityService, logg))
						r.Post("/{activityId}/vote", controllers.ActivityVote(p.VoteService, logg))
					})
				})

				r.Route("/comments", func(r chi.Router) {
					r.With(viewer).Get("/", controllers.CommentList(p.CommentService, logg))
					r.With(member).Post("/", controllers.CommentCreate(p.CommentService, logg))
					// Author-only rule is enforced by the comment service.
					r.With(viewer).Delete("/{commentId}", controllers.CommentDelete(p.CommentService, logg))
				})

				r.Route("/members", func(r chi.Router) {
					r.With(viewer).Get("/", controllers.TripMembersList(p.TripService, logg))
					r.Group(func(r chi.Router) {
						r.Use(owner)
						r.Post("/", controllers.TripMemberAdd(p.TripService, logg))
						r.Delete("/{userId}", controllers.TripMemberRemove(p.TripService, logg))
					})
				})
			})
		})
	})

	return r
}
