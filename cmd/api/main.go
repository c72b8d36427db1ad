package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wanderplanhq/wanderplan-backend/api/routes"
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
	"github.com/wanderplanhq/wanderplan-backend/pkg/migrate"
	"github.com/wanderplanhq/wanderplan-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	friendRepo := friends.NewRepository(gormDB)
	tripRepo := trips.NewRepository(gormDB)
	membershipRepo := memberships.NewRepository(gormDB)
	activityRepo := activities.NewRepository(gormDB)
	voteRepo := votes.NewRepository(gormDB)
	commentRepo := comments.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:        dbClient,
		UserRepoFactory: auth.DBUserRepoFactory(dbClient),
		SessionManager:  sessionManager,
		JWTConfig:       cfg.JWT,
		PasswordConfig:  cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	friendService, err := friends.NewService(friendRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create friends service", err)
		os.Exit(1)
	}

	membershipService, err := memberships.NewService(membershipRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create memberships service", err)
		os.Exit(1)
	}

	voteService, err := votes.NewService(voteRepo, activityRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create votes service", err)
		os.Exit(1)
	}

	activityService, err := activities.NewService(activityRepo, tripRepo, voteRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create activities service", err)
		os.Exit(1)
	}

	commentService, err := comments.NewService(commentRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create comments service", err)
		os.Exit(1)
	}

	tripService, err := trips.NewService(trips.ServiceParams{
		TxRunner:    dbClient,
		Repo:        tripRepo,
		Memberships: membershipRepo,
		Activities:  activityService,
		Comments:    commentService,
		Friends:     friendService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create trips service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo, tripRepo, friendService)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.RouterParams{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisClient,
		SessionChecker:  sessionManager,
		HTTPMetrics:     httpMetrics,
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AuthService:     authService,
		RegisterService: registerService,
		UserService:     userService,
		FriendService:   friendService,
		TripService:     tripService,
		MembershipCheck: membershipService,
		ActivityService: activityService,
		VoteService:     voteService,
		CommentService:  commentService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
