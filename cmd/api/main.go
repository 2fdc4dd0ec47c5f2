package main

import (
	"context"
	"net/http"
	"os"

	"github.com/cjnation/cjnation-backend/api/routes"
	"github.com/cjnation/cjnation-backend/internal/auth"
	"github.com/cjnation/cjnation-backend/internal/catalog"
	"github.com/cjnation/cjnation-backend/internal/categories"
	"github.com/cjnation/cjnation-backend/internal/comments"
	"github.com/cjnation/cjnation-backend/internal/likes"
	"github.com/cjnation/cjnation-backend/internal/media"
	"github.com/cjnation/cjnation-backend/internal/posts"
	"github.com/cjnation/cjnation-backend/internal/users"
	"github.com/cjnation/cjnation-backend/pkg/auth/session"
	"github.com/cjnation/cjnation-backend/pkg/config"
	"github.com/cjnation/cjnation-backend/pkg/db"
	"github.com/cjnation/cjnation-backend/pkg/logger"
	"github.com/cjnation/cjnation-backend/pkg/mailer"
	"github.com/cjnation/cjnation-backend/pkg/metrics"
	"github.com/cjnation/cjnation-backend/pkg/migrate"
	"github.com/cjnation/cjnation-backend/pkg/redis"
	"github.com/cjnation/cjnation-backend/pkg/storage/gcs"
	"github.com/joho/godotenv"
)

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

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}

	mail := mailer.New(cfg.SMTP, logg)
	gormDB := dbClient.DB()

	mediaService, err := media.NewService(media.ServiceParams{
		Repo:        media.NewRepository(gormDB),
		Store:       gcsClient,
		MediaConfig: cfg.Media,
		SignedTTL:   cfg.GCS.DownloadURLExpiry,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(gormDB),
		SessionManager: sessionManager,
		Mailer:         mail,
		JWTConfig:      cfg.JWT,
		TokenConfig:    cfg.Tokens,
		AppConfig:      cfg.App,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		Mailer:         mail,
		PasswordConfig: cfg.Password,
		TokenConfig:    cfg.Tokens,
		AppConfig:      cfg.App,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	googleService, err := auth.NewGoogleService(auth.GoogleServiceParams{
		UserRepo:       users.NewRepository(gormDB),
		SessionManager: sessionManager,
		Exchanger:      auth.NewOAuthExchanger(cfg.GoogleOAuth),
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create google login service", err)
		os.Exit(1)
	}

	tokenService, err := auth.NewTokenService(auth.TokenServiceParams{
		UserRepo:       users.NewRepository(gormDB),
		Mailer:         mail,
		PasswordConfig: cfg.Password,
		TokenConfig:    cfg.Tokens,
		AppConfig:      cfg.App,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create token service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.ServiceParams{
		UserRepo: users.NewRepository(gormDB),
		Media:    mediaService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	postService, err := posts.NewService(posts.ServiceParams{
		Repo:  posts.NewRepository(gormDB),
		Media: mediaService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create post service", err)
		os.Exit(1)
	}

	categoryService, err := categories.NewService(categories.ServiceParams{
		Repo: categories.NewRepository(gormDB),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	commentService, err := comments.NewService(comments.ServiceParams{
		DB:   dbClient,
		Repo: comments.NewRepository(gormDB),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create comment service", err)
		os.Exit(1)
	}

	likeService, err := likes.NewService(likes.ServiceParams{
		DB:   dbClient,
		Repo: likes.NewRepository(gormDB),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create like service", err)
		os.Exit(1)
	}

	movieService, err := catalog.NewMovieService(catalog.MovieServiceParams{
		Repo:  catalog.NewMovieRepository(gormDB),
		Media: mediaService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create movie service", err)
		os.Exit(1)
	}

	musicService, err := catalog.NewMusicService(catalog.MusicServiceParams{
		Repo:  catalog.NewMusicRepository(gormDB),
		Media: mediaService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create music service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

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
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, routes.Services{
			Auth:       authService,
			Register:   registerService,
			Google:     googleService,
			Tokens:     tokenService,
			Users:      userService,
			Posts:      postService,
			Categories: categoryService,
			Comments:   commentService,
			Likes:      likeService,
			Movies:     movieService,
			Music:      musicService,
			Media:      mediaService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
