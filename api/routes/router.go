package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cjnation/cjnation-backend/api/controllers"
	"github.com/cjnation/cjnation-backend/api/middleware"
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
	"github.com/cjnation/cjnation-backend/pkg/logger"
	"github.com/cjnation/cjnation-backend/pkg/metrics"
	"github.com/cjnation/cjnation-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services groups every domain service the router mounts.
type Services struct {
	Auth       auth.Service
	Register   auth.RegisterService
	Google     auth.GoogleService
	Tokens     auth.TokenService
	Users      users.Service
	Posts      posts.Service
	Categories categories.Service
	Comments   comments.Service
	Likes      likes.Service
	Movies     catalog.MovieService
	Music      catalog.MusicService
	Media      media.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}

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
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, redisClient, logg))
	})
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Get("/api/public/ping", controllers.PublicPing())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.AuthRegister(svcs.Register, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/social-login", controllers.AuthGoogleLogin(svcs.Google, logg))

		r.Get("/email-verification/{token}", controllers.AuthVerifyEmail(svcs.Tokens, logg))
		r.Post("/resend-verification", controllers.AuthResendVerification(svcs.Tokens, logg))
		r.Post("/forgot-password", controllers.AuthForgotPassword(svcs.Tokens, logg))
		r.Patch("/reset-password/{resetToken}", controllers.AuthResetPassword(svcs.Tokens, logg))

		r.Post("/refresh", controllers.AuthRefresh(sessions, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Get("/profile", controllers.UserProfile(svcs.Users, logg))
			r.Patch("/profile", controllers.UserUpdateProfile(svcs.Users, logg))
			r.Patch("/avatar/delete", controllers.UserDeleteAvatar(svcs.Users, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads. OptionalAuth lets authors and admins see their own
		// unpublished posts through the same endpoint.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, sessions, logg))
			r.Get("/posts", controllers.PostListPublished(svcs.Posts, logg))
			r.Get("/posts/{postId}", controllers.PostGet(svcs.Posts, logg))
		})

		r.Get("/categories/{categoryType}", controllers.CategoryList(svcs.Categories, logg))

		r.Get("/movies", controllers.MovieSearch(svcs.Movies, logg))
		r.Get("/movies/search", controllers.MovieSearch(svcs.Movies, logg))
		r.Get("/movies/{movieId}", controllers.MovieGet(svcs.Movies, logg))
		r.Get("/music", controllers.MusicSearch(svcs.Music, logg))
		r.Get("/music/search", controllers.MusicSearch(svcs.Music, logg))
		r.Get("/music/{musicId}", controllers.MusicGet(svcs.Music, logg))

		r.Get("/comments/{postId}", controllers.CommentList(svcs.Comments, logg))
		r.Get("/likes/{postId}", controllers.LikeList(svcs.Likes, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Get("/ping", controllers.PrivatePing())

			r.Post("/posts/drafts", controllers.PostCreateDraft(svcs.Posts, logg))
			r.Get("/posts/mine", controllers.PostListMine(svcs.Posts, logg))
			r.Put("/posts/{postId}", controllers.PostUpdate(svcs.Posts, logg))
			r.Post("/posts/{postId}/submit", controllers.PostSubmit(svcs.Posts, logg))
			r.Delete("/posts/{postId}", controllers.PostDelete(svcs.Posts, logg))

			r.Post("/comments/{postId}", controllers.CommentCreate(svcs.Comments, logg))
			r.Post("/likes/{postId}", controllers.LikeCreate(svcs.Likes, logg))
			r.Delete("/likes/{postId}", controllers.LikeDelete(svcs.Likes, logg))

			r.Post("/media/{kind}", controllers.MediaUpload(svcs.Media, cfg.Media, logg))
			r.Get("/media/{mediaId}/download-url", controllers.MediaDownloadURL(svcs.Media, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Get("/ping", controllers.AdminPing())

		r.Get("/posts/pending", controllers.PostListPending(svcs.Posts, logg))
		r.Patch("/posts/{postId}/approve", controllers.PostApprove(svcs.Posts, logg))
		r.Patch("/posts/{postId}/reject", controllers.PostReject(svcs.Posts, logg))

		r.Post("/categories/{categoryType}", controllers.CategoryCreate(svcs.Categories, logg))
		r.Delete("/categories/{categoryId}", controllers.CategoryDelete(svcs.Categories, logg))

		r.Post("/movies", controllers.MovieCreate(svcs.Movies, logg))
		r.Put("/movies/{movieId}", controllers.MovieUpdate(svcs.Movies, logg))
		r.Delete("/movies/{movieId}", controllers.MovieDelete(svcs.Movies, logg))

		r.Post("/music", controllers.MusicCreate(svcs.Music, logg))
		r.Put("/music/{musicId}", controllers.MusicUpdate(svcs.Music, logg))
		r.Delete("/music/{musicId}", controllers.MusicDelete(svcs.Music, logg))
	})

	return r
}
