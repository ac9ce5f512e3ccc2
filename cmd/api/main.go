// Package main is the entrypoint for the web reviewer API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/webreviewer/webreviewer/internal/auth"
	"github.com/webreviewer/webreviewer/internal/cache"
	"github.com/webreviewer/webreviewer/internal/config"
	"github.com/webreviewer/webreviewer/internal/handler"
	"github.com/webreviewer/webreviewer/internal/mailer"
	"github.com/webreviewer/webreviewer/internal/middleware"
	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
	"github.com/webreviewer/webreviewer/internal/server"
	"github.com/webreviewer/webreviewer/internal/service"
	"github.com/webreviewer/webreviewer/internal/upload"
	"github.com/webreviewer/webreviewer/internal/worker"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SenderEmail(), logger)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	uploadStore, err := upload.New(cfg.UploadDir, cfg.BaseURL, cfg.MaxUploadSize, repo, logger)
	if err != nil {
		logger.Error("failed to prepare upload directory", "error", err, "dir", cfg.UploadDir)
		os.Exit(1)
	}

	// Services
	authService := service.NewAuthService(repo, cacheClient, tokens, mail, logger, cfg.VerificationCodeTTL)
	googleService := service.NewGoogleService(
		authService,
		repo,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.BaseURL+"/auth/google/callback",
		logger,
	)
	postService := service.NewPostService(repo, logger)
	reviewService := service.NewReviewService(repo, logger)
	phishingService := service.NewPhishingService(repo, logger)
	commentService := service.NewCommentService(repo, logger)
	voteService := service.NewVoteService(repo, logger)
	messageService := service.NewMessageService(repo, logger)
	memoService := service.NewMemoService(repo, logger)
	searchService := service.NewSearchService(repo, logger)

	// Handlers
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(authService, googleService, logger, cfg.IsProduction())
	postHandler := handler.NewPostHandler(postService, logger)
	reviewHandler := handler.NewReviewHandler(reviewService, logger)
	phishingHandler := handler.NewPhishingHandler(phishingService, logger)
	commentHandler := handler.NewCommentHandler(commentService, voteService, logger)
	messageHandler := handler.NewMessageHandler(messageService, memoService, logger)
	searchHandler := handler.NewSearchHandler(searchService, logger)
	uploadHandler := handler.NewUploadHandler(uploadStore, cfg.MaxUploadSize, logger)

	r := setupRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		cache:    cacheClient,
		tokens:   tokens,
		health:   healthHandler,
		auth:     authHandler,
		posts:    postHandler,
		reviews:  reviewHandler,
		phishing: phishingHandler,
		comments: commentHandler,
		messages: messageHandler,
		search:   searchHandler,
		uploads:  uploadHandler,
		fileDir:  uploadStore.Dir(),
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Background cleanup of expired codes and stale unverified accounts.
	cleanup := worker.NewCleanup(repo, logger, cfg.CleanupInterval, cfg.UnverifiedMaxAge)
	go func() {
		if err := cleanup.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("cleanup worker exited", "error", err)
		}
	}()
	srv.OnShutdown("cleanup-worker", cleanup.Shutdown)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything setupRouter needs.
type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	repo     *repository.Repository
	cache    *cache.Cache
	tokens   *auth.TokenIssuer
	health   *handler.HealthHandler
	auth     *handler.AuthHandler
	posts    *handler.PostHandler
	reviews  *handler.ReviewHandler
	phishing *handler.PhishingHandler
	comments *handler.CommentHandler
	messages *handler.MessageHandler
	search   *handler.SearchHandler
	uploads  *handler.UploadHandler
	fileDir  string
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))

	requireAuth := middleware.RequireAuth(middleware.AuthConfig{
		Logger:     d.logger,
		Repository: d.repo,
		Tokens:     d.tokens,
	})
	requireAdmin := middleware.RequireAdmin(d.logger)

	// Credential endpoints get a per-IP limiter against stuffing.
	rateLimit := middleware.RateLimitIP(middleware.RateLimitConfig{
		Logger:  d.logger,
		Cache:   d.cache,
		Enabled: d.cfg.RateLimitAuthEnabled,
		RPS:     d.cfg.RateLimitAuthRPS,
		Burst:   d.cfg.RateLimitAuthBurst,
	})

	// Health endpoints (no auth required)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)

	r.Get("/", handler.Root)

	// JSON API routes share a modest body size cap; uploads are exempt.
	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimit).Post("/signup-request", d.auth.Signup)
			r.Post("/verify-signup", d.auth.VerifySignup)
			r.Post("/verify-email-code", d.auth.CheckCode)
			r.With(rateLimit).Post("/send-verification-email", d.auth.ResendVerification)
			r.Get("/email-verification-status", d.auth.VerificationStatus)
			r.With(rateLimit).Post("/login", d.auth.Login)
			r.With(rateLimit).Post("/refresh", d.auth.Refresh)
			r.Post("/logout", d.auth.Logout)
			r.Get("/google", d.auth.GoogleLogin)
			r.Get("/google/callback", d.auth.GoogleCallback)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", d.auth.Me)
				r.Patch("/me", d.auth.UpdateProfile)
				r.Delete("/me", d.auth.DeleteAccount)
				r.Put("/password", d.auth.ChangePassword)
			})
		})

		// Community board
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.posts.List)
			r.Get("/categories", d.posts.Categories)
			r.Get("/tags", d.posts.Tags)
			r.Get("/{id}", d.posts.Get)
			r.Get("/{id}/comments", d.comments.List(model.SubjectPost))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", d.posts.Create)
				r.Patch("/{id}", d.posts.Update)
				r.Delete("/{id}", d.posts.Delete)
				r.Post("/{id}/comments", d.comments.Add(model.SubjectPost))
				r.Delete("/comments/{commentID}", d.comments.Delete(model.SubjectPost))
				r.Post("/{id}/vote", d.comments.Vote(model.SubjectPost))
			})
		})

		// Site reviews
		r.Route("/api/reviews", func(r chi.Router) {
			r.Get("/", d.reviews.List)
			r.Get("/{id}", d.reviews.Get)
			r.Get("/{id}/comments", d.comments.List(model.SubjectReview))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", d.reviews.Create)
				r.Patch("/{id}", d.reviews.Update)
				r.Delete("/{id}", d.reviews.Delete)
				r.Post("/{id}/comments", d.comments.Add(model.SubjectReview))
				r.Delete("/comments/{commentID}", d.comments.Delete(model.SubjectReview))
				r.Post("/{id}/vote", d.comments.Vote(model.SubjectReview))
			})
		})

		// Phishing reports
		r.Route("/api/phishing-sites", func(r chi.Router) {
			r.Get("/", d.phishing.List)
			r.Get("/{id}", d.phishing.Get)
			r.Get("/{id}/comments", d.comments.List(model.SubjectPhishing))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", d.phishing.Create)
				r.Patch("/{id}", d.phishing.Update)
				r.Delete("/{id}", d.phishing.Delete)
				r.With(requireAdmin).Put("/{id}/status", d.phishing.UpdateStatus)
				r.Post("/{id}/comments", d.comments.Add(model.SubjectPhishing))
				r.Delete("/comments/{commentID}", d.comments.Delete(model.SubjectPhishing))
				r.Post("/{id}/vote", d.comments.Vote(model.SubjectPhishing))
			})
		})

		// Private messages
		r.Route("/api/messages", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", d.messages.Send)
			r.Get("/inbox", d.messages.Inbox)
			r.Get("/sent", d.messages.Sent)
			r.Get("/unread-count", d.messages.UnreadCount)
			r.Get("/{id}", d.messages.Get)
			r.Delete("/{id}", d.messages.Delete)
		})

		// Per-user memos
		r.Route("/api/memos", func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/", d.messages.SaveMemo)
			r.Get("/", d.messages.ListMemos)
			r.Get("/{username}", d.messages.GetMemo)
			r.Delete("/{username}", d.messages.DeleteMemo)
		})

		// Unified search
		r.Route("/api/search", func(r chi.Router) {
			r.Get("/", d.search.Search)
			r.Get("/preview", d.search.Preview)
			r.Get("/suggestions", d.search.Suggestions)
		})
	})

	// Image uploads and the files they produce
	r.With(requireAuth).Post("/upload/image", d.uploads.Upload)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.fileDir))))

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
