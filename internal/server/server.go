// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/config"
	"devconnector/internal/github"
	"devconnector/internal/middleware"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"
	"devconnector/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

const defaultOrigins = "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          repository.Store
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	rateLimiter    *middleware.Limiter
	tokens         *auth.TokenService

	userService    *service.UserService
	profileService *service.ProfileService
	postService    *service.PostService
}

// NewServer wires the services over an open store. redisClient may be nil,
// in which case the per-route limiters fail open. Limiting follows
// cfg.RateLimitEnabled. A nil repos fetcher falls back to the GitHub API
// client built from cfg.
func NewServer(cfg *config.Config, store repository.Store, redisClient *redis.Client, repos service.RepoFetcher) *Server {
	if repos == nil {
		repos = github.NewClient(github.Config{
			BaseURL:      cfg.GitHubAPIURL,
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubSecret,
			Timeout:      cfg.GitHubTimeout(),
		})
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry())

	s := &Server{
		config:         cfg,
		store:          store,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("devconnector-api"),
		rateLimiter:    middleware.NewLimiter(redisClient, cfg.RateLimitEnabled()),
		tokens:         tokens,
		userService:    service.NewUserService(store.Users(), tokens, cfg.BcryptCost),
		profileService: service.NewProfileService(store.Profiles(), store.Users(), repos),
		postService:    service.NewPostService(store.Posts(), store.Users()),
	}

	app := fiber.New(fiber.Config{
		AppName: "DevConnector API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok && fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Msg: fe.Message})
			}
			observability.Logger.ErrorContext(c.UserContext(), "unhandled error",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app

	return s
}

// App exposes the configured fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Copies request and trace ids into the request context.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry the headers.
	origins := strings.Join(s.config.Origins(), ",")
	if origins == "" {
		origins = defaultOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + middleware.TokenHeader,
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || !s.config.RateLimitEnabled()
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Msg: "Too many requests, please try again later",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "DevConnector API Metrics",
	}))

	authRequired := middleware.AuthRequired(s.tokens)

	users := api.Group("/users")
	users.Post("/", s.rateLimiter.RateLimit(5, 10*time.Minute, "register"),
		registerRules, s.Register)

	authGroup := api.Group("/auth")
	authGroup.Get("/", authRequired, s.GetAuthUser)
	authGroup.Post("/", s.rateLimiter.RateLimit(10, 5*time.Minute, "login"),
		loginRules, s.Login)

	profile := api.Group("/profile")
	profile.Get("/me", authRequired, s.GetMyProfile)
	profile.Post("/", authRequired, profileRules, s.UpsertProfile)
	profile.Get("/", s.GetProfiles)
	profile.Delete("/", authRequired, s.DeleteAccount)
	profile.Get("/user/:user_id", s.GetProfileByUser)
	profile.Put("/experience", authRequired, experienceRules, s.AddExperience)
	profile.Delete("/experience/:exp_id", authRequired, s.DeleteExperience)
	profile.Put("/education", authRequired, educationRules, s.AddEducation)
	profile.Delete("/education/:edu_id", authRequired, s.DeleteEducation)
	profile.Get("/github/:username", s.GetGitHubRepos)

	posts := api.Group("/posts", authRequired)
	posts.Post("/", s.rateLimiter.RateLimit(10, time.Minute, "create_post"),
		postRules, s.CreatePost)
	posts.Get("/", s.GetPosts)
	posts.Put("/like/:id", s.LikePost)
	posts.Put("/unlike/:id", s.UnlikePost)
	posts.Post("/comment/:id", commentRules, s.AddComment)
	posts.Delete("/comment/:id/:comment_id", s.DeleteComment)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck pings the store and Redis. Redis only backs rate
// limiting, so losing it is reported but does not fail the probe.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if storeStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"store":  storeStatus,
			"driver": s.store.Driver(),
			"redis":  redisStatus,
		},
		"time": time.Now(),
	})
}

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	observability.Logger.Info("server starting",
		slog.String("port", s.config.Port),
		slog.String("driver", s.store.Driver()),
	)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests, then closes the store and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		observability.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
	}

	if err := s.store.Close(ctx); err != nil {
		observability.Logger.Error("error closing store", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			observability.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	observability.Logger.Info("server shutdown complete")
	return nil
}
