// Package server contains the HTTP handlers for the screams API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"screams/internal/cache"
	"screams/internal/config"
	"screams/internal/consistency"
	"screams/internal/database"
	"screams/internal/events"
	"screams/internal/middleware"
	"screams/internal/models"
	"screams/internal/repository"
	"screams/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownFn     context.CancelFunc

	reactor  *consistency.Reactor
	redisBus *events.RedisBus

	screamService       *service.ScreamService
	commentService      *service.CommentService
	likeService         *service.LikeService
	userService         *service.UserService
	notificationService *service.NotificationService
}

// NewServer connects to the database and Redis and wires the server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil Redis client disables caching and forces inline reactions.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	store := consistency.Store{
		Screams:       repository.NewScreamRepository(db),
		Comments:      repository.NewCommentRepository(db),
		Likes:         repository.NewLikeRepository(db),
		Notifications: repository.NewNotificationRepository(db),
		Batcher:       repository.NewBatcher(db, cfg.BatchMaxWrites),
		Tx:            repository.NewTransactor(db),
	}
	userRepo := repository.NewUserRepository(db)
	engine := consistency.NewEngine(store)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("screams-api"),
		reactor:        consistency.NewReactor(engine),
	}

	policy := events.DefaultRetryPolicy()
	policy.MaxRetries = uint(cfg.ReactionMaxRetries)

	var bus events.Bus
	if cfg.EventBus == config.EventBusRedis && redisClient != nil {
		s.redisBus = events.NewRedisBus(redisClient, policy, events.DefaultStreamConfig())
		bus = s.redisBus
	} else {
		if cfg.EventBus == config.EventBusRedis {
			log.Println("Redis unavailable, running change reactions inline")
		}
		bus = events.NewSyncBus(s.reactor, policy)
	}

	s.screamService = service.NewScreamService(store.Screams, store.Comments, userRepo, bus)
	s.commentService = service.NewCommentService(store.Screams, store.Comments, userRepo, engine, bus)
	s.likeService = service.NewLikeService(store.Screams, store.Likes, userRepo, engine, bus)
	s.userService = service.NewUserService(userRepo, store.Screams, store.Likes, store.Notifications, bus, cfg.DefaultUserImage)
	s.notificationService = service.NewNotificationService(store.Notifications, store.Batcher)

	return s, nil
}

// NewApp returns a Fiber app with the server's middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Screams API",
		BodyLimit: 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			return models.RespondWithError(c, err)
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Runs after tracing so the trace id is available to the logger.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	api.Get("/screams", s.GetScreams)
	api.Get("/scream/:id", s.GetScream)
	api.Get("/user/:handle", s.GetUserDetails)
	api.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)

	protected := api.Group("", middleware.AuthRequired)

	protected.Post("/scream", middleware.RateLimit(s.redis, 10, time.Minute, "create_scream"), s.PostScream)
	// Specific /:id/:action routes before the generic /:id route.
	protected.Post("/scream/:id/comment", middleware.RateLimit(s.redis, 20, time.Minute, "create_comment"), s.CommentOnScream)
	protected.Get("/scream/:id/like", s.LikeScream)
	protected.Post("/scream/:id/like", s.LikeScream)
	protected.Get("/scream/:id/unlike", s.UnlikeScream)
	protected.Post("/scream/:id/unlike", s.UnlikeScream)
	protected.Delete("/scream/:id", s.DeleteScream)

	protected.Post("/user/image", s.UploadImage)
	protected.Post("/user", s.AddUserDetails)
	protected.Get("/user", s.GetAuthenticatedUser)
	protected.Post("/notifications", s.MarkNotificationsRead)
}

// ReadinessCheck reports database and Redis reachability.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// StartReactions subscribes the reactor to the Redis change channels. With
// the inline bus there is nothing to start.
func (s *Server) StartReactions(ctx context.Context) error {
	if s.redisBus == nil {
		return nil
	}
	return s.redisBus.Subscribe(ctx, s.reactor)
}

// Start runs reactions and serves HTTP until the app is shut down.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownFn = cancel

	if err := s.StartReactions(ctx); err != nil {
		return fmt.Errorf("start reactions: %w", err)
	}

	s.app = s.NewApp()
	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops the subscriber, the HTTP server and closes connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
