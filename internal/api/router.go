package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/book-catalog/internal/api/handler"
	"github.com/openshelf/book-catalog/internal/api/middleware"
	"github.com/openshelf/book-catalog/internal/core/service"
	mongodb "github.com/openshelf/book-catalog/internal/infrastructure/db/mongo"
	redisdb "github.com/openshelf/book-catalog/internal/infrastructure/db/redis"
)

// Options carries the router's external dependencies and settings.
type Options struct {
	Mongo     *mongo.Database
	Redis     *goredis.Client
	JWTSecret string
	TokenTTL  time.Duration
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("catalog"))

	// --- Dependencies ---
	bookRepo := mongodb.NewBookRepository(opts.Mongo)
	bookService := service.NewBookService(bookRepo, opts.Logger)
	bookHandler := handler.NewBookHandler(bookService)

	authRepo := mongodb.NewAuthRepository(opts.Mongo)
	authService := service.NewAuthService(authRepo, opts.JWTSecret, opts.TokenTTL)
	denylist := redisdb.NewDenylist(opts.Redis)
	authHandler := handler.NewAuthHandler(authService, denylist)

	requireAuth := middleware.Auth(opts.JWTSecret, denylist)

	// --- Auth routes ---
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/token", authHandler.Token)
	e.POST("/api/logout", authHandler.Logout, requireAuth)
	e.GET("/api/me", authHandler.Profile, requireAuth)

	// --- Book routes (all bearer-protected) ---
	books := e.Group("/api/books", requireAuth)
	books.GET("", bookHandler.List)
	books.POST("", bookHandler.Create)
	books.GET("/stats/year/:year", bookHandler.YearStats)
	books.GET("/:id", bookHandler.Get)
	books.PUT("/:id", bookHandler.Update)
	books.DELETE("/:id", bookHandler.Delete)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(opts.Mongo, opts.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
