package router

import (
	"time"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/auth"
	"github.com/anonto42/nano-midea/social-api/internal/handlers"
	"github.com/anonto42/nano-midea/social-api/internal/middleware"
	"github.com/anonto42/nano-midea/social-api/internal/monitoring"
	"github.com/anonto42/nano-midea/social-api/internal/repositories"
	"github.com/anonto42/nano-midea/social-api/internal/services"
	"github.com/anonto42/nano-midea/social-api/validators"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

// Dependencies are the long-lived collaborators the routes are built from.
type Dependencies struct {
	Store  *repositories.Store
	Tokens *auth.TokenIssuer
	// Identity verifies Firebase ID tokens; nil disables Firebase login.
	Identity services.IdentityVerifier
	// UserCache backs the author directory; nil disables caching.
	UserCache services.UserCache
	// Clock stamps notifications; defaults to time.Now.
	Clock func() time.Time
}

// New returns an echo instance with middleware and every route configured.
func New(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler

	SetupMiddleware(e)
	SetupRoutes(e, deps)
	return e
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			entry := log.WithFields(log.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if v.Error != nil && v.Status >= 500 {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(monitoring.Middleware())
	log.Debug("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	store := deps.Store

	// --- Services ---
	sink := services.NewNotificationSink(store.Notifications)
	if deps.Clock != nil {
		sink.WithClock(deps.Clock)
	}
	authors := services.NewAuthorDirectory(store.Users, deps.UserCache)
	graph := services.NewFollowGraph(store)
	interactions := services.NewInteractionEngine(store, sink)
	feed := services.NewFeedAssembler(store.Posts, authors)
	posts := services.NewPostService(store.Posts, authors)
	comments := services.NewCommentService(store.Comments, store.Posts, authors)
	accounts := services.NewAccountService(store.Users, graph, authors, deps.Tokens, deps.Identity)

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(store.DB()).HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(accounts).RegisterAuthRoutes(authGroup)

	// --- Public reads (a token is optional but must be valid when sent) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware(deps.Tokens))

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.Tokens))

	handlers.NewUserHandler(accounts, graph).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(graph).RegisterFollowRoutes(api)
	handlers.NewFeedHandler(feed).RegisterFeedRoutes(api)
	handlers.NewPostHandler(posts).RegisterPostRoutes(public, api)
	handlers.NewLikeHandler(interactions).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(comments).RegisterCommentRoutes(public, api)
	handlers.NewNotificationHandler(sink, authors).RegisterNotificationRoutes(api)

	log.WithField("routes", len(e.Routes())).Debug("All routes configured.")
}
