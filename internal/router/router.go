package router

import (
	"github.com/anonto42/eventpulse/backend/internal/auth"
	"github.com/anonto42/eventpulse/backend/internal/chat"
	"github.com/anonto42/eventpulse/backend/internal/handlers"
	"github.com/anonto42/eventpulse/backend/internal/logging"
	"github.com/anonto42/eventpulse/backend/internal/middleware"
	"github.com/anonto42/eventpulse/backend/internal/repositories"
	"github.com/anonto42/eventpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// Options carries everything the routes depend on
type Options struct {
	Stores          *repositories.Stores
	Auth            *services.AuthService
	Events          *services.EventService
	Users           *services.UserService
	Recommendations *services.RecommendationService
	Admin           *services.AdminService
	Tokens          *auth.TokenIssuer
	Hub             *chat.Hub
	Uploader        handlers.PictureUploader
	Checkout        handlers.CheckoutCreator
	AllowedOrigins  []string
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, opts Options) {
	log := logging.Component("router")

	e.GET("/health", handlers.HealthCheck)

	chatHandler := handlers.NewChatHandler(opts.Hub, opts.Stores.Messages, opts.Tokens, opts.AllowedOrigins)
	e.GET("/ws", chatHandler.ServeWS)

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(opts.Auth, opts.Uploader)
	authHandler.RegisterAuthRoutes(e.Group("/auth"))

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("", middleware.JWTAuthMiddleware(opts.Tokens))
	adminOnly := middleware.RequireAdmin(opts.Admin)

	authHandler.RegisterProtectedRoutes(api.Group("/auth"))
	handlers.NewEventHandler(opts.Events, opts.Uploader).RegisterEventRoutes(api)
	handlers.NewUserHandler(opts.Users, opts.Recommendations, opts.Uploader).RegisterUserRoutes(api, adminOnly)
	handlers.NewNotificationHandler(opts.Users).RegisterNotificationRoutes(api)
	chatHandler.RegisterChatRoutes(api)
	handlers.NewAssistantHandler(opts.Users, opts.Events).RegisterAssistantRoutes(api)
	handlers.NewAdminHandler(opts.Admin).RegisterAdminRoutes(api, adminOnly)
	handlers.NewPaymentHandler(opts.Checkout).RegisterPaymentRoutes(api)

	log.Info().Int("routes", len(e.Routes())).Msg("All routes configured")
}
