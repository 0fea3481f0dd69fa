package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/chatstack/chat-api/docs"
	"github.com/chatstack/chat-api/internal/api/handler"
	"github.com/chatstack/chat-api/internal/api/middleware"
	"github.com/chatstack/chat-api/internal/core/domain"
	"github.com/chatstack/chat-api/internal/core/ports"
)

// Services bundles the wired core services the router exposes.
type Services struct {
	Tokens ports.TokenService
	Auth   ports.AuthService
	Chat   ports.ChatService
	Users  ports.UserService
	Audit  ports.AuditRepository
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("chat"))

	authMiddleware := middleware.Auth(svc.Tokens)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	e.POST("/auth/login", authHandler.Login)

	// --- Messages (any authenticated role) ---
	chatHandler := handler.NewChatHandler(svc.Chat)
	messages := e.Group("/messages", authMiddleware, middleware.RBAC(domain.RoleUser, domain.RoleAdmin))
	messages.GET("", chatHandler.List)
	messages.POST("", chatHandler.Post)

	// --- Admin (admin role only) ---
	adminHandler := handler.NewAdminHandler(svc.Users, svc.Audit)
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.POST("/users", adminHandler.RegisterUser)
	admin.DELETE("/users/:username", adminHandler.DeleteUser)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/audit", adminHandler.Audit)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
