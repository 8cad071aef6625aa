package server

import (
	"context"
	"net/http"
	"os"
	"strings"

	"task-service/auth"
	cachepackage "task-service/cache"
	"task-service/config"
	"task-service/database"
	"task-service/handlers"
	"task-service/store"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// newAuthChecker returns the bearer-auth gate applied to protected routes.
// It is the only place session tokens are verified; handlers downstream
// trust the attached identity.
func newAuthChecker(tokens *auth.TokenManager) func(r *http.Request) (bool, httpserver.RequestAuth) {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		header := r.Header.Get("Authorization")
		if header == "" {
			return false, httpserver.RequestAuth{}
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return false, httpserver.RequestAuth{}
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			// Expired and tampered tokens are rejected uniformly; the
			// request never reaches a handler or the store.
			return false, httpserver.RequestAuth{}
		}

		return true, httpserver.RequestAuth{
			Type:   "bearer",
			Client: "task-service-web",
			Claims: map[string]interface{}{"user_id": userID},
		}
	}
}

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Task Service...")

	// Load configuration; a missing signing key is fatal here, never
	// per-request.
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	// Initialize database
	dbConn := database.Initialize(cfg)
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.Initialize(cfg)
	defer cache.Close()

	// Token issuer and stores
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	userStore := store.NewUserStore(dbConn, cfg.StoreTimeout)
	taskStore := store.NewTaskStore(dbConn, cfg.StoreTimeout)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userStore, tokens)
	taskHandler := handlers.NewTaskHandler(taskStore, cache)

	// Create HTTP server with bearer authentication
	server := httpserver.New(cfg.Port, newAuthChecker(tokens))

	// Register routes
	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "task-service"}`))
	}))

	server.Register(httpserver.Route{
		Name:     "Register",
		Method:   "POST",
		Path:     "/register",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Register))

	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Login))

	server.Register(httpserver.Route{
		Name:     "CreateTask",
		Method:   "POST",
		Path:     "/tasks",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(taskHandler.Create))

	server.Register(httpserver.Route{
		Name:     "ListTasks",
		Method:   "GET",
		Path:     "/tasks",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(taskHandler.List))

	server.Register(httpserver.Route{
		Name:     "UpdateTask",
		Method:   "PUT",
		Path:     "/tasks/{id}",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(taskHandler.Update))

	server.Register(httpserver.Route{
		Name:     "DeleteTask",
		Method:   "DELETE",
		Path:     "/tasks/{id}",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(taskHandler.Delete))

	logger.Info("Task Service started on port " + cfg.Port)
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: POST /register, POST /login, GET/POST/PUT/DELETE /tasks")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
