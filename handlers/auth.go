package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"task-service/auth"
	"task-service/models"
	"task-service/store"

	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// dummyPasswordHash is compared against the supplied password when the email
// is unknown, so a failed login costs one bcrypt comparison either way and
// timing does not reveal whether the account exists.
var dummyPasswordHash, _ = auth.HashPassword("timing-equalizer")

// AuthHandler handles registration and login.
type AuthHandler struct {
	users  *store.UserStore
	tokens *auth.TokenManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *store.UserStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
	}
}

// Register handles POST /register - creates a user with a hashed password
func (h *AuthHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid JSON"))
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		logRequest(ctx, "error", "Missing required fields", zap.String("email", req.Email))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Name, email, and password are required"))
		return
	}

	logRequest(ctx, "info", "Registering user", zap.String("email", req.Email))

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		logRequest(ctx, "error", "Password hashing failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to process password"))
		return
	}

	user, err := h.users.Create(ctx, req.Name, req.Email, hashedPassword)
	if errors.Is(err, store.ErrDuplicateEmail) {
		logRequest(ctx, "error", "Duplicate email", zap.String("email", req.Email))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Email already registered"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to create user", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to create user"))
		return
	}

	logRequest(ctx, "info", "User registered", zap.Int("user_id", user.ID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login handles POST /login - verifies credentials and issues a bearer token.
// Unknown email and wrong password produce the same response so accounts
// cannot be enumerated.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid login body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid JSON"))
		return
	}

	user, err := h.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrUserNotFound) {
		auth.CheckPassword(dummyPasswordHash, req.Password)
		logRequest(ctx, "error", "User not found", zap.String("email", req.Email))
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid credentials"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "DB error", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Server error"))
		return
	}

	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		logRequest(ctx, "error", "Invalid password", zap.String("email", req.Email))
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid credentials"))
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		logRequest(ctx, "error", "Token issuance failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Server error"))
		return
	}

	logRequest(ctx, "info", "Login successful", zap.Int("user_id", user.ID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.LoginResponse{
		Token: token,
		User:  models.LoginUser{ID: user.ID, Name: user.Name},
	})
}
