package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"tynda/core/auth"
	"tynda/logger"
	"tynda/model"
	"tynda/repository"
)

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userProfile is the non-sensitive slice of an account returned by the auth
// endpoints. The password hash is never echoed.
type userProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterHandler handles user registration requests.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if len(req.Username) < 3 {
		respondError(w, http.StatusBadRequest, "Username must be at least 3 characters")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		respondError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	existing, err := h.userRepo.GetUserByUsernameOrEmail(req.Username, req.Email)
	if err != nil {
		respondServerError(w, "Failed to check for existing user", err)
		return
	}
	if existing != nil {
		respondError(w, http.StatusBadRequest, "User with this email or username already exists")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondServerError(w, "Failed to hash password", err)
		return
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         model.RoleUser,
	}
	if err := h.userRepo.CreateUser(user); err != nil {
		// The unique keys can still fire if a duplicate slips in between the
		// pre-insert check and the insert.
		if errors.Is(err, repository.ErrDuplicateUser) {
			respondError(w, http.StatusBadRequest, "User with this email or username already exists")
			return
		}
		respondServerError(w, "Failed to create user", err)
		return
	}

	if err := h.createSession(w, r, user); err != nil {
		respondServerError(w, "Failed to create session", err)
		return
	}

	logger.Info("User registered", logger.String("username", user.Username))
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    userProfile{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.Role},
	})
}

// LoginHandler handles user login requests.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		respondServerError(w, "Failed to look up user", err)
		return
	}

	// One generic message for both unknown email and wrong password, so the
	// endpoint cannot be used to enumerate accounts.
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		logger.Warn("Failed login attempt", logger.String("email", req.Email))
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.createSession(w, r, user); err != nil {
		respondServerError(w, "Failed to create session", err)
		return
	}

	logger.Info("User logged in", logger.String("username", user.Username))
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    userProfile{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.Role},
	})
}

// LogoutHandler destroys the session and clears the cookie.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cfg.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			logger.Error("Failed to destroy session", logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Could not logout")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// MeHandler reports the authentication state of the caller. It has no
// failure path.
func (h *APIHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		respondJSON(w, http.StatusOK, map[string]any{"isAuthenticated": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"isAuthenticated": true,
		"user": map[string]string{
			"id":       sess.UserID,
			"username": sess.Username,
			"role":     sess.Role,
		},
	})
}

// createSession stores a new session for the user and sets the cookie.
func (h *APIHandler) createSession(w http.ResponseWriter, r *http.Request, user *model.User) error {
	token, err := h.sessions.Create(r.Context(), &model.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
