package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/pos-manager/internal/auth"
	"go.uber.org/zap"
)

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 201 {object} RegisterResult
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {string} string "User exists"
// @Router /register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if err := readJSON(w, r, &creds); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "Missing credentials", http.StatusBadRequest)
		return
	}

	_, token, err := authService.Register(r.Context(), creds.Username, creds.Password)
	switch {
	case errors.Is(err, auth.ErrWeakCredentials):
		http.Error(w, "username or password too short", http.StatusBadRequest)
		return
	case errors.Is(err, auth.ErrUsernameTaken):
		http.Error(w, "username already exists", http.StatusConflict)
		return
	case err != nil:
		internalError(w, r, "failed to register user", err)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResult{
		Message: "user registered",
		Token:   token,
	})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Inactive user"
// @Failure 429 {string} string "Too many failed attempts"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials CredentialsRequest
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	token, ok := authenticate(w, r, credentials.Username, credentials.Password)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, LoginResult{Token: token})
}

// TokenHandler godoc
// @Summary Authenticate with a form body and return a bearer token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Inactive user"
// @Failure 429 {string} string "Too many failed attempts"
// @Router /token [post]
func TokenHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	token, ok := authenticate(w, r, r.PostForm.Get("username"), r.PostForm.Get("password"))
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, TokenResult{AccessToken: token, TokenType: "bearer"})
}

// authenticate checks the lockout, verifies the credentials and records the
// outcome. It writes the error response itself and reports whether a token
// was issued.
func authenticate(w http.ResponseWriter, r *http.Request, username, password string) (string, bool) {
	ctx := r.Context()
	username = strings.TrimSpace(username)

	if banTracker != nil {
		remaining, err := banTracker.BannedFor(ctx, username)
		if err != nil {
			internalError(w, r, "could not check login lockout", err)
			return "", false
		}
		if remaining > 0 {
			tooManyAttempts(w, remaining.Seconds())
			return "", false
		}
	}

	token, err := authService.Authenticate(ctx, username, password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		if banTracker != nil {
			banned, err := banTracker.Fail(ctx, username, r.URL.Path)
			if err != nil {
				zap.L().Error("failed to record login strike", zap.String("username", username), zap.Error(err))
			}
			if banned {
				tooManyAttempts(w, 0)
				return "", false
			}
		}
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return "", false
	case errors.Is(err, auth.ErrInactiveUser):
		http.Error(w, "user is inactive", http.StatusForbidden)
		return "", false
	case err != nil:
		internalError(w, r, "could not generate token", err)
		return "", false
	}

	if banTracker != nil {
		if err := banTracker.Succeed(ctx, username); err != nil {
			zap.L().Warn("failed to clear login strikes", zap.String("username", username), zap.Error(err))
		}
	}
	return token, true
}

func tooManyAttempts(w http.ResponseWriter, retryAfterSeconds float64) {
	if retryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfterSeconds))))
	}
	http.Error(w, "too many failed login attempts", http.StatusTooManyRequests)
}
