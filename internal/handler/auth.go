package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/webreviewer/webreviewer/internal/auth"
	"github.com/webreviewer/webreviewer/internal/handler/dto"
	"github.com/webreviewer/webreviewer/internal/service"
)

// refreshCookieName is the HttpOnly cookie carrying the refresh token.
const refreshCookieName = "refresh_token"

// AuthHandler handles account and session endpoints.
type AuthHandler struct {
	svc          *service.AuthService
	google       *service.GoogleService
	logger       *slog.Logger
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie should be true
// whenever the API is served over HTTPS.
func NewAuthHandler(svc *service.AuthService, google *service.GoogleService, logger *slog.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		svc:          svc,
		google:       google,
		logger:       logger,
		secureCookie: secureCookie,
	}
}

// Signup handles POST /auth/signup-request.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.SignupRequest(r.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("signup_requested", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "verification code sent",
		"email":   user.Email,
	})
}

// VerifySignup handles POST /auth/verify-signup. A successful
// verification logs the user straight in.
func (h *AuthHandler) VerifySignup(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, pair, err := h.svc.VerifySignup(r.Context(), req.Code)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, pair)
	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   pair.AccessExpiresAt,
		User:        dto.ToUserResponse(user),
	})
}

// CheckCode handles POST /auth/verify-email-code. It consumes the code
// and marks the account verified but does not log the user in.
func (h *AuthHandler) CheckCode(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.CheckVerificationCode(r.Context(), req.Code)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"email": user.Email,
	})
}

// ResendVerification handles POST /auth/send-verification-email.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.ResendVerificationEmail(r.Context(), req.Email); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "verification code sent"})
}

// VerificationStatus handles GET /auth/email-verification-status.
func (h *AuthHandler) VerificationStatus(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "MISSING_EMAIL", "email query parameter is required")
		return
	}

	verified, err := h.svc.VerificationStatus(r.Context(), email)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VerificationStatusResponse{Email: email, Verified: verified})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, pair, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, pair)
	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   pair.AccessExpiresAt,
		User:        dto.ToUserResponse(user),
	})
}

// Refresh handles POST /auth/refresh. The refresh token comes from the
// HttpOnly cookie and is rotated on every call.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "NO_REFRESH_TOKEN", "Refresh token cookie missing")
		return
	}

	user, pair, err := h.svc.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.clearRefreshCookie(w)
		h.handleServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, pair)
	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   pair.AccessExpiresAt,
		User:        dto.ToUserResponse(user),
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to revoke session", "error", err)
		}
	}

	h.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// GoogleLogin handles GET /auth/google. It redirects to the Google consent
// page.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.google.Enabled() {
		writeError(w, http.StatusNotImplemented, "GOOGLE_DISABLED", "Google login is not configured")
		return
	}
	http.Redirect(w, r, h.google.AuthURL(r.URL.Query().Get("state")), http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /auth/google/callback.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "MISSING_CODE", "code query parameter is required")
		return
	}

	user, pair, err := h.google.HandleCallback(r.Context(), code)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, pair)
	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   pair.AccessExpiresAt,
		User:        dto.ToUserResponse(user),
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	user, err := h.svc.GetUser(r.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// UpdateProfile handles PATCH /auth/me.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), actor.UserID, service.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// ChangePassword handles PUT /auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.ChangePassword(r.Context(), actor.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// DeleteAccount handles DELETE /auth/me.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	var req dto.DeleteAccountRequest
	if r.Body != nil {
		// A missing body is fine for Google-only accounts.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.svc.DeleteAccount(r.Context(), actor.UserID, req.Password); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// setRefreshCookie stores the refresh token in an HttpOnly cookie scoped
// to the auth endpoints.
func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, pair *service.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/auth",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/auth",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// handleServiceError maps auth service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, "INVALID_USERNAME", "Username must be 3-20 characters: letters, digits, underscore, hyphen")
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email address")
	case errors.Is(err, service.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 8 characters")
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "USERNAME_TAKEN", "Username already taken")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, service.ErrEmailNotVerified):
		writeError(w, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Verify your email before logging in")
	case errors.Is(err, service.ErrAlreadyVerified):
		writeError(w, http.StatusConflict, "ALREADY_VERIFIED", "Email is already verified")
	case errors.Is(err, service.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, "INVALID_CODE", "Invalid verification code")
	case errors.Is(err, service.ErrCodeExpired):
		writeError(w, http.StatusGone, "CODE_EXPIRED", "Verification code expired, request a new one")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		writeError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid or expired refresh token")
	case errors.Is(err, service.ErrPasswordLoginOnly):
		writeError(w, http.StatusConflict, "NO_PASSWORD_LOGIN", "Account has no password; use Google login")
	case errors.Is(err, service.ErrGoogleNotConfigured):
		writeError(w, http.StatusNotImplemented, "GOOGLE_DISABLED", "Google login is not configured")
	case errors.Is(err, service.ErrGoogleExchange):
		writeError(w, http.StatusBadGateway, "GOOGLE_EXCHANGE_FAILED", "Google login failed, try again")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
