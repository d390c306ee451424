package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *domain.Validation
	logger      hclog.Logger
}

func NewAuthHandler(as service.AuthService, v *domain.Validation, log hclog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: as,
		validator:   v,
		logger:      log,
	}
}

// authResponse pairs the signed token with the account it belongs to
type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register handles POST /api/auth/register
//
// swagger:route POST /api/auth/register auth registerUser
//
// Creates an account and returns a signed token for it.
//
// Responses:
//
//	201: authResponse
//	400: errorResponse
//	409: errorResponse
//	422: validationErrorResponse
//	500: errorResponse
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := r.Context().Value(ContextKeyCredentials).(domain.Credentials)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Register(r.Context(), creds)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "Email already registered")
			return
		}
		h.logger.Error("Error registering user", "error", err)
		respondError(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login
//
// swagger:route POST /api/auth/login auth loginUser
//
// Verifies credentials and returns a signed token.
//
// Responses:
//
//	200: authResponse
//	400: errorResponse
//	401: errorResponse
//	422: validationErrorResponse
//	500: errorResponse
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := r.Context().Value(ContextKeyCredentials).(domain.Credentials)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(r.Context(), creds)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("Error logging in", "error", err)
		respondError(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Me handles GET /api/auth/me
//
// swagger:route GET /api/auth/me auth currentUser
//
// Returns the account behind the bearer token.
//
// Responses:
//
//	200: userResponse
//	401: errorResponse
//	500: errorResponse
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(ContextKeyUserID).(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, "Unknown account")
			return
		}
		h.logger.Error("Error loading current user", "error", err)
		respondError(w, http.StatusInternalServerError, "Error loading user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Whether or not the account exists, the caller sees the same message.
const resetRequestedMessage = "If an account with that email exists, a password reset token has been issued"

// passwordResetResponse carries the reset token back to the caller.
// There is no outbound mailer, so the token rides in the response.
type passwordResetResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// ForgotPassword handles POST /api/auth/forgot-password
//
// swagger:route POST /api/auth/forgot-password auth forgotPassword
//
// Issues a short-lived password reset token for the given email.
//
// Responses:
//
//	200: passwordResetResponse
//	400: errorResponse
//	422: validationErrorResponse
//	500: errorResponse
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, errs)
		return
	}

	token, err := h.authService.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Do not reveal whether the account exists
			respondJSON(w, http.StatusOK, passwordResetResponse{Message: resetRequestedMessage})
			return
		}
		h.logger.Error("Error issuing reset token", "error", err)
		respondError(w, http.StatusInternalServerError, "Error processing password reset")
		return
	}

	respondJSON(w, http.StatusOK, passwordResetResponse{
		Message: resetRequestedMessage,
		Token:   token,
	})
}

// ResetPassword handles POST /api/auth/reset-password
//
// swagger:route POST /api/auth/reset-password auth resetPassword
//
// Redeems a reset token for a new password.
//
// Responses:
//
//	200: messageResponse
//	400: errorResponse
//	422: validationErrorResponse
//	500: errorResponse
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.PasswordReset
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, errs)
		return
	}

	err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("Error resetting password", "error", err)
			respondError(w, http.StatusInternalServerError, "Error resetting password")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset successfully",
	})
}

// ChangePassword handles POST /api/auth/change-password
//
// swagger:route POST /api/auth/change-password auth changePassword
//
// Rotates the password of the account behind the bearer token.
//
// Responses:
//
//	200: messageResponse
//	400: errorResponse
//	401: errorResponse
//	422: validationErrorResponse
//	500: errorResponse
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(ContextKeyUserID).(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	var req domain.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, errs)
		return
	}

	err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(w, http.StatusUnauthorized, "Unknown account")
		default:
			h.logger.Error("Error changing password", "error", err)
			respondError(w, http.StatusInternalServerError, "Error changing password")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}
