package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/delivery/http/middleware"
	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/response"
	"go-medical-marketplace/pkg/validator"
)

type AuthHandler struct {
	authUsecase  usecase.AuthUsecase
	validator    *validator.CustomValidator
	secureCookie bool
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		validator:    validator,
		secureCookie: secureCookie,
	}
}

// SignInWithGoogle exchanges a Google ID token for a session
// @Summary Sign in with Google
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleSignInRequest true "Google ID token"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/auth/google [post]
func (h *AuthHandler) SignInWithGoogle(w http.ResponseWriter, r *http.Request) {
	var req dto.GoogleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.authUsecase.SignInWithGoogle(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidIDToken):
			response.Unauthorized(w, "Invalid Google ID token")
		default:
			response.InternalServerError(w, "Failed to sign in")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(session.ExpiresIn),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	response.Success(w, http.StatusOK, "Signed in successfully", session)
}

// SignOut revokes the current session
// @Summary Sign out
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/auth/signout [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.authUsecase.SignOut(r.Context(), principal.UserID, principal.TokenID); err != nil {
		response.InternalServerError(w, "Failed to sign out")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	response.Success(w, http.StatusOK, "Signed out successfully", nil)
}

// GetSession returns the refreshed principal of the current session
// @Summary Get current session
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/auth/session [get]
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			response.Unauthorized(w, "Unauthorized")
		default:
			response.InternalServerError(w, "Failed to get session")
		}
		return
	}

	response.Success(w, http.StatusOK, "Session retrieved successfully", user)
}
