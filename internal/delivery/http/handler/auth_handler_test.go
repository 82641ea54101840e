package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/delivery/http/middleware"
	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInWithGoogleSetsCookie(t *testing.T) {
	auth := &stubAuthUsecase{
		signIn: func(ctx context.Context, req *dto.GoogleSignInRequest) (*dto.SessionResponse, error) {
			assert.Equal(t, "google-token", req.IDToken)
			return &dto.SessionResponse{Token: "session-jwt", ExpiresIn: 3600, User: &dto.UserResponse{Email: "pat@example.com"}}, nil
		},
	}
	h := NewAuthHandler(auth, validator.NewValidator(), true)

	rec := httptest.NewRecorder()
	h.SignInWithGoogle(rec, newRequest(http.MethodPost, "/api/auth/google", jsonBody(t, map[string]string{"id_token": "google-token"}), nil, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.Equal(t, "session-jwt", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestSignInWithGoogleFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   interface{}
		err    error
		status int
	}{
		{"missing token", map[string]string{}, nil, http.StatusBadRequest},
		{"rejected token", map[string]string{"id_token": "forged"}, usecase.ErrInvalidIDToken, http.StatusUnauthorized},
		{"store failure", map[string]string{"id_token": "ok"}, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuthUsecase{
				signIn: func(ctx context.Context, req *dto.GoogleSignInRequest) (*dto.SessionResponse, error) {
					return nil, tt.err
				},
			}
			h := NewAuthHandler(auth, validator.NewValidator(), false)

			rec := httptest.NewRecorder()
			h.SignInWithGoogle(rec, newRequest(http.MethodPost, "/api/auth/google", jsonBody(t, tt.body), nil, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestSignOutRevokesAndClearsCookie(t *testing.T) {
	principal := patientPrincipal()
	var revoked string
	auth := &stubAuthUsecase{
		signOut: func(ctx context.Context, userID uuid.UUID, tokenID string) error {
			assert.Equal(t, principal.UserID, userID)
			revoked = tokenID
			return nil
		},
	}
	h := NewAuthHandler(auth, validator.NewValidator(), false)

	rec := httptest.NewRecorder()
	h.SignOut(rec, newRequest(http.MethodPost, "/api/auth/signout", nil, principal, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, principal.TokenID, revoked)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestGetSession(t *testing.T) {
	principal := adminPrincipal()
	auth := &stubAuthUsecase{
		getCurrent: func(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
			return &dto.UserResponse{ID: userID, Email: principal.Email, Role: "ADMIN"}, nil
		},
	}
	h := NewAuthHandler(auth, validator.NewValidator(), false)

	t.Run("authenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetSession(rec, newRequest(http.MethodGet, "/api/auth/session", nil, principal, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"role":"ADMIN"`)
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetSession(rec, newRequest(http.MethodGet, "/api/auth/session", nil, nil, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
