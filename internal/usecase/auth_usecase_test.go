package usecase

import (
	"context"
	"testing"
	"time"

	"go-medical-marketplace/config"
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/entity"
	"go-medical-marketplace/internal/infrastructure/identity"
	"go-medical-marketplace/internal/service"
	"go-medical-marketplace/pkg/jwt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	uc       AuthUsecase
	mock     sqlmock.Sqlmock
	users    *fakeUserRepo
	sessions *fakeSessionStore
	jwt      *jwt.JWTService
}

func newAuthFixture(t *testing.T, adminEmails ...string) *authFixture {
	t.Helper()
	db, mock := newTestDB(t)
	log := newTestLogger()

	verifier := &fakeVerifier{identities: map[string]*identity.ExternalIdentity{
		"google-sara":  {Subject: "1", Email: "sara@example.com", Name: "Sara", Picture: "https://img.example.com/s.png"},
		"google-admin": {Subject: "2", Email: "root@example.com", Name: "Root"},
	}}

	f := &authFixture{
		mock:     mock,
		users:    newFakeUserRepo(),
		sessions: newFakeSessionStore(),
		jwt:      jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour}),
	}
	f.uc = NewAuthUsecase(db, log, f.users, verifier, f.jwt, f.sessions, service.NewAuditService(log, &fakeAuditRepo{}), adminEmails)
	return f
}

func TestSignInCreatesPatientOnFirstLogin(t *testing.T) {
	f := newAuthFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.uc.SignInWithGoogle(context.Background(), &dto.GoogleSignInRequest{IDToken: "google-sara"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "PATIENT", resp.User.Role)
	assert.False(t, resp.User.IsOnboarded)
	assert.Equal(t, "Sara", resp.User.Name)
	assert.NoError(t, f.mock.ExpectationsWereMet())

	// second sign-in finds the existing account without a transaction
	again, err := f.uc.SignInWithGoogle(context.Background(), &dto.GoogleSignInRequest{IDToken: "google-sara"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSignInRejectsUnverifiedToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.uc.SignInWithGoogle(context.Background(), &dto.GoogleSignInRequest{IDToken: "forged"})

	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestResolvePrincipalReflectsStoredState(t *testing.T) {
	f := newAuthFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.uc.SignInWithGoogle(context.Background(), &dto.GoogleSignInRequest{IDToken: "google-sara"})
	require.NoError(t, err)

	p, err := f.uc.ResolvePrincipal(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.StateNotOnboarded, entity.ClassifyState(p))

	// an approval elsewhere is visible on the next request
	require.NoError(t, f.users.UpdateRole(nil, resp.User.ID, entity.RoleDoctor))
	user := f.users.get(resp.User.ID)
	user.IsOnboarded = true
	require.NoError(t, f.users.Update(nil, &user))

	p, err = f.uc.ResolvePrincipal(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.StateOnboardedDoctor, entity.ClassifyState(p))
}

func TestAdminEmailOverridesStoredRole(t *testing.T) {
	f := newAuthFixture(t, "ROOT@example.com")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.uc.SignInWithGoogle(context.Background(), &dto.GoogleSignInRequest{IDToken: "google-admin"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", resp.User.Role)
	assert.Equal(t, entity.RolePatient, f.users.get(resp.User.ID).Role)

	p, err := f.uc.ResolvePrincipal(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}

func TestSignOutRevokesSession(t *testing.T) {
	f := newAuthFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.uc.SignInWithGoogle(context.Background(), &dto.GoogleSignInRequest{IDToken: "google-sara"})
	require.NoError(t, err)

	p, err := f.uc.ResolvePrincipal(context.Background(), resp.Token)
	require.NoError(t, err)
	require.NoError(t, f.uc.SignOut(context.Background(), p.UserID, p.TokenID))

	_, err = f.uc.ResolvePrincipal(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestResolvePrincipalFailures(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.uc.ResolvePrincipal(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	ghost := uuid.New()
	token, tokenID, err := f.jwt.GenerateSessionToken(ghost, "ghost@example.com")
	require.NoError(t, err)
	require.NoError(t, f.sessions.Save(context.Background(), ghost, tokenID, time.Hour))

	_, err = f.uc.ResolvePrincipal(context.Background(), token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
