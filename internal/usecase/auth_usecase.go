package usecase

import (
	"context"
	"errors"
	"strings"

	"go-medical-marketplace/internal/converter"
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/entity"
	"go-medical-marketplace/internal/domain/repository"
	"go-medical-marketplace/internal/infrastructure/identity"
	"go-medical-marketplace/internal/service"
	"go-medical-marketplace/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidIDToken = errors.New("invalid Google ID token")
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrTokenRevoked   = errors.New("token has been revoked")
	ErrUserNotFound   = errors.New("user not found")
)

type AuthUsecase interface {
	SignInWithGoogle(ctx context.Context, req *dto.GoogleSignInRequest) (*dto.SessionResponse, error)
	SignOut(ctx context.Context, userID uuid.UUID, tokenID string) error
	ResolvePrincipal(ctx context.Context, token string) (*entity.Principal, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	verifier     identity.IDTokenVerifier
	jwtService   *jwt.JWTService
	sessions     service.SessionStore
	auditService service.AuditService
	adminEmails  map[string]struct{}
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	verifier identity.IDTokenVerifier,
	jwtService *jwt.JWTService,
	sessions service.SessionStore,
	auditService service.AuditService,
	adminEmails []string,
) AuthUsecase {
	allow := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		allow[strings.ToLower(email)] = struct{}{}
	}

	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		verifier:     verifier,
		jwtService:   jwtService,
		sessions:     sessions,
		auditService: auditService,
		adminEmails:  allow,
	}
}

func (u *authUsecase) SignInWithGoogle(ctx context.Context, req *dto.GoogleSignInRequest) (*dto.SessionResponse, error) {
	ident, err := u.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		u.log.Infof("Rejected Google sign-in: %v", err)
		return nil, ErrInvalidIDToken
	}

	user, err := u.findOrCreateUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	token, tokenID, err := u.jwtService.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		u.log.Warnf("Failed to generate session token: %+v", err)
		return nil, err
	}

	if err := u.sessions.Save(ctx, user.ID, tokenID, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, err
	}

	resp := converter.UserToResponse(user)
	resp.Role = string(u.effectiveRole(user))

	return &dto.SessionResponse{
		Token:     token,
		ExpiresIn: int64(u.jwtService.GetAccessExpiry().Seconds()),
		User:      resp,
	}, nil
}

func (u *authUsecase) findOrCreateUser(ctx context.Context, ident *identity.ExternalIdentity) (*entity.User, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), ident.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user = &entity.User{
		Email: ident.Email,
		Name:  ident.Name,
		Image: ident.Picture,
		Role:  entity.RolePatient,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			// concurrent first sign-in for the same account
			existing, findErr := u.userRepo.FindByEmail(u.db.WithContext(ctx), ident.Email)
			if findErr != nil || existing == nil {
				u.log.Warnf("Failed to reload user after duplicate insert: %+v", findErr)
				return nil, err
			}
			return existing, nil
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserSignIn, "user", user.ID.String(), map[string]interface{}{
		"email":    user.Email,
		"provider": "google",
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return user, nil
}

func (u *authUsecase) SignOut(ctx context.Context, userID uuid.UUID, tokenID string) error {
	return u.sessions.Revoke(ctx, userID, tokenID)
}

// ResolvePrincipal validates the session token and reloads the user so role
// and onboarding changes apply on the next request.
func (u *authUsecase) ResolvePrincipal(ctx context.Context, token string) (*entity.Principal, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	exists, err := u.sessions.Exists(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &entity.Principal{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Image:       user.Image,
		Phone:       user.Phone,
		Role:        u.effectiveRole(user),
		IsOnboarded: user.IsOnboarded,
		TokenID:     claims.TokenID,
	}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := converter.UserToResponse(user)
	resp.Role = string(u.effectiveRole(user))
	return resp, nil
}

// effectiveRole applies the ADMIN_EMAILS allow-list over the stored role
func (u *authUsecase) effectiveRole(user *entity.User) entity.Role {
	if _, ok := u.adminEmails[strings.ToLower(user.Email)]; ok {
		return entity.RoleAdmin
	}
	return user.Role
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
