package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidIDToken = errors.New("invalid id token")
	ErrEmailMissing   = errors.New("id token has no email")
)

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// ExternalIdentity is the verified profile of an external sign-in
type ExternalIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// IDTokenVerifier checks a third-party ID token and returns its identity
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*ExternalIdentity, error)
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

// GoogleVerifier validates Google-issued ID tokens
type GoogleVerifier struct {
	clientID string
	keyFunc  jwt.Keyfunc
	jwks     *keyfunc.JWKS
}

// NewGoogleVerifier fetches the JWKS and refreshes it in the background
func NewGoogleVerifier(jwksURL, clientID string, log *logrus.Logger) (*GoogleVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warnf("Failed to refresh Google JWKS: %+v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	v := NewGoogleVerifierWithKeyfunc(clientID, jwks.Keyfunc)
	v.jwks = jwks
	return v, nil
}

func NewGoogleVerifierWithKeyfunc(clientID string, kf jwt.Keyfunc) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, keyFunc: kf}
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*ExternalIdentity, error) {
	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, v.keyFunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	if !validIssuer(claims.Issuer) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidIDToken, claims.Issuer)
	}
	if claims.Email == "" {
		return nil, ErrEmailMissing
	}
	if !claims.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidIDToken)
	}

	return &ExternalIdentity{
		Subject: claims.Subject,
		Email:   strings.ToLower(claims.Email),
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

func (v *GoogleVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func validIssuer(iss string) bool {
	for _, allowed := range googleIssuers {
		if iss == allowed {
			return true
		}
	}
	return false
}
