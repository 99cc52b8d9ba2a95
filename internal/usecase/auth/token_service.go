package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService verifies HS256 access tokens whose subject is the user id,
// the format issued by the hosted identity provider. Issue mints the same
// shape for development and tests.
type TokenService struct {
	secret   []byte
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenService(secret, audience string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue returns a signed token for userID.
func (s *TokenService) Issue(userID uuid.UUID) (string, time.Time, error) {
	if userID == uuid.Nil {
		return "", time.Time{}, errors.New("issue token: empty user id")
	}
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature, expiry and audience and returns the subject.
// Every failure is reported as domain.ErrNotAuthenticated.
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, domain.ErrNotAuthenticated
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return uuid.Nil, domain.Wrap(domain.ErrNotAuthenticated, "verify token", errOrInvalid(err))
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, domain.Wrap(domain.ErrNotAuthenticated, "parse subject", errOrInvalid(err))
	}
	return userID, nil
}

func errOrInvalid(err error) error {
	if err != nil {
		return err
	}
	return errors.New("invalid token")
}
