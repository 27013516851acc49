package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is fixed; tokens cannot be revoked before expiry.
const TokenTTL = 3600 * time.Second

var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenNotYetValid  = errors.New("token used before issued")

	errIncompleteClaims = errors.New("account id and email are required")
)

// Claims is the fixed shape of an identity assertion.
type Claims struct {
	AccountID string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// ClaimsInput is what callers provide; timestamps are set by Issue.
type ClaimsInput struct {
	AccountID string
	Email     string
	Username  string
}

// TokenService issues and validates HS256 identity assertions.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs in with iat = now and exp = iat + TokenTTL.
func (s *TokenService) Issue(in ClaimsInput) (string, error) {
	if in.AccountID == "" || in.Email == "" {
		return "", errIncompleteClaims
	}

	issuedAt := s.now().Truncate(time.Second)
	claims := Claims{
		AccountID: in.AccountID,
		Email:     in.Email,
		Username:  in.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and that now is within [iat, exp). No leeway.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if claims.IssuedAt == nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrTokenNotYetValid
	default:
		return ErrTokenMalformed
	}
}
