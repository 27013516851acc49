package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrMalformedClaims = errors.New("token claims missing account id or email")
	ErrAccountNotFound = errors.New("account not found")
)

// TokenValidator is the part of TokenService the resolver depends on.
type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// IdentityResolver turns a bearer credential into the account it names.
type IdentityResolver struct {
	tokens   TokenValidator
	accounts database.AccountStore
}

func NewIdentityResolver(tokens TokenValidator, accounts database.AccountStore) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, accounts: accounts}
}

// Resolve performs one account lookup and never writes. The token error
// subtype is folded into ErrInvalidToken.
func (r *IdentityResolver) Resolve(ctx context.Context, bearer string) (*models.Account, error) {
	claims, err := r.tokens.Validate(bearer)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.AccountID == "" || claims.Email == "" {
		return nil, ErrMalformedClaims
	}

	account, err := r.accounts.FindByID(ctx, claims.AccountID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return account, nil
}
