package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
	"github.com/AnshRaj112/recipe-finder-backend/pkg/utils"
)

const invalidCredentials = "Invalid credentials"

type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

// AuthService registers accounts and issues tokens for them.
type AuthService struct {
	accounts database.AccountStore
	guard    *Guard
	tokens   *TokenService
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(stores database.Stores, guard *Guard, tokens *TokenService) *AuthService {
	return &AuthService{accounts: stores.Accounts, guard: guard, tokens: tokens, now: time.Now}
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := firstInvalid(
		utils.ValidateEmail(in.Email),
		utils.ValidateUsername(in.Username),
		utils.ValidatePassword(in.Password),
	); err != nil {
		return "", err
	}

	if err := s.guard.CheckRegistration(ctx, in.Email, in.Password, in.ConfirmPassword); err != nil {
		return "", err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", apperr.Internal("Failed to hash password", err)
	}

	account := &models.Account{
		CreatedAt:    s.now().UTC(),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
	}
	if err := s.accounts.Insert(ctx, account); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return "", apperr.Conflict("Email already registered")
		}
		return "", apperr.Internal("Failed to create account", err)
	}

	return s.issue(account)
}

// Login returns the same error for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperr.Invalid("Email and password are required")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		// Spend the same hashing work as a real check.
		utils.VerifyPassword(password, s.dummy())
		return "", apperr.Invalid(invalidCredentials)
	}
	if err != nil {
		return "", apperr.Internal("Failed to look up account", err)
	}

	if !utils.VerifyPassword(password, account.PasswordHash) {
		return "", apperr.Invalid(invalidCredentials)
	}
	return s.issue(account)
}

func (s *AuthService) issue(a *models.Account) (string, error) {
	tok, err := s.tokens.Issue(ClaimsInput{AccountID: a.ID.Hex(), Email: a.Email, Username: a.Username})
	if err != nil {
		return "", apperr.Internal("Failed to issue token", err)
	}
	return tok, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("recipe-finder-dummy-password")
	})
	return s.dummyHash
}

// firstInvalid converts the first field validation failure into an Invalid error.
func firstInvalid(errs ...error) error {
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			return &apperr.Error{Kind: apperr.KindInvalid, Message: ve.Message, Detail: map[string]string{"field": ve.Field}}
		}
		return apperr.Invalid(err.Error())
	}
	return nil
}
