package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/rogerio-castellano/pos-manager/internal/repo"
	"go.uber.org/zap"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

var (
	ErrWeakCredentials    = errors.New("username or password too short")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
)

// dummyHash is compared against when the username is unknown so that both
// failure paths pay for one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, err := HashPassword("pos-manager-unknown-user")
	if err != nil {
		panic(err)
	}
	return h
})

// Service registers and authenticates users against a UserRepository.
type Service struct {
	users         repo.UserRepository
	tokens        *TokenIssuer
	checkPassword func(hash, password string) bool
}

func NewService(users repo.UserRepository, tokens *TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens, checkPassword: CheckPassword}
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// Register stores a new active user and returns a token for it.
func (s *Service) Register(ctx context.Context, username, password string) (models.User, string, error) {
	username = normalizeUsername(username)
	if len(username) < MinUsernameLength || len(password) < MinPasswordLength {
		return models.User{}, "", ErrWeakCredentials
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hashed,
		IsActive:     true,
	})
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return models.User{}, "", ErrUsernameTaken
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.Username)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	zap.L().Info("user registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return user, token, nil
}

// Authenticate verifies the credentials and issues a token. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, normalizeUsername(username))
	if errors.Is(err, repo.ErrUserNotFound) {
		s.checkPassword(dummyHash(), password)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.checkPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", ErrInactiveUser
	}

	return s.tokens.GenerateToken(user.Username)
}

// UserByUsername resolves the user behind a verified token.
func (s *Service) UserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.users.GetByUsername(ctx, normalizeUsername(username))
}
