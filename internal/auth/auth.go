// Package auth is the identity gate: it registers users, verifies logins and
// issues/validates the bearer tokens every other operation is scoped by.
// Passwords are bcrypt-hashed; the rest of the system only ever sees the
// resolved username.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"chitieu/internal/core"
)

// DefaultTokenTTL matches the original 7-day token lifetime.
const DefaultTokenTTL = 7 * 24 * time.Hour

var ErrMissingCredentials = fmt.Errorf("%w: username and password are required", core.ErrValidation)

// Identity is the resolved current user: the username is the owner key for
// all record operations.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

// UserStore is the persistence the gate needs.
type UserStore interface {
	CreateUser(ctx context.Context, u core.User) error
	GetUser(ctx context.Context, username string) (core.User, error)
}

type Service struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(users UserStore, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

type claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Register creates a new user and returns it with a fresh token.
// Fails with core.ErrDuplicateUser when the username is taken.
func (s *Service) Register(ctx context.Context, username, password, email, name string) (core.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return core.User{}, "", ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := core.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(email),
		Name:         strings.TrimSpace(name),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return core.User{}, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return core.User{}, "", err
	}

	slog.InfoContext(ctx, "User registered", "username", username)
	return user, token, nil
}

// Login verifies the credentials and returns the user with a fresh token.
// Unknown usernames and wrong passwords both map to core.ErrUnauthorized so
// the response does not leak which one failed.
func (s *Service) Login(ctx context.Context, username, password string) (core.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return core.User{}, "", ErrMissingCredentials
	}

	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, "", core.ErrUnauthorized
		}
		return core.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return core.User{}, "", core.ErrUnauthorized
	}

	token, err := s.issueToken(user)
	if err != nil {
		return core.User{}, "", err
	}

	slog.InfoContext(ctx, "User logged in", "username", username)
	return user, token, nil
}

// Verify resolves a bearer token into the identity it was issued for.
// Any parse, signature or expiry failure maps to core.ErrUnauthorized.
func (s *Service) Verify(tokenString string) (Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Identity{}, core.ErrUnauthorized
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid || c.Subject == "" {
		return Identity{}, core.ErrUnauthorized
	}

	return Identity{Username: c.Subject, Email: c.Email, Name: c.Name}, nil
}

func (s *Service) issueToken(user core.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
