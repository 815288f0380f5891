package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/billable/internal/validate"
)

var (
	// ErrInvalidCredentials is returned on login when the username does
	// not resolve or the password does not match. The two cases are
	// deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned on registration when a non-deleted
	// user already holds the username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrUserNotFound is returned by the credential store when a
	// username does not resolve.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidToken is returned when a presented bearer token fails
	// verification.
	ErrInvalidToken = errors.New("invalid or expired token")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
}

// TokenConfig carries the signing material for issued bearer tokens.
// The key must be non-empty; config loading enforces that at startup.
type TokenConfig struct {
	Key      []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Service holds no session state; every issued token is self-contained.
type Service struct {
	repo  Repository
	token TokenConfig
}

func NewService(repo Repository, token TokenConfig) *Service {
	return &Service{repo: repo, token: token}
}

// Claims are the identity claims carried by an issued token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type LoginParams struct {
	Username string `validate:"required,max=50"`
	Password string `validate:"required"`
}

type RegisterParams struct {
	Username string `validate:"required,max=50"`
	Password string `validate:"required,min=8"`
}

var (
	loginMessages = validate.Messages{
		"Username.required": "Username is required",
		"Username.max":      "Username cannot exceed 50 characters",
		"Password.required": "Password is required",
	}

	registerMessages = validate.Merge(loginMessages, validate.Messages{
		"Password.min": "Password must be at least 8 characters",
	})
)

// Login verifies the credentials against the stored bcrypt hash and
// returns a signed HS256 bearer token carrying the username and user id,
// valid for the configured TTL.
func (s *Service) Login(ctx context.Context, params LoginParams) (string, error) {
	if err := validate.Struct(params, loginMessages); err != nil {
		return "", err
	}

	u, err := s.repo.GetUserByUsername(ctx, params.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(params.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(u)
}

// Register hashes the password with bcrypt and persists a new user.
// The username must not belong to an existing non-deleted user.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if err := validate.Struct(params, registerMessages); err != nil {
		return nil, err
	}

	_, err := s.repo.GetUserByUsername(ctx, params.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}

	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u, err := NewUser(params.Username, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return u, nil
}

func (s *Service) issueToken(u *User) (string, error) {
	now := time.Now().UTC()

	claims := &Claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    s.token.Issuer,
			Audience:  jwt.ClaimStrings{s.token.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.token.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.token.Key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses and verifies a presented bearer token, returning its
// claims when valid.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(*jwt.Token) (any, error) { return s.token.Key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
