// Package auth registers users and issues bearer tokens.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"diabot/internal/models"
	"diabot/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("email and password are required")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const (
	TokenType  = "bearer"
	DefaultTTL = 60 * time.Minute
)

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type Service struct {
	users  storage.UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// NewService uses a random signing secret when secret is empty, so tokens do
// not survive a restart.
func NewService(users storage.UserStore, secret string, ttl time.Duration, log zerolog.Logger) (*Service, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		log.Warn().Msg("DIABOT_JWT_SECRET not set, using a random per-process secret")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{users: users, secret: key, ttl: ttl, now: time.Now, log: log}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(ctx context.Context, email, password string) (Token, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Token{}, ErrInvalidInput
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return Token{}, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return Token{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return Token{}, ErrPasswordTooLong
		}
		return Token{}, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{ID: uuid.NewString(), Email: email, PasswordHash: string(hash), CreatedAt: s.now().UTC()}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return Token{}, ErrEmailTaken
		}
		return Token{}, fmt.Errorf("create user: %w", err)
	}
	s.log.Info().Str("user_id", u.ID).Msg("user signed up")
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Token{}, ErrInvalidCredentials
	}
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return Token{}, ErrInvalidCredentials
	}
	if err != nil {
		return Token{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Token{}, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *Service) issue(u models.User) (Token, error) {
	now := s.now()
	claims := Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{AccessToken: signed, TokenType: TokenType}, nil
}

// Verify parses a token issued by this service.
func (s *Service) Verify(raw string) (*Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return &c, nil
}
