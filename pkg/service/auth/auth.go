package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/urbanbank/pkg/config"
	"github.com/amirasaad/urbanbank/pkg/domain"
	"github.com/amirasaad/urbanbank/pkg/domain/user"
	repouser "github.com/amirasaad/urbanbank/pkg/repository/user"
	"github.com/amirasaad/urbanbank/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
)

// dummyHash is compared against when the identity is unknown so that a
// miss costs about as much as a wrong password.
const dummyHash = "$2a$10$.IIxpSc3OElWXLV2Wj517eUGmZ64IQgBNQ4OcFbanW85CTrgrIDQy"

type Service struct {
	users  repouser.Repository
	cfg    *config.Jwt
	logger *slog.Logger
	now    func() time.Time
}

func New(
	users repouser.Repository,
	cfg *config.Jwt,
	logger *slog.Logger,
) *Service {
	return &Service{users: users, cfg: cfg, logger: logger, now: time.Now}
}

// Login verifies identity (username or email) and password.
//
// A stored credential without a recognised hash prefix is a legacy
// plaintext password: it is compared directly and, on a match, replaced by
// a one-way hash before Login returns.
func (s *Service) Login(
	ctx context.Context,
	identity, password string,
) (*user.User, error) {
	log := s.logger.With("context", "Login", "identity", identity)
	log.Debug("Login called")

	u, err := s.users.FindByIdentifier(ctx, identity)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = utils.CheckPasswordHash(password, dummyHash)
		log.Warn("Login failed", "error", domain.ErrAuthenticationFailed)
		return nil, domain.ErrAuthenticationFailed
	}
	if err != nil {
		log.Error("User lookup failed", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if utils.IsHashed(u.Password) {
		if !utils.CheckPasswordHash(password, u.Password) {
			log.Warn("Login failed", "error", domain.ErrAuthenticationFailed)
			return nil, domain.ErrAuthenticationFailed
		}
		log.Info("Login successful", "username", u.Username)
		return u, nil
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(u.Password)) != 1 {
		log.Warn("Login failed", "error", domain.ErrAuthenticationFailed)
		return nil, domain.ErrAuthenticationFailed
	}
	if err := s.SetPassword(ctx, u.Username, password); err != nil {
		log.Error("Legacy password upgrade failed", "error", err)
		return nil, err
	}
	log.Info("Legacy password upgraded", "username", u.Username)
	return u, nil
}

// SetPassword hashes password and stores it for username.
func (s *Service) SetPassword(ctx context.Context, username, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, username, hash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// GenerateToken signs a session token for u.
func (s *Service) GenerateToken(u *user.User) (string, error) {
	log := s.logger.With("username", u.Username)
	log.Debug("GenerateToken called")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": u.Username,
		"exp":      s.now().Add(s.cfg.Expiry).Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return "", err
	}
	return signed, nil
}

// GetCurrentUsername extracts the username from a verified token.
func (s *Service) GetCurrentUsername(token *jwt.Token) (string, error) {
	if token == nil {
		return "", domain.ErrNotAuthenticated
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrNotAuthenticated
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", domain.ErrNotAuthenticated
	}
	return username, nil
}

// CurrentUser loads the user named by a verified token. A token for a user
// that no longer exists is treated as unauthenticated.
func (s *Service) CurrentUser(ctx context.Context, token *jwt.Token) (*user.User, error) {
	username, err := s.GetCurrentUsername(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrNotAuthenticated
	}
	return u, err
}
