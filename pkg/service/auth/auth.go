package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is what a token says about its bearer.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// Service issues HS256 tokens and reads identities back from verified tokens.
type Service struct {
	cfg    *config.Jwt
	logger *slog.Logger
}

func New(cfg *config.Jwt, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, logger: logger}
}

// GenerateToken signs a token whose subject is the user id.
func (s *Service) GenerateToken(id Identity) (string, error) {
	log := s.logger.With("userID", id.UserID)
	log.Debug("GenerateToken called")
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      id.UserID.String(),
		"username": id.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.Expiry).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return "", err
	}
	log.Info("GenerateToken successful")
	return tokenString, nil
}

// Identify extracts the identity of an already verified token.
func (s *Service) Identify(token *jwt.Token) (Identity, error) {
	log := s.logger.With("context", "Identify")
	if token == nil {
		log.Error("Identify failed: missing token")
		return Identity{}, domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		log.Error("Identify failed: unexpected claims type")
		return Identity{}, domain.ErrUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		log.Error("Identify failed: missing subject")
		return Identity{}, domain.ErrUnauthorized
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		log.Error("Identify failed: subject is not a uuid", "error", err)
		return Identity{}, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}
	username, _ := claims["username"].(string)
	return Identity{UserID: userID, Username: username}, nil
}

// Parse verifies tokenString with the configured secret and returns its identity.
func (s *Service) Parse(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		s.logger.Error("Parse failed", "error", err)
		return Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return s.Identify(token)
}
