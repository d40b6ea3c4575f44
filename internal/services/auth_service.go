package services

import (
	"fmt"
	"time"

	"backoffice/internal/config"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates dashboard operators.
type AuthService struct {
	operators  map[string]string
	jwtSecret  []byte
	tokenDurat time.Duration
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService from the configured operators.
func NewAuthService(operators []config.Operator, jwtSecret string, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	hashes := make(map[string]string, len(operators))
	for _, op := range operators {
		hashes[op.Name] = op.PasswordHash
	}
	return &AuthService{
		operators:  hashes,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 12 * time.Hour,
		logger:     logger,
	}
}

// Enabled reports whether logins are possible.
func (s *AuthService) Enabled() bool {
	return len(s.jwtSecret) > 0
}

// Login checks the operator's password and returns a signed JWT.
func (s *AuthService) Login(name, password string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}

	hash, ok := s.operators[name]
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": name,
		"exp": now.Add(s.tokenDurat).Unix(),
		"iat": now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	s.logger.Info("operator logged in", zap.String("operator", name))
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
