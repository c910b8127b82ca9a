package service

import (
	"contenteval/internal/config"
	"contenteval/internal/model"
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrLoginDisabled      = errors.New("operator login is not configured")
)

// AuthService handles operator authentication
type AuthService struct {
	username  string
	password  string
	jwtSecret []byte
	tokenTTL  time.Duration
	sessions  *SessionService
}

// NewAuthService creates a new auth service. Without a configured secret a
// random one is generated, so tokens do not survive a restart.
func NewAuthService(cfg config.AuthConfig, sessions *SessionService, tokenTTL time.Duration) *AuthService {
	secret := cfg.JWTSecret
	if secret == "" {
		log.Println("Warning: JWT_SECRET not set, using a random per-process secret")
		secret = uuid.New().String() + uuid.New().String()
	}
	if cfg.Password == "" {
		log.Println("Warning: OPERATOR_PASSWORD not set, login disabled")
	}

	return &AuthService{
		username:  cfg.Username,
		password:  cfg.Password,
		jwtSecret: []byte(secret),
		tokenTTL:  tokenTTL,
		sessions:  sessions,
	}
}

// Login validates credentials, starts a session and returns a token bound to it
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	if s.password == "" {
		return nil, ErrLoginDisabled
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	operatorID := "operator_" + uuid.New().String()[:8]
	session, err := s.sessions.Create(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueToken(operatorID, session.ID)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:      token,
		OperatorID: operatorID,
		SessionID:  session.ID,
	}, nil
}

// IssueToken signs a session-scoped operator token
func (s *AuthService) IssueToken(operatorID, sessionID string) (string, error) {
	now := time.Now()
	claims := &model.OperatorClaims{
		OperatorID: operatorID,
		SessionID:  sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates an operator JWT and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*model.OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OperatorClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
