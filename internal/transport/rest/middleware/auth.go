package middleware

import (
	"contenteval/internal/model"
	"contenteval/internal/service"
	"context"
	"log"
	"net/http"
	"strings"
)

type contextKey string

const (
	OperatorIDKey contextKey = "operatorId"
	SessionKey    contextKey = "session"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc    *service.AuthService
	sessionSvc *service.SessionService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService, sessionSvc *service.SessionService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, sessionSvc: sessionSvc}
}

// RequireOperator validates the operator JWT and loads the session it is bound to
func (m *AuthMiddleware) RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		session, err := m.sessionSvc.Load(r.Context(), claims.SessionID, claims.OperatorID)
		if err != nil {
			log.Printf("Failed to load session %s: %v", claims.SessionID, err)
			http.Error(w, `{"error":"session store unavailable"}`, http.StatusServiceUnavailable)
			return
		}

		ctx := context.WithValue(r.Context(), OperatorIDKey, claims.OperatorID)
		ctx = context.WithValue(ctx, SessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetOperatorID extracts operator ID from context
func GetOperatorID(ctx context.Context) string {
	if v := ctx.Value(OperatorIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetSession extracts the operator's session from context
func GetSession(ctx context.Context) *model.Session {
	if v := ctx.Value(SessionKey); v != nil {
		return v.(*model.Session)
	}
	return nil
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
