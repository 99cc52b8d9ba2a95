package middleware

import (
	"strings"

	"github.com/gdugdh24/heartmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
}

func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// user id under handler.ContextUserIDKey.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			handler.WriteError(c, domain.ErrNotAuthenticated)
			return
		}

		userID, err := m.tokens.Verify(token)
		if err != nil {
			handler.WriteError(c, err)
			return
		}

		c.Set(handler.ContextUserIDKey, userID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
