package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/auth"
	"github.com/yukikurage/task-assignment-api/internal/constants"
	apierrors "github.com/yukikurage/task-assignment-api/internal/errors"
	"github.com/yukikurage/task-assignment-api/internal/services"
)

// Authenticator resolves a bearer access token into an identity.
type Authenticator interface {
	Authenticate(accessToken string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(authn Authenticator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apierrors.Unauthorized(c, "", "Authentication credentials were not provided")
			return
		}
		authenticate(c, authn, log, token)
	}
}

// OptionalAuth resolves a bearer token when one is sent and otherwise
// continues as an anonymous caller. A token that is sent but invalid is
// still rejected.
func OptionalAuth(authn Authenticator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Set(constants.ContextKeyIdentity, auth.Anonymous)
			c.Next()
			return
		}
		authenticate(c, authn, log, token)
	}
}

func authenticate(c *gin.Context, authn Authenticator, log logrus.FieldLogger, token string) {
	identity, err := authn.Authenticate(token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			apierrors.Unauthorized(c, apierrors.ErrCodeInvalidToken, "Given token not valid for any token type")
			return
		}
		log.WithError(err).WithField("request_id", c.GetString(constants.ContextKeyRequestID)).
			Error("failed to authenticate request")
		apierrors.InternalError(c)
		return
	}

	// Store identity in context for the handlers
	c.Set(constants.ContextKeyIdentity, identity)
	c.Set(constants.ContextKeyUserID, identity.UserID)
	c.Next()
}

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetIdentity retrieves the caller identity from context. Requests that
// never passed through an auth middleware are anonymous.
func GetIdentity(c *gin.Context) auth.Identity {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return auth.Anonymous
	}
	identity, ok := value.(auth.Identity)
	if !ok {
		return auth.Anonymous
	}
	return identity
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
