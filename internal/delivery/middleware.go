package delivery

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"pizzahunt/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const ownerContextKey = "owner"

// TokenParser verifies a bearer token and returns the user id it carries.
type TokenParser interface {
	Parse(token string) (int64, error)
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Identity resolves the cart owner of the request once and stores it in the
// gin context: the user of a valid bearer token, or else the session cookie,
// minting a new session when the request has none.
func Identity(tokens TokenParser, session SessionConfig, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ownerContextKey, resolveOwner(c, tokens, session, log))
		c.Next()
	}
}

func resolveOwner(c *gin.Context, tokens TokenParser, session SessionConfig, log *logrus.Logger) domain.Owner {
	if token := bearerToken(c); token != "" {
		userID, err := tokens.Parse(token)
		if err == nil {
			return domain.UserOwner(userID)
		}
		log.Debugf("Middleware: Ignoring bearer token: %v", err)
	}

	if key, err := c.Cookie(session.CookieName); err == nil {
		if _, err := uuid.Parse(key); err == nil {
			return domain.SessionOwner(key)
		}
		log.Debugf("Middleware: Replacing malformed session cookie")
	}

	key := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, key, int(session.TTL.Seconds()), "/", "", session.Secure, true)
	log.Debugf("Middleware: Started session %s", key)
	return domain.SessionOwner(key)
}

func OwnerFrom(c *gin.Context) domain.Owner {
	value, ok := c.Get(ownerContextKey)
	if !ok {
		return domain.Owner{}
	}
	owner, _ := value.(domain.Owner)
	return owner
}

// RequireUser rejects requests whose owner is not an authenticated user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !OwnerFrom(c).IsAuthenticated() {
			c.Abort()
			ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		c.Next()
	}
}

// APIKey guards operator routes with the X-API-KEY header. An empty key
// disables the routes.
func APIKey(key string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader("X-API-KEY")
		if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			log.Warnf("Middleware: Rejected operator request to %s from %s", c.Request.URL.Path, c.ClientIP())
			c.Abort()
			ErrorResponse(c, http.StatusUnauthorized, "Invalid or missing API key")
			return
		}
		c.Next()
	}
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		entry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
			"latency_ms":  latency.Milliseconds(),
		})
		if owner := OwnerFrom(c); owner.IsAuthenticated() {
			entry = entry.WithField("user_id", owner.UserID)
		}

		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
