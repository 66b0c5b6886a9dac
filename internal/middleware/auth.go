package middleware

import (
	"net/http"
	"strings"
	"time"

	"storefront_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	ContextUserKey = "loggedUser"
)

// AuthMiddleware resolves the bearer token to a user and attaches it to the
// request context. Handlers read the logged user with LoggedUser.
func AuthMiddleware(users domain.UserUseCase, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Middleware: Authorization header is missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warnf("Middleware: Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		user, err := users.GetUserByToken(parts[1])
		if err != nil {
			log.Warnf("Middleware: Token resolution failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// LoggedUser returns the authenticated user attached by AuthMiddleware.
func LoggedUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
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
			"latency_ms":  latency.Milliseconds(),
		})

		switch {
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
