package router

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teaminsight/internal/handlers"
	"teaminsight/internal/repository"
)

// UserLoaderMiddleware resolves the session's user id into a user. A stale
// id (deleted account) clears the session and the request continues as a
// guest.
func UserLoaderMiddleware(log *zap.Logger, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(handlers.UserIDSessionKey).(string)
		if !ok || userID == "" {
			c.Next()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, repository.ErrUserNotFound) {
				log.Error("Failed to load session user", zap.String("userID", userID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": gin.H{"message": "failed to load user"}})
				return
			}
			session.Delete(handlers.UserIDSessionKey)
			if err := session.Save(); err != nil {
				log.Warn("Failed to clear stale session user", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(handlers.UserContextKey, user)
		c.Next()
	}
}

// AuthRequired rejects requests without a loaded user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := handlers.CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "login required"}})
			return
		}
		c.Next()
	}
}
