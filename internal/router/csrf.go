package router

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"teaminsight/internal/handlers"
	"teaminsight/internal/utils"
)

const (
	csrfTokenSessionKey = handlers.CSRFTokenSessionKey
	csrfTokenContextKey = "csrf_token"
	CSRFHeader          = handlers.CSRFHeader
)

// CSRFProtection issues a per-session token and checks it on unsafe methods.
func CSRFProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(csrfTokenSessionKey).(string)
		if token == "" {
			newToken, err := utils.GenerateSecureToken(32)
			if err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to generate CSRF token"))
				return
			}
			token = newToken
			session.Set(csrfTokenSessionKey, token)
			if err := session.Save(); err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to save session"))
				return
			}
			// A freshly issued token cannot have been echoed yet.
			if isUnsafe(c.Request.Method) {
				c.Header(CSRFHeader, token)
				abortForbidden(c, "CSRF token not found in session")
				return
			}
		}

		c.Set(csrfTokenContextKey, token)
		c.Header(CSRFHeader, token)

		if isUnsafe(c.Request.Method) {
			submitted := c.GetHeader(CSRFHeader)
			if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
				abortForbidden(c, "invalid CSRF token")
				return
			}
		}

		c.Next()
	}
}

func isUnsafe(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{"message": message}})
}
