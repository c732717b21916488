package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"teaminsight/internal/models"
	"teaminsight/internal/persistence"
	"teaminsight/internal/repository"
)

// Keys shared with the router middleware.
const (
	UserContextKey      = "user"
	UserIDSessionKey    = "userID"
	CSRFTokenSessionKey = "csrf_token"
	// CSRFHeader carries the token both ways: the server sends it on every
	// response and clients echo it on unsafe requests.
	CSRFHeader = "X-CSRF-Token"
)

// CurrentUser returns the user loaded for this request, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// Identity resolves the caller for persistence routing.
func Identity(c *gin.Context) persistence.Identity {
	if user, ok := CurrentUser(c); ok {
		return persistence.Identity{UID: user.ID}
	}
	return persistence.Identity{}
}

// storeRouter picks the persistence branch for this request. Guests get
// their browser session as the local store.
func storeRouter(c *gin.Context, remote persistence.ScoreStore) persistence.Router {
	local := persistence.NewSessionLocalStore(sessions.Default(c))
	return persistence.For(Identity(c), local, remote)
}

type errorBody struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

func respondError(c *gin.Context, status int, message, kind string) {
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Message: message, Kind: kind}})
}

// respondStoreError turns a score store failure into the structured error
// body, choosing the status from its kind.
func respondStoreError(c *gin.Context, err error) {
	var se *repository.StoreError
	if !errors.As(err, &se) {
		respondError(c, http.StatusInternalServerError, err.Error(), string(repository.KindUnknown))
		return
	}
	status := http.StatusInternalServerError
	switch se.Kind {
	case repository.KindPermissionDenied:
		status = http.StatusForbidden
	case repository.KindUnavailable:
		status = http.StatusServiceUnavailable
	}
	respondError(c, status, se.UserMessage(), string(se.Kind))
}
