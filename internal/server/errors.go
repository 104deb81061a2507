package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/sprintdeck/internal/ai"
	"github.com/zulandar/sprintdeck/internal/auth"
	"github.com/zulandar/sprintdeck/internal/sprint"
	"github.com/zulandar/sprintdeck/internal/standup"
	"github.com/zulandar/sprintdeck/internal/tracker"
	"gorm.io/gorm"
)

// errBadRequest marks handler-local input validation failures.
var errBadRequest = errors.New("bad request")

// writeError maps the error taxonomy onto HTTP statuses. Upstream and
// model failures surface as 502; anything unrecognized becomes an opaque
// 500 with the detail kept in logs.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case errors.Is(err, auth.ErrForbidden), errors.Is(err, auth.ErrNoRole):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, errBadRequest), errors.Is(err, standup.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, sprint.ErrNoActiveSprint), errors.Is(err, sprint.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ai.ErrMalformedResponse), errors.Is(err, ai.ErrUpstream),
		errors.Is(err, tracker.ErrUpstream), errors.Is(err, tracker.ErrNotConfigured):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("server: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// identity returns the caller's identity or aborts with 401. Handlers
// behind the auth middleware always find one; the guard covers direct
// handler tests and misconfigured route tables.
func identity(c *gin.Context) (auth.Identity, bool) {
	id, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	}
	return id, ok
}
