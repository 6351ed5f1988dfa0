package handler

import (
	"errors"
	"net/http"

	"appointment_booking/internal/middleware"
	"appointment_booking/internal/model"
	"appointment_booking/internal/service"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service sentinels to HTTP status codes.
// Anything unrecognised is a store or infrastructure failure.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFoundOrUnauthorized):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Server errors are attached to the gin
// context for the request log and replaced by fallback in the body.
func respondError(c *gin.Context, err error, fallback string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// callerIdentity returns the authenticated caller or writes a 401.
func callerIdentity(c *gin.Context) (model.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return identity, ok
}
