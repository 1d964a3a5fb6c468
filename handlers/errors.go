package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"trackstar/models"
	"trackstar/services"

	"github.com/gin-gonic/gin"
)

const (
	codeNotFound       = "not_found"
	codeInvalidRequest = "invalid_request"
	codeServerError    = "server_error"
)

func errorBody(code, description string) gin.H {
	return gin.H{
		"error":             code,
		"error_description": description,
	}
}

// respondError translates a service error into the wire envelope. Validation
// failures produce one entry per violated field; anything unrecognized is
// logged in full and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		entries := make([]gin.H, len(verr.Violations))
		for i, v := range verr.Violations {
			entries[i] = errorBody(codeInvalidRequest, fmt.Sprintf("%s: %s", v.Field, v.Message))
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": entries})

	case errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrTrackNotFound),
		errors.Is(err, services.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, errorBody(codeNotFound, err.Error()))

	default:
		log.Printf("Unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody(codeServerError, "an internal error occurred"))
	}
}
