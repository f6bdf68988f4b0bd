package httpkit

import (
	"errors"
	"net/http"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Accepted answers 202 for work that continues after the response.
func Accepted(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusAccepted, payload)
}

func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError writes err as a response and records it on the context for
// RequestLogger. The first *apperr.Error in the chain decides the status;
// anything else is a 500 whose text is not exposed. It reports whether err
// was non-nil.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(err)

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return true
	}
	Error(c, appErr.HTTPStatus(), appErr.Message, appErr.Details)
	return true
}
