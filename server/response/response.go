package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apiError "github.com/techagentng/civicsafety/errors"
)

// JSON writes the uniform response envelope. errs carries caller-safe
// error strings; data is omitted when nil.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	errMessage := ""
	if err != nil {
		errMessage = err.Error()
	}
	responseData := gin.H{
		"message": message,
		"status":  http.StatusText(status),
	}
	if data != nil {
		responseData["data"] = data
	}
	if errMessage != "" {
		responseData["errors"] = errMessage
	}
	c.JSON(status, responseData)
}

// HandleErrors maps a service error onto the envelope using the status
// it carries, hiding internals behind a 500 for everything else.
func HandleErrors(c *gin.Context, err error) {
	apiErr := apiError.FromError(err)
	JSON(c, "", apiErr.Status, nil, apiErr)
}
