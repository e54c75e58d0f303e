package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleeprelay/internal"
	"github.com/yourname/sleeprelay/internal/response"
)

// HandleError maps AppError kinds to their status. Anything else is a 500.
func HandleError(c *gin.Context, logger internal.Logger, err error, msg string) {
	requestID := c.GetString("request_id")
	appErr := internal.AsAppError(err)
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)

	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, response.FromAppError(appErr))
}

func HandleSuccess(c *gin.Context, logger internal.Logger, msg string, data any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, response.Success(msg, data))
}
