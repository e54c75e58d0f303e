package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleeprelay/internal/response"
	"github.com/yourname/sleeprelay/internal/service"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 200
)

func PostLogSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := app.Relay().RecordSleepStart(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to log sleep")
			return
		}
		HandleSuccess(c, app.Logger(), res.Message, nil)
	}
}

func PostLogWake(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := app.Relay().RecordWakeEvent(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to log wake")
			return
		}
		HandleSuccess(c, app.Logger(), res.Message, gin.H{"hours_slept": res.HoursSlept, "page_id": res.PageID})
	}
}

func GetHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(service.HealthMessage, nil))
	}
}

func GetEvents(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultEventLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, response.BadRequest("limit must be a positive integer"))
				return
			}
			limit = min(n, maxEventLimit)
		}

		events, err := app.Relay().Events(c.Request.Context(), limit)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to list events")
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}
