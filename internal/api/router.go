package api

import "github.com/gin-gonic/gin"

func NewRouter(app App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(app.Logger()))

	r.GET("/", GetHealth())
	r.POST("/log_sleep", PostLogSleep(app))
	r.POST("/log_wake", PostLogWake(app))
	r.GET("/events", GetEvents(app))
	return r
}
