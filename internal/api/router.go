package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peter-kozarec/equitycalc/internal/api/handlers"
	"github.com/peter-kozarec/equitycalc/internal/api/middleware"
)

func NewRouter(logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	simulateHandler := handlers.NewSimulateHandler(logger)
	streamHandler := handlers.NewStreamHandler(logger)
	v1 := router.Group("/api/v1")
	v1.POST("/simulate", simulateHandler.Simulate)
	v1.GET("/stream", streamHandler.Stream)

	return router
}
