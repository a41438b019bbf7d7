package transport

import (
	"net/http"
	"time"

	"photointake/bot/internal/intake"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates the webhook router. Replies are returned in the webhook
// response body, so the transport delivers them without a second round trip.
func NewRouter(engine *intake.Engine, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(ginLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/webhook", func(c *gin.Context) {
		var upd Update
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update"})
			return
		}

		reply := engine.HandleEvent(c.Request.Context(), upd.ToEvent())
		c.JSON(http.StatusOK, reply)
	})

	return r
}

// ginLogger is a custom logger middleware.
func ginLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
