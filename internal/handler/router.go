package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RouterConfig holds the handlers and values NewRouter mounts.
type RouterConfig struct {
	Webhook     http.Handler
	EchoMessage string
	// Feed is mounted at /feed when set.
	Feed http.Handler
}

// NewRouter returns the gin engine serving every endpoint. Routes are
// registered both bare and under /api so the same engine works behind
// API Gateway and locally.
func NewRouter(cfg RouterConfig) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", healthz)
	r.GET("/api/healthz", healthz)

	r.POST("/webhook", gin.WrapH(cfg.Webhook))
	r.POST("/api/webhook", gin.WrapH(cfg.Webhook))

	r.GET("/hello", hello)
	r.GET("/api/hello", hello)

	echoHandler := echo(cfg.EchoMessage)
	r.GET("/echo", echoHandler)
	r.GET("/api/echo", echoHandler)

	if cfg.Feed != nil {
		r.GET("/feed", gin.WrapH(cfg.Feed))
	}

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
