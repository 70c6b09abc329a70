package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "hello world"})
}

// echo returns the configured diagnostic value and fails loudly without one.
func echo(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if value == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ECHO_MESSAGE is not set"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": value})
	}
}

func healthz(c *gin.Context) { c.Status(http.StatusOK) }
