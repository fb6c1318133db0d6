package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Welcome 根路径欢迎信息
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Story Generator API!",
		"status":  "running",
	})
}
