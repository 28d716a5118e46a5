package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the usual shape of the data payload.
type Response map[string]any

// Business codes carried in the envelope next to the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeRule         = 42201
	CodeServerErr    = 50001
)

// Success writes {"code":0,"data":data}.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes {"code":code,"message":msg} with the given HTTP status.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}
