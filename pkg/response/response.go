package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The production API answers with two envelope generations. Older routes put
// a plain boolean under "result"; the bookmark routes nest the outcome as
// {"result": {"success": bool, "message": string}}. Both are kept here so the
// stub reproduces what clients actually have to parse.

// Success writes {"result": true} merged with extra top-level fields.
func Success(c *gin.Context, extra gin.H) {
	body := gin.H{"result": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Failure writes {"result": false, "message": msg} with the given status.
func Failure(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"result": false, "message": msg})
}

// Nested writes the bookmark-style envelope. The top-level message stays a
// generic one; the specific reason lives inside the result object.
func Nested(c *gin.Context, success bool, msg, topMsg string) {
	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"success": success, "message": msg},
		"message": topMsg,
	})
}

// BadRequest is a 400 failure.
func BadRequest(c *gin.Context, msg string) {
	Failure(c, http.StatusBadRequest, msg)
}

// NotFound is a 404 failure.
func NotFound(c *gin.Context, msg string) {
	Failure(c, http.StatusNotFound, msg)
}

// Unauthorized is a 401 failure.
func Unauthorized(c *gin.Context, msg string) {
	Failure(c, http.StatusUnauthorized, msg)
}

// InternalError is a 500 failure carrying the error text.
func InternalError(c *gin.Context, err error) {
	Failure(c, http.StatusInternalServerError, err.Error())
}
