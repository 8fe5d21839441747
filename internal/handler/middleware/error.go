package middleware

import (
	"net/http"

	"autoservice-workflow/internal/handler/httperr"
	"autoservice-workflow/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last public error left by a handler that did not write a body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			if resp, ok := c.Errors[i].Meta.(httperr.Response); ok && c.Errors[i].IsType(gin.ErrorTypePublic) {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if len(c.Errors) == 0 {
			if status := c.Writer.Status(); status != http.StatusOK {
				c.Status(status)
				c.Writer.WriteHeaderNow()
			}
			return
		}
		c.JSON(http.StatusInternalServerError, internalError(c))
	}
}

// CustomRecovery turns a panic into a 500 and logs it with the request attributes.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := errs.Newf("handler panic: %v", r)
				RequestLogger(c).Error("recovered from panic",
					"error", err,
					"path", c.Request.URL.Path,
					"stack", errs.ExtractStackLines(err, stackLines),
				)
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalError(c))
			}
		}()
		c.Next()
	}
}

func internalError(c *gin.Context) httperr.Response {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Message = "Internal server error"
	if id := GetRequestID(c); id != "" {
		resp.Detail = gin.H{"request_id": id}
	}
	return resp
}
