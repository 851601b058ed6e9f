package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/TechHelpSeniors/techhelp-proxy/errors"
	"github.com/TechHelpSeniors/techhelp-proxy/logger"
	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler turns the last error pushed with c.Error into the JSON
// envelope {"error": ..., "message"?: ...}. Handlers that already wrote a
// response are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		err := last.Err

		var appError *errors.AppError
		if stderrors.As(err, &appError) {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))
			writeError(c, statusCode, types.ErrorResponse{
				Error:   appError.Message,
				Message: appError.Detail,
			})
			return
		}

		// Gin binding errors come from malformed form bodies.
		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			writeError(c, http.StatusBadRequest, types.ErrorResponse{
				Error:   "Invalid request body",
				Message: err.Error(),
			})
			return
		}

		appError = errors.InternalServerError("Internal Server Error")
		appError.Raw = err
		if gin.IsDebugging() {
			appError.Detail = err.Error()
		}
		logger.LogHTTPError(c, err, appError.GetHTTPStatus(), "Unexpected server error")
		writeError(c, appError.GetHTTPStatus(), types.ErrorResponse{
			Error:   appError.Message,
			Message: appError.Detail,
		})
	}
}

// RecoveryHandler answers a recovered panic with the 500 envelope.
func RecoveryHandler(c *gin.Context, recovered any) {
	err := fmt.Errorf("panic: %v", recovered)
	logger.LogHTTPError(c, err, http.StatusInternalServerError, "Recovered from panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Internal Server Error"})
}

func writeError(c *gin.Context, statusCode int, response types.ErrorResponse) {
	if c.Writer.Written() {
		return
	}
	c.JSON(statusCode, response)
}
