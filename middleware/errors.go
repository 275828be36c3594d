package middleware

import (
	"net/http"

	apperrors "absensi/errors"
	"absensi/response"
	"absensi/services/logger"

	"github.com/gin-gonic/gin"
)

// StatusFor maps an error code to its HTTP status.
func StatusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeUnauthenticated, apperrors.ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeAlreadyCheckedIn, apperrors.ErrCodeAlreadyCheckedOut, apperrors.ErrCodeUserExists:
		return http.StatusConflict
	case apperrors.ErrCodeNotCheckedIn, apperrors.ErrCodeValidation, apperrors.ErrCodeInvalidCredentials:
		return http.StatusBadRequest
	case apperrors.ErrCodeUserNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Internal failures are logged and answered with a generic message.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		appErr := apperrors.GetAppError(err)
		if appErr == nil {
			log.Error("request_id=%s %s %s: %v", RequestID(c), c.Request.Method, c.FullPath(), err)
			response.ServerError(c)
			return
		}

		status := StatusFor(appErr.Code)
		if status >= http.StatusInternalServerError {
			log.Error("request_id=%s %s %s: %v", RequestID(c), c.Request.Method, c.FullPath(), appErr)
			response.Error(c, status, "Terjadi kesalahan server")
			return
		}
		response.Error(c, status, appErr.Message)
	}
}
