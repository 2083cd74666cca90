package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/templink/internal/shared/errors"
)

// APIResponse is the JSON envelope of every admin API response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{Success: true, Data: data, Message: message})
}

func CreatedResponse(c *gin.Context, data interface{}, message string) {
	SuccessResponse(c, http.StatusCreated, message, data)
}

// ErrorResponse answers with an internal_error envelope and the given status.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	abortWithError(c, statusCode, &ErrorInfo{
		Type:    string(errors.ErrorTypeInternal),
		Message: message,
	})
}

// ErrorResponseWithError maps err to a status and envelope. Errors that are
// not AppErrors become a generic 500 so internals never leak.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error occurred")
		return
	}
	abortWithError(c, appErr.Code, &ErrorInfo{
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

func NotFoundResponse(c *gin.Context, message string) {
	ErrorResponseWithError(c, errors.NewNotFoundError(message))
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func abortWithError(c *gin.Context, statusCode int, info *ErrorInfo) {
	c.AbortWithStatusJSON(statusCode, APIResponse{Success: false, Error: info})
}
