package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps domain errors onto HTTP codes. Messages stay
// human readable; anything unclassified is a 500 with details kept in logs.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnknownComponent):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrOptionNotOffered):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "Planning session not found")
	case errors.Is(err, ErrPendingComponents):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrStageOutputInvalid):
		log.Printf("Stage contract violation: %v", err)
		RespondError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, ErrEngineUnavailable):
		log.Printf("Generation engine unavailable: %v", err)
		RespondError(c, http.StatusServiceUnavailable, "Generation engine unavailable")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
