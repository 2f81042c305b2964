package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"aeo-analytics/services"
)

// ErrBadRequest marks a malformed query parameter.
var ErrBadRequest = errors.New("bad request")

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// Error codes.
const (
	CodeNotFound        = "not_found"
	CodeInvalidArgument = "invalid_argument"
	CodeUnavailable     = "data_unavailable"
	CodeSchema          = "schema_error"
	CodeEmptyDataset    = "empty_dataset"
	CodeInternal        = "internal"
)

// classify maps an engine error onto an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrCompetitorNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, services.ErrInvalidScenario),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, CodeInvalidArgument
	case errors.Is(err, services.ErrDataUnavailable):
		return http.StatusServiceUnavailable, CodeUnavailable
	case errors.Is(err, services.ErrSchema):
		return http.StatusInternalServerError, CodeSchema
	case errors.Is(err, services.ErrEmptyDataset):
		return http.StatusInternalServerError, CodeEmptyDataset
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     err.Error(),
		Code:      code,
		RequestID: c.GetString(requestIDKey),
	})
}
