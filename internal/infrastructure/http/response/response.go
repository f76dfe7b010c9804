package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mrops-br/product-explorer/internal/app/dto"
	"github.com/mrops-br/product-explorer/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, err error) {
	errorType := "error"
	switch status {
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusBadGateway:
		errorType = "upstream_error"
	case http.StatusServiceUnavailable:
		errorType = "upstream_unavailable"
	case http.StatusInternalServerError:
		errorType = "internal_server_error"
	}

	JSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: err.Error(),
	})
}

// StatusFor maps a service error to the HTTP status reported to the shell
func StatusFor(err error) int {
	var (
		httpErr      *domain.HTTPError
		transportErr *domain.TransportError
		decodeErr    *domain.DecodeError
	)

	switch {
	case errors.Is(err, dto.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrInvalidProductID):
		return http.StatusNotFound
	case errors.As(err, &httpErr):
		if httpErr.Status == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case errors.As(err, &transportErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &decodeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromError sends err with the status chosen by StatusFor
func FromError(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err)
}
