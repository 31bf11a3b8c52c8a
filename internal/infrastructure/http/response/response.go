package response

import (
	"encoding/json"
	"net/http"

	"github.com/mrops-br/financial-products/internal/app/dto"
)

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, dto.ErrorResponse{
		Name:    errorName(status),
		Message: message,
	})
}

// Invalid sends a 400 listing the violated constraints per property
func Invalid(w http.ResponseWriter, violations []dto.Violation) {
	JSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Name:    errorName(http.StatusBadRequest),
		Message: "Invalid body, check 'errors' property for more info.",
		Errors:  violations,
	})
}

func errorName(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NotFoundError"
	case http.StatusBadRequest:
		return "BadRequestError"
	case http.StatusInternalServerError:
		return "InternalServerError"
	default:
		return "HttpError"
	}
}
