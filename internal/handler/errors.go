package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"sownmark/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError writes {"error": message} with the given status.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, message string, statusCode int) {
	writeSuccess(w, MessageResponse{Message: message}, statusCode)
}

var kindStatus = map[service.Kind]int{
	service.KindValidation:         http.StatusBadRequest,
	service.KindInvalidCredentials: http.StatusUnauthorized,
	service.KindForbidden:          http.StatusForbidden,
	service.KindNotFound:           http.StatusNotFound,
	service.KindConflict:           http.StatusConflict,
	service.KindInternal:           http.StatusInternalServerError,
}

// writeServiceError maps a workflow error to its status; internal causes are
// logged and never sent to the client.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		h.logger().WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
	}

	WriteError(w, service.MessageOf(err, "Internal server error"), status)
}

// validationMessage turns the first validator failure into a client message.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid request body"
	}

	fe := errs[0]
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return "Invalid email format"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "oneof":
		return "Invalid " + fe.Field()
	default:
		return fmt.Sprintf("Invalid %s", fe.Field())
	}
}
