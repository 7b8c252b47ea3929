package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
)

type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeUnavailable  ErrorCode = "UNAVAILABLE"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// WriteError writes a JSON error body with the given status.
func WriteError(w http.ResponseWriter, status int, code ErrorCode, message string, logger *logger.Logger) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", code, "message", message)
	} else {
		logger.Warn("request rejected", "code", code, "message", message)
	}

	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	}, logger)
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
