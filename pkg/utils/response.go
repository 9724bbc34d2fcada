package utils

import (
	"encoding/json"
	"net/http"

	"store-backend/internal/apperrors"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes {"success": true, "data": data}.
func OK(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, map[string]interface{}{"success": true, "data": data})
}

// List writes {"success": true, "total": n, "data": rows}.
func List(w http.ResponseWriter, data interface{}, total int) {
	JSON(w, http.StatusOK, map[string]interface{}{"success": true, "total": total, "data": data})
}

// Message writes {"success": true, "message": msg}.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": msg})
}

// Error writes {"success": false, "error": msg, "code": code} using the
// status and public message of err. Unclassified errors become a generic 500.
func Error(w http.ResponseWriter, err error) {
	code := apperrors.CodeInternal
	if appErr, ok := apperrors.As(err); ok {
		code = appErr.Code
	}
	JSON(w, apperrors.HTTPStatus(err), map[string]interface{}{
		"success": false,
		"error":   apperrors.PublicMessage(err),
		"code":    code,
	})
}

// ErrorMessage writes a failure envelope with an explicit status.
func ErrorMessage(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]interface{}{"success": false, "error": msg})
}
