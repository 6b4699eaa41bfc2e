// Package middleware provides the HTTP middleware of the console server.
package middleware

import (
	"encoding/json"
	"net/http"
)

// WriteError writes the console's JSON error envelope.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
