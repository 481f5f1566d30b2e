// Package httpx provides HTTP response utilities built around the
// {success, message} JSON envelope consumed by the browser UI.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body of every API response.
type Envelope map[string]any

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK sends a success envelope merged with the provided fields.
func OK(w http.ResponseWriter, status int, fields Envelope) {
	body := Envelope{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	JSON(w, status, body)
}

// Fail sends a failure envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{"success": false, "message": message})
}
