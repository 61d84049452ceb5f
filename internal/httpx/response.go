package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard response shape: {success, message, data}. Routes
// that report operation counts (insertedId, modifiedCount, ...) write a map
// through JSON instead.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int64 `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			http.Error(w, `{"success":false,"message":"encode error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		_ = err
	}
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a success envelope with an item count alongside the data.
func List(w http.ResponseWriter, count int64, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Error writes a failure envelope. Details, when present, carry per-field
// validation messages.
func Error(w http.ResponseWriter, status int, message string, details any) {
	payload := map[string]any{"success": false, "message": message}
	if details != nil {
		payload["details"] = details
	}
	JSON(w, status, payload)
}
