package mockapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dvcrn/storefront-admin/internal/adminapi"
)

func writeData(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	writeEnvelope(w, status, adminapi.StandardResponse[interface{}]{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Message:   message,
		Path:      r.URL.Path,
		TraceID:   uuid.NewString(),
		Data:      data,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeEnvelope(w, status, adminapi.StandardResponse[interface{}]{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Message:   message,
		Path:      r.URL.Path,
		TraceID:   uuid.NewString(),
		ErrorCode: code,
	})
}

func writeEnvelope(w http.ResponseWriter, status int, body adminapi.StandardResponse[interface{}]) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
