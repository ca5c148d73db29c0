package utils

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes v with the given status. Every handler in the API
// responds through here or RespondError so the envelope stays uniform.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already out by the time Encode can fail.
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes the {success:false, error:...} envelope shared by
// every failure path in the API.
func RespondError(w http.ResponseWriter, status int, msg string) {
	RespondJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
