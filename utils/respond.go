package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIResponse is the uniform JSON envelope returned by every handler.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondJSON writes a success envelope with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data, Message: message})
}

// RespondError writes a failure envelope with the given status code.
func RespondError(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{Success: false, Error: errMsg})
}

// RespondInternal logs the underlying error and returns a generic 500 so
// internal detail never reaches the caller.
func RespondInternal(w http.ResponseWriter, err error) {
	log.Printf("internal error: %v", err)
	RespondError(w, http.StatusInternalServerError, "Something went wrong")
}
