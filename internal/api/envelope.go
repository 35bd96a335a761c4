package api

import (
	"encoding/json"
	"net/http"
)

// envelope is the uniform response wrapper every endpoint emits.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

func writeEnvelope(w http.ResponseWriter, env envelope, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(env)
}

func respondSuccess(w http.ResponseWriter, data interface{}, message string) {
	writeEnvelope(w, envelope{Success: true, Data: data, Message: message}, http.StatusOK)
}

func respondError(w http.ResponseWriter, message string, code int) {
	writeEnvelope(w, envelope{Success: false, Message: message}, code)
}
