package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the stable client-facing shape:
// {"success": bool, "message": string, ...}
type Envelope struct {
	Success  bool       `json:"success"`
	Message  string     `json:"message"`
	Verified bool       `json:"verified,omitempty"`
	Debug    *DebugInfo `json:"debug,omitempty"`
}

// DebugInfo echoes the raw code on the non-production fallback path.
type DebugInfo struct {
	OTP string `json:"otp"`
}

// Health is the liveness body: {"status":"OK","message":...}
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JSON writes raw JSON with Content-Type.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, env Envelope) {
	env.Success = true
	JSON(w, http.StatusOK, env)
}

// Fail writes a failure envelope: {"success":false,"message":...}
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}
