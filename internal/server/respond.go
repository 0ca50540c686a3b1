package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// errorBody is the failure shape of every endpoint.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// fail writes message, attaching err's text as details only in development.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	body := errorBody{Error: message}
	if err != nil {
		log.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", requestID(r)).
			Msg(message)
		if s.cfg.IsDevelopment() {
			body.Details = err.Error()
		}
	}
	JSON(w, status, body)
}

// decodeJSON reads a size-limited JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
