package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"zone-matrix-service/internal/domain"
	"zone-matrix-service/internal/platform/obs"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeStrict parses the request body into v, rejecting unknown fields and
// anything after the first JSON object.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// writeDomainError maps session-surface sentinels to HTTP statuses: unknown
// session 404, transition invalid in the current state 409, bad input 400,
// anything unexpected 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrNoOriginSelected):
		writeError(w, r, http.StatusConflict, "no origin selected")
	case errors.Is(err, domain.ErrZoneIndexOutOfRange):
		writeError(w, r, http.StatusBadRequest, "zone index out of range")
	case errors.Is(err, domain.ErrUnknownProfile):
		writeError(w, r, http.StatusBadRequest, "unknown profile")
	default:
		log.Printf("req_id=%s internal error: method=%s path=%s err=%v",
			obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
