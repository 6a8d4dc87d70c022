package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/baseball-sim/sim-engine/internal/errs"
)

// writeRepoError maps a Repository/Coordinator error to its HTTP status
// in one place, per the typed-error-taxonomy design (spec §7). Two
// responses use a fixed status instead: an unknown game on POST /simulate
// (404 "Game not found") and a completed run whose aggregate cannot be
// loaded (500); malformed request bodies are answered 400 directly.
func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	writeError(w, errs.HTTPStatus(errs.KindOf(err)), err.Error())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
