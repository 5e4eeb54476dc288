package api

import (
	"net/http"

	"github.com/smartkollect/kollect/internal/common"
)

// handleLogs serves the captured log history for the admin dashboard.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}
