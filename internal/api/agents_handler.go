package api

import "net/http"

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	agents, err := s.store.ListAgents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list agents: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"agents": agents})
}
