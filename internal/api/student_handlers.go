package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuslib/campuslib-server/internal/http/response"
)

// handleStudentHistory returns every loan of a student, newest first.
func (s *Server) handleStudentHistory(w http.ResponseWriter, r *http.Request) {
	tupID := chi.URLParam(r, "tupID")

	entries, err := s.membership.StudentHistory(r.Context(), tupID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, entries, s.logger)
}
