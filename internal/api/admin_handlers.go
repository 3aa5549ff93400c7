package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/campuslib/campuslib-server/internal/http/response"
	"github.com/campuslib/campuslib-server/internal/service"
)

// handleDashboard returns active and overdue loans plus daily-limit usage.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.admin.Dashboard(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, dash, s.logger)
}

// handleCreateBook adds a catalog record.
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.catalog.CreateBook(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, book, s.logger)
}

// handleCreateStudent adds a membership record.
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req service.CreateStudentRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	student, err := s.membership.CreateStudent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, student, s.logger)
}

// handleSendReminders runs the reminder sweep and reports its counts.
func (s *Server) handleSendReminders(w http.ResponseWriter, r *http.Request) {
	result, err := s.notices.SendReminders(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}

// handleSendOverdueNotices runs the overdue sweep and reports its counts.
func (s *Server) handleSendOverdueNotices(w http.ResponseWriter, r *http.Request) {
	result, err := s.notices.SendOverdueNotices(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}
