package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/campuslib/campuslib-server/internal/http/response"
	"github.com/campuslib/campuslib-server/internal/service"
)

// CirculationResponse is the wire shape of a processed batch: the legacy
// human-readable lines plus a structured detail per item.
type CirculationResponse struct {
	Status  string               `json:"status"`
	Results []string             `json:"results"`
	Details []service.ItemResult `json:"details"`
}

// handleCirculation processes one batch borrow/return request.
func (s *Server) handleCirculation(w http.ResponseWriter, r *http.Request) {
	var req service.CirculationRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.circulation.Process(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, CirculationResponse{
		Status:  "success",
		Results: result.Results,
		Details: result.Details,
	}, s.logger)
}
