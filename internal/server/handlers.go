package server

import (
	"net/http"

	"convertly-go/internal/converter"
	"convertly-go/internal/models"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, true, "Health check successful", HealthData{
		Status:  "up",
		Codec:   s.codec.Name(),
		Version: s.config.Version,
	})
}

// Error Handlers
func (s *Server) handleError404(w http.ResponseWriter, r *http.Request) {
	converter.WriteJSON(w, http.StatusNotFound, models.ErrorResponse{
		Error: "Not found",
		Code:  models.CodeNotFound,
	})
}

func (s *Server) handleError405(w http.ResponseWriter, r *http.Request) {
	converter.WriteJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{
		Error: "Method not allowed",
		Code:  models.CodeMethodNotAllowed,
	})
}
