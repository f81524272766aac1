package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/noname9006/form2100/models"
	"github.com/noname9006/form2100/usecases/intake"
)

// StatusAPIHandler exposes the read-only monitoring surface: a health check
// and the status snapshot with per-ticket introspection
type StatusAPIHandler struct {
	intakeUseCase *intake.IntakeUseCase
}

func NewStatusAPIHandler(intakeUseCase *intake.IntakeUseCase) *StatusAPIHandler {
	return &StatusAPIHandler{intakeUseCase: intakeUseCase}
}

type statusResponse struct {
	Stats   models.IntakeStats  `json:"stats"`
	Tickets []models.TicketInfo `json:"tickets"`
}

// SetupEndpoints registers the monitoring routes on the router
func (h *StatusAPIHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/health", h.handleHealth).Methods("GET")
	router.HandleFunc("/api/status", h.handleStatus).Methods("GET")
}

func (h *StatusAPIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		log.Printf("❌ Failed to write health check response: %v", err)
	}
}

func (h *StatusAPIHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, tickets, err := h.intakeUseCase.StatusSnapshot(r.Context())
	if err != nil {
		log.Printf("❌ Failed to build status snapshot: %v", err)
		http.Error(w, "failed to build status snapshot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statusResponse{Stats: stats, Tickets: tickets}); err != nil {
		log.Printf("❌ Failed to encode status response: %v", err)
	}
}
