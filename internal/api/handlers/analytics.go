package handlers

import (
	"log"
	"net/http"

	"fleet-dispatch-service/internal/api/dto"
	"fleet-dispatch-service/internal/services"
)

// AnalyticsHandler reports fleet-wide delivery statistics.
type AnalyticsHandler struct {
	Dispatcher *services.Dispatcher
}

// Report summarizes the current fleet. ?format=text renders the
// operator dashboard block instead of JSON.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rep, err := h.Dispatcher.Summarize(r.Context())
	if err != nil {
		log.Printf("summarize failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if r.URL.Query().Get("format") == "text" {
		writeText(w, r, http.StatusOK, services.RenderReport(rep))
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AnalyticsResponse{
		TotalPackages:  rep.TotalPackages,
		Delivered:      rep.Delivered,
		Pending:        rep.Pending,
		SuccessRate:    rep.SuccessRate,
		TotalDistance:  rep.TotalDistance,
		ActiveVehicles: rep.ActiveVehicles,
	})
}
