package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"fleet-dispatch-service/internal/api/dto"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/services"
)

// PartitionHandler exposes cluster-first planning: packages are grouped
// into delivery zones before routes open.
type PartitionHandler struct {
	Dispatcher   *services.Dispatcher
	DefaultDepot domain.Point
}

func (h *PartitionHandler) Partition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PartitionRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.K < 1 {
		writeError(w, r, http.StatusBadRequest, "k must be at least 1")
		return
	}

	maxWeight := req.MaxWeight
	if maxWeight == 0 {
		maxWeight = 100
	}
	if maxWeight < 0 {
		writeError(w, r, http.StatusBadRequest, "max_weight must be positive")
		return
	}

	depot := h.DefaultDepot
	if req.Depot != nil {
		depot = req.Depot.Domain()
	}

	ids, err := h.Dispatcher.AutoPartitionRoutes(r.Context(), depot, req.K, maxWeight)
	if err != nil {
		log.Printf("auto partition failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PartitionResponse{RouteIDs: ids})
}
