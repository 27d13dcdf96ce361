package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"fleet-dispatch-service/internal/api/dto"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
	"fleet-dispatch-service/internal/services"
)

// PlanHandler runs route planning and serves the latest plan snapshot.
type PlanHandler struct {
	Dispatcher   *services.Dispatcher
	Cache        ports.PlanCache
	DefaultDepot domain.Point
}

// Plans dispatches on method: POST computes a plan, GET returns the last
// computed one.
func (h *PlanHandler) Plans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.latest(w, r)
	case http.MethodPost:
		h.plan(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// plan orchestrates package assignment and tour sequencing over the
// stored fleet, then snapshots the outcome for GET.
func (h *PlanHandler) plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	err := dec.Decode(&req)
	switch {
	case err == io.EOF:
		// empty body plans from the default depot
	case err != nil:
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	default:
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
			return
		}
	}

	depot := h.DefaultDepot
	if req.Depot != nil {
		depot = req.Depot.Domain()
	}

	routes, err := h.Dispatcher.PlanRoutes(r.Context(), depot)
	if err != nil {
		if errors.Is(err, services.ErrNoVehicles) || errors.Is(err, services.ErrNoDrivers) {
			writeError(w, r, http.StatusConflict, err.Error())
			return
		}
		log.Printf("plan routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.PlanResponse{Routes: routeResponses(services.SortedRoutes(routes))}
	h.snapshot(r.Context(), res)
	writeJSON(w, r, http.StatusOK, res)
}

func (h *PlanHandler) latest(w http.ResponseWriter, r *http.Request) {
	if h.Cache == nil {
		writeError(w, r, http.StatusNotFound, "no plan snapshot available")
		return
	}

	payload, err := h.Cache.GetLatest(r.Context())
	if errors.Is(err, ports.ErrCacheMiss) {
		writeError(w, r, http.StatusNotFound, "no plan snapshot available")
		return
	}
	if err != nil {
		log.Printf("load plan snapshot failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	// payload is the PlanResponse JSON exactly as stored
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		log.Printf("write failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

// snapshot stores the serialized plan best-effort; a cache outage never
// fails the planning request.
func (h *PlanHandler) snapshot(ctx context.Context, res dto.PlanResponse) {
	if h.Cache == nil {
		return
	}

	payload, err := json.Marshal(res)
	if err != nil {
		log.Printf("marshal plan snapshot failed: %v", err)
		return
	}
	if err := h.Cache.PutLatest(ctx, payload); err != nil {
		log.Printf("store plan snapshot failed: %v", err)
	}
}
