package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"fleet-dispatch-service/internal/api/dto"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
	"fleet-dispatch-service/internal/services"
)

// RouteHandler exposes route retrieval and driver assignment.
type RouteHandler struct {
	Store      ports.FleetStore
	Dispatcher *services.Dispatcher
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	routes, err := h.Store.ListRoutes(r.Context())
	if err != nil {
		log.Printf("list routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListRoutesResponse{Routes: routeResponses(routes)})
}

// AssignDriver binds a driver to a planned route. start=true begins the
// run: the route moves InProgress and its packages go out for delivery.
func (h *RouteHandler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.AssignDriverRequest

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

	if strings.TrimSpace(req.RouteID) == "" {
		writeError(w, r, http.StatusBadRequest, "route_id is required")
		return
	}
	if strings.TrimSpace(req.DriverID) == "" {
		writeError(w, r, http.StatusBadRequest, "driver_id is required")
		return
	}

	route, err := h.Dispatcher.AssignDriver(r.Context(), req.RouteID, req.DriverID, req.Start)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrRouteNotFound):
			writeError(w, r, http.StatusNotFound, "route not found")
		case errors.Is(err, ports.ErrDriverNotFound):
			writeError(w, r, http.StatusNotFound, "driver not found")
		default:
			log.Printf("assign driver failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, routeResponse(route))
}

func routeResponse(r *domain.Route) dto.RouteResponse {
	stops := make([]dto.Point, 0, len(r.Stops))
	for _, s := range r.Stops {
		stops = append(stops, dto.PointFrom(s))
	}
	pkgIDs := make([]string, 0, len(r.PackageIDs))
	pkgIDs = append(pkgIDs, r.PackageIDs...)

	return dto.RouteResponse{
		RouteID:       r.RouteID,
		VehicleID:     r.VehicleID,
		DriverID:      r.DriverID,
		Stops:         stops,
		PackageIDs:    pkgIDs,
		TotalDistance: r.TotalDistance,
		Optimized:     r.Optimized,
		Status:        string(r.Status),
	}
}

func routeResponses(routes []*domain.Route) []dto.RouteResponse {
	out := make([]dto.RouteResponse, 0, len(routes))
	for _, r := range routes {
		out = append(out, routeResponse(r))
	}
	return out
}
