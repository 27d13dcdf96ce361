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

// PackageHandler exposes package intake, retrieval and status reporting.
type PackageHandler struct {
	Store      ports.FleetStore
	Dispatcher *services.Dispatcher
}

// Packages dispatches on method: GET lists every package, POST registers
// a new one.
func (h *PackageHandler) Packages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *PackageHandler) list(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.Store.ListPackages(r.Context())
	if err != nil {
		log.Printf("list packages failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPackagesResponse{
		Packages: make([]dto.PackageResponse, 0, len(pkgs)),
	}
	for _, p := range pkgs {
		res.Packages = append(res.Packages, packageResponse(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *PackageHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePackageRequest

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

	id := strings.TrimSpace(req.PackageID)
	if !domain.ValidPackageID(id) {
		writeError(w, r, http.StatusBadRequest, "package_id must be 6-20 characters of A-Z, 0-9 or -")
		return
	}
	if req.Location == nil {
		writeError(w, r, http.StatusBadRequest, "location is required")
		return
	}
	if req.Weight <= 0 {
		writeError(w, r, http.StatusBadRequest, "weight must be positive")
		return
	}

	pkg := &domain.Package{
		PackageID: id,
		Location:  req.Location.Domain(),
		Weight:    req.Weight,
		Status:    domain.PackageStatusCreated,
	}
	if err := h.Dispatcher.RegisterPackage(r.Context(), pkg); err != nil {
		if errors.Is(err, services.ErrPackageExists) {
			writeError(w, r, http.StatusConflict, "package already registered")
			return
		}
		log.Printf("register package failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, packageResponse(pkg))
}

// UpdateStatus records a delivery status reported from the field. A
// Delivered report must carry proof; terminal reports may complete the
// package's route as a side effect.
func (h *PackageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.UpdatePackageStatusRequest

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

	if strings.TrimSpace(req.PackageID) == "" {
		writeError(w, r, http.StatusBadRequest, "package_id is required")
		return
	}
	status := domain.PackageStatus(req.Status)
	if !status.Valid() {
		writeError(w, r, http.StatusBadRequest, "unknown status")
		return
	}
	if status == domain.PackageStatusDelivered && strings.TrimSpace(req.Proof) == "" {
		writeError(w, r, http.StatusBadRequest, "proof is required for delivered packages")
		return
	}

	pkg, err := h.Dispatcher.UpdatePackageStatus(r.Context(), req.PackageID, status, req.Proof)
	if err != nil {
		if errors.Is(err, ports.ErrPackageNotFound) {
			writeError(w, r, http.StatusNotFound, "package not found")
			return
		}
		log.Printf("update package status failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, packageResponse(pkg))
}

func packageResponse(p *domain.Package) dto.PackageResponse {
	return dto.PackageResponse{
		PackageID:       p.PackageID,
		Location:        dto.PointFrom(p.Location),
		Weight:          p.Weight,
		Status:          string(p.Status),
		AssignedRouteID: p.AssignedRouteID,
		ProofOfDelivery: p.ProofOfDelivery,
	}
}
