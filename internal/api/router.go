package api

import (
	"net/http"

	"fleet-dispatch-service/internal/api/handlers"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
	"fleet-dispatch-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(store ports.FleetStore, dispatcher *services.Dispatcher, planCache ports.PlanCache, depot domain.Point) http.Handler {
	mux := http.NewServeMux()

	pkgHandler := &handlers.PackageHandler{Store: store, Dispatcher: dispatcher}
	planHandler := &handlers.PlanHandler{
		Dispatcher:   dispatcher,
		Cache:        planCache,
		DefaultDepot: depot,
	}
	partitionHandler := &handlers.PartitionHandler{Dispatcher: dispatcher, DefaultDepot: depot}
	routeHandler := &handlers.RouteHandler{Store: store, Dispatcher: dispatcher}
	analyticsHandler := &handlers.AnalyticsHandler{Dispatcher: dispatcher}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/packages", pkgHandler.Packages)
	mux.HandleFunc("/packages/status", pkgHandler.UpdateStatus)
	mux.HandleFunc("/plans", planHandler.Plans)
	mux.HandleFunc("/partitions", partitionHandler.Partition)
	mux.HandleFunc("/routes", routeHandler.List)
	mux.HandleFunc("/routes/assign", routeHandler.AssignDriver)
	mux.HandleFunc("/analytics", analyticsHandler.Report)

	return requestIDMiddleware(loggingMiddleware(mux))
}
