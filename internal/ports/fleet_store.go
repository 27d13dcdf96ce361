package ports

import (
	"context"
	"errors"

	"fleet-dispatch-service/internal/domain"
)

// Lookup failures shared by every FleetStore implementation.
var (
	ErrPackageNotFound = errors.New("package not found")
	ErrRouteNotFound   = errors.New("route not found")
	ErrDriverNotFound  = errors.New("driver not found")
)

// Port: a boundary for reading and persisting canonical fleet state.
// List methods return entities in insertion order, which planning relies
// on for deterministic output.
type FleetStore interface {
	// Retrieve all packages in insertion order.
	ListPackages(ctx context.Context) ([]*domain.Package, error)
	// Retrieve one package by tracking id, or ErrPackageNotFound.
	GetPackage(ctx context.Context, packageID string) (*domain.Package, error)
	// Persist a newly registered package.
	CreatePackage(ctx context.Context, pkg *domain.Package) error
	// Persist status, proof and assignment changes to a package.
	UpdatePackage(ctx context.Context, pkg *domain.Package) error

	// Retrieve all vehicles in insertion order.
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
	// Persist load ledger and status changes to a vehicle.
	UpdateVehicle(ctx context.Context, v *domain.Vehicle) error

	// Retrieve all drivers in insertion order.
	ListDrivers(ctx context.Context) ([]*domain.Driver, error)
	// Persist route binding changes to a driver.
	UpdateDriver(ctx context.Context, d *domain.Driver) error

	// Retrieve all routes in creation order.
	ListRoutes(ctx context.Context) ([]*domain.Route, error)
	// Retrieve one route by id, or ErrRouteNotFound.
	GetRoute(ctx context.Context, routeID string) (*domain.Route, error)
	// Count routes ever created; planning derives fresh route ids from it.
	CountRoutes(ctx context.Context) (int, error)
	// Persist lifecycle and sequencing changes to a route.
	UpdateRoute(ctx context.Context, r *domain.Route) error

	// Persist the full outcome of a planning run atomically: new routes
	// plus every package, vehicle and driver the run touched.
	SavePlan(ctx context.Context, routes []*domain.Route, pkgs []*domain.Package, vehicles []*domain.Vehicle, drivers []*domain.Driver) error
}
