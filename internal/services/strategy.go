package services

import "fleet-dispatch-service/internal/domain"

// RouteStrategy turns one planning run's inputs into routes. Implementations
// must be deterministic: the same pools in the same order always produce the
// same routes.
type RouteStrategy interface {
	// Compute routes for the given unassigned packages over the available
	// vehicle and driver pools. routeSeq is the first free route sequence
	// number; implementations consume one per route they open.
	ComputeRoutes(pkgs []*domain.Package, vehicles []*domain.Vehicle, drivers []*domain.Driver, depot domain.Point, routeSeq int) (map[string]*domain.Route, error)
}

// NearestNeighborStrategy is the default planning strategy: round-robin
// first-fit assignment followed by a closed nearest-neighbor tour per route.
type NearestNeighborStrategy struct{}

func (NearestNeighborStrategy) ComputeRoutes(
	pkgs []*domain.Package,
	vehicles []*domain.Vehicle,
	drivers []*domain.Driver,
	depot domain.Point,
	routeSeq int,
) (map[string]*domain.Route, error) {
	routes, err := AssignPackages(pkgs, vehicles, drivers, routeSeq)
	if err != nil {
		return nil, err
	}
	for _, r := range routes {
		SequenceRoute(r, depot)
	}
	return routes, nil
}
