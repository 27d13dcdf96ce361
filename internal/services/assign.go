package services

import (
	"errors"
	"fmt"

	"fleet-dispatch-service/internal/domain"
)

// Planning failures surfaced to callers. Both leave fleet state untouched.
var (
	ErrNoVehicles = errors.New("assign packages: no vehicles available")
	ErrNoDrivers  = errors.New("assign packages: no drivers available")
)

// Rotating cursors over the vehicle and driver pools. The vehicle cursor
// advances after every package, the driver cursor only when a new route is
// opened, so consecutive packages spread across the fleet instead of
// filling one vehicle first.
type roundRobin struct {
	vehicle int
	driver  int
}

func (c *roundRobin) nextDriver(drivers []*domain.Driver) *domain.Driver {
	d := drivers[c.driver]
	c.driver = (c.driver + 1) % len(drivers)
	return d
}

// AssignPackages distributes packages across vehicles using a first-fit
// round-robin heuristic.
//
// Each package is offered to vehicles starting at the cursor, wrapping once
// around the pool; the first vehicle with remaining capacity takes it. A
// package no vehicle can hold is marked Exception and skipped, never
// aborting the run. A vehicle's first package opens a route, binds the
// next driver and consumes a fresh id from routeSeq; later packages for
// the same vehicle join its open route. The heuristic is deterministic for
// a given input order and does not rebalance earlier choices.
func AssignPackages(
	pkgs []*domain.Package,
	vehicles []*domain.Vehicle,
	drivers []*domain.Driver,
	routeSeq int,
) (map[string]*domain.Route, error) {
	routes := make(map[string]*domain.Route)
	if len(vehicles) == 0 {
		return routes, ErrNoVehicles
	}
	if len(drivers) == 0 {
		return routes, ErrNoDrivers
	}
	if routeSeq < 1 {
		routeSeq = 1
	}

	var cur roundRobin
	for _, pkg := range pkgs {
		start := cur.vehicle

		// First-fit scan from the cursor, wrapping once around the pool.
		chosen := -1
		for i := 0; i < len(vehicles); i++ {
			idx := (start + i) % len(vehicles)
			if id := vehicles[idx].CurrentRouteID; id != "" && routes[id] == nil {
				// Bound to a route from an earlier run; not eligible here.
				continue
			}
			if vehicles[idx].CanAccept(pkg.Weight) {
				chosen = idx
				break
			}
		}
		if chosen < 0 {
			// No vehicle in the fleet can hold this package right now.
			pkg.Status = domain.PackageStatusException
			cur.vehicle = (start + 1) % len(vehicles)
			continue
		}

		v := vehicles[chosen]
		newRoute := v.CurrentRouteID == ""
		routeID := v.CurrentRouteID
		if newRoute {
			routeID = fmt.Sprintf("R%d", routeSeq)
		}

		if err := v.Commit(pkg.Weight, routeID); err != nil {
			// The scan checked capacity, so a failed commit means the ledger
			// disagrees; record the package rather than abort the run.
			pkg.Status = domain.PackageStatusException
			cur.vehicle = (start + 1) % len(vehicles)
			continue
		}

		if newRoute {
			routeSeq++
			r := domain.NewRoute(routeID)
			r.VehicleID = v.VehicleID
			d := cur.nextDriver(drivers)
			r.DriverID = d.DriverID
			d.CurrentRouteID = routeID
			routes[routeID] = r
		}

		routes[routeID].AddPackage(pkg)
		cur.vehicle = (chosen + 1) % len(vehicles)
	}

	return routes, nil
}
