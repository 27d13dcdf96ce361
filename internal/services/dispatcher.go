package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

// ErrPackageExists signals a registration with an already-used tracking id.
var ErrPackageExists = errors.New("package already registered")

// Dispatcher runs planning over the fleet store. All operations that
// mutate fleet state share one mutex, so concurrent HTTP requests cannot
// interleave two planning runs or a run with a status update.
type Dispatcher struct {
	mu       sync.Mutex
	store    ports.FleetStore
	strategy RouteStrategy
}

func NewDispatcher(store ports.FleetStore, strategy RouteStrategy) *Dispatcher {
	return &Dispatcher{store: store, strategy: strategy}
}

// PlanRoutes runs the configured strategy over every unassigned package
// and persists the outcome. Tours open and close at depot. Returns the
// routes opened by this run, which may be empty when nothing needed
// planning.
func (d *Dispatcher) PlanRoutes(ctx context.Context, depot domain.Point) (map[string]*domain.Route, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pkgs, vehicles, drivers, seq, err := d.loadPools(ctx, "plan routes")
	if err != nil {
		return nil, err
	}

	routes, err := d.strategy.ComputeRoutes(pkgs, vehicles, drivers, depot, seq)
	if err != nil {
		return nil, err
	}

	if err := d.store.SavePlan(ctx, SortedRoutes(routes), pkgs, vehicles, drivers); err != nil {
		return nil, fmt.Errorf("plan routes: save plan: %w", err)
	}
	return routes, nil
}

// AutoPartitionRoutes clusters unassigned packages into at most k
// weight-bounded groups, materializes each group as a sequenced route and
// persists the outcome. Returns the new route ids in creation order; k < 1
// yields an empty result without touching state.
func (d *Dispatcher) AutoPartitionRoutes(ctx context.Context, depot domain.Point, k int, maxWeight float64) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pkgs, vehicles, drivers, seq, err := d.loadPools(ctx, "auto partition")
	if err != nil {
		return nil, err
	}
	if k < 1 || len(pkgs) == 0 {
		return []string{}, nil
	}

	routes, ids := AutoPartition(pkgs, k, maxWeight, vehicles, drivers, depot, seq)

	if err := d.store.SavePlan(ctx, SortedRoutes(routes), pkgs, vehicles, drivers); err != nil {
		return nil, fmt.Errorf("auto partition: save plan: %w", err)
	}
	return ids, nil
}

// loadPools reads the planning inputs: unassigned packages, available
// vehicles, off-duty drivers and the next free route sequence number.
func (d *Dispatcher) loadPools(ctx context.Context, op string) ([]*domain.Package, []*domain.Vehicle, []*domain.Driver, int, error) {
	allPkgs, err := d.store.ListPackages(ctx)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("%s: list packages: %w", op, err)
	}
	pkgs := make([]*domain.Package, 0, len(allPkgs))
	for _, pkg := range allPkgs {
		if pkg.AssignedRouteID == "" {
			pkgs = append(pkgs, pkg)
		}
	}

	allVehicles, err := d.store.ListVehicles(ctx)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("%s: list vehicles: %w", op, err)
	}
	vehicles := make([]*domain.Vehicle, 0, len(allVehicles))
	for _, v := range allVehicles {
		if v.Status == domain.VehicleStatusAvailable {
			vehicles = append(vehicles, v)
		}
	}

	allDrivers, err := d.store.ListDrivers(ctx)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("%s: list drivers: %w", op, err)
	}
	drivers := make([]*domain.Driver, 0, len(allDrivers))
	for _, drv := range allDrivers {
		if drv.CurrentRouteID == "" {
			drivers = append(drivers, drv)
		}
	}

	n, err := d.store.CountRoutes(ctx)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("%s: count routes: %w", op, err)
	}

	return pkgs, vehicles, drivers, n + 1, nil
}

// RegisterPackage stores a new package after checking id uniqueness.
func (d *Dispatcher) RegisterPackage(ctx context.Context, pkg *domain.Package) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.store.GetPackage(ctx, pkg.PackageID)
	switch {
	case err == nil:
		return fmt.Errorf("register package %s: %w", pkg.PackageID, ErrPackageExists)
	case !errors.Is(err, ports.ErrPackageNotFound):
		return fmt.Errorf("register package %s: %w", pkg.PackageID, err)
	}

	if err := d.store.CreatePackage(ctx, pkg); err != nil {
		return fmt.Errorf("register package %s: %w", pkg.PackageID, err)
	}
	return nil
}

// UpdatePackageStatus applies a status transition reported from the field
// and returns the updated package. When the transition is terminal and
// closes out the package's route, the route completes and its vehicle and
// driver return to their pools.
func (d *Dispatcher) UpdatePackageStatus(ctx context.Context, packageID string, status domain.PackageStatus, proof string) (*domain.Package, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pkg, err := d.store.GetPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	pkg.UpdateStatus(status, proof)
	if err := d.store.UpdatePackage(ctx, pkg); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if pkg.AssignedRouteID == "" || !status.Terminal() {
		return pkg, nil
	}
	if err := d.completeRouteIfDone(ctx, pkg.AssignedRouteID); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return pkg, nil
}

// completeRouteIfDone closes a route once every package on it is terminal.
func (d *Dispatcher) completeRouteIfDone(ctx context.Context, routeID string) error {
	r, err := d.store.GetRoute(ctx, routeID)
	if err != nil {
		return err
	}
	if r.Status == domain.RouteStatusCompleted {
		return nil
	}

	pkgs, err := d.store.ListPackages(ctx)
	if err != nil {
		return err
	}
	for _, pkg := range pkgs {
		if pkg.AssignedRouteID == routeID && !pkg.Status.Terminal() {
			return nil
		}
	}

	r.Complete()
	if err := d.store.UpdateRoute(ctx, r); err != nil {
		return err
	}

	if r.VehicleID != "" {
		vehicles, err := d.store.ListVehicles(ctx)
		if err != nil {
			return err
		}
		for _, v := range vehicles {
			if v.VehicleID != r.VehicleID {
				continue
			}
			v.Release()
			if err := d.store.UpdateVehicle(ctx, v); err != nil {
				return err
			}
			break
		}
	}

	if r.DriverID != "" {
		drivers, err := d.store.ListDrivers(ctx)
		if err != nil {
			return err
		}
		for _, drv := range drivers {
			if drv.DriverID != r.DriverID || drv.CurrentRouteID != routeID {
				continue
			}
			drv.CurrentRouteID = ""
			if err := d.store.UpdateDriver(ctx, drv); err != nil {
				return err
			}
			break
		}
	}

	return nil
}

// AssignDriver binds a driver to an existing route and returns the
// updated route, optionally starting the run. Starting moves the route
// InProgress and flips every package still in transit to OutForDelivery.
func (d *Dispatcher) AssignDriver(ctx context.Context, routeID, driverID string, start bool) (*domain.Route, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, err := d.store.GetRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("assign driver: %w", err)
	}

	drivers, err := d.store.ListDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign driver: list drivers: %w", err)
	}
	var drv *domain.Driver
	for _, candidate := range drivers {
		if candidate.DriverID == driverID {
			drv = candidate
			break
		}
	}
	if drv == nil {
		return nil, fmt.Errorf("assign driver %s: %w", driverID, ports.ErrDriverNotFound)
	}

	r.DriverID = drv.DriverID
	drv.CurrentRouteID = r.RouteID
	if start {
		r.Start()
	}
	if err := d.store.UpdateRoute(ctx, r); err != nil {
		return nil, fmt.Errorf("assign driver: %w", err)
	}
	if err := d.store.UpdateDriver(ctx, drv); err != nil {
		return nil, fmt.Errorf("assign driver: %w", err)
	}

	if !start {
		return r, nil
	}
	pkgs, err := d.store.ListPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign driver: list packages: %w", err)
	}
	for _, pkg := range pkgs {
		if pkg.AssignedRouteID != r.RouteID || pkg.Status.Terminal() {
			continue
		}
		pkg.Status = domain.PackageStatusOutForDelivery
		if err := d.store.UpdatePackage(ctx, pkg); err != nil {
			return nil, fmt.Errorf("assign driver: %w", err)
		}
	}
	return r, nil
}

// Summarize reduces the current store snapshot into an analytics report.
func (d *Dispatcher) Summarize(ctx context.Context) (domain.AnalyticsReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pkgs, err := d.store.ListPackages(ctx)
	if err != nil {
		return domain.AnalyticsReport{}, fmt.Errorf("summarize: list packages: %w", err)
	}
	routes, err := d.store.ListRoutes(ctx)
	if err != nil {
		return domain.AnalyticsReport{}, fmt.Errorf("summarize: list routes: %w", err)
	}
	vehicles, err := d.store.ListVehicles(ctx)
	if err != nil {
		return domain.AnalyticsReport{}, fmt.Errorf("summarize: list vehicles: %w", err)
	}

	return Summarize(pkgs, routes, vehicles), nil
}

// SortedRoutes flattens a route map into a slice ordered by id, shortest
// id first so R2 sorts before R10. Persistence and responses both use it
// to keep output order stable run to run.
func SortedRoutes(routes map[string]*domain.Route) []*domain.Route {
	out := make([]*domain.Route, 0, len(routes))
	for _, r := range routes {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b *domain.Route) int {
		if len(a.RouteID) != len(b.RouteID) {
			return len(a.RouteID) - len(b.RouteID)
		}
		return strings.Compare(a.RouteID, b.RouteID)
	})
	return out
}
