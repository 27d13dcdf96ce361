package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"fleet-dispatch-service/internal/adapters/repositories"
	"fleet-dispatch-service/internal/domain"
)

func fleetStore(t *testing.T) *repositories.MemoryFleetStore {
	t.Helper()
	store := repositories.NewMemoryFleetStore()
	store.AddVehicle(domain.NewVehicle("V1", 100))
	store.AddVehicle(domain.NewVehicle("V2", 100))
	store.AddDriver(&domain.Driver{DriverID: "D1", Name: "Riley Chen"})
	store.AddDriver(&domain.Driver{DriverID: "D2", Name: "Sam Okafor"})

	pkgs := []*domain.Package{
		{PackageID: "PKG-000001", Location: domain.Point{X: 2, Y: 0}, Weight: 60, Status: domain.PackageStatusCreated},
		{PackageID: "PKG-000002", Location: domain.Point{X: 0, Y: 3}, Weight: 60, Status: domain.PackageStatusCreated},
		{PackageID: "PKG-000003", Location: domain.Point{X: 4, Y: 4}, Weight: 30, Status: domain.PackageStatusCreated},
		{PackageID: "PKG-000004", Location: domain.Point{X: 9, Y: 9}, Weight: 200, Status: domain.PackageStatusCreated},
	}
	for _, pkg := range pkgs {
		if err := store.CreatePackage(context.Background(), pkg); err != nil {
			t.Fatalf("seed package %s: %v", pkg.PackageID, err)
		}
	}
	return store
}

func TestDispatcherPlanRoutes(t *testing.T) {
	ctx := context.Background()
	store := fleetStore(t)
	d := NewDispatcher(store, NearestNeighborStrategy{})

	routes, err := d.PlanRoutes(ctx, domain.Point{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}

	r1, err := store.GetRoute(ctx, "R1")
	if err != nil {
		t.Fatalf("R1 not persisted: %v", err)
	}
	// depot -> (2,0) -> (4,4) -> depot
	if r1.TotalDistance != 16 {
		t.Fatalf("R1 distance = %g, want 16", r1.TotalDistance)
	}
	r2, err := store.GetRoute(ctx, "R2")
	if err != nil {
		t.Fatalf("R2 not persisted: %v", err)
	}
	if r2.TotalDistance != 6 {
		t.Fatalf("R2 distance = %g, want 6", r2.TotalDistance)
	}

	// every package either rides a route or carries an exception
	pkgs, err := store.ListPackages(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, pkg := range pkgs {
		assigned := pkg.AssignedRouteID != ""
		failed := pkg.Status == domain.PackageStatusException
		if assigned == failed {
			t.Fatalf("package %s in inconsistent state: route=%q status=%s",
				pkg.PackageID, pkg.AssignedRouteID, pkg.Status)
		}
	}

	// the ledger never exceeds capacity
	vehicles, err := store.ListVehicles(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range vehicles {
		if v.CurrentLoad > v.Capacity {
			t.Fatalf("vehicle %s over capacity: load=%g capacity=%g", v.VehicleID, v.CurrentLoad, v.Capacity)
		}
	}
}

func TestDispatcherPlanRoutesWithBusyFleet(t *testing.T) {
	ctx := context.Background()
	store := fleetStore(t)
	d := NewDispatcher(store, NearestNeighborStrategy{})

	if _, err := d.PlanRoutes(ctx, domain.Point{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// both vehicles are now mid-route; the oversized leftover package has
	// no pool to plan against
	_, err := d.PlanRoutes(ctx, domain.Point{})
	if !errors.Is(err, ErrNoVehicles) {
		t.Fatalf("expected ErrNoVehicles, got %v", err)
	}
}

func TestDispatcherDeliveryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryFleetStore()
	store.AddVehicle(domain.NewVehicle("V1", 100))
	store.AddDriver(&domain.Driver{DriverID: "D1", Name: "Riley Chen"})
	for _, pkg := range []*domain.Package{
		{PackageID: "PKG-000001", Location: domain.Point{X: 1, Y: 1}, Weight: 10, Status: domain.PackageStatusCreated},
		{PackageID: "PKG-000002", Location: domain.Point{X: 2, Y: 2}, Weight: 10, Status: domain.PackageStatusCreated},
	} {
		if err := store.CreatePackage(ctx, pkg); err != nil {
			t.Fatalf("seed package: %v", err)
		}
	}
	d := NewDispatcher(store, NearestNeighborStrategy{})

	if _, err := d.PlanRoutes(ctx, domain.Point{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := d.AssignDriver(ctx, "R1", "D1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, err := store.GetRoute(ctx, "R1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != domain.RouteStatusInProgress {
		t.Fatalf("route status = %s, want %s", r.Status, domain.RouteStatusInProgress)
	}
	pkg, err := store.GetPackage(ctx, "PKG-000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.Status != domain.PackageStatusOutForDelivery {
		t.Fatalf("package status = %s, want %s", pkg.Status, domain.PackageStatusOutForDelivery)
	}

	// first delivery leaves the route open
	if _, err := d.UpdatePackageStatus(ctx, "PKG-000001", domain.PackageStatusDelivered, "sig-8842"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, _ = store.GetRoute(ctx, "R1")
	if r.Status != domain.RouteStatusInProgress {
		t.Fatalf("route closed early, status = %s", r.Status)
	}
	pkg, _ = store.GetPackage(ctx, "PKG-000001")
	if pkg.ProofOfDelivery != "sig-8842" {
		t.Fatalf("proof = %q, want sig-8842", pkg.ProofOfDelivery)
	}

	// last package terminal: route completes, vehicle and driver free up
	if _, err := d.UpdatePackageStatus(ctx, "PKG-000002", domain.PackageStatusReturned, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, _ = store.GetRoute(ctx, "R1")
	if r.Status != domain.RouteStatusCompleted {
		t.Fatalf("route status = %s, want %s", r.Status, domain.RouteStatusCompleted)
	}
	vehicles, _ := store.ListVehicles(ctx)
	if vehicles[0].Status != domain.VehicleStatusAvailable || vehicles[0].CurrentLoad != 0 {
		t.Fatalf("vehicle not released: status=%s load=%g", vehicles[0].Status, vehicles[0].CurrentLoad)
	}
	drivers, _ := store.ListDrivers(ctx)
	if drivers[0].CurrentRouteID != "" {
		t.Fatalf("driver still bound to %q", drivers[0].CurrentRouteID)
	}
}

func TestDispatcherAutoPartitionRoutes(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryFleetStore()
	store.AddVehicle(domain.NewVehicle("V1", 500))
	store.AddVehicle(domain.NewVehicle("V2", 500))
	store.AddDriver(&domain.Driver{DriverID: "D1", Name: "Riley Chen"})
	store.AddDriver(&domain.Driver{DriverID: "D2", Name: "Sam Okafor"})
	for _, pkg := range clusterPackages(t) {
		if err := store.CreatePackage(ctx, pkg); err != nil {
			t.Fatalf("seed package: %v", err)
		}
	}
	d := NewDispatcher(store, NearestNeighborStrategy{})

	ids, err := d.AutoPartitionRoutes(ctx, domain.Point{}, 2, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"AR1_0", "AR2_1"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("route ids = %v, want %v", ids, want)
	}

	for _, id := range ids {
		r, err := store.GetRoute(ctx, id)
		if err != nil {
			t.Fatalf("route %s not persisted: %v", id, err)
		}
		if !r.Optimized {
			t.Fatalf("route %s not sequenced", id)
		}
	}

	// k below one plans nothing and leaves no trace
	ids, err = d.AutoPartitionRoutes(ctx, domain.Point{}, 0, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no routes for k=0, got %v", ids)
	}
}

func TestDispatcherRegisterPackage(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryFleetStore()
	d := NewDispatcher(store, NearestNeighborStrategy{})

	pkg := &domain.Package{PackageID: "PKG-000042", Location: domain.Point{X: 1, Y: 2}, Weight: 5, Status: domain.PackageStatusCreated}
	if err := d.RegisterPackage(ctx, pkg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := d.RegisterPackage(ctx, pkg)
	if !errors.Is(err, ErrPackageExists) {
		t.Fatalf("expected ErrPackageExists, got %v", err)
	}
}

func TestDispatcherPlansAreDeterministic(t *testing.T) {
	ctx := context.Background()

	run := func() []*domain.Route {
		store := fleetStore(t)
		d := NewDispatcher(store, NearestNeighborStrategy{})
		routes, err := d.PlanRoutes(ctx, domain.Point{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return SortedRoutes(routes)
	}

	if first, second := run(), run(); !reflect.DeepEqual(first, second) {
		t.Fatalf("identical fleets produced different plans:\n%v\nvs\n%v", first, second)
	}
}

func TestDispatcherSummarize(t *testing.T) {
	ctx := context.Background()
	store := fleetStore(t)
	d := NewDispatcher(store, NearestNeighborStrategy{})

	if _, err := d.PlanRoutes(ctx, domain.Point{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := d.UpdatePackageStatus(ctx, "PKG-000002", domain.PackageStatusDelivered, "sig-0001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rep, err := d.Summarize(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.TotalPackages != 4 || rep.Delivered != 1 || rep.Pending != 3 {
		t.Fatalf("counts = %+v, want total=4 delivered=1 pending=3", rep)
	}
	// R1 is still out; R2 completed with its only package delivered
	if rep.TotalDistance != 22 {
		t.Fatalf("total distance = %g, want 22", rep.TotalDistance)
	}
	if rep.ActiveVehicles != 1 {
		t.Fatalf("active vehicles = %d, want 1", rep.ActiveVehicles)
	}
	if rep.SuccessRate == nil || *rep.SuccessRate != 25 {
		t.Fatalf("success rate = %v, want 25", rep.SuccessRate)
	}
}
