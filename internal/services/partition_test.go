package services

import (
	"reflect"
	"testing"

	"fleet-dispatch-service/internal/domain"
)

func clusterPackages(t *testing.T) []*domain.Package {
	t.Helper()
	// two tight groups far apart on the grid
	return []*domain.Package{
		{PackageID: "PKG-000001", Location: domain.Point{X: 0, Y: 0}, Weight: 10, Status: domain.PackageStatusCreated},
		{PackageID: "PKG-000002", Location: domain.Point{X: 1, Y: 1}, Weight: 10, Status: domain.PackageStatusCreated},
		{PackageID: "PKG-000003", Location: domain.Point{X: 100, Y: 100}, Weight: 10, Status: domain.PackageStatusCreated},
		{PackageID: "PKG-000004", Location: domain.Point{X: 101, Y: 101}, Weight: 10, Status: domain.PackageStatusCreated},
	}
}

func memberIDs(members []*domain.Package) []string {
	out := make([]string, 0, len(members))
	for _, pkg := range members {
		out = append(out, pkg.PackageID)
	}
	return out
}

func TestPartitionPackagesSeparatesDistantGroups(t *testing.T) {
	pkgs := clusterPackages(t)

	clusters := PartitionPackages(pkgs, 2, 100)

	if len(clusters) != 2 {
		t.Fatalf("expected 2 cluster slots, got %d", len(clusters))
	}
	if want := []string{"PKG-000001", "PKG-000002"}; !reflect.DeepEqual(memberIDs(clusters[0]), want) {
		t.Fatalf("cluster 0 = %v, want %v", memberIDs(clusters[0]), want)
	}
	if want := []string{"PKG-000003", "PKG-000004"}; !reflect.DeepEqual(memberIDs(clusters[1]), want) {
		t.Fatalf("cluster 1 = %v, want %v", memberIDs(clusters[1]), want)
	}
}

func TestPartitionPackagesClampsK(t *testing.T) {
	pkgs := []*domain.Package{
		{PackageID: "PKG-000001", Location: domain.Point{X: 0, Y: 0}, Weight: 10, Status: domain.PackageStatusCreated},
		{PackageID: "PKG-000002", Location: domain.Point{X: 50, Y: 50}, Weight: 10, Status: domain.PackageStatusCreated},
	}

	clusters := PartitionPackages(pkgs, 5, 100)

	if len(clusters) != 2 {
		t.Fatalf("k should clamp to the package count, got %d cluster slots", len(clusters))
	}
	total := 0
	for _, members := range clusters {
		total += len(members)
	}
	if total != 2 {
		t.Fatalf("expected every package placed, got %d placements", total)
	}
}

func TestPartitionPackagesRejectsNonPositiveK(t *testing.T) {
	pkgs := clusterPackages(t)

	if clusters := PartitionPackages(pkgs, 0, 100); clusters != nil {
		t.Fatalf("expected no clusters for k=0, got %v", clusters)
	}
	if clusters := PartitionPackages(nil, 3, 100); clusters != nil {
		t.Fatalf("expected no clusters for empty pool, got %v", clusters)
	}
}

func TestPartitionPackagesHonorsWeightCap(t *testing.T) {
	// nine packages of weight 40 at mixed positions against a 100 cap:
	// no cluster may hold more than two of them
	pkgs := make([]*domain.Package, 0, 9)
	positions := []domain.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
		{X: 20, Y: 20}, {X: 21, Y: 20}, {X: 20, Y: 21},
		{X: 40, Y: 40}, {X: 41, Y: 40}, {X: 40, Y: 41},
	}
	for i, pos := range positions {
		pkgs = append(pkgs, &domain.Package{
			PackageID: "PKG-00000" + string(rune('1'+i)),
			Location:  pos,
			Weight:    40,
			Status:    domain.PackageStatusCreated,
		})
	}

	clusters := PartitionPackages(pkgs, 4, 100)

	for i, members := range clusters {
		var weight float64
		for _, pkg := range members {
			weight += pkg.Weight
		}
		if weight > 100 {
			t.Fatalf("cluster %d weight = %g, exceeds cap 100", i, weight)
		}
	}
}

func TestPartitionPackagesPreservesInputOrder(t *testing.T) {
	pkgs := clusterPackages(t)
	before := memberIDs(pkgs)

	PartitionPackages(pkgs, 2, 100)

	if after := memberIDs(pkgs); !reflect.DeepEqual(before, after) {
		t.Fatalf("caller slice reordered: %v -> %v", before, after)
	}
}

func TestMaterializeClustersBindsAndSequences(t *testing.T) {
	pkgs := clusterPackages(t)
	clusters := PartitionPackages(pkgs, 2, 100)
	vehicles := []*domain.Vehicle{domain.NewVehicle("V1", 500), domain.NewVehicle("V2", 500)}
	drivers := testDrivers("D1", "D2")

	routes, ids := MaterializeClusters(clusters, vehicles, drivers, domain.Point{X: 0, Y: 0}, 1)

	if want := []string{"AR1_0", "AR2_1"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("route ids = %v, want %v", ids, want)
	}

	near := routes["AR1_0"]
	if near.VehicleID != "V1" || near.DriverID != "D1" {
		t.Fatalf("AR1_0 bound to (%s, %s), want (V1, D1)", near.VehicleID, near.DriverID)
	}
	if !near.Optimized {
		t.Fatalf("AR1_0 should be sequenced")
	}
	// depot -> (0,0) -> (1,1) -> depot
	if near.TotalDistance != 4 {
		t.Fatalf("AR1_0 distance = %g, want 4", near.TotalDistance)
	}

	far := routes["AR2_1"]
	if far.VehicleID != "V2" || far.DriverID != "D2" {
		t.Fatalf("AR2_1 bound to (%s, %s), want (V2, D2)", far.VehicleID, far.DriverID)
	}
	// depot -> (100,100) -> (101,101) -> depot
	if far.TotalDistance != 404 {
		t.Fatalf("AR2_1 distance = %g, want 404", far.TotalDistance)
	}

	if vehicles[0].CurrentLoad != 20 || vehicles[0].Status != domain.VehicleStatusInUse {
		t.Fatalf("V1 ledger = (%g, %s), want (20, InUse)", vehicles[0].CurrentLoad, vehicles[0].Status)
	}
	for _, pkg := range pkgs {
		if pkg.AssignedRouteID == "" || pkg.Status != domain.PackageStatusInTransit {
			t.Fatalf("package %s not placed on a route: (%q, %s)", pkg.PackageID, pkg.AssignedRouteID, pkg.Status)
		}
	}
}

func TestMaterializeClustersWithoutPools(t *testing.T) {
	pkgs := clusterPackages(t)
	clusters := PartitionPackages(pkgs, 2, 100)

	routes, ids := MaterializeClusters(clusters, nil, nil, domain.Point{X: 0, Y: 0}, 1)

	if len(ids) != 2 {
		t.Fatalf("expected 2 routes, got %v", ids)
	}
	for _, r := range routes {
		if r.VehicleID != "" || r.DriverID != "" {
			t.Fatalf("route %s should be unbound, got (%q, %q)", r.RouteID, r.VehicleID, r.DriverID)
		}
		if !r.Optimized {
			t.Fatalf("route %s should still be sequenced", r.RouteID)
		}
	}
}

func TestAutoPartitionMarksUnplaceablePackages(t *testing.T) {
	pkgs := []*domain.Package{
		{PackageID: "PKG-TOOBIG1", Location: domain.Point{X: 5, Y: 5}, Weight: 150, Status: domain.PackageStatusCreated},
		{PackageID: "PKG-000002", Location: domain.Point{X: 1, Y: 1}, Weight: 10, Status: domain.PackageStatusCreated},
	}

	routes, ids := AutoPartition(pkgs, 1, 100, nil, nil, domain.Point{X: 0, Y: 0}, 1)

	if len(ids) != 1 {
		t.Fatalf("expected 1 route, got %v", ids)
	}
	if pkgs[0].Status != domain.PackageStatusException {
		t.Fatalf("oversized package status = %s, want %s", pkgs[0].Status, domain.PackageStatusException)
	}
	if pkgs[1].Status != domain.PackageStatusInTransit {
		t.Fatalf("placed package status = %s, want %s", pkgs[1].Status, domain.PackageStatusInTransit)
	}
	if want := []string{"PKG-000002"}; !reflect.DeepEqual(routes[ids[0]].PackageIDs, want) {
		t.Fatalf("route packages = %v, want %v", routes[ids[0]].PackageIDs, want)
	}
}

func TestAutoPartitionNonPositiveKLeavesStateAlone(t *testing.T) {
	pkgs := clusterPackages(t)

	routes, ids := AutoPartition(pkgs, 0, 100, nil, nil, domain.Point{}, 1)

	if len(routes) != 0 || len(ids) != 0 {
		t.Fatalf("expected empty result, got routes=%v ids=%v", routes, ids)
	}
	for _, pkg := range pkgs {
		if pkg.Status != domain.PackageStatusCreated {
			t.Fatalf("package %s status changed to %s", pkg.PackageID, pkg.Status)
		}
	}
}
