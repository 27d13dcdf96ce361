package services

import (
	"reflect"
	"strings"
	"testing"

	"fleet-dispatch-service/internal/domain"
)

func TestSummarizeEmptyFleet(t *testing.T) {
	rep := Summarize(nil, nil, nil)

	if rep.TotalPackages != 0 || rep.Delivered != 0 || rep.Pending != 0 {
		t.Fatalf("expected zero counts, got %+v", rep)
	}
	if rep.SuccessRate != nil {
		t.Fatalf("success rate should be nil for an empty fleet, got %g", *rep.SuccessRate)
	}

	text := RenderReport(rep)
	if !strings.Contains(text, "Success Rate: N/A") {
		t.Fatalf("report should render N/A for an empty fleet:\n%s", text)
	}
}

func TestSummarizeMixedFleet(t *testing.T) {
	pkgs := []*domain.Package{
		{PackageID: "PKG-000001", Status: domain.PackageStatusDelivered},
		{PackageID: "PKG-000002", Status: domain.PackageStatusInTransit},
		{PackageID: "PKG-000003", Status: domain.PackageStatusException},
	}
	routes := []*domain.Route{
		{RouteID: "R1", TotalDistance: 12.5},
		{RouteID: "R2", TotalDistance: 7.5},
	}
	vehicles := []*domain.Vehicle{
		{VehicleID: "V1", Status: domain.VehicleStatusInUse},
		{VehicleID: "V2", Status: domain.VehicleStatusAvailable},
		{VehicleID: "V3", Status: domain.VehicleStatusMaintenance},
	}

	rep := Summarize(pkgs, routes, vehicles)

	if rep.TotalPackages != 3 || rep.Delivered != 1 || rep.Pending != 2 {
		t.Fatalf("counts = %+v, want total=3 delivered=1 pending=2", rep)
	}
	if rep.SuccessRate == nil {
		t.Fatalf("success rate should be set")
	}
	if got := *rep.SuccessRate; got < 33.3 || got > 33.4 {
		t.Fatalf("success rate = %g, want one third", got)
	}
	if rep.TotalDistance != 20 {
		t.Fatalf("total distance = %g, want 20", rep.TotalDistance)
	}
	if rep.ActiveVehicles != 1 {
		t.Fatalf("active vehicles = %d, want 1", rep.ActiveVehicles)
	}

	text := RenderReport(rep)
	for _, line := range []string{
		"Total Packages: 3",
		"Delivered: 1",
		"Pending: 2",
		"Success Rate: 33.3%",
		"Total Fleet Distance: 20.00 km",
		"Active Vehicles: 1",
	} {
		if !strings.Contains(text, line) {
			t.Fatalf("report missing %q:\n%s", line, text)
		}
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	pkgs := []*domain.Package{
		{PackageID: "PKG-000001", Status: domain.PackageStatusDelivered},
		{PackageID: "PKG-000002", Status: domain.PackageStatusCreated},
	}
	routes := []*domain.Route{{RouteID: "R1", TotalDistance: 9}}

	first := Summarize(pkgs, routes, nil)
	second := Summarize(pkgs, routes, nil)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated summaries differ: %+v vs %+v", first, second)
	}
	if RenderReport(first) != RenderReport(second) {
		t.Fatalf("repeated renders differ")
	}
}
