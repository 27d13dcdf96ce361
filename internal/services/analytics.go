package services

import (
	"fmt"
	"strings"

	"fleet-dispatch-service/internal/domain"
)

// Summarize reduces current fleet state into an analytics report.
//
// The reduction is pure: it reads the snapshot it is given and never
// mutates it, so calling it repeatedly on unchanged state yields identical
// reports. Pending counts every package not yet delivered, including
// terminal failures, and SuccessRate stays nil on an empty fleet.
func Summarize(pkgs []*domain.Package, routes []*domain.Route, vehicles []*domain.Vehicle) domain.AnalyticsReport {
	rep := domain.AnalyticsReport{TotalPackages: len(pkgs)}

	for _, pkg := range pkgs {
		if pkg.Status == domain.PackageStatusDelivered {
			rep.Delivered++
		}
	}
	rep.Pending = rep.TotalPackages - rep.Delivered

	if rep.TotalPackages > 0 {
		rate := float64(rep.Delivered) / float64(rep.TotalPackages) * 100
		rep.SuccessRate = &rate
	}

	for _, r := range routes {
		rep.TotalDistance += r.TotalDistance
	}
	for _, v := range vehicles {
		if v.Status == domain.VehicleStatusInUse {
			rep.ActiveVehicles++
		}
	}

	return rep
}

// RenderReport formats a report as the plain-text dashboard block.
func RenderReport(rep domain.AnalyticsReport) string {
	var b strings.Builder

	header := "=== Fleet Analytics Dashboard ==="
	fmt.Fprintln(&b, header)
	fmt.Fprintf(&b, "Total Packages: %d\n", rep.TotalPackages)
	fmt.Fprintf(&b, "Delivered: %d\n", rep.Delivered)
	fmt.Fprintf(&b, "Pending: %d\n", rep.Pending)
	if rep.SuccessRate != nil {
		fmt.Fprintf(&b, "Success Rate: %.1f%%\n", *rep.SuccessRate)
	} else {
		fmt.Fprintln(&b, "Success Rate: N/A")
	}
	fmt.Fprintf(&b, "Total Fleet Distance: %.2f km\n", rep.TotalDistance)
	fmt.Fprintf(&b, "Active Vehicles: %d\n", rep.ActiveVehicles)
	fmt.Fprintln(&b, strings.Repeat("=", len(header)))

	return b.String()
}
