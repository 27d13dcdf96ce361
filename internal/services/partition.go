package services

import (
	"fmt"
	"slices"

	"fleet-dispatch-service/internal/domain"
)

// Number of refinement rounds the partitioner runs. The round count is
// fixed rather than convergence-based so runs are deterministic and
// bounded regardless of input shape.
const partitionRounds = 10

// PartitionPackages groups packages into at most k geographic clusters,
// each holding at most maxWeight of load.
//
// Centroids are seeded from the first k package locations in input order,
// then refined for a fixed number of rounds: each round re-assigns every
// package, heaviest first, to the nearest centroid whose cluster still has
// weight headroom, and recomputes each non-empty centroid as the mean of
// its members. A package no cluster can hold is dropped for that round and
// retried the next; only membership after the final round counts. The
// result slice has k entries and preserves cluster index positions, so
// some entries may be empty. k is clamped to the package count; k < 1
// yields no clusters.
func PartitionPackages(pkgs []*domain.Package, k int, maxWeight float64) [][]*domain.Package {
	if k > len(pkgs) {
		k = len(pkgs)
	}
	if k < 1 {
		return nil
	}

	centroids := make([]domain.Point, k)
	for i := 0; i < k; i++ {
		centroids[i] = pkgs[i].Location
	}

	// Rounds sort by weight; work on a copy so the caller's order survives.
	pool := slices.Clone(pkgs)

	var clusters [][]*domain.Package
	for round := 0; round < partitionRounds; round++ {
		clusters = make([][]*domain.Package, k)
		weights := make([]float64, k)

		// Heaviest first, stable so equal weights keep input order.
		slices.SortStableFunc(pool, func(a, b *domain.Package) int {
			if a.Weight > b.Weight {
				return -1
			}
			if a.Weight < b.Weight {
				return 1
			}
			return 0
		})

		for _, pkg := range pool {
			best := -1
			bestDist := 0.0
			// Strict < keeps the lowest cluster index on equal distances.
			for i, c := range centroids {
				if weights[i]+pkg.Weight > maxWeight {
					continue
				}
				if d := domain.Manhattan(pkg.Location, c); best < 0 || d < bestDist {
					best = i
					bestDist = d
				}
			}
			if best < 0 {
				continue
			}
			clusters[best] = append(clusters[best], pkg)
			weights[best] += pkg.Weight
		}

		for i, members := range clusters {
			if len(members) == 0 {
				continue
			}
			var sx, sy float64
			for _, pkg := range members {
				sx += pkg.Location.X
				sy += pkg.Location.Y
			}
			n := float64(len(members))
			centroids[i] = domain.Point{X: sx / n, Y: sy / n}
		}
	}

	return clusters
}

// MaterializeClusters turns non-empty clusters into sequenced routes.
//
// Route ids follow the AR<seq>_<cluster> scheme: seq starts at routeSeq
// and advances with every materialized route, while the suffix keeps the
// originating cluster index. When pools are supplied, each route is bound
// to the first unbound vehicle that can hold the cluster's full weight
// (scanning round-robin) and to the next driver in rotation; a cluster no
// vehicle fits stays unbound for later manual assignment. Returns the new
// routes keyed by id plus the ids in creation order.
func MaterializeClusters(
	clusters [][]*domain.Package,
	vehicles []*domain.Vehicle,
	drivers []*domain.Driver,
	depot domain.Point,
	routeSeq int,
) (map[string]*domain.Route, []string) {
	routes := make(map[string]*domain.Route)
	ids := make([]string, 0, len(clusters))
	if routeSeq < 1 {
		routeSeq = 1
	}

	var cur roundRobin
	for i, members := range clusters {
		if len(members) == 0 {
			continue
		}

		routeID := fmt.Sprintf("AR%d_%d", routeSeq, i)
		routeSeq++
		r := domain.NewRoute(routeID)

		var clusterWeight float64
		for _, pkg := range members {
			clusterWeight += pkg.Weight
		}

		for j := 0; j < len(vehicles); j++ {
			idx := (cur.vehicle + j) % len(vehicles)
			v := vehicles[idx]
			if v.CurrentRouteID != "" || !v.CanAccept(clusterWeight) {
				continue
			}
			if err := v.Commit(clusterWeight, routeID); err != nil {
				continue
			}
			r.VehicleID = v.VehicleID
			cur.vehicle = (idx + 1) % len(vehicles)
			break
		}

		if len(drivers) > 0 {
			d := cur.nextDriver(drivers)
			r.DriverID = d.DriverID
			d.CurrentRouteID = routeID
		}

		for _, pkg := range members {
			r.AddPackage(pkg)
		}
		SequenceRoute(r, depot)

		routes[routeID] = r
		ids = append(ids, routeID)
	}

	return routes, ids
}

// AutoPartition clusters unassigned packages and materializes the result
// into routes in one step. Packages left outside every cluster after the
// final round are marked Exception; with k < 1 no clustering happens and
// package state is untouched.
func AutoPartition(
	pkgs []*domain.Package,
	k int,
	maxWeight float64,
	vehicles []*domain.Vehicle,
	drivers []*domain.Driver,
	depot domain.Point,
	routeSeq int,
) (map[string]*domain.Route, []string) {
	clusters := PartitionPackages(pkgs, k, maxWeight)
	if clusters == nil {
		return map[string]*domain.Route{}, nil
	}

	placed := make(map[string]struct{})
	for _, members := range clusters {
		for _, pkg := range members {
			placed[pkg.PackageID] = struct{}{}
		}
	}
	for _, pkg := range pkgs {
		if _, ok := placed[pkg.PackageID]; !ok {
			pkg.Status = domain.PackageStatusException
		}
	}

	return MaterializeClusters(clusters, vehicles, drivers, depot, routeSeq)
}
