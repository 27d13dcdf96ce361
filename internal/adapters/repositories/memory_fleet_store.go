package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

// In-memory implementation of the FleetStore port, used by tests and as
// the server's store when no database is configured. Entities are copied
// on the way in and out so callers always work on their own snapshot,
// matching the behavior of a real database round trip.
type MemoryFleetStore struct {
	mu       sync.Mutex
	pkgs     []*domain.Package
	vehicles []*domain.Vehicle
	drivers  []*domain.Driver
	routes   []*domain.Route
}

func NewMemoryFleetStore() *MemoryFleetStore {
	return &MemoryFleetStore{}
}

// ApplySeed loads a fleet seed into an empty slot of the store; entries
// whose ids already exist are skipped, mirroring SeedFromJSON.
func (s *MemoryFleetStore) ApplySeed(seed *FleetSeed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range seed.Packages {
		if s.findPackage(p.PackageID) >= 0 {
			continue
		}
		s.pkgs = append(s.pkgs, &domain.Package{
			PackageID: p.PackageID,
			Location:  domain.Point{X: p.X, Y: p.Y},
			Weight:    p.Weight,
			Status:    domain.PackageStatusCreated,
		})
	}
	for _, v := range seed.Vehicles {
		if s.findVehicle(v.VehicleID) >= 0 {
			continue
		}
		s.vehicles = append(s.vehicles, domain.NewVehicle(v.VehicleID, v.Capacity))
	}
	for _, d := range seed.Drivers {
		if s.findDriver(d.DriverID) >= 0 {
			continue
		}
		s.drivers = append(s.drivers, &domain.Driver{
			DriverID:      d.DriverID,
			Name:          d.Name,
			LicenseNumber: d.LicenseNumber,
		})
	}
}

// AddVehicle registers a vehicle at the end of the pool.
func (s *MemoryFleetStore) AddVehicle(v *domain.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = append(s.vehicles, copyVehicle(v))
}

// AddDriver registers a driver at the end of the pool.
func (s *MemoryFleetStore) AddDriver(d *domain.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers = append(s.drivers, copyDriver(d))
}

func (s *MemoryFleetStore) ListPackages(ctx context.Context) ([]*domain.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Package, 0, len(s.pkgs))
	for _, p := range s.pkgs {
		out = append(out, copyPackage(p))
	}
	return out, nil
}

func (s *MemoryFleetStore) GetPackage(ctx context.Context, packageID string) (*domain.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findPackage(packageID)
	if i < 0 {
		return nil, fmt.Errorf("get package %s: %w", packageID, ports.ErrPackageNotFound)
	}
	return copyPackage(s.pkgs[i]), nil
}

func (s *MemoryFleetStore) CreatePackage(ctx context.Context, pkg *domain.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findPackage(pkg.PackageID) >= 0 {
		return fmt.Errorf("create package %s: id already exists", pkg.PackageID)
	}
	s.pkgs = append(s.pkgs, copyPackage(pkg))
	return nil
}

func (s *MemoryFleetStore) UpdatePackage(ctx context.Context, pkg *domain.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findPackage(pkg.PackageID)
	if i < 0 {
		return fmt.Errorf("update package %s: %w", pkg.PackageID, ports.ErrPackageNotFound)
	}
	s.pkgs[i] = copyPackage(pkg)
	return nil
}

func (s *MemoryFleetStore) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, copyVehicle(v))
	}
	return out, nil
}

func (s *MemoryFleetStore) UpdateVehicle(ctx context.Context, v *domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findVehicle(v.VehicleID)
	if i < 0 {
		return fmt.Errorf("update vehicle %s: not found", v.VehicleID)
	}
	s.vehicles[i] = copyVehicle(v)
	return nil
}

func (s *MemoryFleetStore) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		out = append(out, copyDriver(d))
	}
	return out, nil
}

func (s *MemoryFleetStore) UpdateDriver(ctx context.Context, d *domain.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findDriver(d.DriverID)
	if i < 0 {
		return fmt.Errorf("update driver %s: %w", d.DriverID, ports.ErrDriverNotFound)
	}
	s.drivers[i] = copyDriver(d)
	return nil
}

func (s *MemoryFleetStore) ListRoutes(ctx context.Context) ([]*domain.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Route, 0, len(s.routes))
	for _, r := range s.routes {
		out = append(out, copyRoute(r))
	}
	return out, nil
}

func (s *MemoryFleetStore) GetRoute(ctx context.Context, routeID string) (*domain.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findRoute(routeID)
	if i < 0 {
		return nil, fmt.Errorf("get route %s: %w", routeID, ports.ErrRouteNotFound)
	}
	return copyRoute(s.routes[i]), nil
}

func (s *MemoryFleetStore) CountRoutes(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.routes), nil
}

func (s *MemoryFleetStore) UpdateRoute(ctx context.Context, r *domain.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findRoute(r.RouteID)
	if i < 0 {
		return fmt.Errorf("update route %s: %w", r.RouteID, ports.ErrRouteNotFound)
	}
	s.routes[i] = copyRoute(r)
	return nil
}

func (s *MemoryFleetStore) SavePlan(
	ctx context.Context,
	routes []*domain.Route,
	pkgs []*domain.Package,
	vehicles []*domain.Vehicle,
	drivers []*domain.Driver,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range routes {
		if i := s.findRoute(r.RouteID); i >= 0 {
			s.routes[i] = copyRoute(r)
		} else {
			s.routes = append(s.routes, copyRoute(r))
		}
	}
	for _, pkg := range pkgs {
		if i := s.findPackage(pkg.PackageID); i >= 0 {
			s.pkgs[i] = copyPackage(pkg)
		}
	}
	for _, v := range vehicles {
		if i := s.findVehicle(v.VehicleID); i >= 0 {
			s.vehicles[i] = copyVehicle(v)
		}
	}
	for _, d := range drivers {
		if i := s.findDriver(d.DriverID); i >= 0 {
			s.drivers[i] = copyDriver(d)
		}
	}
	return nil
}

func (s *MemoryFleetStore) findPackage(id string) int {
	for i, p := range s.pkgs {
		if p.PackageID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryFleetStore) findVehicle(id string) int {
	for i, v := range s.vehicles {
		if v.VehicleID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryFleetStore) findDriver(id string) int {
	for i, d := range s.drivers {
		if d.DriverID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryFleetStore) findRoute(id string) int {
	for i, r := range s.routes {
		if r.RouteID == id {
			return i
		}
	}
	return -1
}

func copyPackage(p *domain.Package) *domain.Package {
	c := *p
	return &c
}

func copyVehicle(v *domain.Vehicle) *domain.Vehicle {
	c := *v
	return &c
}

func copyDriver(d *domain.Driver) *domain.Driver {
	c := *d
	return &c
}

func copyRoute(r *domain.Route) *domain.Route {
	c := *r
	c.Stops = slices.Clone(r.Stops)
	c.PackageIDs = slices.Clone(r.PackageIDs)
	return &c
}
