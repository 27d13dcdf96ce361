package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/platform/obs"
	"fleet-dispatch-service/internal/ports"
)

// Postgres-backed implementation of the FleetStore port. Route stops and
// package lists are stored as JSON text columns; everything else maps to
// plain columns.
type PostgresFleetStore struct{ DB *sql.DB }

func NewPostgresFleetStore(db *sql.DB) *PostgresFleetStore {
	return &PostgresFleetStore{DB: db}
}

// Return all packages in insertion order.
func (s *PostgresFleetStore) ListPackages(ctx context.Context) ([]*domain.Package, error) {
	if s.DB == nil {
		return nil, errors.New("fleet store: DB is nil")
	}

	query := `
	SELECT package_id, x, y, weight, status, route_id, proof
	FROM packages
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list packages: query packages table: %w", err)
	}
	defer rows.Close()

	pkgs := make([]*domain.Package, 0, 64)
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("list packages: %w", err)
		}
		pkgs = append(pkgs, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: row iteration: %w", err)
	}

	return pkgs, nil
}

// Return one package by tracking id.
func (s *PostgresFleetStore) GetPackage(ctx context.Context, packageID string) (*domain.Package, error) {
	if s.DB == nil {
		return nil, errors.New("fleet store: DB is nil")
	}

	query := `
	SELECT package_id, x, y, weight, status, route_id, proof
	FROM packages
	WHERE package_id = $1;
	`
	pkg, err := scanPackage(s.DB.QueryRowContext(ctx, query, packageID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get package %s: %w", packageID, ports.ErrPackageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get package %s: %w", packageID, err)
	}
	return pkg, nil
}

func (s *PostgresFleetStore) CreatePackage(ctx context.Context, pkg *domain.Package) error {
	if s.DB == nil {
		return errors.New("fleet store: DB is nil")
	}

	query := `
	INSERT INTO packages (package_id, x, y, weight, status, route_id, proof)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := s.DB.ExecContext(ctx, query,
		pkg.PackageID, pkg.Location.X, pkg.Location.Y, pkg.Weight,
		string(pkg.Status), pkg.AssignedRouteID, pkg.ProofOfDelivery)
	if err != nil {
		return fmt.Errorf("create package %s: %w", pkg.PackageID, err)
	}
	return nil
}

func (s *PostgresFleetStore) UpdatePackage(ctx context.Context, pkg *domain.Package) error {
	if s.DB == nil {
		return errors.New("fleet store: DB is nil")
	}

	query := `
	UPDATE packages
	SET x = $2, y = $3, weight = $4, status = $5, route_id = $6, proof = $7
	WHERE package_id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query,
		pkg.PackageID, pkg.Location.X, pkg.Location.Y, pkg.Weight,
		string(pkg.Status), pkg.AssignedRouteID, pkg.ProofOfDelivery)
	if err != nil {
		return fmt.Errorf("update package %s: %w", pkg.PackageID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update package %s: %w", pkg.PackageID, ports.ErrPackageNotFound)
	}
	return nil
}

// Return all vehicles in insertion order.
func (s *PostgresFleetStore) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("fleet store: DB is nil")
	}

	query := `
	SELECT vehicle_id, capacity, current_load, status, route_id
	FROM vehicles
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		var v domain.Vehicle
		var status string
		if err := rows.Scan(&v.VehicleID, &v.Capacity, &v.CurrentLoad, &status, &v.CurrentRouteID); err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		v.Status = domain.VehicleStatus(status)
		vehicles = append(vehicles, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

func (s *PostgresFleetStore) UpdateVehicle(ctx context.Context, v *domain.Vehicle) error {
	if s.DB == nil {
		return errors.New("fleet store: DB is nil")
	}

	query := `
	UPDATE vehicles
	SET capacity = $2, current_load = $3, status = $4, route_id = $5
	WHERE vehicle_id = $1;
	`
	if _, err := s.DB.ExecContext(ctx, query,
		v.VehicleID, v.Capacity, v.CurrentLoad, string(v.Status), v.CurrentRouteID); err != nil {
		return fmt.Errorf("update vehicle %s: %w", v.VehicleID, err)
	}
	return nil
}

// Return all drivers in insertion order.
func (s *PostgresFleetStore) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	if s.DB == nil {
		return nil, errors.New("fleet store: DB is nil")
	}

	query := `
	SELECT driver_id, name, license_number, route_id
	FROM drivers
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list drivers: query drivers table: %w", err)
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0, 16)
	for rows.Next() {
		var d domain.Driver
		if err := rows.Scan(&d.DriverID, &d.Name, &d.LicenseNumber, &d.CurrentRouteID); err != nil {
			return nil, fmt.Errorf("list drivers: scan row: %w", err)
		}
		drivers = append(drivers, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drivers: row iteration: %w", err)
	}

	return drivers, nil
}

func (s *PostgresFleetStore) UpdateDriver(ctx context.Context, d *domain.Driver) error {
	if s.DB == nil {
		return errors.New("fleet store: DB is nil")
	}

	query := `
	UPDATE drivers
	SET name = $2, license_number = $3, route_id = $4
	WHERE driver_id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query, d.DriverID, d.Name, d.LicenseNumber, d.CurrentRouteID)
	if err != nil {
		return fmt.Errorf("update driver %s: %w", d.DriverID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update driver %s: %w", d.DriverID, ports.ErrDriverNotFound)
	}
	return nil
}

// Return all routes in creation order.
func (s *PostgresFleetStore) ListRoutes(ctx context.Context) ([]*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("fleet store: DB is nil")
	}

	query := `
	SELECT route_id, vehicle_id, driver_id, stops, package_ids, total_distance, optimized, status
	FROM routes
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]*domain.Route, 0, 16)
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("list routes: %w", err)
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return routes, nil
}

// Return one route by id.
func (s *PostgresFleetStore) GetRoute(ctx context.Context, routeID string) (*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("fleet store: DB is nil")
	}

	query := `
	SELECT route_id, vehicle_id, driver_id, stops, package_ids, total_distance, optimized, status
	FROM routes
	WHERE route_id = $1;
	`
	r, err := scanRoute(s.DB.QueryRowContext(ctx, query, routeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route %s: %w", routeID, ports.ErrRouteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route %s: %w", routeID, err)
	}
	return r, nil
}

func (s *PostgresFleetStore) CountRoutes(ctx context.Context) (int, error) {
	if s.DB == nil {
		return 0, errors.New("fleet store: DB is nil")
	}

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM routes;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count routes: %w", err)
	}
	return n, nil
}

func (s *PostgresFleetStore) UpdateRoute(ctx context.Context, r *domain.Route) error {
	if s.DB == nil {
		return errors.New("fleet store: DB is nil")
	}

	stops, pkgIDs, err := encodeRouteLists(r)
	if err != nil {
		return fmt.Errorf("update route %s: %w", r.RouteID, err)
	}

	query := `
	UPDATE routes
	SET vehicle_id = $2, driver_id = $3, stops = $4, package_ids = $5,
		total_distance = $6, optimized = $7, status = $8
	WHERE route_id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query,
		r.RouteID, r.VehicleID, r.DriverID, stops, pkgIDs,
		r.TotalDistance, r.Optimized, string(r.Status))
	if err != nil {
		return fmt.Errorf("update route %s: %w", r.RouteID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update route %s: %w", r.RouteID, ports.ErrRouteNotFound)
	}
	return nil
}

// Persist a whole planning run in one transaction: upsert the new routes
// and write back every pool entity the run touched.
func (s *PostgresFleetStore) SavePlan(
	ctx context.Context,
	routes []*domain.Route,
	pkgs []*domain.Package,
	vehicles []*domain.Vehicle,
	drivers []*domain.Driver,
) (err error) {
	defer obs.Time(ctx, "fleet.store.SavePlan")(&err)

	if s.DB == nil {
		return errors.New("fleet store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	routeStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO routes (route_id, vehicle_id, driver_id, stops, package_ids, total_distance, optimized, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (route_id) DO UPDATE
	SET vehicle_id = EXCLUDED.vehicle_id,
		driver_id = EXCLUDED.driver_id,
		stops = EXCLUDED.stops,
		package_ids = EXCLUDED.package_ids,
		total_distance = EXCLUDED.total_distance,
		optimized = EXCLUDED.optimized,
		status = EXCLUDED.status;
	`)
	if err != nil {
		return fmt.Errorf("save plan: prepare route upsert: %w", err)
	}
	defer routeStmt.Close()

	for _, r := range routes {
		stops, pkgIDs, err := encodeRouteLists(r)
		if err != nil {
			return fmt.Errorf("save plan: route %s: %w", r.RouteID, err)
		}
		if _, err := routeStmt.ExecContext(ctx,
			r.RouteID, r.VehicleID, r.DriverID, stops, pkgIDs,
			r.TotalDistance, r.Optimized, string(r.Status)); err != nil {
			return fmt.Errorf("save plan: upsert route %s: %w", r.RouteID, err)
		}
	}

	pkgStmt, err := tx.PrepareContext(ctx, `
	UPDATE packages
	SET status = $2, route_id = $3, proof = $4
	WHERE package_id = $1;
	`)
	if err != nil {
		return fmt.Errorf("save plan: prepare package update: %w", err)
	}
	defer pkgStmt.Close()

	for _, pkg := range pkgs {
		if _, err := pkgStmt.ExecContext(ctx,
			pkg.PackageID, string(pkg.Status), pkg.AssignedRouteID, pkg.ProofOfDelivery); err != nil {
			return fmt.Errorf("save plan: update package %s: %w", pkg.PackageID, err)
		}
	}

	vehStmt, err := tx.PrepareContext(ctx, `
	UPDATE vehicles
	SET current_load = $2, status = $3, route_id = $4
	WHERE vehicle_id = $1;
	`)
	if err != nil {
		return fmt.Errorf("save plan: prepare vehicle update: %w", err)
	}
	defer vehStmt.Close()

	for _, v := range vehicles {
		if _, err := vehStmt.ExecContext(ctx,
			v.VehicleID, v.CurrentLoad, string(v.Status), v.CurrentRouteID); err != nil {
			return fmt.Errorf("save plan: update vehicle %s: %w", v.VehicleID, err)
		}
	}

	drvStmt, err := tx.PrepareContext(ctx, `
	UPDATE drivers
	SET route_id = $2
	WHERE driver_id = $1;
	`)
	if err != nil {
		return fmt.Errorf("save plan: prepare driver update: %w", err)
	}
	defer drvStmt.Close()

	for _, d := range drivers {
		if _, err := drvStmt.ExecContext(ctx, d.DriverID, d.CurrentRouteID); err != nil {
			return fmt.Errorf("save plan: update driver %s: %w", d.DriverID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save plan: commit tx: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(row rowScanner) (*domain.Package, error) {
	var pkg domain.Package
	var status string
	err := row.Scan(&pkg.PackageID, &pkg.Location.X, &pkg.Location.Y, &pkg.Weight,
		&status, &pkg.AssignedRouteID, &pkg.ProofOfDelivery)
	if err != nil {
		return nil, err
	}
	pkg.Status = domain.PackageStatus(status)
	return &pkg, nil
}

func scanRoute(row rowScanner) (*domain.Route, error) {
	var r domain.Route
	var status, stops, pkgIDs string
	err := row.Scan(&r.RouteID, &r.VehicleID, &r.DriverID, &stops, &pkgIDs,
		&r.TotalDistance, &r.Optimized, &status)
	if err != nil {
		return nil, err
	}
	r.Status = domain.RouteStatus(status)

	if err := json.Unmarshal([]byte(stops), &r.Stops); err != nil {
		return nil, fmt.Errorf("decode stops for route %s: %w", r.RouteID, err)
	}
	if err := json.Unmarshal([]byte(pkgIDs), &r.PackageIDs); err != nil {
		return nil, fmt.Errorf("decode package ids for route %s: %w", r.RouteID, err)
	}
	return &r, nil
}

func encodeRouteLists(r *domain.Route) (stops string, pkgIDs string, err error) {
	rawStops, err := json.Marshal(r.Stops)
	if err != nil {
		return "", "", fmt.Errorf("encode stops: %w", err)
	}
	rawIDs, err := json.Marshal(r.PackageIDs)
	if err != nil {
		return "", "", fmt.Errorf("encode package ids: %w", err)
	}
	return string(rawStops), string(rawIDs), nil
}
