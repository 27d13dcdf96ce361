package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"fleet-dispatch-service/internal/domain"
)

// Initialize the fleet database schema. The seq columns record insertion
// order, which every List query sorts by so planning sees pools in the
// order they were registered.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPackagesQuery := `
	CREATE TABLE IF NOT EXISTS packages (
		seq BIGSERIAL,
		package_id TEXT PRIMARY KEY,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'Created',
		route_id TEXT NOT NULL DEFAULT '',
		proof TEXT NOT NULL DEFAULT ''
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		seq BIGSERIAL,
		vehicle_id TEXT PRIMARY KEY,
		capacity DOUBLE PRECISION NOT NULL,
		current_load DOUBLE PRECISION NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'Available',
		route_id TEXT NOT NULL DEFAULT ''
	);
	`

	createDriversQuery := `
	CREATE TABLE IF NOT EXISTS drivers (
		seq BIGSERIAL,
		driver_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		license_number TEXT NOT NULL DEFAULT '',
		route_id TEXT NOT NULL DEFAULT ''
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		seq BIGSERIAL,
		route_id TEXT PRIMARY KEY,
		vehicle_id TEXT NOT NULL DEFAULT '',
		driver_id TEXT NOT NULL DEFAULT '',
		stops TEXT NOT NULL DEFAULT '[]',
		package_ids TEXT NOT NULL DEFAULT '[]',
		total_distance DOUBLE PRECISION NOT NULL DEFAULT 0,
		optimized BOOLEAN NOT NULL DEFAULT FALSE,
		status TEXT NOT NULL DEFAULT 'Planned'
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_packages_route_id ON packages(route_id);
	`

	statements := []string{
		createPackagesQuery,
		createVehiclesQuery,
		createDriversQuery,
		createRoutesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PackageSeed struct {
	PackageID string  `json:"package_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Weight    float64 `json:"weight"`
}

type VehicleSeed struct {
	VehicleID string  `json:"vehicle_id"`
	Capacity  float64 `json:"capacity"`
}

type DriverSeed struct {
	DriverID      string `json:"driver_id"`
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
}

// FleetSeed is the on-disk bootstrap format: one JSON document carrying
// the initial packages, vehicles and drivers.
type FleetSeed struct {
	Packages []PackageSeed `json:"packages"`
	Vehicles []VehicleSeed `json:"vehicles"`
	Drivers  []DriverSeed  `json:"drivers"`
}

// LoadSeed reads and validates a fleet seed file.
func LoadSeed(jsonPath string) (*FleetSeed, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed fleet: read %q: %w", jsonPath, err)
	}

	var seed FleetSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("seed fleet: parse json: %w", err)
	}

	for i, p := range seed.Packages {
		if !domain.ValidPackageID(p.PackageID) {
			return nil, fmt.Errorf("seed fleet: invalid package_id at index %d: %q", i+1, p.PackageID)
		}
		if p.Weight <= 0 {
			return nil, fmt.Errorf("seed fleet: package %s: weight must be positive, got %g", p.PackageID, p.Weight)
		}
	}
	for i, v := range seed.Vehicles {
		if strings.TrimSpace(v.VehicleID) == "" {
			return nil, fmt.Errorf("seed fleet: empty vehicle_id at index %d", i+1)
		}
		if v.Capacity <= 0 {
			return nil, fmt.Errorf("seed fleet: vehicle %s: capacity must be positive, got %g", v.VehicleID, v.Capacity)
		}
	}
	for i, d := range seed.Drivers {
		if strings.TrimSpace(d.DriverID) == "" {
			return nil, fmt.Errorf("seed fleet: empty driver_id at index %d", i+1)
		}
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("seed fleet: driver %s: name cannot be empty", d.DriverID)
		}
	}

	return &seed, nil
}

// Populate the database from a seed file. Existing rows win: seeding
// fills an empty store and never clobbers live fleet state on restart.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	seed, err := LoadSeed(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed fleet: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	pkgStmt, err := tx.Prepare(`
	INSERT INTO packages (package_id, x, y, weight, status)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (package_id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed fleet: prepare package insert: %w", err)
	}
	defer pkgStmt.Close()
	for _, p := range seed.Packages {
		if _, err := pkgStmt.Exec(p.PackageID, p.X, p.Y, p.Weight, string(domain.PackageStatusCreated)); err != nil {
			return fmt.Errorf("seed fleet: insert package_id=%s: %w", p.PackageID, err)
		}
	}

	vehStmt, err := tx.Prepare(`
	INSERT INTO vehicles (vehicle_id, capacity, status)
	VALUES ($1, $2, $3)
	ON CONFLICT (vehicle_id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed fleet: prepare vehicle insert: %w", err)
	}
	defer vehStmt.Close()
	for _, v := range seed.Vehicles {
		if _, err := vehStmt.Exec(v.VehicleID, v.Capacity, string(domain.VehicleStatusAvailable)); err != nil {
			return fmt.Errorf("seed fleet: insert vehicle_id=%s: %w", v.VehicleID, err)
		}
	}

	drvStmt, err := tx.Prepare(`
	INSERT INTO drivers (driver_id, name, license_number)
	VALUES ($1, $2, $3)
	ON CONFLICT (driver_id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed fleet: prepare driver insert: %w", err)
	}
	defer drvStmt.Close()
	for _, d := range seed.Drivers {
		if _, err := drvStmt.Exec(d.DriverID, d.Name, d.LicenseNumber); err != nil {
			return fmt.Errorf("seed fleet: insert driver_id=%s: %w", d.DriverID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fleet: commit tx: %w", err)
	}

	return nil
}
