package domain

import "fmt"

// Operational states of a vehicle.
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "Available"
	VehicleStatusInUse       VehicleStatus = "InUse"
	VehicleStatusMaintenance VehicleStatus = "Maintenance"
)

// Delivery vehicle aggregate. The load ledger is cumulative: every package
// committed to the vehicle adds its weight, and the total never exceeds
// Capacity. CurrentRouteID binds the vehicle to its active route.
type Vehicle struct {
	VehicleID      string
	Capacity       float64
	CurrentLoad    float64
	Status         VehicleStatus
	CurrentRouteID string
}

func NewVehicle(id string, capacity float64) *Vehicle {
	return &Vehicle{
		VehicleID: id,
		Capacity:  capacity,
		Status:    VehicleStatusAvailable,
	}
}

// CanAccept reports whether the vehicle can take the additional weight
// without exceeding capacity. An exact fit is accepted.
func (v *Vehicle) CanAccept(weight float64) bool {
	return v.CurrentLoad+weight <= v.Capacity
}

// Commit records weight against the vehicle's load ledger. The first commit
// binds the vehicle to the route and marks it InUse. A commit that would
// exceed capacity fails with no side effects.
func (v *Vehicle) Commit(weight float64, routeID string) error {
	if !v.CanAccept(weight) {
		return fmt.Errorf("commit load: vehicle %s over capacity (load=%g add=%g capacity=%g)",
			v.VehicleID, v.CurrentLoad, weight, v.Capacity)
	}
	v.CurrentLoad += weight
	if v.CurrentRouteID == "" {
		v.CurrentRouteID = routeID
		v.Status = VehicleStatusInUse
	}
	return nil
}

// Release unloads the vehicle after its route completes and returns it to
// the available pool.
func (v *Vehicle) Release() {
	v.CurrentLoad = 0
	v.CurrentRouteID = ""
	v.Status = VehicleStatusAvailable
}
