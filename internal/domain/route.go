package domain

// Lifecycle states of a route.
type RouteStatus string

const (
	RouteStatusPlanned    RouteStatus = "Planned"
	RouteStatusInProgress RouteStatus = "InProgress"
	RouteStatusCompleted  RouteStatus = "Completed"
)

// Represents the planned delivery run for a single vehicle and driver.
// Stops hold one entry per distinct destination; PackageIDs list every
// package on the run, so several packages may share a stop. TotalDistance
// and the stop order are produced by the tour sequencer, which sets
// Optimized once the tour is computed.
type Route struct {
	RouteID       string
	VehicleID     string
	DriverID      string
	Stops         []Point
	PackageIDs    []string
	TotalDistance float64
	Optimized     bool
	Status        RouteStatus
}

func NewRoute(id string) *Route {
	return &Route{RouteID: id, Status: RouteStatusPlanned}
}

// AddPackage attaches a package to the route, records its destination once
// and moves the package into transit.
func (r *Route) AddPackage(pkg *Package) {
	r.PackageIDs = append(r.PackageIDs, pkg.PackageID)
	if !r.hasStop(pkg.Location) {
		r.Stops = append(r.Stops, pkg.Location)
	}
	pkg.AssignedRouteID = r.RouteID
	pkg.Status = PackageStatusInTransit
}

func (r *Route) hasStop(p Point) bool {
	for _, s := range r.Stops {
		if s == p {
			return true
		}
	}
	return false
}

// Start moves the route out for delivery.
func (r *Route) Start() { r.Status = RouteStatusInProgress }

// Complete closes the route after its last package reaches a terminal state.
func (r *Route) Complete() { r.Status = RouteStatusCompleted }
