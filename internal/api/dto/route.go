package dto

type RouteResponse struct {
	RouteID       string   `json:"route_id"`
	VehicleID     string   `json:"vehicle_id,omitempty"`
	DriverID      string   `json:"driver_id,omitempty"`
	Stops         []Point  `json:"stops"`
	PackageIDs    []string `json:"package_ids"`
	TotalDistance float64  `json:"total_distance"`
	Optimized     bool     `json:"optimized"`
	Status        string   `json:"status"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type AssignDriverRequest struct {
	RouteID  string `json:"route_id"`
	DriverID string `json:"driver_id"`
	Start    bool   `json:"start"`
}
