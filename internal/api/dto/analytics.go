package dto

// AnalyticsResponse mirrors the dashboard figures. SuccessRate is null
// until at least one package exists.
type AnalyticsResponse struct {
	TotalPackages  int      `json:"total_packages"`
	Delivered      int      `json:"delivered"`
	Pending        int      `json:"pending"`
	SuccessRate    *float64 `json:"success_rate"`
	TotalDistance  float64  `json:"total_distance"`
	ActiveVehicles int      `json:"active_vehicles"`
}
