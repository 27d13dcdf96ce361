package domain

// Snapshot of fleet performance at a point in time. SuccessRate is a
// percentage and is nil when no packages exist, so an empty fleet never
// divides by zero.
type AnalyticsReport struct {
	TotalPackages  int
	Delivered      int
	Pending        int
	SuccessRate    *float64
	TotalDistance  float64
	ActiveVehicles int
}
