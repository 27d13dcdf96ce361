package domain

// Driver available for route duty. CurrentRouteID holds the route the
// driver is bound to, or empty when off duty.
type Driver struct {
	DriverID       string
	Name           string
	LicenseNumber  string
	CurrentRouteID string
}
