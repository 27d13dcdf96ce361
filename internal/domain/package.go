package domain

import "regexp"

// Lifecycle states of a package. Delivered, Returned and Exception are
// terminal: a route completes once every package on it reaches one of
// these states.
type PackageStatus string

const (
	PackageStatusCreated        PackageStatus = "Created"
	PackageStatusInTransit      PackageStatus = "InTransit"
	PackageStatusOutForDelivery PackageStatus = "OutForDelivery"
	PackageStatusDelivered      PackageStatus = "Delivered"
	PackageStatusReturned       PackageStatus = "Returned"
	PackageStatusException      PackageStatus = "Exception"
)

// Terminal reports whether the status ends the package lifecycle.
func (s PackageStatus) Terminal() bool {
	return s == PackageStatusDelivered || s == PackageStatusReturned || s == PackageStatusException
}

// Valid reports whether s is one of the known lifecycle states.
func (s PackageStatus) Valid() bool {
	switch s {
	case PackageStatusCreated, PackageStatusInTransit, PackageStatusOutForDelivery,
		PackageStatusDelivered, PackageStatusReturned, PackageStatusException:
		return true
	}
	return false
}

var packageIDPattern = regexp.MustCompile(`^[A-Z0-9-]{6,20}$`)

// ValidPackageID reports whether id matches the tracking-number format:
// 6-20 characters, uppercase letters, digits and dashes only.
func ValidPackageID(id string) bool { return packageIDPattern.MatchString(id) }

// Represents a single delivery unit handled by the system.
// A Package has a unique tracking identifier, a destination on the grid
// and a shipping weight. AssignedRouteID stays empty until a planning run
// places the package on a route.
type Package struct {
	PackageID       string
	Location        Point
	Weight          float64
	Status          PackageStatus
	AssignedRouteID string
	ProofOfDelivery string
}

// UpdateStatus transitions the package and records proof of delivery when
// one is supplied.
func (p *Package) UpdateStatus(status PackageStatus, proof string) {
	p.Status = status
	if proof != "" {
		p.ProofOfDelivery = proof
	}
}
