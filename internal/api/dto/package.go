package dto

type CreatePackageRequest struct {
	PackageID string  `json:"package_id"`
	Location  *Point  `json:"location"`
	Weight    float64 `json:"weight"`
}

type UpdatePackageStatusRequest struct {
	PackageID string `json:"package_id"`
	Status    string `json:"status"`
	Proof     string `json:"proof"`
}

type PackageResponse struct {
	PackageID       string  `json:"package_id"`
	Location        Point   `json:"location"`
	Weight          float64 `json:"weight"`
	Status          string  `json:"status"`
	AssignedRouteID string  `json:"assigned_route_id,omitempty"`
	ProofOfDelivery string  `json:"proof_of_delivery,omitempty"`
}

type ListPackagesResponse struct {
	Packages []PackageResponse `json:"packages"`
}
