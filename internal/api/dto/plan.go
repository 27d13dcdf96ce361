package dto

// PlanRequest carries the optional depot override; an absent or empty
// body plans from the service's configured depot.
type PlanRequest struct {
	Depot *Point `json:"depot"`
}

type PlanResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type PartitionRequest struct {
	K         int     `json:"k"`
	MaxWeight float64 `json:"max_weight"`
	Depot     *Point  `json:"depot"`
}

type PartitionResponse struct {
	RouteIDs []string `json:"route_ids"`
}
