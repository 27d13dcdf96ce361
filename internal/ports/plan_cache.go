package ports

import (
	"context"
	"errors"
)

// ErrCacheMiss signals that no plan snapshot is cached.
var ErrCacheMiss = errors.New("plan cache: miss")

// Port: optional cache holding the most recent plan output as an opaque
// payload, so clients can re-read the latest plan without replanning.
type PlanCache interface {
	// Store the latest plan snapshot, replacing any previous one.
	PutLatest(ctx context.Context, payload []byte) error
	// Retrieve the latest plan snapshot, or ErrCacheMiss.
	GetLatest(ctx context.Context) ([]byte, error)
}
