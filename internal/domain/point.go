package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Immutable position on the planning grid.
type Point struct {
	X float64
	Y float64
}

// Manhattan returns the grid (L1) distance between two points.
func Manhattan(a, b Point) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// ParsePoint parses an "x,y" coordinate pair, tolerating surrounding spaces.
func ParsePoint(s string) (Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, fmt.Errorf("parse point: %q is not an \"x,y\" pair", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse point: bad x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse point: bad y in %q: %w", s, err)
	}
	return Point{X: x, Y: y}, nil
}
