package dto

import (
	"encoding/json"

	"fleet-dispatch-service/internal/domain"
)

// Point is the wire form of a grid coordinate. Intake feeds send either
// an {"x":..,"y":..} object or a legacy "x,y" string; both decode into
// the same shape.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p *Point) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := domain.ParsePoint(s)
		if err != nil {
			return err
		}
		p.X, p.Y = parsed.X, parsed.Y
		return nil
	}

	type plain Point
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Point(v)
	return nil
}

func (p Point) Domain() domain.Point { return domain.Point{X: p.X, Y: p.Y} }

func PointFrom(p domain.Point) Point { return Point{X: p.X, Y: p.Y} }
