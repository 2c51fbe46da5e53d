package geofence

import (
	"context"
	"fmt"

	"geo-attendance/internal/model"
)

// DefaultRadiusMeters is the check-in radius around an office.
const DefaultRadiusMeters = 250

// Directory lists the known offices.
type Directory interface {
	Offices(ctx context.Context) ([]model.Office, error)
}

type Result struct {
	Inside   bool
	Office   *model.Office
	Distance float64
}

type Evaluator struct {
	dir    Directory
	radius float64
}

func NewEvaluator(dir Directory, radiusMeters float64) *Evaluator {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	return &Evaluator{dir: dir, radius: radiusMeters}
}

func (e *Evaluator) Radius() float64 { return e.radius }

// Locate reports the first office, in directory order, within the radius
// of (lat, lng). It is not necessarily the nearest one. A directory
// failure is returned as an error and never treated as "outside".
func (e *Evaluator) Locate(ctx context.Context, lat, lng float64) (Result, error) {
	offices, err := e.dir.Offices(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch offices: %w", err)
	}
	for i := range offices {
		d := Distance(lat, lng, offices[i].Lat, offices[i].Lng)
		if d <= e.radius {
			office := offices[i]
			return Result{Inside: true, Office: &office, Distance: d}, nil
		}
	}
	return Result{}, nil
}
