package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// SampleOptions controls the generated sample dataset.
type SampleOptions struct {
	Series int   // number of series (default 3)
	Points int   // points per series (default 10,000)
	Seed   int64 // random seed; equal seeds give equal data
}

// NewSampleDataset builds a deterministic multi-series dataset: a noisy sine
// wave, a random walk and a spiky series whose extremes decimation must keep.
func NewSampleDataset(id string, opts SampleOptions) *Dataset {
	if opts.Series <= 0 {
		opts.Series = 3
	}
	if opts.Points <= 0 {
		opts.Points = 10000
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	ds := &Dataset{
		ID:        id,
		Name:      "Sample",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Series:    make([]Series, opts.Series),
	}

	for s := 0; s < opts.Series; s++ {
		points := make([]DataPoint, opts.Points)
		walk := 0.0
		for i := range points {
			x := float64(i)
			var y float64
			switch s % 3 {
			case 0:
				y = 50 + 40*math.Sin(x/180) + rng.NormFloat64()*2
			case 1:
				walk += rng.NormFloat64()
				y = 20 + walk
			default:
				y = 10 + rng.Float64()*3
				if rng.Intn(500) == 0 {
					y += 60 + rng.Float64()*40
				}
			}
			points[i] = DataPoint{X: x, Y: y}
		}
		ds.Series[s] = Series{
			Name:   fmt.Sprintf("series-%d", s+1),
			Points: points,
		}
	}

	return ds
}
