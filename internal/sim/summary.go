package sim

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a simulated lap for reporting: the presentation
// collaborator gets per-sample position and speed from Result, and the
// headline numbers from here.
type Summary struct {
	TotalTime     float64 // seconds
	TotalDistance float64 // metres
	MinSpeed      float64 // m/s
	MaxSpeed      float64 // m/s
	MeanSpeed     float64 // m/s, unweighted over samples
	SlowestIndex  int     // sample index of the minimum speed
}

// Summarize reduces a simulation result to its headline figures. A nil or
// empty result yields the zero Summary.
func Summarize(r *Result) Summary {
	if r == nil || len(r.Speeds) == 0 {
		return Summary{}
	}
	return Summary{
		TotalTime:     r.TotalTime,
		TotalDistance: floats.Sum(r.SegmentDistances),
		MinSpeed:      floats.Min(r.Speeds),
		MaxSpeed:      floats.Max(r.Speeds),
		MeanSpeed:     stat.Mean(r.Speeds, nil),
		SlowestIndex:  floats.MinIdx(r.Speeds),
	}
}
