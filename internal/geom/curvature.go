package geom

// CurvatureSample holds the signed curvature and unit tangent at one path
// sample. Kappa is in units of 1/length; positive for counter-clockwise
// turns under the cross-product sign convention.
type CurvatureSample struct {
	Kappa   float64
	Tangent Vec
}

// Curvature estimates signed curvature and tangent direction at every sample
// of a closed path. For index i it uses the incoming vector p[i]-p[i-1] and
// outgoing vector p[i+1]-p[i] with indices wrapping modulo len(p):
//
//	kappa = cross(in, out) / (|in| * |out| * (|in| + |out|)/2)
//
// which is the Menger curvature of the three samples with the chord length
// approximated by the mean of the two segment lengths, so a circle of
// radius R measures 1/R. The denominator is floored at a small epsilon so
// coincident points cannot divide by zero. The tangent is the normalised
// average of in and out.
//
// This discrete estimate approximates inverse turn radius for densely,
// evenly sampled paths; resample before calling when spacing is uneven.
// Paths with fewer than 2 points return nil.
func Curvature(p Path) []CurvatureSample {
	n := len(p)
	if n < 2 {
		return nil
	}
	out := make([]CurvatureSample, n)
	for i := 0; i < n; i++ {
		in := p[i].Sub(p[(i-1+n)%n])
		og := p[(i+1)%n].Sub(p[i])

		lin := in.Norm()
		lout := og.Norm()
		denom := lin * lout * (lin + lout) / 2
		if denom < Eps {
			denom = Eps
		}

		out[i] = CurvatureSample{
			Kappa:   in.Cross(og) / denom,
			Tangent: in.Add(og).Normalize(),
		}
	}
	return out
}

// Normals returns the local left-hand normal at every sample of a closed
// path: the unit tangent rotated 90 degrees counter-clockwise. Returns nil
// for paths with fewer than 2 points.
func Normals(p Path) []Vec {
	samples := Curvature(p)
	if samples == nil {
		return nil
	}
	out := make([]Vec, len(samples))
	for i, s := range samples {
		out[i] = s.Tangent.Rot90()
	}
	return out
}
