// Command gen-track emits synthetic edge-trace JSON for exercising the
// raceline CLI without a drawing frontend.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"os"

	"github.com/apexline/raceline/internal/geom"
	"github.com/apexline/raceline/internal/track"
)

var (
	shape  = flag.String("shape", "circle", "Track shape: circle or oval")
	radius = flag.Float64("radius", 200, "Circle radius / oval corner radius, units")
	width  = flag.Float64("width", 40, "Track width, units")
	length = flag.Float64("length", 600, "Oval straight length, units")
	points = flag.Int("points", 240, "Samples per edge")
	out    = flag.String("out", "track.json", "Output file")
)

func main() {
	flag.Parse()

	var edges track.EdgePair
	switch *shape {
	case "circle":
		edges = track.EdgePair{
			Left:  circle(*radius+*width/2, *points),
			Right: circle(*radius-*width/2, *points),
		}
	case "oval":
		edges = track.EdgePair{
			Left:  oval(*length, *radius+*width/2, *points),
			Right: oval(*length, *radius-*width/2, *points),
		}
	default:
		log.Fatalf("unknown shape %q", *shape)
	}

	data, err := json.MarshalIndent(edges, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode edges: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", *out, err)
	}
	log.Printf("wrote %s: %s track, %d samples per edge", *out, *shape, *points)
}

func circle(r float64, n int) geom.Path {
	p := make(geom.Path, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		p[i] = geom.Pt(r*math.Cos(a), r*math.Sin(a))
	}
	return p
}

// oval walks a stadium shape: two straights of the given length joined by
// semicircular ends of radius r, sampled n times around the loop.
func oval(length, r float64, n int) geom.Path {
	perimeter := 2*length + 2*math.Pi*r
	p := make(geom.Path, n)
	for i := 0; i < n; i++ {
		d := perimeter * float64(i) / float64(n)
		switch {
		case d < length:
			p[i] = geom.Pt(d, -r)
		case d < length+math.Pi*r:
			a := (d - length) / r
			p[i] = geom.Pt(length+r*math.Sin(a), -r*math.Cos(a))
		case d < 2*length+math.Pi*r:
			p[i] = geom.Pt(length-(d-length-math.Pi*r), r)
		default:
			a := (d - 2*length - math.Pi*r) / r
			p[i] = geom.Pt(-r*math.Sin(a), r*math.Cos(a))
		}
	}
	return p
}
