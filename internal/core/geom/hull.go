package geom

import "sort"

// ConvexHull returns the convex hull of pts in counter-clockwise order using
// the monotone chain algorithm. Fewer than three distinct, non-collinear
// points yield a hull with fewer than three vertices.
func ConvexHull(pts []Vector2) []Vector2 {
	if len(pts) < 3 {
		return append([]Vector2(nil), pts...)
	}

	sorted := append([]Vector2(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]Vector2, 0, 2*len(sorted))

	// Lower hull
	for _, p := range sorted {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Upper hull
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Last point repeats the first
	return hull[:len(hull)-1]
}

func turn(o, a, b Vector2) float64 {
	return a.Sub(o).Cross(b.Sub(o))
}

// Outline turns a closed polygon into its edge segments.
func Outline(poly []Vector2) []Segment {
	if len(poly) < 3 {
		return nil
	}
	segs := make([]Segment, 0, len(poly))
	for i := range poly {
		segs = append(segs, Segment{A: poly[i], B: poly[(i+1)%len(poly)]})
	}
	return segs
}
