package main

// InRange reports whether two points are strictly closer than r
func InRange(x1, y1, x2, y2, r float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx+dy*dy < r*r
}
