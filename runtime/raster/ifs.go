package raster

// IFSStep applies one iteration of the canonical Barnsley-fern affine
// system (spec.md §4.H) given a uniform draw r in [0, 100). The
// Transformation AST node is currently a parameterless marker per
// spec.md's open question (a); this is the hard-coded canonical fern.
func IFSStep(x, y float64, r int) (nextX, nextY float64) {
	switch {
	case r < 1:
		return 0, 0.16 * y
	case r < 86:
		return 0.85*x + 0.04*y, -0.04*x + 0.85*y + 1.6
	case r < 93:
		return 0.20*x - 0.26*y, 0.23*x + 0.22*y + 1.6
	default:
		return -0.15*x + 0.28*y, 0.26*x + 0.24*y + 0.44
	}
}
