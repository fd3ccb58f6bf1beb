package raster

// EscapeIterate runs z <- z^2 + c starting from (z0Re, z0Im) with the
// constant c = (cRe, cIm), stopping when |z|^2 > 4 or maxIter is
// reached (spec.md §4.I step 3). It returns the iteration count at
// stop and whether the orbit escaped (iter < maxIter).
func EscapeIterate(z0Re, z0Im, cRe, cIm float64, maxIter int) (iter int, escaped bool) {
	x, y := z0Re, z0Im
	for iter = 0; x*x+y*y <= 4 && iter < maxIter; iter++ {
		xTemp := x*x - y*y + cRe
		y = 2*x*y + cIm
		x = xTemp
	}
	return iter, iter < maxIter
}
