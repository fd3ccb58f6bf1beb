package context

import "time"

// nanoSeed reads the wall clock once; isolated in its own function so
// WithSeed-based tests never depend on real time.
func nanoSeed() int64 {
	return time.Now().UnixNano()
}
