package toolbox

import "runtime"

// Worker count bounds for batch conversion.
const (
	// MinWorkers ensures at least one conversion runs.
	MinWorkers = 1

	// MaxWorkers caps concurrent conversions; each holds a whole document
	// in memory.
	MaxWorkers = 16
)

// ResolveWorkers determines the batch concurrency.
// Priority: explicit workers > GOMAXPROCS (adjusted by automaxprocs for containers).
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return min(workers, MaxWorkers)
	}
	return max(MinWorkers, min(runtime.GOMAXPROCS(0), MaxWorkers))
}
