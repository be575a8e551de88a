package workqueue

import "github.com/pbnjay/memory"

const (
	minDepthCap = 1 << 10
	maxDepthCap = 1 << 20

	// Rough per-task footprint estimate used to bound queue memory
	estimatedTaskBytes = 4096
)

// Depth cap derived from free system memory: at most a quarter of it spent
// on queued tasks, clamped to a sane range
func DefaultMaxDepth() (depth int) {
	availMem := memory.FreeMemory()

	depth = int(availMem / 4 / estimatedTaskBytes)
	if depth < minDepthCap {
		depth = minDepthCap
	}
	if depth > maxDepthCap {
		depth = maxDepthCap
	}
	return
}
