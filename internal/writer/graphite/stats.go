package graphite

import (
	"perfdatad/internal/global"
	dyn "perfdatad/internal/value"
)

// Per-writer statistics for the stats endpoint
func (graphite *Writer) Stats() (stats *dyn.Dictionary) {
	window := global.WorkQueueRateWindow
	rate := float64(graphite.queue.TaskCount(window)) / window.Seconds()

	stats = dyn.NewDictionary(
		dyn.Pair{Key: "connected", Val: dyn.NewBool(graphite.connected.Load())},
		dyn.Pair{Key: "work_queue_item_rate", Val: dyn.NewNumber(rate)},
		dyn.Pair{Key: "work_queue_items", Val: dyn.NewNumber(float64(graphite.queue.Length()))},
	)
	return
}
