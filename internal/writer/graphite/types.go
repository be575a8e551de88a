package graphite

import (
	"context"
	"sync"
	"sync/atomic"

	"perfdatad/internal/network"
	"perfdatad/internal/timer"
	"perfdatad/internal/workqueue"
	"perfdatad/internal/writer"
)

// Ships check results to a Graphite carbon endpoint as plaintext lines. All
// stream mutation happens on the work queue worker; producers only enqueue.
type Writer struct {
	writer.Lifecycle

	ctx context.Context

	host            string
	port            uint16
	hostTemplate    string
	serviceTemplate string
	sendThresholds  bool
	sendMetadata    bool

	dial  network.DialFunc
	queue *workqueue.Queue

	reconnectTimer *timer.Timer
	subscribeOnce  sync.Once

	// Guards stream; connected is readable without it
	streamMutex sync.Mutex
	stream      network.Stream
	connected   atomic.Bool

	shouldConnect atomic.Bool
}
