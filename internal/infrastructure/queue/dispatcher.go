package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrQueueFull is returned by Send when the recipient's worker is saturated.
var ErrQueueFull = errors.New("notification queue full")

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("notification dispatcher closed")

// Dispatcher hands notifications to a fixed set of workers using consistent
// hashing on the recipient, so messages to one address keep their order.
// It implements ports.Notifier and delivers through the wrapped sink.
type Dispatcher struct {
	workers []chan domain.Notification
	sink    ports.Notifier
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Notification, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Close drains their queues.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Send enqueues n without blocking.
func (d *Dispatcher) Send(_ context.Context, n domain.Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		notificationsTotal.WithLabelValues(string(n.Purpose), resultDropped).Inc()
		return ErrClosed
	}
	select {
	case d.workers[d.shardIndex(n.Recipient)] <- n:
		return nil
	default:
		notificationsTotal.WithLabelValues(string(n.Purpose), resultDropped).Inc()
		return ErrQueueFull
	}
}

// Close stops accepting notifications and waits for queued ones to be
// delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Send(ctx, n); err != nil {
				notificationsTotal.WithLabelValues(string(n.Purpose), resultFailed).Inc()
				d.log.Error().Err(err).
					Str("recipient", n.Recipient).
					Str("purpose", string(n.Purpose)).
					Int("worker_id", id).
					Msg("notification delivery failed")
				continue
			}
			notificationsTotal.WithLabelValues(string(n.Purpose), resultSent).Inc()
		}
	}
}
