package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Prantik009/accusitions/internal/api/metrics"
	"github.com/Prantik009/accusitions/internal/core/domain"
	"github.com/Prantik009/accusitions/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the email, so events for one account are recorded in order.
// Enqueue never blocks a request: when a worker channel is full the event is
// dropped and counted.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	service ports.AuditService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its email.
func (d *Dispatcher) Enqueue(event domain.AuthEvent) {
	idx := d.shardIndex(event.Email)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().
			Str("event", string(event.Type)).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))

			start := time.Now()
			if err := d.service.Record(ctx, event); err != nil {
				metrics.AuditErrorsTotal.Inc()
				d.log.Error().Err(err).
					Str("event", string(event.Type)).
					Int("worker_id", id).
					Msg("audit event processing failed")
			}
			metrics.AuditProcessingDuration.Observe(time.Since(start).Seconds())
		}
	}
}
