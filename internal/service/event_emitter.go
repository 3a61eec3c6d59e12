package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/medbook/booking-engine/internal/event"
)

// Emitter decouples the booking transaction from event delivery: bookings
// enqueue, a single worker publishes. Publish failures are logged and never
// propagate back to the booking that produced the event.
type Emitter struct {
	publisher event.Publisher
	log       *zap.Logger
	events    chan event.BookingConfirmation
	done      chan struct{}

	published prometheus.Counter
	failed    prometheus.Counter
}

const defaultEmitBuffer = 1024

func NewEmitter(publisher event.Publisher, buffer int, log *zap.Logger) *Emitter {
	if buffer <= 0 {
		buffer = defaultEmitBuffer
	}
	e := &Emitter{
		publisher: publisher,
		log:       log,
		events:    make(chan event.BookingConfirmation, buffer),
		done:      make(chan struct{}),
	}
	go e.worker()
	return e
}

// WithMetrics attaches published/failed counters. Safe to skip in tests.
func (e *Emitter) WithMetrics(published, failed prometheus.Counter) *Emitter {
	e.published = published
	e.failed = failed
	return e
}

// EmitAsync enqueues an event for publication. If the buffer is full the
// event is dropped with a warning; delivery is best-effort by contract.
func (e *Emitter) EmitAsync(ev event.BookingConfirmation) {
	select {
	case e.events <- ev:
	default:
		e.log.Warn("event buffer full, dropping booking confirmation",
			zap.String("patient_email", ev.PatientEmail),
			zap.String("day", ev.ScheduleDay),
		)
	}
}

func (e *Emitter) Shutdown() {
	close(e.events)
	select {
	case <-e.done:
	case <-time.After(10 * time.Second):
		e.log.Warn("event emitter shutdown timed out; some confirmations may be lost")
	}
}

func (e *Emitter) worker() {
	defer close(e.done)
	for ev := range e.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := e.publisher.Publish(ctx, ev); err != nil {
			e.log.Error("failed to publish booking confirmation", zap.Error(err))
			if e.failed != nil {
				e.failed.Inc()
			}
		} else if e.published != nil {
			e.published.Inc()
		}
		cancel()
	}
}
