package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sink consumes alert events (file, webhook, etc.).
type Sink interface {
	Name() string
	Deliver(context.Context, *Event) error
	Close(context.Context) error
}

// Emitter buffers and delivers alert events to sinks. Emit never
// blocks: when the queue is full the event is dropped and counted.
type Emitter struct {
	queue           chan *Event
	sinks           []Sink
	logger          *slog.Logger
	shutdownTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	statsMu  sync.Mutex
	enqueued uint64
	dropped  uint64
}

// EmitterConfig controls queue and worker sizing.
type EmitterConfig struct {
	QueueSize       int
	Workers         int
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// NewEmitter starts background workers delivering to the given sinks.
func NewEmitter(cfg EmitterConfig, sinks []Sink) *Emitter {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Emitter{
		queue:           make(chan *Event, queueSize),
		sinks:           sinks,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
	return e
}

// Emit enqueues an event without blocking the caller.
func (e *Emitter) Emit(ev *Event) {
	if e == nil || ev == nil {
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		e.count(&e.dropped)
		return
	}

	select {
	case e.queue <- ev:
		e.count(&e.enqueued)
	default:
		e.count(&e.dropped)
	}
}

// Stats returns the enqueued and dropped counters.
func (e *Emitter) Stats() (enqueued, dropped uint64) {
	if e == nil {
		return 0, 0
	}
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.enqueued, e.dropped
}

// Close stops accepting events and waits briefly for the queue to drain.
func (e *Emitter) Close(ctx context.Context) {
	if e == nil {
		return
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	waitCtx, cancel := context.WithTimeout(ctx, e.shutdownTimeout)
	defer cancel()

	select {
	case <-done:
	case <-waitCtx.Done():
	}

	for _, s := range e.sinks {
		if err := s.Close(waitCtx); err != nil {
			e.logger.Warn("alert sink close failed", "sink", s.Name(), "error", err)
		}
	}
}

func (e *Emitter) count(c *uint64) {
	e.statsMu.Lock()
	*c++
	e.statsMu.Unlock()
}

func (e *Emitter) worker() {
	defer e.wg.Done()
	for ev := range e.queue {
		for _, s := range e.sinks {
			if err := s.Deliver(context.Background(), ev); err != nil {
				e.logger.Warn("alert delivery failed", "sink", s.Name(), "error", err)
			}
		}
	}
}
