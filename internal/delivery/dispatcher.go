// Package delivery hands issued login codes to a CodeSender in the
// background, retrying failed sends.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/metrics"
	"github.com/dtroode/codeauth-server/internal/model"
)

// ErrStopped is returned by Enqueue after Stop.
var ErrStopped = errors.New("delivery dispatcher stopped")

// Config controls the worker pool and retry policy.
type Config struct {
	Workers     int
	QueueSize   int
	MaxAttempts uint64
	RetryDelay  time.Duration
}

type job struct {
	email string
	code  string
}

// Dispatcher is a fixed pool of workers fed by a bounded queue.
type Dispatcher struct {
	sender model.CodeSender
	cfg    Config
	logger *logger.Logger

	queue chan job

	mu      sync.RWMutex
	stopped bool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

var _ model.CodeDelivery = (*Dispatcher)(nil)

func NewDispatcher(sender model.CodeSender, cfg Config, logger *logger.Logger) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Millisecond
	}

	return &Dispatcher{
		sender: sender,
		cfg:    cfg,
		logger: logger,
		queue:  make(chan job, cfg.QueueSize),
	}
}

// Start launches the workers. In-flight sends observe ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work(ctx, i)
	}

	d.logger.Info("Delivery dispatcher: started",
		"workers", d.cfg.Workers,
		"queue_size", d.cfg.QueueSize)
}

// Enqueue schedules a delivery without waiting for it. It fails with
// model.ErrQueueFull when the queue is at capacity.
func (d *Dispatcher) Enqueue(email, code string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- job{email: email, code: code}:
		return nil
	default:
		metrics.RecordDelivery(metrics.StatusDropped, 0)
		return model.ErrQueueFull
	}
}

// Stop refuses new jobs and waits for queued ones to drain. When ctx expires
// first, in-flight sends are cancelled and the remaining queue is dropped.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancelWorkers()
		d.logger.Info("Delivery dispatcher: stopped")
		return nil
	case <-ctx.Done():
		d.cancelWorkers()
		<-done
		d.logger.Error("Delivery dispatcher: stop deadline exceeded, pending deliveries dropped")
		return fmt.Errorf("failed to drain delivery queue: %w", ctx.Err())
	}
}

func (d *Dispatcher) cancelWorkers() {
	if d.cancel != nil {
		d.cancel()
	}
}

func (d *Dispatcher) work(ctx context.Context, id int) {
	defer d.wg.Done()

	for j := range d.queue {
		if ctx.Err() != nil {
			metrics.RecordDelivery(metrics.StatusDropped, 0)
			continue
		}
		d.deliver(ctx, id, j)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, worker int, j job) {
	start := time.Now()
	attempt := 0

	backoff := retry.WithMaxRetries(d.cfg.MaxAttempts-1, retry.NewConstant(d.cfg.RetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := d.sender.Send(ctx, j.email, j.code); err != nil {
			d.logger.Warn("Delivery dispatcher: send attempt failed",
				"worker", worker,
				"email", j.email,
				"attempt", attempt,
				"error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		metrics.RecordDelivery(metrics.StatusFailed, time.Since(start))
		d.logger.Error("Delivery dispatcher: giving up on delivery",
			"worker", worker,
			"email", j.email,
			"attempts", attempt,
			"error", err.Error())
		return
	}

	metrics.RecordDelivery(metrics.StatusDelivered, time.Since(start))
	d.logger.Debug("Delivery dispatcher: code delivered",
		"worker", worker,
		"email", j.email,
		"attempts", attempt)
}
