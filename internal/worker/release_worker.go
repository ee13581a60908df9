package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/internal/inventory"
	"github.com/harshWarbhe/revticket/internal/metrics"
	"github.com/harshWarbhe/revticket/internal/repository"
	"github.com/harshWarbhe/revticket/pkg/logger"
)

// ReleaseWorker drains the stuck seat queue, re-attempting releases
// that exhausted their inline retries. Tasks that fail again go back to
// the end of the queue.
type ReleaseWorker struct {
	queue     repository.ReleaseQueue
	inventory inventory.Inventory
	interval  time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// ReleaseWorkerConfig contains configuration for the release worker
type ReleaseWorkerConfig struct {
	// Interval between drain passes (default 10s)
	Interval time.Duration
}

// NewReleaseWorker creates a new release worker
func NewReleaseWorker(queue repository.ReleaseQueue, inv inventory.Inventory, cfg *ReleaseWorkerConfig) *ReleaseWorker {
	interval := 10 * time.Second
	if cfg != nil && cfg.Interval > 0 {
		interval = cfg.Interval
	}
	return &ReleaseWorker{
		queue:     queue,
		inventory: inv,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the drain loop until Stop is called or ctx is cancelled
func (w *ReleaseWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop signals the worker to stop and waits for the current pass to finish
func (w *ReleaseWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	<-w.doneCh
}

func (w *ReleaseWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	logger.Get().Info("release worker started",
		zap.Duration("interval", w.interval),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Get().Info("release worker stopping: context cancelled")
			return
		case <-w.stopCh:
			logger.Get().Info("release worker stopping")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain processes every task currently queued; each task is attempted
// once per pass so a poisoned task cannot block the loop
func (w *ReleaseWorker) drain(ctx context.Context) {
	depth, err := w.queue.Len(ctx)
	if err != nil {
		logger.Get().Warn("failed to read release queue depth", zap.Error(err))
		return
	}

	for i := int64(0); i < depth; i++ {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		default:
		}

		task, err := w.queue.Dequeue(ctx)
		if err != nil {
			logger.Get().Warn("failed to dequeue release task", zap.Error(err))
			return
		}
		if task == nil {
			return
		}

		w.process(ctx, task)
	}
}

func (w *ReleaseWorker) process(ctx context.Context, task *domain.ReleaseTask) {
	if err := w.inventory.Release(ctx, task.ShowtimeID, task.SeatIDs); err != nil {
		task.Attempts++
		logger.Get().Warn("queued seat release failed, requeueing",
			zap.String("booking_id", task.BookingID),
			zap.String("showtime_id", task.ShowtimeID),
			zap.Int("attempts", task.Attempts),
			zap.Error(err),
		)
		if qErr := w.queue.Enqueue(ctx, task); qErr != nil {
			logger.Get().Error("failed to requeue release task, seats may be stuck",
				zap.String("booking_id", task.BookingID),
				zap.Strings("seat_ids", task.SeatIDs),
				zap.Error(qErr),
			)
		}
		return
	}

	metrics.RecordStuckSeatDrained(ctx)
	logger.Get().Info("stuck seats released",
		zap.String("booking_id", task.BookingID),
		zap.String("showtime_id", task.ShowtimeID),
		zap.Strings("seat_ids", task.SeatIDs),
		zap.Int("attempts", task.Attempts),
	)
}
