package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/pkg/logger"
)

const (
	// Debounce window - collect events for the same seller within this duration
	debounceWindow = 1 * time.Second

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// ReviewEvent represents a review event from NATS
type ReviewEvent struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	SellerID  uuid.UUID `json:"seller_id"`
	ReviewID  uuid.UUID `json:"review_id"`
}

// RatingWorker processes review events and refreshes seller rating
// summaries asynchronously
type RatingWorker struct {
	calculator *Calculator
	logger     *logger.Logger

	// Debouncing state
	mu             sync.Mutex
	pendingUpdates map[uuid.UUID]*pendingUpdate
	shutdownCh     chan struct{}
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
}

type pendingUpdate struct {
	sellerID  uuid.UUID
	timestamp time.Time
	timer     *time.Timer
}

// NewRatingWorker creates a new rating worker
func NewRatingWorker(calculator *Calculator, logger *logger.Logger) *RatingWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &RatingWorker{
		calculator:     calculator,
		logger:         logger,
		pendingUpdates: make(map[uuid.UUID]*pendingUpdate),
		shutdownCh:     make(chan struct{}),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// HandleEvent processes a review event
func (w *RatingWorker) HandleEvent(data []byte) error {
	var event ReviewEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.Error("Failed to unmarshal review event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	w.logger.WithFields(map[string]any{
		"event_type": event.EventType,
		"seller_id":  event.SellerID.String(),
		"timestamp":  event.Timestamp,
	}).Info("Received review event")

	// Schedule the recompute with debouncing
	w.scheduleUpdate(event.SellerID, event.Timestamp)

	return nil
}

// scheduleUpdate implements debouncing logic.
// Multiple events for the same seller within the debounce window collapse
// into a single recomputation.
func (w *RatingWorker) scheduleUpdate(sellerID uuid.UUID, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Check if already shutting down
	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	existing, found := w.pendingUpdates[sellerID]

	if found {
		// Ignore stale events
		if timestamp.Before(existing.timestamp) {
			w.logger.WithFields(map[string]any{
				"seller_id":   sellerID.String(),
				"existing_ts": existing.timestamp,
				"event_ts":    timestamp,
			}).Debug("Ignoring stale event")
			return
		}

		existing.timer.Stop()
		w.logger.WithFields(map[string]any{
			"seller_id": sellerID.String(),
		}).Debug("Debouncing: resetting timer for seller")
	} else {
		// New seller, increment wait group
		w.wg.Add(1)
	}

	timer := time.AfterFunc(debounceWindow, func() {
		w.processUpdate(sellerID)
	})

	w.pendingUpdates[sellerID] = &pendingUpdate{
		sellerID:  sellerID,
		timestamp: timestamp,
		timer:     timer,
	}
}

// processUpdate executes the recomputation with retry logic
func (w *RatingWorker) processUpdate(sellerID uuid.UUID) {
	defer w.wg.Done()

	w.mu.Lock()
	delete(w.pendingUpdates, sellerID)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"seller_id": sellerID.String(),
	}).Info("Processing seller rating update")

	// Retry loop with exponential backoff
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]any{
				"seller_id":  sellerID.String(),
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying seller rating update")

			select {
			case <-time.After(backoff):
				// Continue with retry
			case <-w.ctx.Done():
				w.logger.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(w.ctx, 5*time.Second)
		err := w.calculator.RecomputeAll(ctx, sellerID)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		w.logger.WithFields(map[string]any{
			"seller_id": sellerID.String(),
			"attempt":   attempt + 1,
		}).Error("Failed to update seller rating", err)
	}

	// All retries exhausted
	w.logger.WithFields(map[string]any{
		"seller_id":   sellerID.String(),
		"max_retries": maxRetries,
	}).Error("Seller rating update failed after all retries", lastErr)
}

// Shutdown gracefully shuts down the worker.
// Cancels pending timers and waits for in-flight updates to complete.
func (w *RatingWorker) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down rating worker...")

	// Signal shutdown to prevent new updates
	close(w.shutdownCh)

	// Cancel context to stop retries
	w.cancel()

	// Cancel all pending timers
	w.mu.Lock()
	pendingCount := len(w.pendingUpdates)
	for _, update := range w.pendingUpdates {
		// Stop reports false when the timer already fired; that update is
		// in flight and will call wg.Done itself
		if update.timer.Stop() {
			w.wg.Done()
		}
	}
	w.pendingUpdates = make(map[uuid.UUID]*pendingUpdate)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"cancelled_updates": pendingCount,
	}).Info("Cancelled pending updates")

	// Wait for in-flight updates to complete or context timeout
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("All in-flight updates completed")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

// GetPendingCount returns the number of pending updates (used for monitoring/testing)
func (w *RatingWorker) GetPendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pendingUpdates)
}
