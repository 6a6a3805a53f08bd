package search

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kapu/character-search-go/internal/domain"
	"go.uber.org/zap"
)

// Controller owns the mutable search state: the pending query, the current
// result list and the search generation. Each submitted search gets a fresh
// generation id; a completing search whose generation is older than the
// latest issued one is discarded, so a slow stale response can never
// overwrite newer results.
type Controller struct {
	orchestrator *Orchestrator
	debouncer    *Debouncer
	logger       *zap.Logger

	generation atomic.Int64

	mu      sync.Mutex
	pending domain.QuerySpec
	results []*domain.CharacterRecord

	// onUpdate, when set, runs after each accepted result set.
	onUpdate func([]*domain.CharacterRecord)
}

func NewController(orchestrator *Orchestrator, debouncer *Debouncer, initial domain.QuerySpec, logger *zap.Logger) *Controller {
	return &Controller{
		orchestrator: orchestrator,
		debouncer:    debouncer,
		logger:       logger,
		pending:      initial.Normalized(),
		results:      []*domain.CharacterRecord{},
	}
}

// OnUpdate registers a callback invoked with each accepted result list.
func (c *Controller) OnUpdate(fn func([]*domain.CharacterRecord)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = fn
}

// Submit applies a command to the pending query and schedules a search after
// the debounce quiet period. Rapid submissions coalesce into one search.
func (c *Controller) Submit(ctx context.Context, cmd Command) {
	c.mu.Lock()
	cmd.apply(&c.pending)
	c.mu.Unlock()

	c.debouncer.Trigger(func() {
		c.run(ctx)
	})
}

// SearchNow bypasses the debouncer and runs the pending query immediately.
func (c *Controller) SearchNow(ctx context.Context) []*domain.CharacterRecord {
	return c.run(ctx)
}

// Results returns the most recently accepted result list.
func (c *Controller) Results() []*domain.CharacterRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}

// Query returns a snapshot of the pending query.
func (c *Controller) Query() domain.QuerySpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Controller) run(ctx context.Context) []*domain.CharacterRecord {
	generation := c.generation.Add(1)

	c.mu.Lock()
	query := c.pending
	c.mu.Unlock()

	records := c.orchestrator.Search(ctx, query)

	// A newer search was issued while this one was in flight.
	if generation < c.generation.Load() {
		c.logger.Debug("Discarding stale search result",
			zap.Int64("generation", generation),
			zap.Int64("latest", c.generation.Load()),
		)
		return records
	}

	c.mu.Lock()
	c.results = records
	callback := c.onUpdate
	c.mu.Unlock()

	if callback != nil {
		callback(records)
	}

	return records
}

// Close stops any pending debounced search.
func (c *Controller) Close() {
	c.debouncer.Stop()
}
