package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrControllerNotFound is returned by GetController for an unregistered objectID.
var ErrControllerNotFound = errors.New("AI controller not found")

// DefaultTickInterval is the simulation tick used when none is configured.
const DefaultTickInterval = 100 * time.Millisecond

// TickManager drives OnTick for every registered controller.
// Register and Unregister are safe to call while the loop runs; each
// controller is only ever ticked from the loop goroutine.
type TickManager struct {
	controllers     sync.Map // map[uint32]Controller keyed by objectID
	controllerCount atomic.Int32
	interval        time.Duration
	preTick         func(diff time.Duration)
	stopCh          chan struct{}
	stopOnce        sync.Once
}

// NewTickManager creates a tick manager that ticks every interval.
// A non-positive interval selects DefaultTickInterval.
func NewTickManager(interval time.Duration) *TickManager {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &TickManager{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// SetPreTick installs fn to run before controllers on every tick, with the
// same diff. The host uses it to advance swing and cast timers.
// Must be called before Start.
func (m *TickManager) SetPreTick(fn func(diff time.Duration)) {
	m.preTick = fn
}

// Interval returns the tick period.
func (m *TickManager) Interval() time.Duration {
	return m.interval
}

// Register attaches controller to objectID and starts it.
// A controller already registered for objectID is stopped and replaced.
func (m *TickManager) Register(objectID uint32, controller Controller) {
	if prev, loaded := m.controllers.Swap(objectID, controller); loaded {
		prev.(Controller).Stop()
	} else {
		m.controllerCount.Add(1)
	}
	controller.Start()

	slog.Debug("AI controller registered",
		"objectID", objectID,
		"ai", controller.Name())
}

// Unregister stops and detaches the controller for objectID.
func (m *TickManager) Unregister(objectID uint32) {
	value, ok := m.controllers.LoadAndDelete(objectID)
	if !ok {
		return
	}
	m.controllerCount.Add(-1)

	controller := value.(Controller)
	controller.Stop()

	slog.Debug("AI controller unregistered", "objectID", objectID)
}

// Start runs the tick loop until ctx is canceled or Stop is called.
// Each tick passes the measured wall time since the previous one.
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case now := <-ticker.C:
			diff := now.Sub(last)
			last = now
			m.Advance(diff)
		}
	}
}

// Stop ends the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Advance runs one tick with diff elapsed. Start calls it from the loop;
// tests and offline simulations call it directly.
func (m *TickManager) Advance(diff time.Duration) {
	if m.preTick != nil {
		m.preTick(diff)
	}

	count := 0
	m.controllers.Range(func(_, value any) bool {
		value.(Controller).OnTick(diff)
		count++
		return true
	})

	if count > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", count, "diff", diff)
	}
}

// Count returns the number of registered controllers.
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns the controller registered for objectID.
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	value, ok := m.controllers.Load(objectID)
	if !ok {
		return nil, fmt.Errorf("objectID %d: %w", objectID, ErrControllerNotFound)
	}
	return value.(Controller), nil
}
