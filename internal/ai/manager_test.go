package ai

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingController counts lifecycle calls and ticks.
type recordingController struct {
	NullAI

	mu      sync.Mutex
	started int
	stopped int
	diffs   []time.Duration
}

func (c *recordingController) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started++
}

func (c *recordingController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped++
}

func (c *recordingController) OnTick(diff time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diffs = append(c.diffs, diff)
}

func (c *recordingController) ticks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diffs)
}

func TestTickManager_RegisterUnregister(t *testing.T) {
	mgr := NewTickManager(0)
	assert.Equal(t, DefaultTickInterval, mgr.Interval())

	ctrl := &recordingController{}
	mgr.Register(1, ctrl)

	assert.Equal(t, 1, mgr.Count())
	assert.Equal(t, 1, ctrl.started)

	got, err := mgr.GetController(1)
	require.NoError(t, err)
	assert.Same(t, ctrl, got)

	mgr.Unregister(1)
	mgr.Unregister(1)

	assert.Equal(t, 0, mgr.Count())
	assert.Equal(t, 1, ctrl.stopped)

	_, err = mgr.GetController(1)
	assert.ErrorIs(t, err, ErrControllerNotFound)
}

func TestTickManager_RegisterReplaces(t *testing.T) {
	mgr := NewTickManager(time.Second)
	first := &recordingController{}
	second := &recordingController{}

	mgr.Register(1, first)
	mgr.Register(1, second)

	assert.Equal(t, 1, mgr.Count())
	assert.Equal(t, 1, first.stopped)
	assert.Equal(t, 1, second.started)
}

func TestTickManager_AdvanceRunsPreTickFirst(t *testing.T) {
	mgr := NewTickManager(time.Second)
	ctrl := &recordingController{}
	mgr.Register(1, ctrl)

	var order []string
	mgr.SetPreTick(func(diff time.Duration) {
		order = append(order, "host")
		assert.Equal(t, 250*time.Millisecond, diff)
	})

	mgr.Advance(250 * time.Millisecond)
	order = append(order, "after")

	assert.Equal(t, []string{"host", "after"}, order)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, ctrl.diffs)
}

func TestTickManager_StartTicksUntilCanceled(t *testing.T) {
	mgr := NewTickManager(5 * time.Millisecond)
	ctrl := &recordingController{}
	mgr.Register(1, ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- mgr.Start(ctx) }()

	require.Eventually(t, func() bool { return ctrl.ticks() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	for _, d := range ctrl.diffs {
		assert.True(t, d > 0, "diff must be measured")
	}
}

func TestTickManager_Stop(t *testing.T) {
	mgr := NewTickManager(time.Hour)

	errCh := make(chan error, 1)
	go func() { errCh <- mgr.Start(context.Background()) }()

	mgr.Stop()
	mgr.Stop()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
