package robot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRobot struct {
	mu        sync.Mutex
	running   bool
	statusErr error
	toggleErr error
	toggles   int
	gate      chan struct{}
}

func (f *fakeRobot) RobotStatus(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running, f.statusErr
}

func (f *fakeRobot) ToggleRobot(context.Context) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles++
	if f.toggleErr != nil {
		return f.toggleErr
	}
	f.running = !f.running
	return nil
}

func (f *fakeRobot) set(fn func(f *fakeRobot)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func TestInit_FailureMarksOffline(t *testing.T) {
	api := &fakeRobot{statusErr: errors.New("agent gone")}
	c := NewController(api)

	require.Error(t, c.Init(context.Background()))
	assert.Equal(t, MachineOffline, c.State().Machine)

	_, err := c.Toggle(context.Background())
	assert.ErrorIs(t, err, ErrOffline)
	assert.Zero(t, api.toggles)
}

func TestToggle_ConfirmsWithStatus(t *testing.T) {
	api := &fakeRobot{}
	c := NewController(api)
	require.NoError(t, c.Init(context.Background()))
	assert.False(t, c.State().Running)

	running, err := c.Toggle(context.Background())
	require.NoError(t, err)
	assert.True(t, running)
	assert.True(t, c.State().Running)

	running, err = c.Toggle(context.Background())
	require.NoError(t, err)
	assert.False(t, running)
}

func TestToggle_FailureKeepsState(t *testing.T) {
	api := &fakeRobot{running: true}
	c := NewController(api)
	require.NoError(t, c.Init(context.Background()))

	api.set(func(f *fakeRobot) { f.toggleErr = errors.New("nope") })
	_, err := c.Toggle(context.Background())
	require.Error(t, err)
	st := c.State()
	assert.True(t, st.Running)
	assert.NotEmpty(t, st.Error)
	assert.False(t, st.Busy)
}

func TestToggle_RejectsWhileBusy(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeRobot{gate: gate}
	c := NewController(api)
	require.NoError(t, c.Init(context.Background()))

	done := make(chan error, 1)
	go func() {
		_, err := c.Toggle(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return c.State().Busy }, time.Second, 5*time.Millisecond)

	_, err := c.Toggle(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(gate)
	require.NoError(t, <-done)
}

func TestPoll_RecoversAndKeepsLastStateOnError(t *testing.T) {
	api := &fakeRobot{statusErr: errors.New("down")}
	c := NewController(api)
	_ = c.Init(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Poll(ctx, 10*time.Millisecond, nil)

	api.set(func(f *fakeRobot) { f.statusErr = nil; f.running = true })
	require.Eventually(t, func() bool {
		st := c.State()
		return st.Machine == MachineOnline && st.Running
	}, time.Second, 5*time.Millisecond)

	api.set(func(f *fakeRobot) { f.statusErr = errors.New("blip"); f.running = false })
	time.Sleep(50 * time.Millisecond)
	st := c.State()
	assert.True(t, st.Running, "a failed poll keeps the last state")
	assert.Equal(t, MachineOnline, st.Machine)
}

func TestPoll_SkipsWhileInactive(t *testing.T) {
	api := &fakeRobot{running: true}
	c := NewController(api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Poll(ctx, 5*time.Millisecond, func() bool { return false })

	time.Sleep(40 * time.Millisecond)
	assert.False(t, c.State().Running)
	assert.True(t, c.State().CheckedAt.IsZero())
}
