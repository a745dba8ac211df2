package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/appstate-demo/internal/config"
	"github.com/Faultbox/appstate-demo/internal/engine/framework"
	"github.com/Faultbox/appstate-demo/internal/engine/framework/frameworktest"
	"github.com/Faultbox/appstate-demo/internal/engine/input"
	"github.com/Faultbox/appstate-demo/internal/game/states"
)

// stepClock advances by the next step of the cycle on every reading.
type stepClock struct {
	t     time.Time
	steps []time.Duration
	n     int
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.steps[c.n%len(c.steps)])
	c.n++
	return c.t
}

func newTestGame(t *testing.T, cfg *config.Config, step time.Duration) (*Game, *frameworktest.Headless) {
	t.Helper()
	return newCycleGame(t, cfg, step)
}

// newCycleGame runs the game on a clock that cycles through steps.
func newCycleGame(t *testing.T, cfg *config.Config, steps ...time.Duration) (*Game, *frameworktest.Headless) {
	t.Helper()
	display := frameworktest.NewHeadless(800, 600)
	clock := &stepClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), steps: steps}
	fw, err := framework.New(framework.Options{
		Display:       display,
		ScreenshotDir: t.TempDir(),
		Clock:         clock.now,
	})
	require.NoError(t, err)

	g, err := NewWithFramework(fw, cfg)
	require.NoError(t, err)
	return g, display
}

// countingState records the frame times it was updated with and runs an
// optional hook on the n-th update.
type countingState struct {
	dts    []float64
	onN    int
	hook   func() error
	exited int
}

func (s *countingState) Enter() error { return nil }
func (s *countingState) Exit() error  { s.exited++; return nil }
func (s *countingState) Pause() bool  { return false }
func (s *countingState) Resume() error { return nil }

func (s *countingState) Update(dt float64) error {
	s.dts = append(s.dts, dt)
	if len(s.dts) == s.onN && s.hook != nil {
		return s.hook()
	}
	return nil
}

func (s *countingState) KeyPressed(input.KeyEvent) bool                         { return false }
func (s *countingState) KeyReleased(input.KeyEvent) bool                        { return false }
func (s *countingState) MouseMoved(input.MouseEvent) bool                       { return false }
func (s *countingState) MousePressed(input.MouseEvent, input.MouseButton) bool  { return false }
func (s *countingState) MouseReleased(input.MouseEvent, input.MouseButton) bool { return false }

// withCounter replaces the demo stack with a single counting state.
func withCounter(t *testing.T, g *Game, s *countingState) {
	t.Helper()
	require.NoError(t, g.manager.Close())
	g.manager = states.NewManager()
	require.NoError(t, g.manager.Register("Counter", s))
	require.NoError(t, g.manager.Start("Counter"))
}

func TestNewWithFrameworkStartsInitialState(t *testing.T) {
	cfg := config.Default()
	g, _ := newTestGame(t, cfg, time.Millisecond)
	assert.Equal(t, []string{states.MenuStateName}, g.Manager().Active())
	require.NoError(t, g.Close())

	cfg.Demo.InitialState = states.GameStateName
	g, _ = newTestGame(t, cfg, time.Millisecond)
	assert.Equal(t, []string{states.GameStateName}, g.Manager().Active())
	require.NoError(t, g.Close())
}

func TestNewWithFrameworkUnknownInitialState(t *testing.T) {
	cfg := config.Default()
	cfg.Demo.InitialState = "CreditsState"

	fw, err := framework.New(framework.Options{Display: frameworktest.NewHeadless(800, 600)})
	require.NoError(t, err)
	_, err = NewWithFramework(fw, cfg)
	assert.ErrorIs(t, err, states.ErrUnknownState)
}

func TestRunEndsWhenStackEmpties(t *testing.T) {
	g, display := newTestGame(t, config.Default(), time.Millisecond)
	display.QueueKey(input.KeyEscape)

	require.NoError(t, g.Run())
	assert.True(t, g.Manager().Done())
	assert.Empty(t, g.Manager().Active())
	assert.Zero(t, display.FrameCount(), "no frame is drawn once the stack is empty")

	require.NoError(t, g.Close())
	assert.True(t, display.Closed())
}

func TestRunStopsOnWindowClose(t *testing.T) {
	g, display := newTestGame(t, config.Default(), time.Millisecond)
	display.QueueClose()

	require.NoError(t, g.Run())
	assert.True(t, g.Framework().IsShuttingDown())
	assert.Equal(t, []string{states.MenuStateName}, g.Manager().Active())

	require.NoError(t, g.Close())
	assert.Empty(t, g.Manager().Active())
	assert.Nil(t, g.Framework().Root().Scene("MenuScene"))
}

func TestRunStopsOnShutdown(t *testing.T) {
	g, display := newTestGame(t, config.Default(), time.Millisecond)
	s := &countingState{onN: 3}
	s.hook = func() error {
		g.manager.Shutdown()
		return nil
	}
	withCounter(t, g, s)

	require.NoError(t, g.Run())
	assert.Len(t, s.dts, 3)
	assert.Equal(t, 2, display.FrameCount())

	require.NoError(t, g.Close())
	assert.Equal(t, 1, s.exited)
}

func TestRunSkipsShortFrames(t *testing.T) {
	cfg := config.Default()
	cfg.Demo.MinFrameDelta = 100 * time.Microsecond
	g, display := newTestGame(t, cfg, 30*time.Microsecond)

	s := &countingState{onN: 10}
	s.hook = func() error {
		g.manager.Shutdown()
		return nil
	}
	withCounter(t, g, s)

	require.NoError(t, g.Run())
	require.Len(t, s.dts, 10)
	for i, dt := range s.dts {
		assert.GreaterOrEqual(t, dt, 100e-6, "update %d got a short frame", i)
	}
	assert.Equal(t, 9, display.FrameCount())
}

func TestRunSkipsZeroFrames(t *testing.T) {
	cfg := config.Default()
	cfg.Demo.MinFrameDelta = 0
	// Three of every four clock readings see no time pass.
	g, display := newCycleGame(t, cfg, 0, 0, 0, time.Millisecond)

	s := &countingState{onN: 5}
	s.hook = func() error {
		g.manager.Shutdown()
		return nil
	}
	withCounter(t, g, s)

	require.NoError(t, g.Run())
	require.Len(t, s.dts, 5)
	for i, dt := range s.dts {
		assert.Greater(t, dt, 0.0, "update %d got a zero-length frame", i)
	}
	assert.Equal(t, 4, display.FrameCount())
}

func TestRunPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	g, _ := newTestGame(t, config.Default(), time.Millisecond)
	withCounter(t, g, &countingState{onN: 2, hook: func() error { return boom }})
	err := g.Run()
	assert.ErrorIs(t, err, boom)
	require.NoError(t, g.Close())

	g, display := newTestGame(t, config.Default(), time.Millisecond)
	display.RenderErr = boom
	err = g.Run()
	assert.ErrorIs(t, err, boom)
	require.NoError(t, g.Close())
}

func TestRunDemoRoundTrip(t *testing.T) {
	g, display := newTestGame(t, config.Default(), time.Millisecond)

	display.QueueKey(input.KeyReturn)
	g.Framework().PumpEvents(g.Manager())
	require.NoError(t, g.Manager().Update(0.016))
	assert.Equal(t, []string{states.GameStateName}, g.Manager().Active())

	display.QueueKey(input.KeyEscape)
	g.Framework().PumpEvents(g.Manager())
	require.NoError(t, g.Manager().Update(0.016))
	assert.Equal(t, []string{states.GameStateName, states.PauseStateName}, g.Manager().Active())

	g.Framework().RequestShutdown()
	require.NoError(t, g.Run())
	require.NoError(t, g.Close())
	assert.Empty(t, g.Manager().Active())
}
