package states

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/appstate-demo/internal/engine/input"
)

type callLog []string

type fakeState struct {
	name     string
	log      *callLog
	resident bool
	calls    map[string]int
	onUpdate func() error
	enterErr error
	exitErr  error
}

func newFake(name string, log *callLog, resident bool) *fakeState {
	return &fakeState{name: name, log: log, resident: resident, calls: make(map[string]int)}
}

func (f *fakeState) record(call string) {
	f.calls[call]++
	*f.log = append(*f.log, f.name+"."+call)
}

func (f *fakeState) Enter() error { f.record("enter"); return f.enterErr }
func (f *fakeState) Exit() error  { f.record("exit"); return f.exitErr }
func (f *fakeState) Pause() bool  { f.record("pause"); return f.resident }
func (f *fakeState) Resume() error {
	f.record("resume")
	return nil
}

func (f *fakeState) Update(dt float64) error {
	f.record("update")
	if f.onUpdate != nil {
		return f.onUpdate()
	}
	return nil
}

func (f *fakeState) KeyPressed(input.KeyEvent) bool {
	f.record("key")
	return true
}

func (f *fakeState) KeyReleased(input.KeyEvent) bool {
	f.record("keyup")
	return true
}

func (f *fakeState) MouseMoved(input.MouseEvent) bool {
	f.record("move")
	return true
}

func (f *fakeState) MousePressed(input.MouseEvent, input.MouseButton) bool {
	f.record("down")
	return true
}

func (f *fakeState) MouseReleased(input.MouseEvent, input.MouseButton) bool {
	f.record("up")
	return true
}

type fixture struct {
	m                 *Manager
	log               *callLog
	menu, game, pause *fakeState
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := &callLog{}
	fx := &fixture{
		m:     NewManager(),
		log:   log,
		menu:  newFake("Menu", log, false),
		game:  newFake("Game", log, true),
		pause: newFake("Pause", log, false),
	}
	require.NoError(t, fx.m.Register("Menu", fx.menu))
	require.NoError(t, fx.m.Register("Game", fx.game))
	require.NoError(t, fx.m.Register("Pause", fx.pause))
	return fx
}

func (fx *fixture) reset() { *fx.log = nil }

func TestRegister(t *testing.T) {
	fx := newFixture(t)

	err := fx.m.Register("Menu", fx.menu)
	assert.ErrorIs(t, err, ErrDuplicateState)

	s, ok := fx.m.FindByName("Game")
	assert.True(t, ok)
	assert.Same(t, fx.game, s)

	_, ok = fx.m.FindByName("Nope")
	assert.False(t, ok)

	assert.Empty(t, fx.m.Active(), "registering does not activate")
	assert.True(t, fx.m.Done())
}

func TestDemoScenario(t *testing.T) {
	fx := newFixture(t)

	require.NoError(t, fx.m.Start("Menu"))
	assert.Equal(t, []string{"Menu"}, fx.m.Active())
	assert.False(t, fx.m.Done())

	fx.reset()
	require.NoError(t, fx.m.ChangeState("Game"))
	assert.Equal(t, []string{"Game"}, fx.m.Active())
	assert.Equal(t, callLog{"Menu.exit", "Game.enter"}, *fx.log)

	fx.reset()
	require.NoError(t, fx.m.Push("Pause"))
	assert.Equal(t, []string{"Game", "Pause"}, fx.m.Active())
	assert.Equal(t, callLog{"Game.pause", "Pause.enter"}, *fx.log)

	// Game stays resident beneath the pause overlay.
	fx.reset()
	require.NoError(t, fx.m.Update(0.016))
	assert.Equal(t, callLog{"Pause.update", "Game.update"}, *fx.log)

	fx.reset()
	require.NoError(t, fx.m.Pop())
	assert.Equal(t, []string{"Game"}, fx.m.Active())
	assert.Equal(t, callLog{"Pause.exit", "Game.resume"}, *fx.log)
	assert.Equal(t, 1, fx.pause.calls["exit"])
	assert.Equal(t, 1, fx.game.calls["resume"])

	require.NoError(t, fx.m.Pop())
	assert.Empty(t, fx.m.Active())
	assert.True(t, fx.m.Done(), "popping the last state ends the loop")
}

func TestStartPreconditions(t *testing.T) {
	fx := newFixture(t)

	assert.ErrorIs(t, fx.m.Start("Nope"), ErrUnknownState)
	require.NoError(t, fx.m.Start("Menu"))
	assert.ErrorIs(t, fx.m.Start("Game"), ErrAlreadyStarted)
}

func TestOperationsOnEmptyStack(t *testing.T) {
	fx := newFixture(t)

	assert.ErrorIs(t, fx.m.Pop(), ErrEmptyStack)
	assert.ErrorIs(t, fx.m.Push("Game"), ErrEmptyStack)
	assert.ErrorIs(t, fx.m.ChangeState("Game"), ErrEmptyStack)
	assert.Empty(t, *fx.log)

	assert.False(t, fx.m.KeyPressed(input.KeyEvent{Key: input.KeyEscape}))
	assert.False(t, fx.m.MouseMoved(input.MouseEvent{}))
	assert.NoError(t, fx.m.Update(1))
}

func TestUnknownNames(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Menu"))
	fx.reset()

	assert.ErrorIs(t, fx.m.Push("Nope"), ErrUnknownState)
	assert.ErrorIs(t, fx.m.ChangeState("Nope"), ErrUnknownState)
	assert.ErrorIs(t, fx.m.PopAllAndPush("Nope"), ErrUnknownState)
	assert.Empty(t, *fx.log, "a bad name must not touch the stack")
	assert.Equal(t, []string{"Menu"}, fx.m.Active())
}

func TestAlreadyActive(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Game"))
	require.NoError(t, fx.m.Push("Pause"))

	assert.ErrorIs(t, fx.m.Push("Game"), ErrAlreadyActive)
	assert.ErrorIs(t, fx.m.Push("Pause"), ErrAlreadyActive)
	assert.ErrorIs(t, fx.m.ChangeState("Game"), ErrAlreadyActive)

	// Replacing the top with itself re-enters it.
	fx.reset()
	require.NoError(t, fx.m.ChangeState("Pause"))
	assert.Equal(t, callLog{"Pause.exit", "Pause.enter"}, *fx.log)
}

func TestPushPopRestoresPreviousTop(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Menu"))
	require.NoError(t, fx.m.Push("Game"))
	require.NoError(t, fx.m.Pop())

	assert.Equal(t, []string{"Menu"}, fx.m.Active())
	assert.Same(t, fx.menu, fx.m.Top())
	assert.Equal(t, 1, fx.menu.calls["resume"])
	assert.Equal(t, 1, fx.game.calls["exit"])
}

func TestChangeStateNeverPausesOrResumes(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Menu"))
	require.NoError(t, fx.m.Push("Game"))
	fx.reset()

	require.NoError(t, fx.m.ChangeState("Pause"))
	assert.Equal(t, callLog{"Game.exit", "Pause.enter"}, *fx.log)
	assert.Equal(t, []string{"Menu", "Pause"}, fx.m.Active())
	assert.Zero(t, fx.menu.calls["resume"])
}

func TestUpdateFanOut(t *testing.T) {
	tests := []struct {
		name      string
		residentA bool
		residentB bool
		want      callLog
	}{
		{"all resident", true, true, callLog{"C.update", "B.update", "A.update"}},
		{"A suspended beneath B", false, true, callLog{"C.update", "B.update"}},
		{"B suspended", true, false, callLog{"C.update"}},
		{"none resident", false, false, callLog{"C.update"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &callLog{}
			m := NewManager()
			require.NoError(t, m.Register("A", newFake("A", log, tt.residentA)))
			require.NoError(t, m.Register("B", newFake("B", log, tt.residentB)))
			require.NoError(t, m.Register("C", newFake("C", log, false)))
			require.NoError(t, m.Start("A"))
			require.NoError(t, m.Push("B"))
			require.NoError(t, m.Push("C"))

			*log = nil
			require.NoError(t, m.Update(0.02))
			assert.Equal(t, tt.want, *log)
		})
	}
}

func TestUpdateStopsWhenStackChanges(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Game"))
	require.NoError(t, fx.m.Push("Pause"))

	fx.pause.onUpdate = func() error { return fx.m.Pop() }
	fx.reset()
	require.NoError(t, fx.m.Update(0.02))

	// Game was resumed by the pop; it is not updated again this frame.
	assert.Equal(t, callLog{"Pause.update", "Pause.exit", "Game.resume"}, *fx.log)
	assert.Equal(t, []string{"Game"}, fx.m.Active())
}

func TestUpdatePopsSelfToEmpty(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Menu"))
	fx.menu.onUpdate = func() error { return fx.m.Pop() }

	require.NoError(t, fx.m.Update(0.02))
	assert.True(t, fx.m.Done())
	assert.Equal(t, 1, fx.menu.calls["exit"])
}

func TestUpdateError(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Menu"))
	boom := errors.New("boom")
	fx.menu.onUpdate = func() error { return boom }

	err := fx.m.Update(0.02)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Menu")
}

func TestInputGoesToTopOnly(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Game"))
	require.NoError(t, fx.m.Push("Pause"))
	fx.reset()

	ev := input.MouseEvent{X: 1, Y: 2}
	assert.True(t, fx.m.KeyPressed(input.KeyEvent{Key: input.KeyEscape}))
	assert.True(t, fx.m.KeyReleased(input.KeyEvent{Key: input.KeyEscape}))
	assert.True(t, fx.m.MouseMoved(ev))
	assert.True(t, fx.m.MousePressed(ev, input.MouseLeft))
	assert.True(t, fx.m.MouseReleased(ev, input.MouseLeft))

	assert.Equal(t, callLog{"Pause.key", "Pause.keyup", "Pause.move", "Pause.down", "Pause.up"}, *fx.log)
	assert.Zero(t, fx.game.calls["key"])
}

func TestPopAllAndPush(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Game"))
	require.NoError(t, fx.m.Push("Pause"))
	fx.reset()

	require.NoError(t, fx.m.PopAllAndPush("Menu"))
	assert.Equal(t, callLog{"Pause.exit", "Game.exit", "Menu.enter"}, *fx.log)
	assert.Equal(t, []string{"Menu"}, fx.m.Active())
	assert.Zero(t, fx.game.calls["resume"])
}

func TestShutdown(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Game"))
	require.NoError(t, fx.m.Push("Pause"))

	fx.m.Shutdown()
	assert.True(t, fx.m.Done())
	assert.Equal(t, []string{"Game", "Pause"}, fx.m.Active(), "shutdown leaves teardown to Close")

	fx.reset()
	require.NoError(t, fx.m.Close())
	assert.Equal(t, callLog{"Pause.exit", "Game.exit"}, *fx.log)
	_, ok := fx.m.FindByName("Game")
	assert.False(t, ok)
}

func TestCloseJoinsExitErrors(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.m.Start("Game"))
	require.NoError(t, fx.m.Push("Pause"))
	fx.game.exitErr = errors.New("game exit")
	fx.pause.exitErr = errors.New("pause exit")

	err := fx.m.Close()
	assert.ErrorIs(t, err, fx.game.exitErr)
	assert.ErrorIs(t, err, fx.pause.exitErr)
	assert.Empty(t, fx.m.Active())
}

func TestEnterError(t *testing.T) {
	fx := newFixture(t)
	fx.menu.enterErr = errors.New("no scene")

	err := fx.m.Start("Menu")
	assert.ErrorIs(t, err, fx.menu.enterErr)
}

// TestRandomSequences drives random push/pop/change sequences and checks the
// stack invariants after every step.
func TestRandomSequences(t *testing.T) {
	names := []string{"S0", "S1", "S2", "S3", "S4"}

	for seed := int64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			log := &callLog{}
			m := NewManager()
			fakes := map[string]*fakeState{}
			for _, n := range names {
				fakes[n] = newFake(n, log, rng.Intn(2) == 0)
				require.NoError(t, m.Register(n, fakes[n]))
			}
			require.NoError(t, m.Start(names[0]))
			depth := 1

			for step := 0; step < 50 && depth > 0; step++ {
				name := names[rng.Intn(len(names))]
				switch rng.Intn(3) {
				case 0:
					if err := m.Push(name); err == nil {
						depth++
					} else {
						require.ErrorIs(t, err, ErrAlreadyActive)
					}
				case 1:
					require.NoError(t, m.Pop())
					depth--
				case 2:
					if err := m.ChangeState(name); err != nil {
						require.ErrorIs(t, err, ErrAlreadyActive)
					}
				}

				active := m.Active()
				require.Len(t, active, depth, "net depth is pushes minus pops")
				seen := map[string]bool{}
				for _, n := range active {
					_, ok := m.FindByName(n)
					require.True(t, ok, "active state %s is registered", n)
					require.False(t, seen[n], "state %s active twice", n)
					seen[n] = true
				}
				require.Equal(t, depth == 0, m.Done())
			}

			// Every state that was entered and is no longer active was exited
			// exactly as many times as it was entered.
			require.NoError(t, m.Close())
			for n, f := range fakes {
				assert.Equal(t, f.calls["enter"], f.calls["exit"], "state %s", n)
			}
		})
	}
}
