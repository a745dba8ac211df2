package states

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/appstate-demo/internal/engine/input"
	"github.com/Faultbox/appstate-demo/internal/logger"
)

type entry struct {
	name     string
	state    State
	resident bool // Pause returned true when something was pushed on top
}

// Manager owns the registered states and the stack of active ones. The last
// active entry is the top; it alone receives input.
type Manager struct {
	registry map[string]State
	active   []entry
	gen      uint64 // bumped on every stack mutation
	shutdown bool
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{registry: make(map[string]State)}
}

// Register adds s under name without activating it.
func (m *Manager) Register(name string, s State) error {
	if _, exists := m.registry[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateState, name)
	}
	m.registry[name] = s
	return nil
}

// FindByName returns the registered state called name.
func (m *Manager) FindByName(name string) (State, bool) {
	s, ok := m.registry[name]
	return s, ok
}

func (m *Manager) lookup(name string) (State, error) {
	s, ok := m.registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	return s, nil
}

func (m *Manager) isActive(name string) bool {
	return slices.ContainsFunc(m.active, func(e entry) bool { return e.name == name })
}

// Start activates the first state.
func (m *Manager) Start(name string) error {
	if len(m.active) > 0 {
		return ErrAlreadyStarted
	}
	s, err := m.lookup(name)
	if err != nil {
		return err
	}
	logger.Info("starting state manager", zap.String("state", name))
	return m.enter(name, s)
}

// Push pauses the top and enters the named state above it.
func (m *Manager) Push(name string) error {
	s, err := m.lookup(name)
	if err != nil {
		return err
	}
	if len(m.active) == 0 {
		return ErrEmptyStack
	}
	if m.isActive(name) {
		return fmt.Errorf("%w: %q", ErrAlreadyActive, name)
	}

	top := &m.active[len(m.active)-1]
	top.resident = top.state.Pause()
	logger.Debug("paused state", zap.String("state", top.name), zap.Bool("resident", top.resident))

	return m.enter(name, s)
}

// Pop exits the top. The state below, if any, is resumed; an emptied stack
// ends the application.
func (m *Manager) Pop() error {
	if len(m.active) == 0 {
		return ErrEmptyStack
	}
	if err := m.exitTop(); err != nil {
		return err
	}
	if len(m.active) == 0 {
		logger.Info("state stack empty")
		return nil
	}

	top := &m.active[len(m.active)-1]
	top.resident = false
	logger.Debug("resuming state", zap.String("state", top.name))
	if err := top.state.Resume(); err != nil {
		return fmt.Errorf("resuming %s: %w", top.name, err)
	}
	return nil
}

// ChangeState replaces the top with the named state. Neither Pause nor
// Resume is called.
func (m *Manager) ChangeState(name string) error {
	s, err := m.lookup(name)
	if err != nil {
		return err
	}
	if len(m.active) == 0 {
		return ErrEmptyStack
	}
	if slices.ContainsFunc(m.active[:len(m.active)-1], func(e entry) bool { return e.name == name }) {
		return fmt.Errorf("%w: %q", ErrAlreadyActive, name)
	}

	if err := m.exitTop(); err != nil {
		return err
	}
	return m.enter(name, s)
}

// PopAllAndPush exits every active state, top first, then enters the named
// state on the empty stack.
func (m *Manager) PopAllAndPush(name string) error {
	s, err := m.lookup(name)
	if err != nil {
		return err
	}
	for len(m.active) > 0 {
		if err := m.exitTop(); err != nil {
			return err
		}
	}
	return m.enter(name, s)
}

// Shutdown ends the application at the next Done check. Active states stay
// on the stack until Close.
func (m *Manager) Shutdown() {
	logger.Info("state manager shutdown requested")
	m.shutdown = true
}

// Done reports whether the frame loop should stop.
func (m *Manager) Done() bool {
	return m.shutdown || len(m.active) == 0
}

// Active returns the active state names, bottom first.
func (m *Manager) Active() []string {
	names := make([]string, len(m.active))
	for i, e := range m.active {
		names[i] = e.name
	}
	return names
}

// Top returns the active top state, or nil.
func (m *Manager) Top() State {
	if len(m.active) == 0 {
		return nil
	}
	return m.active[len(m.active)-1].state
}

func (m *Manager) enter(name string, s State) error {
	m.active = append(m.active, entry{name: name, state: s})
	m.gen++
	logger.Debug("entering state", zap.String("state", name), zap.Int("depth", len(m.active)))
	if err := s.Enter(); err != nil {
		return fmt.Errorf("entering %s: %w", name, err)
	}
	return nil
}

func (m *Manager) exitTop() error {
	top := m.active[len(m.active)-1]
	m.active = m.active[:len(m.active)-1]
	m.gen++
	logger.Debug("leaving state", zap.String("state", top.name), zap.Int("depth", len(m.active)))
	if err := top.state.Exit(); err != nil {
		return fmt.Errorf("exiting %s: %w", top.name, err)
	}
	return nil
}

// Update advances the top and, walking down, every resident state beneath
// it. The walk stops at the first suspended state, or as soon as an update
// changes the stack.
func (m *Manager) Update(dt float64) error {
	snapshot := slices.Clone(m.active)
	gen := m.gen
	for i := len(snapshot) - 1; i >= 0; i-- {
		e := snapshot[i]
		if i < len(snapshot)-1 && !e.resident {
			break
		}
		if err := e.state.Update(dt); err != nil {
			return fmt.Errorf("updating %s: %w", e.name, err)
		}
		if m.gen != gen {
			break
		}
	}
	return nil
}

// Close exits every active state, top first, and drops the registry.
func (m *Manager) Close() error {
	var errs []error
	for len(m.active) > 0 {
		if err := m.exitTop(); err != nil {
			errs = append(errs, err)
		}
	}
	clear(m.registry)
	return errors.Join(errs...)
}

// KeyPressed forwards to the top state.
func (m *Manager) KeyPressed(e input.KeyEvent) bool {
	if top := m.Top(); top != nil {
		return top.KeyPressed(e)
	}
	return false
}

// KeyReleased forwards to the top state.
func (m *Manager) KeyReleased(e input.KeyEvent) bool {
	if top := m.Top(); top != nil {
		return top.KeyReleased(e)
	}
	return false
}

// MouseMoved forwards to the top state.
func (m *Manager) MouseMoved(e input.MouseEvent) bool {
	if top := m.Top(); top != nil {
		return top.MouseMoved(e)
	}
	return false
}

// MousePressed forwards to the top state.
func (m *Manager) MousePressed(e input.MouseEvent, b input.MouseButton) bool {
	if top := m.Top(); top != nil {
		return top.MousePressed(e, b)
	}
	return false
}

// MouseReleased forwards to the top state.
func (m *Manager) MouseReleased(e input.MouseEvent, b input.MouseButton) bool {
	if top := m.Top(); top != nil {
		return top.MouseReleased(e, b)
	}
	return false
}
