// Package states implements the application state stack and the demo's
// menu, game and pause states.
package states

import (
	"errors"

	"github.com/Faultbox/appstate-demo/internal/engine/input"
)

// Contract violations reported by the Manager.
var (
	ErrUnknownState   = errors.New("states: unknown state")
	ErrDuplicateState = errors.New("states: state already registered")
	ErrEmptyStack     = errors.New("states: no active state")
	ErrAlreadyStarted = errors.New("states: manager already started")
	ErrAlreadyActive  = errors.New("states: state already active")
)

// State represents one application mode (menu, game, pause).
type State interface {
	input.Listener

	// Enter acquires everything the state needs. It is called each time the
	// state is pushed and must work again after Exit.
	Enter() error

	// Exit releases everything Enter acquired.
	Exit() error

	// Pause is called when another state is pushed on top. Returning true
	// keeps the state resident: it is still updated beneath the new top.
	Pause() bool

	// Resume is called when the state becomes the top again.
	Resume() error

	// Update advances the state by dt seconds.
	Update(dt float64) error
}
