package states

import (
	"go.uber.org/zap"

	"github.com/Faultbox/appstate-demo/internal/config"
	"github.com/Faultbox/appstate-demo/internal/engine/framework"
	"github.com/Faultbox/appstate-demo/internal/engine/input"
	"github.com/Faultbox/appstate-demo/internal/logger"
)

// Registered state names.
const (
	MenuStateName  = "MenuState"
	GameStateName  = "GameState"
	PauseStateName = "PauseState"
)

// base holds what every demo state shares.
type base struct {
	fw      *framework.Framework
	manager *Manager
	cfg     *config.Config

	// pending is a stack change requested from an input callback; it runs
	// at the start of the next Update.
	pending func() error
}

func (b *base) request(fn func() error) {
	b.pending = fn
}

// applyPending runs a queued stack change. It reports whether one ran.
func (b *base) applyPending() (bool, error) {
	if b.pending == nil {
		return false, nil
	}
	fn := b.pending
	b.pending = nil
	return true, fn()
}

func (b *base) playClick() {
	path := b.cfg.Audio.ClickSound
	if path == "" {
		return
	}
	if err := b.fw.Audio().PlaySFX(path); err != nil {
		logger.Warn("click sound failed", zap.String("path", path), zap.Error(err))
	}
}

// Mouse events go to the tray first in every state.

func (b *base) injectMove(e input.MouseEvent) bool {
	return b.fw.Tray().InjectMouseMove(float32(e.X), float32(e.Y))
}

func (b *base) injectDown(btn input.MouseButton) bool {
	return b.fw.Tray().InjectMouseDown(btn)
}

func (b *base) injectUp(btn input.MouseButton) bool {
	return b.fw.Tray().InjectMouseUp(btn)
}
