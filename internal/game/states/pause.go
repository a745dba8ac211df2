package states

import (
	"github.com/Faultbox/appstate-demo/internal/config"
	"github.com/Faultbox/appstate-demo/internal/engine/framework"
	"github.com/Faultbox/appstate-demo/internal/engine/input"
	"github.com/Faultbox/appstate-demo/internal/engine/overlay"
	"github.com/Faultbox/appstate-demo/internal/logger"
)

const backdropFade = 0.3 // seconds

// PauseState is an overlay drawn over the resident game scene.
type PauseState struct {
	base
	quit bool
}

// NewPauseState creates the pause state.
func NewPauseState(fw *framework.Framework, m *Manager, cfg *config.Config) *PauseState {
	return &PauseState{base: base{fw: fw, manager: m, cfg: cfg}}
}

// Enter replaces the overlay with the pause menu.
func (s *PauseState) Enter() error {
	logger.Info("entering PauseState")

	tray := s.fw.Tray()
	tray.DestroyAllWidgets()
	tray.SetListener(s)
	tray.ShowCursor()
	tray.ShowBackdrop(overlay.ColorBlack.WithAlpha(0.5), backdropFade)

	if _, err := tray.CreateButton(overlay.Center, "BackToGameBtn", "Return to GameState", 250); err != nil {
		return err
	}
	if _, err := tray.CreateButton(overlay.Center, "BackToMenuBtn", "Return to Menu", 250); err != nil {
		return err
	}
	if _, err := tray.CreateButton(overlay.Center, "ExitBtn", "Exit Demo", 250); err != nil {
		return err
	}
	if _, err := tray.CreateLabel(overlay.Top, "PauseLbl", "Pause mode", 250); err != nil {
		return err
	}

	s.quit = false
	s.pending = nil
	return nil
}

// Exit removes the pause menu.
func (s *PauseState) Exit() error {
	logger.Info("leaving PauseState")

	tray := s.fw.Tray()
	tray.DestroyAllWidgets()
	tray.HideBackdrop()
	tray.SetListener(nil)
	return nil
}

func (s *PauseState) Pause() bool {
	logger.Info("pausing PauseState")
	return false
}

func (s *PauseState) Resume() error {
	logger.Info("resuming PauseState")
	s.fw.Tray().SetListener(s)
	return nil
}

// Update returns to the state below once quit was requested.
func (s *PauseState) Update(dt float64) error {
	if ran, err := s.applyPending(); ran {
		return err
	}
	if s.quit {
		return s.manager.Pop()
	}
	return nil
}

func (s *PauseState) KeyPressed(e input.KeyEvent) bool {
	if e.Key == input.KeyEscape {
		tray := s.fw.Tray()
		if tray.IsDialogVisible() {
			tray.CloseDialog()
		} else {
			s.quit = true
		}
		return true
	}
	s.fw.KeyPressed(e)
	return true
}

func (s *PauseState) KeyReleased(e input.KeyEvent) bool {
	s.fw.KeyReleased(e)
	return true
}

func (s *PauseState) MouseMoved(e input.MouseEvent) bool {
	s.injectMove(e)
	return true
}

func (s *PauseState) MousePressed(e input.MouseEvent, b input.MouseButton) bool {
	s.injectDown(b)
	return true
}

func (s *PauseState) MouseReleased(e input.MouseEvent, b input.MouseButton) bool {
	s.injectUp(b)
	return true
}

// ButtonHit handles the pause menu buttons.
func (s *PauseState) ButtonHit(b *overlay.Button) {
	s.playClick()
	switch b.Name() {
	case "BackToGameBtn":
		s.quit = true
	case "BackToMenuBtn":
		s.request(func() error { return s.manager.PopAllAndPush(MenuStateName) })
	case "ExitBtn":
		s.fw.Tray().ShowYesNoDialog("Sure?", "Really leave?")
	}
}

// YesNoDialogClosed shuts the application down on yes.
func (s *PauseState) YesNoDialogClosed(question string, yes bool) {
	if yes {
		s.manager.Shutdown()
	}
}
