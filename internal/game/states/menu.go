package states

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/appstate-demo/internal/config"
	"github.com/Faultbox/appstate-demo/internal/engine/framework"
	"github.com/Faultbox/appstate-demo/internal/engine/input"
	"github.com/Faultbox/appstate-demo/internal/engine/overlay"
	"github.com/Faultbox/appstate-demo/internal/engine/scene"
	"github.com/Faultbox/appstate-demo/internal/logger"
)

// MenuState is the start screen: a label and two buttons over an empty scene.
type MenuState struct {
	base

	scene  *scene.Scene
	camera *scene.Camera
	quit   bool
}

// NewMenuState creates the menu state.
func NewMenuState(fw *framework.Framework, m *Manager, cfg *config.Config) *MenuState {
	return &MenuState{base: base{fw: fw, manager: m, cfg: cfg}}
}

// Enter builds the menu scene and overlay.
func (s *MenuState) Enter() error {
	logger.Info("entering MenuState")

	var err error
	s.scene, err = s.fw.Root().CreateScene("MenuScene")
	if err != nil {
		return fmt.Errorf("creating menu scene: %w", err)
	}
	s.scene.SetAmbientLight(scene.Color{R: 0.7, G: 0.7, B: 0.7, A: 1})

	s.camera, err = s.scene.CreateCamera("MenuCam")
	if err != nil {
		return fmt.Errorf("creating menu camera: %w", err)
	}
	s.camera.SetPosition(mgl32.Vec3{0, 25, -50})
	s.camera.LookAt(mgl32.Vec3{0, 0, 0})
	s.camera.SetNearClipDistance(1)
	s.fw.Viewport().SetCamera(s.camera)

	if err := s.scene.SetSkyBox(true, "Placeholder/menu"); err != nil {
		return err
	}

	if err := s.buildGUI(); err != nil {
		return err
	}

	if music := s.cfg.Audio.MenuMusic; music != "" {
		if err := s.fw.Audio().PlayBGM(music, true); err != nil {
			logger.Warn("menu music failed", zap.String("path", music), zap.Error(err))
		}
	}

	s.quit = false
	s.pending = nil
	return nil
}

func (s *MenuState) buildGUI() error {
	tray := s.fw.Tray()
	tray.SetListener(s)
	if s.cfg.Graphics.ShowStats {
		tray.ShowFrameStats(overlay.BottomLeft)
	}
	tray.ShowCursor()

	if _, err := tray.CreateButton(overlay.Center, "EnterBtn", "Enter GameState", 250); err != nil {
		return err
	}
	if _, err := tray.CreateButton(overlay.Center, "ExitBtn", "Exit Demo", 250); err != nil {
		return err
	}
	if _, err := tray.CreateLabel(overlay.Top, "MenuLbl", "Menu mode", 250); err != nil {
		return err
	}
	return nil
}

// Exit tears down the menu scene and overlay.
func (s *MenuState) Exit() error {
	logger.Info("leaving MenuState")

	if s.cfg.Audio.MenuMusic != "" {
		s.fw.Audio().StopBGM()
	}

	tray := s.fw.Tray()
	tray.DestroyAllWidgets()
	tray.SetListener(nil)

	if s.scene != nil {
		s.fw.Root().DestroyScene(s.scene)
		s.scene = nil
		s.camera = nil
	}
	return nil
}

// Pause suspends the menu.
func (s *MenuState) Pause() bool {
	logger.Info("pausing MenuState")
	return false
}

// Resume reattaches the menu camera.
func (s *MenuState) Resume() error {
	logger.Info("resuming MenuState")
	s.fw.Viewport().SetCamera(s.camera)
	s.fw.Tray().SetListener(s)
	return nil
}

// Update leaves the menu once quit was requested.
func (s *MenuState) Update(dt float64) error {
	if ran, err := s.applyPending(); ran {
		return err
	}
	if s.quit {
		return s.manager.Pop()
	}
	return nil
}

func (s *MenuState) KeyPressed(e input.KeyEvent) bool {
	switch e.Key {
	case input.KeyEscape:
		s.quit = true
		return true
	case input.KeyReturn, input.KeyNumpadEnter:
		s.request(func() error { return s.manager.ChangeState(GameStateName) })
		return true
	}
	s.fw.KeyPressed(e)
	return true
}

func (s *MenuState) KeyReleased(e input.KeyEvent) bool {
	s.fw.KeyReleased(e)
	return true
}

func (s *MenuState) MouseMoved(e input.MouseEvent) bool {
	s.injectMove(e)
	return true
}

func (s *MenuState) MousePressed(e input.MouseEvent, b input.MouseButton) bool {
	s.injectDown(b)
	return true
}

func (s *MenuState) MouseReleased(e input.MouseEvent, b input.MouseButton) bool {
	s.injectUp(b)
	return true
}

// ButtonHit handles the menu buttons.
func (s *MenuState) ButtonHit(b *overlay.Button) {
	s.playClick()
	switch b.Name() {
	case "ExitBtn":
		s.quit = true
	case "EnterBtn":
		s.request(func() error { return s.manager.ChangeState(GameStateName) })
	}
}

// YesNoDialogClosed is unused by the menu.
func (s *MenuState) YesNoDialogClosed(question string, yes bool) {}
