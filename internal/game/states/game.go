package states

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/appstate-demo/internal/config"
	"github.com/Faultbox/appstate-demo/internal/engine/framework"
	"github.com/Faultbox/appstate-demo/internal/engine/input"
	"github.com/Faultbox/appstate-demo/internal/engine/overlay"
	"github.com/Faultbox/appstate-demo/internal/engine/scene"
	"github.com/Faultbox/appstate-demo/internal/logger"
)

// HeadMask is the query flag bit picked by the game's mouse ray.
const HeadMask uint32 = 1 << 0

// Details panel rows.
const (
	paramPosX = iota
	paramPosY
	paramPosZ
	paramOriW
	paramOriX
	paramOriY
	paramOriZ
	paramMode
	paramSelected
)

var detailsParams = []string{"cam.pX", "cam.pY", "cam.pZ", "cam.oW", "cam.oX", "cam.oY", "cam.oZ", "Mode", "Selected"}

// backdropPlane is one of the vertical planes behind the ground.
type backdropPlane struct {
	name     string
	height   float32
	position mgl32.Vec3
}

var backdropPlanes = []backdropPlane{
	{"background1", 30, mgl32.Vec3{100, 15, -50}},
	{"background2", 50, mgl32.Vec3{100, 25, -52}},
	{"background3", 70, mgl32.Vec3{100, 35, -54}},
}

// GameState is a free-look camera over a ground plane with layered
// backgrounds. It stays resident under the pause overlay.
type GameState struct {
	base

	scene  *scene.Scene
	camera *scene.Camera
	query  *scene.RayQuery
	panel  *overlay.ParamsPanel
	meshes []string

	selected     *scene.Entity
	settingsMode bool
	rMouseDown   bool
	paused       bool
	quit         bool
}

// NewGameState creates the game state.
func NewGameState(fw *framework.Framework, m *Manager, cfg *config.Config) *GameState {
	return &GameState{base: base{fw: fw, manager: m, cfg: cfg}}
}

// Enter builds the game scene, camera and overlay.
func (s *GameState) Enter() error {
	logger.Info("entering GameState")

	var err error
	s.scene, err = s.fw.Root().CreateScene("GameScene")
	if err != nil {
		return fmt.Errorf("creating game scene: %w", err)
	}
	s.scene.SetAmbientLight(scene.Color{R: 0.7, G: 0.7, B: 0.7, A: 1})

	s.query = s.scene.CreateRayQuery(scene.Ray{}, HeadMask)

	s.camera, err = s.scene.CreateCamera("GameCamera")
	if err != nil {
		return fmt.Errorf("creating game camera: %w", err)
	}
	s.camera.SetPosition(mgl32.Vec3{5, 60, 60})
	s.camera.LookAt(mgl32.Vec3{5, 20, 0})
	s.camera.SetNearClipDistance(5)
	s.fw.Viewport().SetCamera(s.camera)

	s.selected = nil
	s.settingsMode = false
	s.rMouseDown = false
	s.paused = false
	s.quit = false
	s.pending = nil

	if err := s.buildGUI(); err != nil {
		return err
	}
	if err := s.createScene(); err != nil {
		return fmt.Errorf("building game scene: %w", err)
	}
	return nil
}

func (s *GameState) createScene() error {
	s.scene.SetAmbientLight(scene.Color{R: 1, G: 1, B: 1, A: 1})
	s.scene.SetShadowTechnique(scene.ShadowStencilAdditive)

	meshes := s.fw.Root().Meshes()
	plane := scene.Plane{Normal: mgl32.Vec3{0, 1, 0}}
	desc := func(w, h float32) scene.PlaneDesc {
		return scene.PlaneDesc{
			Plane: plane, Width: w, Height: h,
			SegmentsX: 20, SegmentsY: 20,
			UTile: 1, VTile: 1,
			Up: mgl32.Vec3{0, 0, 1},
		}
	}

	if _, err := meshes.CreatePlane("ground", desc(1500, 100)); err != nil {
		return err
	}
	s.meshes = append(s.meshes, "ground")
	if _, err := s.addEntity("GroundEnt", "ground", "groundNode", mgl32.Vec3{100, 0, 0}, "Placeholder/ground1"); err != nil {
		return err
	}

	for _, bp := range backdropPlanes {
		if _, err := meshes.CreatePlane(bp.name, desc(1500, bp.height)); err != nil {
			return err
		}
		s.meshes = append(s.meshes, bp.name)
		ent, err := s.addEntity(bp.name+"Entity", bp.name, bp.name+"Node", bp.position, "Placeholder/"+bp.name)
		if err != nil {
			return err
		}
		ent.ParentNode().Pitch(90)
	}

	return s.scene.SetSkyBox(true, "Placeholder/skybox1")
}

func (s *GameState) addEntity(name, mesh, node string, pos mgl32.Vec3, material string) (*scene.Entity, error) {
	ent, err := s.scene.CreateEntity(name, mesh)
	if err != nil {
		return nil, err
	}
	n, err := s.scene.RootNode().CreateChildSceneNode(node, pos)
	if err != nil {
		return nil, err
	}
	if err := n.AttachObject(ent); err != nil {
		return nil, err
	}
	if err := ent.SetMaterialName(material); err != nil {
		return nil, err
	}
	ent.SetCastShadows(false)
	return ent, nil
}

func (s *GameState) buildGUI() error {
	tray := s.fw.Tray()
	tray.SetListener(s)
	if s.cfg.Graphics.ShowStats {
		tray.ShowFrameStats(overlay.BottomLeft)
	}
	tray.ShowCursor()

	panel, err := tray.CreateParamsPanel(overlay.TopLeft, "DetailsPanel", 260, detailsParams)
	if err != nil {
		return err
	}
	panel.Show()
	s.panel = panel
	return nil
}

// Exit destroys everything Enter created.
func (s *GameState) Exit() error {
	logger.Info("leaving GameState")

	tray := s.fw.Tray()
	tray.DestroyAllWidgets()
	tray.SetListener(nil)
	s.panel = nil

	if s.scene != nil {
		s.scene.DestroyCamera(s.camera)
		s.scene.DestroyQuery(s.query)
		s.fw.Root().DestroyScene(s.scene)
		s.scene, s.camera, s.query = nil, nil, nil
	}
	for _, name := range s.meshes {
		s.fw.Root().Meshes().Remove(name)
	}
	s.meshes = nil
	s.selected = nil
	return nil
}

// Pause keeps the game resident beneath the overlay above it. The state
// above owns the tray, so the details panel is dropped until Resume.
func (s *GameState) Pause() bool {
	logger.Info("pausing GameState")
	s.paused = true
	s.rMouseDown = false
	s.panel = nil
	return true
}

// Resume rebuilds the overlay and takes the viewport back.
func (s *GameState) Resume() error {
	logger.Info("resuming GameState")
	s.paused = false
	if err := s.buildGUI(); err != nil {
		return err
	}
	s.fw.Viewport().SetCamera(s.camera)
	s.quit = false
	return nil
}

// Update refreshes the details panel, when shown, and moves the camera
// unless paused.
func (s *GameState) Update(dt float64) error {
	if ran, err := s.applyPending(); ran {
		return err
	}
	if s.quit {
		return s.manager.Pop()
	}

	if !s.fw.Tray().IsDialogVisible() && s.panel != nil && s.panel.IsVisible() {
		s.refreshPanel()
	}
	if s.paused {
		return nil
	}

	moveScale := s.cfg.Camera.MoveSpeed * float32(dt)
	var translate mgl32.Vec3
	if !s.settingsMode {
		dev := s.fw.Devices()
		if dev.IsKeyDown(input.KeyA) {
			translate[0] = -moveScale
		}
		if dev.IsKeyDown(input.KeyD) {
			translate[0] = moveScale
		}
		if dev.IsKeyDown(input.KeyW) {
			translate[2] = -moveScale
		}
		if dev.IsKeyDown(input.KeyS) {
			translate[2] = moveScale
		}
	}
	s.moveCamera(translate)
	return nil
}

func (s *GameState) moveCamera(t mgl32.Vec3) {
	if s.fw.Devices().IsKeyDown(input.KeyLeftShift) {
		s.camera.MoveRelative(t)
	}
	s.camera.MoveRelative(t.Mul(0.1))
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', 6, 32)
}

func (s *GameState) refreshPanel() {
	pos := s.camera.DerivedPosition()
	ori := s.camera.DerivedOrientation()
	p := s.panel
	p.SetParamValue(paramPosX, formatFloat(pos.X()))
	p.SetParamValue(paramPosY, formatFloat(pos.Y()))
	p.SetParamValue(paramPosZ, formatFloat(pos.Z()))
	p.SetParamValue(paramOriW, formatFloat(ori.W))
	p.SetParamValue(paramOriX, formatFloat(ori.V.X()))
	p.SetParamValue(paramOriY, formatFloat(ori.V.Y()))
	p.SetParamValue(paramOriZ, formatFloat(ori.V.Z()))
	if s.settingsMode {
		p.SetParamValue(paramMode, "Buffered Input")
	} else {
		p.SetParamValue(paramMode, "Un-Buffered Input")
	}
	selected := "-"
	if s.selected != nil {
		selected = s.selected.Name()
	}
	p.SetParamValue(paramSelected, selected)
}

// Camera returns the game camera, nil outside Enter/Exit.
func (s *GameState) Camera() *scene.Camera { return s.camera }

// Selected returns the entity picked by the last left click.
func (s *GameState) Selected() *scene.Entity { return s.selected }

// SettingsMode reports whether WASD movement is disabled.
func (s *GameState) SettingsMode() bool { return s.settingsMode }

func (s *GameState) KeyPressed(e input.KeyEvent) bool {
	switch e.Key {
	case input.KeyEscape:
		s.request(func() error { return s.manager.Push(PauseStateName) })
		return true
	case input.KeyI:
		s.toggleDetails()
	case input.KeyTab:
		s.settingsMode = !s.settingsMode
		return true
	}

	if !s.settingsMode || e.Key != input.KeyO {
		s.fw.KeyPressed(e)
	}
	return true
}

func (s *GameState) toggleDetails() {
	if s.panel == nil {
		return
	}
	tray := s.fw.Tray()
	if s.panel.Location() == overlay.LocationNone {
		if err := tray.MoveWidgetToTray(s.panel.Name(), overlay.TopLeft); err == nil {
			s.panel.Show()
		}
		return
	}
	if err := tray.RemoveWidgetFromTray(s.panel.Name()); err == nil {
		s.panel.Hide()
	}
}

func (s *GameState) KeyReleased(e input.KeyEvent) bool {
	s.fw.KeyReleased(e)
	return true
}

func (s *GameState) MouseMoved(e input.MouseEvent) bool {
	if s.injectMove(e) {
		return true
	}
	if s.rMouseDown {
		sens := s.cfg.Camera.MouseSensitivity
		s.camera.Yaw(float32(e.RelX) * -sens)
		s.camera.Pitch(float32(e.RelY) * -sens)
	}
	return true
}

func (s *GameState) MousePressed(e input.MouseEvent, b input.MouseButton) bool {
	if s.injectDown(b) {
		return true
	}
	switch b {
	case input.MouseRight:
		s.rMouseDown = true
	case input.MouseLeft:
		s.pick(e)
	}
	return true
}

func (s *GameState) MouseReleased(e input.MouseEvent, b input.MouseButton) bool {
	if s.injectUp(b) {
		return true
	}
	if b == input.MouseRight {
		s.rMouseDown = false
	}
	return true
}

// pick selects the nearest entity under the cursor.
func (s *GameState) pick(e input.MouseEvent) {
	vp := s.fw.Viewport()
	if vp.ActualWidth() == 0 || vp.ActualHeight() == 0 {
		return
	}
	x := float32(e.X) / float32(vp.ActualWidth())
	y := float32(e.Y) / float32(vp.ActualHeight())
	s.query.SetRay(s.camera.CameraToViewportRay(x, y))

	hits := s.query.Execute()
	if len(hits) == 0 {
		s.selected = nil
		return
	}
	s.selected = hits[0].Entity
	logger.Debug("picked entity",
		zap.String("entity", s.selected.Name()),
		zap.Float32("distance", hits[0].Distance))
}

// ButtonHit is unused; the game overlay has no buttons.
func (s *GameState) ButtonHit(b *overlay.Button) {}

// YesNoDialogClosed is unused by the game.
func (s *GameState) YesNoDialogClosed(question string, yes bool) {}
