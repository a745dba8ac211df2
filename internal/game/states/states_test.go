package states

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/appstate-demo/internal/config"
	"github.com/Faultbox/appstate-demo/internal/engine/framework"
	"github.com/Faultbox/appstate-demo/internal/engine/framework/frameworktest"
	"github.com/Faultbox/appstate-demo/internal/engine/input"
	"github.com/Faultbox/appstate-demo/internal/engine/overlay"
)

type demo struct {
	t       *testing.T
	fw      *framework.Framework
	display *frameworktest.Headless
	m       *Manager
	menu    *MenuState
	game    *GameState
	pause   *PauseState
}

func newDemo(t *testing.T, initial string) *demo {
	t.Helper()
	display := frameworktest.NewHeadless(800, 600)
	fw, err := framework.New(framework.Options{Display: display, ScreenshotDir: t.TempDir()})
	require.NoError(t, err)

	cfg := config.Default()
	m := NewManager()
	d := &demo{
		t:       t,
		fw:      fw,
		display: display,
		m:       m,
		menu:    NewMenuState(fw, m, cfg),
		game:    NewGameState(fw, m, cfg),
		pause:   NewPauseState(fw, m, cfg),
	}
	require.NoError(t, m.Register(MenuStateName, d.menu))
	require.NoError(t, m.Register(GameStateName, d.game))
	require.NoError(t, m.Register(PauseStateName, d.pause))
	require.NoError(t, m.Start(initial))
	return d
}

// frame pumps queued events and updates the stack once.
func (d *demo) frame(dt float64) {
	d.t.Helper()
	d.fw.PumpEvents(d.m)
	require.NoError(d.t, d.m.Update(dt))
}

func (d *demo) key(k input.Key) {
	d.display.QueueKey(k)
	d.frame(0.016)
}

func (d *demo) click(widget string) {
	d.t.Helper()
	d.fw.Tray().Primitives()
	w := d.fw.Tray().Widget(widget)
	require.NotNil(d.t, w, "widget %s", widget)
	d.clickAt(w.Bounds())
}

func (d *demo) clickAt(r overlay.Rect) {
	d.display.QueueMouseMove(int(r.X+r.W/2), int(r.Y+r.H/2))
	d.display.QueueMouseDown(input.MouseLeft)
	d.display.QueueMouseUp(input.MouseLeft)
	d.frame(0.016)
}

func TestMenuEnterExit(t *testing.T) {
	d := newDemo(t, MenuStateName)
	root := d.fw.Root()

	menuScene := root.Scene("MenuScene")
	require.NotNil(t, menuScene)
	require.NotNil(t, d.fw.Viewport().Camera())
	assert.Equal(t, "MenuCam", d.fw.Viewport().Camera().Name())
	assert.NotNil(t, d.fw.Tray().Widget("EnterBtn"))
	assert.NotNil(t, d.fw.Tray().Widget("ExitBtn"))
	assert.NotNil(t, d.fw.Tray().Widget("MenuLbl"))
	assert.True(t, d.fw.Tray().IsCursorVisible())
	assert.True(t, d.fw.Tray().AreFrameStatsVisible())

	d.key(input.KeyReturn)
	assert.Equal(t, []string{GameStateName}, d.m.Active())
	assert.Nil(t, root.Scene("MenuScene"))
	assert.True(t, menuScene.Destroyed())
	assert.Nil(t, d.fw.Tray().Widget("EnterBtn"))
}

func TestMenuButtons(t *testing.T) {
	d := newDemo(t, MenuStateName)
	d.click("EnterBtn")
	assert.Equal(t, []string{GameStateName}, d.m.Active())

	d = newDemo(t, MenuStateName)
	d.click("ExitBtn")
	assert.True(t, d.m.Done())
	assert.Empty(t, d.m.Active())
}

func TestMenuEscapeEndsApplication(t *testing.T) {
	d := newDemo(t, MenuStateName)
	d.display.QueueKey(input.KeyEscape)
	d.fw.PumpEvents(d.m)
	assert.False(t, d.m.Done(), "the menu pops itself on its next update")

	require.NoError(t, d.m.Update(0.016))
	assert.True(t, d.m.Done())
	assert.Equal(t, 0, d.fw.Root().SceneCount())
}

func TestGameScene(t *testing.T) {
	d := newDemo(t, GameStateName)
	root := d.fw.Root()

	s := root.Scene("GameScene")
	require.NotNil(t, s)
	assert.Len(t, s.Entities(), 4)
	assert.Equal(t, 1, s.CameraCount())
	assert.Equal(t, 1, s.QueryCount())
	sky, on := s.SkyBox()
	assert.True(t, on)
	assert.Equal(t, "Placeholder/skybox1", sky)

	ground := s.Entity("GroundEnt")
	require.NotNil(t, ground)
	assert.Equal(t, "Placeholder/ground1", ground.MaterialName())
	assert.False(t, ground.CastShadows())

	cam := d.game.Camera()
	assert.Equal(t, mgl32.Vec3{5, 60, 60}, cam.DerivedPosition())
	assert.InDelta(t, 5, cam.NearClipDistance(), 1e-6)
	assert.Same(t, cam, d.fw.Viewport().Camera())

	panel, ok := d.fw.Tray().Widget("DetailsPanel").(*overlay.ParamsPanel)
	require.True(t, ok)
	d.frame(0.016)
	assert.Equal(t, "5", panel.ParamValue(paramPosX))
	assert.Equal(t, "60", panel.ParamValue(paramPosY))
	assert.Equal(t, "Un-Buffered Input", panel.ParamValue(paramMode))

	require.NoError(t, d.m.Close())
	assert.Equal(t, 0, root.SceneCount())
	assert.Empty(t, root.Meshes().Names())
	assert.True(t, cam.Destroyed())
}

func TestGameReenter(t *testing.T) {
	d := newDemo(t, GameStateName)
	require.NoError(t, d.m.ChangeState(MenuStateName))
	require.NoError(t, d.m.ChangeState(GameStateName), "meshes and scene names are free again")
	assert.NotNil(t, d.fw.Root().Scene("GameScene"))
}

func TestGameCameraMovement(t *testing.T) {
	d := newDemo(t, GameStateName)
	cam := d.game.Camera()
	start := cam.DerivedPosition()
	dir := cam.Direction()

	d.display.QueueKeyDown(input.KeyW)
	d.frame(1.0)
	assertNear(t, start.Add(dir.Mul(10)), cam.DerivedPosition())

	d.display.QueueKeyDown(input.KeyLeftShift)
	before := cam.DerivedPosition()
	d.frame(1.0)
	assertNear(t, before.Add(dir.Mul(110)), cam.DerivedPosition())

	d.display.QueueKeyUp(input.KeyLeftShift)
	d.display.QueueKeyUp(input.KeyW)
	d.frame(1.0)

	// Settings mode disables WASD.
	d.key(input.KeyTab)
	assert.True(t, d.game.SettingsMode())
	before = cam.DerivedPosition()
	d.display.QueueKeyDown(input.KeyW)
	d.frame(1.0)
	assertNear(t, before, cam.DerivedPosition())

	panel := d.fw.Tray().Widget("DetailsPanel").(*overlay.ParamsPanel)
	assert.Equal(t, "Buffered Input", panel.ParamValue(paramMode))
}

func TestGameMouseLook(t *testing.T) {
	d := newDemo(t, GameStateName)
	cam := d.game.Camera()
	dir := cam.Direction()

	// Moving without the right button does nothing.
	d.display.QueueMouseMove(400, 300)
	d.display.QueueMouseMove(420, 300)
	d.frame(0.016)
	assertNear(t, dir, cam.Direction())

	d.display.QueueMouseDown(input.MouseRight)
	d.display.QueueMouseMove(440, 300)
	d.frame(0.016)

	turned := cam.Direction()
	assert.NotEqual(t, dir, turned)
	assert.InDelta(t, dir.Y(), turned.Y(), 1e-4, "yaw keeps the view height")

	d.display.QueueMouseUp(input.MouseRight)
	d.display.QueueMouseMove(480, 300)
	d.frame(0.016)
	assertNear(t, turned, cam.Direction())
}

func TestGamePick(t *testing.T) {
	d := newDemo(t, GameStateName)
	d.clickAt(overlay.Rect{X: 399, Y: 299, W: 2, H: 2})

	require.NotNil(t, d.game.Selected())
	assert.Equal(t, "GroundEnt", d.game.Selected().Name())

	panel := d.fw.Tray().Widget("DetailsPanel").(*overlay.ParamsPanel)
	assert.Equal(t, "GroundEnt", panel.ParamValue(paramSelected))
}

func TestGameDetailsToggle(t *testing.T) {
	d := newDemo(t, GameStateName)
	panel := d.fw.Tray().Widget("DetailsPanel").(*overlay.ParamsPanel)
	require.True(t, panel.IsVisible())

	d.key(input.KeyI)
	assert.False(t, panel.IsVisible())
	assert.Equal(t, overlay.LocationNone, panel.Location())

	d.key(input.KeyI)
	assert.True(t, panel.IsVisible())
	assert.Equal(t, overlay.TopLeft, panel.Location())
}

func TestGameForwardsUnusedKeys(t *testing.T) {
	d := newDemo(t, GameStateName)
	tray := d.fw.Tray()
	require.True(t, tray.AreFrameStatsVisible())

	d.key(input.KeyO)
	assert.False(t, tray.AreFrameStatsVisible())

	// In settings mode O stays with the game.
	d.key(input.KeyTab)
	d.key(input.KeyO)
	assert.False(t, tray.AreFrameStatsVisible())

	d.key(input.KeyM)
	assert.Equal(t, framework.PolygonWireframe, d.fw.PolygonMode())
}

func TestPauseOverGame(t *testing.T) {
	d := newDemo(t, GameStateName)
	cam := d.game.Camera()

	d.key(input.KeyEscape)
	assert.Equal(t, []string{GameStateName, PauseStateName}, d.m.Active())
	assert.Nil(t, d.fw.Tray().Widget("DetailsPanel"))
	assert.NotNil(t, d.fw.Tray().Widget("BackToGameBtn"))
	assert.True(t, d.fw.Tray().BackdropFading())
	assert.Same(t, cam, d.fw.Viewport().Camera(), "the game scene stays on screen")

	// The resident game is updated but does not move while paused, and it
	// no longer holds the panel the pause menu destroyed.
	assert.Nil(t, d.game.panel)
	pos := cam.DerivedPosition()
	d.display.QueueKeyDown(input.KeyW)
	d.frame(1.0)
	assertNear(t, pos, cam.DerivedPosition())
	assert.Nil(t, d.game.panel)
	d.display.QueueKeyUp(input.KeyW)

	d.click("BackToGameBtn")
	d.frame(0.016)
	assert.Equal(t, []string{GameStateName}, d.m.Active())
	assert.NotNil(t, d.fw.Tray().Widget("DetailsPanel"), "resume rebuilds the overlay")
	require.NotNil(t, d.game.panel)
	assert.Same(t, d.fw.Tray().Widget("DetailsPanel"), d.game.panel)
	assert.Zero(t, d.fw.Tray().BackdropAlpha())
}

func TestPauseEscape(t *testing.T) {
	d := newDemo(t, GameStateName)
	d.key(input.KeyEscape)
	d.key(input.KeyEscape)
	assert.Equal(t, []string{GameStateName}, d.m.Active())
}

func TestPauseBackToMenu(t *testing.T) {
	d := newDemo(t, GameStateName)
	d.key(input.KeyEscape)

	d.click("BackToMenuBtn")
	assert.Equal(t, []string{MenuStateName}, d.m.Active())
	assert.Nil(t, d.fw.Root().Scene("GameScene"))
	assert.NotNil(t, d.fw.Root().Scene("MenuScene"))
	assert.NotNil(t, d.fw.Tray().Widget("EnterBtn"))
}

func TestPauseExitDialog(t *testing.T) {
	d := newDemo(t, GameStateName)
	d.key(input.KeyEscape)
	tray := d.fw.Tray()

	d.click("ExitBtn")
	require.True(t, tray.IsDialogVisible())

	// ESC closes the dialog but keeps the pause menu.
	d.key(input.KeyEscape)
	assert.False(t, tray.IsDialogVisible())
	assert.Equal(t, []string{GameStateName, PauseStateName}, d.m.Active())

	d.click("ExitBtn")
	tray.Primitives()
	_, no := tray.DialogButtons()
	d.clickAt(no.Bounds())
	assert.False(t, d.m.Done())

	d.click("ExitBtn")
	tray.Primitives()
	yes, _ := tray.DialogButtons()
	d.clickAt(yes.Bounds())
	assert.True(t, d.m.Done())
	assert.Equal(t, []string{GameStateName, PauseStateName}, d.m.Active())

	require.NoError(t, d.m.Close())
	assert.Equal(t, 0, d.fw.Root().SceneCount())
}

func assertNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-3, "component %d of %v vs %v", i, want, got)
	}
}
