package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "screenshot")
	sc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	// 1x2 image, bottom row red, top row blue (OpenGL order).
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "screenshot_2026-01-02_03-04-05.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, b, "top row must come from the last source row")

	second, err := sc.CaptureFromPixels(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "screenshot_2026-01-02_03-04-05_1.png"), second)
}

func TestCaptureRejectsBadInput(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "s")

	_, err := sc.CaptureFromPixels([]byte{1, 2, 3}, 1, 1)
	assert.Error(t, err)

	_, err = sc.CaptureFromPixels(nil, 0, 0)
	assert.Error(t, err)
}
