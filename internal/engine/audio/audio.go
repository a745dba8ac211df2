// Package audio plays menu music and interface sounds from WAV files.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/appstate-demo/internal/logger"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playing before the speaker is up.
var ErrNotInitialized = errors.New("audio not initialized")

// Config holds volume levels, each in [0, 1].
type Config struct {
	MasterVolume float64
	MusicVolume  float64
	SFXVolume    float64
}

// Manager plays one looping music track and any number of overlapping
// sound effects. Decoded files are cached by path.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	bgmCtrl   *beep.Ctrl
	bgmVolume *effects.Volume
	bgmDone   *atomic.Bool // set from the speaker goroutine
	bgmPath   string

	masterVolume float64
	bgmVolLevel  float64
	sfxVolLevel  float64

	sfxMixer *beep.Mixer
	clips    map[string]*beep.Buffer
}

// NewManager creates a manager and opens the speaker.
func NewManager(cfg Config) (*Manager, error) {
	m := newManager(cfg)
	if err := m.Init(); err != nil {
		return nil, err
	}
	return m, nil
}

func newManager(cfg Config) *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		masterVolume: clamp(cfg.MasterVolume, 0, 1),
		bgmVolLevel:  clamp(cfg.MusicVolume, 0, 1),
		sfxVolLevel:  clamp(cfg.SFXVolume, 0, 1),
		sfxMixer:     &beep.Mixer{},
		clips:        make(map[string]*beep.Buffer),
	}
}

// Init opens the speaker. Calling it again is a no-op.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfxMixer)

	m.initialized = true
	logger.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)))
	return nil
}

// Close stops playback and releases the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.stopBGMLocked()
	speaker.Clear()
	speaker.Close()
	m.initialized = false
	clear(m.clips)
}

// IsInitialized reports whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume.
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.updateBGMVolume()
}

// SetBGMVolume sets the music volume.
func (m *Manager) SetBGMVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bgmVolLevel = clamp(vol, 0, 1)
	m.updateBGMVolume()
}

// SetSFXVolume sets the sound effect volume.
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// Volumes returns the master, music and effect levels.
func (m *Manager) Volumes() (master, bgm, sfx float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume, m.bgmVolLevel, m.sfxVolLevel
}

func (m *Manager) updateBGMVolume() {
	if m.bgmVolume == nil {
		return
	}
	vol := m.masterVolume * m.bgmVolLevel
	if m.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	m.bgmVolume.Silent = vol <= 0
	m.bgmVolume.Volume = volumeToDb(vol)
}

// volumeToDb maps a linear level to the base-2 exponent effects.Volume
// expects, so that 1 is unchanged and 0.5 halves the amplitude.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// clip returns the decoded file at path, resampled to the speaker rate.
// Callers hold m.mu.
func (m *Manager) clip(path string) (*beep.Buffer, error) {
	if buf, ok := m.clips[path]; ok {
		return buf, nil
	}
	buf, err := decodeFile(path, m.sampleRate)
	if err != nil {
		return nil, err
	}
	m.clips[path] = buf
	return buf, nil
}

func decodeFile(path string, rate beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode wav %s: %w", path, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, streamer)
		format.SampleRate = rate
	}
	buf := beep.NewBuffer(format)
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read wav %s: %w", path, err)
	}
	return buf, nil
}

// PlayBGM replaces the current music with the WAV file at path.
func (m *Manager) PlayBGM(path string, loop bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	if m.playingLocked() && m.bgmPath == path {
		return nil
	}
	buf, err := m.clip(path)
	if err != nil {
		return err
	}
	m.stopBGMLocked()

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}

	m.bgmCtrl = &beep.Ctrl{Streamer: s}
	m.bgmVolume = &effects.Volume{Streamer: m.bgmCtrl, Base: 2}
	m.updateBGMVolume()
	m.bgmPath = path

	// The callback runs under the speaker lock and must not take m.mu.
	done := new(atomic.Bool)
	m.bgmDone = done
	speaker.Play(beep.Seq(m.bgmVolume, beep.Callback(func() {
		done.Store(true)
	})))

	logger.Debug("bgm started", zap.String("path", path), zap.Bool("loop", loop))
	return nil
}

// StopBGM stops the music.
func (m *Manager) StopBGM() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopBGMLocked()
}

func (m *Manager) stopBGMLocked() {
	if m.bgmCtrl != nil && m.initialized {
		speaker.Lock()
		m.bgmCtrl.Streamer = nil
		speaker.Unlock()
	}
	m.bgmCtrl = nil
	m.bgmVolume = nil
	m.bgmDone = nil
	m.bgmPath = ""
}

func (m *Manager) playingLocked() bool {
	return m.bgmDone != nil && !m.bgmDone.Load()
}

// IsBGMPlaying reports whether music is playing.
func (m *Manager) IsBGMPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playingLocked()
}

// BGMPath returns the path of the current music, empty when stopped.
func (m *Manager) BGMPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bgmPath
}

// PlaySFX mixes the WAV file at path over whatever is playing.
func (m *Manager) PlaySFX(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	buf, err := m.clip(path)
	if err != nil {
		return err
	}

	vol := m.masterVolume * m.sfxVolLevel
	s := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeToDb(vol),
		Silent:   vol <= 0,
	}
	speaker.Lock()
	m.sfxMixer.Add(s)
	speaker.Unlock()
	return nil
}
