// Package audio provides audio playback for map music and sound effects.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Loader reads raw asset bytes.
type Loader interface {
	Load(path string) ([]byte, error)
}

// Manager handles audio playback for the game. It also keeps the named sound
// bank entities play from.
type Manager struct {
	mu sync.RWMutex

	// State
	initialized bool
	sampleRate  beep.SampleRate
	muted       bool
	log         *zap.Logger

	// BGM
	bgmStreamer beep.StreamSeekCloser
	bgmCtrl     *beep.Ctrl
	bgmVolume   *effects.Volume
	bgmPlaying  bool
	bgmPath     string

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	bgmVolLevel  float64
	sfxVolLevel  float64

	// Decoded sound effects by name
	sounds map[string]*beep.Buffer

	// SFX mixer for concurrent sound effects
	sfxMixer *beep.Mixer
}

// New creates a new audio manager.
func New(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		sampleRate:   DefaultSampleRate,
		log:          log,
		masterVolume: 1.0,
		bgmVolLevel:  0.7,
		sfxVolLevel:  1.0,
		sounds:       make(map[string]*beep.Buffer),
		sfxMixer:     &beep.Mixer{},
	}
}

// Init initializes the audio device.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	// Start SFX mixer
	speaker.Play(m.sfxMixer)

	m.initialized = true
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.stopBGMInternal()
	speaker.Clear()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMuted silences every sound effect and the music.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.updateBGMVolume()
}

// Muted reports whether audio is muted.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.updateBGMVolume()
}

// SetBGMVolume sets the BGM volume (0.0 to 1.0).
func (m *Manager) SetBGMVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bgmVolLevel = clamp(vol, 0, 1)
	m.updateBGMVolume()
}

// SetSFXVolume sets the SFX volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetBGMVolume returns the BGM volume.
func (m *Manager) GetBGMVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bgmVolLevel
}

// GetSFXVolume returns the SFX volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

func (m *Manager) updateBGMVolume() {
	if m.bgmVolume == nil {
		return
	}
	vol := m.masterVolume * m.bgmVolLevel
	if vol <= 0 || m.muted {
		m.bgmVolume.Silent = true
		return
	}
	m.bgmVolume.Silent = false
	m.bgmVolume.Volume = volumeToDb(vol)
}

// volumeToDb converts a 0-1 volume to decibel scale.
// vol=1 -> 0dB, vol=0.5 -> -6dB, vol=0.25 -> -12dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	return 20 * math.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// decode decodes WAV data and resamples it to the playback rate.
func (m *Manager) decode(data []byte) (beep.StreamSeekCloser, beep.Streamer, error) {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("decode wav: %w", err)
	}
	if format.SampleRate != m.sampleRate {
		return streamer, beep.Resample(4, format.SampleRate, m.sampleRate, streamer), nil
	}
	return streamer, streamer, nil
}

// LoadSound decodes WAV data into the sound bank under name. It does not need
// an initialized audio device.
func (m *Manager) LoadSound(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	streamer, resampled, err := m.decode(data)
	if err != nil {
		return fmt.Errorf("loading sound %s: %w", name, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(resampled)
	m.sounds[name] = buf
	return nil
}

// LoadSounds loads <dir>/<name>.wav for every name through loader. Missing
// or broken files are logged and skipped; the number loaded is returned.
func (m *Manager) LoadSounds(loader Loader, dir string, names ...string) int {
	loaded := 0
	for _, name := range names {
		file := path.Join(dir, name+".wav")
		data, err := loader.Load(file)
		if err != nil {
			m.log.Warn("sound unavailable", zap.String("sound", name), zap.Error(err))
			continue
		}
		if err := m.LoadSound(name, data); err != nil {
			m.log.Warn("sound rejected", zap.String("file", file), zap.Error(err))
			continue
		}
		loaded++
	}
	return loaded
}

// SoundCount returns the number of sounds in the bank.
func (m *Manager) SoundCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sounds)
}

// HasSound reports whether name is in the bank.
func (m *Manager) HasSound(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sounds[name]
	return ok
}

// PlaySound plays a sound from the bank. Unknown names, a muted manager and
// an uninitialized device are silently ignored.
func (m *Manager) PlaySound(name string) {
	m.mu.RLock()
	buf, ok := m.sounds[name]
	ready := m.initialized && !m.muted
	sfxVol := m.masterVolume * m.sfxVolLevel
	m.mu.RUnlock()

	if !ok {
		m.log.Debug("unknown sound", zap.String("sound", name))
		return
	}
	if !ready {
		return
	}
	m.mix(buf.Streamer(0, buf.Len()), sfxVol)
}

// mix adds s to the SFX mixer at the given volume.
func (m *Manager) mix(s beep.Streamer, vol float64) {
	volStreamer := &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToDb(vol),
		Silent:   vol <= 0,
	}
	speaker.Lock()
	m.sfxMixer.Add(volStreamer)
	speaker.Unlock()
}

// PlayBGM plays background music from WAV data.
// If loop is true, the music will loop indefinitely.
func (m *Manager) PlayBGM(data []byte, path string, loop bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return fmt.Errorf("audio not initialized")
	}

	m.stopBGMInternal()

	streamer, resampled, err := m.decode(data)
	if err != nil {
		return err
	}

	var finalStreamer beep.Streamer = resampled
	if loop {
		finalStreamer = &loopStreamer{
			streamer:  streamer,
			resampled: resampled,
			loop:      true,
		}
	}

	m.bgmCtrl = &beep.Ctrl{Streamer: finalStreamer, Paused: false}
	m.bgmVolume = &effects.Volume{
		Streamer: m.bgmCtrl,
		Base:     2,
		Volume:   0,
		Silent:   false,
	}
	m.updateBGMVolume()

	m.bgmStreamer = streamer
	m.bgmPath = path
	m.bgmPlaying = true

	speaker.Play(beep.Seq(m.bgmVolume, beep.Callback(func() {
		m.mu.Lock()
		m.bgmPlaying = false
		m.mu.Unlock()
	})))

	return nil
}

// StopBGM stops the current background music.
func (m *Manager) StopBGM() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopBGMInternal()
}

func (m *Manager) stopBGMInternal() {
	if m.bgmCtrl != nil {
		speaker.Lock()
		m.bgmCtrl.Paused = true
		speaker.Unlock()
	}
	if m.initialized {
		speaker.Clear()
		// Re-add SFX mixer after clearing
		speaker.Play(m.sfxMixer)
	}
	m.bgmPlaying = false
	if m.bgmStreamer != nil {
		m.bgmStreamer.Close()
		m.bgmStreamer = nil
	}
	m.bgmCtrl = nil
	m.bgmVolume = nil
	m.bgmPath = ""
}

// IsBGMPlaying returns whether BGM is currently playing.
func (m *Manager) IsBGMPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bgmPlaying
}

// GetBGMPath returns the path of the currently playing BGM.
func (m *Manager) GetBGMPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bgmPath
}

// loopStreamer wraps a streamer to make it loop.
type loopStreamer struct {
	streamer  beep.StreamSeekCloser
	resampled beep.Streamer
	loop      bool
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.resampled.Stream(samples[filled:])
		filled += n
		if !ok {
			if l.loop {
				if err := l.streamer.Seek(0); err != nil {
					return filled, false
				}
				continue
			}
			return filled, false
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.streamer.Err()
}
