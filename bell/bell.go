// Package bell plays a short audible bell through the system audio device.
// Audio is optional: when the device cannot be opened every call is a no-op.
package bell

import (
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Config describes the bell sound
type Config struct {
	SampleRate int
	Frequency  float64
	Duration   time.Duration
	Attack     time.Duration
	Volume     float64 // linear, 0..1
}

// DefaultConfig returns an A5 ding
func DefaultConfig() Config {
	return Config{
		SampleRate: 48000,
		Frequency:  880,
		Duration:   250 * time.Millisecond,
		Attack:     5 * time.Millisecond,
		Volume:     0.5,
	}
}

// Bell owns the speaker while initialized
type Bell struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	initialized bool
}

// New creates an uninitialized bell
func New(cfg Config) *Bell {
	return &Bell{
		cfg:   cfg,
		mixer: &beep.Mixer{},
	}
}

// Init opens the audio device
// Safe to call again after success
func (b *Bell) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if b.cfg.SampleRate <= 0 {
		return errors.New("bell: sample rate must be positive")
	}

	rate := beep.SampleRate(b.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Ring queues one bell sound
// Returns false when audio is not initialized
func (b *Bell) Ring() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return false
	}
	speaker.Lock()
	b.mixer.Add(Tone(b.cfg))
	speaker.Unlock()
	return true
}

// Close stops playback and releases the audio device
func (b *Bell) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	b.mixer = &beep.Mixer{}
	b.initialized = false
}
