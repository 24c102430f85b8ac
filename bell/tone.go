package bell

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// sine generates a sine wave for a fixed number of samples
type sine struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

// newSine creates a sine generator lasting duration
func newSine(freq float64, duration time.Duration, rate beep.SampleRate) *sine {
	return &sine{
		freq:     freq,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (o *sine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		val := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *sine) Err() error { return nil }

// decay applies a linear attack and an exponential tail
type decay struct {
	streamer beep.Streamer
	position int
	attack   int
	tau      float64
}

func newDecay(s beep.Streamer, attack, tau time.Duration, rate beep.SampleRate) *decay {
	return &decay{
		streamer: s,
		attack:   rate.N(attack),
		tau:      float64(rate.N(tau)),
	}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if d.position < d.attack {
			vol = float64(d.position) / float64(d.attack)
		} else if d.tau > 0 {
			vol = math.Exp(-float64(d.position-d.attack) / d.tau)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// withVolume scales s linearly; zero or negative volume is silent
// effects.Volume works in log space so 0 cannot be expressed directly
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Tone builds the bell sound for cfg: a fundamental plus one octave overtone
func Tone(cfg Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	fund := newDecay(newSine(cfg.Frequency, cfg.Duration, rate), cfg.Attack, cfg.Duration/3, rate)
	over := newDecay(newSine(cfg.Frequency*2, cfg.Duration, rate), cfg.Attack, cfg.Duration/6, rate)

	mixed := beep.Mix(
		withVolume(fund, 0.7),
		withVolume(over, 0.3),
	)
	return withVolume(mixed, cfg.Volume)
}
