// Package audio drives the host beeper. The CHIP-8 itself only exposes a
// "sound timer nonzero" signal; this package turns it into an audible tone.
package audio

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneHz     = 440
	volume     = 0.25
)

// Beeper streams a steady sine tone while active and silence otherwise,
// so the speaker never restarts between beeps.
type Beeper struct {
	active int32
	step   float64
	phase  float64
}

// New initialises the speaker and starts the (initially silent) stream.
func New() (*Beeper, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	b := &Beeper{step: toneHz / float64(sampleRate)}
	speaker.Play(b)
	return b, nil
}

// SetActive switches the tone on or off. Called from the emulation loop
// while the speaker goroutine is streaming, hence the atomic.
func (b *Beeper) SetActive(on bool) {
	var v int32
	if on {
		v = 1
	}
	atomic.StoreInt32(&b.active, v)
}

// Stream implements beep.Streamer.
func (b *Beeper) Stream(samples [][2]float64) (int, bool) {
	on := atomic.LoadInt32(&b.active) == 1
	for i := range samples {
		var v float64
		if on {
			v = volume * math.Sin(2*math.Pi*b.phase)
			b.phase += b.step
			if b.phase >= 1 {
				b.phase--
			}
		}
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

// Err implements beep.Streamer. The tone generator cannot fail.
func (b *Beeper) Err() error {
	return nil
}
