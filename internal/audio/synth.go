package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a finite oscillator whose pitch glides linearly from one
// frequency to another over its duration.
type tone struct {
	from, to float64
	wave     Wave
	rate     beep.SampleRate
	total    int
	pos      int
	phase    float64
	rng      *rand.Rand
}

// newTone creates a tone. Use the same from and to for a steady pitch.
func newTone(from, to float64, d time.Duration, wave Wave, rate beep.SampleRate) *tone {
	return &tone{
		from:  from,
		to:    to,
		wave:  wave,
		rate:  rate,
		total: rate.N(d),
		rng:   rand.New(rand.NewSource(int64(from*1000 + to))),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}

		var v float64
		switch t.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2 * (t.phase - 0.5)
		case WaveNoise:
			v = t.rng.Float64()*2 - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		progress := float64(t.pos) / float64(t.total)
		freq := t.from + (t.to-t.from)*progress
		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// envelope fades a stream in over attack and out over the final release.
type envelope struct {
	s       beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		s:       s,
		attack:  rate.N(attack),
		release: rate.N(release),
		total:   rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		if e.pos >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.attack > 0 && e.pos < e.attack {
			vol = float64(e.pos) / float64(e.attack)
		}
		if e.release > 0 && e.pos >= e.total-e.release {
			vol = math.Max(float64(e.total-e.pos)/float64(e.release), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// volume scales a stream linearly; zero or less is silent.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// shaped builds an enveloped tone.
func shaped(from, to float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	attack := 5 * time.Millisecond
	release := d / 3
	return newEnvelope(newTone(from, to, d, wave, rate), d, attack, release, rate)
}

// wingSound is a short rising chirp.
func wingSound(rate beep.SampleRate) beep.Streamer {
	return volume(shaped(420, 780, 90*time.Millisecond, WaveSquare, rate), 0.25)
}

// pointSound is a two-note chime.
func pointSound(rate beep.SampleRate) beep.Streamer {
	return volume(beep.Seq(
		shaped(987.77, 987.77, 70*time.Millisecond, WaveSquare, rate),
		shaped(1318.51, 1318.51, 160*time.Millisecond, WaveSquare, rate),
	), 0.2)
}

// hitSound is a short noise crack over a low thump.
func hitSound(rate beep.SampleRate) beep.Streamer {
	return volume(beep.Mix(
		volume(shaped(0, 0, 120*time.Millisecond, WaveNoise, rate), 0.6),
		volume(shaped(140, 60, 120*time.Millisecond, WaveSine, rate), 0.8),
	), 0.5)
}

// dieSound is a falling saw glide.
func dieSound(rate beep.SampleRate) beep.Streamer {
	return volume(shaped(600, 90, 450*time.Millisecond, WaveSaw, rate), 0.2)
}

// swooshSound is filtered-sounding noise with a slow attack.
func swooshSound(rate beep.SampleRate) beep.Streamer {
	d := 250 * time.Millisecond
	noise := newTone(0, 0, d, WaveNoise, rate)
	return volume(newEnvelope(noise, d, d/2, d/2, rate), 0.12)
}
