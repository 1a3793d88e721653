// Package audio plays the game's synthesized sound effects through the
// system speaker. Without an audio device every call is a silent no-op.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/floppy/internal/core"
)

const sampleRate = beep.SampleRate(44100)

// Player turns game events into sounds.
type Player struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	mixer   *beep.Mixer
	master  float64
	enabled bool
}

// NewPlayer creates a player with the given master volume (0 to 1).
// It stays silent until Init succeeds.
func NewPlayer(master float64) *Player {
	return &Player{
		rate:   sampleRate,
		mixer:  &beep.Mixer{},
		master: master,
	}
}

// Init opens the speaker. On failure the player stays silent and the error
// is returned for logging.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.enabled {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: cannot open speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.enabled = true
	return nil
}

// Enabled reports whether sounds reach the speaker.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Close stops all playing sounds.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.enabled = false
}

// Play starts the sound for an event, if it has one.
func (p *Player) Play(kind core.EventKind) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}
	s := Sound(kind, p.rate)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(volume(s, p.master))
	speaker.Unlock()
}

// PlayAll plays the sounds of every event in order of emission.
func (p *Player) PlayAll(events []core.Event) {
	for _, e := range events {
		p.Play(e.Kind)
	}
}

// Sound builds the streamer for an event kind, or nil for silent events.
func Sound(kind core.EventKind, rate beep.SampleRate) beep.Streamer {
	switch kind {
	case core.EventFlap:
		return wingSound(rate)
	case core.EventPoint:
		return pointSound(rate)
	case core.EventHit:
		return hitSound(rate)
	case core.EventDie:
		return dieSound(rate)
	case core.EventSwoosh:
		return swooshSound(rate)
	default:
		return nil
	}
}
