// Package audio plays the game's sound effects through the system speaker.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// sampleRate is the output rate for all effects.
const sampleRate = beep.SampleRate(44100)

// Sound identifies a cached effect.
type Sound int

const (
	SoundShot Sound = iota
	SoundHit
	SoundDestroyed
	soundCount
)

// Player renders each effect once and mixes them onto the speaker.
// Calls never block the caller; requests are dropped when the queue is full.
type Player struct {
	buffers [soundCount]*beep.Buffer

	mu        sync.Mutex
	volume    float64 // log2 gain for effects.Volume
	silent    bool
	queue     chan Sound
	done      chan struct{}
	closeOnce sync.Once
	play      func(beep.Streamer)
	logger    *log.Logger
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Shot()      {}
func (Nop) Hit()       {}
func (Nop) Destroyed() {}

// New initialises the speaker and returns a Player at the given volume percent.
// If the speaker cannot be opened an error is returned; callers fall back to Nop.
func New(volumePercent int, logger *log.Logger) (*Player, error) {
	mixer := &beep.Mixer{}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(mixer)

	p := newPlayer(volumePercent, logger, func(s beep.Streamer) {
		speaker.Lock()
		mixer.Add(s)
		speaker.Unlock()
	})
	return p, nil
}

func newPlayer(volumePercent int, logger *log.Logger, play func(beep.Streamer)) *Player {
	if logger == nil {
		logger = log.Default()
	}
	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	p := &Player{
		queue:  make(chan Sound, 32),
		done:   make(chan struct{}),
		play:   play,
		logger: logger,
	}
	p.buffers[SoundShot] = render(format, shotSound(sampleRate))
	p.buffers[SoundHit] = render(format, hitSound(sampleRate))
	p.buffers[SoundDestroyed] = render(format, destroyedSound(sampleRate))
	p.SetVolume(volumePercent)

	go p.loop()
	return p
}

// SetVolume sets the output level in percent. Zero mutes.
func (p *Player) SetVolume(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if percent <= 0 {
		p.silent = true
		p.volume = 0
		return
	}
	if percent > 100 {
		percent = 100
	}
	p.silent = false
	p.volume = math.Log2(float64(percent) / 100)
}

// Shot plays the firing sound.
func (p *Player) Shot() { p.enqueue(SoundShot) }

// Hit plays the sound of a bullet striking a surviving rocket.
func (p *Player) Hit() { p.enqueue(SoundHit) }

// Destroyed plays the explosion sound.
func (p *Player) Destroyed() { p.enqueue(SoundDestroyed) }

// Close stops the playback goroutine. The speaker itself stays open because
// it is process-wide.
func (p *Player) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}

func (p *Player) enqueue(s Sound) {
	select {
	case p.queue <- s:
	default:
		p.logger.Debug("audio queue full, dropping sound", "sound", s)
	}
}

func (p *Player) loop() {
	for {
		select {
		case <-p.done:
			return
		case s := <-p.queue:
			p.mu.Lock()
			volume, silent := p.volume, p.silent
			p.mu.Unlock()
			if silent {
				continue
			}
			buf := p.buffers[s]
			p.play(&effects.Volume{
				Streamer: buf.Streamer(0, buf.Len()),
				Base:     2,
				Volume:   volume,
			})
		}
	}
}
