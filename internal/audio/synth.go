package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// Wave selects an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveNoise
)

// oscillator produces a fixed-length tone.
type oscillator struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newOscillator(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:   freq,
		length: rate.N(d),
		wave:   wave,
		rate:   rate,
		rng:    rand.New(rand.NewSource(int64(freq*1000) + int64(wave))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}
		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveNoise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0] = v
		samples[i][1] = v
		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay scales a stream by exp(-rate·t), giving percussive tails.
type decay struct {
	streamer beep.Streamer
	rate     float64
	sr       beep.SampleRate
	pos      int
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		t := float64(d.pos) / float64(d.sr)
		g := math.Exp(-t * d.rate)
		samples[i][0] *= g
		samples[i][1] *= g
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// gain multiplies a stream by a constant.
func gain(s beep.Streamer, g float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			samples[i][0] *= g
			samples[i][1] *= g
		}
		return n, ok
	})
}

// shotSound is a short falling chirp.
func shotSound(sr beep.SampleRate) beep.Streamer {
	return beep.Seq(
		&decay{streamer: newOscillator(1320, 25*time.Millisecond, WaveSquare, sr), rate: 30, sr: sr},
		&decay{streamer: newOscillator(880, 35*time.Millisecond, WaveSquare, sr), rate: 40, sr: sr},
	)
}

// hitSound is a dull tick.
func hitSound(sr beep.SampleRate) beep.Streamer {
	sine, err := generators.SineTone(sr, 220)
	if err != nil {
		sine = newOscillator(220, 60*time.Millisecond, WaveSine, sr)
	}
	return &decay{streamer: beep.Take(sr.N(60*time.Millisecond), sine), rate: 40, sr: sr}
}

// destroyedSound is a noise burst over a low rumble.
func destroyedSound(sr beep.SampleRate) beep.Streamer {
	d := 350 * time.Millisecond
	return &decay{
		streamer: beep.Mix(
			gain(newOscillator(0, d, WaveNoise, sr), 0.35),
			gain(newOscillator(70, d, WaveSine, sr), 0.5),
		),
		rate: 9,
		sr:   sr,
	}
}

// render plays s into a buffer so it can be replayed cheaply.
func render(format beep.Format, s beep.Streamer) *beep.Buffer {
	buf := beep.NewBuffer(format)
	buf.Append(s)
	return buf
}
