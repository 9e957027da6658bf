package audio

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
)

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for i := 0; i < k; i++ {
			v := buf[i][0]
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		n += k
		if !ok {
			return n, peak
		}
	}
}

func TestSoundsHaveExpectedLength(t *testing.T) {
	tests := []struct {
		name string
		s    beep.Streamer
		want time.Duration
	}{
		{"shot", shotSound(sampleRate), 60 * time.Millisecond},
		{"hit", hitSound(sampleRate), 60 * time.Millisecond},
		{"destroyed", destroyedSound(sampleRate), 350 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, peak := drain(tt.s)
			want := sampleRate.N(tt.want)
			if n < want-2 || n > want+2 {
				t.Errorf("samples = %d, want about %d", n, want)
			}
			if peak == 0 || peak > 1 {
				t.Errorf("peak = %v, want in (0, 1]", peak)
			}
		})
	}
}

func TestPlayerQueuesSounds(t *testing.T) {
	played := make(chan beep.Streamer, 4)
	p := newPlayer(50, log.New(io.Discard), func(s beep.Streamer) { played <- s })
	defer p.Close()

	p.Shot()
	p.Destroyed()

	for i := 0; i < 2; i++ {
		select {
		case s := <-played:
			if n, _ := drain(s); n == 0 {
				t.Errorf("sound %d was empty", i)
			}
		case <-time.After(time.Second):
			t.Fatalf("sound %d was not played", i)
		}
	}
}

func TestPlayerMuted(t *testing.T) {
	played := make(chan beep.Streamer, 4)
	p := newPlayer(0, log.New(io.Discard), func(s beep.Streamer) { played <- s })
	defer p.Close()

	p.Hit()
	select {
	case <-played:
		t.Fatal("muted player produced a sound")
	case <-time.After(50 * time.Millisecond):
	}

	p.SetVolume(100)
	p.Hit()
	select {
	case <-played:
	case <-time.After(time.Second):
		t.Fatal("sound not played after unmuting")
	}
}

func TestEnqueueNeverBlocks(t *testing.T) {
	block := make(chan struct{})
	p := newPlayer(100, log.New(io.Discard), func(beep.Streamer) { <-block })
	defer func() {
		close(block)
		p.Close()
	}()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			p.Shot()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked")
	}
}

func TestCloseIsSafeFromManyGoroutines(t *testing.T) {
	p := newPlayer(100, log.New(io.Discard), func(beep.Streamer) {})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Close()
		}()
	}
	wg.Wait()

	select {
	case <-p.done:
	default:
		t.Fatal("done not closed")
	}
}
