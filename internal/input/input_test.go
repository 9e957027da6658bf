package input

import (
	"testing"
	"time"
)

func newTestStream(bytes ...byte) *Stream {
	s := &Stream{ch: make(chan byte, 128), state: keyState{numberVal: -1}}
	for _, b := range bytes {
		s.ch <- b
	}
	return s
}

func TestReadInputKeys(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		check func(Input) bool
	}{
		{"left letter", []byte("a"), func(in Input) bool { return in.Left }},
		{"left arrow", []byte("\x1b[D"), func(in Input) bool { return in.Left && !in.Quit }},
		{"right arrow", []byte("\x1b[C"), func(in Input) bool { return in.Right }},
		{"boost arrow", []byte("\x1b[A"), func(in Input) bool { return in.Boost }},
		{"boost space", []byte(" "), func(in Input) bool { return in.Boost }},
		{"light", []byte("j"), func(in Input) bool { return in.Light && !in.Heavy }},
		{"heavy", []byte("K"), func(in Input) bool { return in.Heavy }},
		{"confirm", []byte("\r"), func(in Input) bool { return in.Confirm }},
		{"pause", []byte("p"), func(in Input) bool { return in.Pause }},
		{"restart", []byte("r"), func(in Input) bool { return in.Restart }},
		{"lone escape quits", []byte("\x1b"), func(in Input) bool { return in.Quit }},
		{"ctrl-c quits", []byte{0x03}, func(in Input) bool { return in.Quit }},
		{"digit", []byte("3"), func(in Input) bool { return in.Number == 3 }},
		{"combo", []byte("ajw"), func(in Input) bool { return in.Left && in.Light && in.Boost }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := readInputAt(newTestStream(tt.bytes...), time.Now())
			if !tt.check(in) {
				t.Fatalf("unexpected input %+v", in)
			}
		})
	}
}

func TestHoldExpires(t *testing.T) {
	s := newTestStream('j')
	now := time.Now()
	if !readInputAt(s, now).Light {
		t.Fatal("light should be held right after the press")
	}
	if readInputAt(s, now.Add(keyHoldDuration)).Light {
		t.Fatal("light should be released after the hold window")
	}
}

func TestResetKeyInput(t *testing.T) {
	s := newTestStream('k')
	now := time.Now()
	readInputAt(s, now)
	ResetKeyInput(s)
	if readInputAt(s, now).Heavy {
		t.Fatal("heavy should be cleared by ResetKeyInput")
	}
}

func TestClosedStream(t *testing.T) {
	s := newTestStream('a')
	close(s.ch)
	in := readInputAt(s, time.Now())
	if !in.Closed || !in.Left {
		t.Fatalf("expected buffered key and closed flag, got %+v", in)
	}
	if !readInputAt(s, time.Now()).Closed {
		t.Fatal("closed flag should persist")
	}
}
