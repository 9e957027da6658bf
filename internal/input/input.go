// Package input turns a raw terminal byte stream into held-key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report repeats, never releases, so holds are inferred.
const keyHoldDuration = 60 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool // Q, Esc or Ctrl-C
	Left    bool // A or Left arrow
	Right   bool // D or Right arrow
	Boost   bool // W, Up arrow or Space
	Light   bool // J
	Heavy   bool // K
	Confirm bool // Enter
	Pause   bool // P
	Restart bool // R
	Number  int  // Last digit pressed within the hold window, or -1
	Pressed []byte
	Closed  bool // The underlying reader has ended
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit      time.Time
	left      time.Time
	right     time.Time
	boost     time.Time
	light     time.Time
	heavy     time.Time
	confirm   time.Time
	pause     time.Time
	restart   time.Time
	number    time.Time
	numberVal int
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:    make(chan byte, 128),
		state: keyState{numberVal: -1},
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
// Uses key state persistence to allow detecting simultaneous key combinations.
func ReadInput(s *Stream) Input {
	return readInputAt(s, time.Now())
}

func readInputAt(s *Stream, now time.Time) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A': // Up arrow
				s.state.boost = now
				i += 2
				continue
			case 'C': // Right arrow
				s.state.right = now
				i += 2
				continue
			case 'D': // Left arrow
				s.state.left = now
				i += 2
				continue
			case 'B': // Down arrow is unused
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	input := Input{
		Quit:    held(s.state.quit),
		Left:    held(s.state.left),
		Right:   held(s.state.right),
		Boost:   held(s.state.boost),
		Light:   held(s.state.light),
		Heavy:   held(s.state.heavy),
		Confirm: held(s.state.confirm),
		Pause:   held(s.state.pause),
		Restart: held(s.state.restart),
		Number:  -1,
		Pressed: buf,
		Closed:  s.closed,
	}

	if held(s.state.number) {
		input.Number = s.state.numberVal
	}

	return input
}

// ResetKeyInput forgets all held keys, e.g. when switching screens so a key
// pressed on one screen is not seen as held on the next.
func ResetKeyInput(s *Stream) {
	s.state = keyState{numberVal: -1}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x1b', '\x03':
		state.quit = now
	case 'a', 'A':
		state.left = now
	case 'd', 'D':
		state.right = now
	case 'w', 'W', ' ':
		state.boost = now
	case 'j', 'J':
		state.light = now
	case 'k', 'K':
		state.heavy = now
	case '\n', '\r':
		state.confirm = now
	case 'p', 'P':
		state.pause = now
	case 'r', 'R':
		state.restart = now
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		state.number = now
		state.numberVal = int(b - '0')
	}
}
