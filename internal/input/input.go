// Package input turns raw terminal bytes into per-frame game input.
package input

import (
	"bufio"
	"sync"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, so look keys stay down between repeats.
const keyHoldDuration = 120 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit bool

	// Look directions are held while the key repeats.
	Left  bool
	Right bool
	Up    bool
	Down  bool

	// Taps and Interrupts count presses seen since the previous frame.
	Taps       int
	Interrupts int

	Pressed []byte
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks key state between frames.
type Stream struct {
	ch     chan byte
	done   chan struct{}
	exited chan struct{} // Closed when the reader goroutine returns
	stop   sync.Once
	state  keyState
	now    func() time.Time
	closed bool
}

func newStream() *Stream {
	return &Stream{
		ch:     make(chan byte, 128),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		now:    time.Now,
	}
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r ends, or after Stop once it holds a byte to deliver.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		defer close(s.exited)
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop tells the reader goroutine to quit instead of waiting for a reader
// that no longer drains the stream. It is safe to call more than once.
func (s *Stream) Stop() {
	s.stop.Do(func() { close(s.done) })
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
func ReadInput(s *Stream) Input {
	now := s.now()
	var buf []byte

drain:
	for {
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

	in := Input{Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}

		applyByte(&in, &s.state, b, now)
	}

	// Build look state - keys are "pressed" if seen within hold duration
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration

	// A closed stream means the player is gone.
	if s.closed {
		in.Quit = true
	}
	return in
}

// applyByte records a single-byte key press.
func applyByte(in *Input, state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl+C arrives as a byte in raw mode
		in.Quit = true
	case 'a', 'A':
		state.left = now
	case 'd', 'D':
		state.right = now
	case 'w', 'W':
		state.up = now
	case 's', 'S':
		state.down = now
	case ' ', '\n', '\r':
		in.Taps++
	case 'p', 'P':
		in.Interrupts++
	}
}
