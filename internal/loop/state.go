package loop

import "time"

// ClientState holds per-game state owned by the loop goroutine.
type ClientState struct {
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	fps           float64       // Smoothed frame rate
	lastInput     time.Time     // Last time any key was pressed
	isInactive    bool          // Whether the client is in inactive warning state
	shuttingDown  bool          // Server announced shutdown
	shutdownTimer time.Duration // Countdown before auto-disconnect on shutdown
	lastStatus    string        // Status drawn in the previous frame
}

// NewClientState creates a new initialized client state.
func NewClientState(now time.Time) *ClientState {
	return &ClientState{
		Running:   true,
		lastInput: now,
	}
}

// observeFrame folds a frame duration into the smoothed frame rate.
func (s *ClientState) observeFrame(dt time.Duration) {
	s.delta = dt
	if dt <= 0 {
		return
	}
	current := 1 / dt.Seconds()
	if s.fps == 0 {
		s.fps = current
		return
	}
	s.fps += (current - s.fps) * fpsSmoothing
}
