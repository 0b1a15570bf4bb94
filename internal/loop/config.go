package loop

import "time"

// Shutdown
const (
	ShutdownDisplay = 10 * time.Second // How long to show the shutdown message before disconnecting
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)

// fpsSmoothing weights the newest frame in the displayed frame rate.
const fpsSmoothing = 0.1
