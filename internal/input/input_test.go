package input

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// newTestStream returns a stream fed by hand, with a controllable clock.
func newTestStream() (*Stream, *time.Time) {
	now := time.Unix(1000, 0)
	s := newStream()
	s.now = func() time.Time { return now }
	return s, &now
}

func feed(s *Stream, keys string) {
	for i := 0; i < len(keys); i++ {
		s.ch <- keys[i]
	}
}

func TestTapsAndInterruptsAreCounted(t *testing.T) {
	s, _ := newTestStream()
	feed(s, " \r p")

	in := ReadInput(s)
	assert.Equal(t, 3, in.Taps)
	assert.Equal(t, 1, in.Interrupts)
	assert.False(t, in.Quit)

	// Presses are consumed once.
	in = ReadInput(s)
	assert.Zero(t, in.Taps)
	assert.Zero(t, in.Interrupts)
}

func TestArrowKeysHoldForAWhile(t *testing.T) {
	s, now := newTestStream()
	feed(s, "\x1b[D\x1b[A")

	in := ReadInput(s)
	assert.True(t, in.Left)
	assert.True(t, in.Up)
	assert.False(t, in.Right)
	assert.Zero(t, in.Taps)

	*now = now.Add(keyHoldDuration / 2)
	in = ReadInput(s)
	assert.True(t, in.Left)

	*now = now.Add(keyHoldDuration)
	in = ReadInput(s)
	assert.False(t, in.Left)
	assert.False(t, in.Up)
}

func TestWASD(t *testing.T) {
	s, _ := newTestStream()
	feed(s, "ds")

	in := ReadInput(s)
	assert.True(t, in.Right)
	assert.True(t, in.Down)
	assert.False(t, in.Left)
}

func TestQuit(t *testing.T) {
	for _, key := range []string{"q", "Q", "\x03"} {
		s, _ := newTestStream()
		feed(s, key)
		assert.True(t, ReadInput(s).Quit, "%q", key)
	}
}

func TestClosedReaderQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader(" ")))

	assert.Eventually(t, func() bool {
		return ReadInput(s).Quit
	}, time.Second, time.Millisecond)
	assert.True(t, s.Closed())
}

func TestStopReleasesBlockedReader(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	s := StartStream(bufio.NewReader(pr))

	go func() { _, _ = pw.Write([]byte(strings.Repeat("x", 300))) }()
	// Nothing drains the stream, so the reader ends up blocked on a full buffer.
	assert.Eventually(t, func() bool { return len(s.ch) == cap(s.ch) }, time.Second, time.Millisecond)

	s.Stop()
	s.Stop()
	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine still blocked after Stop")
	}
	assert.Len(t, s.ch, cap(s.ch))
}
