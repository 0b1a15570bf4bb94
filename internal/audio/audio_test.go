package audio

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	mu     sync.Mutex
	played []string
	err    error
}

func (s *recordingSink) Play(name string, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, name)
	return s.err
}

func bundle() fstest.MapFS {
	return fstest.MapFS{
		"torpedo.mp3":   {Data: []byte("t")},
		"collision.mp3": {Data: []byte("c")},
	}
}

func TestResourceName(t *testing.T) {
	assert.Equal(t, "explosion.mp3", Explosion.Resource())
	assert.Equal(t, "torpedo.mp3", Torpedo.Resource())
}

func TestPlaysEffectsInOrder(t *testing.T) {
	sink := &recordingSink{}
	p := NewPlayer(bundle(), sink, zap.NewNop())
	p.Play(Torpedo)
	p.Play(Collision)
	p.Close()

	assert.Equal(t, []string{"torpedo.mp3", "collision.mp3"}, sink.played)
}

func TestMissingResourceIsLoggedAndSwallowed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &recordingSink{}
	p := NewPlayer(bundle(), sink, zap.New(core))

	p.Play(Explosion)
	p.Play(Torpedo)
	p.Close()

	assert.Equal(t, []string{"torpedo.mp3"}, sink.played)
	entries := logs.FilterMessage("sound effect failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "explosion", entries[0].ContextMap()["effect"])
}

func TestSinkErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &recordingSink{err: errors.New("device busy")}
	p := NewPlayer(bundle(), sink, zap.New(core))
	p.Play(Torpedo)
	p.Close()

	assert.Equal(t, 1, logs.Len())
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewPlayer(bundle(), NopSink{}, zap.NewNop())
	p.Close()
	p.Close()
}

func TestBellSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewBellSink(&buf).Play("x.mp3", nil))
	assert.Equal(t, "\a", buf.String())
}

func TestPlayAfterCloseIsIgnored(t *testing.T) {
	sink := &recordingSink{}
	p := NewPlayer(bundle(), sink, zap.NewNop())
	p.Close()
	p.Play(Torpedo)
	assert.Empty(t, sink.played)
}

func TestNilBundleIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &recordingSink{}
	p := NewPlayer(nil, sink, zap.New(core))
	p.Play(Collision)
	p.Close()

	assert.Empty(t, sink.played)
	assert.Equal(t, 1, logs.Len())
}
