// Package audio plays named sound effects from a resource bundle without
// blocking the game loop. Playback is best effort: failures are logged and
// otherwise ignored.
package audio

import (
	"fmt"
	"io"
	"io/fs"
	"sync"

	"go.uber.org/zap"
)

// Effect names a sound effect resource.
type Effect string

const (
	Explosion Effect = "explosion"
	Collision Effect = "collision"
	Torpedo   Effect = "torpedo"
)

// Extension is the file extension of sound resources.
const Extension = "mp3"

// Resource returns the bundle path of the effect.
func (e Effect) Resource() string {
	return fmt.Sprintf("%s.%s", e, Extension)
}

// Sink outputs a decoded-or-not sound resource.
type Sink interface {
	Play(name string, data []byte) error
}

// Service plays sound effects.
type Service interface {
	Play(effect Effect)
}

// queueSize bounds pending effects; extra requests are dropped.
const queueSize = 32

// Player looks effects up in a bundle and hands them to a sink on its own
// goroutine.
type Player struct {
	bundle fs.FS
	sink   Sink
	logger *zap.Logger

	requests chan Effect
	closing  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// Compile-time check that Player implements Service.
var _ Service = (*Player)(nil)

// NewPlayer starts a player reading resources from bundle.
func NewPlayer(bundle fs.FS, sink Sink, logger *zap.Logger) *Player {
	p := &Player{
		bundle:   bundle,
		sink:     sink,
		logger:   logger.Named("audio"),
		requests: make(chan Effect, queueSize),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Play queues an effect. It never blocks. Effects played after Close are ignored.
func (p *Player) Play(effect Effect) {
	select {
	case <-p.closing:
		return
	default:
	}
	select {
	case p.requests <- effect:
	default:
		p.logger.Debug("dropping sound effect, queue full", zap.String("effect", string(effect)))
	}
}

// Close stops the player after pending effects are handled.
func (p *Player) Close() {
	p.once.Do(func() {
		close(p.closing)
		<-p.done
	})
}

func (p *Player) run() {
	defer close(p.done)
	for {
		select {
		case effect := <-p.requests:
			p.handle(effect)
		case <-p.closing:
			for {
				select {
				case effect := <-p.requests:
					p.handle(effect)
				default:
					return
				}
			}
		}
	}
}

func (p *Player) handle(effect Effect) {
	if err := p.play(effect); err != nil {
		p.logger.Warn("sound effect failed", zap.String("effect", string(effect)), zap.Error(err))
	}
}

func (p *Player) play(effect Effect) error {
	name := effect.Resource()
	if p.bundle == nil {
		return fmt.Errorf("load %s: %w", name, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(p.bundle, name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	if err := p.sink.Play(name, data); err != nil {
		return fmt.Errorf("play %s: %w", name, err)
	}
	return nil
}

// BellSink rings the terminal bell for every effect.
type BellSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBellSink creates a sink writing BEL to w.
func NewBellSink(w io.Writer) *BellSink {
	return &BellSink{w: w}
}

// Play implements Sink.
func (b *BellSink) Play(_ string, _ []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.w, "\a")
	return err
}

// NopSink discards every effect.
type NopSink struct{}

// Play implements Sink.
func (NopSink) Play(string, []byte) error { return nil }
