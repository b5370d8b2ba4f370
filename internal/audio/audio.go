// Package audio plays verse recitations, one sound at a time.
package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/logger"
)

// ErrNoPlayer is returned when no player backend is available
var ErrNoPlayer = fmt.Errorf("%w: no audio player available", common.ErrAudio)

// Player is one loaded sound. Release frees it; a released player is never
// reused.
type Player interface {
	Play() error
	Pause() error
	Resume() error
	Stop() error
	Release() error
	// Done is closed when playback ends on its own or the player is released
	Done() <-chan struct{}
}

// Loader acquires a player for a url
type Loader func(ctx context.Context, url string) (Player, error)

// State of the controller
type State int

const (
	Stopped State = iota
	Loading
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Controller owns at most one active player. Starting a new sound stops and
// releases the previous one before acquiring the next.
type Controller struct {
	load Loader
	log  logger.Logger

	mu     sync.Mutex
	player Player
	url    string
	state  State
	gen    int
}

// NewController creates a controller that acquires players with load
func NewController(load Loader, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{load: load, log: log.With(logger.String("component", "audio"))}
}

// Start plays url, replacing whatever was playing
func (c *Controller) Start(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("start playback: empty url")
	}

	c.mu.Lock()
	c.releaseLocked()
	c.gen++
	gen := c.gen
	c.url = url
	c.state = Loading
	c.mu.Unlock()

	p, err := c.load(ctx, url)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// superseded while loading
		if p != nil {
			_ = p.Release()
		}
		return err
	}
	if err != nil {
		c.state = Stopped
		c.url = ""
		c.log.Error("load audio", logger.String("url", url), logger.Error(err))
		return err
	}
	if err := p.Play(); err != nil {
		_ = p.Release()
		c.state = Stopped
		c.url = ""
		c.log.Error("play audio", logger.String("url", url), logger.Error(err))
		return err
	}

	c.player = p
	c.state = Playing
	go c.watch(p, gen)
	return nil
}

// watch resets the state when a sound finishes by itself
func (c *Controller) watch(p Player, gen int) {
	<-p.Done()
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen && c.player == p {
		_ = p.Release()
		c.player = nil
		c.url = ""
		c.state = Stopped
	}
}

// Toggle pauses or resumes url when it is the active sound, otherwise starts
// it
func (c *Controller) Toggle(ctx context.Context, url string) error {
	c.mu.Lock()
	if c.player != nil && c.url == url {
		defer c.mu.Unlock()
		switch c.state {
		case Playing:
			if err := c.player.Pause(); err != nil {
				return err
			}
			c.state = Paused
		case Paused:
			if err := c.player.Resume(); err != nil {
				return err
			}
			c.state = Playing
		}
		return nil
	}
	c.mu.Unlock()
	return c.Start(ctx, url)
}

// StopIfActive stops url when it is the active sound and reports whether it
// was. Used by lists where pressing play twice means stop.
func (c *Controller) StopIfActive(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.url != url || c.state == Stopped {
		return false
	}
	c.releaseLocked()
	return true
}

// Stop ends playback and releases the player
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked()
}

// Close releases any held player. Call it when the screen goes away.
func (c *Controller) Close() error {
	c.Stop()
	return nil
}

// releaseLocked must be called with mu held
func (c *Controller) releaseLocked() {
	if c.player != nil {
		if err := c.player.Stop(); err != nil {
			c.log.Warn("stop audio", logger.Error(err))
		}
		if err := c.player.Release(); err != nil {
			c.log.Warn("release audio", logger.Error(err))
		}
	}
	// bump the generation so an in-flight Start discards its player
	if c.state == Loading {
		c.gen++
	}
	c.player = nil
	c.url = ""
	c.state = Stopped
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the active url, empty when stopped
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}
