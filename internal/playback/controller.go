// Package playback tracks whether the edited effect is playing and for how
// long.
package playback

import (
	"log"
	"time"
)

type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	}
	return "Unknown"
}

// Source is the emitter connection the controller gates. Connect must
// replace any existing connection.
type Source interface {
	Connect(looping bool, duration float64)
	Disconnect()
	Connected() bool
}

// Controller is the play/pause/loop state machine plus the elapsed-time
// watch shown in the editor.
type Controller struct {
	src      Source
	state    State
	elapsed  time.Duration
	looping  bool
	duration float64

	// OnConnect runs after every (re)connection of the emitter.
	OnConnect func()
}

// New starts in Playing with the emitter connected and the watch at zero.
func New(src Source, looping bool, duration float64) *Controller {
	c := &Controller{src: src, looping: looping, duration: duration}
	c.start()
	return c
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Elapsed() time.Duration { return c.elapsed }

func (c *Controller) Looping() bool { return c.looping }

// Active reports whether the simulation should advance this frame.
func (c *Controller) Active() bool { return c.state != Paused }

func (c *Controller) start() {
	c.src.Connect(c.looping, c.duration)
	c.elapsed = 0
	c.state = Playing
	if c.OnConnect != nil {
		c.OnConnect()
	}
}

// Play resumes from Paused or restarts from Stopped.
func (c *Controller) Play() {
	switch c.state {
	case Stopped:
		c.start()
	case Paused:
		c.state = Playing
	}
}

// Pause holds the watch; the emitter connection is left alone.
func (c *Controller) Pause() {
	if c.state == Playing {
		c.state = Paused
	}
}

func (c *Controller) TogglePause() {
	if c.state == Playing {
		c.Pause()
	} else {
		c.Play()
	}
}

// Stop disconnects the emitter and resets the watch.
func (c *Controller) Stop() {
	c.src.Disconnect()
	c.toStopped()
}

// Restart reconnects from scratch regardless of the current state.
func (c *Controller) Restart() {
	c.start()
}

func (c *Controller) toStopped() {
	c.state = Stopped
	c.elapsed = 0
}

// SetDuration changes the length used by the next non-looping connection.
func (c *Controller) SetDuration(d float64) { c.duration = d }

// SetLooping applies a looping toggle. Turning looping off disconnects the
// emitter at once; turning it on reconnects with an endless emitter.
func (c *Controller) SetLooping(on bool) {
	if on == c.looping {
		return
	}
	c.looping = on
	if !on {
		c.src.Disconnect()
		c.toStopped()
		return
	}
	if c.state == Paused {
		c.src.Connect(true, c.duration)
		if c.OnConnect != nil {
			c.OnConnect()
		}
		return
	}
	c.start()
}

// Reset re-arms the controller for a freshly loaded preset.
func (c *Controller) Reset(looping bool, duration float64) {
	c.looping = looping
	c.duration = duration
	c.start()
}

// Advance moves the watch by dt seconds and notices when a one-shot
// emitter has run out.
func (c *Controller) Advance(dt float64) {
	if c.state == Playing {
		c.elapsed += time.Duration(dt * float64(time.Second))
	}
	if c.state != Stopped && !c.src.Connected() {
		log.Printf("[Playback] emitter finished after %v", c.elapsed)
		c.toStopped()
	}
}
