package stream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/matt-g-everett/keyframer/keyframe"
)

// A Sink receives every frame the Controller produces.
type Sink interface {
	SendFrame(f *Frame) error
}

// Controller drives a timeline at a fixed frame rate and fans the frames out
// to sinks. Triggers may arrive from any goroutine; the player is only
// touched by the goroutine calling Run.
type Controller struct {
	player    *keyframe.Player[AnimationValues, string]
	frameTime time.Duration
	triggers  chan string
	trigger   string
	sinks     []Sink

	mu     sync.RWMutex
	latest *Frame
}

// NewController creates an instance of a Controller. Unless autoplay is set,
// nothing plays until the first trigger.
func NewController(timeline *keyframe.Timeline[AnimationValues], playback PlaybackConfig) *Controller {
	c := new(Controller)

	var opts []keyframe.Option
	if playback.Repeat {
		opts = append(opts, keyframe.Looping())
	}
	if playback.Autoplay {
		c.player = keyframe.NewPlayer[AnimationValues, string](timeline, opts...)
	} else {
		c.player = keyframe.NewTriggeredPlayer(timeline, "", opts...)
	}

	frameRate := playback.FrameRate
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}
	c.frameTime = time.Second / time.Duration(frameRate)
	c.triggers = make(chan string, 8)

	return c
}

// AddSink registers a frame consumer. Call before Run.
func (c *Controller) AddSink(s Sink) {
	c.sinks = append(c.sinks, s)
}

// Trigger queues a trigger token. A token different from the current one
// restarts the timeline on the next tick.
func (c *Controller) Trigger(token string) {
	select {
	case c.triggers <- token:
	default:
		log.Printf("Trigger queue full, dropping %q", token)
	}
}

// Latest returns the most recent frame, or nil before the first tick.
func (c *Controller) Latest() *Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// Duration is the length of one play through.
func (c *Controller) Duration() time.Duration {
	return c.player.Timeline().Duration()
}

// CalculateFrame advances playback by delta and returns the new frame.
func (c *Controller) CalculateFrame(delta time.Duration) *Frame {
	previous := c.player.Phase()
	values := c.player.Tick(delta, c.trigger)
	f := NewFrame(c.player.Elapsed(), c.player.Phase(), c.trigger, values)

	if phase := c.player.Phase(); phase != previous {
		log.Printf("Playback %v -> %v at %v", previous, phase, c.player.Elapsed())
	}

	c.mu.Lock()
	c.latest = f
	c.mu.Unlock()

	return f
}

func (c *Controller) publish(f *Frame) {
	for _, s := range c.sinks {
		if err := s.SendFrame(f); err != nil {
			log.Printf("Failed to send frame: %v", err)
		}
	}
}

// Run ticks the timeline until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.frameTime)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case token := <-c.triggers:
			if token != c.trigger {
				log.Printf("Trigger %q", token)
			}
			c.trigger = token
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			c.publish(c.CalculateFrame(delta))
		}
	}
}
