package stream

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matt-g-everett/keyframer/keyframe"
	"github.com/matt-g-everett/keyframer/util"
	"gopkg.in/yaml.v2"
)

const defaultFrameRate = 30

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Trigger string `yaml:"trigger"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Http struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Playback PlaybackConfig `yaml:"playback"`
	Tracks   []TrackConfig  `yaml:"tracks"`
}

// PlaybackConfig controls how the timeline is driven.
type PlaybackConfig struct {
	FrameRate int  `yaml:"frameRate"`
	Repeat    bool `yaml:"repeat"`
	// Autoplay starts playback on the first tick instead of waiting for a
	// trigger.
	Autoplay bool `yaml:"autoplay"`
}

// TrackConfig animates one property.
type TrackConfig struct {
	Property  string           `yaml:"property"`
	Keyframes []KeyframeConfig `yaml:"keyframes"`
}

// KeyframeConfig describes one keyframe. Target is a number for scalar
// properties, degrees for angle, {x, y} for offset and "#rrggbb" for
// foreground. A spring keyframe without a duration lasts until it settles.
type KeyframeConfig struct {
	Kind     string        `yaml:"kind"`
	Target   interface{}   `yaml:"target"`
	Duration time.Duration `yaml:"duration"`
	Spring   SpringConfig  `yaml:"spring"`
	Curve    string        `yaml:"curve"`
}

// SpringConfig selects a spring by preset, by perceptual duration and
// bounce, or by raw physical parameters.
type SpringConfig struct {
	Preset    string  `yaml:"preset"`
	Duration  float64 `yaml:"duration"`
	Bounce    float64 `yaml:"bounce"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Mass      float64 `yaml:"mass"`
}

// LoadConfig decodes YAML config and fills in defaults.
func LoadConfig(r io.Reader) (Config, error) {
	var c Config
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return c, err
	}

	if c.Playback.FrameRate <= 0 {
		c.Playback.FrameRate = defaultFrameRate
	}
	if c.Http.Addr == "" {
		c.Http.Addr = ":3000"
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = "keyframer/frames"
	}
	if c.Mqtt.Topics.Trigger == "" {
		c.Mqtt.Topics.Trigger = "keyframer/trigger"
	}
	return c, nil
}

// Timeline builds the configured timeline, or the demo timeline when no
// tracks are configured.
func (c Config) Timeline() (*keyframe.Timeline[AnimationValues], error) {
	if len(c.Tracks) == 0 {
		return DemoTimeline()
	}

	specs := make([]keyframe.TrackSpec[AnimationValues], 0, len(c.Tracks))
	for _, t := range c.Tracks {
		p, err := ParseProperty(t.Property)
		if err != nil {
			return nil, err
		}
		spec, err := p.Bind(t.Keyframes)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return keyframe.NewTimeline(NewAnimationValues(), specs...)
}

// Resolve returns the physical spring.
func (c SpringConfig) Resolve() (keyframe.Spring, error) {
	if c.Stiffness != 0 || c.Damping != 0 || c.Mass != 0 {
		s := keyframe.Spring{Stiffness: c.Stiffness, Damping: c.Damping, Mass: c.Mass}
		return s, s.Validate()
	}
	if c.Duration > 0 {
		return keyframe.SpringFromDuration(c.Duration, c.Bounce), nil
	}

	switch strings.ToLower(c.Preset) {
	case "", "smooth":
		return keyframe.Smooth, nil
	case "snappy":
		return keyframe.Snappy, nil
	case "bouncy":
		return keyframe.Bouncy, nil
	}
	return keyframe.Spring{}, fmt.Errorf("unknown spring preset %q", c.Preset)
}

func buildKeyframe[V keyframe.Vector[V]](c KeyframeConfig, target V) (keyframe.Keyframe[V], error) {
	switch strings.ToLower(c.Kind) {
	case "linear":
		return keyframe.LinearKeyframe(target, c.Duration), nil
	case "cubic":
		return keyframe.CubicKeyframe(target, c.Duration), nil
	case "move":
		return keyframe.MoveKeyframe(target), nil
	case "eased":
		curve, err := util.Curve(c.Curve)
		if err != nil {
			return keyframe.Keyframe[V]{}, err
		}
		return keyframe.EasedKeyframe(target, c.Duration, curve), nil
	case "spring":
		spring, err := c.Spring.Resolve()
		if err != nil {
			return keyframe.Keyframe[V]{}, err
		}
		if c.Duration == 0 {
			return keyframe.SettleKeyframe(target, spring), nil
		}
		return keyframe.SpringKeyframe(target, c.Duration, spring), nil
	}
	return keyframe.Keyframe[V]{}, fmt.Errorf("%w: %q", keyframe.ErrKind, c.Kind)
}

// decodeTarget re-decodes a loosely typed YAML value into V.
func decodeTarget[V any](raw interface{}) (V, error) {
	var v V
	if raw == nil {
		return v, fmt.Errorf("missing target")
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return v, err
	}
	err = yaml.UnmarshalStrict(b, &v)
	return v, err
}

func decodeDegrees(raw interface{}) (keyframe.Angle, error) {
	d, err := decodeTarget[float64](raw)
	if err != nil {
		return 0, err
	}
	return keyframe.Degrees(d), nil
}

func decodeColour(raw interface{}) (keyframe.Colour, error) {
	s, err := decodeTarget[string](raw)
	if err != nil {
		return keyframe.Colour{}, err
	}
	return keyframe.Hex(s)
}
