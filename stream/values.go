package stream

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/keyframer/keyframe"
)

// AnimationValues is the aggregate animated by a timeline. A renderer applies
// it as rotation, uniform scale, vertical stretch, translation and tint.
type AnimationValues struct {
	Scale               keyframe.Scalar `json:"scale"`
	VerticalStretch     keyframe.Scalar `json:"verticalStretch"`
	VerticalTranslation keyframe.Scalar `json:"verticalTranslation"`
	Angle               keyframe.Angle  `json:"angle"`
	Offset              keyframe.Offset `json:"offset"`
	Foreground          keyframe.Colour `json:"foreground"`
}

// NewAnimationValues creates the resting state: unit scale, no rotation or
// translation, black foreground.
func NewAnimationValues() AnimationValues {
	return AnimationValues{
		Scale:           1,
		VerticalStretch: 1,
		Foreground:      keyframe.Colour{Color: colorful.Color{}},
	}
}

// Property identifies one field of AnimationValues.
type Property int

const (
	PropScale Property = iota
	PropVerticalStretch
	PropVerticalTranslation
	PropAngle
	PropOffset
	PropForeground
	numProperties
)

var (
	scaleProp = keyframe.Property[AnimationValues, keyframe.Scalar]{
		Name: "scale",
		Get:  func(v AnimationValues) keyframe.Scalar { return v.Scale },
		Set:  func(v *AnimationValues, s keyframe.Scalar) { v.Scale = s },
	}
	stretchProp = keyframe.Property[AnimationValues, keyframe.Scalar]{
		Name: "verticalStretch",
		Get:  func(v AnimationValues) keyframe.Scalar { return v.VerticalStretch },
		Set:  func(v *AnimationValues, s keyframe.Scalar) { v.VerticalStretch = s },
	}
	translationProp = keyframe.Property[AnimationValues, keyframe.Scalar]{
		Name: "verticalTranslation",
		Get:  func(v AnimationValues) keyframe.Scalar { return v.VerticalTranslation },
		Set:  func(v *AnimationValues, s keyframe.Scalar) { v.VerticalTranslation = s },
	}
	angleProp = keyframe.Property[AnimationValues, keyframe.Angle]{
		Name: "angle",
		Get:  func(v AnimationValues) keyframe.Angle { return v.Angle },
		Set:  func(v *AnimationValues, a keyframe.Angle) { v.Angle = a },
	}
	offsetProp = keyframe.Property[AnimationValues, keyframe.Offset]{
		Name: "offset",
		Get:  func(v AnimationValues) keyframe.Offset { return v.Offset },
		Set:  func(v *AnimationValues, o keyframe.Offset) { v.Offset = o },
	}
	foregroundProp = keyframe.Property[AnimationValues, keyframe.Colour]{
		Name: "foreground",
		Get:  func(v AnimationValues) keyframe.Colour { return v.Foreground },
		Set:  func(v *AnimationValues, c keyframe.Colour) { v.Foreground = c },
	}
)

// binder builds a track for one property from configured keyframes.
type binder func(keyframes []KeyframeConfig) (keyframe.TrackSpec[AnimationValues], error)

type propertyEntry struct {
	name string
	bind binder
}

var propertyTable = [numProperties]propertyEntry{
	PropScale:               {scaleProp.Name, bindWith(scaleProp, decodeTarget[keyframe.Scalar])},
	PropVerticalStretch:     {stretchProp.Name, bindWith(stretchProp, decodeTarget[keyframe.Scalar])},
	PropVerticalTranslation: {translationProp.Name, bindWith(translationProp, decodeTarget[keyframe.Scalar])},
	PropAngle:               {angleProp.Name, bindWith(angleProp, decodeDegrees)},
	PropOffset:              {offsetProp.Name, bindWith(offsetProp, decodeTarget[keyframe.Offset])},
	PropForeground:          {foregroundProp.Name, bindWith(foregroundProp, decodeColour)},
}

func (p Property) String() string {
	if p >= 0 && p < numProperties {
		return propertyTable[p].name
	}
	return fmt.Sprintf("Property(%d)", int(p))
}

// ParseProperty looks up a Property by its name.
func ParseProperty(name string) (Property, error) {
	for i, e := range propertyTable {
		if e.name == name {
			return Property(i), nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", name)
}

// Bind creates a track for the property from configured keyframes.
func (p Property) Bind(keyframes []KeyframeConfig) (keyframe.TrackSpec[AnimationValues], error) {
	if p < 0 || p >= numProperties {
		return nil, fmt.Errorf("unknown property %d", int(p))
	}
	return propertyTable[p].bind(keyframes)
}

func bindWith[V keyframe.Vector[V]](prop keyframe.Property[AnimationValues, V], decode func(interface{}) (V, error)) binder {
	return func(configs []KeyframeConfig) (keyframe.TrackSpec[AnimationValues], error) {
		keyframes := make([]keyframe.Keyframe[V], 0, len(configs))
		for i, c := range configs {
			target, err := decode(c.Target)
			if err != nil {
				return nil, fmt.Errorf("%s keyframe %d target: %w", prop.Name, i, err)
			}
			k, err := buildKeyframe(c, target)
			if err != nil {
				return nil, fmt.Errorf("%s keyframe %d: %w", prop.Name, i, err)
			}
			keyframes = append(keyframes, k)
		}
		return keyframe.Bind(prop, keyframes...), nil
	}
}

// DemoTimeline builds the heart animation: a wiggle, a squash and stretch,
// a springy scale pop and a jump.
func DemoTimeline() (*keyframe.Timeline[AnimationValues], error) {
	s := func(v float64) keyframe.Scalar { return keyframe.Scalar(v) }
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	bouncy := keyframe.Bouncy

	return keyframe.NewTimeline(NewAnimationValues(),
		keyframe.Bind(angleProp,
			keyframe.CubicKeyframe(keyframe.Angle(0), ms(580)),
			keyframe.CubicKeyframe(keyframe.Degrees(16), ms(125)),
			keyframe.CubicKeyframe(keyframe.Degrees(-16), ms(125)),
			keyframe.CubicKeyframe(keyframe.Degrees(16), ms(125)),
			keyframe.CubicKeyframe(keyframe.Angle(0), ms(125)),
		),
		keyframe.Bind(stretchProp,
			keyframe.CubicKeyframe(s(1.0), ms(100)),
			keyframe.CubicKeyframe(s(0.6), ms(150)),
			keyframe.CubicKeyframe(s(1.5), ms(100)),
			keyframe.CubicKeyframe(s(1.05), ms(150)),
			keyframe.CubicKeyframe(s(1.0), ms(880)),
			keyframe.CubicKeyframe(s(0.8), ms(100)),
			keyframe.CubicKeyframe(s(1.04), ms(400)),
			keyframe.CubicKeyframe(s(1.0), ms(220)),
		),
		keyframe.Bind(scaleProp,
			keyframe.LinearKeyframe(s(1.0), ms(360)),
			keyframe.SpringKeyframe(s(1.5), ms(800), bouncy),
			keyframe.SettleKeyframe(s(1.0), bouncy),
		),
		keyframe.Bind(translationProp,
			keyframe.LinearKeyframe(s(0.0), ms(100)),
			keyframe.SpringKeyframe(s(20.0), ms(150), bouncy),
			keyframe.SpringKeyframe(s(-60.0), ms(1000), bouncy),
			keyframe.SettleKeyframe(s(0.0), bouncy),
		),
	)
}
