package stream

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/matt-g-everett/keyframer/keyframe"
)

// FrameSize is the length of a binary encoded Frame.
const FrameSize = 4 + 1 + 6*4 + 3

// Frame is one sampled tick of the timeline.
type Frame struct {
	ElapsedMs int64           `json:"elapsedMs"`
	Phase     keyframe.Phase  `json:"phase"`
	Trigger   string          `json:"trigger"`
	Values    AnimationValues `json:"values"`
}

// NewFrame creates a Frame instance.
func NewFrame(elapsed time.Duration, phase keyframe.Phase, trigger string, values AnimationValues) *Frame {
	f := new(Frame)
	f.ElapsedMs = elapsed.Milliseconds()
	f.Phase = phase
	f.Trigger = trigger
	f.Values = values
	return f
}

// MarshalBinary converts a Frame into little endian binary data: elapsed
// milliseconds, phase, scale, vertical stretch, vertical translation, angle
// in degrees, offset x and y as float32, then the clamped foreground RGB.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 0, FrameSize)
	data = binary.LittleEndian.AppendUint32(data, uint32(f.ElapsedMs))
	data = append(data, byte(f.Phase))

	v := f.Values
	for _, x := range []float64{
		float64(v.Scale),
		float64(v.VerticalStretch),
		float64(v.VerticalTranslation),
		v.Angle.Degrees(),
		v.Offset.X,
		v.Offset.Y,
	} {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(x)))
	}

	r, g, b := v.Foreground.Clamped().RGB255()
	data = append(data, r, g, b)

	return data, nil
}
