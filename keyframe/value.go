package keyframe

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// A Vector is a value that a track can animate. Implementations form a
// vector space: sums and scalar multiples of values are values.
type Vector[V any] interface {
	Add(V) V
	Scale(float64) V
	// Norm is the magnitude used for settling checks.
	Norm() float64
}

func sub[V Vector[V]](a, b V) V {
	return a.Add(b.Scale(-1))
}

func zero[V Vector[V]](v V) V {
	return v.Scale(0)
}

// Scalar is a plain number such as a scale factor or a translation.
type Scalar float64

func (s Scalar) Add(o Scalar) Scalar    { return s + o }
func (s Scalar) Scale(f float64) Scalar { return Scalar(float64(s) * f) }
func (s Scalar) Norm() float64          { return math.Abs(float64(s)) }

// Offset is a 2D translation.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnmarshalYAML reads an {x, y} mapping. YAML 1.1 resolves a bare y key to
// the boolean true, which is read as Y.
func (o *Offset) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var m map[interface{}]float64
	if err := unmarshal(&m); err != nil {
		return err
	}
	*o = Offset{}
	for k, v := range m {
		switch k {
		case "x", "X":
			o.X = v
		case "y", "Y", true:
			o.Y = v
		default:
			return fmt.Errorf("unknown offset field %v", k)
		}
	}
	return nil
}

func (o Offset) Add(p Offset) Offset {
	return Offset{X: o.X + p.X, Y: o.Y + p.Y}
}

func (o Offset) Scale(f float64) Offset {
	return Offset{X: o.X * f, Y: o.Y * f}
}

func (o Offset) Norm() float64 {
	return math.Hypot(o.X, o.Y)
}

// Angle is a rotation in radians. Angles are not wrapped, so animating from
// 350 to 370 degrees turns forward by 20 degrees.
type Angle float64

// Degrees creates an Angle from degrees.
func Degrees(d float64) Angle {
	return Angle(d * math.Pi / 180.0)
}

func (a Angle) Add(b Angle) Angle     { return a + b }
func (a Angle) Scale(f float64) Angle { return Angle(float64(a) * f) }
func (a Angle) Norm() float64         { return math.Abs(float64(a)) }

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180.0 / math.Pi
}

// Colour is an RGB colour animated component-wise on its sRGB components.
// Intermediate values may leave the gamut; clamp before display.
type Colour struct {
	colorful.Color
}

// Hex creates a Colour from a "#rrggbb" string.
func Hex(s string) (Colour, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Colour{}, err
	}
	return Colour{c}, nil
}

func (c Colour) Add(o Colour) Colour {
	return Colour{colorful.Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B}}
}

func (c Colour) Scale(f float64) Colour {
	return Colour{colorful.Color{R: c.R * f, G: c.G * f, B: c.B * f}}
}

func (c Colour) Norm() float64 {
	return math.Sqrt(c.R*c.R + c.G*c.G + c.B*c.B)
}

// MarshalText renders the clamped colour as hex.
func (c Colour) MarshalText() ([]byte, error) {
	return []byte(c.Clamped().Hex()), nil
}
