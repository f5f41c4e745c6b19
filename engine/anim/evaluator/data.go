package evaluator

import (
	"errors"
	"fmt"
)

// Interpolation selects how a Curve samples between keyframes.
type Interpolation int

const (
	// InterpolationStep holds the value of the left keyframe until the next one.
	InterpolationStep Interpolation = iota
	// InterpolationLinear blends linearly between the surrounding keyframes.
	InterpolationLinear
	// InterpolationCubic samples a cubic Hermite spline. Output data is laid out as
	// (in-tangent, value, out-tangent) triplets per keyframe.
	InterpolationCubic
)

var (
	// ErrInvalidData is returned when a Data buffer length is not a multiple of its component count.
	ErrInvalidData = errors.New("invalid animation data")
	// ErrInvalidTrack is returned when a Track's curves reference missing inputs or outputs.
	ErrInvalidTrack = errors.New("invalid animation track")
)

// String returns the name of the interpolation mode.
func (i Interpolation) String() string {
	switch i {
	case InterpolationStep:
		return "STEP"
	case InterpolationLinear:
		return "LINEAR"
	case InterpolationCubic:
		return "CUBIC"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// Data is a flat buffer of keyframe values with a fixed number of components per element.
// Input data (keyframe times) always has one component.
type Data struct {
	components int
	data       []float32
}

// NewData wraps a flat float buffer as keyframe data.
//
// Parameters:
//   - components: number of floats per element (1 for time inputs, 3 for positions, 4 for quaternions)
//   - data: the flat buffer, which is not copied
//
// Returns:
//   - *Data: the wrapped buffer
//   - error: ErrInvalidData if components < 1 or len(data) is not a multiple of components
func NewData(components int, data []float32) (*Data, error) {
	if components < 1 {
		return nil, fmt.Errorf("%w: components must be positive, got %d", ErrInvalidData, components)
	}
	if len(data)%components != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d components", ErrInvalidData, len(data), components)
	}
	return &Data{components: components, data: data}, nil
}

// Components returns the number of floats per element.
func (d *Data) Components() int {
	return d.components
}

// Data returns the underlying flat buffer.
func (d *Data) Data() []float32 {
	return d.data
}

// Len returns the number of elements in the buffer.
func (d *Data) Len() int {
	return len(d.data) / d.components
}

// Curve maps one input Data (keyframe times) to one output Data (keyframe values) and names
// the property paths it drives.
type Curve struct {
	paths         []string
	input         int
	output        int
	interpolation Interpolation
}

// NewCurve creates a curve.
//
// Parameters:
//   - paths: the property paths driven by this curve
//   - input: index into the owning Track's inputs
//   - output: index into the owning Track's outputs
//   - interpolation: the sampling mode
//
// Returns:
//   - *Curve: the new curve
func NewCurve(paths []string, input, output int, interpolation Interpolation) *Curve {
	return &Curve{
		paths:         paths,
		input:         input,
		output:        output,
		interpolation: interpolation,
	}
}

func (c *Curve) Paths() []string {
	return c.paths
}

func (c *Curve) Input() int {
	return c.input
}

func (c *Curve) Output() int {
	return c.output
}

func (c *Curve) Interpolation() Interpolation {
	return c.interpolation
}
