package evaluator

import "fmt"

// Track is an immutable bundle of keyframe inputs, outputs and the curves linking them.
// Tracks are shared read-only between clips; all per-playback state lives in a Snapshot.
type Track struct {
	name     string
	duration float32
	inputs   []*Data
	outputs  []*Data
	curves   []*Curve
	events   *Events
}

// NewTrack validates and creates a Track.
//
// Parameters:
//   - name: the track name, used as the default clip name
//   - duration: the playback length in seconds
//   - inputs: keyframe time buffers (one component each)
//   - outputs: keyframe value buffers
//   - curves: curves referencing inputs and outputs by index
//   - events: optional timeline events, may be nil
//
// Returns:
//   - *Track: the new track
//   - error: ErrInvalidTrack if a curve references a missing buffer or a buffer is too short
func NewTrack(name string, duration float32, inputs, outputs []*Data, curves []*Curve, events *Events) (*Track, error) {
	for i, in := range inputs {
		if in == nil || in.components != 1 {
			return nil, fmt.Errorf("%w: input %d must have exactly one component", ErrInvalidTrack, i)
		}
	}
	for i, c := range curves {
		if c.input < 0 || c.input >= len(inputs) {
			return nil, fmt.Errorf("%w: curve %d references input %d of %d", ErrInvalidTrack, i, c.input, len(inputs))
		}
		if c.output < 0 || c.output >= len(outputs) || outputs[c.output] == nil {
			return nil, fmt.Errorf("%w: curve %d references output %d of %d", ErrInvalidTrack, i, c.output, len(outputs))
		}
		keys := inputs[c.input].Len()
		if c.interpolation == InterpolationCubic {
			keys *= 3
		}
		if outputs[c.output].Len() < keys {
			return nil, fmt.Errorf("%w: curve %d output holds %d elements, need %d", ErrInvalidTrack, i, outputs[c.output].Len(), keys)
		}
	}
	if events == nil {
		events = NewEvents()
	}
	return &Track{
		name:     name,
		duration: duration,
		inputs:   inputs,
		outputs:  outputs,
		curves:   curves,
		events:   events,
	}, nil
}

func (t *Track) Name() string {
	return t.name
}

func (t *Track) Duration() float32 {
	return t.duration
}

func (t *Track) Inputs() []*Data {
	return t.inputs
}

func (t *Track) Outputs() []*Data {
	return t.outputs
}

func (t *Track) Curves() []*Curve {
	return t.curves
}

func (t *Track) Events() *Events {
	return t.events
}

// Eval samples every curve at time into the snapshot. All input caches advance first so
// curves sharing an input share one segment search.
//
// Parameters:
//   - time: the sample time
//   - snapshot: a snapshot created for this track
func (t *Track) Eval(time float32, snapshot *Snapshot) {
	snapshot.time = time

	for i, in := range t.inputs {
		snapshot.cache[i].Update(time, in.data)
	}

	for i, c := range t.curves {
		snapshot.cache[c.input].Eval(snapshot.results[i], c.interpolation, t.outputs[c.output])
	}
}

// Snapshot holds the per-playback evaluation state of a Track: one Cache per input and one
// result buffer per curve.
type Snapshot struct {
	name    string
	time    float32
	cache   []*Cache
	results [][]float32
}

// NewSnapshot allocates a snapshot sized for track. Its time starts at -1 so the first
// evaluation at any non-negative time always runs.
func NewSnapshot(track *Track) *Snapshot {
	s := &Snapshot{
		name:    track.name + "Snapshot",
		time:    -1,
		cache:   make([]*Cache, len(track.inputs)),
		results: make([][]float32, len(track.curves)),
	}
	for i := range track.inputs {
		s.cache[i] = NewCache()
	}
	for i, c := range track.curves {
		s.results[i] = make([]float32, track.outputs[c.output].components)
	}
	return s
}

func (s *Snapshot) Name() string {
	return s.name
}

// Time returns the time of the last evaluation.
func (s *Snapshot) Time() float32 {
	return s.time
}

// Results returns the sampled values, one buffer per curve in track order.
func (s *Snapshot) Results() [][]float32 {
	return s.results
}

// Result returns the sampled value of curve i.
func (s *Snapshot) Result(i int) []float32 {
	return s.results[i]
}
