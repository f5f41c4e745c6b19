package store

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
)

// TrackRecord is the stored form of an evaluator.Track.
type TrackRecord struct {
	Name     string
	Duration float32
	Inputs   []DataRecord
	Outputs  []DataRecord
	Curves   []CurveRecord
	Events   []EventRecord
}

type DataRecord struct {
	Components int
	Values     []float32
}

type CurveRecord struct {
	Paths         []string
	Input         int
	Output        int
	Interpolation int
}

type EventRecord struct {
	Name string
	Time float32
	Data map[string]any
}

// NewTrackRecord copies track into its stored form.
func NewTrackRecord(track *evaluator.Track) *TrackRecord {
	r := &TrackRecord{
		Name:     track.Name(),
		Duration: track.Duration(),
	}
	for _, d := range track.Inputs() {
		r.Inputs = append(r.Inputs, DataRecord{Components: d.Components(), Values: d.Data()})
	}
	for _, d := range track.Outputs() {
		r.Outputs = append(r.Outputs, DataRecord{Components: d.Components(), Values: d.Data()})
	}
	for _, c := range track.Curves() {
		r.Curves = append(r.Curves, CurveRecord{
			Paths:         c.Paths(),
			Input:         c.Input(),
			Output:        c.Output(),
			Interpolation: int(c.Interpolation()),
		})
	}
	for _, ev := range track.Events().Events() {
		r.Events = append(r.Events, EventRecord{Name: ev.Name, Time: ev.Time, Data: eventData(ev.Data)})
	}
	return r
}

// Track rebuilds the evaluator track, validating buffer references on the way.
func (r *TrackRecord) Track() (*evaluator.Track, error) {
	inputs, err := dataFromRecords(r.Inputs)
	if err != nil {
		return nil, fmt.Errorf("track %q inputs: %w", r.Name, err)
	}
	outputs, err := dataFromRecords(r.Outputs)
	if err != nil {
		return nil, fmt.Errorf("track %q outputs: %w", r.Name, err)
	}

	curves := make([]*evaluator.Curve, 0, len(r.Curves))
	for _, c := range r.Curves {
		curves = append(curves, evaluator.NewCurve(c.Paths, c.Input, c.Output, evaluator.Interpolation(c.Interpolation)))
	}
	events := make([]evaluator.Event, 0, len(r.Events))
	for _, ev := range r.Events {
		events = append(events, evaluator.Event{Name: ev.Name, Time: ev.Time, Data: ev.Data})
	}

	return evaluator.NewTrack(r.Name, r.Duration, inputs, outputs, curves, evaluator.NewEvents(events...))
}

func dataFromRecords(records []DataRecord) ([]*evaluator.Data, error) {
	out := make([]*evaluator.Data, 0, len(records))
	for i, rec := range records {
		d, err := evaluator.NewData(rec.Components, rec.Values)
		if err != nil {
			return nil, fmt.Errorf("buffer %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// eventData rewrites YAML-decoded maps, which gob cannot register, into string-keyed maps.
func eventData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = eventValue(v)
	}
	return out
}

func eventValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return eventData(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = eventValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = eventValue(item)
		}
		return out
	default:
		return v
	}
}

// event payloads decoded from JSON or YAML nest these
func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

func encodeTrack(track *evaluator.Track) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(NewTrackRecord(track)); err != nil {
		return nil, fmt.Errorf("failed to encode track %q: %w", track.Name(), err)
	}
	return buf.Bytes(), nil
}

func decodeTrack(data []byte) (*evaluator.Track, error) {
	var r TrackRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode track: %w", err)
	}
	return r.Track()
}
