package evaluator

import "sort"

// Event is a named marker on a Track's timeline.
type Event struct {
	Name string
	Time float32
	Data map[string]any
}

// EventHandler receives events fired by a Clip as its playhead crosses them.
type EventHandler func(clip *Clip, ev Event)

// Events is a time-ordered list of events.
type Events struct {
	events []Event
}

// NewEvents copies the given events and sorts them by time. Events sharing a time keep their order.
func NewEvents(events ...Event) *Events {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	return &Events{events: sorted}
}

// Events returns the sorted events.
func (e *Events) Events() []Event {
	if e == nil {
		return nil
	}
	return e.events
}

// Len returns the number of events.
func (e *Events) Len() int {
	if e == nil {
		return 0
	}
	return len(e.events)
}

// forEachInRange calls fn, in time order, for every event between from and to. Each bound is
// included only when requested.
func (e *Events) forEachInRange(from, to float32, includeFrom, includeTo bool, fn func(ev Event)) {
	if e == nil {
		return
	}
	for _, ev := range e.events {
		if ev.Time < from || (ev.Time == from && !includeFrom) {
			continue
		}
		if ev.Time > to || (ev.Time == to && !includeTo) {
			break
		}
		fn(ev)
	}
}

// forEachInRangeReverse is forEachInRange in descending time order.
func (e *Events) forEachInRangeReverse(from, to float32, includeFrom, includeTo bool, fn func(ev Event)) {
	if e == nil {
		return
	}
	for i := len(e.events) - 1; i >= 0; i-- {
		ev := e.events[i]
		if ev.Time > to || (ev.Time == to && !includeTo) {
			continue
		}
		if ev.Time < from || (ev.Time == from && !includeFrom) {
			break
		}
		fn(ev)
	}
}
