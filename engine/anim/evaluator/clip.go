package evaluator

import "math"

// Clip plays a Track: it owns a playhead, speed, loop flag and blend settings, and a Snapshot
// that is refreshed whenever the playhead moves.
type Clip struct {
	name         string
	track        *Track
	snapshot     *Snapshot
	playing      bool
	time         float32
	speed        float32
	loop         bool
	blendWeight  float32
	blendOrder   float32
	eventHandler EventHandler
}

// NewClip creates a clip for track. Defaults: named after the track, time 0, speed 1,
// playing, looping, blend weight 1 and blend order 0.
//
// Parameters:
//   - track: the track to play
//   - options: functional options to override the defaults
//
// Returns:
//   - *Clip: the new clip
func NewClip(track *Track, options ...ClipBuilderOption) *Clip {
	c := &Clip{
		name:        track.name,
		track:       track,
		snapshot:    NewSnapshot(track),
		playing:     true,
		speed:       1,
		loop:        true,
		blendWeight: 1,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Clip) Name() string {
	return c.name
}

func (c *Clip) SetName(name string) {
	c.name = name
}

func (c *Clip) Track() *Track {
	return c.track
}

// SetTrack swaps the played track and rebuilds the snapshot.
func (c *Clip) SetTrack(track *Track) {
	c.track = track
	c.snapshot = NewSnapshot(track)
}

func (c *Clip) Snapshot() *Snapshot {
	return c.snapshot
}

func (c *Clip) Time() float32 {
	return c.time
}

// SetTime moves the playhead without firing events.
func (c *Clip) SetTime(time float32) {
	c.time = time
}

func (c *Clip) Speed() float32 {
	return c.speed
}

func (c *Clip) SetSpeed(speed float32) {
	c.speed = speed
}

func (c *Clip) Loop() bool {
	return c.loop
}

func (c *Clip) SetLoop(loop bool) {
	c.loop = loop
}

func (c *Clip) BlendWeight() float32 {
	return c.blendWeight
}

func (c *Clip) SetBlendWeight(weight float32) {
	c.blendWeight = weight
}

func (c *Clip) BlendOrder() float32 {
	return c.blendOrder
}

func (c *Clip) SetBlendOrder(order float32) {
	c.blendOrder = order
}

func (c *Clip) Playing() bool {
	return c.playing
}

// SetEventHandler replaces the handler receiving this clip's timeline events.
func (c *Clip) SetEventHandler(handler EventHandler) {
	c.eventHandler = handler
}

// ProgressForTime returns time as a fraction of the track duration, or 0 for an empty track.
func (c *Clip) ProgressForTime(time float32) float32 {
	if c.track.duration == 0 {
		return 0
	}
	return time / c.track.duration
}

// Play starts playback from the beginning.
func (c *Clip) Play() {
	c.playing = true
	c.time = 0
}

// Stop halts playback and rewinds.
func (c *Clip) Stop() {
	c.playing = false
	c.time = 0
}

func (c *Clip) Pause() {
	c.playing = false
}

func (c *Clip) Resume() {
	c.playing = true
}

// Reset rewinds without changing the playing state.
func (c *Clip) Reset() {
	c.time = 0
}

// Update advances the playhead by speed*deltaTime, wrapping or clamping at the track
// bounds, fires crossed events and re-evaluates the snapshot when the time changed.
// A non-looping clip that reaches either end pauses there.
//
// Parameters:
//   - deltaTime: elapsed time in seconds
func (c *Clip) Update(deltaTime float32) {
	if c.playing {
		prev := c.time
		time := c.time + c.speed*deltaTime
		duration := c.track.duration
		wrapped := false

		if c.speed >= 0 {
			if time > duration {
				if c.loop {
					time = wrapTime(time, duration)
					wrapped = true
				} else {
					time = duration
					c.Pause()
				}
			}
		} else if time < 0 {
			if c.loop {
				time = duration + wrapTime(time, duration)
				wrapped = true
			} else {
				time = 0
				c.Pause()
			}
		}

		c.time = time
		if c.eventHandler != nil && time != prev {
			c.fireEvents(prev, time, wrapped)
		}
	}

	if c.time != c.snapshot.time {
		c.track.Eval(c.time, c.snapshot)
	}
}

// fireEvents reports events crossed between prev and time. A wrap splits the crossed range
// into the tail of the previous cycle and the head of the new one.
func (c *Clip) fireEvents(prev, time float32, wrapped bool) {
	events := c.track.events
	if events.Len() == 0 {
		return
	}
	emit := func(ev Event) { c.eventHandler(c, ev) }
	duration := c.track.duration

	switch {
	case c.speed >= 0 && !wrapped:
		events.forEachInRange(prev, time, false, true, emit)
	case c.speed >= 0:
		events.forEachInRange(prev, duration, false, true, emit)
		events.forEachInRange(0, time, true, true, emit)
	case !wrapped:
		events.forEachInRangeReverse(time, prev, true, false, emit)
	default:
		events.forEachInRangeReverse(0, prev, true, false, emit)
		events.forEachInRangeReverse(time, duration, true, true, emit)
	}
}

// wrapTime returns the floating remainder of time/duration, or 0 when it is undefined.
func wrapTime(time, duration float32) float32 {
	r := float32(math.Mod(float64(time), float64(duration)))
	if math.IsNaN(float64(r)) {
		return 0
	}
	return r
}
