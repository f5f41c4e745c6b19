package evaluator

// ClipBuilderOption is a functional option for configuring a Clip during construction.
type ClipBuilderOption func(*Clip)

// WithName overrides the clip name, which otherwise defaults to the track name.
//
// Parameters:
//   - name: the clip name used for lookups in an Evaluator
//
// Returns:
//   - ClipBuilderOption: functional option to set the name
func WithName(name string) ClipBuilderOption {
	return func(c *Clip) {
		c.name = name
	}
}

// WithTime sets the initial playhead position.
//
// Parameters:
//   - time: the start time in seconds
//
// Returns:
//   - ClipBuilderOption: functional option to set the time
func WithTime(time float32) ClipBuilderOption {
	return func(c *Clip) {
		c.time = time
	}
}

// WithSpeed sets the playback speed multiplier. Negative speeds play backwards.
//
// Parameters:
//   - speed: the speed multiplier
//
// Returns:
//   - ClipBuilderOption: functional option to set the speed
func WithSpeed(speed float32) ClipBuilderOption {
	return func(c *Clip) {
		c.speed = speed
	}
}

// WithPlaying sets whether the clip starts playing.
//
// Parameters:
//   - playing: true to start playing
//
// Returns:
//   - ClipBuilderOption: functional option to set the playing state
func WithPlaying(playing bool) ClipBuilderOption {
	return func(c *Clip) {
		c.playing = playing
	}
}

// WithLoop sets whether the clip wraps at its bounds.
//
// Parameters:
//   - loop: true to loop
//
// Returns:
//   - ClipBuilderOption: functional option to set looping
func WithLoop(loop bool) ClipBuilderOption {
	return func(c *Clip) {
		c.loop = loop
	}
}

// WithBlendWeight sets the initial blend weight.
func WithBlendWeight(weight float32) ClipBuilderOption {
	return func(c *Clip) {
		c.blendWeight = weight
	}
}

// WithBlendOrder sets the blend order. Clips blend in ascending order.
func WithBlendOrder(order float32) ClipBuilderOption {
	return func(c *Clip) {
		c.blendOrder = order
	}
}

// WithClipEventHandler sets the handler receiving timeline events crossed during Update.
//
// Parameters:
//   - handler: the event callback
//
// Returns:
//   - ClipBuilderOption: functional option to set the event handler
func WithClipEventHandler(handler EventHandler) ClipBuilderOption {
	return func(c *Clip) {
		c.eventHandler = handler
	}
}
