package controller

// TransitionConfig describes a Transition. ExitTime and TransitionOffset are optional;
// nil means "not set", so an exit time of 0 is a valid gate.
type TransitionConfig struct {
	From               StateRef
	To                 StateRef
	Time               float32
	Priority           int
	Conditions         []Condition
	ExitTime           *float32
	TransitionOffset   *float32
	InterruptionSource InterruptionSource
}

// Transition is a directed, conditional edge between two states with a cross-fade duration.
type Transition struct {
	from               StateRef
	to                 StateRef
	time               float32
	priority           int
	conditions         []Condition
	exitTime           *float32
	transitionOffset   *float32
	interruptionSource InterruptionSource
}

// NewTransition creates a Transition from cfg.
func NewTransition(cfg TransitionConfig) *Transition {
	t := &Transition{
		from:               cfg.From,
		to:                 cfg.To,
		time:               cfg.Time,
		priority:           cfg.Priority,
		conditions:         cfg.Conditions,
		interruptionSource: cfg.InterruptionSource,
	}
	if cfg.ExitTime != nil {
		v := *cfg.ExitTime
		t.exitTime = &v
	}
	if cfg.TransitionOffset != nil {
		v := *cfg.TransitionOffset
		t.transitionOffset = &v
	}
	return t
}

func (t *Transition) From() StateRef {
	return t.from
}

func (t *Transition) To() StateRef {
	return t.to
}

// Time returns the cross-fade duration in seconds.
func (t *Transition) Time() float32 {
	return t.time
}

func (t *Transition) Priority() int {
	return t.priority
}

func (t *Transition) Conditions() []Condition {
	return t.conditions
}

func (t *Transition) HasExitTime() bool {
	return t.exitTime != nil
}

// ExitTime returns the normalized source-state progress gating the transition, or 0 when unset.
func (t *Transition) ExitTime() float32 {
	if t.exitTime == nil {
		return 0
	}
	return *t.exitTime
}

func (t *Transition) HasTransitionOffset() bool {
	return t.transitionOffset != nil
}

// TransitionOffset returns the normalized destination start position, or 0 when unset.
func (t *Transition) TransitionOffset() float32 {
	if t.transitionOffset == nil {
		return 0
	}
	return *t.transitionOffset
}

func (t *Transition) InterruptionSource() InterruptionSource {
	return t.interruptionSource
}

// withDestination returns a copy of t pointing at to.
func (t *Transition) withDestination(to StateRef) *Transition {
	cp := *t
	cp.to = to
	return &cp
}
