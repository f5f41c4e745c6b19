package controller

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
)

// StateConfig describes a State. Speed and Loop are taken as given; authored graphs default
// them to 1 and true.
type StateConfig struct {
	Name      string
	Speed     float32
	Loop      bool
	BlendTree *BlendNodeConfig
}

// State is a node of the state graph: a single leaf or a blend tree of leaves, with a
// playback speed and loop flag.
type State struct {
	ref           StateRef
	speed         float32
	loop          bool
	root          BlendChild
	animationList []*Node
	findClip      func(name string) *evaluator.Clip
}

func newState(cfg StateConfig, params Parameters, findClip func(name string) *evaluator.Clip) *State {
	s := &State{
		ref:      ParseStateRef(cfg.Name),
		speed:    cfg.Speed,
		loop:     cfg.Loop,
		findClip: findClip,
	}
	if cfg.BlendTree != nil {
		treeCfg := *cfg.BlendTree
		treeCfg.Name = cfg.Name
		s.root = BlendChild{Tree: newBlendTree(s, nil, treeCfg, params)}
	} else {
		s.root = BlendChild{Leaf: newNode(s, nil, cfg.Name, nil, cfg.Speed)}
	}
	return s
}

func (s *State) Name() string {
	return s.ref.String()
}

func (s *State) Ref() StateRef {
	return s.ref
}

func (s *State) Speed() float32 {
	return s.speed
}

// SetSpeed sets the state speed. A single-animation state's leaf follows it.
func (s *State) SetSpeed(speed float32) {
	s.speed = speed
	if s.root.Leaf != nil {
		s.root.Leaf.speed = speed
	}
}

func (s *State) Loop() bool {
	return s.loop
}

func (s *State) SetLoop(loop bool) {
	s.loop = loop
}

// Root returns the state's single leaf or blend tree.
func (s *State) Root() BlendChild {
	return s.root
}

// BlendTree returns the root tree, or nil for a single-animation state.
func (s *State) BlendTree() *BlendTree {
	return s.root.Tree
}

// Animations returns the leaves that have a track assigned, in assignment order.
func (s *State) Animations() []*Node {
	return s.animationList
}

// clearAnimations forgets every assignment. Node tracks stay in place but the state is no
// longer playable until all leaves are reassigned.
func (s *State) clearAnimations() {
	s.animationList = nil
}

// AddAnimation assigns track to the leaf at path. path[0] is the state name and the rest
// walks the blend tree by child name. Assigning the same path again replaces the track.
//
// Parameters:
//   - path: the node path split on "."
//   - track: the track to assign
//
// Returns:
//   - bool: false when path does not name a leaf of this state
func (s *State) AddAnimation(path []string, track *evaluator.Track) bool {
	joined := strings.Join(path, ".")
	for _, n := range s.animationList {
		if n.Path() == joined {
			n.track = track
			s.invalidate()
			return true
		}
	}

	node := s.nodeFromPath(path)
	if node == nil {
		return false
	}
	node.track = track
	s.animationList = append(s.animationList, node)
	s.invalidate()
	return true
}

func (s *State) invalidate() {
	if s.root.Tree != nil {
		s.root.Tree.invalidate()
	}
}

func (s *State) nodeFromPath(path []string) *Node {
	current := s.root
	for i := 1; i < len(path); i++ {
		if current.Tree == nil {
			return nil
		}
		child, ok := current.Tree.Child(path[i])
		if !ok {
			return nil
		}
		current = child
	}
	return current.Leaf
}

// NodeCount returns the number of leaves: 1 for a single-animation state.
func (s *State) NodeCount() int {
	if s.root.Tree != nil {
		return s.root.Tree.NodeCount()
	}
	return 1
}

// Playable reports whether the state can run: pseudostates always can, other states once
// every leaf has a track.
func (s *State) Playable() bool {
	return s.ref.IsControl() || len(s.animationList) == s.NodeCount()
}

// Looping reports the loop flag of the clip currently playing the first assigned leaf.
func (s *State) Looping() bool {
	if len(s.animationList) == 0 || s.findClip == nil {
		return false
	}
	if clip := s.findClip(s.animationList[0].Path()); clip != nil {
		return clip.Loop()
	}
	return false
}

// TotalWeight is the sum of every assigned leaf's weight.
func (s *State) TotalWeight() float32 {
	var sum float32
	for _, n := range s.animationList {
		sum += n.Weight()
	}
	return sum
}

// TimelineDuration is the longest assigned track duration.
func (s *State) TimelineDuration() float32 {
	var duration float32
	for _, n := range s.animationList {
		if n.track != nil && n.track.Duration() > duration {
			duration = n.track.Duration()
		}
	}
	return duration
}
