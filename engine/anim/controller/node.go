package controller

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-anim/engine/anim/evaluator"
)

// Node is a leaf of a state's blend hierarchy. It owns at most one track and a local blend
// weight that is multiplied down from its parent tree.
type Node struct {
	state         *State
	parent        *BlendTree
	name          string
	point         mgl32.Vec2
	pointLength   float32
	speed         float32
	weightedSpeed float32
	weight        float32
	track         *evaluator.Track
}

func newNode(state *State, parent *BlendTree, name string, point []float32, speed float32) *Node {
	n := &Node{
		state:         state,
		parent:        parent,
		name:          name,
		speed:         speed,
		weightedSpeed: 1,
		weight:        1,
	}
	n.setPoint(point)
	return n
}

func (n *Node) setPoint(point []float32) {
	switch len(point) {
	case 0:
		n.point = mgl32.Vec2{}
		n.pointLength = 0
	case 1:
		n.point = mgl32.Vec2{point[0], 0}
		n.pointLength = point[0]
	default:
		n.point = mgl32.Vec2{point[0], point[1]}
		n.pointLength = n.point.Len()
	}
}

func (n *Node) Name() string {
	return n.name
}

// Path is the dot-joined chain of names from the state root to this node, unique within
// a controller. Clips are keyed by it.
func (n *Node) Path() string {
	if n.parent != nil {
		return n.parent.Path() + "." + n.name
	}
	return n.name
}

// Parent returns the enclosing tree, or nil for a state's root.
func (n *Node) Parent() *BlendTree {
	return n.parent
}

// Point returns the 1D blend coordinate.
func (n *Node) Point() float32 {
	return n.point[0]
}

// Point2 returns the 2D blend coordinate.
func (n *Node) Point2() mgl32.Vec2 {
	return n.point
}

// PointLength is the scalar point in 1D trees and the coordinate length in 2D trees.
func (n *Node) PointLength() float32 {
	return n.pointLength
}

// Weight returns the local weight multiplied by every ancestor's weight.
func (n *Node) Weight() float32 {
	if n.parent != nil {
		return n.parent.Weight() * n.weight
	}
	return n.weight
}

// SetWeight sets the local weight.
func (n *Node) SetWeight(weight float32) {
	n.weight = weight
}

// NormalizedWeight is Weight divided by the state's total leaf weight, or 0 when that is 0.
func (n *Node) NormalizedWeight() float32 {
	total := n.state.TotalWeight()
	if total == 0 {
		return 0
	}
	return n.Weight() / total
}

// Speed is the authored speed scaled by the tree's synchronization factor.
func (n *Node) Speed() float32 {
	return n.weightedSpeed * n.speed
}

// AbsoluteSpeed is the magnitude of the authored speed.
func (n *Node) AbsoluteSpeed() float32 {
	s := n.speed
	if s < 0 {
		return -s
	}
	return s
}

func (n *Node) WeightedSpeed() float32 {
	return n.weightedSpeed
}

func (n *Node) SetWeightedSpeed(weightedSpeed float32) {
	n.weightedSpeed = weightedSpeed
}

func (n *Node) Track() *evaluator.Track {
	return n.track
}

func (n *Node) SetTrack(track *evaluator.Track) {
	n.track = track
}
