package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BlendNodeConfig describes a blend hierarchy node. A config with Children is a tree;
// one without is a leaf.
type BlendNodeConfig struct {
	Name string
	// Point is one value for a 1D child, two for a 2D child and empty for a Direct child.
	Point []float32
	// Speed is the authored playback speed of a leaf; 0 means 1.
	Speed float32

	Type           BlendType
	Parameters     []string
	SyncAnimations *bool
	Children       []BlendNodeConfig
}

// BlendChild is a blend tree child: exactly one of Leaf and Tree is set.
type BlendChild struct {
	Leaf *Node
	Tree *BlendTree
}

// node returns the Node view of the child.
func (c BlendChild) node() *Node {
	if c.Tree != nil {
		return &c.Tree.Node
	}
	return c.Leaf
}

func (c BlendChild) Name() string {
	return c.node().name
}

// BlendTree computes per-child weights from live parameter values.
type BlendTree struct {
	Node

	blendType       BlendType
	parameters      []string
	parameterValues []float32
	valuesValid     bool
	children        []BlendChild
	params          Parameters
	syncAnimations  bool

	pairCache []mgl32.Vec2
	pairValid []bool
}

func newBlendTree(state *State, parent *BlendTree, cfg BlendNodeConfig, params Parameters) *BlendTree {
	t := &BlendTree{
		blendType:       cfg.Type,
		parameters:      cfg.Parameters,
		parameterValues: make([]float32, len(cfg.Parameters)),
		params:          params,
		syncAnimations:  cfg.SyncAnimations == nil || *cfg.SyncAnimations,
	}
	t.Node = *newNode(state, parent, cfg.Name, cfg.Point, speedOrDefault(cfg.Speed))

	for _, childCfg := range cfg.Children {
		if childCfg.Children != nil {
			t.children = append(t.children, BlendChild{Tree: newBlendTree(state, t, childCfg, params)})
		} else {
			t.children = append(t.children, BlendChild{Leaf: newNode(state, t, childCfg.Name, childCfg.Point, speedOrDefault(childCfg.Speed))})
		}
	}

	if t.blendType == BlendType1D {
		sortChildrenByPoint(t.children)
	}

	n := len(t.children)
	t.pairCache = make([]mgl32.Vec2, n*n)
	t.pairValid = make([]bool, n*n)
	return t
}

func speedOrDefault(speed float32) float32 {
	if speed == 0 {
		return 1
	}
	return speed
}

func (t *BlendTree) Type() BlendType {
	return t.blendType
}

func (t *BlendTree) Parameters() []string {
	return t.parameters
}

func (t *BlendTree) SyncAnimations() bool {
	return t.syncAnimations
}

func (t *BlendTree) Children() []BlendChild {
	return t.children
}

// Child returns the direct child named name, or the zero BlendChild when none exists.
func (t *BlendTree) Child(name string) (BlendChild, bool) {
	for _, c := range t.children {
		if c.Name() == name {
			return c, true
		}
	}
	return BlendChild{}, false
}

// NodeCount returns the number of leaves below this tree.
func (t *BlendTree) NodeCount() int {
	count := 0
	for _, c := range t.children {
		if c.Tree != nil {
			count += c.Tree.NodeCount()
		} else {
			count++
		}
	}
	return count
}

// Weight recomputes child weights if parameters changed, then returns the local weight
// multiplied by every ancestor's weight.
func (t *BlendTree) Weight() float32 {
	t.CalculateWeights()
	if t.parent != nil {
		return t.parent.Weight() * t.weight
	}
	return t.weight
}

// UpdateParameterValues reads the tree's parameters and reports whether all of them are
// unchanged since the last call. A missing parameter panics.
func (t *BlendTree) UpdateParameterValues() bool {
	unchanged := t.valuesValid
	for i, name := range t.parameters {
		v := mustFindParameter(t.params, name).Value
		if t.parameterValues[i] != v {
			unchanged = false
		}
		t.parameterValues[i] = v
	}
	t.valuesValid = true
	return unchanged
}

// invalidate forces the next CalculateWeights to recompute, here and in nested trees.
func (t *BlendTree) invalidate() {
	t.valuesValid = false
	for _, c := range t.children {
		if c.Tree != nil {
			c.Tree.invalidate()
		}
	}
}

// CalculateWeights distributes weight over the children according to the blend type.
// It does nothing when the parameter values did not change.
func (t *BlendTree) CalculateWeights() {
	if t.UpdateParameterValues() {
		return
	}
	switch t.blendType {
	case BlendType1D:
		t.calculateWeights1D()
	case BlendTypeCartesian2D:
		t.calculateWeightsCartesian()
	case BlendTypeDirectional2D:
		t.calculateWeightsDirectional()
	case BlendTypeDirect:
		t.calculateWeightsDirect()
	}
	if t.syncAnimations {
		t.syncChildSpeeds()
	}
}

// syncChildSpeeds scales leaf speeds so every weighted leaf completes a cycle in the
// weight-averaged duration, keeping cycles phase aligned.
func (t *BlendTree) syncChildSpeeds() {
	var weightedDurationSum float32
	for _, c := range t.children {
		if d, ok := leafDuration(c); ok {
			weightedDurationSum += d * c.node().weight
		}
	}
	for _, c := range t.children {
		d, ok := leafDuration(c)
		if !ok {
			continue
		}
		if weightedDurationSum <= 0 {
			c.Leaf.weightedSpeed = 1
			continue
		}
		c.Leaf.weightedSpeed = d / weightedDurationSum
	}
}

// leafDuration returns a leaf's cycle length at its authored speed.
func leafDuration(c BlendChild) (float32, bool) {
	if c.Leaf == nil || c.Leaf.track == nil {
		return 0, false
	}
	abs := c.Leaf.AbsoluteSpeed()
	if abs == 0 {
		return 0, false
	}
	return c.Leaf.track.Duration() / abs, true
}

func (t *BlendTree) parameterPoint() mgl32.Vec2 {
	var p mgl32.Vec2
	for i := 0; i < len(t.parameterValues) && i < 2; i++ {
		p[i] = t.parameterValues[i]
	}
	return p
}

// pair returns the cached value of fn for the child pair (i, j).
func (t *BlendTree) pair(i, j int, fn func(pi, pj *Node) mgl32.Vec2) mgl32.Vec2 {
	k := i*len(t.children) + j
	if !t.pairValid[k] {
		t.pairCache[k] = fn(t.children[i].node(), t.children[j].node())
		t.pairValid[k] = true
	}
	return t.pairCache[k]
}

// normalizeChildWeights divides every child weight by their sum, or zeroes them when the
// sum is not positive.
func (t *BlendTree) normalizeChildWeights(sum float32) {
	for _, c := range t.children {
		n := c.node()
		if sum > 0 {
			n.weight /= sum
		} else {
			n.weight = 0
		}
	}
}

func finiteOrZero(v float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return 0
	}
	return v
}
