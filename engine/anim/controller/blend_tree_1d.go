package controller

import "sort"

func sortChildrenByPoint(children []BlendChild) {
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].node().point[0] < children[j].node().point[0]
	})
}

// calculateWeights1D splits weight linearly between the first two children bracketing the
// parameter. The parameter is clamped to the outermost points.
func (t *BlendTree) calculateWeights1D() {
	children := t.children
	if len(children) == 0 {
		return
	}

	first := children[0].node()
	last := children[len(children)-1].node()
	p := t.parameterValues[0]
	if p < first.point[0] {
		p = first.point[0]
	}
	if p > last.point[0] {
		p = last.point[0]
	}

	if len(children) == 1 {
		first.weight = 1
		return
	}

	for _, child := range children {
		child.node().weight = 0
	}
	// only the first bracket containing p gets weight, so coincident points never
	// assign a child twice
	for i := 0; i < len(children)-1; i++ {
		c1 := children[i].node()
		c2 := children[i+1].node()
		a, b := c1.point[0], c2.point[0]
		if p < a || p > b {
			continue
		}
		if a == b {
			c1.weight = 0.5
			c2.weight = 0.5
		} else {
			w := (b - p) / (b - a)
			c1.weight = w
			c2.weight = 1 - w
		}
		return
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
