package controller

import "github.com/go-gl/mathgl/mgl32"

// calculateWeightsCartesian gives each child the smallest projection falloff of the
// parameter point along the axes to every other child, then normalizes.
func (t *BlendTree) calculateWeightsCartesian() {
	p := t.parameterPoint()
	var sum float32

	for i, ci := range t.children {
		child := ci.node()
		pip := p.Sub(child.point)
		weight := float32(1)

		for j := range t.children {
			if i == j {
				continue
			}
			pipj := t.pair(i, j, cartesianAxis)
			lenSq := pipj.Dot(pipj)
			var result float32
			if lenSq > 0 {
				result = mgl32.Clamp(1-pip.Dot(pipj)/lenSq, 0, 1)
			}
			if result < weight {
				weight = result
			}
		}

		child.weight = weight
		sum += weight
	}

	t.normalizeChildWeights(sum)
}

func cartesianAxis(pi, pj *Node) mgl32.Vec2 {
	return pj.point.Sub(pi.point)
}
