package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// calculateWeightsDirectional is the Cartesian falloff computed in a polar space of
// (relative magnitude, doubled angle), so children on a circle blend by direction.
func (t *BlendTree) calculateWeightsDirectional() {
	p := t.parameterPoint()
	pLength := p.Len()
	var sum float32

	for i, ci := range t.children {
		child := ci.node()
		weight := float32(1)

		for j, cj := range t.children {
			if i == j {
				continue
			}
			pipj := t.pair(i, j, directionalAxis)
			lenSq := pipj.Dot(pipj)
			var result float32
			if lenSq > 0 {
				other := cj.node()
				avg := (other.pointLength + child.pointLength) / 2
				pip := mgl32.Vec2{
					finiteOrZero((pLength - child.pointLength) / avg),
					angleRad(child.point, p) * 2,
				}
				result = mgl32.Clamp(1-abs32(pip.Dot(pipj)/lenSq), 0, 1)
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

func directionalAxis(pi, pj *Node) mgl32.Vec2 {
	avg := (pj.pointLength + pi.pointLength) / 2
	return mgl32.Vec2{
		finiteOrZero((pj.pointLength - pi.pointLength) / avg),
		angleRad(pi.point, pj.point) * 2,
	}
}

// angleRad returns the signed angle from a to b.
func angleRad(a, b mgl32.Vec2) float32 {
	return float32(math.Atan2(float64(a[0]*b[1]-a[1]*b[0]), float64(a[0]*b[0]+a[1]*b[1])))
}
