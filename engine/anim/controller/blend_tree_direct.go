package controller

// calculateWeightsDirect uses each parameter, clamped at 0, as the weight of the child at
// the same index, normalized by their sum.
func (t *BlendTree) calculateWeightsDirect() {
	var sum float32
	for i, c := range t.children {
		var v float32
		if i < len(t.parameterValues) && t.parameterValues[i] > 0 {
			v = t.parameterValues[i]
		}
		c.node().weight = v
		sum += v
	}
	t.normalizeChildWeights(sum)
}
