package evaluator

import "math"

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))
)

// Cache remembers the keyframe segment bracketing the last sampled time so that small time
// steps resolve in amortized constant time. One Cache exists per input Data per Snapshot.
type Cache struct {
	left  float32
	right float32
	len   float32
	recip float32
	p0    int
	p1    int
	t     float32

	hermiteValid bool
	hermiteP0    float32
	hermiteM0    float32
	hermiteP1    float32
	hermiteM1    float32
}

// NewCache creates a cache with an empty segment, so the first Update always searches.
func NewCache() *Cache {
	return &Cache{
		left:  posInf,
		right: negInf,
	}
}

// Update positions the cache on the segment containing time.
//
// Parameters:
//   - time: the sample time
//   - input: the keyframe times, ascending
func (c *Cache) Update(time float32, input []float32) {
	if time < c.left || time >= c.right {
		n := len(input)
		switch {
		case n == 0:
			c.left, c.right = negInf, posInf
			c.len, c.recip = 0, 0
			c.p0, c.p1 = 0, 0
		case time < input[0]:
			c.left, c.right = negInf, input[0]
			c.len, c.recip = 0, 0
			c.p0, c.p1 = 0, 0
		case time >= input[n-1]:
			c.left, c.right = input[n-1], posInf
			c.len, c.recip = 0, 0
			c.p0, c.p1 = n-1, n-1
		default:
			index := c.findKey(time, input)
			c.left = input[index]
			c.right = input[index+1]
			c.len = c.right - c.left
			diff := 1 / c.len
			if math.IsInf(float64(diff), 0) || math.IsNaN(float64(diff)) {
				diff = 0
			}
			c.recip = diff
			c.p0 = index
			c.p1 = index + 1
		}
	}

	if c.recip == 0 {
		c.t = 0
	} else {
		c.t = (time - c.left) * c.recip
	}
	c.hermiteValid = false
}

// findKey scans from the cached segment towards time. The caller guarantees
// input[0] <= time < input[len(input)-1].
func (c *Cache) findKey(time float32, input []float32) int {
	index := c.p0
	if index > len(input)-2 {
		index = len(input) - 2
	}
	if index < 0 {
		index = 0
	}
	for index > 0 && time < input[index] {
		index--
	}
	for time >= input[index+1] {
		index++
	}
	return index
}

// Eval samples output at the cached position into result.
//
// Parameters:
//   - result: destination, sized to the output's component count
//   - interpolation: the curve's sampling mode
//   - output: the keyframe values
func (c *Cache) Eval(result []float32, interpolation Interpolation, output *Data) {
	data := output.data
	comp := output.components

	switch interpolation {
	case InterpolationStep:
		idx := c.p0 * comp
		for i := 0; i < comp; i++ {
			result[i] = data[idx+i]
		}

	case InterpolationLinear:
		t := c.t
		idx0 := c.p0 * comp
		idx1 := c.p1 * comp
		for i := 0; i < comp; i++ {
			a := data[idx0+i]
			result[i] = a + (data[idx1+i]-a)*t
		}

	case InterpolationCubic:
		if !c.hermiteValid {
			t := c.t
			t2 := t * t
			twot := t + t
			omt := 1 - t
			omt2 := omt * omt
			c.hermiteP0 = (1 + twot) * omt2
			c.hermiteM0 = t * omt2
			c.hermiteP1 = t2 * (3 - twot)
			c.hermiteM1 = t2 * (t - 1)
			c.hermiteValid = true
		}

		p0 := (c.p0*3 + 1) * comp
		m0 := (c.p0*3 + 2) * comp
		p1 := (c.p1*3 + 1) * comp
		m1 := (c.p1*3 + 0) * comp
		for i := 0; i < comp; i++ {
			result[i] = c.hermiteP0*data[p0+i] +
				c.hermiteM0*data[m0+i]*c.len +
				c.hermiteP1*data[p1+i] +
				c.hermiteM1*data[m1+i]*c.len
		}
	}
}
