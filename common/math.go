package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DecomposeTRS splits a column-major affine matrix into translation, rotation and scale.
// A negative determinant is folded into the x scale. Shear is discarded.
//
// Parameters:
//   - matrix: the 4x4 matrix in column-major order
//
// Returns:
//   - [3]float32: the translation
//   - [4]float32: the rotation quaternion as (x, y, z, w)
//   - [3]float32: the scale
func DecomposeTRS(matrix [16]float32) (translation [3]float32, rotation [4]float32, scale [3]float32) {
	m := mgl32.Mat4(matrix)
	translation = [3]float32{m[12], m[13], m[14]}
	rotation = [4]float32{0, 0, 0, 1}

	scale = [3]float32{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return translation, rotation, scale
	}

	r := mgl32.Ident4()
	for i, s := range scale {
		r.SetCol(i, m.Col(i).Vec3().Mul(1/s).Vec4(0))
	}
	q := mgl32.Mat4ToQuat(r).Normalize()
	rotation = [4]float32{q.V[0], q.V[1], q.V[2], q.W}
	return translation, rotation, scale
}
