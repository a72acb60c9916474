package parts

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoxInertia returns the inertia tensor of a solid box of uniform density
// about its centroid, in the box's own axes.
func BoxInertia(mass float64, size mgl64.Vec3) mgl64.Mat3 {
	x2, y2, z2 := size[0]*size[0], size[1]*size[1], size[2]*size[2]
	k := mass / 12.0
	return mgl64.Diag3(mgl64.Vec3{k * (y2 + z2), k * (x2 + z2), k * (x2 + y2)})
}

// RotateInertia expresses a tensor given in part axes in craft axes:
// R·I·Rᵀ.
func RotateInertia(m mgl64.Mat3, q mgl64.Quat) mgl64.Mat3 {
	if q.W == 0 && q.V.Len() == 0 {
		return m
	}
	r := q.Normalize().Mat4().Mat3()
	return r.Mul3(m).Mul3(r.Transpose())
}

// ParallelAxis is the term m·(|d|²·E − d⊗d) that moves a centroidal
// tensor to a point offset by d.
func ParallelAxis(mass float64, d mgl64.Vec3) mgl64.Mat3 {
	var out mgl64.Mat3
	d2 := d.LenSqr()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			v := -d[row] * d[col]
			if row == col {
				v += d2
			}
			out.Set(row, col, mass*v)
		}
	}
	return out
}

func IsSymmetric(m mgl64.Mat3, tol float64) bool {
	scale := 1.0
	for _, v := range m {
		scale = math.Max(scale, math.Abs(v))
	}
	for row := 0; row < 3; row++ {
		for col := row + 1; col < 3; col++ {
			if math.Abs(m.At(row, col)-m.At(col, row)) > tol*scale {
				return false
			}
		}
	}
	return true
}
