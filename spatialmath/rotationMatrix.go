package spatialmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/riemann/utils"
)

// RotationMatrix is a 3x3 matrix in row major order. It is the matrix form of an SO(3) element.
type RotationMatrix struct {
	mat mgl64.Mat3
}

// NewRotationMatrix creates a rotation matrix from a 9 element slice in row major order. The matrix must be
// orthonormal with determinant 1 within tol.
func NewRotationMatrix(m []float64, tol float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, errors.Errorf("input slice has %d elements, need exactly 9", len(m))
	}
	rm := &RotationMatrix{mgl64.Mat3FromRows(
		mgl64.Vec3{m[0], m[1], m[2]},
		mgl64.Vec3{m[3], m[4], m[5]},
		mgl64.Vec3{m[6], m[7], m[8]},
	)}
	if !rm.mat.Mul3(rm.mat.Transpose()).ApproxEqualThreshold(mgl64.Ident3(), tol) ||
		!utils.Float64AlmostEqual(rm.mat.Det(), 1, tol) {
		return nil, errors.New("input matrix is not a rotation matrix")
	}
	return rm, nil
}

// RotationMatrixFromVector returns the rotation matrix exp([v]x) given by Rodrigues' formula
// R = I + sin(t)/t [v]x + (1 - cos t)/t^2 [v]x^2, t = |v|.
func RotationMatrixFromVector(v r3.Vector) *RotationMatrix {
	theta := v.Norm()
	a := utils.SinOverX(theta)
	b := utils.OneMinusCosOverXSquared(theta)
	skew := skewMatrix(v)
	m := mgl64.Ident3().Add(skew.Mul(a)).Add(skew.Mul3(skew).Mul(b))
	return &RotationMatrix{m}
}

// RotationVector returns the regularized rotation vector of the matrix, the matrix logarithm read as a
// rotation vector. The conversion goes through the quaternion which stays accurate near a half turn.
func (rm *RotationMatrix) RotationVector() r3.Vector {
	return QuatToRotationVector(rm.Quaternion())
}

// Quaternion returns the unit quaternion of the rotation.
func (rm *RotationMatrix) Quaternion() quat.Number {
	q := mgl64.Mat4ToQuat(rm.mat.Mat4())
	return quat.Number{Real: q.W, Imag: q.V[0], Jmag: q.V[1], Kmag: q.V[2]}
}

// QuatToRotationMatrix converts a unit quaternion to a rotation matrix.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	mq := mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}
	return &RotationMatrix{mq.Mat4().Mat3()}
}

// At returns the element at row, col.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat.At(row, col)
}

// Row returns the row as a vector.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat.At(row, 0), Y: rm.mat.At(row, 1), Z: rm.mat.At(row, 2)}
}

// Mul returns the product rm*other.
func (rm *RotationMatrix) Mul(other *RotationMatrix) *RotationMatrix {
	return &RotationMatrix{rm.mat.Mul3(other.mat)}
}

// Transpose returns the transpose, which is also the inverse rotation.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	return &RotationMatrix{rm.mat.Transpose()}
}

// Apply rotates p.
func (rm *RotationMatrix) Apply(p r3.Vector) r3.Vector {
	out := rm.mat.Mul3x1(mgl64.Vec3{p.X, p.Y, p.Z})
	return r3.Vector{X: out[0], Y: out[1], Z: out[2]}
}

// Data returns the 9 elements in row major order.
func (rm *RotationMatrix) Data() []float64 {
	data := make([]float64, 0, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			data = append(data, rm.mat.At(row, col))
		}
	}
	return data
}

func (rm *RotationMatrix) String() string {
	return fmt.Sprintf("%v", rm.Data())
}

// skewMatrix returns [v]x, the matrix with [v]x p = v x p.
func skewMatrix(v r3.Vector) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0, -v.Z, v.Y},
		mgl64.Vec3{v.Z, 0, -v.X},
		mgl64.Vec3{-v.Y, v.X, 0},
	)
}
