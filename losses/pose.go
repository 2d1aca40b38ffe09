// Package losses implements the pose regression loss, its closed-form Riemannian gradient and a
// gradient descent that uses them. Every function takes the metric explicitly.
package losses

import (
	"gonum.org/v1/gonum/mat"

	"go.viam.com/riemann/manifold"
)

// PoseLoss returns the squared geodesic distance between the predicted and the true pose.
func PoseLoss(yPred, yTrue []float64, metric manifold.Metric) (float64, error) {
	return metric.SquaredDist(yPred, yTrue)
}

// PoseGrad returns the gradient of PoseLoss with respect to yPred, M(yPred) (-2 log(yTrue, yPred)), as a
// tangent vector at yPred. For the Lie group metrics the rotation block is regularized like any other
// rotation vector tangent, which reverses gradients whose rotation part is longer than pi.
func PoseGrad(yPred, yTrue []float64, metric manifold.Metric) ([]float64, error) {
	log, err := metric.Log(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	innerProduct, err := metric.InnerProductMatrix(yPred)
	if err != nil {
		return nil, err
	}

	grad := mat.NewVecDense(len(log), nil)
	grad.MulVec(innerProduct, mat.NewVecDense(len(log), log))
	grad.ScaleVec(-2, grad)
	out := mat.Col(nil, 0, grad)

	if invariant, ok := metric.(*manifold.InvariantMetric); ok {
		if out, err = invariant.Group().RegularizeTangentVec(out, yPred); err != nil {
			return nil, err
		}
	}
	// -2 * +0 is -0
	for i, g := range out {
		if g == 0 {
			out[i] = 0
		}
	}
	return out, nil
}
