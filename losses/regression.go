package losses

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/riemann/logging"
	"go.viam.com/riemann/manifold"
)

// Defaults applied to unset RegressionConfig fields.
const (
	DefaultLearningRate  = 0.25
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-12
)

// RegressionConfig configures Regress. Zero values take the defaults above.
type RegressionConfig struct {
	LearningRate  float64 `json:"learning_rate,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
	Tolerance     float64 `json:"tolerance,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *RegressionConfig) Validate(path string) error {
	field := func(name string) string {
		if path == "" {
			return name
		}
		return fmt.Sprintf("%s.%s", path, name)
	}

	var err error
	if cfg.LearningRate < 0 {
		err = multierr.Append(err, errors.Errorf("%q must be positive", field("learning_rate")))
	}
	if cfg.MaxIterations < 0 {
		err = multierr.Append(err, errors.Errorf("%q cannot be negative", field("max_iterations")))
	}
	if cfg.Tolerance < 0 {
		err = multierr.Append(err, errors.Errorf("%q cannot be negative", field("tolerance")))
	}
	return err
}

func (cfg RegressionConfig) withDefaults() RegressionConfig {
	if cfg.LearningRate == 0 {
		cfg.LearningRate = DefaultLearningRate
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = DefaultTolerance
	}
	return cfg
}

// RegressionResult is the outcome of Regress.
type RegressionResult struct {
	Point      []float64
	Loss       float64
	Iterations int
	Converged  bool
}

// Regress moves init toward target by Riemannian gradient descent on PoseLoss, y <- Exp(-lr grad, y),
// until the loss drops to the tolerance or the iterations run out. On cancellation it returns the last
// iterate together with the context error.
func Regress(
	ctx context.Context,
	metric manifold.Metric,
	init, target []float64,
	cfg RegressionConfig,
	logger logging.Logger,
) (*RegressionResult, error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	logger = logger.With("learning_rate", cfg.LearningRate, "tolerance", cfg.Tolerance)

	result := &RegressionResult{Point: append([]float64(nil), init...)}
	for {
		loss, err := PoseLoss(result.Point, target, metric)
		if err != nil {
			return nil, err
		}
		result.Loss = loss
		if loss <= cfg.Tolerance {
			result.Converged = true
			logger.CDebugw(ctx, "regression converged", "iterations", result.Iterations, "loss", loss)
			return result, nil
		}
		if result.Iterations >= cfg.MaxIterations {
			logger.CDebugw(ctx, "regression stopped", "iterations", result.Iterations, "loss", loss)
			return result, nil
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		grad, err := PoseGrad(result.Point, target, metric)
		if err != nil {
			return nil, err
		}
		floats.Scale(-cfg.LearningRate, grad)
		next, err := metric.Exp(grad, result.Point)
		if err != nil {
			return nil, err
		}
		result.Point = next
		result.Iterations++
		logger.CDebugw(ctx, "regression step", "iteration", result.Iterations, "loss", loss)
	}
}
