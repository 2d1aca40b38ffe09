package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/riemann/logging"
	"go.viam.com/riemann/losses"
	"go.viam.com/riemann/manifold"
	"go.viam.com/riemann/spatialmath"
	"go.viam.com/riemann/utils"
)

// metricClient bundles what every command needs: the configured metric and a logger writing to the
// app's error output.
type metricClient struct {
	c      *cli.Context
	metric manifold.Metric
	logger logging.Logger
}

func newMetricClient(c *cli.Context) (*metricClient, error) {
	logger := logging.NewBlankLogger("riemann")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(logging.INFO)
	if c.Bool(FlagDebug) {
		logger.SetLevel(logging.DEBUG)
	}

	cfg, err := metricConfigFromContext(c)
	if err != nil {
		return nil, err
	}
	metric, err := manifold.NewMetricFromConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid metric configuration")
	}
	logger.Debugw("metric configured", "manifold", metric.Manifold(), "config", cfg)
	return &metricClient{c: c, metric: metric, logger: logger}, nil
}

// metricConfigFromContext reads the --config file, if any, and lets flags override its fields.
func metricConfigFromContext(c *cli.Context) (*manifold.MetricConfig, error) {
	cfg := &manifold.MetricConfig{}
	if path := c.Path(FlagConfig); path != "" {
		//nolint:gosec
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read config file %q", path)
		}
		var attributes map[string]interface{}
		if err := json.Unmarshal(data, &attributes); err != nil {
			return nil, errors.Wrapf(err, "cannot parse config file %q", path)
		}
		if cfg, err = manifold.NewMetricConfigFromAttributes(attributes); err != nil {
			return nil, err
		}
	}
	if c.IsSet(FlagManifold) {
		cfg.Manifold = c.String(FlagManifold)
	}
	if c.IsSet(FlagDimension) {
		cfg.Dimension = c.Int(FlagDimension)
	}
	if c.IsSet(FlagRotationWeight) {
		cfg.RotationWeight = c.Float64(FlagRotationWeight)
	}
	if c.IsSet(FlagTranslationWeight) {
		cfg.TranslationWeight = c.Float64(FlagTranslationWeight)
	}
	if c.IsSet(FlagDomainTolerance) {
		cfg.DomainTolerance = c.Float64(FlagDomainTolerance)
	}
	return cfg, nil
}

// printVector prints one row per coordinate under a `# | <name>` header.
func printVector(w io.Writer, name string, vec []float64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", name})
	for i, v := range vec {
		t.AppendRow(table.Row{i, v})
	}
	t.Render()
}

// hasRotation reports whether points of space start with a rotation vector.
func hasRotation(space manifold.Manifold) bool {
	switch space.(type) {
	case *manifold.SpecialOrthogonalGroup, *manifold.SpecialEuclideanGroup:
		return true
	default:
		return false
	}
}

// rotationBlock returns the rotation vector leading an SO(3) or SE(3) point.
func rotationBlock(space manifold.Manifold, point []float64) (r3.Vector, bool) {
	if !hasRotation(space) || len(point) < 3 {
		return r3.Vector{}, false
	}
	return r3.Vector{X: point[0], Y: point[1], Z: point[2]}, true
}

// axisAngleCells renders a rotation vector as an angle in degrees and a unit axis.
func axisAngleCells(rot r3.Vector) (float64, string) {
	aa := spatialmath.R3ToR4(rot)
	return utils.RadToDeg(aa.Theta), fmt.Sprint([]float64{aa.RX, aa.RY, aa.RZ})
}

// printAxisAngle prints the rotation block of a group point. Hypersphere points print nothing.
func printAxisAngle(w io.Writer, space manifold.Manifold, point []float64) {
	rot, ok := rotationBlock(space, point)
	if !ok {
		return
	}
	angle, axis := axisAngleCells(rot)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Rotation", "Value"})
	t.AppendRow(table.Row{"angle (deg)", angle})
	t.AppendRow(table.Row{"axis", axis})
	t.Render()
}

func printScalar(w io.Writer, name string, value float64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Quantity", "Value"})
	t.AppendRow(table.Row{name, value})
	t.Render()
}

// ExpAction is the corresponding action for 'exp'.
func ExpAction(c *cli.Context) error {
	client, err := newMetricClient(c)
	if err != nil {
		return err
	}
	point, err := client.metric.Exp(c.Float64Slice(FlagVector), c.Float64Slice(FlagBase))
	if err != nil {
		return err
	}
	printVector(c.App.Writer, "exp", point)
	printAxisAngle(c.App.Writer, client.metric.Manifold(), point)
	return nil
}

// LogAction is the corresponding action for 'log'.
func LogAction(c *cli.Context) error {
	client, err := newMetricClient(c)
	if err != nil {
		return err
	}
	vec, err := client.metric.Log(c.Float64Slice(FlagPoint), c.Float64Slice(FlagBase))
	if err != nil {
		return err
	}
	printVector(c.App.Writer, "log", vec)
	return nil
}

// DistAction is the corresponding action for 'dist'.
func DistAction(c *cli.Context) error {
	client, err := newMetricClient(c)
	if err != nil {
		return err
	}
	a, b := c.Float64Slice(FlagA), c.Float64Slice(FlagB)
	dist, err := client.metric.Dist(a, b)
	if err != nil {
		return err
	}
	sq, err := client.metric.SquaredDist(a, b)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Quantity", "Value"})
	t.AppendRow(table.Row{"dist", dist})
	t.AppendRow(table.Row{"squared dist", sq})
	t.Render()
	return nil
}

// InnerProductAction is the corresponding action for 'inner-product'.
func InnerProductAction(c *cli.Context) error {
	client, err := newMetricClient(c)
	if err != nil {
		return err
	}
	ip, err := client.metric.InnerProduct(c.Float64Slice(FlagA), c.Float64Slice(FlagB), c.Float64Slice(FlagBase))
	if err != nil {
		return err
	}
	printScalar(c.App.Writer, "inner product", ip)
	return nil
}

// ProjectAction is the corresponding action for 'project'.
func ProjectAction(c *cli.Context) error {
	client, err := newMetricClient(c)
	if err != nil {
		return err
	}
	vec, err := client.metric.Manifold().ProjectionToTangentSpace(c.Float64Slice(FlagVector), c.Float64Slice(FlagBase))
	if err != nil {
		return err
	}
	printVector(c.App.Writer, "projection", vec)
	return nil
}

// LossAction is the corresponding action for 'loss'.
func LossAction(c *cli.Context) error {
	client, err := newMetricClient(c)
	if err != nil {
		return err
	}
	loss, err := losses.PoseLoss(c.Float64Slice(FlagPred), c.Float64Slice(FlagTrue), client.metric)
	if err != nil {
		return err
	}
	printScalar(c.App.Writer, "loss", loss)
	return nil
}

// GradAction is the corresponding action for 'grad'.
func GradAction(c *cli.Context) error {
	client, err := newMetricClient(c)
	if err != nil {
		return err
	}
	grad, err := losses.PoseGrad(c.Float64Slice(FlagPred), c.Float64Slice(FlagTrue), client.metric)
	if err != nil {
		return err
	}
	printVector(c.App.Writer, "gradient", grad)
	return nil
}

// RegressAction is the corresponding action for 'regress'.
func RegressAction(c *cli.Context) error {
	client, err := newMetricClient(c)
	if err != nil {
		return err
	}
	cfg := losses.RegressionConfig{
		LearningRate:  c.Float64(FlagLearningRate),
		MaxIterations: c.Int(FlagMaxIterations),
		Tolerance:     c.Float64(FlagTolerance),
	}
	if err := cfg.Validate(""); err != nil {
		return err
	}

	ctx := c.Context
	if c.Bool(FlagTraceSteps) {
		ctx = logging.EnableDebugMode(ctx)
	}
	result, err := losses.Regress(ctx, client.metric, c.Float64Slice(FlagInit), c.Float64Slice(FlagTarget),
		cfg, client.logger.Sublogger("regress"))
	if err != nil {
		return err
	}
	if !result.Converged {
		client.logger.Warnw("regression did not converge", "iterations", result.Iterations, "loss", result.Loss)
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Quantity", "Value"})
	t.AppendRow(table.Row{"point", fmt.Sprint(result.Point)})
	t.AppendRow(table.Row{"loss", result.Loss})
	t.AppendRow(table.Row{"iterations", result.Iterations})
	t.AppendRow(table.Row{"converged", result.Converged})
	t.Render()
	printAxisAngle(c.App.Writer, client.metric.Manifold(), result.Point)
	return nil
}

// SampleAction is the corresponding action for 'sample'.
func SampleAction(c *cli.Context) error {
	client, err := newMetricClient(c)
	if err != nil {
		return err
	}
	count := c.Int(FlagCount)
	if count < 1 {
		return errors.Errorf("%q must be positive, got %d", FlagCount, count)
	}
	seed := c.Uint64(FlagSeed)
	src := rand.NewPCG(seed, seed)

	space := client.metric.Manifold()
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	header := table.Row{"#", fmt.Sprint(space)}
	if hasRotation(space) {
		header = append(header, "Angle (deg)", "Axis")
	}
	t.AppendHeader(header)
	for i := 0; i < count; i++ {
		point := space.RandomPoint(src)
		row := table.Row{i, fmt.Sprint(point)}
		if rot, ok := rotationBlock(space, point); ok {
			angle, axis := axisAngleCells(rot)
			row = append(row, angle, axis)
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}
