// Package cli contains the riemann command line front end.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

// Flags.
const (
	FlagConfig            = "config"
	FlagDebug             = "debug"
	FlagManifold          = "manifold"
	FlagDimension         = "dimension"
	FlagRotationWeight    = "rotation-weight"
	FlagTranslationWeight = "translation-weight"
	FlagDomainTolerance   = "domain-tolerance"

	FlagVector = "vector"
	FlagBase   = "base"
	FlagPoint  = "point"
	FlagA      = "a"
	FlagB      = "b"
	FlagPred   = "pred"
	FlagTrue   = "true"
	FlagInit   = "init"
	FlagTarget = "target"

	FlagLearningRate  = "learning-rate"
	FlagMaxIterations = "max-iterations"
	FlagTolerance     = "tolerance"
	FlagTraceSteps    = "trace-steps"
	FlagCount         = "count"
	FlagSeed          = "seed"
)

func vectorFlag(name, usage string) cli.Flag {
	return &cli.Float64SliceFlag{
		Name:     name,
		Required: true,
		Usage:    usage + " as comma separated coordinates",
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "riemann",
		Usage:           "evaluate exp, log, distances and pose losses on S^n, SO(3) and SE(3)",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    FlagConfig,
				Aliases: []string{"c"},
				Usage:   "load the metric configuration from a JSON `FILE`",
			},
			&cli.BoolFlag{
				Name:    FlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:    FlagManifold,
				Aliases: []string{"m"},
				Usage:   "manifold: hypersphere, so3 or se3",
			},
			&cli.IntFlag{
				Name:  FlagDimension,
				Usage: "intrinsic dimension of the hypersphere",
			},
			&cli.Float64Flag{
				Name:  FlagRotationWeight,
				Usage: "weight of the rotation block of the invariant metric",
			},
			&cli.Float64Flag{
				Name:  FlagTranslationWeight,
				Usage: "weight of the translation block of the se3 metric",
			},
			&cli.Float64Flag{
				Name:  FlagDomainTolerance,
				Usage: "reject points that are not on the manifold within this tolerance",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "exp",
				Usage:  "follow the geodesic leaving a base point with a tangent vector",
				Flags:  []cli.Flag{vectorFlag(FlagVector, "tangent vector"), vectorFlag(FlagBase, "base point")},
				Action: ExpAction,
			},
			{
				Name:   "log",
				Usage:  "compute the tangent vector at a base point whose geodesic reaches a point",
				Flags:  []cli.Flag{vectorFlag(FlagPoint, "point"), vectorFlag(FlagBase, "base point")},
				Action: LogAction,
			},
			{
				Name:   "dist",
				Usage:  "compute the geodesic distance between two points",
				Flags:  []cli.Flag{vectorFlag(FlagA, "first point"), vectorFlag(FlagB, "second point")},
				Action: DistAction,
			},
			{
				Name:  "inner-product",
				Usage: "compute the inner product of two tangent vectors at a base point",
				Flags: []cli.Flag{
					vectorFlag(FlagA, "first tangent vector"),
					vectorFlag(FlagB, "second tangent vector"),
					vectorFlag(FlagBase, "base point"),
				},
				Action: InnerProductAction,
			},
			{
				Name:   "project",
				Usage:  "project an ambient vector to the tangent space at a base point",
				Flags:  []cli.Flag{vectorFlag(FlagVector, "vector"), vectorFlag(FlagBase, "base point")},
				Action: ProjectAction,
			},
			{
				Name:   "loss",
				Usage:  "compute the pose loss between a prediction and the truth",
				Flags:  []cli.Flag{vectorFlag(FlagPred, "predicted pose"), vectorFlag(FlagTrue, "true pose")},
				Action: LossAction,
			},
			{
				Name:   "grad",
				Usage:  "compute the gradient of the pose loss at the prediction",
				Flags:  []cli.Flag{vectorFlag(FlagPred, "predicted pose"), vectorFlag(FlagTrue, "true pose")},
				Action: GradAction,
			},
			{
				Name:  "regress",
				Usage: "move a pose toward a target by gradient descent on the pose loss",
				Flags: []cli.Flag{
					vectorFlag(FlagInit, "initial pose"),
					vectorFlag(FlagTarget, "target pose"),
					&cli.Float64Flag{
						Name:  FlagLearningRate,
						Usage: "gradient descent step size",
					},
					&cli.IntFlag{
						Name:  FlagMaxIterations,
						Usage: "maximum number of gradient steps",
					},
					&cli.Float64Flag{
						Name:  FlagTolerance,
						Usage: "stop once the loss is at most this value",
					},
					&cli.BoolFlag{
						Name:  FlagTraceSteps,
						Usage: "log every gradient step without enabling debug logging elsewhere",
					},
				},
				Action: RegressAction,
			},
			{
				Name:  "sample",
				Usage: "sample random points of the manifold",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  FlagCount,
						Value: 1,
						Usage: "number of points",
					},
					&cli.Uint64Flag{
						Name:  FlagSeed,
						Value: 1,
						Usage: "seed of the random source",
					},
				},
				Action: SampleAction,
			},
		},
	}
}
