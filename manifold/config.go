package manifold

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Names of the supported manifolds in a MetricConfig.
const (
	HypersphereName             = "hypersphere"
	SpecialOrthogonalGroupName  = "so3"
	SpecialEuclideanGroupName   = "se3"
	defaultHypersphereDimension = 2
)

// MetricConfig describes a metric: which manifold, its dimension and the weights of the invariant metrics.
type MetricConfig struct {
	Manifold          string  `json:"manifold"`
	Dimension         int     `json:"dimension,omitempty"`
	RotationWeight    float64 `json:"rotation_weight,omitempty"`
	TranslationWeight float64 `json:"translation_weight,omitempty"`
	DomainTolerance   float64 `json:"domain_tolerance,omitempty"`
}

// NewMetricConfigFromAttributes decodes a MetricConfig from an attribute map such as a parsed JSON object.
func NewMetricConfigFromAttributes(attributes map[string]interface{}) (*MetricConfig, error) {
	var conf MetricConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &conf,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "cannot decode metric config")
	}
	return &conf, nil
}

// Validate ensures all parts of the config are valid. path prefixes the field names in error messages.
func (cfg *MetricConfig) Validate(path string) error {
	field := func(name string) string {
		if path == "" {
			return name
		}
		return fmt.Sprintf("%s.%s", path, name)
	}

	var err error
	switch cfg.Manifold {
	case HypersphereName:
		if cfg.Dimension < 0 {
			err = multierr.Append(err, errors.Errorf("%q must be positive, got %d", field("dimension"), cfg.Dimension))
		}
		if cfg.RotationWeight != 0 || cfg.TranslationWeight != 0 {
			err = multierr.Append(err, errors.Errorf("%q and %q only apply to so3 and se3",
				field("rotation_weight"), field("translation_weight")))
		}
	case SpecialOrthogonalGroupName:
		if cfg.Dimension != 0 && cfg.Dimension != so3Dimension {
			err = multierr.Append(err, errors.Errorf("%q of so3 is %d", field("dimension"), so3Dimension))
		}
		if cfg.TranslationWeight != 0 {
			err = multierr.Append(err, errors.Errorf("%q only applies to se3", field("translation_weight")))
		}
	case SpecialEuclideanGroupName:
		if cfg.Dimension != 0 && cfg.Dimension != se3Dimension {
			err = multierr.Append(err, errors.Errorf("%q of se3 is %d", field("dimension"), se3Dimension))
		}
	case "":
		err = multierr.Append(err, errors.Errorf("%q is required", field("manifold")))
	default:
		err = multierr.Append(err, errors.Errorf("%q must be one of %q, %q or %q, got %q", field("manifold"),
			HypersphereName, SpecialOrthogonalGroupName, SpecialEuclideanGroupName, cfg.Manifold))
	}
	if cfg.RotationWeight < 0 {
		err = multierr.Append(err, errors.Errorf("%q must be positive", field("rotation_weight")))
	}
	if cfg.TranslationWeight < 0 {
		err = multierr.Append(err, errors.Errorf("%q must be positive", field("translation_weight")))
	}
	if cfg.DomainTolerance < 0 {
		err = multierr.Append(err, errors.Errorf("%q cannot be negative", field("domain_tolerance")))
	}
	return err
}

// NewMetricFromConfig validates cfg and builds the metric it describes. Unset weights default to 1 and an
// unset hypersphere dimension defaults to 2.
func NewMetricFromConfig(cfg *MetricConfig) (Metric, error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	weight := func(w float64) float64 {
		if w == 0 {
			return 1
		}
		return w
	}

	switch cfg.Manifold {
	case HypersphereName:
		dim := cfg.Dimension
		if dim == 0 {
			dim = defaultHypersphereDimension
		}
		sphere, err := NewHypersphere(dim)
		if err != nil {
			return nil, err
		}
		return sphere.WithDomainTolerance(cfg.DomainTolerance).Metric(), nil
	case SpecialOrthogonalGroupName:
		group := NewSpecialOrthogonalGroup().WithDomainTolerance(cfg.DomainTolerance)
		if cfg.RotationWeight == 0 {
			return group.LeftCanonicalMetric(), nil
		}
		m := identitySymDense(so3Dimension)
		m.ScaleSym(cfg.RotationWeight, m)
		return NewLeftInvariantMetric(group, m)
	default:
		group := NewSpecialEuclideanGroup().WithDomainTolerance(cfg.DomainTolerance)
		return NewSE3LeftMetric(group, weight(cfg.RotationWeight), weight(cfg.TranslationWeight))
	}
}
