package risk

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lifearc-ai/engine/pkg/common/errs"
)

// FactorWeight binds a named factor to its weight inside a domain and to
// the default contribution used when the profile does not carry the
// factor's input.
type FactorWeight struct {
	Factor  string  `yaml:"factor" json:"factor"`
	Weight  float64 `yaml:"weight" json:"weight"`
	Default float64 `yaml:"default" json:"default"`
}

// PriorCurve parameterizes the population-average aggregate risk for a
// given chronological age: clamp01(Base + PerYear * (age - RefAge)).
type PriorCurve struct {
	Base    float64 `yaml:"base" json:"base"`
	PerYear float64 `yaml:"per_year" json:"per_year"`
	RefAge  float64 `yaml:"ref_age" json:"ref_age"`
}

// Config is the risk model's weight data. Normalizer formulas are code;
// everything tunable about them lives here so the model can be recalibrated
// without recompiling.
type Config struct {
	Aggregate map[Domain]float64        `yaml:"aggregate" json:"aggregate"`
	Domains   map[Domain][]FactorWeight `yaml:"domains" json:"domains"`
	Prior     PriorCurve                `yaml:"prior" json:"prior"`
}

const weightSumTolerance = 1e-9

// LoadConfig reads a risk config from path, or returns DefaultConfig when
// path is empty. The returned config is already validated.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the configuration-time invariants: aggregate weights
// sum to 1, per-domain factor weights sum to 1, every factor has a known
// normalizer, and all weights and defaults stay in range.
func (c Config) Validate() error {
	if len(c.Aggregate) == 0 {
		return &errs.ConfigurationError{Component: "risk", Reason: "aggregate weight vector is empty"}
	}
	sum := 0.0
	for domain, w := range c.Aggregate {
		if w < 0 {
			return &errs.ConfigurationError{Component: "risk", Reason: fmt.Sprintf("aggregate weight for %s is negative", domain)}
		}
		if _, ok := c.Domains[domain]; !ok {
			return &errs.ConfigurationError{Component: "risk", Reason: fmt.Sprintf("aggregate references domain %s with no factor list", domain)}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return &errs.ConfigurationError{Component: "risk", Reason: fmt.Sprintf("aggregate weights sum to %v, want 1", sum)}
	}

	for domain, factors := range c.Domains {
		if len(factors) == 0 {
			return &errs.ConfigurationError{Component: "risk", Reason: fmt.Sprintf("domain %s has no factors", domain)}
		}
		domainSum := 0.0
		for _, f := range factors {
			if _, ok := normalizers[domain][f.Factor]; !ok {
				return &errs.ConfigurationError{Component: "risk", Reason: fmt.Sprintf("domain %s references unknown factor %q", domain, f.Factor)}
			}
			if f.Weight < 0 {
				return &errs.ConfigurationError{Component: "risk", Reason: fmt.Sprintf("factor %s/%s has negative weight", domain, f.Factor)}
			}
			if f.Default < 0 || f.Default > 1 {
				return &errs.ConfigurationError{Component: "risk", Reason: fmt.Sprintf("factor %s/%s default %v outside [0,1]", domain, f.Factor, f.Default)}
			}
			domainSum += f.Weight
		}
		if math.Abs(domainSum-1.0) > weightSumTolerance {
			return &errs.ConfigurationError{Component: "risk", Reason: fmt.Sprintf("factor weights for %s sum to %v, want 1", domain, domainSum)}
		}
	}
	return nil
}

// AggregateDomains returns the configured domains in deterministic order:
// documented priority order first, anything extra alphabetically after.
func (c Config) AggregateDomains() []Domain {
	out := make([]Domain, 0, len(c.Aggregate))
	for d := range c.Aggregate {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := PriorityRank(out[i]), PriorityRank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

// PriorRisk evaluates the population prior at the given age.
func (c Config) PriorRisk(age float64) float64 {
	return clamp01(c.Prior.Base + c.Prior.PerYear*(age-c.Prior.RefAge))
}

// DefaultConfig is the documented baseline calibration. Factor weights
// within each domain sum to 1, as does the aggregate vector.
func DefaultConfig() Config {
	return Config{
		Aggregate: map[Domain]float64{
			DomainCardiovascular: 0.35,
			DomainMetabolic:      0.25,
			DomainNeurological:   0.20,
			DomainCancer:         0.20,
		},
		Domains: map[Domain][]FactorWeight{
			DomainCardiovascular: {
				{Factor: FactorGenetic, Weight: 0.25, Default: 0.18},
				{Factor: FactorBloodPressure, Weight: 0.20, Default: 0.30},
				{Factor: FactorCholesterol, Weight: 0.15, Default: 0.30},
				{Factor: FactorSmoking, Weight: 0.20, Default: 0.15},
				{Factor: FactorActivity, Weight: 0.10, Default: 0.40},
				{Factor: FactorBMI, Weight: 0.10, Default: 0.30},
			},
			DomainMetabolic: {
				{Factor: FactorGenetic, Weight: 0.25, Default: 0.15},
				{Factor: FactorGlucose, Weight: 0.20, Default: 0.25},
				{Factor: FactorHbA1c, Weight: 0.15, Default: 0.25},
				{Factor: FactorBMI, Weight: 0.20, Default: 0.30},
				{Factor: FactorActivity, Weight: 0.10, Default: 0.40},
				{Factor: FactorDiet, Weight: 0.10, Default: 0.45},
			},
			DomainNeurological: {
				{Factor: FactorGenetic, Weight: 0.30, Default: 0.12},
				{Factor: FactorSleep, Weight: 0.25, Default: 0.35},
				{Factor: FactorStress, Weight: 0.25, Default: 0.40},
				{Factor: FactorActivity, Weight: 0.10, Default: 0.40},
				{Factor: FactorDiet, Weight: 0.10, Default: 0.45},
			},
			DomainCancer: {
				{Factor: FactorGenetic, Weight: 0.35, Default: 0.15},
				{Factor: FactorSmoking, Weight: 0.30, Default: 0.15},
				{Factor: FactorDiet, Weight: 0.20, Default: 0.45},
				{Factor: FactorActivity, Weight: 0.15, Default: 0.40},
			},
		},
		Prior: PriorCurve{Base: 0.10, PerYear: 0.006, RefAge: 20},
	}
}
