package predict

import (
	"fmt"

	"github.com/lifearc-ai/engine/pkg/actuarial"
	"github.com/lifearc-ai/engine/pkg/common/errs"
	"github.com/lifearc-ai/engine/pkg/profile"
	"github.com/lifearc-ai/engine/pkg/risk"
	"github.com/lifearc-ai/engine/pkg/scenario"
)

// Params are the documented constants of the adjustment model. They are
// validated once at construction; prediction calls never re-check them.
type Params struct {
	// MaxLifeExpectancyYears caps every prediction.
	MaxLifeExpectancyYears float64
	// RiskSpanYears converts aggregate-risk deviation from the
	// age-matched prior into years of life expectancy, linearly and
	// monotonically: one full unit of excess risk costs this many years.
	RiskSpanYears float64
	// BioAgeSpanYears converts the same deviation into a biological-age
	// shift.
	BioAgeSpanYears float64
	// Confidence interval half-width bounds. A fully populated profile
	// gets CIMinHalfWidthYears, an empty one CIMaxHalfWidthYears, scaled
	// linearly by completeness in between.
	CIMinHalfWidthYears float64
	CIMaxHalfWidthYears float64
}

// DefaultParams is the documented baseline tuning.
func DefaultParams() Params {
	return Params{
		MaxLifeExpectancyYears: 105,
		RiskSpanYears:          25,
		BioAgeSpanYears:        30,
		CIMinHalfWidthYears:    2.0,
		CIMaxHalfWidthYears:    6.0,
	}
}

func (p Params) validate() error {
	if p.MaxLifeExpectancyYears <= 0 {
		return &errs.ConfigurationError{Component: "predictor", Reason: "max life expectancy must be positive"}
	}
	if p.RiskSpanYears < 0 || p.BioAgeSpanYears < 0 {
		return &errs.ConfigurationError{Component: "predictor", Reason: "risk spans must be >= 0"}
	}
	if p.CIMinHalfWidthYears < 0 || p.CIMaxHalfWidthYears < p.CIMinHalfWidthYears {
		return &errs.ConfigurationError{Component: "predictor", Reason: fmt.Sprintf("confidence half-width bounds [%v, %v] are inverted or negative", p.CIMinHalfWidthYears, p.CIMaxHalfWidthYears)}
	}
	return nil
}

// Predictor combines the actuarial curve, the risk model and the scenario
// catalog into a deterministic prediction pipeline. It holds no mutable
// state and is safe for concurrent use.
type Predictor struct {
	table   actuarial.Table
	riskCfg risk.Config
	catalog *scenario.Catalog
	params  Params
}

// New validates all configuration up front. The sum-to-1 invariant of the
// aggregate weight vector is enforced here, not per call.
func New(table actuarial.Table, riskCfg risk.Config, catalog *scenario.Catalog, params Params) (*Predictor, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if err := riskCfg.Validate(); err != nil {
		return nil, err
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, &errs.ConfigurationError{Component: "predictor", Reason: "scenario catalog is nil"}
	}
	return &Predictor{table: table, riskCfg: riskCfg, catalog: catalog, params: params}, nil
}

// NewDefault builds a predictor from the compiled-in configuration.
func NewDefault() (*Predictor, error) {
	return New(actuarial.DefaultTable(), risk.DefaultConfig(), scenario.Default(), DefaultParams())
}

// Catalog exposes the predictor's scenario catalog.
func (p *Predictor) Catalog() *scenario.Catalog {
	return p.catalog
}

// Predict computes the baseline prediction for one profile. Identical
// input always yields a bit-identical Result.
func (p *Predictor) Predict(prof *profile.Profile) (Result, error) {
	return p.predictAs(prof, BaselineScenario)
}

// PredictScenario derives the profile under the named scenario and
// predicts it. There is no scenario-specific logic beyond this
// composition.
func (p *Predictor) PredictScenario(prof *profile.Profile, scenarioName string) (Result, error) {
	derived, err := p.catalog.ApplyNamed(scenarioName, prof)
	if err != nil {
		return Result{}, err
	}
	return p.predictAs(derived, scenarioName)
}

// Compare predicts the baseline and every catalog scenario for one
// profile. Results are keyed by scenario id with no cross-scenario
// aggregation.
func (p *Predictor) Compare(prof *profile.Profile) (map[string]Result, error) {
	out := make(map[string]Result, len(p.catalog.Names())+1)
	baseline, err := p.Predict(prof)
	if err != nil {
		return nil, err
	}
	out[BaselineScenario] = baseline
	for _, name := range p.catalog.Names() {
		r, err := p.PredictScenario(prof, name)
		if err != nil {
			return nil, err
		}
		out[name] = r
	}
	return out, nil
}

func (p *Predictor) predictAs(prof *profile.Profile, scenarioID string) (Result, error) {
	if err := prof.Validate(); err != nil {
		return Result{}, err
	}

	baseline := p.table.LifeExpectancy(prof.Sex, prof.Age)

	scores, err := risk.ScoreAll(p.riskCfg, prof)
	if err != nil {
		return Result{}, err
	}
	aggregate := risk.Aggregate(p.riskCfg, scores)
	prior := p.riskCfg.PriorRisk(prof.Age)

	// Linear in the deviation from the age-matched prior: continuous,
	// bounded by the clamps below, and strictly decreasing in aggregate
	// risk until the floor.
	expectancy := baseline + p.params.RiskSpanYears*(prior-aggregate)
	if expectancy < prof.Age {
		expectancy = prof.Age
	}
	if expectancy > p.params.MaxLifeExpectancyYears {
		expectancy = p.params.MaxLifeExpectancyYears
	}

	bioAge := prof.Age + p.params.BioAgeSpanYears*(aggregate-prior)
	if bioAge < 0 {
		bioAge = 0
	}

	completeness := prof.Completeness()
	halfWidth := p.params.CIMaxHalfWidthYears - (p.params.CIMaxHalfWidthYears-p.params.CIMinHalfWidthYears)*completeness
	low := expectancy - halfWidth
	if low < 0 {
		low = 0
	}
	high := expectancy + halfWidth
	if high > p.params.MaxLifeExpectancyYears {
		high = p.params.MaxLifeExpectancyYears
	}

	domains := make([]DomainScore, 0, len(scores))
	for _, d := range p.riskCfg.AggregateDomains() {
		domains = append(domains, DomainScore{Domain: d, Score: scores[d], Band: risk.BandFor(scores[d])})
	}

	return Result{
		ProfileID:             prof.ID,
		Scenario:              scenarioID,
		LifeExpectancyYears:   expectancy,
		ConfidenceLowYears:    low,
		ConfidenceHighYears:   high,
		BiologicalAgeYears:    bioAge,
		ChronologicalAgeYears: prof.Age,
		AggregateRisk:         aggregate,
		Domains:               domains,
		Completeness:          completeness,
	}, nil
}
