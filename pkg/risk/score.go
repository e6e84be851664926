package risk

import (
	"fmt"

	"github.com/lifearc-ai/engine/pkg/common/errs"
	"github.com/lifearc-ai/engine/pkg/profile"
)

// Factor names addressable from a risk config.
const (
	FactorGenetic       = "genetic"
	FactorBloodPressure = "blood_pressure"
	FactorCholesterol   = "cholesterol"
	FactorSmoking       = "smoking"
	FactorActivity      = "activity"
	FactorBMI           = "bmi"
	FactorGlucose       = "glucose"
	FactorHbA1c         = "hba1c"
	FactorSleep         = "sleep"
	FactorStress        = "stress"
	FactorDiet          = "diet"
)

// normalizer maps a profile to a factor's normalized adverse contribution.
// ok is false when the underlying input is absent, in which case the
// factor's configured default applies. Returned values may exceed [0,1]
// only transiently; Score clamps them.
type normalizer func(*profile.Profile) (value float64, ok bool)

// Genetic marker names per domain. The genetic factor reads a different
// marker depending on which domain it is scored under.
var geneticMarkers = map[Domain]string{
	DomainCardiovascular: profile.MarkerCardiovascular,
	DomainMetabolic:      profile.MarkerType2Diabetes,
	DomainNeurological:   profile.MarkerNeurodegenerative,
	DomainCancer:         profile.MarkerCancer,
}

// Normalization anchors. Each maps a raw physiological input onto [0,1]
// adverse risk: 0 at the healthy anchor, 1 at or beyond the adverse anchor.
const (
	systolicOptimal  = 115.0 // mmHg
	systolicSpan     = 60.0
	cholRatioOptimal = 3.5 // total/HDL
	cholRatioSpan    = 3.0
	glucoseOptimal   = 85.0 // mg/dL fasting
	glucoseSpan      = 60.0
	hba1cOptimal     = 5.0 // percent
	hba1cSpan        = 2.5
	bmiUpperOptimal  = 25.0
	bmiUpperSpan     = 15.0
	bmiLowerOptimal  = 18.5
	bmiLowerSpan     = 6.0
	activityTarget   = 300.0 // minutes per week
	sleepOptimal     = 7.5   // hours per night
	sleepSpan        = 3.5

	smokingFormerRisk  = 0.25
	smokingCurrentRisk = 1.0
)

var normalizers = map[Domain]map[string]normalizer{
	DomainCardiovascular: {
		FactorGenetic:       geneticNormalizer(DomainCardiovascular),
		FactorBloodPressure: bloodPressure,
		FactorCholesterol:   cholesterolRatio,
		FactorSmoking:       smoking,
		FactorActivity:      inactivity,
		FactorBMI:           bmi,
	},
	DomainMetabolic: {
		FactorGenetic:  geneticNormalizer(DomainMetabolic),
		FactorGlucose:  glucose,
		FactorHbA1c:    hba1c,
		FactorBMI:      bmi,
		FactorActivity: inactivity,
		FactorDiet:     diet,
	},
	DomainNeurological: {
		FactorGenetic:  geneticNormalizer(DomainNeurological),
		FactorSleep:    sleep,
		FactorStress:   stress,
		FactorActivity: inactivity,
		FactorDiet:     diet,
	},
	DomainCancer: {
		FactorGenetic:  geneticNormalizer(DomainCancer),
		FactorSmoking:  smoking,
		FactorDiet:     diet,
		FactorActivity: inactivity,
	},
}

// Score computes the deterministic [0,1] risk score of one domain. Missing
// inputs contribute their configured default; out-of-range inputs are
// clamped, never rejected. Score has no side effects and is safe for
// concurrent use.
func Score(cfg Config, domain Domain, p *profile.Profile) (float64, error) {
	factors, ok := cfg.Domains[domain]
	if !ok {
		return 0, &errs.ConfigurationError{Component: "risk", Reason: fmt.Sprintf("no factor list for domain %s", domain)}
	}
	total := 0.0
	for _, f := range factors {
		norm, known := normalizers[domain][f.Factor]
		if !known {
			return 0, &errs.ConfigurationError{Component: "risk", Reason: fmt.Sprintf("no normalizer for factor %s/%s", domain, f.Factor)}
		}
		value, present := norm(p)
		if !present {
			value = f.Default
		}
		total += f.Weight * clamp01(value)
	}
	return clamp01(total), nil
}

// ScoreAll scores every configured domain in deterministic order.
func ScoreAll(cfg Config, p *profile.Profile) (map[Domain]float64, error) {
	out := make(map[Domain]float64, len(cfg.Aggregate))
	for _, domain := range cfg.AggregateDomains() {
		s, err := Score(cfg, domain, p)
		if err != nil {
			return nil, err
		}
		out[domain] = s
	}
	return out, nil
}

// Aggregate folds per-domain scores into the single aggregate risk index
// using the configured weight vector. Summation follows the fixed domain
// order: float addition is not associative, and identical input must
// produce bit-identical output.
func Aggregate(cfg Config, scores map[Domain]float64) float64 {
	total := 0.0
	for _, domain := range cfg.AggregateDomains() {
		total += cfg.Aggregate[domain] * clamp01(scores[domain])
	}
	return clamp01(total)
}

func geneticNormalizer(domain Domain) normalizer {
	marker := geneticMarkers[domain]
	return func(p *profile.Profile) (float64, bool) {
		return p.GeneticWeight(marker)
	}
}

func bloodPressure(p *profile.Profile) (float64, bool) {
	systolic, ok := p.Metric(profile.MetricSystolicBP)
	if !ok {
		return 0, false
	}
	return (systolic - systolicOptimal) / systolicSpan, true
}

func cholesterolRatio(p *profile.Profile) (float64, bool) {
	total, okTotal := p.Metric(profile.MetricTotalCholesterol)
	hdl, okHDL := p.Metric(profile.MetricHDLCholesterol)
	if !okTotal || !okHDL || hdl <= 0 {
		return 0, false
	}
	return (total/hdl - cholRatioOptimal) / cholRatioSpan, true
}

func smoking(p *profile.Profile) (float64, bool) {
	switch p.Lifestyle.Smoking {
	case profile.SmokingNever:
		return 0, true
	case profile.SmokingFormer:
		return smokingFormerRisk, true
	case profile.SmokingCurrent:
		return smokingCurrentRisk, true
	default:
		return 0, false
	}
}

// inactivity is the inverse of weekly activity against the 300 min/week
// target: fully sedentary scores 1.
func inactivity(p *profile.Profile) (float64, bool) {
	if p.Lifestyle.ActivityMinutes == nil {
		return 0, false
	}
	return 1 - *p.Lifestyle.ActivityMinutes/activityTarget, true
}

func bmi(p *profile.Profile) (float64, bool) {
	value, ok := p.Metric(profile.MetricBMI)
	if !ok {
		return 0, false
	}
	if value < bmiLowerOptimal {
		return (bmiLowerOptimal - value) / bmiLowerSpan, true
	}
	return (value - bmiUpperOptimal) / bmiUpperSpan, true
}

func glucose(p *profile.Profile) (float64, bool) {
	value, ok := p.Metric(profile.MetricFastingGlucose)
	if !ok {
		return 0, false
	}
	return (value - glucoseOptimal) / glucoseSpan, true
}

func hba1c(p *profile.Profile) (float64, bool) {
	value, ok := p.Metric(profile.MetricHbA1c)
	if !ok {
		return 0, false
	}
	return (value - hba1cOptimal) / hba1cSpan, true
}

func sleep(p *profile.Profile) (float64, bool) {
	if p.Lifestyle.SleepHours == nil {
		return 0, false
	}
	deviation := *p.Lifestyle.SleepHours - sleepOptimal
	if deviation < 0 {
		deviation = -deviation
	}
	return deviation / sleepSpan, true
}

func stress(p *profile.Profile) (float64, bool) {
	if p.Lifestyle.StressScore == nil {
		return 0, false
	}
	return *p.Lifestyle.StressScore, true
}

func diet(p *profile.Profile) (float64, bool) {
	if p.Lifestyle.DietScore == nil {
		return 0, false
	}
	return 1 - *p.Lifestyle.DietScore, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
