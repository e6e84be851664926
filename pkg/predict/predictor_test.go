package predict

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/lifearc-ai/engine/pkg/common/errs"
	"github.com/lifearc-ai/engine/pkg/profile"
)

func newPredictor(t *testing.T) *Predictor {
	t.Helper()
	p, err := NewDefault()
	if err != nil {
		t.Fatalf("failed to build predictor: %v", err)
	}
	return p
}

func emptyProfile(age float64) *profile.Profile {
	return &profile.Profile{ID: "empty", Age: age, Sex: profile.SexMale}
}

// healthyProfile populates all sixteen tracked inputs with favorable values.
func healthyProfile() *profile.Profile {
	diet := 0.85
	activity := 320.0
	sleep := 7.5
	stress := 0.2
	return &profile.Profile{
		ID:  "healthy",
		Age: 35,
		Sex: profile.SexMale,
		Metrics: []profile.Metric{
			{Name: profile.MetricSystolicBP, Value: 115},
			{Name: profile.MetricRestingHeartRate, Value: 55},
			{Name: profile.MetricTotalCholesterol, Value: 160},
			{Name: profile.MetricHDLCholesterol, Value: 60},
			{Name: profile.MetricFastingGlucose, Value: 85},
			{Name: profile.MetricHbA1c, Value: 5.0},
			{Name: profile.MetricBMI, Value: 23},
			{Name: profile.MetricVO2Max, Value: 45},
		},
		Lifestyle: profile.Lifestyle{
			DietScore:       &diet,
			ActivityMinutes: &activity,
			SleepHours:      &sleep,
			StressScore:     &stress,
			Smoking:         profile.SmokingNever,
			Alcohol:         profile.AlcoholRare,
		},
		Genetics: []profile.GeneticMarker{{Name: profile.MarkerCardiovascular, Weight: 0.1}},
		Impedance: []profile.ImpedancePoint{
			{FrequencyHz: 100, Magnitude: 950, PhaseDeg: 44},
			{FrequencyHz: 1000, Magnitude: 710, PhaseDeg: 31},
		},
	}
}

func riskyProfile() *profile.Profile {
	diet := 0.2
	activity := 20.0
	sleep := 5.0
	stress := 0.8
	return &profile.Profile{
		ID:  "risky",
		Age: 35,
		Sex: profile.SexMale,
		Metrics: []profile.Metric{
			{Name: profile.MetricSystolicBP, Value: 165},
			{Name: profile.MetricTotalCholesterol, Value: 260},
			{Name: profile.MetricHDLCholesterol, Value: 35},
			{Name: profile.MetricFastingGlucose, Value: 125},
			{Name: profile.MetricBMI, Value: 33},
		},
		Lifestyle: profile.Lifestyle{
			DietScore:       &diet,
			ActivityMinutes: &activity,
			SleepHours:      &sleep,
			StressScore:     &stress,
			Smoking:         profile.SmokingCurrent,
		},
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	p := newPredictor(t)
	// A sparse profile whose weighted domain terms are sensitive to
	// summation order: any order-dependent float addition in the pipeline
	// flips the last bit of the aggregate within a few calls.
	stress := 0.17
	prof := &profile.Profile{
		ID:  "repeat",
		Age: 40,
		Sex: profile.SexMale,
		Metrics: []profile.Metric{
			{Name: profile.MetricSystolicBP, Value: 115},
		},
		Lifestyle: profile.Lifestyle{StressScore: &stress},
	}

	first, err := p.Predict(prof)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantRisk := math.Float64bits(first.AggregateRisk)
	wantExpectancy := math.Float64bits(first.LifeExpectancyYears)
	wantBioAge := math.Float64bits(first.BiologicalAgeYears)

	for i := 0; i < 200; i++ {
		r, err := p.Predict(prof)
		if err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
		if math.Float64bits(r.AggregateRisk) != wantRisk {
			t.Fatalf("aggregate risk bits diverged on call %d: %v != %v", i, r.AggregateRisk, first.AggregateRisk)
		}
		if math.Float64bits(r.LifeExpectancyYears) != wantExpectancy {
			t.Fatalf("expectancy bits diverged on call %d: %v != %v", i, r.LifeExpectancyYears, first.LifeExpectancyYears)
		}
		if math.Float64bits(r.BiologicalAgeYears) != wantBioAge {
			t.Fatalf("biological age bits diverged on call %d: %v != %v", i, r.BiologicalAgeYears, first.BiologicalAgeYears)
		}
		if !reflect.DeepEqual(r, first) {
			t.Fatalf("same input produced different results:\n%+v\n%+v", r, first)
		}
	}
}

func TestPredictIsSafeForConcurrentUse(t *testing.T) {
	p := newPredictor(t)
	prof := riskyProfile()
	want, err := p.Predict(prof)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]Result, 16)
	failures := make([]error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				results[i], failures[i] = p.Predict(prof)
			} else {
				results[i], failures[i] = p.PredictScenario(prof, "optimal_lifestyle")
				if failures[i] == nil {
					results[i], failures[i] = p.Predict(prof)
				}
			}
		}(i)
	}
	wg.Wait()

	for i := range results {
		if failures[i] != nil {
			t.Fatalf("goroutine %d: %v", i, failures[i])
		}
		if !reflect.DeepEqual(results[i], want) {
			t.Fatalf("goroutine %d diverged from sequential result", i)
		}
	}
}

func TestBaselineReflectsRiskDeviation(t *testing.T) {
	p := newPredictor(t)

	// An empty profile scores above the age-matched prior on defaults
	// alone, so its expectancy lands below the actuarial baseline and its
	// biological age above the chronological one.
	sparse, err := p.Predict(emptyProfile(35))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sparse.LifeExpectancyYears >= 76.1 {
		t.Fatalf("sparse profile expectancy = %v, want below 76.1", sparse.LifeExpectancyYears)
	}
	if sparse.BiologicalAgeYears <= 35 {
		t.Fatalf("sparse profile biological age = %v, want above 35", sparse.BiologicalAgeYears)
	}

	healthy, err := p.Predict(healthyProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if healthy.LifeExpectancyYears <= 76.1 {
		t.Fatalf("healthy profile expectancy = %v, want above 76.1", healthy.LifeExpectancyYears)
	}
	if healthy.BiologicalAgeYears >= 35 {
		t.Fatalf("healthy profile biological age = %v, want below 35", healthy.BiologicalAgeYears)
	}
}

func TestHigherRiskNeverRaisesExpectancy(t *testing.T) {
	p := newPredictor(t)

	healthy, err := p.Predict(healthyProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	risky, err := p.Predict(riskyProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if risky.AggregateRisk <= healthy.AggregateRisk {
		t.Fatalf("risky aggregate %v not above healthy %v", risky.AggregateRisk, healthy.AggregateRisk)
	}
	if risky.LifeExpectancyYears >= healthy.LifeExpectancyYears {
		t.Fatalf("risky expectancy %v not below healthy %v", risky.LifeExpectancyYears, healthy.LifeExpectancyYears)
	}
	if risky.BiologicalAgeYears <= healthy.BiologicalAgeYears {
		t.Fatalf("risky biological age %v not above healthy %v", risky.BiologicalAgeYears, healthy.BiologicalAgeYears)
	}
}

func TestExpectancyIsCappedAndFloored(t *testing.T) {
	p := newPredictor(t)

	centenarian, err := p.Predict(emptyProfile(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if centenarian.LifeExpectancyYears != 105 {
		t.Fatalf("centenarian expectancy = %v, want capped at 105", centenarian.LifeExpectancyYears)
	}
	if centenarian.ConfidenceHighYears > 105 {
		t.Fatalf("confidence high %v exceeds cap", centenarian.ConfidenceHighYears)
	}
	if centenarian.LifeExpectancyYears < centenarian.ChronologicalAgeYears {
		t.Fatal("expectancy fell below current age")
	}
}

func TestConfidenceIntervalNarrowsWithCompleteness(t *testing.T) {
	p := newPredictor(t)

	sparse, err := p.Predict(emptyProfile(35))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sparseWidth := sparse.ConfidenceHighYears - sparse.ConfidenceLowYears
	if math.Abs(sparseWidth-12) > 1e-9 {
		t.Fatalf("empty-profile interval width = %v, want 12", sparseWidth)
	}

	full, err := p.Predict(healthyProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full.Completeness != 1 {
		t.Fatalf("healthy profile completeness = %v, want 1", full.Completeness)
	}
	fullWidth := full.ConfidenceHighYears - full.ConfidenceLowYears
	if math.Abs(fullWidth-4) > 1e-9 {
		t.Fatalf("full-profile interval width = %v, want 4", fullWidth)
	}
}

func TestScenarioPredictionImprovesOutcome(t *testing.T) {
	p := newPredictor(t)
	prof := riskyProfile()

	baseline, err := p.Predict(prof)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	quit, err := p.PredictScenario(prof, "quit_smoking")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quit.Scenario != "quit_smoking" {
		t.Fatalf("result scenario = %q, want quit_smoking", quit.Scenario)
	}
	if quit.LifeExpectancyYears <= baseline.LifeExpectancyYears {
		t.Fatalf("quitting smoking did not raise expectancy: %v <= %v", quit.LifeExpectancyYears, baseline.LifeExpectancyYears)
	}
	if quit.AggregateRisk >= baseline.AggregateRisk {
		t.Fatalf("quitting smoking did not lower aggregate risk: %v >= %v", quit.AggregateRisk, baseline.AggregateRisk)
	}
}

func TestCombinedScenarioDominatesConstituents(t *testing.T) {
	p := newPredictor(t)
	prof := riskyProfile()

	combined, err := p.PredictScenario(prof, "optimal_lifestyle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	composite, err := p.Catalog().Get("optimal_lifestyle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range composite.Includes {
		single, err := p.PredictScenario(prof, name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if combined.LifeExpectancyYears < single.LifeExpectancyYears-1e-9 {
			t.Fatalf("combined expectancy %v below %s alone %v", combined.LifeExpectancyYears, name, single.LifeExpectancyYears)
		}
	}
}

func TestCompareCoversBaselineAndCatalog(t *testing.T) {
	p := newPredictor(t)
	prof := riskyProfile()

	results, err := p.Compare(prof)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(p.Catalog().Names())+1 {
		t.Fatalf("compare returned %d results, want %d", len(results), len(p.Catalog().Names())+1)
	}

	baseline, ok := results[BaselineScenario]
	if !ok {
		t.Fatal("compare output missing the baseline")
	}
	direct, err := p.Predict(prof)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(baseline, direct) {
		t.Fatal("compare baseline differs from direct prediction")
	}
	for _, name := range p.Catalog().Names() {
		if _, ok := results[name]; !ok {
			t.Fatalf("compare output missing scenario %q", name)
		}
	}
}

func TestPredictRejectsInvalidProfile(t *testing.T) {
	p := newPredictor(t)
	bad := emptyProfile(35)
	bad.Age = math.NaN()

	_, err := p.Predict(bad)
	var profileErr *errs.InvalidProfileError
	if !errors.As(err, &profileErr) {
		t.Fatalf("expected InvalidProfileError, got %v", err)
	}
}

func TestPredictScenarioRejectsUnknownName(t *testing.T) {
	p := newPredictor(t)
	_, err := p.PredictScenario(emptyProfile(35), "cryosleep")
	var scenarioErr *errs.InvalidScenarioError
	if !errors.As(err, &scenarioErr) {
		t.Fatalf("expected InvalidScenarioError, got %v", err)
	}
}

func TestDomainScoresCarryBands(t *testing.T) {
	p := newPredictor(t)
	result, err := p.Predict(riskyProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Domains) != 4 {
		t.Fatalf("expected 4 domain scores, got %d", len(result.Domains))
	}
	for _, ds := range result.Domains {
		if ds.Score < 0 || ds.Score > 1 {
			t.Fatalf("%s score %v outside [0,1]", ds.Domain, ds.Score)
		}
		if ds.Band == "" {
			t.Fatalf("%s band is empty", ds.Domain)
		}
	}
}
