package scenario

import (
	"testing"

	"github.com/lifearc-ai/engine/pkg/profile"
)

func sampleProfile() *profile.Profile {
	diet := 0.5
	activity := 90.0
	sleep := 6.5
	return &profile.Profile{
		ID:  "sample",
		Age: 45,
		Sex: profile.SexFemale,
		Metrics: []profile.Metric{
			{Name: profile.MetricSystolicBP, Value: 130},
			{Name: profile.MetricBMI, Value: 27},
		},
		Lifestyle: profile.Lifestyle{
			DietScore:       &diet,
			ActivityMinutes: &activity,
			SleepHours:      &sleep,
			Smoking:         profile.SmokingCurrent,
		},
	}
}

func TestApplyNeverMutatesInput(t *testing.T) {
	catalog := Default()
	original := sampleProfile()

	for _, s := range catalog.Scenarios() {
		derived := Apply(s, original)
		if derived == original {
			t.Fatalf("%s: Apply returned the input profile", s.Name)
		}
	}

	if *original.Lifestyle.DietScore != 0.5 || *original.Lifestyle.ActivityMinutes != 90 {
		t.Fatal("input lifestyle was mutated")
	}
	if original.Metrics[0].Value != 130 || original.Metrics[1].Value != 27 {
		t.Fatal("input metrics were mutated")
	}
	if original.Lifestyle.Smoking != profile.SmokingCurrent {
		t.Fatal("input smoking status was mutated")
	}
}

func TestAdditiveAdjustmentOnMissingValueIsNoOp(t *testing.T) {
	p := &profile.Profile{ID: "missing", Age: 50, Sex: profile.SexMale}
	s := Scenario{Name: "diet", Adjustments: []Adjustment{
		{Attribute: "lifestyle.diet_score", Op: OpAdd, Magnitude: 0.3},
		{Attribute: "metric.total_cholesterol", Op: OpMul, Magnitude: 0.88},
	}}

	derived := Apply(s, p)
	if derived.Lifestyle.DietScore != nil {
		t.Fatal("add on a missing value must not populate it")
	}
	if len(derived.Metrics) != 0 {
		t.Fatal("mul on a missing metric must not populate it")
	}
}

func TestOverridePopulatesMissingValue(t *testing.T) {
	p := &profile.Profile{ID: "missing", Age: 50, Sex: profile.SexMale}
	s := Scenario{Name: "set", Adjustments: []Adjustment{
		{Attribute: "lifestyle.sleep_hours", Op: OpSet, Magnitude: 7.5},
		{Attribute: "metric.vo2_max", Op: OpSet, Magnitude: 38},
	}}

	derived := Apply(s, p)
	if derived.Lifestyle.SleepHours == nil || *derived.Lifestyle.SleepHours != 7.5 {
		t.Fatal("override must populate missing sleep hours")
	}
	value, ok := derived.Metric(profile.MetricVO2Max)
	if !ok || value != 38 {
		t.Fatalf("override must populate missing metric, got %v (ok=%v)", value, ok)
	}
}

func TestPredicateOnAbsentAttributeSkips(t *testing.T) {
	p := &profile.Profile{ID: "missing", Age: 50, Sex: profile.SexMale}
	s := Scenario{Name: "gated", Adjustments: []Adjustment{
		{
			Attribute: "lifestyle.sleep_hours",
			Op:        OpSet,
			Magnitude: 7.5,
			When:      &Predicate{Attribute: "lifestyle.sleep_hours", Below: f(7.5)},
		},
	}}

	derived := Apply(s, p)
	if derived.Lifestyle.SleepHours != nil {
		t.Fatal("predicate over an absent attribute must skip the adjustment")
	}
}

func TestAdjustmentsClampToAttributeRange(t *testing.T) {
	diet := 0.9
	p := &profile.Profile{ID: "clamp", Age: 40, Sex: profile.SexFemale,
		Lifestyle: profile.Lifestyle{DietScore: &diet}}
	s := Scenario{Name: "diet", Adjustments: []Adjustment{
		{Attribute: "lifestyle.diet_score", Op: OpAdd, Magnitude: 0.3},
	}}

	derived := Apply(s, p)
	if *derived.Lifestyle.DietScore != 1.0 {
		t.Fatalf("diet score = %v, want clamped to 1.0", *derived.Lifestyle.DietScore)
	}
}

func TestQuitSmokingOnlyAffectsCurrentSmokers(t *testing.T) {
	catalog := Default()

	smoker := sampleProfile()
	derived, err := catalog.ApplyNamed("quit_smoking", smoker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if derived.Lifestyle.Smoking != profile.SmokingFormer {
		t.Fatalf("current smoker should become former, got %q", derived.Lifestyle.Smoking)
	}

	never := sampleProfile()
	never.Lifestyle.Smoking = profile.SmokingNever
	derived, err = catalog.ApplyNamed("quit_smoking", never)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if derived.Lifestyle.Smoking != profile.SmokingNever {
		t.Fatalf("never-smoker should be untouched, got %q", derived.Lifestyle.Smoking)
	}
}

func TestCompositeEqualsSequentialApplication(t *testing.T) {
	catalog := Default()
	composite, err := catalog.Get("optimal_lifestyle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	combined := Apply(composite, sampleProfile())

	sequential := sampleProfile()
	for _, name := range composite.Includes {
		sequential, err = catalog.ApplyNamed(name, sequential)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if *combined.Lifestyle.DietScore != *sequential.Lifestyle.DietScore {
		t.Fatalf("diet: composite %v != sequential %v", *combined.Lifestyle.DietScore, *sequential.Lifestyle.DietScore)
	}
	if *combined.Lifestyle.SleepHours != *sequential.Lifestyle.SleepHours {
		t.Fatalf("sleep: composite %v != sequential %v", *combined.Lifestyle.SleepHours, *sequential.Lifestyle.SleepHours)
	}
	if combined.Lifestyle.Smoking != sequential.Lifestyle.Smoking {
		t.Fatalf("smoking: composite %q != sequential %q", combined.Lifestyle.Smoking, sequential.Lifestyle.Smoking)
	}
	for _, name := range []string{profile.MetricSystolicBP, profile.MetricBMI} {
		a, _ := combined.Metric(name)
		b, _ := sequential.Metric(name)
		if a != b {
			t.Fatalf("%s: composite %v != sequential %v", name, a, b)
		}
	}
}

func TestMetricOverrideRewritesHistory(t *testing.T) {
	older := profile.Metric{Name: profile.MetricSystolicBP, Value: 140}
	newer := profile.Metric{Name: profile.MetricSystolicBP, Value: 132}
	p := &profile.Profile{ID: "history", Age: 55, Sex: profile.SexMale,
		Metrics: []profile.Metric{older, newer}}
	s := Scenario{Name: "bp", Adjustments: []Adjustment{
		{Attribute: "metric.systolic_bp", Op: OpSet, Magnitude: 120},
	}}

	derived := Apply(s, p)
	for _, m := range derived.Metrics {
		if m.Name == profile.MetricSystolicBP && m.Value != 120 {
			t.Fatalf("every recorded entry must be rewritten, found %v", m.Value)
		}
	}
}
