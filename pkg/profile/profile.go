package profile

import (
	"fmt"
	"math"
	"time"

	"github.com/lifearc-ai/engine/pkg/common/errs"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type SmokingStatus string

const (
	SmokingNever   SmokingStatus = "never"
	SmokingFormer  SmokingStatus = "former"
	SmokingCurrent SmokingStatus = "current"
)

type AlcoholUse string

const (
	AlcoholNone     AlcoholUse = "none"
	AlcoholRare     AlcoholUse = "rare"
	AlcoholModerate AlcoholUse = "moderate"
	AlcoholFrequent AlcoholUse = "frequent"
)

// Canonical metric names understood by the risk model. Profiles may carry
// additional metrics; they ride along untouched.
const (
	MetricSystolicBP       = "systolic_bp"
	MetricDiastolicBP      = "diastolic_bp"
	MetricRestingHeartRate = "resting_heart_rate"
	MetricTotalCholesterol = "total_cholesterol"
	MetricHDLCholesterol   = "hdl_cholesterol"
	MetricLDLCholesterol   = "ldl_cholesterol"
	MetricFastingGlucose   = "fasting_glucose"
	MetricHbA1c            = "hba1c"
	MetricBMI              = "bmi"
	MetricVO2Max           = "vo2_max"
	MetricBodyFatPct       = "body_fat_pct"
)

// Metric is a single named health measurement.
type Metric struct {
	Name       string    `json:"name" yaml:"name"`
	Value      float64   `json:"value" yaml:"value"`
	Unit       string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	RecordedAt time.Time `json:"recorded_at,omitempty" yaml:"recorded_at,omitempty"`
}

// Lifestyle holds self-reported lifestyle attributes. Numeric pointers are
// nil when the attribute was never reported; enum fields use the empty
// string for the same purpose. Absence is not an error anywhere in the
// engine.
type Lifestyle struct {
	DietScore       *float64      `json:"diet_score,omitempty" yaml:"diet_score,omitempty"`             // [0,1], 1 = optimal
	ActivityMinutes *float64      `json:"activity_minutes,omitempty" yaml:"activity_minutes,omitempty"` // minutes per week
	SleepHours      *float64      `json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`           // average per night
	StressScore     *float64      `json:"stress_score,omitempty" yaml:"stress_score,omitempty"`         // [0,1], 1 = worst
	Smoking         SmokingStatus `json:"smoking,omitempty" yaml:"smoking,omitempty"`
	Alcohol         AlcoholUse    `json:"alcohol,omitempty" yaml:"alcohol,omitempty"`
}

// GeneticMarker is a named inherited risk weight in [0,1].
type GeneticMarker struct {
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Genetic marker names consumed by the default risk model.
const (
	MarkerCardiovascular    = "cardiovascular_disease"
	MarkerType2Diabetes     = "type_2_diabetes"
	MarkerCancer            = "cancer"
	MarkerNeurodegenerative = "neurodegenerative"
)

// ImpedancePoint is one sample of a bioimpedance frequency scan from an
// ear-insert sensor.
type ImpedancePoint struct {
	FrequencyHz float64 `json:"frequency_hz" yaml:"frequency_hz"`
	Magnitude   float64 `json:"magnitude" yaml:"magnitude"`
	PhaseDeg    float64 `json:"phase_deg" yaml:"phase_deg"`
}

// Profile is the typed representation of one user's health, lifestyle,
// genetic and biosensor data. Profiles are treated as immutable by the
// engine; scenario application always returns a derived copy.
type Profile struct {
	ID        string           `json:"id" yaml:"id"`
	Age       float64          `json:"age" yaml:"age"` // chronological, years
	Sex       Sex              `json:"sex" yaml:"sex"`
	Metrics   []Metric         `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Lifestyle Lifestyle        `json:"lifestyle" yaml:"lifestyle"`
	Genetics  []GeneticMarker  `json:"genetics,omitempty" yaml:"genetics,omitempty"`
	Impedance []ImpedancePoint `json:"impedance,omitempty" yaml:"impedance,omitempty"`
}

// Metric returns the most recent value recorded under name.
func (p *Profile) Metric(name string) (float64, bool) {
	found := false
	var value float64
	var at time.Time
	for _, m := range p.Metrics {
		if m.Name != name {
			continue
		}
		if !found || m.RecordedAt.After(at) {
			value = m.Value
			at = m.RecordedAt
			found = true
		}
	}
	return value, found
}

// GeneticWeight returns the weight of the named marker.
func (p *Profile) GeneticWeight(name string) (float64, bool) {
	for _, g := range p.Genetics {
		if g.Name == name {
			return g.Weight, true
		}
	}
	return 0, false
}

// Validate checks structural invariants. It distinguishes malformed values
// from merely absent ones: a missing metric is fine, a NaN age is not.
func (p *Profile) Validate() error {
	if p.Age < 0 || math.IsNaN(p.Age) || math.IsInf(p.Age, 0) {
		return &errs.InvalidProfileError{Field: "age", Reason: fmt.Sprintf("must be a finite value >= 0, got %v", p.Age)}
	}
	switch p.Sex {
	case SexMale, SexFemale:
	default:
		return &errs.InvalidProfileError{Field: "sex", Reason: fmt.Sprintf("must be %q or %q, got %q", SexMale, SexFemale, p.Sex)}
	}
	for i, m := range p.Metrics {
		if m.Name == "" {
			return &errs.InvalidProfileError{Field: fmt.Sprintf("metrics[%d].name", i), Reason: "must not be empty"}
		}
		if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
			return &errs.InvalidProfileError{Field: fmt.Sprintf("metrics[%d].value", i), Reason: "must be finite"}
		}
	}
	for i, g := range p.Genetics {
		if g.Name == "" {
			return &errs.InvalidProfileError{Field: fmt.Sprintf("genetics[%d].name", i), Reason: "must not be empty"}
		}
		if math.IsNaN(g.Weight) || math.IsInf(g.Weight, 0) {
			return &errs.InvalidProfileError{Field: fmt.Sprintf("genetics[%d].weight", i), Reason: "must be finite"}
		}
	}
	if err := validateLifestyle(&p.Lifestyle); err != nil {
		return err
	}
	return validateSpectrum(p.Impedance)
}

func validateLifestyle(l *Lifestyle) error {
	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"lifestyle.diet_score", l.DietScore},
		{"lifestyle.activity_minutes", l.ActivityMinutes},
		{"lifestyle.sleep_hours", l.SleepHours},
		{"lifestyle.stress_score", l.StressScore},
	} {
		if f.value == nil {
			continue
		}
		if math.IsNaN(*f.value) || math.IsInf(*f.value, 0) || *f.value < 0 {
			return &errs.InvalidProfileError{Field: f.name, Reason: fmt.Sprintf("must be a finite value >= 0, got %v", *f.value)}
		}
	}
	switch l.Smoking {
	case "", SmokingNever, SmokingFormer, SmokingCurrent:
	default:
		return &errs.InvalidProfileError{Field: "lifestyle.smoking", Reason: fmt.Sprintf("unknown status %q", l.Smoking)}
	}
	switch l.Alcohol {
	case "", AlcoholNone, AlcoholRare, AlcoholModerate, AlcoholFrequent:
	default:
		return &errs.InvalidProfileError{Field: "lifestyle.alcohol", Reason: fmt.Sprintf("unknown use %q", l.Alcohol)}
	}
	return nil
}

// validateSpectrum requires strictly increasing positive frequencies so the
// scan is a well-formed ordered sweep.
func validateSpectrum(points []ImpedancePoint) error {
	prev := 0.0
	for i, pt := range points {
		if math.IsNaN(pt.FrequencyHz) || pt.FrequencyHz <= prev {
			return &errs.InvalidProfileError{
				Field:  fmt.Sprintf("impedance[%d].frequency_hz", i),
				Reason: "frequencies must be positive and strictly increasing",
			}
		}
		if math.IsNaN(pt.Magnitude) || math.IsInf(pt.Magnitude, 0) || pt.Magnitude < 0 {
			return &errs.InvalidProfileError{
				Field:  fmt.Sprintf("impedance[%d].magnitude", i),
				Reason: "must be a finite value >= 0",
			}
		}
		if math.IsNaN(pt.PhaseDeg) || math.IsInf(pt.PhaseDeg, 0) {
			return &errs.InvalidProfileError{
				Field:  fmt.Sprintf("impedance[%d].phase_deg", i),
				Reason: "must be finite",
			}
		}
		prev = pt.FrequencyHz
	}
	return nil
}

// Clone returns a deep copy. Scenario application works on clones so the
// original profile is never mutated.
func (p *Profile) Clone() *Profile {
	out := *p
	if p.Metrics != nil {
		out.Metrics = append([]Metric(nil), p.Metrics...)
	}
	if p.Genetics != nil {
		out.Genetics = append([]GeneticMarker(nil), p.Genetics...)
	}
	if p.Impedance != nil {
		out.Impedance = append([]ImpedancePoint(nil), p.Impedance...)
	}
	out.Lifestyle = cloneLifestyle(&p.Lifestyle)
	return &out
}

func cloneLifestyle(l *Lifestyle) Lifestyle {
	out := *l
	out.DietScore = cloneFloat(l.DietScore)
	out.ActivityMinutes = cloneFloat(l.ActivityMinutes)
	out.SleepHours = cloneFloat(l.SleepHours)
	out.StressScore = cloneFloat(l.StressScore)
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
