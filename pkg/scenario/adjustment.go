package scenario

import (
	"fmt"
	"math"
	"strings"

	"github.com/lifearc-ai/engine/pkg/profile"
)

// Op is the kind of change an adjustment makes to its target attribute.
type Op string

const (
	OpAdd Op = "add"
	OpMul Op = "mul"
	OpSet Op = "set"
)

// Adjustment is one predicate-gated change to a profile attribute. Numeric
// targets use Magnitude; enum targets use Value with OpSet.
type Adjustment struct {
	Attribute string     `yaml:"attribute" json:"attribute"`
	Op        Op         `yaml:"op" json:"op"`
	Magnitude float64    `yaml:"magnitude,omitempty" json:"magnitude,omitempty"`
	Value     string     `yaml:"value,omitempty" json:"value,omitempty"`
	When      *Predicate `yaml:"when,omitempty" json:"when,omitempty"`
}

// Predicate gates an adjustment on the current state of the profile.
// Equals applies to enum attributes, Below/Above to numeric ones. A
// predicate over an absent attribute evaluates to false, so the adjustment
// is skipped.
type Predicate struct {
	Attribute string   `yaml:"attribute" json:"attribute"`
	Equals    string   `yaml:"equals,omitempty" json:"equals,omitempty"`
	Below     *float64 `yaml:"below,omitempty" json:"below,omitempty"`
	Above     *float64 `yaml:"above,omitempty" json:"above,omitempty"`
}

// Addressable attribute namespaces. Lifestyle attributes are a fixed set;
// "metric.<name>" addresses any named health metric.
const (
	attrDietScore       = "lifestyle.diet_score"
	attrActivityMinutes = "lifestyle.activity_minutes"
	attrSleepHours      = "lifestyle.sleep_hours"
	attrStressScore     = "lifestyle.stress_score"
	attrSmoking         = "lifestyle.smoking"
	attrAlcohol         = "lifestyle.alcohol"
	metricPrefix        = "metric."
)

type attrKind int

const (
	kindUnknown attrKind = iota
	kindNumeric
	kindEnum
)

// numericRange bounds the value an adjustment may leave behind.
type numericRange struct {
	min, max float64
}

var lifestyleRanges = map[string]numericRange{
	attrDietScore:       {0, 1},
	attrActivityMinutes: {0, 7 * 24 * 60},
	attrSleepHours:      {0, 24},
	attrStressScore:     {0, 1},
}

var enumValues = map[string][]string{
	attrSmoking: {string(profile.SmokingNever), string(profile.SmokingFormer), string(profile.SmokingCurrent)},
	attrAlcohol: {string(profile.AlcoholNone), string(profile.AlcoholRare), string(profile.AlcoholModerate), string(profile.AlcoholFrequent)},
}

func kindOf(attribute string) attrKind {
	if _, ok := lifestyleRanges[attribute]; ok {
		return kindNumeric
	}
	if _, ok := enumValues[attribute]; ok {
		return kindEnum
	}
	if strings.HasPrefix(attribute, metricPrefix) && len(attribute) > len(metricPrefix) {
		return kindNumeric
	}
	return kindUnknown
}

func rangeOf(attribute string) numericRange {
	if r, ok := lifestyleRanges[attribute]; ok {
		return r
	}
	return numericRange{0, math.MaxFloat64}
}

func numericValue(p *profile.Profile, attribute string) (float64, bool) {
	switch attribute {
	case attrDietScore:
		return deref(p.Lifestyle.DietScore)
	case attrActivityMinutes:
		return deref(p.Lifestyle.ActivityMinutes)
	case attrSleepHours:
		return deref(p.Lifestyle.SleepHours)
	case attrStressScore:
		return deref(p.Lifestyle.StressScore)
	}
	return p.Metric(strings.TrimPrefix(attribute, metricPrefix))
}

func setNumeric(p *profile.Profile, attribute string, value float64) {
	switch attribute {
	case attrDietScore:
		p.Lifestyle.DietScore = &value
	case attrActivityMinutes:
		p.Lifestyle.ActivityMinutes = &value
	case attrSleepHours:
		p.Lifestyle.SleepHours = &value
	case attrStressScore:
		p.Lifestyle.StressScore = &value
	default:
		setMetric(p, strings.TrimPrefix(attribute, metricPrefix), value)
	}
}

// setMetric rewrites every entry recorded under name so the derived profile
// stays internally consistent, appending a new entry when none exists.
func setMetric(p *profile.Profile, name string, value float64) {
	found := false
	for i := range p.Metrics {
		if p.Metrics[i].Name == name {
			p.Metrics[i].Value = value
			found = true
		}
	}
	if !found {
		p.Metrics = append(p.Metrics, profile.Metric{Name: name, Value: value})
	}
}

func enumValue(p *profile.Profile, attribute string) (string, bool) {
	switch attribute {
	case attrSmoking:
		return string(p.Lifestyle.Smoking), p.Lifestyle.Smoking != ""
	case attrAlcohol:
		return string(p.Lifestyle.Alcohol), p.Lifestyle.Alcohol != ""
	}
	return "", false
}

func setEnum(p *profile.Profile, attribute, value string) {
	switch attribute {
	case attrSmoking:
		p.Lifestyle.Smoking = profile.SmokingStatus(value)
	case attrAlcohol:
		p.Lifestyle.Alcohol = profile.AlcoholUse(value)
	}
}

func (pr *Predicate) holds(p *profile.Profile) bool {
	switch kindOf(pr.Attribute) {
	case kindEnum:
		current, ok := enumValue(p, pr.Attribute)
		return ok && current == pr.Equals
	case kindNumeric:
		current, ok := numericValue(p, pr.Attribute)
		if !ok {
			return false
		}
		if pr.Below != nil && !(current < *pr.Below) {
			return false
		}
		if pr.Above != nil && !(current > *pr.Above) {
			return false
		}
		return pr.Below != nil || pr.Above != nil
	}
	return false
}

// validate rejects malformed adjustments at catalog load time so unknown
// attributes are reported instead of silently dropped.
func (a *Adjustment) validate() error {
	kind := kindOf(a.Attribute)
	switch kind {
	case kindUnknown:
		return fmt.Errorf("unknown target attribute %q", a.Attribute)
	case kindEnum:
		if a.Op != OpSet {
			return fmt.Errorf("attribute %q only supports op %q", a.Attribute, OpSet)
		}
		if !contains(enumValues[a.Attribute], a.Value) {
			return fmt.Errorf("attribute %q cannot take value %q", a.Attribute, a.Value)
		}
	case kindNumeric:
		switch a.Op {
		case OpAdd, OpSet:
		case OpMul:
			if a.Magnitude < 0 {
				return fmt.Errorf("attribute %q: multiplicative magnitude must be >= 0", a.Attribute)
			}
		default:
			return fmt.Errorf("unknown op %q", a.Op)
		}
		if math.IsNaN(a.Magnitude) || math.IsInf(a.Magnitude, 0) {
			return fmt.Errorf("attribute %q: magnitude must be finite", a.Attribute)
		}
	}
	if a.When != nil {
		switch kindOf(a.When.Attribute) {
		case kindUnknown:
			return fmt.Errorf("predicate references unknown attribute %q", a.When.Attribute)
		case kindEnum:
			if a.When.Equals == "" || a.When.Below != nil || a.When.Above != nil {
				return fmt.Errorf("predicate on %q must use equals", a.When.Attribute)
			}
		case kindNumeric:
			if a.When.Equals != "" || (a.When.Below == nil && a.When.Above == nil) {
				return fmt.Errorf("predicate on %q must use below or above", a.When.Attribute)
			}
		}
	}
	return nil
}

// apply mutates the derived profile in place. Additive and multiplicative
// ops over an absent attribute are no-ops; only an override populates a
// missing value.
func (a *Adjustment) apply(p *profile.Profile) {
	if a.When != nil && !a.When.holds(p) {
		return
	}
	switch kindOf(a.Attribute) {
	case kindEnum:
		setEnum(p, a.Attribute, a.Value)
	case kindNumeric:
		current, ok := numericValue(p, a.Attribute)
		var next float64
		switch a.Op {
		case OpSet:
			next = a.Magnitude
		case OpAdd:
			if !ok {
				return
			}
			next = current + a.Magnitude
		case OpMul:
			if !ok {
				return
			}
			next = current * a.Magnitude
		}
		r := rangeOf(a.Attribute)
		if next < r.min {
			next = r.min
		}
		if next > r.max {
			next = r.max
		}
		setNumeric(p, a.Attribute, next)
	}
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
