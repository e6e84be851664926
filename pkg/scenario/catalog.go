package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lifearc-ai/engine/pkg/common/errs"
)

// Scenario is a named, immutable template of ordered adjustments. A
// composite scenario declares Includes; at load time its adjustment list is
// expanded to the ordered union of the included scenarios' lists followed
// by its own.
type Scenario struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Includes    []string     `yaml:"includes,omitempty" json:"includes,omitempty"`
	Adjustments []Adjustment `yaml:"adjustments,omitempty" json:"adjustments,omitempty"`
}

type catalogFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Catalog is the resolved, validated set of scenarios. It is data, not
// code: new scenarios are added by editing the catalog file.
type Catalog struct {
	scenarios map[string]Scenario
	order     []string
}

// Load reads a catalog from path, or returns the default catalog when path
// is empty. Includes are expanded and every adjustment validated before the
// catalog is usable.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return build(defaultScenarios())
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var file catalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, err
	}
	if len(file.Scenarios) == 0 {
		return nil, &errs.ConfigurationError{Component: "scenario catalog", Reason: "no scenarios defined"}
	}
	return build(file.Scenarios)
}

// Default returns the compiled-in catalog.
func Default() *Catalog {
	c, err := build(defaultScenarios())
	if err != nil {
		// The compiled-in catalog is covered by tests; reaching this
		// means the binary itself is broken.
		panic(err)
	}
	return c
}

func build(list []Scenario) (*Catalog, error) {
	byName := make(map[string]Scenario, len(list))
	order := make([]string, 0, len(list))
	for _, s := range list {
		if s.Name == "" {
			return nil, &errs.InvalidScenarioError{Scenario: "(unnamed)", Reason: "scenario name must not be empty"}
		}
		if _, dup := byName[s.Name]; dup {
			return nil, &errs.InvalidScenarioError{Scenario: s.Name, Reason: "duplicate scenario name"}
		}
		byName[s.Name] = s
		order = append(order, s.Name)
	}

	resolved := make(map[string]Scenario, len(byName))
	for _, name := range order {
		adjustments, err := resolve(name, byName, resolved, map[string]bool{})
		if err != nil {
			return nil, err
		}
		s := byName[name]
		s.Adjustments = adjustments
		resolved[name] = s
	}

	for _, name := range order {
		s := resolved[name]
		for i := range s.Adjustments {
			if err := s.Adjustments[i].validate(); err != nil {
				return nil, &errs.InvalidScenarioError{Scenario: name, Reason: fmt.Sprintf("adjustment %d: %v", i, err)}
			}
		}
	}
	return &Catalog{scenarios: resolved, order: order}, nil
}

// resolve expands includes depth-first in declared order. Concatenating the
// included adjustment lists keeps composition associative: applying the
// composite equals applying each constituent in sequence.
func resolve(name string, byName, done map[string]Scenario, visiting map[string]bool) ([]Adjustment, error) {
	if s, ok := done[name]; ok {
		return s.Adjustments, nil
	}
	if visiting[name] {
		return nil, &errs.InvalidScenarioError{Scenario: name, Reason: "include cycle"}
	}
	s, ok := byName[name]
	if !ok {
		return nil, &errs.InvalidScenarioError{Scenario: name, Reason: "included scenario is not defined"}
	}
	visiting[name] = true
	defer delete(visiting, name)

	var out []Adjustment
	for _, include := range s.Includes {
		sub, err := resolve(include, byName, done, visiting)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	out = append(out, s.Adjustments...)
	return out, nil
}

// Get returns the named scenario or InvalidScenarioError.
func (c *Catalog) Get(name string) (Scenario, error) {
	s, ok := c.scenarios[name]
	if !ok {
		return Scenario{}, &errs.InvalidScenarioError{Scenario: name, Reason: "not in catalog"}
	}
	return s, nil
}

// Names lists the catalog's scenarios in declared order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Scenarios returns the resolved scenarios in declared order.
func (c *Catalog) Scenarios() []Scenario {
	out := make([]Scenario, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.scenarios[name])
	}
	return out
}

func f(v float64) *float64 { return &v }

// defaultScenarios is the documented intervention catalog.
func defaultScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "improved_diet",
			Description: "Mediterranean-style diet with minimal processed food",
			Adjustments: []Adjustment{
				{Attribute: "lifestyle.diet_score", Op: OpAdd, Magnitude: 0.30},
				{Attribute: "metric.total_cholesterol", Op: OpMul, Magnitude: 0.88},
				{Attribute: "metric.ldl_cholesterol", Op: OpMul, Magnitude: 0.85},
				{Attribute: "metric.fasting_glucose", Op: OpMul, Magnitude: 0.95, When: &Predicate{Attribute: "metric.fasting_glucose", Above: f(85)}},
				{Attribute: "metric.hba1c", Op: OpMul, Magnitude: 0.97, When: &Predicate{Attribute: "metric.hba1c", Above: f(5.0)}},
				{Attribute: "metric.bmi", Op: OpMul, Magnitude: 0.95, When: &Predicate{Attribute: "metric.bmi", Above: f(25)}},
			},
		},
		{
			Name:        "exercise_program",
			Description: "Structured aerobic and resistance training program",
			Adjustments: []Adjustment{
				{Attribute: "lifestyle.activity_minutes", Op: OpSet, Magnitude: 150, When: &Predicate{Attribute: "lifestyle.activity_minutes", Below: f(150)}},
				{Attribute: "lifestyle.activity_minutes", Op: OpAdd, Magnitude: 60},
				{Attribute: "metric.resting_heart_rate", Op: OpAdd, Magnitude: -8, When: &Predicate{Attribute: "metric.resting_heart_rate", Above: f(60)}},
				{Attribute: "metric.systolic_bp", Op: OpAdd, Magnitude: -6, When: &Predicate{Attribute: "metric.systolic_bp", Above: f(115)}},
				{Attribute: "metric.vo2_max", Op: OpAdd, Magnitude: 12},
				{Attribute: "metric.bmi", Op: OpMul, Magnitude: 0.97, When: &Predicate{Attribute: "metric.bmi", Above: f(25)}},
			},
		},
		{
			Name:        "stress_reduction",
			Description: "Daily mindfulness practice and workload boundaries",
			Adjustments: []Adjustment{
				{Attribute: "lifestyle.stress_score", Op: OpAdd, Magnitude: -0.30},
				{Attribute: "lifestyle.sleep_hours", Op: OpAdd, Magnitude: 0.5, When: &Predicate{Attribute: "lifestyle.sleep_hours", Below: f(7.0)}},
			},
		},
		{
			Name:        "sleep_optimization",
			Description: "Regular schedule targeting 7.5 hours per night",
			Adjustments: []Adjustment{
				{Attribute: "lifestyle.sleep_hours", Op: OpSet, Magnitude: 7.5, When: &Predicate{Attribute: "lifestyle.sleep_hours", Below: f(7.5)}},
				{Attribute: "lifestyle.stress_score", Op: OpAdd, Magnitude: -0.10},
			},
		},
		{
			Name:        "quit_smoking",
			Description: "Smoking cessation with support program",
			Adjustments: []Adjustment{
				{Attribute: "lifestyle.smoking", Op: OpSet, Value: "former", When: &Predicate{Attribute: "lifestyle.smoking", Equals: "current"}},
			},
		},
		{
			Name:        "optimal_lifestyle",
			Description: "All interventions combined",
			Includes: []string{
				"improved_diet",
				"exercise_program",
				"stress_reduction",
				"sleep_optimization",
				"quit_smoking",
			},
		},
	}
}
