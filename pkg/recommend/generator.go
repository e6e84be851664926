package recommend

import (
	"math"
	"sort"

	"github.com/lifearc-ai/engine/pkg/predict"
	"github.com/lifearc-ai/engine/pkg/profile"
	"github.com/lifearc-ai/engine/pkg/risk"
)

// Item is one ranked, explainable recommendation. ImpactYears is the life
// expectancy gained under the associated scenario; ImpactRisk is the change
// in the target domain's score (negative means improvement).
type Item struct {
	Domain      risk.Domain `json:"domain"`
	Action      string      `json:"action"`
	Scenario    string      `json:"scenario"`
	ImpactYears float64     `json:"impact_years"`
	ImpactRisk  float64     `json:"impact_risk"`
	Priority    int         `json:"priority"`
}

// domainScenarios associates each domain with the catalog scenario most
// targeted at it, used to estimate the impact of acting on that domain.
var domainScenarios = map[risk.Domain]string{
	risk.DomainCardiovascular: "exercise_program",
	risk.DomainMetabolic:      "improved_diet",
	risk.DomainNeurological:   "stress_reduction",
	risk.DomainCancer:         "quit_smoking",
}

var domainActions = map[risk.Domain]string{
	risk.DomainCardiovascular: "Take up a structured aerobic and resistance training program",
	risk.DomainMetabolic:      "Shift to a Mediterranean-style diet and cut processed food",
	risk.DomainNeurological:   "Adopt a daily stress reduction practice and protect sleep",
	risk.DomainCancer:         "Stop smoking and keep fruit and vegetable intake high",
}

// Generator derives ranked recommendations from a predictor's risk
// breakdown by re-running the predictor under each domain's associated
// scenario.
type Generator struct {
	predictor *predict.Predictor
}

func NewGenerator(p *predict.Predictor) *Generator {
	return &Generator{predictor: p}
}

// Recommend produces one item per moderate-or-high domain, ordered by
// descending impact magnitude with ties broken by the fixed domain
// priority order. A profile with every domain in the low band yields an
// empty list, not an error.
func (g *Generator) Recommend(prof *profile.Profile) ([]Item, error) {
	baseline, err := g.predictor.Predict(prof)
	if err != nil {
		return nil, err
	}
	return g.fromBaseline(prof, baseline)
}

// RecommendFor is Recommend for callers that already hold the baseline
// result and want to avoid recomputing it.
func (g *Generator) RecommendFor(prof *profile.Profile, baseline predict.Result) ([]Item, error) {
	return g.fromBaseline(prof, baseline)
}

func (g *Generator) fromBaseline(prof *profile.Profile, baseline predict.Result) ([]Item, error) {
	items := make([]Item, 0, len(baseline.Domains))
	for _, ds := range baseline.Domains {
		if ds.Band == risk.BandLow {
			continue
		}
		scenarioName, ok := domainScenarios[ds.Domain]
		if !ok {
			continue
		}
		under, err := g.predictor.PredictScenario(prof, scenarioName)
		if err != nil {
			return nil, err
		}
		impactRisk := 0.0
		if after, ok := under.DomainScore(ds.Domain); ok {
			impactRisk = after.Score - ds.Score
		}
		items = append(items, Item{
			Domain:      ds.Domain,
			Action:      domainActions[ds.Domain],
			Scenario:    scenarioName,
			ImpactYears: under.LifeExpectancyYears - baseline.LifeExpectancyYears,
			ImpactRisk:  impactRisk,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		mi, mj := math.Abs(items[i].ImpactYears), math.Abs(items[j].ImpactYears)
		if mi != mj {
			return mi > mj
		}
		ri, rj := risk.PriorityRank(items[i].Domain), risk.PriorityRank(items[j].Domain)
		if ri != rj {
			return ri < rj
		}
		return items[i].Domain < items[j].Domain
	})
	for i := range items {
		items[i].Priority = i + 1
	}
	return items, nil
}
