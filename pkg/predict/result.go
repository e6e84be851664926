package predict

import (
	"github.com/lifearc-ai/engine/pkg/risk"
)

// BaselineScenario identifies a prediction made without any intervention.
const BaselineScenario = "baseline"

// DomainScore is one domain's score and qualitative band.
type DomainScore struct {
	Domain risk.Domain `json:"domain"`
	Score  float64     `json:"score"`
	Band   risk.Band   `json:"band"`
}

// Result is the serializable outcome of one prediction. Results are
// created per invocation and never mutated; field names and units are the
// compatibility surface toward reporting collaborators.
type Result struct {
	ProfileID             string        `json:"profile_id"`
	Scenario              string        `json:"scenario"`
	LifeExpectancyYears   float64       `json:"life_expectancy_years"`
	ConfidenceLowYears    float64       `json:"confidence_low_years"`
	ConfidenceHighYears   float64       `json:"confidence_high_years"`
	BiologicalAgeYears    float64       `json:"biological_age_years"`
	ChronologicalAgeYears float64       `json:"chronological_age_years"`
	AggregateRisk         float64       `json:"aggregate_risk"`
	Domains               []DomainScore `json:"domains"`
	Completeness          float64       `json:"completeness"`
}

// DomainScore returns the entry for the given domain.
func (r *Result) DomainScore(d risk.Domain) (DomainScore, bool) {
	for _, ds := range r.Domains {
		if ds.Domain == d {
			return ds, true
		}
	}
	return DomainScore{}, false
}
