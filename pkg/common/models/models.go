package models

import (
	"time"

	"github.com/lifearc-ai/engine/pkg/predict"
	"github.com/lifearc-ai/engine/pkg/profile"
	"github.com/lifearc-ai/engine/pkg/recommend"
	"github.com/lifearc-ai/engine/pkg/scenario"
)

// Event wraps a completed result bundle for downstream reporting
// consumers on the event bus.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"` // prediction.completed, comparison.completed, recommendations.completed
	Source    string      `json:"source"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// PredictRequest carries the profile to score. The engine tolerates
// partially populated profiles; only malformed values are rejected.
type PredictRequest struct {
	Profile profile.Profile `json:"profile"`
}

type PredictResponse struct {
	Result predict.Result `json:"result"`
}

// CompareResponse is the scenario comparison table: independent results
// keyed by scenario id, baseline included.
type CompareResponse struct {
	Results map[string]predict.Result `json:"results"`
}

type RecommendationsResponse struct {
	Result          predict.Result   `json:"result"`
	Recommendations []recommend.Item `json:"recommendations"`
}

type ScenarioListResponse struct {
	Scenarios []scenario.Scenario `json:"scenarios"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
