package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lifearc-ai/engine/pkg/actuarial"
	"github.com/lifearc-ai/engine/pkg/common/logger"
	"github.com/lifearc-ai/engine/pkg/common/models"
	"github.com/lifearc-ai/engine/pkg/predict"
	"github.com/lifearc-ai/engine/pkg/profile"
	"github.com/lifearc-ai/engine/pkg/recommend"
	"github.com/lifearc-ai/engine/pkg/risk"
	"github.com/lifearc-ai/engine/pkg/scenario"
)

func main() {
	var (
		profilePath  = flag.String("profile", "", "path to the profile JSON file (required)")
		scenarioName = flag.String("scenario", "", "predict under this catalog scenario instead of the baseline")
		compare      = flag.Bool("compare", false, "predict the baseline and every catalog scenario")
		withRecs     = flag.Bool("recommend", false, "include ranked recommendations")
		catalogPath  = flag.String("catalog", "", "scenario catalog YAML, compiled-in default when empty")
		riskPath     = flag.String("risk-config", "", "risk model YAML, compiled-in default when empty")
		tablePath    = flag.String("table", "", "actuarial table YAML, compiled-in default when empty")
	)
	flag.Parse()

	logger.Init()

	if *profilePath == "" {
		fmt.Fprintln(os.Stderr, "lifesim: -profile is required")
		flag.Usage()
		os.Exit(2)
	}

	prof, err := loadProfile(*profilePath)
	if err != nil {
		fatal(err)
	}

	table, err := actuarial.Load(*tablePath)
	if err != nil {
		fatal(err)
	}
	riskCfg, err := risk.LoadConfig(*riskPath)
	if err != nil {
		fatal(err)
	}
	catalog, err := scenario.Load(*catalogPath)
	if err != nil {
		fatal(err)
	}
	predictor, err := predict.New(table, riskCfg, catalog, predict.DefaultParams())
	if err != nil {
		fatal(err)
	}

	var out interface{}
	switch {
	case *compare:
		results, err := predictor.Compare(prof)
		if err != nil {
			fatal(err)
		}
		out = models.CompareResponse{Results: results}
	case *scenarioName != "":
		result, err := predictor.PredictScenario(prof, *scenarioName)
		if err != nil {
			fatal(err)
		}
		out = withRecommendations(predictor, prof, result, *withRecs)
	default:
		result, err := predictor.Predict(prof)
		if err != nil {
			fatal(err)
		}
		out = withRecommendations(predictor, prof, result, *withRecs)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		fatal(err)
	}
}

func withRecommendations(predictor *predict.Predictor, prof *profile.Profile, result predict.Result, include bool) interface{} {
	if !include {
		return models.PredictResponse{Result: result}
	}
	items, err := recommend.NewGenerator(predictor).RecommendFor(prof, result)
	if err != nil {
		fatal(err)
	}
	return models.RecommendationsResponse{Result: result, Recommendations: items}
}

func loadProfile(path string) (*profile.Profile, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var prof profile.Profile
	if err := json.Unmarshal(content, &prof); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &prof, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "lifesim: %v\n", err)
	os.Exit(1)
}
