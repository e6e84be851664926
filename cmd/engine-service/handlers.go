package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lifearc-ai/engine/pkg/common/cache"
	"github.com/lifearc-ai/engine/pkg/common/errs"
	"github.com/lifearc-ai/engine/pkg/common/kafka"
	"github.com/lifearc-ai/engine/pkg/common/logger"
	"github.com/lifearc-ai/engine/pkg/common/models"
	"github.com/lifearc-ai/engine/pkg/observability/metrics"
	"github.com/lifearc-ai/engine/pkg/predict"
	"github.com/lifearc-ai/engine/pkg/recommend"
)

const eventSource = "engine-service"

type EngineService struct {
	predictor *predict.Predictor
	generator *recommend.Generator
	cache     *cache.Client
	producer  *kafka.Producer
}

func (s *EngineService) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, req, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}
	key := cache.Key("predict", body)
	if s.serveCached(w, r, key) {
		return
	}

	result, err := s.predictor.Predict(&req.Profile)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.ObservePrediction()
	s.publish(r, "prediction.completed", result)
	s.writeJSON(w, r, key, models.PredictResponse{Result: result})
}

func (s *EngineService) handlePredictScenario(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	body, req, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}
	key := cache.Key("predict:"+name, body)
	if s.serveCached(w, r, key) {
		return
	}

	result, err := s.predictor.PredictScenario(&req.Profile, name)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.ObservePrediction()
	s.publish(r, "prediction.completed", result)
	s.writeJSON(w, r, key, models.PredictResponse{Result: result})
}

func (s *EngineService) handleCompare(w http.ResponseWriter, r *http.Request) {
	body, req, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}
	key := cache.Key("compare", body)
	if s.serveCached(w, r, key) {
		return
	}

	results, err := s.predictor.Compare(&req.Profile)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.ObserveComparison()
	s.publish(r, "comparison.completed", results)
	s.writeJSON(w, r, key, models.CompareResponse{Results: results})
}

func (s *EngineService) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	body, req, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}
	key := cache.Key("recommendations", body)
	if s.serveCached(w, r, key) {
		return
	}

	result, err := s.predictor.Predict(&req.Profile)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := s.generator.RecommendFor(&req.Profile, result)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := models.RecommendationsResponse{Result: result, Recommendations: items}
	metrics.ObserveRecommendation()
	s.publish(r, "recommendations.completed", resp)
	s.writeJSON(w, r, key, resp)
}

func (s *EngineService) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.ScenarioListResponse{Scenarios: s.predictor.Catalog().Scenarios()})
}

// decodeProfile reads the whole body first so the raw bytes can double as
// the cache key for this deterministic engine.
func (s *EngineService) decodeProfile(w http.ResponseWriter, r *http.Request) ([]byte, *models.PredictRequest, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return nil, nil, false
	}
	var req models.PredictRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return nil, nil, false
	}
	return body, &req, true
}

func (s *EngineService) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if s.cache == nil {
		return false
	}
	payload, ok := s.cache.Get(r.Context(), key)
	metrics.ObserveCache(ok)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "hit")
	w.Write(payload)
	return true
}

func (s *EngineService) writeJSON(w http.ResponseWriter, r *http.Request, key string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if s.cache != nil {
		s.cache.Set(r.Context(), key, payload)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// publish is best effort: a reporting outage never fails the prediction.
func (s *EngineService) publish(r *http.Request, eventType string, data interface{}) {
	if s.producer == nil {
		return
	}
	err := s.producer.PublishEvent(r.Context(), eventType, eventSource, data)
	metrics.ObserveEventPublish(err)
	if err != nil {
		logger.Log.WithError(err).Warn("Result event not published")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var profileErr *errs.InvalidProfileError
	var scenarioErr *errs.InvalidScenarioError
	switch {
	case errors.As(err, &profileErr):
		status = http.StatusBadRequest
		metrics.ObserveRejection()
	case errors.As(err, &scenarioErr):
		status = http.StatusNotFound
		metrics.ObserveRejection()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: err.Error()})
}
