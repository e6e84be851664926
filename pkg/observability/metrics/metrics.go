package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	predictionsServed      atomic.Int64
	comparisonsServed      atomic.Int64
	recommendationsServed  atomic.Int64
	predictionsRejected    atomic.Int64
	cacheHits              atomic.Int64
	cacheMisses            atomic.Int64
	resultEventsPublished  atomic.Int64
	resultEventsFailed     atomic.Int64
)

func Init() {}

func ObservePrediction() { predictionsServed.Add(1) }

func ObserveComparison() { comparisonsServed.Add(1) }

func ObserveRecommendation() { recommendationsServed.Add(1) }

func ObserveRejection() { predictionsRejected.Add(1) }

func ObserveCache(hit bool) {
	if hit {
		cacheHits.Add(1)
	} else {
		cacheMisses.Add(1)
	}
}

func ObserveEventPublish(err error) {
	if err != nil {
		resultEventsFailed.Add(1)
	} else {
		resultEventsPublished.Add(1)
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP lifearc_engine_predictions_total Number of baseline and scenario predictions served.\n")
	fmt.Fprintf(w, "# TYPE lifearc_engine_predictions_total counter\n")
	fmt.Fprintf(w, "lifearc_engine_predictions_total %d\n", predictionsServed.Load())

	fmt.Fprintf(w, "# HELP lifearc_engine_comparisons_total Number of multi-scenario comparisons served.\n")
	fmt.Fprintf(w, "# TYPE lifearc_engine_comparisons_total counter\n")
	fmt.Fprintf(w, "lifearc_engine_comparisons_total %d\n", comparisonsServed.Load())

	fmt.Fprintf(w, "# HELP lifearc_engine_recommendations_total Number of recommendation requests served.\n")
	fmt.Fprintf(w, "# TYPE lifearc_engine_recommendations_total counter\n")
	fmt.Fprintf(w, "lifearc_engine_recommendations_total %d\n", recommendationsServed.Load())

	fmt.Fprintf(w, "# HELP lifearc_engine_rejections_total Number of requests rejected for invalid profiles or unknown scenarios.\n")
	fmt.Fprintf(w, "# TYPE lifearc_engine_rejections_total counter\n")
	fmt.Fprintf(w, "lifearc_engine_rejections_total %d\n", predictionsRejected.Load())

	fmt.Fprintf(w, "# HELP lifearc_engine_cache_hits_total Number of responses served from the result cache.\n")
	fmt.Fprintf(w, "# TYPE lifearc_engine_cache_hits_total counter\n")
	fmt.Fprintf(w, "lifearc_engine_cache_hits_total %d\n", cacheHits.Load())

	fmt.Fprintf(w, "# HELP lifearc_engine_cache_misses_total Number of cacheable requests computed fresh.\n")
	fmt.Fprintf(w, "# TYPE lifearc_engine_cache_misses_total counter\n")
	fmt.Fprintf(w, "lifearc_engine_cache_misses_total %d\n", cacheMisses.Load())

	fmt.Fprintf(w, "# HELP lifearc_engine_result_events_published_total Number of result events published to the broker.\n")
	fmt.Fprintf(w, "# TYPE lifearc_engine_result_events_published_total counter\n")
	fmt.Fprintf(w, "lifearc_engine_result_events_published_total %d\n", resultEventsPublished.Load())

	fmt.Fprintf(w, "# HELP lifearc_engine_result_events_failed_total Number of result events that could not be published.\n")
	fmt.Fprintf(w, "# TYPE lifearc_engine_result_events_failed_total counter\n")
	fmt.Fprintf(w, "lifearc_engine_result_events_failed_total %d\n", resultEventsFailed.Load())
}
