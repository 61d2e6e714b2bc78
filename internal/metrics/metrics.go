// Package metrics holds the process-wide Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "seoscope"

// Fetch outcomes.
const (
	FetchOK    = "ok"
	FetchHTTP  = "http_error"
	FetchError = "error"
)

var (
	AnalysesRun = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Analysis runs by outcome",
	}, []string{"outcome"})
	PagesAnalyzed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_analyzed_total",
		Help:      "Pages with body text folded into an analysis",
	})
	PagesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_skipped_total",
		Help:      "Pages excluded because their body text was empty",
	})
	SentimentFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sentiment_failures_total",
		Help:      "Pages whose sentiment could not be scored",
	})
	LanguageMismatches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "language_mismatches_total",
		Help:      "Analysed pages detected in a language other than the expected one",
	})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "embedding_training_seconds",
		Help:      "Time spent training the embedding model",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})
	PagesFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_fetched_total",
		Help:      "Page fetches by outcome",
	}, []string{"outcome"})
	ArticlesGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_generated_total",
		Help:      "Article generation attempts by backend and outcome",
	}, []string{"backend", "outcome"})
)

func init() {
	prometheus.MustRegister(
		AnalysesRun,
		PagesAnalyzed,
		PagesSkipped,
		SentimentFailures,
		LanguageMismatches,
		TrainingDuration,
		PagesFetched,
		ArticlesGenerated,
	)
}
