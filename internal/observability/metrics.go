package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "screams_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "screams_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ReactionsTotal counts change reactions by event kind and outcome.
	ReactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "screams_reactions_total",
		Help: "Total number of change reactions by event and outcome",
	}, []string{"event", "outcome"})

	// ReactionDuration records how long each reaction took.
	ReactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "screams_reaction_duration_seconds",
		Help:    "Change reaction latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"event"})

	// BatchWrites counts writes committed through atomic batches.
	BatchWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "screams_batch_writes_total",
		Help: "Total number of writes committed in atomic batches",
	}, []string{"operation"})

	// BatchChunks counts atomic batch chunks committed.
	BatchChunks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "screams_batch_chunks_total",
		Help: "Total number of atomic batch chunks committed",
	})

	// CounterAdjustments counts denormalized counter updates by field and outcome.
	CounterAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "screams_counter_adjustments_total",
		Help: "Total number of like/comment counter adjustments",
	}, []string{"field", "outcome"})

	// EventsPublished counts change events handed to the bus.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "screams_events_published_total",
		Help: "Total number of change events published",
	}, []string{"event", "bus"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// ObserveReaction records the outcome and latency of one reaction.
func ObserveReaction(event, outcome string, start time.Time) {
	ReactionsTotal.WithLabelValues(event, outcome).Inc()
	ReactionDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())
}
