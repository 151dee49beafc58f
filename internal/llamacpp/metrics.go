package llamacpp

import "github.com/prometheus/client_golang/prometheus"

var (
	promptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lxllama",
			Subsystem: "llamacpp",
			Name:      "prompts_total",
			Help:      "Prompts sent to the model, by result",
		},
		[]string{"result"},
	)

	batchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lxllama",
			Subsystem: "llamacpp",
			Name:      "batches_total",
			Help:      "Inference batches, by execution mode",
		},
		[]string{"mode"},
	)

	batchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lxllama",
			Subsystem: "llamacpp",
			Name:      "batch_size",
			Help:      "Number of prompts per inference batch",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	promptDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lxllama",
			Subsystem: "llamacpp",
			Name:      "prompt_duration_seconds",
			Help:      "Duration of a single chat completion in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)
)

func init() {
	prometheus.MustRegister(promptsTotal, batchesTotal, batchSize, promptDuration)
}
