package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent running an upload or ask job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	//dependencyLatency.WithLabelValues(label).Observe(time.Since(timeElapsed).Seconds())
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

var chunksCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_created_total",
	Help: "Chunks written to the vector store",
})

var chunksSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chunks_skipped_total",
	Help: "Chunks dropped by deduplication, labelled by reason",
}, []string{"reason"})

var fallbackAnswers = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fallback_answers_total",
	Help: "Answers produced without retrieved context",
}, []string{"storage_type"})

func CaptureUploadMetrics(created, skippedHash, skippedSimilarity int) {
	chunksCreated.Add(float64(created))
	chunksSkipped.WithLabelValues("hash").Add(float64(skippedHash))
	chunksSkipped.WithLabelValues("similarity").Add(float64(skippedSimilarity))
}

func IncrementFallbackAnswers(storageType string) {
	fallbackAnswers.WithLabelValues(storageType).Inc()
}

// Track times a dependency call under label. Use with defer.
func Track(label string) func() {
	start := time.Now()
	return func() { CaptureExecutionMetrics(label, time.Since(start)) }
}
