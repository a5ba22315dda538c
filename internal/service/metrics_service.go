package service

import (
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/course-sessions/internal/models"
	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

const outcomeOK = "ok"

// MetricsSnapshot is a point in time summary of the collectors, logged by the CLI.
type MetricsSnapshot struct {
	Registrations        uint64    `json:"registrations"`
	RegistrationFailures uint64    `json:"registration_failures"`
	Decisions            uint64    `json:"decisions"`
	CacheHitRatio        float64   `json:"cache_hit_ratio"`
	CacheHits            uint64    `json:"cache_hits"`
	CacheMisses          uint64    `json:"cache_misses"`
	RepositoryCalls      uint64    `json:"repository_calls"`
	AverageRepositoryMs  float64   `json:"average_repository_ms"`
	Goroutines           int       `json:"goroutines"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// MetricsService owns a private Prometheus registry for session workflows.
type MetricsService struct {
	registry           *prometheus.Registry
	registrations      *prometheus.CounterVec
	decisions          *prometheus.CounterVec
	transitions        *prometheus.CounterVec
	cacheLatency       prometheus.Observer
	cacheWrite         prometheus.Observer
	cacheHitRatio      prometheus.Gauge
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	repositoryDuration *prometheus.HistogramVec

	registrationCount       uint64
	registrationFailCount   uint64
	decisionCount           uint64
	cacheHitCount           uint64
	cacheMissCount          uint64
	repositoryCount         uint64
	repositoryDurationTotal uint64
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_registrations_total",
		Help: "Registration attempts by session type and outcome",
	}, []string{"type", "result"})

	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_decisions_total",
		Help: "Lecturer accept/reject calls by decision and outcome",
	}, []string{"decision", "result"})

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_status_transitions_total",
		Help: "Open/close requests by outcome",
	}, []string{"transition", "result"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	repositoryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "repository_duration_seconds",
		Help:    "Duration of repository calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(registrations, decisions, transitions, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses, repositoryDuration, goroutines)

	return &MetricsService{
		registry:           registry,
		registrations:      registrations,
		decisions:          decisions,
		transitions:        transitions,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHitRatio:      cacheHitRatio,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		repositoryDuration: repositoryDuration,
	}
}

// Registry exposes the underlying registry for gathering.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// outcome turns an error into a low cardinality label.
func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	return strings.ToLower(appErrors.FromError(err).Code)
}

// RecordRegistration counts a registration attempt.
func (m *MetricsService) RecordRegistration(sessionType models.SessionType, err error) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(strings.ToLower(string(sessionType)), outcome(err)).Inc()
	atomic.AddUint64(&m.registrationCount, 1)
	if err != nil {
		atomic.AddUint64(&m.registrationFailCount, 1)
	}
}

// RecordDecision counts an accept or reject call.
func (m *MetricsService) RecordDecision(decision models.StudentStatus, err error) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(strings.ToLower(string(decision)), outcome(err)).Inc()
	atomic.AddUint64(&m.decisionCount, 1)
}

// RecordTransition counts an open or close request.
func (m *MetricsService) RecordTransition(transition string, err error) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(transition, outcome(err)).Inc()
}

// RecordCacheOperation records a cache lookup and updates the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks cache write latency.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveRepository records the duration of a repository call.
func (m *MetricsService) ObserveRepository(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.repositoryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	atomic.AddUint64(&m.repositoryCount, 1)
	atomic.AddUint64(&m.repositoryDurationTotal, uint64(duration.Nanoseconds()))
}

// Snapshot aggregates the counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	repoCount := atomic.LoadUint64(&m.repositoryCount)
	repoDuration := atomic.LoadUint64(&m.repositoryDurationTotal)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}
	var avgRepoMs float64
	if repoCount > 0 {
		avgRepoMs = float64(repoDuration) / float64(repoCount) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		Registrations:        atomic.LoadUint64(&m.registrationCount),
		RegistrationFailures: atomic.LoadUint64(&m.registrationFailCount),
		Decisions:            atomic.LoadUint64(&m.decisionCount),
		CacheHitRatio:        cacheRatio,
		CacheHits:            hits,
		CacheMisses:          misses,
		RepositoryCalls:      repoCount,
		AverageRepositoryMs:  avgRepoMs,
		Goroutines:           runtime.NumGoroutine(),
		GeneratedAt:          time.Now().UTC(),
	}
}
