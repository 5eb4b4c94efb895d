// Package obs exposes the engine's operational counters in Prometheus
// format.
package obs

import (
    "net/http"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
    registry *prometheus.Registry

    ReportRequests    prometheus.Counter
    ReportCacheHits   prometheus.Counter
    ChangelogFailures prometheus.Counter
    SnapshotsWritten  prometheus.Counter
}

func New() *Metrics {
    reg := prometheus.NewRegistry()
    m := &Metrics{
        registry: reg,
        ReportRequests: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "sprintlens", Name: "report_requests_total",
            Help: "Delivery report computations requested.",
        }),
        ReportCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "sprintlens", Name: "report_cache_hits_total",
            Help: "Delivery reports served from the TTL cache.",
        }),
        ChangelogFailures: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "sprintlens", Name: "changelog_fetch_failures_total",
            Help: "Per-ticket changelog fetches that failed and were skipped.",
        }),
        SnapshotsWritten: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "sprintlens", Name: "snapshots_written_total",
            Help: "Sprint snapshots upserted.",
        }),
    }
    reg.MustRegister(m.ReportRequests, m.ReportCacheHits, m.ChangelogFailures, m.SnapshotsWritten)
    return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
    return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
