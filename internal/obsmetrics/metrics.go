// Package obsmetrics exposes Prometheus counters/gauges for probe
// volume, cache hit/miss ratio and monitor event throughput. This is
// ambient observability scaffolding (carried per SPEC_FULL §6's "ambient
// stack regardless of non-goals" rule), not a spec.md feature.
package obsmetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProbesTotal counts probes issued, labeled by kind and outcome.
	ProbesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "observatory_probes_total",
		Help: "Probes issued, by kind and outcome.",
	}, []string{"kind", "outcome"})

	// CacheLookupsTotal counts status/SRV cache lookups, labeled by
	// cache name and hit/miss.
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "observatory_cache_lookups_total",
		Help: "Cache lookups, by cache and result.",
	}, []string{"cache", "result"})

	// MonitorEventsTotal counts monitor events emitted, labeled by kind.
	MonitorEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "observatory_monitor_events_total",
		Help: "Monitor events emitted, by event kind.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(ProbesTotal, CacheLookupsTotal, MonitorEventsTotal)
}

// Serve starts a metrics endpoint bound to addr (e.g. "127.0.0.1:9090")
// in a background goroutine and returns at once; the caller can stop it
// via the returned server's Shutdown.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
