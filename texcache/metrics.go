package texcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iconview_texcache_lookups_total",
			Help: "Preview lookups by the tier that served them (slot, value, swap, cold, miss).",
		},
		[]string{"tier"},
	)
	loadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iconview_texcache_base_loads_total",
			Help: "Base texture loader invocations by status.",
		},
		[]string{"status"},
	)
	disposalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iconview_texcache_disposals_total",
			Help: "GPU texture resources disposed.",
		},
	)
	liveResources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iconview_texcache_live_resources",
			Help: "GPU texture resources currently held by a cache tier.",
		},
	)
)
