package imaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "image_mi_cache_hits",
		Help: "Number of image loads served from the cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "image_mi_cache_misses",
		Help: "Number of image loads that had to decode from disk",
	})
)
