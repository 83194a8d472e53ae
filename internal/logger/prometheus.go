package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	statements     *prometheus.CounterVec //nolint:gochecknoglobals
	statementsOnce sync.Once              //nolint:gochecknoglobals
)

// MetricsHook counts log statements per level in log_statements_total.
type MetricsHook struct{}

// Run implements zerolog.Hook.
func (MetricsHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || statements == nil {
		return
	}

	statements.WithLabelValues(level.String()).Inc()
}

// NewMetricsHook registers the counter on first use. The service label is fixed by the first call.
func NewMetricsHook(serviceName string) MetricsHook {
	statementsOnce.Do(func() {
		statements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "log_statements_total",
				Help:        "Number of log statements, differentiated by log level.",
				ConstLabels: prometheus.Labels{"service": serviceName},
			},
			[]string{"level"},
		)
	})

	return MetricsHook{}
}
