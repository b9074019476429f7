package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesRecorded    prometheus.Counter
	ValidationFailures prometheus.Counter
	RecordDuration     prometheus.Histogram
	LoginAttempts      prometheus.Counter
	LoginFailures      prometheus.Counter
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
