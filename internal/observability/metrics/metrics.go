package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters for the lead-intake pipeline.
type LeadMetrics struct {
	submissionsTotal  *prometheus.CounterVec
	verificationTotal *prometheus.CounterVec
	notificationTotal *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "karba",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead submissions by terminal outcome",
		}, []string{"outcome"}),
		verificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "karba",
			Subsystem: "leads",
			Name:      "verification_total",
			Help:      "Bot-score verification verdicts",
		}, []string{"verdict"}),
		notificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "karba",
			Subsystem: "leads",
			Name:      "notifications_total",
			Help:      "Outbound lead notifications by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.verificationTotal, m.notificationTotal)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveVerification(verdict string) {
	if m == nil {
		return
	}
	m.verificationTotal.WithLabelValues(verdict).Inc()
}

func (m *LeadMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notificationTotal.WithLabelValues(status).Inc()
}
