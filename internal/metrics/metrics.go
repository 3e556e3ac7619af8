package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	authzChecksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "labjournal_authz_checks_total",
		Help: "Total number of permission checks evaluated",
	})
	authzDeniedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "labjournal_authz_denied_total",
		Help: "Total number of permission checks denied",
	})
	auditEntriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "labjournal_audit_entries_total",
		Help: "Total number of audit entries written",
	})
	auditFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "labjournal_audit_failures_total",
		Help: "Total number of audit writes that failed",
	})
	loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "labjournal_login_attempts_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(authzChecksTotal, authzDeniedTotal, auditEntriesTotal, auditFailuresTotal, loginAttemptsTotal)
}

// IncAuthzCheck increments the evaluated permission checks counter.
func IncAuthzCheck() { authzChecksTotal.Inc() }

// IncAuthzDenied increments the denied permission checks counter.
func IncAuthzDenied() { authzDeniedTotal.Inc() }

// IncAuditEntry increments the written audit entries counter.
func IncAuditEntry() { auditEntriesTotal.Inc() }

// IncAuditFailure increments the failed audit writes counter.
func IncAuditFailure() { auditFailuresTotal.Inc() }

// IncLoginAttempt increments the login attempts counter for an outcome ("success" or "failure").
func IncLoginAttempt(outcome string) { loginAttemptsTotal.WithLabelValues(outcome).Inc() }
