// Package metrics collects and exposes Prometheus counters for the
// authentication flow and the outbound mail pipeline.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is what the auth service and the mail dispatcher record
// into. Kept as an interface so tests can pass a no-op.
type Collector interface {
	RecordRegistration()
	RecordLogin(success bool)
	RecordVerification(result string)
	RecordCodeIssued()
	RecordMailSent()
	RecordMailFailed()
	RecordMailDropped()
}

const (
	VerifyResultSuccess  = "success"
	VerifyResultMismatch = "mismatch"
	VerifyResultExpired  = "expired"
)

type PromCollector struct {
	registrations prometheus.Counter
	logins        *prometheus.CounterVec
	verifications *prometheus.CounterVec
	codesIssued   prometheus.Counter
	mailSent      prometheus.Counter
	mailFailed    prometheus.Counter
	mailDropped   prometheus.Counter
}

func NewPromCollector(reg prometheus.Registerer) *PromCollector {
	c := &PromCollector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reliefhub_registrations_total",
			Help: "Completed registrations.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reliefhub_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reliefhub_verifications_total",
			Help: "Two-factor verification attempts by result.",
		}, []string{"result"}),
		codesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reliefhub_codes_issued_total",
			Help: "One-time verification codes issued.",
		}),
		mailSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reliefhub_mail_sent_total",
			Help: "Mails delivered to the SMTP relay.",
		}),
		mailFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reliefhub_mail_failed_total",
			Help: "Mail deliveries that errored.",
		}),
		mailDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reliefhub_mail_dropped_total",
			Help: "Mails dropped because the dispatch queue was full.",
		}),
	}
	reg.MustRegister(
		c.registrations,
		c.logins,
		c.verifications,
		c.codesIssued,
		c.mailSent,
		c.mailFailed,
		c.mailDropped,
	)
	return c
}

func (c *PromCollector) RecordRegistration() {
	c.registrations.Inc()
}

func (c *PromCollector) RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *PromCollector) RecordVerification(result string) {
	c.verifications.WithLabelValues(result).Inc()
}

func (c *PromCollector) RecordCodeIssued() {
	c.codesIssued.Inc()
}

func (c *PromCollector) RecordMailSent() {
	c.mailSent.Inc()
}

func (c *PromCollector) RecordMailFailed() {
	c.mailFailed.Inc()
}

func (c *PromCollector) RecordMailDropped() {
	c.mailDropped.Inc()
}

// Handler serves the registry for scraping.
func Handler(reg *prometheus.Registry) gin.HandlerFunc {
	h := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Noop satisfies Collector without recording anything.
type Noop struct{}

func (Noop) RecordRegistration()       {}
func (Noop) RecordLogin(bool)          {}
func (Noop) RecordVerification(string) {}
func (Noop) RecordCodeIssued()         {}
func (Noop) RecordMailSent()           {}
func (Noop) RecordMailFailed()         {}
func (Noop) RecordMailDropped()        {}
