// Package metrics exposes Prometheus counters for stage operations, audit
// writes and the notification relay.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"workshop/internal/core/domain/model/audit"
	"workshop/internal/core/domain/model/notification"
	"workshop/internal/core/domain/services"
	"workshop/internal/core/ports"
	"workshop/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "not_found"
	OutcomeRejected    = "rejected"
	OutcomeConflict    = "conflict"
	OutcomeAuditFailed = "audit_failed"
	OutcomeError       = "error"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	operations    *prometheus.CounterVec
	auditFailures prometheus.Counter
	relayed       *prometheus.CounterVec
}

// New registers the workshop collectors on a fresh registry.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		gatherer: reg,
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_stage_operations_total",
				Help: "Stage operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		auditFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "workshop_audit_write_failures_total",
				Help: "Audit ledger writes that failed",
			},
		),
		relayed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_notifications_relayed_total",
				Help: "Outbox notifications handed to the publisher by outcome",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.operations,
		m.auditFailures,
		m.relayed,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveOperation counts one finished operation under the outcome err maps to.
func (m *Metrics) ObserveOperation(operation string, err error) {
	m.operations.WithLabelValues(operation, Outcome(err)).Inc()
}

// Outcome maps an operation error to its metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, services.ErrAuditWriteFailed):
		return OutcomeAuditFailed
	case errors.Is(err, errs.ErrStorageConflict):
		return OutcomeConflict
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, errs.ErrObjectNotFound):
		return OutcomeNotFound
	case errors.Is(err, services.ErrInvalidCurrentStage),
		errors.Is(err, services.ErrNoNextStage),
		errors.Is(err, services.ErrInvalidStageForDelay),
		errors.Is(err, services.ErrDelayReasonNotFound),
		errors.Is(err, services.ErrNoOpenInterval),
		errors.Is(err, services.ErrStageMismatch),
		errors.Is(err, services.ErrInvalidStageForIrreparable):
		return OutcomeRejected
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

type auditLedger struct {
	next    ports.AuditLedger
	metrics *Metrics
}

// InstrumentAuditLedger counts failed Record calls of next.
func (m *Metrics) InstrumentAuditLedger(next ports.AuditLedger) ports.AuditLedger {
	return auditLedger{next: next, metrics: m}
}

func (l auditLedger) Record(ctx context.Context, entries ...audit.Entry) error {
	err := l.next.Record(ctx, entries...)
	if err != nil {
		l.metrics.auditFailures.Inc()
	}
	return err
}

type publisher struct {
	next    ports.NotificationPublisher
	metrics *Metrics
}

// InstrumentPublisher counts published and failed notifications of next.
func (m *Metrics) InstrumentPublisher(next ports.NotificationPublisher) ports.NotificationPublisher {
	return publisher{next: next, metrics: m}
}

func (p publisher) Publish(ctx context.Context, n *notification.Notification) error {
	err := p.next.Publish(ctx, n)
	outcome := "published"
	if err != nil {
		outcome = "failed"
	}
	p.metrics.relayed.WithLabelValues(outcome).Inc()
	return err
}
