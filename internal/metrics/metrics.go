// Package metrics holds the service Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "escrowdesk"

// Module provides the registry.
var Module = fx.Provide(NewRegistry)

// Action outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeBusy     = "busy"
	OutcomeFailed   = "failed"
)

// Registry groups the collectors exported on /metrics.
type Registry struct {
	reg *prometheus.Registry

	Actions        *prometheus.CounterVec
	ContractCalls  *prometheus.HistogramVec
	Reconciled     *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDurations  *prometheus.HistogramVec
	EventsFailures prometheus.Counter
}

// NewRegistry creates collectors on a private registry.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_actions_total",
		Help:      "Order actions dispatched, by action and outcome.",
	}, []string{"action", "outcome"})
	contractCalls := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "contract_call_duration_seconds",
		Help:      "Latency of escrow contract calls.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"method", "outcome"})
	reconciled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciled_orders_total",
		Help:      "Orders checked against the chain, by result.",
	}, []string{"result"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests processed.",
	}, []string{"route", "method", "status"})
	httpDurations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	eventFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_publish_failures_total",
		Help:      "Order events that could not be published.",
	})

	r.MustRegister(
		actions, contractCalls, reconciled, httpRequests, httpDurations, eventFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{
		reg:            r,
		Actions:        actions,
		ContractCalls:  contractCalls,
		Reconciled:     reconciled,
		HTTPRequests:   httpRequests,
		HTTPDurations:  httpDurations,
		EventsFailures: eventFailures,
	}
}

// ObserveAction counts one dispatched action.
func (r *Registry) ObserveAction(action, outcome string) {
	if r == nil {
		return
	}
	r.Actions.WithLabelValues(action, outcome).Inc()
}

// ObserveContractCall records the latency of a contract call.
func (r *Registry) ObserveContractCall(method string, started time.Time, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeFailed
	}
	r.ContractCalls.WithLabelValues(method, outcome).Observe(time.Since(started).Seconds())
}

// ObserveReconcile counts one reconciled order.
func (r *Registry) ObserveReconcile(result string) {
	if r == nil {
		return
	}
	r.Reconciled.WithLabelValues(result).Inc()
}

// ObserveEventFailure counts one failed event publish.
func (r *Registry) ObserveEventFailure() {
	if r == nil {
		return
	}
	r.EventsFailures.Inc()
}

// ObserveHTTP records one served request.
func (r *Registry) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.HTTPDurations.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler serves the registry in Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
