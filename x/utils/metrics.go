package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and failures
// per message path and observes the handler latency.
type Metrics struct {
	processed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

var _ testament.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registerer. Collectors are namespaced.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_delivered_total",
			Help:      "Number of delivered transactions.",
		}, []string{"path"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_failed_total",
			Help:      "Number of delivered transactions that failed, by error code.",
		}, []string{"path", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tx_deliver_seconds",
			Help:      "Time spent delivering a transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"path"}),
	}
	reg.MustRegister(m.processed, m.failed, m.latency)
	return m
}

// Check is not measured.
func (m *Metrics) Check(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	return next.Check(ctx, store, tx)
}

// Deliver counts the transaction and observes the time spent in the
// wrapped handler.
func (m *Metrics) Deliver(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	path := testament.GetPath(tx)
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.latency.WithLabelValues(path).Observe(time.Since(start).Seconds())
	m.processed.WithLabelValues(path).Inc()
	if err != nil {
		code, _ := errors.Info(err, false)
		m.failed.WithLabelValues(path, strconv.FormatUint(uint64(code), 10)).Inc()
	}
	return res, err
}
