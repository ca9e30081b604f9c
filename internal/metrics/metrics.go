// Package metrics holds the Prometheus collectors of the boarding backend.
// Collectors are created eagerly so that recording never needs a nil check;
// Register exposes them on a registry.
package metrics

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "petboarding"

var (
	mutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "mutations_total",
		Help:      "Successful repository mutations by entity and action.",
	}, []string{"entity", "action"})

	queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "query_duration_seconds",
		Help:      "Latency of repository read operations.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"entity", "operation"})

	auditEntriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "audit",
		Name:      "entries_total",
		Help:      "Audit log entries written by entity and action.",
	}, []string{"entity", "action"})

	relationSyncsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relation",
		Name:      "syncs_total",
		Help:      "Two-way relation synchronisations by relation and operation.",
	}, []string{"relation", "op"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Operational HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of operational HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Register adds all collectors to reg. When pool is non-nil a collector of
// connection pool statistics is registered as well. Registering twice is not
// an error.
func Register(reg prometheus.Registerer, pool *pgxpool.Pool) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	collectors := []prometheus.Collector{
		mutationsTotal,
		queryDuration,
		auditEntriesTotal,
		relationSyncsTotal,
		httpRequestsTotal,
		httpRequestDuration,
	}
	if pool != nil {
		collectors = append(collectors, newPoolCollector(pool))
	}

	for _, c := range collectors {
		if err := registerCollector(reg, c); err != nil {
			return err
		}
	}
	return nil
}

// RecordMutation counts one successful create, update or delete.
func RecordMutation(entity, action string) {
	mutationsTotal.WithLabelValues(entity, action).Inc()
}

// ObserveQuery records the latency of a read operation started at start.
func ObserveQuery(entity, operation string, start time.Time) {
	queryDuration.WithLabelValues(entity, operation).Observe(time.Since(start).Seconds())
}

// RecordAuditEntry counts one appended audit log entry.
func RecordAuditEntry(entity, action string) {
	auditEntriesTotal.WithLabelValues(entity, action).Inc()
}

// RecordRelationSync counts one refresh or destroy of a two-way relation.
func RecordRelationSync(relation, op string) {
	relationSyncsTotal.WithLabelValues(relation, op).Inc()
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// poolCollector exposes pgxpool statistics as gauges.
type poolCollector struct {
	pool *pgxpool.Pool

	acquired *prometheus.Desc
	idle     *prometheus.Desc
	total    *prometheus.Desc
}

func newPoolCollector(pool *pgxpool.Pool) *poolCollector {
	return &poolCollector{
		pool:     pool,
		acquired: prometheus.NewDesc(namespace+"_db_pool_acquired_conns", "Connections currently acquired from the pool.", nil, nil),
		idle:     prometheus.NewDesc(namespace+"_db_pool_idle_conns", "Idle connections in the pool.", nil, nil),
		total:    prometheus.NewDesc(namespace+"_db_pool_total_conns", "Total connections in the pool.", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(stat.TotalConns()))
}
