// Package metrics 以 Prometheus 指标暴露推荐批次的运行情况。
//
// Collector 实现 recommend.Observer，挂到 Recommender 上即可：
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	r := recommend.New(scorer, recommend.WithObserver(m))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rushteam/movierec/recommend"
)

const namespace = "movierec"

// Collector 汇总推荐批次指标，按 direction 打标签。
type Collector struct {
	Batches       *prometheus.CounterVec
	Sources       *prometheus.CounterVec
	PairsScored   *prometheus.CounterVec
	MissingScores *prometheus.CounterVec
	BatchDuration *prometheus.HistogramVec
}

// New 在 reg 上注册指标；reg 为 nil 时使用 prometheus.DefaultRegisterer。
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	labels := []string{"direction"}

	return &Collector{
		Batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total number of ranked batches",
		}, labels),
		Sources: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_total",
			Help:      "Total number of source entities ranked",
		}, labels),
		PairsScored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_scored_total",
			Help:      "Total number of (user, movie) pairs sent to the scorer",
		}, labels),
		MissingScores: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_scores_total",
			Help:      "Total number of pairs the scorer returned no score for",
		}, labels),
		BatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of one batch (pair building, scoring, ranking) in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, labels),
	}
}

func (c *Collector) ObserveBatch(s recommend.BatchStats) {
	dir := string(s.Direction)
	c.Batches.WithLabelValues(dir).Inc()
	c.Sources.WithLabelValues(dir).Add(float64(s.Sources))
	c.PairsScored.WithLabelValues(dir).Add(float64(s.Pairs))
	c.MissingScores.WithLabelValues(dir).Add(float64(s.Missing))
	c.BatchDuration.WithLabelValues(dir).Observe(s.Duration.Seconds())
}

var _ recommend.Observer = (*Collector)(nil)
