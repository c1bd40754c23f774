package events

import (
	"github.com/krazyTry/launchpool-go/decimal_math"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "launchpool"

// MetricsBroker counts events per type and tracks the latest sale and
// swap figures.
type MetricsBroker struct {
	events      *prometheus.CounterVec
	totalRaised *prometheus.GaugeVec
	swapVolume  *prometheus.CounterVec
}

func NewMetricsBroker(reg prometheus.Registerer) (*MetricsBroker, error) {
	m := &MetricsBroker{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Number of committed events by type.",
		}, []string{"type"}),
		totalRaised: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sale_total_raised",
			Help:      "Cumulative base asset raised by a sale, in raw units.",
		}, []string{"sale"}),
		swapVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swap_volume_in_total",
			Help:      "Swap input volume by pool and side, in raw units.",
		}, []string{"pool", "side"}),
	}
	for _, c := range []prometheus.Collector{m.events, m.totalRaised, m.swapVolume} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetricsBroker) Send(e Event) {
	m.events.WithLabelValues(e.Type().String()).Inc()
	switch ev := e.(type) {
	case TokensPurchased:
		raised, _ := decimal_math.FromUint256(ev.TotalRaised).Float64()
		m.totalRaised.WithLabelValues(ev.Sale.String()).Set(raised)
	case SwapExecuted:
		volume, _ := decimal_math.FromUint256(ev.AmountIn).Float64()
		m.swapVolume.WithLabelValues(ev.Pool.String(), ev.SideIn.String()).Add(volume)
	}
}
