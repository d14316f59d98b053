package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"docfront/internal/store"
)

// StoreState mirrors the store's list size and loading flag.
type StoreState struct {
	documents prometheus.Gauge
	loading   prometheus.Gauge
}

// NewStoreState creates the gauges and registers them on reg.
func NewStoreState(reg prometheus.Registerer) (*StoreState, error) {
	m := &StoreState{
		documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docfront_documents",
			Help: "Documents in the current list.",
		}),
		loading: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docfront_store_loading",
			Help: "1 while a list load is in flight.",
		}),
	}
	for _, c := range []prometheus.Collector{m.documents, m.loading} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records st. It is meant to be passed to Store.Subscribe.
func (m *StoreState) Observe(st store.State) {
	m.documents.Set(float64(len(st.Records)))
	if st.Loading {
		m.loading.Set(1)
	} else {
		m.loading.Set(0)
	}
}
