// Package metrics exposes store outcomes and state as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"docfront/internal/notify"
)

// Notifications counts store notifications by operation and level.
type Notifications struct {
	total *prometheus.CounterVec
}

// NewNotifications creates the counter and registers it on reg.
func NewNotifications(reg prometheus.Registerer) (*Notifications, error) {
	m := &Notifications{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docfront_notifications_total",
				Help: "Store operation outcomes by operation and level.",
			},
			[]string{"op", "level"},
		),
	}
	if err := reg.Register(m.total); err != nil {
		return nil, err
	}
	return m, nil
}

// Notify implements notify.Hook.
func (m *Notifications) Notify(_ context.Context, n notify.Notification) {
	m.total.WithLabelValues(string(n.Op), string(n.Level)).Inc()
}
