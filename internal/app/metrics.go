package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
)

type storeSnapshotter interface {
	Snapshot() store.Snapshot
}

type notificationLister interface {
	Active() []domain.Notification
}

// registerStoreMetrics exposes the store state as gauges read at scrape time.
func registerStoreMetrics(reg prometheus.Registerer, st storeSnapshotter, notes notificationLister) {
	for _, kind := range domain.RecordKinds {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "mediareport",
			Subsystem:   "store",
			Name:        "records",
			Help:        "Records held in memory per kind.",
			ConstLabels: prometheus.Labels{"kind": kind.String()},
		}, func() float64 {
			return float64(st.Snapshot().Count(kind))
		}))
	}

	for _, state := range []store.State{store.StateUninitialized, store.StateLoading, store.StateReady, store.StateDegraded} {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "mediareport",
			Subsystem:   "store",
			Name:        "state",
			Help:        "1 for the current store state, 0 otherwise.",
			ConstLabels: prometheus.Labels{"state": string(state)},
		}, func() float64 {
			return boolGauge(st.Snapshot().State == state)
		}))
	}

	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "mediareport",
			Subsystem: "store",
			Name:      "connected",
			Help:      "Whether the change feed is connected.",
		}, func() float64 {
			return boolGauge(st.Snapshot().Connected)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "mediareport",
			Subsystem: "notifications",
			Name:      "active",
			Help:      "Notifications currently retained.",
		}, func() float64 {
			return float64(len(notes.Active()))
		}),
	)
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
