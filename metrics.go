// Copyright 2016 Aleksandr Demakin. All rights reserved.

package typedshm

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	roleOwner    = "owner"
	roleAttached = "attached"

	resultOK    = "ok"
	resultError = "error"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "typedshm",
			Name:      "operations_total",
			Help:      "Number of segment operations by step and result.",
		},
		[]string{"op", "result"},
	)
	segmentsLive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "typedshm",
			Name:      "segments_live",
			Help:      "Number of mapped segments in this process.",
		},
		[]string{"role"},
	)
)

// RegisterMetrics registers package metrics with the given registerer.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{operationsTotal, segmentsLive} {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "metrics registration failed")
		}
	}
	return nil
}

func observe(op string, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	operationsTotal.WithLabelValues(op, result).Inc()
}

func roleLabel(owner bool) string {
	if owner {
		return roleOwner
	}
	return roleAttached
}
