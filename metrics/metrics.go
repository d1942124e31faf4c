// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics wires the engine's counters and gauges into a
// prometheus.Registerer, following the same thin-wrapper shape the rest
// of the pack uses for its own subsystem metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	// ViewRebuilds counts every time a ClusterView is (re)built, whether
	// due to a cache miss or TTL expiry.
	ViewRebuilds prometheus.Counter

	// EpochStakedNodesFallbacks counts every time rootBank's epoch stake
	// table was empty and the cache fell back to workingBank (spec §4.6,
	// §7 "a counter is incremented on each fallback").
	EpochStakedNodesFallbacks prometheus.Counter

	// EpochStakedNodesFallbacksAtRoot counts every time both root and
	// working bank reported nothing even after the root-epoch retry.
	EpochStakedNodesFallbacksAtRoot prometheus.Counter

	// PeersLive is set to the most recently observed NumPeersLive value
	// for the broadcast and retransmit views respectively.
	PeersLive *prometheus.GaugeVec
}

// New creates the engine's metrics and registers them against reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ViewRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turbine_view_rebuilds_total",
			Help: "Number of cluster views (re)built, by cache miss or TTL expiry.",
		}),
		EpochStakedNodesFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turbine_epoch_staked_nodes_fallback_total",
			Help: "Number of times the root bank's epoch stake table was empty and the working bank was used instead.",
		}),
		EpochStakedNodesFallbacksAtRoot: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turbine_epoch_staked_nodes_fallback_root_total",
			Help: "Number of times both root and working bank reported no stake table, even after the root-epoch retry.",
		}),
		PeersLive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "turbine_peers_live",
			Help: "Number of peers considered live (recent wallclock) in the most recently built view.",
		}, []string{"role"}),
	}

	for _, c := range []prometheus.Collector{m.ViewRebuilds, m.EpochStakedNodesFallbacks, m.EpochStakedNodesFallbacksAtRoot, m.PeersLive} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
