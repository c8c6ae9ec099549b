// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the store's Prometheus instrumentation. A nil
// Registerer at construction time is valid: the counters still work,
// they are simply never exposed to a scrape endpoint.
type Metrics struct {
	WritesApplied         prometheus.Counter
	TransactionsCommitted prometheus.Counter
	TransactionsRejected  prometheus.Counter
	TTLSweeps             prometheus.Counter
	TTLPathsExpired       prometheus.Counter
}

// NewMetrics constructs a Metrics and, if reg is non-nil, registers its
// counters with it.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WritesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agency", Subsystem: "store", Name: "writes_applied_total",
			Help: "Number of plain (unconditional) write batches applied.",
		}),
		TransactionsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agency", Subsystem: "store", Name: "transactions_committed_total",
			Help: "Number of conditional transactions whose preconditions held and were applied.",
		}),
		TransactionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agency", Subsystem: "store", Name: "transactions_rejected_total",
			Help: "Number of conditional transactions whose preconditions failed.",
		}),
		TTLSweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agency", Subsystem: "store", Name: "ttl_sweeps_total",
			Help: "Number of TTL reaper passes that removed at least one path.",
		}),
		TTLPathsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agency", Subsystem: "store", Name: "ttl_paths_expired_total",
			Help: "Cumulative number of paths removed by the TTL reaper.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.WritesApplied,
			m.TransactionsCommitted,
			m.TransactionsRejected,
			m.TTLSweeps,
			m.TTLPathsExpired,
		)
	}
	return m
}
