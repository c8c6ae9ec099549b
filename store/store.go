// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store implements the transactional document store: a single
// root node.Node guarded by a two-lock discipline -- an outer mutex that
// serializes writers so precondition evaluation and publishing a new
// root happen atomically together, and an inner RWMutex that lets
// readers observe the root cell without contending with each other.
package store

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"sync"

	"github.com/lumera/agency/co"
	"github.com/lumera/agency/node"
	"github.com/lumera/agency/path"
	"github.com/lumera/agency/schema"
)

// Config supplies a Store's dependencies and tuning knobs, in place of
// reading globals.
type Config struct {
	// Logger receives structured logging from the store and its reaper.
	// Defaults to log.New("pkg", "store") when nil.
	Logger log.Logger
	// InitialRoot seeds the store's tree. Defaults to an empty Object.
	InitialRoot *node.Node
	// MetricsRegisterer, if non-nil, has the store's counters registered
	// with it.
	MetricsRegisterer prometheus.Registerer
	// ReaperMaxSleep bounds how long the TTL reaper ever sleeps between
	// checks, even with no known deadline, as a heartbeat against a
	// missed wakeup signal. Defaults to 1s.
	ReaperMaxSleep time.Duration
}

// Store is a single transactional document tree.
type Store struct {
	log     log.Logger
	metrics *Metrics

	modifyMu sync.Mutex   // outer: serializes writers
	rootMu   sync.RWMutex // inner: guards the root cell itself
	root     *node.Node

	ttl        ttlState
	choes      *co.Choes
	reaperTick time.Duration
}

// New constructs and starts a Store, including its background TTL
// reaper goroutine. Call Close to stop it.
func New(cfg Config) *Store {
	root := cfg.InitialRoot
	if root == nil {
		root = node.EmptyObject
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New("pkg", "store")
	}
	tick := cfg.ReaperMaxSleep
	if tick <= 0 {
		tick = time.Second
	}

	s := &Store{
		log:        logger,
		metrics:    NewMetrics(cfg.MetricsRegisterer),
		root:       root,
		ttl:        newTTLState(),
		choes:      co.NewChoes(),
		reaperTick: tick,
	}
	s.choes.Go(s.runReaper)
	return s
}

// Close stops the TTL reaper and waits for it to exit.
func (s *Store) Close() {
	s.choes.Stop()
	s.choes.Wait()
}

// Read extracts the subtrees at paths from the current root.
func (s *Store) Read(paths []path.Path) *node.Node {
	s.rootMu.RLock()
	defer s.rootMu.RUnlock()
	return node.Extract(s.root, paths)
}

// Check reports whether every precondition holds against the current
// root, without modifying anything.
func (s *Store) Check(preconditions []schema.Precondition) bool {
	s.rootMu.RLock()
	defer s.rootMu.RUnlock()
	return evaluate(s.root, preconditions)
}

// Write applies ops unconditionally and returns the new root.
func (s *Store) Write(ops []schema.WriteOperation) *node.Node {
	s.modifyMu.Lock()
	defer s.modifyMu.Unlock()

	s.rootMu.Lock()
	newRoot := applyOps(s.root, ops)
	s.root = newRoot
	s.rootMu.Unlock()

	s.applyTTLs(ops)
	s.metrics.WritesApplied.Inc()
	return newRoot
}

// Transact evaluates preconditions and, only if every one holds, applies
// ops and returns the new root with ok=true. If any precondition fails,
// the store is left untouched and ok is false. Evaluation and
// application happen while modifyMu is held, so no other writer can
// observe or create a window between the check and the publish.
func (s *Store) Transact(preconditions []schema.Precondition, ops []schema.WriteOperation) (newRoot *node.Node, ok bool) {
	s.modifyMu.Lock()
	defer s.modifyMu.Unlock()

	s.rootMu.RLock()
	satisfied := evaluate(s.root, preconditions)
	s.rootMu.RUnlock()

	if !satisfied {
		s.metrics.TransactionsRejected.Inc()
		return nil, false
	}

	s.rootMu.Lock()
	newRoot = applyOps(s.root, ops)
	s.root = newRoot
	s.rootMu.Unlock()

	s.applyTTLs(ops)
	s.metrics.TransactionsCommitted.Inc()
	return newRoot, true
}

// applyTTLs schedules expiry for every operation that carried a ttl. It
// runs after the new root is published but while modifyMu is still held,
// so a set-with-ttl and the reaper's own writes stay serialized relative
// to each other.
func (s *Store) applyTTLs(ops []schema.WriteOperation) {
	for _, op := range ops {
		if op.TTL != nil {
			s.SetTTL(op.Path, *op.TTL)
		}
	}
}

func evaluate(root *node.Node, preconditions []schema.Precondition) bool {
	for _, p := range preconditions {
		if !p.Condition(node.Get(root, p.Path)) {
			return false
		}
	}
	return true
}

func applyOps(root *node.Node, ops []schema.WriteOperation) *node.Node {
	actions := make([]node.Action, len(ops))
	for i, op := range ops {
		actions[i] = node.Action{Path: op.Path, Op: op.Transform}
	}
	return node.Transform(root, actions)
}
