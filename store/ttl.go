// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"sync"
	"time"

	"github.com/lumera/agency/co"
	"github.com/lumera/agency/path"
	"github.com/lumera/agency/schema"
	"github.com/lumera/agency/transform"
)

type ttlEntry struct {
	path    path.Path
	expires time.Time
}

// ttlState tracks per-path expiry independently of the document tree
// itself -- TTL was never part of the store's original two-lock design
// and is layered on top as extra state guarded by its own mutex,
// triggering ordinary Write calls to remove expired paths rather than a
// new store primitive.
type ttlState struct {
	mu      sync.Mutex
	entries map[string]ttlEntry
	wake    co.Signal
}

func newTTLState() ttlState {
	return ttlState{entries: make(map[string]ttlEntry)}
}

// SetTTL schedules p for removal after ttl elapses, replacing any
// previous deadline for the same path. A ttl <= 0 clears the path's TTL
// immediately rather than scheduling an instantaneous expiry.
func (s *Store) SetTTL(p path.Path, ttl time.Duration) {
	if ttl <= 0 {
		s.ClearTTL(p)
		return
	}

	key := p.String()
	expires := time.Now().Add(ttl)

	s.ttl.mu.Lock()
	cur, existed := s.ttl.entries[key]
	earlier := !existed || expires.Before(cur.expires)
	s.ttl.entries[key] = ttlEntry{path: p, expires: expires}
	s.ttl.mu.Unlock()

	if earlier {
		s.ttl.wake.Broadcast()
	}
}

// ClearTTL removes any pending expiry for p. A no-op if p has none.
func (s *Store) ClearTTL(p path.Path) {
	s.ttl.mu.Lock()
	delete(s.ttl.entries, p.String())
	s.ttl.mu.Unlock()
}

func (s *Store) nextDeadline() (time.Time, bool) {
	s.ttl.mu.Lock()
	defer s.ttl.mu.Unlock()
	var best time.Time
	found := false
	for _, e := range s.ttl.entries {
		if !found || e.expires.Before(best) {
			best = e.expires
			found = true
		}
	}
	return best, found
}

func (s *Store) runReaper(stop chan struct{}) {
	for {
		wait := s.reaperTick
		if deadline, ok := s.nextDeadline(); ok {
			if until := time.Until(deadline); until < wait {
				wait = until
			}
		}
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		waiter := s.ttl.wake.NewWaiter()

		select {
		case <-stop:
			timer.Stop()
			return
		case <-waiter.C():
			timer.Stop()
		case <-timer.C:
		}

		s.sweepExpired()
	}
}

func (s *Store) sweepExpired() {
	now := time.Now()

	s.ttl.mu.Lock()
	var expired []path.Path
	for key, e := range s.ttl.entries {
		if !e.expires.After(now) {
			expired = append(expired, e.path)
			delete(s.ttl.entries, key)
		}
	}
	s.ttl.mu.Unlock()

	if len(expired) == 0 {
		return
	}

	ops := make([]schema.WriteOperation, len(expired))
	for i, p := range expired {
		ops[i] = schema.WriteOperation{Path: p, Transform: transform.Remove()}
	}
	s.Write(ops)

	s.metrics.TTLSweeps.Inc()
	s.metrics.TTLPathsExpired.Add(float64(len(expired)))
	s.log.Info("ttl reaper removed expired paths", "count", len(expired))
}
