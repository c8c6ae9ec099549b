// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co provides small concurrency helpers shared across the
// kernel, starting with a broadcast wakeup primitive used by the TTL
// reaper to sleep until either its next deadline or an explicit nudge.
package co

import "sync"

// Signal is a broadcast wakeup: any goroutine can wait on a Waiter
// obtained before a Broadcast, and all of them wake up together when it
// fires. The zero value is ready to use. A Waiter obtained after a
// Broadcast belongs to the next generation and is unaffected by it.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

// Waiter observes one generation of a Signal.
type Waiter struct {
	ch chan struct{}
}

// C returns the channel that closes when the generation this Waiter was
// issued for is broadcast.
func (w Waiter) C() <-chan struct{} {
	return w.ch
}

// NewWaiter returns a Waiter for the current generation.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return Waiter{ch: s.ch}
}

// Broadcast wakes every Waiter issued since the last Broadcast (or since
// creation) and starts a new generation.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		close(s.ch)
		s.ch = nil
	}
}
