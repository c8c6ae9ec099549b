// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Choes ("cancellable goes") runs stoppable background goroutines: each
// one receives a stop channel it should select on, and Stop closes that
// channel exactly once no matter how many times it is called. The store's
// TTL reaper is the one long-running goroutine in this module and uses
// Choes to shut down cleanly when the store is closed.
type Choes struct {
	wg   sync.WaitGroup
	stop chan struct{}
	once sync.Once
}

// NewChoes returns a ready-to-use Choes.
func NewChoes() *Choes {
	return &Choes{stop: make(chan struct{})}
}

// Go starts f in a new goroutine, passing it the shared stop channel.
func (c *Choes) Go(f func(stopChan chan struct{})) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		f(c.stop)
	}()
}

// Stop closes the stop channel, signalling every running goroutine to
// exit. Safe to call more than once or concurrently.
func (c *Choes) Stop() {
	c.once.Do(func() { close(c.stop) })
}

// Wait blocks until every goroutine started with Go has returned.
func (c *Choes) Wait() {
	c.wg.Wait()
}
