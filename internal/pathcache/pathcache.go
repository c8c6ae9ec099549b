// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pathcache memoizes the parse of a wire path string into a
// path.Path behind a bounded LRU, so a hot transaction that repeatedly
// addresses the same few paths does not re-walk the same slash-string on
// every operation.
package pathcache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/lumera/agency/path"
)

// Cache is a bounded, concurrency-safe cache from wire path string to
// parsed path.Path.
type Cache struct {
	inner *lru.Cache
}

// DefaultSize is used by New(0); chosen to comfortably cover one
// transaction's worth of distinct paths without growing unbounded under
// adversarial input.
const DefaultSize = 4096

// New returns a Cache holding at most maxSize parsed paths. A maxSize of
// 0 or less selects DefaultSize.
func New(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultSize
	}
	inner, _ := lru.New(maxSize)
	return &Cache{inner: inner}
}

// Parse returns path.Parse(s), serving a cached result when s has been
// seen before.
func (c *Cache) Parse(s string) path.Path {
	if v, ok := c.inner.Get(s); ok {
		return v.(path.Path)
	}
	p := path.Parse(s)
	c.inner.Add(s, p)
	return p
}
