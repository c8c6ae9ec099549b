// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pathcache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumera/agency/path"
)

func TestParseMatchesDirectParse(t *testing.T) {
	c := New(0)
	assert.Equal(t, path.Parse("a/b/c"), c.Parse("a/b/c"))
	assert.Equal(t, path.Empty, c.Parse(""))
}

func TestParseIsStableAcrossRepeatedCalls(t *testing.T) {
	c := New(2)
	first := c.Parse("x/y")
	second := c.Parse("x/y")
	assert.Equal(t, first, second)
}

func TestParseEvictsUnderPressure(t *testing.T) {
	c := New(1)
	a := c.Parse("a")
	c.Parse("b") // evicts "a" from a size-1 cache
	assert.Equal(t, path.Of("a"), a)
	assert.Equal(t, path.Of("a"), c.Parse("a")) // still parses correctly even after eviction
}
