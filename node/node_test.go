// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"

	"github.com/lumera/agency/path"
)

func tree(t *testing.T) *Node {
	t.Helper()
	return NewObject(map[string]*Node{
		"key": NewObject(map[string]*Node{
			"hello": NewString("world"),
		}),
		"foo": NewArray(NewString("blub")),
	})
}

func TestGetBasic(t *testing.T) {
	n := tree(t)
	assert.Equal(t, "world", mustString(t, Get(n, path.Of("key", "hello"))))
	assert.Nil(t, Get(n, path.Of("key", "missing")))
	assert.Nil(t, Get(n, path.Of("nope")))
	assert.True(t, Equal(n, Get(n, path.Empty)))
}

func TestGetThroughValueIsAbsent(t *testing.T) {
	n := tree(t)
	// descending past a String leaf must yield absent, not a panic.
	assert.Nil(t, Get(n, path.Of("key", "hello", "deeper")))
}

func TestSetCreatesIntermediateObjects(t *testing.T) {
	n := tree(t)
	got := Set(n, path.Of("a", "b", "c"), NewDouble(7))
	assert.Equal(t, float64(7), mustDouble(t, Get(got, path.Of("a", "b", "c"))))
	// original subtree under "key" is untouched.
	assert.Equal(t, "world", mustString(t, Get(got, path.Of("key", "hello"))))
}

func TestSetPromotesArrayToObjectOnNonNumericSegment(t *testing.T) {
	n := tree(t)
	got := Set(n, path.Of("foo", "x", "bar"), NewBool(false))
	foo := Get(got, path.Of("foo"))
	assert.True(t, foo.IsObject())
	assert.Equal(t, "blub", mustString(t, Get(got, path.Of("foo", "0"))))
	b, ok := Get(got, path.Of("foo", "x", "bar")).BoolValue()
	assert.True(t, ok)
	assert.False(t, b)
}

func TestSetExtendsArrayWithNulls(t *testing.T) {
	n := NewArray(NewString("a"))
	got := Set(n, path.Of("3"), NewString("d"))
	assert.Equal(t, 4, len(got.Elements()))
	assert.Equal(t, KindNull, got.Elements()[1].Kind())
	assert.Equal(t, KindNull, got.Elements()[2].Kind())
	assert.Equal(t, "d", mustString(t, got.Elements()[3]))
}

func TestSetRemoveExistingKey(t *testing.T) {
	n := tree(t)
	got := Set(n, path.Of("key", "hello"), nil)
	assert.Nil(t, Get(got, path.Of("key", "hello")))
	// "key" object itself still exists, just empty.
	assert.True(t, Get(got, path.Of("key")).IsObject())
}

func TestSetRemoveNonExistentIsNoop(t *testing.T) {
	n := tree(t)
	got := Set(n, path.Of("nope", "deeper"), nil)
	assert.True(t, Equal(n, got))
}

func TestSetRemoveArraySlotBecomesNull(t *testing.T) {
	n := NewArray(NewString("a"), NewString("b"))
	got := Set(n, path.Of("0"), nil)
	assert.Equal(t, 2, len(got.Elements()))
	assert.Equal(t, KindNull, got.Elements()[0].Kind())
}

func TestSetEmptyPathReplacesWhole(t *testing.T) {
	n := tree(t)
	got := Set(n, path.Empty, NewBool(true))
	b, ok := got.BoolValue()
	assert.True(t, ok)
	assert.True(t, b)
}

func TestOverlayMergesObjectsRecursively(t *testing.T) {
	base := NewObject(map[string]*Node{
		"a": NewDouble(1),
		"b": NewObject(map[string]*Node{"x": NewDouble(1), "y": NewDouble(2)}),
	})
	overlay := NewObject(map[string]*Node{
		"b": NewObject(map[string]*Node{"x": nil, "z": NewDouble(3)}),
		"c": NewDouble(4),
	})
	got := Overlay(base, overlay)
	assert.Equal(t, float64(1), mustDouble(t, Get(got, path.Of("a"))))
	assert.Nil(t, Get(got, path.Of("b", "x")))
	assert.Equal(t, float64(2), mustDouble(t, Get(got, path.Of("b", "y"))))
	assert.Equal(t, float64(3), mustDouble(t, Get(got, path.Of("b", "z"))))
	assert.Equal(t, float64(4), mustDouble(t, Get(got, path.Of("c"))))
}

func TestOverlayDifferentKindsReplacesWholesale(t *testing.T) {
	base := NewObject(map[string]*Node{"a": NewDouble(1)})
	overlay := NewArray(NewString("x"))
	got := Overlay(base, overlay)
	assert.True(t, got.IsArray())
}

func TestTransformReadsThenWrites(t *testing.T) {
	n := NewObject(map[string]*Node{"count": NewDouble(1)})
	got := Transform(n, []Action{
		{Path: path.Of("count"), Op: func(cur *Node) *Node {
			v, _ := cur.DoubleValue()
			return NewDouble(v + 1)
		}},
	})
	assert.Equal(t, float64(2), mustDouble(t, Get(got, path.Of("count"))))
}

func TestFoldCombinesWithLogicalAnd(t *testing.T) {
	n := NewObject(map[string]*Node{"a": NewDouble(1), "b": NewDouble(2)})
	actions := []FoldAction[bool]{
		{Path: path.Of("a"), Reduce: func(c *Node) bool { v, _ := c.DoubleValue(); return v == 1 }},
		{Path: path.Of("b"), Reduce: func(c *Node) bool { v, _ := c.DoubleValue(); return v == 2 }},
	}
	ok := Fold(n, actions, func(a, b bool) bool { return a && b }, true)
	assert.True(t, ok)

	actionsFail := append(actions, FoldAction[bool]{
		Path: path.Of("a"), Reduce: func(c *Node) bool { v, _ := c.DoubleValue(); return v == 99 },
	})
	ok = Fold(n, actionsFail, func(a, b bool) bool { return a && b }, true)
	assert.False(t, ok)
}

func TestExtract(t *testing.T) {
	n := tree(t)
	got := Extract(n, []path.Path{path.Of("key", "hello"), path.Of("missing")})
	assert.Equal(t, "world", mustString(t, Get(got, path.Of("key", "hello"))))
	assert.Nil(t, Get(got, path.Of("missing")))
}

func TestArrayMutators(t *testing.T) {
	a := NewArray(NewDouble(1), NewDouble(2), NewDouble(3))
	assert.Equal(t, 4, len(a.ArrayPush(NewDouble(4)).Elements()))
	assert.Equal(t, float64(0), mustDouble(t, a.ArrayPrepend(NewDouble(0)).Elements()[0]))
	assert.Equal(t, 2, len(a.ArrayPop().Elements()))
	assert.Equal(t, float64(2), mustDouble(t, a.ArrayShift().Elements()[0]))
	assert.True(t, a.ArrayContains(NewDouble(2)))
	assert.False(t, a.ArrayContains(NewDouble(99)))
	erased := a.ArrayErase(NewDouble(2))
	assert.Equal(t, 2, len(erased.Elements()))
	assert.False(t, erased.ArrayContains(NewDouble(2)))
}

func TestEqualSingletonsAndNil(t *testing.T) {
	assert.True(t, Equal(EmptyArray, NewArray()))
	assert.True(t, Equal(EmptyObject, NewObject(nil)))
	assert.False(t, Equal(nil, Null))
	assert.True(t, Equal(nil, nil))
}

// TestRandomSetGetRoundTrip checks invariant 2 (set/get round-trip) and
// invariant 3 (set idempotence) against randomly generated single-segment
// keys and scalar values, in the spirit of trie_test.go's
// quick.Check(runRandTest, nil).
func TestRandomSetGetRoundTrip(t *testing.T) {
	roundTrip := func(key string, v float64) bool {
		p := path.Of(key)
		once := Set(nil, p, NewDouble(v))
		twice := Set(once, p, NewDouble(v))

		got, ok := Get(once, p).DoubleValue()
		if !ok || got != v {
			return false
		}
		return Equal(once, twice)
	}
	if err := quick.Check(roundTrip, nil); err != nil {
		t.Fatal(err)
	}
}

func mustString(t *testing.T, n *Node) string {
	t.Helper()
	v, ok := n.StringValue()
	assert.True(t, ok, "expected string node")
	return v
}

func mustDouble(t *testing.T, n *Node) float64 {
	t.Helper()
	v, ok := n.DoubleValue()
	assert.True(t, ok, "expected double node")
	return v
}
