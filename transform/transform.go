// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package transform implements the functions a write operation applies to
// the node currently found at its path. Like package condition, transforms
// are plain functions composed through small adapters rather than an
// inheritance hierarchy.
package transform

import "github.com/lumera/agency/node"

// Transform computes the replacement for the node currently at a path.
// The current node may be absent (nil); the result, if nil, deletes the
// path (see node.Set).
type Transform func(current *node.Node) *node.Node

// NoCreate wraps t so that an absent current node is left absent instead
// of being passed to t -- operations like Pop, Shift or Erase that only
// make sense against an existing value use this to turn "apply against
// nothing" into a no-op rather than fabricating a value.
func NoCreate(t Transform) Transform {
	return func(current *node.Node) *node.Node {
		if current == nil {
			return nil
		}
		return t(current)
	}
}

// Set replaces the current node outright, ignoring it.
func Set(v *node.Node) Transform {
	return func(*node.Node) *node.Node {
		return v
	}
}

// Remove always deletes the path, regardless of the current value.
func Remove() Transform {
	return func(*node.Node) *node.Node {
		return nil
	}
}

// Increment adds delta to the current node's numeric value, treating an
// absent node as 0 -- the one arithmetic operation the store supports is
// expected to create its counter on first use.
func Increment(delta float64) Transform {
	return func(current *node.Node) *node.Node {
		v, _ := current.DoubleValue() // 0, false for nil or non-Double
		return node.NewDouble(v + delta)
	}
}

// Push appends v to an Array, matching the array's own push semantics. A
// non-Array current node (including absent) is replaced wholesale by a
// fresh single-element Array, mirroring how the tree always has
// something sensible to append to.
func Push(v *node.Node) Transform {
	return func(current *node.Node) *node.Node {
		if current.IsArray() {
			return current.ArrayPush(v)
		}
		return node.NewArray(v)
	}
}

// Prepend inserts v at the front of an Array; like Push, a non-Array
// current node is replaced by a fresh single-element Array.
func Prepend(v *node.Node) Transform {
	return func(current *node.Node) *node.Node {
		if current.IsArray() {
			return current.ArrayPrepend(v)
		}
		return node.NewArray(v)
	}
}

// Pop drops the last element of an Array. Applied to anything else
// (including absent) it is a no-op that leaves the current value alone.
func Pop() Transform {
	return NoCreate(func(current *node.Node) *node.Node {
		if !current.IsArray() {
			return current
		}
		return current.ArrayPop()
	})
}

// Shift drops the first element of an Array. Applied to anything else
// (including absent) it is a no-op.
func Shift() Transform {
	return NoCreate(func(current *node.Node) *node.Node {
		if !current.IsArray() {
			return current
		}
		return current.ArrayShift()
	})
}

// Erase removes the first element deep-equal to v from an Array, leaving
// the array unchanged if no element matches. Applied to anything else
// (including absent) it is a no-op.
func Erase(v *node.Node) Transform {
	return NoCreate(func(current *node.Node) *node.Node {
		if !current.IsArray() {
			return current
		}
		return current.ArrayErase(v)
	})
}
