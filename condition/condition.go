// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package condition implements the predicates a transaction precondition
// evaluates against the node currently found at its path. Conditions are
// plain functions composed through three small adapters -- Default,
// Typed and Not -- rather than an inheritance hierarchy, so new
// predicates and new adapters can be added independently of one another.
package condition

import "github.com/lumera/agency/node"

// Condition evaluates to true or false against the handle (possibly
// absent) found at some path. Condition values carry no path of their
// own; the store pairs a Condition with a path when building a
// precondition check (see package store).
type Condition func(n *node.Node) bool

// Default wraps c so that an absent node (nil) short-circuits to
// whenAbsent instead of being passed to c. Conditions that only make
// sense against a present value (Equal, IsArray, IsObject) are built on
// top of this adapter.
func Default(whenAbsent bool, c Condition) Condition {
	return func(n *node.Node) bool {
		if n == nil {
			return whenAbsent
		}
		return c(n)
	}
}

// Typed restricts c to nodes of kind k: a node of any other kind
// evaluates to whenWrongKind without invoking c. Combine with Default
// when the predicate also needs special handling of the absent case.
func Typed(k node.Kind, whenWrongKind bool, c Condition) Condition {
	return func(n *node.Node) bool {
		if n == nil || n.Kind() != k {
			return whenWrongKind
		}
		return c(n)
	}
}

// Not inverts c.
func Not(c Condition) Condition {
	return func(n *node.Node) bool {
		return !c(n)
	}
}

// And folds conditions with logical AND, short-circuiting on the first
// false. An empty list evaluates to true -- the same "fold with
// logical_and starting from true" rule the store uses to combine the
// preconditions of a transaction.
func And(conditions ...Condition) Condition {
	return func(n *node.Node) bool {
		for _, c := range conditions {
			if !c(n) {
				return false
			}
		}
		return true
	}
}

// Or folds conditions with logical OR, short-circuiting on the first
// true. An empty list evaluates to false.
func Or(conditions ...Condition) Condition {
	return func(n *node.Node) bool {
		for _, c := range conditions {
			if c(n) {
				return true
			}
		}
		return false
	}
}

// Equal reports whether the node at a path is deep-equal to expected.
// An absent node never equals anything, including node.Null.
func Equal(expected *node.Node) Condition {
	return Default(false, func(n *node.Node) bool {
		return node.Equal(n, expected)
	})
}

// NotEqual is the inversion of Equal; an absent node is NotEqual to any
// expected value.
func NotEqual(expected *node.Node) Condition {
	return Not(Equal(expected))
}

// In reports whether the node at a path is an Array containing a
// deep-equal v. A non-Array node (including absent) is never In.
func In(v *node.Node) Condition {
	return Typed(node.KindArray, false, func(n *node.Node) bool {
		return n.ArrayContains(v)
	})
}

// NotIn is the inversion of In.
func NotIn(v *node.Node) Condition {
	return Not(In(v))
}

// IsArray reports whether the node at a path is an Array. An absent
// node is not an Array.
func IsArray() Condition {
	return Default(false, func(n *node.Node) bool {
		return n.IsArray()
	})
}

// IsObject reports whether the node at a path is an Object. An absent
// node is not an Object.
func IsObject() Condition {
	return Default(false, func(n *node.Node) bool {
		return n.IsObject()
	})
}

// IsEmpty reports whether the node at a path is absent. It is pure
// absence, not an empty Array or Object -- those are present values and
// IsEmpty reports false for them, matching the original
// is_empty_condition's (node == nullptr) test.
func IsEmpty() Condition {
	return Not(Exists())
}

// Exists reports whether a node is present at all, regardless of value.
func Exists() Condition {
	return func(n *node.Node) bool {
		return n != nil
	}
}

// IntersectionEmpty reports whether the node at a path, itself an Array,
// shares no deep-equal element with other. A non-Array (including
// absent) trivially has an empty intersection with anything.
func IntersectionEmpty(other []*node.Node) Condition {
	return Typed(node.KindArray, true, func(n *node.Node) bool {
		for _, el := range n.Elements() {
			for _, o := range other {
				if node.Equal(el, o) {
					return false
				}
			}
		}
		return true
	})
}
