// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node implements the persistent, structurally-shared document
// tree that is the core data structure of the agency kernel. A *Node is
// immutable once constructed; every mutating operation returns a new tree
// that shares unchanged subtrees with its predecessor.
//
// A nil *Node is the "absent handle": it means no node exists at a given
// position, and is distinct from the Null singleton, which is a node whose
// value is explicitly null. Functions in this package that take or return
// *Node always treat nil this way unless documented otherwise.
package node

import (
	"sort"
	"strconv"

	"github.com/lumera/agency/path"
)

// Kind identifies which variant a Node holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindDouble
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Node is the immutable tagged-union tree value. The zero value is not a
// valid Node; use Null, NewBool, NewDouble, NewString, NewArray, or
// NewObject.
type Node struct {
	kind Kind
	b    bool
	d    float64
	s    string
	arr  []*Node
	obj  map[string]*Node
}

// Null is the canonical singleton for the Null variant. All Nulls compare
// deep-equal to one another; this value is just a convenient default, not
// a required identity (Equal never relies on pointer identity).
var Null = &Node{kind: KindNull}

// EmptyArray is the canonical singleton empty Array.
var EmptyArray = &Node{kind: KindArray, arr: nil}

// EmptyObject is the canonical singleton empty Object.
var EmptyObject = &Node{kind: KindObject, obj: nil}

// NewBool constructs a Bool node.
func NewBool(v bool) *Node { return &Node{kind: KindBool, b: v} }

// NewDouble constructs a Double node.
func NewDouble(v float64) *Node { return &Node{kind: KindDouble, d: v} }

// NewString constructs a String node.
func NewString(v string) *Node { return &Node{kind: KindString, s: v} }

// NewArray constructs an Array node from the given elements. elements is
// copied; the caller retains ownership of the slice it passed in.
func NewArray(elements ...*Node) *Node {
	if len(elements) == 0 {
		return EmptyArray
	}
	cp := make([]*Node, len(elements))
	copy(cp, elements)
	return &Node{kind: KindArray, arr: cp}
}

// NewObject constructs an Object node from the given key/value map. The
// map is not retained; a defensive copy is taken. A nil value under some
// key is permitted here even though it never occurs in a tree produced by
// Set/Transform/FromSlice: it is how an overlay document expresses "delete
// this key" to Overlay (see §4.2 of the design, "overlay absent sentinel").
func NewObject(members map[string]*Node) *Node {
	if len(members) == 0 {
		return EmptyObject
	}
	cp := make(map[string]*Node, len(members))
	for k, v := range members {
		cp[k] = v
	}
	return &Node{kind: KindObject, obj: cp}
}

// Kind returns the node's variant.
func (n *Node) Kind() Kind { return n.kind }

// IsArray reports whether n is non-nil and an Array.
func (n *Node) IsArray() bool { return n != nil && n.kind == KindArray }

// IsObject reports whether n is non-nil and an Object.
func (n *Node) IsObject() bool { return n != nil && n.kind == KindObject }

// BoolValue returns the boolean payload and whether n is a Bool node.
func (n *Node) BoolValue() (bool, bool) {
	if n == nil || n.kind != KindBool {
		return false, false
	}
	return n.b, true
}

// DoubleValue returns the double payload and whether n is a Double node.
func (n *Node) DoubleValue() (float64, bool) {
	if n == nil || n.kind != KindDouble {
		return 0, false
	}
	return n.d, true
}

// StringValue returns the string payload and whether n is a String node.
func (n *Node) StringValue() (string, bool) {
	if n == nil || n.kind != KindString {
		return "", false
	}
	return n.s, true
}

// Elements returns the array's elements. The caller must not mutate the
// returned slice. Returns nil if n is not an Array.
func (n *Node) Elements() []*Node {
	if n == nil || n.kind != KindArray {
		return nil
	}
	return n.arr
}

// Members returns the object's key/value map. The caller must not mutate
// the returned map. Returns nil if n is not an Object.
func (n *Node) Members() map[string]*Node {
	if n == nil || n.kind != KindObject {
		return nil
	}
	return n.obj
}

// Keys returns the object's keys sorted ascending, the deterministic
// iteration order §3.1 requires for serialization and equality checks that
// care about order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(n.obj))
	for k := range n.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether a and b are deeply, structurally equal. Two nil
// handles are equal; a nil handle is never equal to a non-nil one.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindDouble:
		return a.d == b.d
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for k, av := range a.obj {
			bv, ok := b.obj[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Get walks n segment by segment along p, returning the handle at that
// position or the absent handle (nil) if any segment is missing or
// descends into a value-typed node. An empty path returns n unchanged.
func Get(n *Node, p path.Path) *Node {
	if p.IsEmpty() {
		return n
	}
	if n == nil {
		return nil
	}
	head, _ := p.Head()
	switch n.kind {
	case KindObject:
		child, ok := n.obj[head]
		if !ok {
			return nil
		}
		return Get(child, p.Tail())
	case KindArray:
		idx, ok := path.AsIndex(head)
		if !ok || idx < 0 || idx >= len(n.arr) {
			return nil
		}
		return Get(n.arr[idx], p.Tail())
	default:
		return nil
	}
}

// Set returns a new tree where the subtree at p is replaced by v. v may be
// the absent handle (nil), in which case the node at p is removed (for
// Object keys) or reset to Null (for Array slots, keeping the array
// dense). An empty path replaces the whole tree with v. Intermediate
// missing containers are created as Objects; descending a non-numeric
// segment into an Array promotes it to an Object keyed by stringified
// indices. Removing a path that does not exist is a no-op.
func Set(n *Node, p path.Path, v *Node) *Node {
	if p.IsEmpty() {
		return v
	}
	head, _ := p.Head()
	tail := p.Tail()

	var child *Node
	childExisted := false
	if n != nil {
		switch n.kind {
		case KindObject:
			if c, ok := n.obj[head]; ok {
				child, childExisted = c, true
			}
		case KindArray:
			if idx, ok := path.AsIndex(head); ok && idx >= 0 && idx < len(n.arr) {
				child, childExisted = n.arr[idx], true
			}
		}
	}

	var newChild *Node
	if childExisted {
		newChild = Set(child, tail, v)
	} else {
		newChild = nodeAtPath(tail, v)
		if newChild == nil {
			return n // nothing existed here and there is nothing to remove
		}
	}

	if n == nil {
		return NewObject(map[string]*Node{head: newChild})
	}
	switch n.kind {
	case KindObject:
		return n.objectSetImpl(head, newChild)
	case KindArray:
		return n.arraySetImpl(head, newChild)
	default:
		// value-typed intermediate: replaced wholesale by a freshly-minted
		// object holding the remaining subpath.
		return NewObject(map[string]*Node{head: newChild})
	}
}

// nodeAtPath builds a chain of single-key Objects down to v at the tip of
// p, or returns nil ("nothing to build") when v is absent -- building
// fresh containers purely to perform a no-op removal is itself a no-op.
func nodeAtPath(p path.Path, v *Node) *Node {
	if p.IsEmpty() {
		return v
	}
	if v == nil {
		return nil
	}
	head, _ := p.Head()
	return NewObject(map[string]*Node{head: nodeAtPath(p.Tail(), v)})
}

func (n *Node) objectSetImpl(key string, v *Node) *Node {
	result := make(map[string]*Node, len(n.obj)+1)
	for k, val := range n.obj {
		result[k] = val
	}
	if v == nil {
		delete(result, key)
	} else {
		result[key] = v
	}
	return NewObject(result)
}

func (n *Node) arraySetImpl(head string, v *Node) *Node {
	idx, ok := path.AsIndex(head)
	if !ok {
		// promote to an Object keyed by stringified indices.
		obj := make(map[string]*Node, len(n.arr)+1)
		for i, el := range n.arr {
			obj[strconv.Itoa(i)] = el
		}
		if v == nil {
			delete(obj, head)
		} else {
			obj[head] = v
		}
		return NewObject(obj)
	}

	result := make([]*Node, len(n.arr))
	copy(result, n.arr)
	if v == nil {
		if idx < len(result) {
			result[idx] = Null
		}
		return NewArray(result...)
	}
	for len(result) <= idx {
		result = append(result, Null)
	}
	result[idx] = v
	return NewArray(result...)
}

// Overlay merges other onto n, returning a new tree. Keys present in other
// with the absent handle are removed from the result; otherwise the
// overlay value wins, recursively merged when both sides are the same
// container kind. If n and other are different kinds (including one being
// a container and the other a value), the overlay value wins wholesale.
func Overlay(n, other *Node) *Node {
	if other == nil {
		return n
	}
	if n == nil {
		return other
	}
	if n.kind == other.kind {
		switch n.kind {
		case KindObject:
			return n.overlayObject(other)
		case KindArray:
			return n.overlayArray(other)
		}
	}
	return other
}

func (n *Node) overlayObject(other *Node) *Node {
	result := make(map[string]*Node, len(n.obj)+len(other.obj))
	for k, v := range n.obj {
		result[k] = v
	}
	for k, v := range other.obj {
		if v == nil {
			delete(result, k)
			continue
		}
		if existing, ok := result[k]; ok && existing != nil {
			result[k] = Overlay(existing, v)
		} else {
			result[k] = v
		}
	}
	return NewObject(result)
}

func (n *Node) overlayArray(other *Node) *Node {
	size := len(n.arr)
	if len(other.arr) > size {
		size = len(other.arr)
	}
	result := make([]*Node, size)
	copy(result, n.arr)
	for i := len(n.arr); i < size; i++ {
		result[i] = Null
	}
	for i, v := range other.arr {
		if v != nil {
			result[i] = v
		}
	}
	return NewArray(result...)
}

// Action pairs a path with a transformation applied to the node currently
// at that path.
type Action struct {
	Path path.Path
	Op   func(*Node) *Node
}

// Transform applies actions in order: for each, it reads the current node
// at Path, applies Op, and writes the result back with Set. Behavior is
// undefined if one action's path prefixes another's in the same call.
func Transform(n *Node, actions []Action) *Node {
	cur := n
	for _, a := range actions {
		cur = Set(cur, a.Path, a.Op(Get(cur, a.Path)))
	}
	return cur
}

// FoldAction pairs a path with a reducer from the node at that path to a
// value of type T.
type FoldAction[T any] struct {
	Path   path.Path
	Reduce func(*Node) T
}

// Fold aggregates over actions: combine(combine(combine(init, r1), r2), ...)
// where each ri = action.Reduce(Get(n, action.Path)). Used by the store to
// evaluate preconditions with logical AND.
func Fold[T any](n *Node, actions []FoldAction[T], combine func(T, T) T, init T) T {
	acc := init
	for _, a := range actions {
		acc = combine(acc, a.Reduce(Get(n, a.Path)))
	}
	return acc
}

// Extract returns an Object-rooted tree containing only the subtrees
// reachable at paths, each addressed by its original path.
func Extract(n *Node, paths []path.Path) *Node {
	result := EmptyObject
	for _, p := range paths {
		result = Set(result, p, Get(n, p))
	}
	return result
}

// ArrayPush returns a copy of n's elements with v appended. Precondition:
// n.Kind() == KindArray.
func (n *Node) ArrayPush(v *Node) *Node {
	result := make([]*Node, len(n.arr)+1)
	copy(result, n.arr)
	result[len(n.arr)] = v
	return NewArray(result...)
}

// ArrayPrepend returns a copy of n's elements with v inserted at the
// front. Precondition: n.Kind() == KindArray.
func (n *Node) ArrayPrepend(v *Node) *Node {
	result := make([]*Node, len(n.arr)+1)
	result[0] = v
	copy(result[1:], n.arr)
	return NewArray(result...)
}

// ArrayPop returns a copy of n's elements with the last one dropped. A
// call on an empty array returns an empty array. Precondition:
// n.Kind() == KindArray.
func (n *Node) ArrayPop() *Node {
	if len(n.arr) == 0 {
		return EmptyArray
	}
	return NewArray(n.arr[:len(n.arr)-1]...)
}

// ArrayShift returns a copy of n's elements with the first one dropped. A
// call on an empty array returns an empty array. Precondition:
// n.Kind() == KindArray.
func (n *Node) ArrayShift() *Node {
	if len(n.arr) == 0 {
		return EmptyArray
	}
	return NewArray(n.arr[1:]...)
}

// ArrayErase returns a copy of n's elements with the first element deep-
// equal to v removed, or n unchanged if no element matches. Precondition:
// n.Kind() == KindArray.
func (n *Node) ArrayErase(v *Node) *Node {
	for i, el := range n.arr {
		if Equal(el, v) {
			result := make([]*Node, 0, len(n.arr)-1)
			result = append(result, n.arr[:i]...)
			result = append(result, n.arr[i+1:]...)
			return NewArray(result...)
		}
	}
	return n
}

// ArrayContains reports whether n contains an element deep-equal to v. A
// nil needle never matches. Precondition: n.Kind() == KindArray.
func (n *Node) ArrayContains(v *Node) bool {
	if v == nil {
		return false
	}
	for _, el := range n.arr {
		if Equal(el, v) {
			return true
		}
	}
	return false
}
