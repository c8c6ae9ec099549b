// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wire implements the self-describing binary encoding used on
// the wire: a Slice is a read-only handle over a decoded value (for the
// deserializer DSL in package deserial to walk), and a Builder
// accumulates a value to encode back out. Both are backed by
// github.com/vmihailenco/msgpack/v5, which natively supports the typed
// numbers, strings, maps and arrays the schema layer needs without a
// hand-rolled binary format. Objects decode through msgpack's ordered-map
// mode so a Slice preserves the wire's original key order rather than
// collapsing it into an unordered Go map.
package wire

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lumera/agency/node"
)

// Kind identifies the shape of value a Slice currently holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindDouble
	KindString
	KindArray
	KindObject
)

// Slice is an immutable view over one decoded wire value. It never
// allocates a new copy of its underlying data; Attribute/Elements return
// views into the same decoded structure.
type Slice struct {
	v interface{}
}

// DecodeSlice decodes data into a root Slice. Objects decode as
// msgpack.MapSlice, preserving the order their keys appeared on the wire.
func DecodeSlice(data []byte) (Slice, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseOrderedMaps(true)
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return Slice{}, errors.Wrap(err, "decode wire slice")
	}
	return Slice{v: v}, nil
}

// Kind reports the shape of the value this Slice holds.
func (s Slice) Kind() Kind {
	switch s.v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case []interface{}:
		return KindArray
	case msgpack.MapSlice:
		return KindObject
	default:
		if _, ok := asDouble(s.v); ok {
			return KindDouble
		}
		return KindNull
	}
}

// Bool returns the boolean payload, if this Slice holds one.
func (s Slice) Bool() (bool, bool) {
	b, ok := s.v.(bool)
	return b, ok
}

// Double returns the numeric payload as a float64, if this Slice holds
// any of the numeric types msgpack may have produced (it preserves the
// original integer/float width on the wire; the document model only
// ever sees doubles).
func (s Slice) Double() (float64, bool) {
	return asDouble(s.v)
}

// String returns the string payload, if this Slice holds one.
func (s Slice) String() (string, bool) {
	str, ok := s.v.(string)
	return str, ok
}

// Attribute looks up name in an Object-shaped Slice, scanning its
// members in wire order and returning the first match.
func (s Slice) Attribute(name string) (Slice, bool) {
	m, ok := s.v.(msgpack.MapSlice)
	if !ok {
		return Slice{}, false
	}
	for _, item := range m {
		if k, ok := item.Key.(string); ok && k == name {
			return Slice{v: item.Value}, true
		}
	}
	return Slice{}, false
}

// Keys returns an Object-shaped Slice's keys in the order they appeared
// on the wire.
func (s Slice) Keys() []string {
	m, ok := s.v.(msgpack.MapSlice)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for _, item := range m {
		if k, ok := item.Key.(string); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Elements returns an Array-shaped Slice's elements in order.
func (s Slice) Elements() []Slice {
	arr, ok := s.v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]Slice, len(arr))
	for i, e := range arr {
		out[i] = Slice{v: e}
	}
	return out
}

// Len returns the number of elements (Array) or members (Object); 0 for
// any other kind.
func (s Slice) Len() int {
	switch v := s.v.(type) {
	case []interface{}:
		return len(v)
	case msgpack.MapSlice:
		return len(v)
	default:
		return 0
	}
}

func asDouble(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// NodeFromSlice constructs a node.Node tree from a decoded Slice,
// following the same Null/Bool/Double/String/Array/Object shape as the
// document tree itself.
func NodeFromSlice(s Slice) *node.Node {
	switch v := s.v.(type) {
	case nil:
		return node.Null
	case bool:
		return node.NewBool(v)
	case string:
		return node.NewString(v)
	case []interface{}:
		elements := make([]*node.Node, len(v))
		for i, e := range v {
			elements[i] = NodeFromSlice(Slice{v: e})
		}
		return node.NewArray(elements...)
	case msgpack.MapSlice:
		members := make(map[string]*node.Node, len(v))
		for _, item := range v {
			k, _ := item.Key.(string)
			members[k] = NodeFromSlice(Slice{v: item.Value})
		}
		return node.NewObject(members)
	default:
		if d, ok := asDouble(v); ok {
			return node.NewDouble(d)
		}
		return node.Null
	}
}

// DecodeNode decodes data directly into a node.Node tree.
func DecodeNode(data []byte) (*node.Node, error) {
	s, err := DecodeSlice(data)
	if err != nil {
		return nil, err
	}
	return NodeFromSlice(s), nil
}

// Builder accumulates a value to encode. Unlike Slice, a Builder is
// write-only and single-shot: call Node and then Bytes.
type Builder struct {
	v interface{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Node loads a node.Node tree into the builder, converting it to the
// plain interface{} shape msgpack encodes. Objects are emitted in the
// node's own deterministic key order (see node.Node.Keys), so two calls
// encoding deep-equal trees always produce identical bytes.
func (b *Builder) Node(n *node.Node) {
	b.v = nodeToInterface(n)
}

// Bytes encodes the builder's current value.
func (b *Builder) Bytes() ([]byte, error) {
	data, err := msgpack.Marshal(b.v)
	if err != nil {
		return nil, errors.Wrap(err, "encode wire value")
	}
	return data, nil
}

func nodeToInterface(n *node.Node) interface{} {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case node.KindNull:
		return nil
	case node.KindBool:
		v, _ := n.BoolValue()
		return v
	case node.KindDouble:
		v, _ := n.DoubleValue()
		return v
	case node.KindString:
		v, _ := n.StringValue()
		return v
	case node.KindArray:
		elements := n.Elements()
		out := make([]interface{}, len(elements))
		for i, e := range elements {
			out[i] = nodeToInterface(e)
		}
		return out
	case node.KindObject:
		keys := n.Keys()
		members := n.Members()
		out := make(msgpack.MapSlice, 0, len(keys))
		for _, k := range keys {
			out = append(out, msgpack.MapItem{Key: k, Value: nodeToInterface(members[k])})
		}
		return out
	default:
		return nil
	}
}

// EncodeNode encodes a node.Node tree to its wire form.
func EncodeNode(n *node.Node) ([]byte, error) {
	b := NewBuilder()
	b.Node(n)
	return b.Bytes()
}
