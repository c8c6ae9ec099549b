// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deserial

import (
	"fmt"

	"github.com/lumera/agency/node"
	"github.com/lumera/agency/wire"
)

// Reader decodes a wire.Slice into a T, or reports a structured Error.
type Reader[T any] func(s wire.Slice) (T, *Error)

// Bool reads a boolean leaf.
func Bool() Reader[bool] {
	return func(s wire.Slice) (bool, *Error) {
		v, ok := s.Bool()
		if !ok {
			return false, newError("value is not a bool")
		}
		return v, nil
	}
}

// Double reads a numeric leaf.
func Double() Reader[float64] {
	return func(s wire.Slice) (float64, *Error) {
		v, ok := s.Double()
		if !ok {
			return 0, newError("value is not a double")
		}
		return v, nil
	}
}

// String reads a string leaf.
func String() Reader[string] {
	return func(s wire.Slice) (string, *Error) {
		v, ok := s.String()
		if !ok {
			return "", newError("value is not a string")
		}
		return v, nil
	}
}

// AnyNode reads the slice into a document node.Node of whatever shape it
// is, for fields whose value is itself an arbitrary document (e.g. a
// write operation's new value).
func AnyNode() Reader[*node.Node] {
	return func(s wire.Slice) (*node.Node, *Error) {
		return wire.NodeFromSlice(s), nil
	}
}

// ExpectedValue succeeds only when inner decodes to exactly want, the
// way a discriminator literal ("op": "set") is checked.
func ExpectedValue[T comparable](want T, inner Reader[T]) Reader[T] {
	return func(s wire.Slice) (T, *Error) {
		v, err := inner(s)
		if err != nil {
			return v, err
		}
		if v != want {
			return v, newError(fmt.Sprintf("expected value %v, got %v", want, v))
		}
		return v, nil
	}
}

// Attribute decodes the named field of an Object-shaped slice with
// inner, tracing the field name onto any failure. The field must be
// present; use SimpleParameter for optional-with-default semantics.
func Attribute[T any](name string, inner Reader[T]) Reader[T] {
	return func(s wire.Slice) (T, *Error) {
		var zero T
		child, ok := s.Attribute(name)
		if !ok {
			return zero, newError("missing required field").Trace(Access{Key: name, IsKey: true})
		}
		v, err := inner(child)
		if err != nil {
			return zero, err.Trace(Access{Key: name, IsKey: true})
		}
		return v, nil
	}
}

// SimpleParameter decodes the named field if present; if it is absent
// and required is false, def is returned instead. If it is absent and
// required is true, decoding fails.
func SimpleParameter[T any](name string, required bool, def T, inner Reader[T]) Reader[T] {
	return func(s wire.Slice) (T, *Error) {
		child, ok := s.Attribute(name)
		if !ok {
			if required {
				return def, newError("missing required field").Trace(Access{Key: name, IsKey: true})
			}
			return def, nil
		}
		v, err := inner(child)
		if err != nil {
			return def, err.Trace(Access{Key: name, IsKey: true})
		}
		return v, nil
	}
}

// ParameterList returns a validator that rejects an Object-shaped slice
// carrying any key outside allowed -- the strict-schema check a
// parameter list applies once every individual field has been read with
// Attribute/SimpleParameter.
func ParameterList(allowed ...string) func(s wire.Slice) *Error {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	return func(s wire.Slice) *Error {
		for _, k := range s.Keys() {
			if !set[k] {
				return newError(fmt.Sprintf("unexpected field %q", k))
			}
		}
		return nil
	}
}

// Array decodes an Array-shaped slice element by element, tracing the
// index onto any element's failure.
func Array[T any](inner Reader[T]) Reader[[]T] {
	return func(s wire.Slice) ([]T, *Error) {
		if s.Kind() != wire.KindArray {
			return nil, newError("value is not an array")
		}
		elements := s.Elements()
		out := make([]T, len(elements))
		for i, e := range elements {
			v, err := inner(e)
			if err != nil {
				return nil, err.Trace(Access{Index: i})
			}
			out[i] = v
		}
		return out, nil
	}
}

// Map decodes an Object-shaped slice member by member into a Go map,
// tracing the key onto any member's failure. Keys are visited in the
// order the wire presented them, but the resulting map itself, like any
// Go map, carries no order; use OrderedMap where member order matters.
func Map[T any](inner Reader[T]) Reader[map[string]T] {
	return func(s wire.Slice) (map[string]T, *Error) {
		if s.Kind() != wire.KindObject {
			return nil, newError("value is not an object")
		}
		keys := s.Keys()
		out := make(map[string]T, len(keys))
		for _, k := range keys {
			child, _ := s.Attribute(k)
			v, err := inner(child)
			if err != nil {
				return nil, err.Trace(Access{Key: k, IsKey: true})
			}
			out[k] = v
		}
		return out, nil
	}
}

// KV is one key/value pair of an OrderedMap result.
type KV[T any] struct {
	Key   string
	Value T
}

// OrderedMap decodes an Object-shaped slice member by member into a
// slice of KV pairs, preserving the order the wire presented them in --
// the transaction schema's operations_map and preconditions_map both
// depend on the order a client listed its paths in, unlike Map's
// plain Go map result.
func OrderedMap[T any](inner Reader[T]) Reader[[]KV[T]] {
	return func(s wire.Slice) ([]KV[T], *Error) {
		if s.Kind() != wire.KindObject {
			return nil, newError("value is not an object")
		}
		keys := s.Keys()
		out := make([]KV[T], 0, len(keys))
		for _, k := range keys {
			child, _ := s.Attribute(k)
			v, err := inner(child)
			if err != nil {
				return nil, err.Trace(Access{Key: k, IsKey: true})
			}
			out = append(out, KV[T]{Key: k, Value: v})
		}
		return out, nil
	}
}

// AnyReader decodes a slice of unknown static type, for use inside
// FixedOrder where each position may have a different Go type.
type AnyReader func(s wire.Slice) (interface{}, *Error)

// Of adapts a Reader[T] into an AnyReader for FixedOrder.
func Of[T any](r Reader[T]) AnyReader {
	return func(s wire.Slice) (interface{}, *Error) {
		return r(s)
	}
}

// FixedOrder decodes an Array-shaped slice of exactly len(readers)
// elements, applying readers[i] to element i in order and tracing the
// index onto any failure.
func FixedOrder(readers ...AnyReader) Reader[[]interface{}] {
	return func(s wire.Slice) ([]interface{}, *Error) {
		if s.Kind() != wire.KindArray {
			return nil, newError("value is not an array")
		}
		elements := s.Elements()
		if len(elements) != len(readers) {
			return nil, newError(fmt.Sprintf("expected exactly %d elements, got %d", len(readers), len(elements)))
		}
		out := make([]interface{}, len(readers))
		for i, r := range readers {
			v, err := r(elements[i])
			if err != nil {
				return nil, err.Trace(Access{Index: i})
			}
			out[i] = v
		}
		return out, nil
	}
}

// FieldValueDependent dispatches to one of cases based on the string
// value of the tagField attribute -- a discriminated union tagged by
// value, e.g. {"op": "increment", ...} vs {"op": "set", ...}.
func FieldValueDependent[T any](tagField string, cases map[string]Reader[T]) Reader[T] {
	return func(s wire.Slice) (T, *Error) {
		var zero T
		tagSlice, ok := s.Attribute(tagField)
		if !ok {
			return zero, newError("missing discriminator field").Trace(Access{Key: tagField, IsKey: true})
		}
		tag, ok := tagSlice.String()
		if !ok {
			return zero, newError("discriminator field is not a string").Trace(Access{Key: tagField, IsKey: true})
		}
		reader, ok := cases[tag]
		if !ok {
			return zero, newError(fmt.Sprintf("unrecognized %s %q", tagField, tag))
		}
		return reader(s)
	}
}

// FieldNameDependent dispatches to the reader registered for whichever
// of cases' keys is present on the object -- a discriminated union
// tagged by which field exists, e.g. {"old": ...} vs {"oldNot": ...}.
// Fields are checked in wire order, so if a slice happens to carry more
// than one recognized key the first one written wins.
func FieldNameDependent[T any](cases map[string]Reader[T]) Reader[T] {
	return func(s wire.Slice) (T, *Error) {
		var zero T
		for _, name := range s.Keys() {
			reader, ok := cases[name]
			if !ok {
				continue
			}
			child, _ := s.Attribute(name)
			v, err := reader(child)
			if err != nil {
				return zero, err.Trace(Access{Key: name, IsKey: true})
			}
			return v, nil
		}
		return zero, newError("no recognized field present")
	}
}

// Conditional picks whenTrue or whenFalse depending on predicate(s),
// without consuming or restricting the slice itself -- used when the
// choice of grammar depends on shape rather than an explicit tag.
func Conditional[T any](predicate func(wire.Slice) bool, whenTrue, whenFalse Reader[T]) Reader[T] {
	return func(s wire.Slice) (T, *Error) {
		if predicate(s) {
			return whenTrue(s)
		}
		return whenFalse(s)
	}
}

// TryAlternatives attempts readers in order and returns the first
// success; if every reader fails, the last attempt's error is returned.
func TryAlternatives[T any](readers ...Reader[T]) Reader[T] {
	return func(s wire.Slice) (T, *Error) {
		var zero T
		var lastErr *Error
		for _, r := range readers {
			v, err := r(s)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = newError("no alternative matched")
		}
		return zero, lastErr
	}
}

// FromFactory decodes with inner and then passes the result through
// factory, which may itself reject the value on semantic grounds (e.g. a
// negative TTL) -- the factory's error becomes the deserialization
// failure's message.
func FromFactory[T, U any](inner Reader[T], factory func(T) (U, error)) Reader[U] {
	return func(s wire.Slice) (U, *Error) {
		var zero U
		v, err := inner(s)
		if err != nil {
			return zero, err
		}
		out, ferr := factory(v)
		if ferr != nil {
			return zero, newError(ferr.Error())
		}
		return out, nil
	}
}

// Proxy lets a Reader refer to itself (or to another Reader not yet
// constructed), the way a recursive grammar rule must be built in two
// steps: declare the Proxy, build the grammar referencing Proxy.Read,
// then assign Proxy.Reader.
type Proxy[T any] struct {
	Reader Reader[T]
}

// Read invokes the proxy's underlying Reader, which must be assigned
// before first use.
func (p *Proxy[T]) Read(s wire.Slice) (T, *Error) {
	return p.Reader(s)
}
