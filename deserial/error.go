// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package deserial implements a parser-combinator framework for decoding
// wire.Slice values into typed Go values, in the style of a recursive-
// descent schema reader: small Reader[T] functions compose into larger
// ones, and a failure anywhere in the tree carries a backtrace of the
// path that led to it.
package deserial

import "strconv"

// Access is one step of a DeserializationError's backtrace: either an
// object key or an array index.
type Access struct {
	Key   string
	Index int
	IsKey bool
}

func (a Access) String() string {
	if a.IsKey {
		return "." + a.Key
	}
	return "[" + strconv.Itoa(a.Index) + "]"
}

// Error is a structured deserialization failure. Backtrace accumulates
// from the innermost failure outward as the error propagates up through
// nested Trace calls; AsString renders it the other way round, from the
// root of the value down to the failure, the way a person would write a
// path.
type Error struct {
	Backtrace []Access
	Message   string
}

func newError(message string) *Error {
	return &Error{Message: message}
}

// Trace returns a copy of e with a prepended to its backtrace's
// traversal history -- call this once per level as an error unwinds
// through a combinator that knows its own position (an Attribute, an
// Array element, ...).
func (e *Error) Trace(a Access) *Error {
	backtrace := make([]Access, len(e.Backtrace), len(e.Backtrace)+1)
	copy(backtrace, e.Backtrace)
	backtrace = append(backtrace, a)
	return &Error{Backtrace: backtrace, Message: e.Message}
}

// Wrap prepends msg to the error's message, separated by ": ".
func (e *Error) Wrap(msg string) *Error {
	return &Error{Backtrace: e.Backtrace, Message: msg + ": " + e.Message}
}

// AsString renders the backtrace from outermost to innermost followed by
// ": " and the message, e.g. ".delta: value is not a double" or
// ".items[2].name: value is not a string".
func (e *Error) AsString() string {
	out := ""
	for i := len(e.Backtrace) - 1; i >= 0; i-- {
		out += e.Backtrace[i].String()
	}
	out += ": " + e.Message
	return out
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.AsString()
}
