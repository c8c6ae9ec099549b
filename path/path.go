// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package path implements the segment sequence used to address a position
// inside a document tree (see package node).
package path

import "strings"

// Path is an ordered, immutable sequence of string segments. The empty Path
// addresses the root of a tree. Paths are value types: copying a Path copies
// only the backing slice header, the segments themselves are never mutated
// in place.
type Path struct {
	segments []string
}

// Empty is the root path.
var Empty = Path{}

// Of builds a Path from the given segments, in order.
func Of(segments ...string) Path {
	if len(segments) == 0 {
		return Empty
	}
	cp := make([]string, len(segments))
	copy(cp, segments)
	return Path{segments: cp}
}

// Parse normalizes a slash-delimited wire string into a Path. A leading
// slash is optional and stripped; empty segments produced by doubled or
// trailing slashes are dropped. "a/b", "/a/b" and "a//b/" all parse to the
// same two-segment Path.
func Parse(s string) Path {
	if s == "" {
		return Empty
	}
	parts := strings.Split(s, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		segments = append(segments, p)
	}
	if len(segments) == 0 {
		return Empty
	}
	return Path{segments: segments}
}

// String renders the Path back to its slash-delimited wire form.
func (p Path) String() string {
	return strings.Join(p.segments, "/")
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsEmpty reports whether this is the root path.
func (p Path) IsEmpty() bool {
	return len(p.segments) == 0
}

// Head returns the first segment and whether the path is non-empty.
func (p Path) Head() (string, bool) {
	if len(p.segments) == 0 {
		return "", false
	}
	return p.segments[0], true
}

// Tail returns the Path with its first segment removed. Tail of an empty
// path is the empty path.
func (p Path) Tail() Path {
	if len(p.segments) <= 1 {
		return Empty
	}
	return Path{segments: p.segments[1:]}
}

// Append returns a new Path with segment appended after this one.
func (p Path) Append(segment string) Path {
	out := make([]string, len(p.segments)+1)
	copy(out, p.segments)
	out[len(p.segments)] = segment
	return Path{segments: out}
}

// Segments returns the underlying segments as a fresh slice; callers must
// not assume ownership of a shared backing array.
func (p Path) Segments() []string {
	cp := make([]string, len(p.segments))
	copy(cp, p.segments)
	return cp
}

// HasPrefix reports whether other is a prefix of p (including p == other).
func (p Path) HasPrefix(other Path) bool {
	if len(other.segments) > len(p.segments) {
		return false
	}
	for i, s := range other.segments {
		if p.segments[i] != s {
			return false
		}
	}
	return true
}

// AsIndex parses segment as a non-negative decimal array index, following
// the strict digit-only rule used throughout the tree (a segment is an
// index only when every byte is an ASCII digit; no sign, no whitespace).
// It reports ok=false for any non-numeric segment, including the empty
// string.
func AsIndex(segment string) (index int, ok bool) {
	if segment == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
