// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package schema decodes wire envelopes -- arrays of transactions -- into
// the typed Transaction values the store consumes. It is the boundary
// where slash path strings and JSON-ish wire values become path.Path,
// node.Node, condition.Condition and transform.Transform values the rest
// of the kernel operates on.
package schema

import (
	"time"

	"github.com/lumera/agency/condition"
	"github.com/lumera/agency/deserial"
	"github.com/lumera/agency/internal/pathcache"
	"github.com/lumera/agency/node"
	"github.com/lumera/agency/path"
	"github.com/lumera/agency/transform"
	"github.com/lumera/agency/wire"
)

// WriteOperation pairs a path with the transform to apply there. TTL is
// non-nil only for a "set" operation that carried an optional ttl field.
type WriteOperation struct {
	Path      path.Path
	Transform transform.Transform
	TTL       *time.Duration
}

// Precondition pairs a path with the condition the node currently there
// must satisfy.
type Precondition struct {
	Path      path.Path
	Condition condition.Condition
}

// Transaction is a batch of preconditions (all of which must hold) and
// the operations to apply once they do -- the payload of store.Transact.
// It decodes from the wire as a fixed three-element array
// [operations_map, preconditions_map, client_id_string], each map keyed
// by a slash-delimited path string in the order the client wrote it.
type Transaction struct {
	Operations    []WriteOperation
	Preconditions []Precondition
	ClientID      string
}

// Decoder decodes wire envelopes, memoizing path parses across calls.
type Decoder struct {
	paths *pathcache.Cache
}

// NewDecoder returns a Decoder with its own path cache.
func NewDecoder() *Decoder {
	return &Decoder{paths: pathcache.New(0)}
}

// DecodeEnvelope decodes data into an envelope -- an array of
// Transactions -- per the transaction schema built on the deserializer
// DSL.
func (d *Decoder) DecodeEnvelope(data []byte) ([]Transaction, error) {
	s, err := wire.DecodeSlice(data)
	if err != nil {
		return nil, err
	}
	txs, derr := deserial.Array(d.decodeTransaction())(s)
	if derr != nil {
		return nil, derr
	}
	return txs, nil
}

func (d *Decoder) decodeTransaction() deserial.Reader[Transaction] {
	return func(s wire.Slice) (Transaction, *deserial.Error) {
		parts, err := deserial.FixedOrder(
			deserial.Of(deserial.OrderedMap(d.decodeOperation())),
			deserial.Of(deserial.OrderedMap(d.decodePrecondition())),
			deserial.Of(deserial.String()),
		)(s)
		if err != nil {
			return Transaction{}, err
		}

		operationsByPath := parts[0].([]deserial.KV[operationBody])
		preconditionsByPath := parts[1].([]deserial.KV[condition.Condition])
		clientID := parts[2].(string)

		ops := make([]WriteOperation, len(operationsByPath))
		for i, kv := range operationsByPath {
			ops[i] = WriteOperation{
				Path:      d.paths.Parse(kv.Key),
				Transform: kv.Value.transform,
				TTL:       kv.Value.ttl,
			}
		}
		preconditions := make([]Precondition, len(preconditionsByPath))
		for i, kv := range preconditionsByPath {
			preconditions[i] = Precondition{Path: d.paths.Parse(kv.Key), Condition: kv.Value}
		}

		return Transaction{Operations: ops, Preconditions: preconditions, ClientID: clientID}, nil
	}
}

// operationBody is the decoded payload of one operations_map entry,
// before its path (the map key) is known.
type operationBody struct {
	transform transform.Transform
	ttl       *time.Duration
}

func (d *Decoder) decodeOperation() deserial.Reader[operationBody] {
	return deserial.FieldValueDependent("op", operationCases)
}

var operationCases = map[string]deserial.Reader[operationBody]{
	"set": func(s wire.Slice) (operationBody, *deserial.Error) {
		v, err := deserial.Attribute("new", deserial.AnyNode())(s)
		if err != nil {
			return operationBody{}, err
		}
		ttl, err := decodeTTL(s)
		if err != nil {
			return operationBody{}, err
		}
		if perr := deserial.ParameterList("op", "new", "ttl")(s); perr != nil {
			return operationBody{}, perr
		}
		return operationBody{transform: transform.Set(v), ttl: ttl}, nil
	},
	"remove": func(s wire.Slice) (operationBody, *deserial.Error) {
		if perr := deserial.ParameterList("op")(s); perr != nil {
			return operationBody{}, perr
		}
		return operationBody{transform: transform.Remove()}, nil
	},
	"increment": func(s wire.Slice) (operationBody, *deserial.Error) {
		delta, err := deserial.SimpleParameter("delta", false, 1.0, deserial.Double())(s)
		if err != nil {
			return operationBody{}, err
		}
		if perr := deserial.ParameterList("op", "delta")(s); perr != nil {
			return operationBody{}, perr
		}
		return operationBody{transform: transform.Increment(delta)}, nil
	},
	"decrement": func(s wire.Slice) (operationBody, *deserial.Error) {
		delta, err := deserial.SimpleParameter("delta", false, 1.0, deserial.Double())(s)
		if err != nil {
			return operationBody{}, err
		}
		if perr := deserial.ParameterList("op", "delta")(s); perr != nil {
			return operationBody{}, perr
		}
		return operationBody{transform: transform.Increment(-delta)}, nil
	},
	"push": func(s wire.Slice) (operationBody, *deserial.Error) {
		v, err := deserial.Attribute("new", deserial.AnyNode())(s)
		if err != nil {
			return operationBody{}, err
		}
		if perr := deserial.ParameterList("op", "new")(s); perr != nil {
			return operationBody{}, perr
		}
		return operationBody{transform: transform.Push(v)}, nil
	},
	"prepend": func(s wire.Slice) (operationBody, *deserial.Error) {
		v, err := deserial.Attribute("new", deserial.AnyNode())(s)
		if err != nil {
			return operationBody{}, err
		}
		if perr := deserial.ParameterList("op", "new")(s); perr != nil {
			return operationBody{}, perr
		}
		return operationBody{transform: transform.Prepend(v)}, nil
	},
	"pop": func(s wire.Slice) (operationBody, *deserial.Error) {
		if perr := deserial.ParameterList("op")(s); perr != nil {
			return operationBody{}, perr
		}
		return operationBody{transform: transform.Pop()}, nil
	},
	"shift": func(s wire.Slice) (operationBody, *deserial.Error) {
		if perr := deserial.ParameterList("op")(s); perr != nil {
			return operationBody{}, perr
		}
		return operationBody{transform: transform.Shift()}, nil
	},
	"erase": func(s wire.Slice) (operationBody, *deserial.Error) {
		v, err := deserial.Attribute("new", deserial.AnyNode())(s)
		if err != nil {
			return operationBody{}, err
		}
		if perr := deserial.ParameterList("op", "new")(s); perr != nil {
			return operationBody{}, perr
		}
		return operationBody{transform: transform.Erase(v)}, nil
	},
}

// decodeTTL reads an optional "ttl" field, expressed on the wire as a
// number of seconds, into a *time.Duration. Returns (nil, nil) when the
// field is absent.
func decodeTTL(s wire.Slice) (*time.Duration, *deserial.Error) {
	child, ok := s.Attribute("ttl")
	if !ok {
		return nil, nil
	}
	seconds, err := deserial.Double()(child)
	if err != nil {
		return nil, err.Trace(deserial.Access{Key: "ttl", IsKey: true})
	}
	d := time.Duration(seconds * float64(time.Second))
	return &d, nil
}

func (d *Decoder) decodePrecondition() deserial.Reader[condition.Condition] {
	return deserial.FieldNameDependent(preconditionCases)
}

var preconditionCases = map[string]deserial.Reader[condition.Condition]{
	"old": func(s wire.Slice) (condition.Condition, *deserial.Error) {
		v, err := deserial.AnyNode()(s)
		if err != nil {
			return nil, err
		}
		return condition.Equal(v), nil
	},
	"oldNot": func(s wire.Slice) (condition.Condition, *deserial.Error) {
		v, err := deserial.AnyNode()(s)
		if err != nil {
			return nil, err
		}
		return condition.NotEqual(v), nil
	},
	"oldEmpty": func(s wire.Slice) (condition.Condition, *deserial.Error) {
		// is_empty(inverted = !bool): {"oldEmpty": true} asks for plain
		// emptiness; {"oldEmpty": false} asks for its inversion.
		flag, err := deserial.Bool()(s)
		if err != nil {
			return nil, err
		}
		c := condition.IsEmpty()
		if !flag {
			c = condition.Not(c)
		}
		return c, nil
	},
}

// ExtractResponse renders a read response: an Object-rooted tree holding
// only the requested paths, each addressed by its original path.
func ExtractResponse(root *node.Node, paths []path.Path) ([]byte, error) {
	return wire.EncodeNode(node.Extract(root, paths))
}
