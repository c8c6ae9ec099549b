// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lumera/agency/deserial"
	"github.com/lumera/agency/node"
	"github.com/lumera/agency/path"
	"github.com/lumera/agency/wire"
)

func encode(t *testing.T, n *node.Node) []byte {
	t.Helper()
	data, err := wire.EncodeNode(n)
	assert.NoError(t, err)
	return data
}

// txNode builds the wire shape of one transaction: the fixed three-
// element array [operations_map, preconditions_map, client_id].
func txNode(ops, preconditions *node.Node, clientID string) *node.Node {
	return node.NewArray(ops, preconditions, node.NewString(clientID))
}

func TestDecodeEnvelopeSet(t *testing.T) {
	d := NewDecoder()
	data := encode(t, node.NewArray(txNode(
		node.NewObject(map[string]*node.Node{
			"a/b": node.NewObject(map[string]*node.Node{
				"op":  node.NewString("set"),
				"new": node.NewDouble(42),
			}),
		}),
		node.EmptyObject,
		"client-1",
	)))

	txs, err := d.DecodeEnvelope(data)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(txs))
	assert.Equal(t, "client-1", txs[0].ClientID)
	assert.Equal(t, 1, len(txs[0].Operations))
	assert.Equal(t, path.Of("a", "b"), txs[0].Operations[0].Path)
	assert.Nil(t, txs[0].Operations[0].TTL)

	got := txs[0].Operations[0].Transform(nil)
	v, ok := got.DoubleValue()
	assert.True(t, ok)
	assert.Equal(t, float64(42), v)
}

func TestDecodeEnvelopeIncrementDefaultDelta(t *testing.T) {
	d := NewDecoder()
	data := encode(t, node.NewArray(txNode(
		node.NewObject(map[string]*node.Node{
			"counter": node.NewObject(map[string]*node.Node{
				"op": node.NewString("increment"),
			}),
		}),
		node.EmptyObject,
		"",
	)))

	txs, err := d.DecodeEnvelope(data)
	assert.NoError(t, err)
	got := txs[0].Operations[0].Transform(node.NewDouble(10))
	v, _ := got.DoubleValue()
	assert.Equal(t, float64(11), v)
}

func TestDecodeEnvelopeSetWithTTL(t *testing.T) {
	d := NewDecoder()
	data := encode(t, node.NewArray(txNode(
		node.NewObject(map[string]*node.Node{
			"session": node.NewObject(map[string]*node.Node{
				"op":  node.NewString("set"),
				"new": node.NewBool(true),
				"ttl": node.NewDouble(5),
			}),
		}),
		node.EmptyObject,
		"",
	)))

	txs, err := d.DecodeEnvelope(data)
	assert.NoError(t, err)
	op := txs[0].Operations[0]
	assert.NotNil(t, op.TTL)
	assert.Equal(t, 5*time.Second, *op.TTL)
}

func TestDecodeEnvelopePreconditionOld(t *testing.T) {
	d := NewDecoder()
	data := encode(t, node.NewArray(txNode(
		node.EmptyObject,
		node.NewObject(map[string]*node.Node{
			"flag": node.NewObject(map[string]*node.Node{
				"old": node.NewBool(true),
			}),
		}),
		"",
	)))

	txs, err := d.DecodeEnvelope(data)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(txs[0].Preconditions))
	assert.Equal(t, path.Of("flag"), txs[0].Preconditions[0].Path)
	assert.True(t, txs[0].Preconditions[0].Condition(node.NewBool(true)))
	assert.False(t, txs[0].Preconditions[0].Condition(node.NewBool(false)))
}

func TestDecodeEnvelopePreconditionOldNot(t *testing.T) {
	d := NewDecoder()
	data := encode(t, node.NewArray(txNode(
		node.EmptyObject,
		node.NewObject(map[string]*node.Node{
			"flag": node.NewObject(map[string]*node.Node{
				"oldNot": node.NewBool(true),
			}),
		}),
		"",
	)))

	txs, err := d.DecodeEnvelope(data)
	assert.NoError(t, err)
	assert.False(t, txs[0].Preconditions[0].Condition(node.NewBool(true)))
	assert.True(t, txs[0].Preconditions[0].Condition(node.NewBool(false)))
}

func TestDecodeEnvelopePreconditionOldEmpty(t *testing.T) {
	d := NewDecoder()
	data := encode(t, node.NewArray(txNode(
		node.EmptyObject,
		node.NewObject(map[string]*node.Node{
			"gone": node.NewObject(map[string]*node.Node{
				"oldEmpty": node.NewBool(true),
			}),
		}),
		"",
	)))

	txs, err := d.DecodeEnvelope(data)
	assert.NoError(t, err)
	assert.True(t, txs[0].Preconditions[0].Condition(nil))
	assert.False(t, txs[0].Preconditions[0].Condition(node.Null))

	dataInverted := encode(t, node.NewArray(txNode(
		node.EmptyObject,
		node.NewObject(map[string]*node.Node{
			"gone": node.NewObject(map[string]*node.Node{
				"oldEmpty": node.NewBool(false),
			}),
		}),
		"",
	)))
	txs2, err := d.DecodeEnvelope(dataInverted)
	assert.NoError(t, err)
	assert.False(t, txs2[0].Preconditions[0].Condition(nil))
	assert.True(t, txs2[0].Preconditions[0].Condition(node.Null))
}

func TestDecodeOperationUnknownFieldRejected(t *testing.T) {
	d := NewDecoder()
	data := encode(t, node.NewArray(txNode(
		node.NewObject(map[string]*node.Node{
			"a": node.NewObject(map[string]*node.Node{
				"op":    node.NewString("set"),
				"new":   node.NewDouble(1),
				"bogus": node.NewBool(true),
			}),
		}),
		node.EmptyObject,
		"",
	)))
	_, err := d.DecodeEnvelope(data)
	assert.Error(t, err)
}

func TestDecodeOperationUnrecognizedOpRejected(t *testing.T) {
	d := NewDecoder()
	data := encode(t, node.NewArray(txNode(
		node.NewObject(map[string]*node.Node{
			"a": node.NewObject(map[string]*node.Node{
				"op": node.NewString("teleport"),
			}),
		}),
		node.EmptyObject,
		"",
	)))
	_, err := d.DecodeEnvelope(data)
	assert.Error(t, err)
}

// Mirrors parsing a bare array of operation bodies and checking that the
// resulting error trace ends in ".delta: value is not a double".
func TestDecodeOperationArrayDeltaTypeErrorTrace(t *testing.T) {
	d := NewDecoder()
	data := encode(t, node.NewArray(node.NewObject(map[string]*node.Node{
		"op":    node.NewString("increment"),
		"delta": node.NewString("notanumber"),
	})))

	s, err := wire.DecodeSlice(data)
	assert.NoError(t, err)

	_, derr := deserial.Array(d.decodeOperation())(s)
	assert.NotNil(t, derr)
	assert.Contains(t, derr.AsString(), ".delta: value is not a double")
}

// TestTransactionOrderPreservedAcrossMultiplePaths builds its wire bytes
// directly with msgpack.MapSlice instead of going through node.NewObject,
// whose Object variant always serializes with sorted keys (see
// node.Node.Keys) -- that sorting is right for the document tree but
// would mask the very thing being tested here: that the operations_map
// decodes in the order the client wrote it, not alphabetical order.
func TestTransactionOrderPreservedAcrossMultiplePaths(t *testing.T) {
	d := NewDecoder()
	operationsMap := msgpack.MapSlice{
		{Key: "z", Value: msgpack.MapSlice{{Key: "op", Value: "remove"}}},
		{Key: "a", Value: msgpack.MapSlice{{Key: "op", Value: "remove"}}},
	}
	transaction := []interface{}{operationsMap, msgpack.MapSlice{}, ""}
	data, err := msgpack.Marshal([]interface{}{transaction})
	assert.NoError(t, err)

	txs, derr := d.DecodeEnvelope(data)
	assert.NoError(t, derr)
	assert.Equal(t, path.Of("z"), txs[0].Operations[0].Path)
	assert.Equal(t, path.Of("a"), txs[0].Operations[1].Path)
}

func TestExtractResponse(t *testing.T) {
	root := node.NewObject(map[string]*node.Node{
		"a": node.NewObject(map[string]*node.Node{"b": node.NewString("hi")}),
	})
	data, err := ExtractResponse(root, []path.Path{path.Of("a", "b")})
	assert.NoError(t, err)
	got, err := wire.DecodeNode(data)
	assert.NoError(t, err)
	assert.Equal(t, "hi", mustStr(t, node.Get(got, path.Of("a", "b"))))
}

func mustStr(t *testing.T, n *node.Node) string {
	t.Helper()
	v, ok := n.StringValue()
	assert.True(t, ok)
	return v
}
