// Package doctree reads loosely-shaped evaluation documents without failing on
// absent fields. Every accessor has an explicit default.
package doctree

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tree is a decoded JSON or BSON object.
type Tree map[string]interface{}

// Node wraps a value found at some path. The zero Node is "absent".
type Node struct {
	v interface{}
}

// Of wraps an arbitrary value.
func Of(v interface{}) Node {
	return Node{v: v}
}

// Get walks path from the tree root.
func (t Tree) Get(path ...string) Node {
	return Node{v: t}.Get(path...)
}

// Get walks path from n. Any missing or non-object intermediate yields an absent node.
func (n Node) Get(path ...string) Node {
	cur := n.v
	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return Node{}
		}
		cur = m[key]
	}
	return Node{v: cur}
}

// Exists reports whether the node holds a non-nil value.
func (n Node) Exists() bool {
	return n.v != nil
}

// Raw returns the underlying value.
func (n Node) Raw() interface{} {
	return n.v
}

// Map returns the node as a Tree, or an empty Tree.
func (n Node) Map() Tree {
	if m, ok := asMap(n.v); ok {
		return m
	}
	return Tree{}
}

// String returns the node as a string, or "".
func (n Node) String() string {
	return n.StringOr("")
}

// StringOr returns the node as a string, or def when absent or not a string.
func (n Node) StringOr(def string) string {
	if s, ok := n.v.(string); ok {
		return s
	}
	return def
}

// Float returns the node as a float64, or 0.
func (n Node) Float() float64 {
	switch v := n.v.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Int returns the node truncated to an int, or 0.
func (n Node) Int() int {
	return int(n.Float())
}

// Bool returns the node as a bool, or false.
func (n Node) Bool() bool {
	b, _ := n.v.(bool)
	return b
}

// Slice returns the node as a slice of values, or nil.
func (n Node) Slice() []interface{} {
	switch v := n.v.(type) {
	case []interface{}:
		return v
	case primitive.A:
		return v
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	}
	return nil
}

// Len returns the number of elements in a slice node, or 0.
func (n Node) Len() int {
	return len(n.Slice())
}

// Strings returns the string elements of a slice node. Non-string elements are
// rendered with fmt so that nothing is silently dropped.
func (n Node) Strings() []string {
	items := n.Slice()
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(item))
	}
	return out
}

// Nodes returns the elements of a slice node wrapped as nodes.
func (n Node) Nodes() []Node {
	items := n.Slice()
	out := make([]Node, len(items))
	for i, item := range items {
		out[i] = Node{v: item}
	}
	return out
}

// ID renders a document identifier: ObjectIDs as hex, everything else via fmt.
func (n Node) ID() string {
	switch v := n.v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	}
	return fmt.Sprint(n.v)
}

func asMap(v interface{}) (Tree, bool) {
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[string]interface{}:
		return m, true
	case bson.M:
		return Tree(m), true
	case bson.D:
		out := make(Tree, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out, true
	}
	return nil, false
}

// Plain converts BSON containers into plain maps and slices so the value
// encodes as natural JSON. ObjectIDs become hex strings.
func Plain(v interface{}) interface{} {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	case primitive.A:
		return plainSlice(x)
	case []interface{}:
		return plainSlice(x)
	}
	if m, ok := asMap(v); ok {
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[k] = Plain(val)
		}
		return out
	}
	return v
}

func plainSlice(items []interface{}) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = Plain(item)
	}
	return out
}
