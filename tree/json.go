package tree

import (
	"encoding/json"
	"fmt"

	"github.com/gradloop/gradloop/tensor"
)

// Values marshal as tagged JSON objects so snapshots survive round trips:
//
//	{"kind":"leaf","dtype":"float64","shape":[2],"values":[1.5,2]}
//	{"kind":"tuple","items":[...]}
//	{"kind":"record","fields":{"x":...}}
//
// Scalar leaves omit the shape and carry a single-element values array.

type jsonNode struct {
	Kind   string           `json:"kind"`
	DType  string           `json:"dtype,omitempty"`
	Shape  []int            `json:"shape,omitempty"`
	Values json.RawMessage  `json:"values,omitempty"`
	Items  []Value          `json:"items,omitempty"`
	Fields map[string]Value `json:"fields,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	switch v.kind {
	case KindLeaf:
		node := jsonNode{
			Kind:  v.kind.String(),
			DType: v.leaf.DType().String(),
			Shape: v.leaf.Shape(),
		}
		values, err := marshalLeafValues(v.leaf)
		if err != nil {
			return nil, err
		}
		node.Values = values
		return json.Marshal(node)
	case KindTuple:
		return json.Marshal(jsonNode{Kind: v.kind.String(), Items: v.items})
	default:
		fields := make(map[string]Value, len(v.keys))
		for i, key := range v.keys {
			fields[key] = v.items[i]
		}
		return json.Marshal(jsonNode{Kind: v.kind.String(), Fields: fields})
	}
}

func marshalLeafValues(t *tensor.Tensor) (json.RawMessage, error) {
	switch t.DType() {
	case tensor.Bool:
		return json.Marshal(t.RawBools())
	case tensor.Int64:
		return json.Marshal(t.RawInt64s())
	default:
		return json.Marshal(t.RawFloat64s())
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind   string                     `json:"kind"`
		DType  string                     `json:"dtype"`
		Shape  []int                      `json:"shape"`
		Values json.RawMessage            `json:"values"`
		Items  []json.RawMessage          `json:"items"`
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode tree value: %w", err)
	}
	switch raw.Kind {
	case "leaf":
		leaf, err := unmarshalLeaf(raw.DType, raw.Shape, raw.Values)
		if err != nil {
			return err
		}
		*v = Leaf(leaf)
		return nil
	case "tuple":
		items := make([]Value, len(raw.Items))
		for i, item := range raw.Items {
			if err := json.Unmarshal(item, &items[i]); err != nil {
				return err
			}
		}
		*v = Tuple(items...)
		return nil
	case "record":
		fields := make(map[string]Value, len(raw.Fields))
		for key, field := range raw.Fields {
			var fv Value
			if err := json.Unmarshal(field, &fv); err != nil {
				return err
			}
			fields[key] = fv
		}
		*v = Record(fields)
		return nil
	default:
		return fmt.Errorf("decode tree value: unknown kind %q", raw.Kind)
	}
}

func unmarshalLeaf(dtype string, shape []int, values json.RawMessage) (*tensor.Tensor, error) {
	switch dtype {
	case "bool":
		var out []bool
		if err := json.Unmarshal(values, &out); err != nil {
			return nil, fmt.Errorf("decode bool leaf: %w", err)
		}
		return tensor.FromBools(shape, out)
	case "int64":
		var out []int64
		if err := json.Unmarshal(values, &out); err != nil {
			return nil, fmt.Errorf("decode int64 leaf: %w", err)
		}
		return tensor.FromInt64s(shape, out)
	case "float64":
		var out []float64
		if err := json.Unmarshal(values, &out); err != nil {
			return nil, fmt.Errorf("decode float64 leaf: %w", err)
		}
		return tensor.FromFloat64s(shape, out)
	default:
		return nil, fmt.Errorf("decode tree value: unknown dtype %q", dtype)
	}
}
