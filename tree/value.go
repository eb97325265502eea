package tree

import (
	"fmt"
	"sort"

	"github.com/gradloop/gradloop/tensor"
)

// Kind identifies what a Value node holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindLeaf
	KindTuple
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindTuple:
		return "tuple"
	case KindRecord:
		return "record"
	default:
		return "invalid"
	}
}

// Value is a container tree with tensor leaves: a single tensor, a tuple of
// values, or a record of named values. Containers are immutable once built
// and leaves are shared, never copied. The zero Value is invalid.
type Value struct {
	kind Kind
	leaf *tensor.Tensor
	// items holds tuple entries, or record field values aligned with keys.
	items []Value
	keys  []string
}

// Leaf wraps a tensor as a leaf value. A nil tensor yields an invalid Value.
func Leaf(t *tensor.Tensor) Value {
	if t == nil {
		return Value{}
	}
	return Value{kind: KindLeaf, leaf: t}
}

// Tuple builds a positional container from the given values.
func Tuple(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindTuple, items: out}
}

// Record builds a named container from the given fields. Field order is
// canonical: keys are kept sorted regardless of map iteration order.
func Record(fields map[string]Value) Value {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]Value, len(keys))
	for i, k := range keys {
		items[i] = fields[k]
	}
	return Value{kind: KindRecord, keys: keys, items: items}
}

// Kind returns what the value holds.
func (v Value) Kind() Kind { return v.kind }

// Leaf returns the wrapped tensor, or nil when the value is not a leaf.
func (v Value) Leaf() *tensor.Tensor {
	if v.kind != KindLeaf {
		return nil
	}
	return v.leaf
}

// Len returns the number of direct children. Leaves have none.
func (v Value) Len() int {
	if v.kind == KindTuple || v.kind == KindRecord {
		return len(v.items)
	}
	return 0
}

// Item returns the i-th child of a tuple, or of a record in key order. It
// returns the invalid Value when out of range or called on a leaf.
func (v Value) Item(i int) Value {
	if (v.kind != KindTuple && v.kind != KindRecord) || i < 0 || i >= len(v.items) {
		return Value{}
	}
	return v.items[i]
}

// Keys returns a copy of a record's field names in sorted order, or nil for
// other kinds.
func (v Value) Keys() []string {
	if v.kind != KindRecord {
		return nil
	}
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Field looks up a record field by name.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindRecord {
		return Value{}, false
	}
	i := sort.SearchStrings(v.keys, name)
	if i < len(v.keys) && v.keys[i] == name {
		return v.items[i], true
	}
	return Value{}, false
}

// Clone returns a value with copied containers and shared leaf tensors.
// Leaves are immutable, so sharing them is safe.
func (v Value) Clone() Value {
	switch v.kind {
	case KindLeaf:
		return v
	case KindTuple:
		items := make([]Value, len(v.items))
		for i := range v.items {
			items[i] = v.items[i].Clone()
		}
		return Value{kind: KindTuple, items: items}
	case KindRecord:
		keys := make([]string, len(v.keys))
		copy(keys, v.keys)
		items := make([]Value, len(v.items))
		for i := range v.items {
			items[i] = v.items[i].Clone()
		}
		return Value{kind: KindRecord, keys: keys, items: items}
	default:
		return Value{}
	}
}

// Validate walks the tree and rejects invalid nodes and nil leaves.
func (v Value) Validate() error {
	return v.validate("value")
}

func (v Value) validate(path string) error {
	switch v.kind {
	case KindLeaf:
		if v.leaf == nil {
			return fmt.Errorf("%w: %s wraps a nil tensor", ErrInvalidValue, path)
		}
		return nil
	case KindTuple:
		for i := range v.items {
			if err := v.items[i].validate(fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case KindRecord:
		for i := range v.items {
			if err := v.items[i].validate(fmt.Sprintf("%s.%s", path, v.keys[i])); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s has kind %s", ErrInvalidValue, path, v.kind)
	}
}

// Equal reports whether two values share structure and exactly equal leaf
// data.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindLeaf:
		return a.leaf.Equal(b.leaf)
	case KindTuple:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for i := range a.keys {
			if a.keys[i] != b.keys[i] || !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
