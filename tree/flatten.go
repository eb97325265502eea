package tree

import (
	"fmt"

	"github.com/gradloop/gradloop/tensor"
)

// Flatten lists the leaves of v in traversal order (tuple position, record
// keys sorted) together with the def that rebuilds the structure.
func Flatten(v Value) ([]*tensor.Tensor, Def) {
	def := DefOf(v)
	leaves := make([]*tensor.Tensor, 0, def.NumLeaves())
	var collect func(v Value)
	collect = func(v Value) {
		switch v.kind {
		case KindLeaf:
			leaves = append(leaves, v.leaf)
		case KindTuple, KindRecord:
			for i := range v.items {
				collect(v.items[i])
			}
		}
	}
	collect(v)
	return leaves, def
}

// Unflatten rebuilds a value from leaves in Flatten order. Only the leaf
// count is checked against the def; leaf dtypes and shapes are taken as
// given, so transformed leaves slot back in.
func Unflatten(def Def, leaves []*tensor.Tensor) (Value, error) {
	v, rest, err := unflatten(def, leaves)
	if err != nil {
		return Value{}, err
	}
	if len(rest) != 0 {
		return Value{}, fmt.Errorf("%w: %d leaves left over", ErrLeafCount, len(rest))
	}
	return v, nil
}

func unflatten(def Def, leaves []*tensor.Tensor) (Value, []*tensor.Tensor, error) {
	switch def.kind {
	case KindLeaf:
		if len(leaves) == 0 {
			return Value{}, nil, fmt.Errorf("%w: ran out of leaves", ErrLeafCount)
		}
		if leaves[0] == nil {
			return Value{}, nil, ErrNilLeaf
		}
		return Leaf(leaves[0]), leaves[1:], nil
	case KindTuple:
		items := make([]Value, len(def.items))
		rest := leaves
		for i := range def.items {
			var err error
			items[i], rest, err = unflatten(def.items[i], rest)
			if err != nil {
				return Value{}, nil, err
			}
		}
		return Value{kind: KindTuple, items: items}, rest, nil
	case KindRecord:
		keys := make([]string, len(def.keys))
		copy(keys, def.keys)
		items := make([]Value, len(def.items))
		rest := leaves
		for i := range def.items {
			var err error
			items[i], rest, err = unflatten(def.items[i], rest)
			if err != nil {
				return Value{}, nil, err
			}
		}
		return Value{kind: KindRecord, keys: keys, items: items}, rest, nil
	default:
		return Value{}, nil, ErrInvalidDef
	}
}

// Map applies fn to every leaf and rebuilds the same structure around the
// results.
func Map(v Value, fn func(leaf *tensor.Tensor) (*tensor.Tensor, error)) (Value, error) {
	if err := v.Validate(); err != nil {
		return Value{}, err
	}
	leaves, def := Flatten(v)
	out := make([]*tensor.Tensor, len(leaves))
	for i, leaf := range leaves {
		mapped, err := fn(leaf)
		if err != nil {
			return Value{}, err
		}
		out[i] = mapped
	}
	return Unflatten(def, out)
}

// Map2 applies fn to paired leaves of two values with equal defs and rebuilds
// the shared structure around the results.
func Map2(a, b Value, fn func(al, bl *tensor.Tensor) (*tensor.Tensor, error)) (Value, error) {
	if err := a.Validate(); err != nil {
		return Value{}, err
	}
	if err := b.Validate(); err != nil {
		return Value{}, err
	}
	da, db := DefOf(a), DefOf(b)
	if !da.Equal(db) {
		return Value{}, fmt.Errorf("%w: %s vs %s", ErrDefMismatch, da, db)
	}
	la, _ := Flatten(a)
	lb, _ := Flatten(b)
	out := make([]*tensor.Tensor, len(la))
	for i := range la {
		mapped, err := fn(la[i], lb[i])
		if err != nil {
			return Value{}, err
		}
		out[i] = mapped
	}
	return Unflatten(da, out)
}
