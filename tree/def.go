package tree

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/gradloop/gradloop/tensor"
)

// Def describes the container structure, leaf dtypes, and leaf shapes of a
// Value without carrying its data. Two values are interchangeable inside a
// loop exactly when their defs are equal.
type Def struct {
	kind  Kind
	dtype tensor.DType
	shape tensor.Shape
	keys  []string
	items []Def
}

// DefOf extracts the def of a value. Invalid values yield the zero Def.
func DefOf(v Value) Def {
	switch v.kind {
	case KindLeaf:
		if v.leaf == nil {
			return Def{}
		}
		return Def{kind: KindLeaf, dtype: v.leaf.DType(), shape: v.leaf.Shape()}
	case KindTuple:
		items := make([]Def, len(v.items))
		for i := range v.items {
			items[i] = DefOf(v.items[i])
		}
		return Def{kind: KindTuple, items: items}
	case KindRecord:
		keys := make([]string, len(v.keys))
		copy(keys, v.keys)
		items := make([]Def, len(v.items))
		for i := range v.items {
			items[i] = DefOf(v.items[i])
		}
		return Def{kind: KindRecord, keys: keys, items: items}
	default:
		return Def{}
	}
}

// Kind returns what the described node holds.
func (d Def) Kind() Kind { return d.kind }

// NumLeaves returns how many leaves the def describes.
func (d Def) NumLeaves() int {
	switch d.kind {
	case KindLeaf:
		return 1
	case KindTuple, KindRecord:
		n := 0
		for _, item := range d.items {
			n += item.NumLeaves()
		}
		return n
	default:
		return 0
	}
}

// Equal reports whether both defs describe the same structure, leaf dtypes,
// and leaf shapes.
func (d Def) Equal(other Def) bool {
	if d.kind != other.kind {
		return false
	}
	switch d.kind {
	case KindLeaf:
		return d.dtype == other.dtype && d.shape.Equal(other.shape)
	case KindTuple:
		if len(d.items) != len(other.items) {
			return false
		}
		for i := range d.items {
			if !d.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(d.keys) != len(other.keys) {
			return false
		}
		for i := range d.keys {
			if d.keys[i] != other.keys[i] || !d.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Fingerprint hashes the def into a 64-bit digest. Equal defs share a
// fingerprint, so it serves as a cheap structure check inside hot loops.
func (d Def) Fingerprint() uint64 {
	h := xxhash.New()
	d.encode(h)
	return h.Sum64()
}

func (d Def) encode(h *xxhash.Digest) {
	var buf [binary.MaxVarintLen64]byte
	uvarint := func(v uint64) {
		n := binary.PutUvarint(buf[:], v)
		h.Write(buf[:n])
	}
	switch d.kind {
	case KindLeaf:
		h.Write([]byte{'L', byte(d.dtype)})
		uvarint(uint64(len(d.shape)))
		for _, dim := range d.shape {
			uvarint(uint64(dim))
		}
	case KindTuple:
		h.Write([]byte{'T'})
		uvarint(uint64(len(d.items)))
		for _, item := range d.items {
			item.encode(h)
		}
	case KindRecord:
		h.Write([]byte{'R'})
		uvarint(uint64(len(d.keys)))
		for i, key := range d.keys {
			uvarint(uint64(len(key)))
			h.WriteString(key)
			d.items[i].encode(h)
		}
	default:
		h.Write([]byte{'?'})
	}
}

// String renders the def as a compact signature, such as
// "(float64[], {v: int64[2]})".
func (d Def) String() string {
	var b strings.Builder
	d.format(&b)
	return b.String()
}

func (d Def) format(b *strings.Builder) {
	switch d.kind {
	case KindLeaf:
		b.WriteString(d.dtype.String())
		b.WriteString(d.shape.String())
	case KindTuple:
		b.WriteString("(")
		for i, item := range d.items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.format(b)
		}
		b.WriteString(")")
	case KindRecord:
		b.WriteString("{")
		for i, key := range d.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(key)
			b.WriteString(": ")
			d.items[i].format(b)
		}
		b.WriteString("}")
	default:
		b.WriteString("<invalid>")
	}
}
