package tipset

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// ErrFrozen is the panic value raised when a [Builder] is written to after
// [Builder.Freeze] handed its contents to a [Set].
var ErrFrozen = errors.New("tipset: builder already frozen")

// empty backs the zero Set. It is only ever read.
var empty = roaring64.New()

// View is the read-only side shared by [Set] and [Builder].
type View interface {
	Contains(id uint64) bool
	Size() uint64
	bitmap() *roaring64.Bitmap
}

// Set is an immutable set of tip identifiers.
type Set struct {
	rb *roaring64.Bitmap
}

// Of returns a Set holding the given ids. Of() with no arguments returns an
// empty but non-zero Set.
func Of(ids ...uint64) Set {
	return Set{rb: roaring64.BitmapOf(ids...)}
}

// Union returns the union of all views as a new Set.
func Union(views ...View) Set {
	rb := roaring64.New()
	for _, v := range views {
		if v != nil {
			rb.Or(v.bitmap())
		}
	}
	return Set{rb: rb}
}

func (s Set) bitmap() *roaring64.Bitmap {
	if s.rb == nil {
		return empty
	}
	return s.rb
}

// IsZero reports whether s is the zero Set, as opposed to a Set that was
// constructed empty.
func (s Set) IsZero() bool { return s.rb == nil }

// IsEmpty reports whether s holds no ids.
func (s Set) IsEmpty() bool { return s.bitmap().IsEmpty() }

// Size returns the number of ids in s.
func (s Set) Size() uint64 { return s.bitmap().GetCardinality() }

// Contains reports whether id is in s.
func (s Set) Contains(id uint64) bool { return s.bitmap().Contains(id) }

// ContainsAll reports whether every id of other is in s.
func (s Set) ContainsAll(other View) bool { return containsAll(s.bitmap(), other.bitmap()) }

// Overlaps reports whether s and other share at least one id.
func (s Set) Overlaps(other View) bool { return s.bitmap().Intersects(other.bitmap()) }

// Equal reports whether s and other hold exactly the same ids.
func (s Set) Equal(other View) bool {
	o := other.bitmap()
	rb := s.bitmap()
	return rb.GetCardinality() == o.GetCardinality() && containsAll(rb, o)
}

// Union returns s ∪ other.
func (s Set) Union(other View) Set {
	rb := s.bitmap().Clone()
	rb.Or(other.bitmap())
	return Set{rb: rb}
}

// Intersect returns s ∩ other.
func (s Set) Intersect(other View) Set {
	rb := s.bitmap().Clone()
	rb.And(other.bitmap())
	return Set{rb: rb}
}

// Difference returns s \ other.
func (s Set) Difference(other View) Set {
	rb := s.bitmap().Clone()
	rb.AndNot(other.bitmap())
	return Set{rb: rb}
}

// IDs returns the ids of s in ascending order.
func (s Set) IDs() []uint64 { return s.bitmap().ToArray() }

// All iterates over the ids of s in ascending order.
func (s Set) All() iter.Seq[uint64] { return all(s.bitmap()) }

// Builder returns a new Builder seeded with the ids of s.
func (s Set) Builder() *Builder {
	return &Builder{rb: s.bitmap().Clone()}
}

// String renders s as "{1,2,3}".
func (s Set) String() string { return format(s.bitmap()) }

// MarshalJSON encodes s as a sorted array of ids.
func (s Set) MarshalJSON() ([]byte, error) {
	ids := s.IDs()
	if ids == nil {
		ids = []uint64{}
	}
	return json.Marshal(ids)
}

// UnmarshalJSON decodes an array of ids. A JSON null leaves s zero.
func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []uint64
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("tipset: %w", err)
	}
	if ids == nil {
		*s = Set{}
		return nil
	}
	*s = Of(ids...)
	return nil
}

// Builder accumulates tip ids. The zero value is ready to use.
type Builder struct {
	rb     *roaring64.Bitmap
	frozen bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{rb: roaring64.New()}
}

func (b *Builder) bitmap() *roaring64.Bitmap {
	if b.frozen {
		panic(ErrFrozen)
	}
	if b.rb == nil {
		b.rb = roaring64.New()
	}
	return b.rb
}

// Add inserts id.
func (b *Builder) Add(id uint64) *Builder {
	b.bitmap().Add(id)
	return b
}

// AddAll inserts every id of other.
func (b *Builder) AddAll(other View) *Builder {
	b.bitmap().Or(other.bitmap())
	return b
}

// Contains reports whether id has been added.
func (b *Builder) Contains(id uint64) bool { return b.bitmap().Contains(id) }

// ContainsAll reports whether every id of other has been added.
func (b *Builder) ContainsAll(other View) bool { return containsAll(b.bitmap(), other.bitmap()) }

// Overlaps reports whether b and other share at least one id.
func (b *Builder) Overlaps(other View) bool { return b.bitmap().Intersects(other.bitmap()) }

// Size returns the number of ids added so far.
func (b *Builder) Size() uint64 { return b.bitmap().GetCardinality() }

// Snapshot returns an immutable copy of the current contents. The builder
// remains writable.
func (b *Builder) Snapshot() Set {
	return Set{rb: b.bitmap().Clone()}
}

// Freeze hands the contents to a Set without copying. Any later write or
// read through b panics with [ErrFrozen].
func (b *Builder) Freeze() Set {
	rb := b.bitmap()
	b.rb = nil
	b.frozen = true
	rb.RunOptimize()
	return Set{rb: rb}
}

// String renders b as "{1,2,3}".
func (b *Builder) String() string { return format(b.bitmap()) }

func containsAll(rb, other *roaring64.Bitmap) bool {
	n := other.GetCardinality()
	if n == 0 {
		return true
	}
	return rb.AndCardinality(other) == n
}

func all(rb *roaring64.Bitmap) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

func format(rb *roaring64.Bitmap) string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for id := range all(rb) {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&sb, "%d", id)
	}
	sb.WriteByte('}')
	return sb.String()
}
