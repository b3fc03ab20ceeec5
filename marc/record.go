package marc

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Record is an ordered sequence of fields plus a leader. The field slice is
// authoritative; the tag index is rebuilt from it on the next indexed read
// after any structural change.
//
// Records are not safe for concurrent mutation. Once frozen, a record is
// read-only and safe to share between goroutines.
type Record struct {
	leader Leader
	fields []Field

	index  map[string][]int
	dirty  bool
	frozen bool
}

func NewRecord() *Record {
	return &Record{
		leader: defaultLeader,
		dirty:  true,
	}
}

func (r *Record) Leader() Leader {
	return r.leader
}

func (r *Record) SetLeader(l Leader) error {
	if r.frozen {
		return ErrFrozen
	}
	r.leader = l
	return nil
}

func (r *Record) Append(fields ...Field) error {
	if r.frozen {
		return ErrFrozen
	}
	for _, f := range fields {
		if f == nil {
			return errors.New("cannot append nil field")
		}
	}
	r.fields = append(r.fields, fields...)
	r.dirty = true
	return nil
}

// Fields returns the live field sequence. Callers may edit it in place, so
// the tag index is invalidated. Frozen records hand out a copy instead.
func (r *Record) Fields() []Field {
	if r.frozen {
		out := make([]Field, len(r.fields))
		copy(out, r.fields)
		return out
	}
	r.dirty = true
	return r.fields
}

func (r *Record) Len() int {
	return len(r.fields)
}

// FieldsByTag returns every field carrying one of the given tags, in
// document order.
func (r *Record) FieldsByTag(tags ...string) []Field {
	r.reindex()
	var positions []int
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = padTag(tag)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		positions = append(positions, r.index[tag]...)
	}
	return r.collect(positions)
}

// FieldsInRange returns fields whose tag sorts between lo and hi inclusive,
// in document order.
func (r *Record) FieldsInRange(lo, hi string) []Field {
	r.reindex()
	lo, hi = padTag(lo), padTag(hi)
	var positions []int
	for tag, pos := range r.index {
		if strings.Compare(tag, lo) >= 0 && strings.Compare(tag, hi) <= 0 {
			positions = append(positions, pos...)
		}
	}
	return r.collect(positions)
}

// Get returns the first field with the given tag, or nil.
func (r *Record) Get(tag string) Field {
	r.reindex()
	pos := r.index[padTag(tag)]
	if len(pos) == 0 {
		return nil
	}
	return r.fields[pos[0]]
}

// Tags lists the distinct tags in order of first occurrence.
func (r *Record) Tags() []string {
	r.reindex()
	out := make([]string, 0, len(r.index))
	seen := make(map[string]bool, len(r.index))
	for _, f := range r.fields {
		if !seen[f.Tag()] {
			seen[f.Tag()] = true
			out = append(out, f.Tag())
		}
	}
	return out
}

// Remove deletes every occurrence of the given field value (by identity)
// and reports how many were removed.
func (r *Record) Remove(field Field) (int, error) {
	if r.frozen {
		return 0, ErrFrozen
	}
	return r.filter(func(f Field) bool {
		return f == field
	}), nil
}

func (r *Record) RemoveTag(tags ...string) (int, error) {
	if r.frozen {
		return 0, ErrFrozen
	}
	drop := make(map[string]bool, len(tags))
	for _, tag := range tags {
		drop[padTag(tag)] = true
	}
	return r.filter(func(f Field) bool {
		return drop[f.Tag()]
	}), nil
}

func (r *Record) RemoveAt(i int) (Field, error) {
	if r.frozen {
		return nil, ErrFrozen
	}
	if i < 0 || i >= len(r.fields) {
		return nil, errors.Wrapf(ErrFieldMissing, "position %d out of range [0,%d)", i, len(r.fields))
	}
	f := r.fields[i]
	r.fields = append(r.fields[:i], r.fields[i+1:]...)
	r.dirty = true
	return f, nil
}

// Freeze rebuilds the tag index and makes the record read-only.
func (r *Record) Freeze() *Record {
	if r.frozen {
		return r
	}
	r.dirty = true
	r.reindex()
	r.frozen = true
	return r
}

func (r *Record) Frozen() bool {
	return r.frozen
}

// Equals compares leaders and fields structurally.
func (r *Record) Equals(other *Record) bool {
	if other == nil {
		return false
	}
	return r.leader == other.leader && FieldsEqual(r.fields, other.fields)
}

func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString("LDR ")
	sb.WriteString(r.leader.String())
	for _, f := range r.fields {
		sb.WriteByte('\n')
		sb.WriteString(f.String())
	}
	return sb.String()
}

func FieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

func (r *Record) reindex() {
	if !r.dirty {
		return
	}
	index := make(map[string][]int)
	for i, f := range r.fields {
		index[f.Tag()] = append(index[f.Tag()], i)
	}
	r.index = index
	r.dirty = false
}

func (r *Record) collect(positions []int) []Field {
	if len(positions) == 0 {
		return nil
	}
	sort.Ints(positions)
	out := make([]Field, len(positions))
	for i, pos := range positions {
		out[i] = r.fields[pos]
	}
	return out
}

func (r *Record) filter(drop func(Field) bool) int {
	kept := r.fields[:0]
	var removed int
	for _, f := range r.fields {
		if drop(f) {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	for i := len(kept); i < len(r.fields); i++ {
		r.fields[i] = nil
	}
	r.fields = kept
	r.dirty = true
	return removed
}
