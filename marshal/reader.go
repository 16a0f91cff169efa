package marshal

import (
	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/errors"
	"github.com/wippyai/salience-go/internal/layout"
)

// maxDepth bounds recursion through nested topic lists.
const maxDepth = 32

// Reader reads native records out of engine memory. The first failure is
// kept and every later read returns a zero value, so walkers read a whole
// record and check Err once.
type Reader struct {
	mem   salience.Memory
	codec *codec.Codec
	err   error
	limit uint64
	depth int
}

// NewReader creates a reader decoding text with c.
func NewReader(mem salience.Memory, c *codec.Codec) *Reader {
	r := &Reader{mem: mem, codec: c, limit: 1 << 32}
	if s, ok := mem.(salience.MemorySizer); ok {
		r.limit = uint64(s.Size())
	}
	return r
}

// Err returns the first error encountered.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) readErr(rec *layout.Record, field string, cause error) {
	r.fail(errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
		Record(rec.Name).
		Path(field).
		Cause(cause).
		Build())
}

func (r *Reader) I32(base uint32, rec *layout.Record, field string) int32 {
	if r.err != nil {
		return 0
	}
	v, err := r.mem.ReadI32(base + rec.Offset(field))
	if err != nil {
		r.readErr(rec, field, err)
		return 0
	}
	return v
}

func (r *Reader) Int(base uint32, rec *layout.Record, field string) int {
	return int(r.I32(base, rec, field))
}

// Bool reads an int flag; any non-zero value is true.
func (r *Reader) Bool(base uint32, rec *layout.Record, field string) bool {
	return r.I32(base, rec, field) != 0
}

func (r *Reader) F32(base uint32, rec *layout.Record, field string) float32 {
	if r.err != nil {
		return 0
	}
	v, err := r.mem.ReadF32(base + rec.Offset(field))
	if err != nil {
		r.readErr(rec, field, err)
		return 0
	}
	return v
}

func (r *Reader) Ptr(base uint32, rec *layout.Record, field string) uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.mem.ReadU32(base + rec.Offset(field))
	if err != nil {
		r.readErr(rec, field, err)
		return 0
	}
	return v
}

// Str decodes the string the pointer field refers to. Null decodes to "".
func (r *Reader) Str(base uint32, rec *layout.Record, field string) string {
	return r.String(r.Ptr(base, rec, field))
}

// String decodes the NUL-terminated string at ptr.
func (r *Reader) String(ptr uint32) string {
	if r.err != nil || ptr == 0 {
		return ""
	}
	s, err := r.codec.ReadString(r.mem, ptr)
	if err != nil {
		r.fail(err)
		return ""
	}
	return s
}

// Fixed decodes an in-record character array of n bytes.
func (r *Reader) Fixed(base uint32, rec *layout.Record, field string, n uint32) string {
	if r.err != nil {
		return ""
	}
	s, err := r.codec.ReadFixed(r.mem, base+rec.Offset(field), n)
	if err != nil {
		r.fail(err)
		return ""
	}
	return s
}

// Array validates an array of n items of shape item starting at ptr and
// returns the usable count. A null pointer or a non-positive count is an
// empty array.
func (r *Reader) Array(ptr uint32, n int32, item *layout.Record) int {
	if r.err != nil || ptr == 0 || n <= 0 {
		return 0
	}
	end := uint64(ptr) + uint64(n)*uint64(item.Size())
	if end > r.limit {
		r.fail(errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Record(item.Name).
			Value(n).
			Detail("array of %d at %d exceeds memory", n, ptr).
			Build())
		return 0
	}
	return int(n)
}

// List reads the {pItems, nLength} pair embedded at field.
func (r *Reader) List(base uint32, rec *layout.Record, field string, list, item *layout.Record) (uint32, int) {
	at := base + rec.Offset(field)
	items := r.Ptr(at, list, layout.ListItems)
	n := r.Array(items, r.I32(at, list, layout.ListLength), item)
	return items, n
}

func (r *Reader) enter(rec *layout.Record) bool {
	if r.err != nil {
		return false
	}
	if r.depth >= maxDepth {
		r.fail(errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Record(rec.Name).
			Detail("nesting deeper than %d", maxDepth).
			Build())
		return false
	}
	r.depth++
	return true
}

func (r *Reader) leave() {
	r.depth--
}

// each walks n consecutive items of shape item starting at ptr. An empty
// array yields nil.
func each[T any](r *Reader, ptr uint32, n int, item *layout.Record, fn func(base uint32) T) []T {
	if n == 0 || r.err != nil {
		return nil
	}
	out := make([]T, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, fn(ptr+uint32(i)*item.Size()))
	}
	return out
}
