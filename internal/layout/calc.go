package layout

import (
	"go.bytecodealliance.org/wit"
)

// Info is the size, alignment and field offsets of a native type.
type Info struct {
	// Offsets is keyed by field name; nil for scalars and tuples.
	Offsets map[string]uint32
	Size    uint32
	Align   uint32
}

// Calculator computes wasm32 C struct layouts for WIT-described records.
// Pointers are declared as u32 and fixed character arrays as tuples of
// u8, so each maps onto the C layout rules: members at their natural
// alignment, the struct padded to its widest member.
type Calculator struct {
	cache map[*wit.TypeDef]Info
}

func NewCalculator() *Calculator {
	return &Calculator{cache: make(map[*wit.TypeDef]Info)}
}

var scalar = Info{Align: 1}

func (c *Calculator) Calculate(t wit.Type) Info {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return Info{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return Info{Size: 2, Align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return Info{Size: 4, Align: 4}
	case wit.U64, wit.S64, wit.F64:
		return Info{Size: 8, Align: 8}
	case *wit.TypeDef:
		if info, ok := c.cache[typ]; ok {
			return info
		}
		info := c.typeDef(typ)
		c.cache[typ] = info
		return info
	}
	return scalar
}

func (c *Calculator) typeDef(t *wit.TypeDef) Info {
	switch kind := t.Kind.(type) {
	case *wit.Record:
		names := make([]string, len(kind.Fields))
		types := make([]wit.Type, len(kind.Fields))
		for i, f := range kind.Fields {
			names[i], types[i] = f.Name, f.Type
		}
		return c.sequence(types, names)
	case *wit.Tuple:
		return c.sequence(kind.Types, nil)
	case wit.Type:
		return c.Calculate(kind)
	}
	return scalar
}

// sequence lays members out in declaration order. When names is given,
// each member's offset is recorded under its name.
func (c *Calculator) sequence(types []wit.Type, names []string) Info {
	if len(types) == 0 {
		return scalar
	}
	out := Info{Align: 1}
	if names != nil {
		out.Offsets = make(map[string]uint32, len(names))
	}
	var off uint32
	for i, t := range types {
		m := c.Calculate(t)
		off = AlignTo(off, m.Align)
		if names != nil {
			out.Offsets[names[i]] = off
		}
		off += m.Size
		out.Align = max(out.Align, m.Align)
	}
	out.Size = AlignTo(off, out.Align)
	return out
}

// AlignTo rounds offset up to a multiple of align, a power of two.
func AlignTo(offset, align uint32) uint32 {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
