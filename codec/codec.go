package codec

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/errors"
)

// Encoding selects the byte encoding used for text at the engine boundary.
type Encoding int

const (
	// UTF8 is the engine's default text encoding.
	UTF8 Encoding = iota
	// ANSI is the Windows-1252 code page used by legacy engine builds.
	ANSI
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case ANSI:
		return "windows-1252"
	default:
		return "unknown"
	}
}

// ParseEncoding maps a configuration name to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "", "utf8", "utf-8", "UTF-8":
		return UTF8, nil
	case "ansi", "ANSI", "windows-1252", "cp1252":
		return ANSI, nil
	default:
		return UTF8, errors.InvalidInput(errors.PhaseConfig, "unknown text encoding "+name)
	}
}

const (
	// MaxStringSize bounds a single string read from engine memory.
	MaxStringSize = 1 << 30
	scanChunk     = 256
)

// Codec converts between Go strings and NUL-terminated byte buffers.
type Codec struct {
	enc encoding.Encoding
	id  Encoding
}

// New creates a codec for the given boundary encoding.
func New(id Encoding) *Codec {
	var enc encoding.Encoding = unicode.UTF8
	if id == ANSI {
		enc = charmap.Windows1252
	}
	return &Codec{enc: enc, id: id}
}

func (c *Codec) Encoding() Encoding {
	return c.id
}

// Encode returns s in the boundary encoding followed by a NUL byte.
// Characters the encoding cannot represent are replaced.
func (c *Codec) Encode(s string) ([]byte, error) {
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return nil, errors.InvalidInput(errors.PhaseEncode, "text contains a NUL byte")
	}
	out, err := encoding.ReplaceUnsupported(c.enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, errors.Encoding(errors.PhaseEncode, err)
	}
	return append(out, 0), nil
}

// Decode converts boundary bytes, without the terminator, to a Go string.
// Invalid sequences decode to U+FFFD.
func (c *Codec) Decode(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Encoding(errors.PhaseDecode, err)
	}
	return string(out), nil
}

// ReadString decodes the NUL-terminated string at ptr. A null pointer
// decodes to the empty string.
func (c *Codec) ReadString(mem salience.Memory, ptr uint32) (string, error) {
	if ptr == 0 {
		return "", nil
	}
	raw, err := scan(mem, ptr)
	if err != nil {
		return "", err
	}
	return c.Decode(raw)
}

// ReadFixed decodes a fixed-size character array of n bytes, stopping at
// the first NUL.
func (c *Codec) ReadFixed(mem salience.Memory, ptr, n uint32) (string, error) {
	raw, err := mem.Read(ptr, n)
	if err != nil {
		return "", errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read fixed string")
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return c.Decode(raw)
}

// WriteString copies s into a fresh engine buffer and records the buffer
// in list. The returned pointer stays valid until list is freed.
func (c *Codec) WriteString(mem salience.Memory, alloc salience.Allocator, list *AllocationList, s string) (uint32, error) {
	data, err := c.Encode(s)
	if err != nil {
		return 0, err
	}
	size := uint32(len(data))
	ptr, err := list.Alloc(alloc, size, 1)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindAllocation, err, "allocate string")
	}
	if err := mem.Write(ptr, data); err != nil {
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write string")
	}
	return ptr, nil
}

// WriteFixed stores s into a fixed-size character array of n bytes,
// truncating so the terminator always fits.
func (c *Codec) WriteFixed(mem salience.Memory, ptr, n uint32, s string) error {
	if n == 0 {
		return nil
	}
	data, err := c.Encode(s)
	if err != nil {
		return err
	}
	if uint32(len(data)) > n {
		data = append(data[:n-1], 0)
	}
	if err := mem.Write(ptr, data); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write fixed string")
	}
	return nil
}

func scan(mem salience.Memory, ptr uint32) ([]byte, error) {
	var out []byte
	off := ptr
	for {
		n := uint32(scanChunk)
		if sizer, ok := mem.(salience.MemorySizer); ok {
			size := sizer.Size()
			if off >= size {
				return nil, errors.OutOfBounds(errors.PhaseDecode, nil, off, 1)
			}
			if size-off < n {
				n = size - off
			}
		}
		chunk, err := mem.Read(off, n)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read string")
		}
		if i := bytes.IndexByte(chunk, 0); i >= 0 {
			return append(out, chunk[:i]...), nil
		}
		out = append(out, chunk...)
		if len(out) > MaxStringSize {
			return nil, errors.InvalidData(errors.PhaseDecode, nil, "unterminated string")
		}
		off += n
	}
}
