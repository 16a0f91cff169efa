package codec_test

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine/enginetest"
	"github.com/wippyai/salience-go/errors"
)

func kindOf(err error) errors.Kind {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		name    string
		want    codec.Encoding
		wantErr bool
	}{
		{"", codec.UTF8, false},
		{"utf-8", codec.UTF8, false},
		{"UTF-8", codec.UTF8, false},
		{"windows-1252", codec.ANSI, false},
		{"cp1252", codec.ANSI, false},
		{"latin9", codec.UTF8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.ParseEncoding(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && kindOf(err) != errors.KindInvalidInput {
				t.Errorf("kind = %s, want invalid_input", kindOf(err))
			}
			if got != tt.want {
				t.Errorf("ParseEncoding(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		enc  codec.Encoding
		in   string
		want []byte
	}{
		{"utf8 ascii", codec.UTF8, "Paris", []byte("Paris\x00")},
		{"utf8 accent", codec.UTF8, "café", []byte("caf\xc3\xa9\x00")},
		{"utf8 empty", codec.UTF8, "", []byte{0}},
		{"ansi accent", codec.ANSI, "café", []byte("caf\xe9\x00")},
		{"ansi euro", codec.ANSI, "€5", []byte("\x805\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.New(tt.enc).Encode(tt.in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode_Unrepresentable(t *testing.T) {
	got, err := codec.New(codec.ANSI).Encode("日")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(got) != 2 || got[1] != 0 {
		t.Errorf("Encode = %q, want one replacement byte and the terminator", got)
	}
}

func TestEncode_RejectsNUL(t *testing.T) {
	_, err := codec.New(codec.UTF8).Encode("a\x00b")
	if kindOf(err) != errors.KindInvalidInput {
		t.Fatalf("err = %v, want invalid_input", err)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		enc  codec.Encoding
		in   []byte
		want string
	}{
		{"utf8", codec.UTF8, []byte("caf\xc3\xa9"), "café"},
		{"ansi", codec.ANSI, []byte("caf\xe9 \x80"), "café €"},
		{"empty", codec.ANSI, nil, ""},
		{"invalid utf8", codec.UTF8, []byte{'a', 0xff}, "a�"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.New(tt.enc).Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteReadString(t *testing.T) {
	arena := enginetest.NewArena(1 << 12)
	c := codec.New(codec.UTF8)
	list := codec.NewAllocationList()

	ptr, err := c.WriteString(arena, arena, list, "Salience über alles")
	if err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if list.Count() != 1 {
		t.Fatalf("allocations = %d, want 1", list.Count())
	}
	got, err := c.ReadString(arena, ptr)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "Salience über alles" {
		t.Errorf("ReadString = %q", got)
	}

	list.FreeAndRelease(arena)
	if arena.Live() != 0 {
		t.Errorf("live blocks = %d after free", arena.Live())
	}
}

func TestReadString_Null(t *testing.T) {
	got, err := codec.New(codec.UTF8).ReadString(enginetest.NewArena(64), 0)
	if err != nil || got != "" {
		t.Errorf("ReadString(0) = %q, %v; want empty", got, err)
	}
}

func TestReadString_LongerThanChunk(t *testing.T) {
	arena := enginetest.NewArena(1 << 12)
	long := bytes.Repeat([]byte("x"), 700)
	ptr, _ := arena.Alloc(uint32(len(long))+1, 1)
	if err := arena.Write(ptr, append(long, 0)); err != nil {
		t.Fatal(err)
	}
	got, err := codec.New(codec.UTF8).ReadString(arena, ptr)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if len(got) != 700 {
		t.Errorf("len = %d, want 700", len(got))
	}
}

func TestReadString_Unterminated(t *testing.T) {
	arena := enginetest.NewArena(32)
	if err := arena.Write(16, bytes.Repeat([]byte("y"), 16)); err != nil {
		t.Fatal(err)
	}
	_, err := codec.New(codec.UTF8).ReadString(arena, 16)
	if kindOf(err) != errors.KindOutOfBounds {
		t.Fatalf("err = %v, want out_of_bounds", err)
	}
}

func TestFixed(t *testing.T) {
	arena := enginetest.NewArena(256)
	c := codec.New(codec.UTF8)

	tests := []struct {
		name string
		n    uint32
		in   string
		want string
	}{
		{"fits", 16, "data", "data"},
		{"exact", 5, "data", "data"},
		{"truncated", 4, "abcdef", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ptr, _ := arena.Alloc(tt.n, 1)
			if err := c.WriteFixed(arena, ptr, tt.n, tt.in); err != nil {
				t.Fatalf("WriteFixed: %v", err)
			}
			got, err := c.ReadFixed(arena, ptr, tt.n)
			if err != nil {
				t.Fatalf("ReadFixed: %v", err)
			}
			if got != tt.want {
				t.Errorf("round trip = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllocationList(t *testing.T) {
	arena := enginetest.NewArena(1 << 10)
	list := codec.NewAllocationList()
	defer list.Release()

	for _, size := range []uint32{8, 24, 4} {
		if _, err := list.Alloc(arena, size, 4); err != nil {
			t.Fatalf("Alloc(%d): %v", size, err)
		}
	}
	if list.Count() != 3 || arena.Live() != 3 {
		t.Fatalf("count = %d, live = %d; want 3, 3", list.Count(), arena.Live())
	}

	list.Free(arena)
	if list.Count() != 0 || arena.Live() != 0 {
		t.Errorf("after Free: count = %d, live = %d", list.Count(), arena.Live())
	}
	if arena.BadFrees() != 0 {
		t.Errorf("bad frees = %d", arena.BadFrees())
	}

	list.Free(nil)
}
