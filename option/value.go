package option

import (
	"fmt"
	"strconv"
)

// Kind is the value shape an option takes.
type Kind int

const (
	KindInt Kind = iota + 1
	KindBool
	KindFloat
	KindText
	// KindTextFlag pairs a text value with an integer flag.
	KindTextFlag
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindTextFlag:
		return "text+flag"
	default:
		return "invalid"
	}
}

// Value is one option value. The zero Value is invalid.
type Value struct {
	text string
	kind Kind
	n    int32
	f    float32
}

func Int(v int) Value {
	return Value{kind: KindInt, n: int32(v)}
}

func Bool(v bool) Value {
	var n int32
	if v {
		n = 1
	}
	return Value{kind: KindBool, n: n}
}

func Float(v float32) Value {
	return Value{kind: KindFloat, f: v}
}

func Text(v string) Value {
	return Value{kind: KindText, text: v}
}

// TextFlag is a text value with an auxiliary integer, such as a sentiment
// dictionary path and its reset flag.
func TextFlag(v string, flag int) Value {
	return Value{kind: KindTextFlag, text: v, n: int32(flag)}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsValid() bool  { return v.kind != 0 }
func (v Value) Int() int       { return int(v.n) }
func (v Value) Bool() bool     { return v.n != 0 }
func (v Value) Float() float32 { return v.f }
func (v Value) Text() string   { return v.text }

// Flag returns the integer paired with a text+flag value.
func (v Value) Flag() int { return int(v.n) }

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(int(v.n))
	case KindBool:
		return strconv.FormatBool(v.n != 0)
	case KindFloat:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case KindText:
		return strconv.Quote(v.text)
	case KindTextFlag:
		return fmt.Sprintf("%q/%d", v.text, v.n)
	default:
		return "<invalid>"
	}
}

// Coerce builds a value of kind from a decoded configuration value:
// integers, booleans, floats or strings as a TOML or JSON decoder
// produces them. flag is only used for KindTextFlag.
func Coerce(kind Kind, raw any, flag int) (Value, error) {
	switch kind {
	case KindInt:
		switch x := raw.(type) {
		case int:
			return Int(x), nil
		case int64:
			return Int(int(x)), nil
		case float64:
			if x == float64(int(x)) {
				return Int(int(x)), nil
			}
		}
	case KindBool:
		switch x := raw.(type) {
		case bool:
			return Bool(x), nil
		case int64:
			return Bool(x != 0), nil
		case int:
			return Bool(x != 0), nil
		}
	case KindFloat:
		switch x := raw.(type) {
		case float64:
			return Float(float32(x)), nil
		case float32:
			return Float(x), nil
		case int64:
			return Float(float32(x)), nil
		case int:
			return Float(float32(x)), nil
		}
	case KindText:
		if x, ok := raw.(string); ok {
			return Text(x), nil
		}
	case KindTextFlag:
		if x, ok := raw.(string); ok {
			return TextFlag(x, flag), nil
		}
	}
	return Value{}, fmt.Errorf("cannot use %v (%T) as %s option value", raw, raw, kind)
}
