package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is an operand: a reference to an SSA register, a global, a
// function parameter, or a materialized constant. It carries its own
// type so the lowerer's expression code never has to thread a separate
// type alongside every value it builds.
type Value struct {
	Repr string // textual form as it appears in an instruction, e.g. "%t3", "@g_count", "42", "1.0"
	Ty   *Type
}

func (v Value) String() string { return v.Repr }

// ConstInt builds a constant i32 (or other integer-kind) value.
func ConstInt(n int64, ty *Type) Value {
	return Value{Repr: strconv.FormatInt(n, 10), Ty: ty}
}

// ConstFloat builds a constant floating-point value.
func ConstFloat(f float64, ty *Type) Value {
	return Value{Repr: strconv.FormatFloat(f, 'e', 6, 64), Ty: ty}
}

// ConstBool builds a constant i1 value.
func ConstBool(b bool) Value {
	if b {
		return Value{Repr: "true", Ty: TI1}
	}
	return Value{Repr: "false", Ty: TI1}
}

// ConstString renders str (already the 65-byte padded form the scanner
// produced) as an IR string-array constant literal.
func ConstString(str string) Value {
	var sb strings.Builder
	sb.WriteByte('c')
	sb.WriteByte('"')
	for i := 0; i < len(str); i++ {
		fmt.Fprintf(&sb, "\\%02X", str[i])
	}
	sb.WriteByte('"')
	return Value{Repr: sb.String(), Ty: StringType()}
}

// ZeroValue returns the zero-initializer literal for ty, used for every
// global and every local's entry-block store.
func ZeroValue(ty *Type) Value {
	switch ty.Kind {
	case I1:
		return Value{Repr: "false", Ty: ty}
	case I8, I32:
		return Value{Repr: "0", Ty: ty}
	case F32, F64:
		return Value{Repr: "0.0", Ty: ty}
	case Array:
		return Value{Repr: "zeroinitializer", Ty: ty}
	default:
		return Value{Repr: "zeroinitializer", Ty: ty}
	}
}
