// Package types defines the value types of the language and the
// type-compatibility and operator-operand matrices the checker
// enforces.
package types

import "fmt"

// Kind enumerates the closed set of base types.
type Kind int

const (
	Int Kind = iota
	Float
	Bool
	Str
	IntArray
)

// VarType is a fully resolved type: the Kind plus, for IntArray, its
// compile-time-fixed size.
type VarType struct {
	Kind Kind
	Size int32 // only meaningful when Kind == IntArray; always >= 1.
}

var (
	TInt   = VarType{Kind: Int}
	TFloat = VarType{Kind: Float}
	TBool  = VarType{Kind: Bool}
	TStr   = VarType{Kind: Str}
)

// NewIntArray builds an IntArray(size) type. size must be >= 1; the
// parser is responsible for rejecting non-positive literal sizes before
// this is ever called.
func NewIntArray(size int32) VarType {
	return VarType{Kind: IntArray, Size: size}
}

func (t VarType) String() string {
	switch t.Kind {
	case Int:
		return "integer"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Str:
		return "string"
	case IntArray:
		return fmt.Sprintf("integer[%d]", t.Size)
	default:
		return "unknown"
	}
}

func (t VarType) Equal(o VarType) bool {
	return t.Kind == o.Kind && (t.Kind != IntArray || t.Size == o.Size)
}

func (t VarType) IsNumeric() bool { return t.Kind == Int || t.Kind == Float }

// Assignable reports whether a value of type source may be assigned (or
// passed as a parameter) to a location of type target. Numeric and bool
// conversions are permissive (int/float/bool intermix, except that bool
// and float do not convert to each other in either direction);
// strings only accept strings; arrays only accept arrays of equal size.
func Assignable(target, source VarType) bool {
	switch target.Kind {
	case Int:
		return source.Kind == Int || source.Kind == Float || source.Kind == Bool
	case Float:
		return source.Kind == Int || source.Kind == Float
	case Bool:
		return source.Kind == Int || source.Kind == Bool
	case Str:
		return source.Kind == Str
	case IntArray:
		return source.Kind == IntArray && source.Size == target.Size
	default:
		return false
	}
}

// ArithOperandOK reports whether t is a legal operand of an arithmetic
// operator (+, -, *, /).
func ArithOperandOK(t VarType) bool { return t.Kind == Int || t.Kind == Float }

// LogicalOperandOK reports whether t is a legal operand of a bitwise
// logical operator (&, |, not): the logical operators work on integer
// bit patterns only.
func LogicalOperandOK(t VarType) bool { return t.Kind == Int }

// RelationalOperandOK reports whether t is a legal operand of a
// relational operator (<, <=, >, >=, ==, !=).
func RelationalOperandOK(t VarType) bool {
	return t.Kind == Int || t.Kind == Float || t.Kind == Bool
}

// ConditionOK reports whether t may be used as an if/for condition:
// Bool or Int only.
func ConditionOK(t VarType) bool { return t.Kind == Bool || t.Kind == Int }
