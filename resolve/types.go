package resolve

import (
	"strconv"
	"strings"
)

type TypeTag int

const (
	TagUnknown TypeTag = iota
	TagPrimitive
	TagClass
	TagArray
	TagTypeVariable
	TagMethod
)

func (t TypeTag) String() string {
	switch t {
	case TagPrimitive:
		return "primitive"
	case TagClass:
		return "class"
	case TagArray:
		return "array"
	case TagTypeVariable:
		return "type variable"
	case TagMethod:
		return "method"
	}
	return "unknown"
}

// Type is one of *PrimitiveType, *ClassType, *ArrayType, *TypeVariableType,
// *MethodType or Unknown.
type Type interface {
	Tag() TypeTag
	// Symbol is never nil. Unknown answers a placeholder symbol.
	Symbol() *Symbol
	String() string

	// key identifies the type structurally for the parametrized type cache.
	key() string
}

// IsUnknown reports whether t is nil or Unknown.
func IsUnknown(t Type) bool {
	return t == nil || t.Tag() == TagUnknown
}

type PrimitiveKind int

const (
	Byte PrimitiveKind = iota
	Char
	Short
	Int
	Long
	Float
	Double
	Boolean
	Void
)

var primitiveNames = [...]string{"byte", "char", "short", "int", "long", "float", "double", "boolean", "void"}

func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveNames) {
		return primitiveNames[k]
	}
	return "PrimitiveKind(" + strconv.Itoa(int(k)) + ")"
}

type PrimitiveType struct {
	kind PrimitiveKind
	sym  *Symbol
}

func (t *PrimitiveType) Tag() TypeTag        { return TagPrimitive }
func (t *PrimitiveType) Symbol() *Symbol     { return t.sym }
func (t *PrimitiveType) Kind() PrimitiveKind { return t.kind }
func (t *PrimitiveType) String() string      { return t.kind.String() }
func (t *PrimitiveType) key() string         { return t.kind.String() }

// ClassType is either the erased type of a class symbol, one per symbol, or
// a parametrized instance handed out by the ParametrizedTypeCache. A
// parametrized instance shares supertype and interfaces with its erasure.
type ClassType struct {
	sym        *Symbol
	supertype  Type
	interfaces []Type

	erasure *ClassType
	subst   Substitution
}

func (t *ClassType) Tag() TypeTag    { return TagClass }
func (t *ClassType) Symbol() *Symbol { return t.sym }

// Supertype completes the class. It is nil for java.lang.Object and Unknown
// for classes that could not be loaded.
func (t *ClassType) Supertype() Type {
	if t.erasure != nil {
		return t.erasure.Supertype()
	}
	t.sym.complete()
	if t.sym.missing {
		return Unknown
	}
	return t.supertype
}

func (t *ClassType) Interfaces() []Type {
	if t.erasure != nil {
		return t.erasure.Interfaces()
	}
	t.sym.complete()
	if t.sym.missing {
		return nil
	}
	return t.interfaces
}

// TypeArguments is empty unless the type is parametrized.
func (t *ClassType) TypeArguments() []Type {
	return t.subst.args
}

func (t *ClassType) IsParametrized() bool {
	return t.erasure != nil
}

func (t *ClassType) Substitution() Substitution {
	return t.subst
}

// Erasure returns the unparametrized type of the class.
func (t *ClassType) Erasure() *ClassType {
	if t.erasure != nil {
		return t.erasure
	}
	return t
}

func (t *ClassType) String() string {
	if t.erasure == nil {
		return t.sym.FlatName()
	}
	return t.sym.FlatName() + "<" + joinTypes(t.subst.args, ",") + ">"
}

func (t *ClassType) key() string {
	k := "L" + strconv.FormatUint(t.sym.id, 10)
	if t.erasure != nil {
		k += "<" + t.subst.key() + ">"
	}
	return k
}

type ArrayType struct {
	elem Type
	sym  *Symbol
}

func (t *ArrayType) Tag() TypeTag    { return TagArray }
func (t *ArrayType) Symbol() *Symbol { return t.sym }
func (t *ArrayType) Element() Type   { return t.elem }
func (t *ArrayType) String() string  { return t.elem.String() + "[]" }
func (t *ArrayType) key() string     { return "[" + t.elem.key() }

// TypeVariableType is the type of a type parameter. Bounds default to
// java.lang.Object.
type TypeVariableType struct {
	sym    *Symbol
	bounds []Type
}

func (t *TypeVariableType) Tag() TypeTag    { return TagTypeVariable }
func (t *TypeVariableType) Symbol() *Symbol { return t.sym }
func (t *TypeVariableType) Bounds() []Type  { return t.bounds }
func (t *TypeVariableType) String() string  { return t.sym.name }
func (t *TypeVariableType) key() string     { return "T" + strconv.FormatUint(t.sym.id, 10) }

type MethodType struct {
	args   []Type
	result Type
	thrown []Type
	owner  *Symbol
}

func (t *MethodType) Tag() TypeTag        { return TagMethod }
func (t *MethodType) Symbol() *Symbol     { return t.owner }
func (t *MethodType) ArgTypes() []Type    { return t.args }
func (t *MethodType) ResultType() Type    { return t.result }
func (t *MethodType) ThrownTypes() []Type { return t.thrown }

func (t *MethodType) String() string {
	return "(" + joinTypes(t.args, ",") + ")" + t.result.String()
}

func (t *MethodType) key() string {
	var sb strings.Builder
	sb.WriteString("(")
	for _, a := range t.args {
		sb.WriteString(a.key())
		sb.WriteString(";")
	}
	sb.WriteString(")")
	sb.WriteString(t.result.key())
	return sb.String()
}

type unknownType struct{}

func (unknownType) Tag() TypeTag    { return TagUnknown }
func (unknownType) Symbol() *Symbol { return unknownSymbol }
func (unknownType) String() string  { return "!unknown!" }
func (unknownType) key() string     { return "?" }

// Unknown stands for types that could not be resolved. Every query on it
// answers empty or Unknown.
var Unknown Type = unknownType{}

var unknownSymbol = &Symbol{
	kind:    KindType,
	name:    "!unknown!",
	flat:    "!unknown!",
	flags:   Public,
	members: &Scope{byName: map[string][]*Symbol{}},
	params:  &Scope{byName: map[string][]*Symbol{}},
	missing: true,
}

func joinTypes(types []Type, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}
