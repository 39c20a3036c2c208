package resolve

import (
	"strings"

	"github.com/dhamidi/classgraph/classfile"
)

// Flags is the symbol flag set. The low bits share their positions with
// the JVM access flags; Varargs and Deprecated live above them.
type Flags uint32

const (
	Public         Flags = 0x0001
	Private        Flags = 0x0002
	Protected      Flags = 0x0004
	Static         Flags = 0x0008
	Final          Flags = 0x0010
	Synchronized   Flags = 0x0020
	Volatile       Flags = 0x0040
	Transient      Flags = 0x0080
	Native         Flags = 0x0100
	Interface      Flags = 0x0200
	Abstract       Flags = 0x0400
	Strictfp       Flags = 0x0800
	AnnotationType Flags = 0x2000
	Enum           Flags = 0x4000

	Varargs    Flags = 1 << 16
	Deprecated Flags = 1 << 17
)

// AccessFlags are the visibility bits.
const AccessFlags = Public | Private | Protected

const (
	typeFlags     = AccessFlags | Static | Final | Interface | Abstract | AnnotationType | Enum
	variableFlags = AccessFlags | Static | Final | Volatile | Transient | Enum
	methodFlags   = AccessFlags | Static | Final | Synchronized | Native | Abstract | Strictfp
)

// filterBytecodeFlags keeps the bits of access that mean something for a
// symbol of the given kind. Synthetic, bridge and the class ACC_SUPER bit
// never survive.
func filterBytecodeFlags(access classfile.AccessFlags, kind Kind) Flags {
	raw := Flags(access)
	switch kind {
	case KindType:
		return raw & typeFlags
	case KindVariable:
		return raw & variableFlags
	case KindMethod:
		flags := raw & methodFlags
		if access.IsVarargs() {
			flags |= Varargs
		}
		return flags
	}
	return 0
}

func (f Flags) Has(bits Flags) bool {
	return f&bits == bits
}

var flagNames = []struct {
	flag Flags
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
	{Transient, "transient"},
	{Volatile, "volatile"},
	{Synchronized, "synchronized"},
	{Native, "native"},
	{Strictfp, "strictfp"},
	{Interface, "interface"},
	{AnnotationType, "annotation"},
	{Enum, "enum"},
	{Varargs, "varargs"},
	{Deprecated, "deprecated"},
}

// String lists the set flags as Java modifiers in source order.
func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, " ")
}
