package resolve

import (
	"testing"

	"github.com/dhamidi/classgraph/classfile"
)

func TestFilterBytecodeFlags(t *testing.T) {
	tests := []struct {
		name   string
		access classfile.AccessFlags
		kind   Kind
		want   Flags
	}{
		{"class drops super", classfile.AccPublic | classfile.AccSuper | classfile.AccFinal, KindType, Public | Final},
		{"interface", classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract, KindType, Public | Interface | Abstract},
		{"annotation type", classfile.AccInterface | classfile.AccAbstract | classfile.AccAnnotation, KindType, Interface | Abstract | AnnotationType},
		{"enum constant", classfile.AccPublic | classfile.AccStatic | classfile.AccFinal | classfile.AccEnum, KindVariable, Public | Static | Final | Enum},
		{"transient field", classfile.AccPrivate | classfile.AccTransient, KindVariable, Private | Transient},
		{"varargs method", classfile.AccPublic | classfile.AccVarargs, KindMethod, Public | Varargs},
		{"bridge bit dropped", classfile.AccPublic | classfile.AccBridge | classfile.AccSynthetic, KindMethod, Public},
		{"synchronized native", classfile.AccSynchronized | classfile.AccNative, KindMethod, Synchronized | Native},
		{"synthetic field", classfile.AccSynthetic | classfile.AccFinal, KindVariable, Final},
		{"package", classfile.AccPublic, KindPackage, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterBytecodeFlags(tt.access, tt.kind); got != tt.want {
				t.Errorf("filterBytecodeFlags(%#x, %s) = %q, want %q", uint16(tt.access), tt.kind, got, tt.want)
			}
		})
	}
}

func TestFlagsString(t *testing.T) {
	f := Static | Public | Final | Deprecated
	if got, want := f.String(), "public static final deprecated"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Flags(0).String(); got != "" {
		t.Errorf("String() of no flags = %q, want empty", got)
	}
	if !f.Has(Public | Static) {
		t.Error("Has(Public|Static) = false")
	}
	if f.Has(Public | Private) {
		t.Error("Has(Public|Private) = true")
	}
}
