package resolve

import (
	"fmt"

	"github.com/dhamidi/classgraph/classfile"
)

type Kind int

const (
	KindPackage Kind = iota
	KindType
	KindMethod
	KindVariable
	KindTypeVariable
)

func (k Kind) String() string {
	switch k {
	case KindPackage:
		return "package"
	case KindType:
		return "type"
	case KindMethod:
		return "method"
	case KindVariable:
		return "variable"
	case KindTypeVariable:
		return "type variable"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type completionState int

const (
	unresolved completionState = iota
	completing
	complete
)

// Annotation is a class annotation with its type symbol. Enum and class
// element values keep their descriptors.
type Annotation struct {
	Symbol  *Symbol
	Visible bool
	Values  []classfile.AnnotationValue
}

// Symbol is a declaration: package, class, method, variable or type
// variable. Class symbols are completed lazily from their class file the
// first time an accessor needs structural information.
type Symbol struct {
	id     uint64
	kind   Kind
	name   string
	owner  *Symbol
	flags  Flags
	typ    Type
	params *Scope

	members      *Scope
	parametrized bool
	annotations  []Annotation

	// class and package symbols only
	flat       string
	binaryName string
	sourceFile string
	completer  *Completer
	state      completionState
	missing    bool
	loadErr    error
}

// ID is unique among the symbols of one Completer.
func (s *Symbol) ID() uint64 { return s.id }

func (s *Symbol) Kind() Kind { return s.kind }

// Name is the simple name. A class read before its outer class adopts the
// name recorded in its own inner-class metadata.
func (s *Symbol) Name() string { return s.name }

// FlatName is the dotted name for packages and classes, and owner.name for
// members.
func (s *Symbol) FlatName() string {
	switch s.kind {
	case KindPackage, KindType:
		if s.flat != "" || s.owner == nil {
			return s.flat
		}
	}
	if s.owner == nil || s.owner.FlatName() == "" {
		return s.name
	}
	return s.owner.FlatName() + "." + s.name
}

// BinaryName is the class file name the symbol was loaded from or first
// referenced as, when known.
func (s *Symbol) BinaryName() string { return s.binaryName }

// SourceFile is the source file name recorded in the class file, if any.
func (s *Symbol) SourceFile() string {
	s.complete()
	return s.sourceFile
}

func (s *Symbol) IsClass() bool { return s.kind == KindType && s.completer != nil }

func (s *Symbol) Owner() *Symbol {
	s.complete()
	return s.owner
}

func (s *Symbol) Flags() Flags {
	s.complete()
	return s.flags
}

// Type is the symbol's type: the class type for classes, the method type for
// methods, the declared type for variables. Packages and classes that could
// not be loaded answer Unknown.
func (s *Symbol) Type() Type {
	s.complete()
	if s.missing || s.typ == nil {
		return Unknown
	}
	return s.typ
}

// Members is never nil. Methods hold their parameters here.
func (s *Symbol) Members() *Scope {
	s.complete()
	if s.missing || s.members == nil {
		return NewScope(s)
	}
	return s.members
}

// TypeParameters is never nil.
func (s *Symbol) TypeParameters() *Scope {
	s.complete()
	if s.missing || s.params == nil {
		return NewScope(s)
	}
	return s.params
}

// IsParametrized reports own type parameters for classes and methods, and a
// type-variable declared type for fields.
func (s *Symbol) IsParametrized() bool {
	s.complete()
	return s.parametrized
}

// Superclass is nil only for java.lang.Object and non-class symbols.
func (s *Symbol) Superclass() Type {
	ct, ok := s.Type().(*ClassType)
	if !ok {
		if s.kind == KindType {
			return Unknown
		}
		return nil
	}
	return ct.Supertype()
}

func (s *Symbol) Interfaces() []Type {
	if ct, ok := s.Type().(*ClassType); ok {
		return ct.Interfaces()
	}
	return nil
}

func (s *Symbol) Annotations() []Annotation {
	s.complete()
	return s.annotations
}

// IsMissing reports a class whose class file could not be found or read.
func (s *Symbol) IsMissing() bool {
	s.complete()
	return s.missing
}

// IsComplete reports whether completion has finished, without triggering it.
func (s *Symbol) IsComplete() bool {
	return s.completer == nil || s.state == complete
}

// EnclosingClass returns the closest class owning s, or nil.
func (s *Symbol) EnclosingClass() *Symbol {
	for o := s.Owner(); o != nil; o = o.Owner() {
		if o.kind == KindType {
			return o
		}
		if o.kind == KindPackage {
			return nil
		}
	}
	return nil
}

func (s *Symbol) String() string {
	return s.kind.String() + " " + s.FlatName()
}

func (s *Symbol) complete() {
	if s.completer == nil || s.state != unresolved {
		return
	}
	s.completer.complete(s)
}
