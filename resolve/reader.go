package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/classgraph/classfile"
)

// bytecodeReader fills one class symbol from the events of its class file.
type bytecodeReader struct {
	c      *Completer
	class  *Symbol
	header classfile.Header

	// the class signature is read at the first member or end event, once
	// inner-class metadata has set the owner chain used for type variables
	signatureRead bool

	// set for anonymous and local classes, which no scope may list
	unlinked bool
}

func newBytecodeReader(c *Completer, class *Symbol) *bytecodeReader {
	return &bytecodeReader{c: c, class: class}
}

func (r *bytecodeReader) VisitHeader(h classfile.Header) error {
	if !strings.HasSuffix(h.Name, r.class.name) {
		return internalErrorf(r.class, "header", "class file defines %s", h.Name)
	}
	if h.Access.IsSynthetic() {
		return internalErrorf(r.class, "header", "synthetic class %s", h.Name)
	}

	flags := filterBytecodeFlags(h.Access, KindType)
	if h.Deprecated {
		flags |= Deprecated
	}
	if r.class.flags&AccessFlags != 0 {
		r.class.flags |= flags &^ AccessFlags
	} else {
		r.class.flags = flags
	}

	r.class.members = NewScope(r.class)
	r.class.params = NewScope(r.class)
	r.class.sourceFile = h.SourceFile
	r.header = h
	return nil
}

func (r *bytecodeReader) VisitAnnotation(a classfile.AnnotationEntry) error {
	if r.c.err != nil {
		return r.c.err
	}
	ft, err := classfile.ParseFieldDescriptor(a.Descriptor)
	if err != nil || ft.ClassName == "" || ft.ArrayDepth > 0 {
		return fmt.Errorf("annotation type %q: not a class descriptor", a.Descriptor)
	}
	r.class.annotations = append(r.class.annotations, Annotation{
		Symbol:  r.c.classSymbol(ft.ClassName, 0),
		Visible: a.Visible,
		Values:  a.Values,
	})
	return nil
}

func (r *bytecodeReader) VisitInnerClass(ic classfile.InnerClassEntry) error {
	if r.c.err != nil {
		return r.c.err
	}
	if ic.Name == r.header.Name && (ic.InnerName == "" || ic.OuterName == "") {
		r.unlinked = true
		return nil
	}
	switch {
	case ic.Access.IsSynthetic():
		return nil
	case ic.InnerName == "":
		// anonymous
		return nil
	case ic.OuterName == "":
		// local to a method body
		return nil
	case ic.OuterName == r.header.Name:
		return r.defineInnerClass(ic.Name, filterBytecodeFlags(ic.Access, KindType))
	case ic.Name == r.header.Name:
		r.defineOuterClass(ic.OuterName, ic.InnerName, filterBytecodeFlags(ic.Access, KindType))
	}
	return nil
}

func (r *bytecodeReader) defineInnerClass(binary string, flags Flags) error {
	inner := r.c.classSymbol(binary, flags)
	inner.flags |= flags
	switch {
	case inner.owner == nil:
		inner.owner = r.class
	case inner.owner == r.class:
	case inner.missing:
		inner.owner = r.class
	default:
		return internalErrorf(r.class, "inner class", "%s is already owned by %s", inner.flat, inner.owner.FlatName())
	}
	r.class.members.Enter(inner)
	return nil
}

func (r *bytecodeReader) defineOuterClass(outerBinary, innerName string, flags Flags) {
	outer := r.c.classSymbol(outerBinary, 0)
	r.class.name = innerName
	r.class.flags = flags | r.class.flags&^AccessFlags
	r.class.owner = outer
}

func (r *bytecodeReader) readClassSignature() error {
	if r.signatureRead {
		return nil
	}
	r.signatureRead = true
	ct := r.class.typ.(*ClassType)

	if r.header.Signature != "" {
		sr := newSignatureReader(r.c, r.class, r.header.Signature)
		super, ifaces, err := sr.classSignature(r.class)
		if err != nil {
			return err
		}
		ct.supertype = super
		ct.interfaces = ifaces
		r.class.parametrized = r.class.params.Len() > 0
		return nil
	}

	if r.header.SuperName == "" {
		if classfile.FlatName(r.header.Name) != "java.lang.Object" {
			return internalErrorf(r.class, "header", "no superclass")
		}
	} else {
		ct.supertype = r.c.classSymbol(r.header.SuperName, 0).typ
	}
	for _, iface := range r.header.Interfaces {
		ct.interfaces = append(ct.interfaces, r.c.classSymbol(iface, 0).typ)
	}
	return nil
}

func (r *bytecodeReader) VisitField(f classfile.FieldEntry) error {
	if err := r.beginMember(); err != nil {
		return err
	}
	if f.Access.IsSynthetic() {
		return nil
	}

	ft, err := classfile.ParseFieldDescriptor(f.Descriptor)
	if err != nil {
		return fmt.Errorf("field %s: %w", f.Name, err)
	}
	flags := filterBytecodeFlags(f.Access, KindVariable)
	if f.Deprecated {
		flags |= Deprecated
	}
	sym := r.c.newSymbol(KindVariable, f.Name, r.class, flags)
	sym.typ = r.c.descriptorType(ft)

	if f.Signature != "" {
		t, err := newSignatureReader(r.c, r.class, f.Signature).fieldSignature()
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		sym.typ = t
		sym.parametrized = t.Tag() == TagTypeVariable
	}

	r.class.members.Enter(sym)
	return nil
}

func (r *bytecodeReader) VisitMethod(m classfile.MethodEntry) error {
	if err := r.beginMember(); err != nil {
		return err
	}
	if m.Access.IsSynthetic() {
		return nil
	}
	if m.Access.IsBridge() {
		return internalErrorf(r.class, "method", "bridge method %s%s is not synthetic", m.Name, m.Descriptor)
	}

	md, err := classfile.ParseMethodDescriptor(m.Descriptor)
	if err != nil {
		return fmt.Errorf("method %s: %w", m.Name, err)
	}
	flags := filterBytecodeFlags(m.Access, KindMethod)
	if m.Deprecated {
		flags |= Deprecated
	}
	sym := r.c.newSymbol(KindMethod, m.Name, r.class, flags)
	sym.members = NewScope(sym)
	sym.params = NewScope(sym)

	mt := &MethodType{owner: sym, result: r.c.symbols.Void}
	for _, p := range md.Parameters {
		mt.args = append(mt.args, r.c.descriptorType(p))
	}
	if md.Return != nil {
		mt.result = r.c.descriptorType(*md.Return)
	}
	for _, ex := range m.Exceptions {
		mt.thrown = append(mt.thrown, r.c.classSymbol(ex, 0).typ)
	}

	if m.Signature != "" {
		sig, err := newSignatureReader(r.c, sym, m.Signature).methodSignature(sym)
		if err != nil {
			return fmt.Errorf("method %s: %w", m.Name, err)
		}
		mt.args = sig.args
		mt.result = sig.result
		if sig.hasThrown {
			mt.thrown = sig.thrown
		}
		sym.parametrized = sym.params.Len() > 0
	}
	sym.typ = mt

	for i, name := range parameterNames(m.Parameters, len(mt.args)) {
		p := r.c.newSymbol(KindVariable, name.name, sym, name.flags)
		p.typ = mt.args[i]
		sym.members.Enter(p)
	}

	r.class.members.Enter(sym)
	return nil
}

type paramName struct {
	name  string
	flags Flags
}

// parameterNames names n parameters from the MethodParameters attribute,
// skipping compiler-generated entries, or falls back to arg0..argN.
func parameterNames(entries []classfile.ParameterEntry, n int) []paramName {
	var declared []classfile.ParameterEntry
	for _, e := range entries {
		if !e.Access.IsSynthetic() && !e.Access.IsMandated() {
			declared = append(declared, e)
		}
	}
	if len(declared) != n {
		declared = entries
	}

	names := make([]paramName, n)
	for i := range names {
		names[i].name = "arg" + strconv.Itoa(i)
		if len(declared) != n {
			continue
		}
		if declared[i].Name != "" {
			names[i].name = declared[i].Name
		}
		if declared[i].Access.IsFinal() {
			names[i].flags = Final
		}
	}
	return names
}

func (r *bytecodeReader) VisitEnd() error {
	if err := r.beginMember(); err != nil {
		return err
	}
	if r.class.owner == nil {
		pkg := r.c.Package(binaryPackage(r.header.Name))
		r.class.owner = pkg
		if !r.unlinked {
			pkg.members.Enter(r.class)
		}
	}
	return nil
}

func (r *bytecodeReader) beginMember() error {
	if r.c.err != nil {
		return r.c.err
	}
	if err := r.readClassSignature(); err != nil {
		return err
	}
	return r.c.err
}
