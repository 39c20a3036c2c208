package classfile

import "fmt"

// Header describes the class itself. Names are binary names.
type Header struct {
	MajorVersion uint16
	Access       AccessFlags
	Name         string
	Signature    string
	SuperName    string
	Interfaces   []string
	SourceFile   string
	Deprecated   bool
}

// InnerClassEntry is one InnerClasses row. OuterName is empty for local and
// anonymous classes, InnerName is empty for anonymous classes.
type InnerClassEntry struct {
	Name      string
	OuterName string
	InnerName string
	Access    AccessFlags
}

type FieldEntry struct {
	Access     AccessFlags
	Name       string
	Descriptor string
	Signature  string
	Deprecated bool
}

type ParameterEntry struct {
	Name   string
	Access AccessFlags
}

type MethodEntry struct {
	Access     AccessFlags
	Name       string
	Descriptor string
	Signature  string
	Exceptions []string
	Parameters []ParameterEntry
	Deprecated bool
}

// AnnotationEntry is a decoded annotation. Element values are bool, int8,
// int16, int32, int64, rune, float32, float64, string, EnumValue, ClassValue,
// AnnotationEntry or []any.
type AnnotationEntry struct {
	Descriptor string
	Visible    bool
	Values     []AnnotationValue
}

type AnnotationValue struct {
	Name  string
	Value any
}

type EnumValue struct {
	Descriptor string
	Name       string
}

type ClassValue struct {
	Descriptor string
}

// Visitor receives the declaration-level events of one class file. The first
// error returned stops the walk.
type Visitor interface {
	VisitHeader(h Header) error
	VisitAnnotation(a AnnotationEntry) error
	VisitInnerClass(ic InnerClassEntry) error
	VisitField(f FieldEntry) error
	VisitMethod(m MethodEntry) error
	VisitEnd() error
}

// Accept walks cf in a fixed order: header, class annotations, inner classes,
// fields, methods, end.
func Accept(cf *ClassFile, v Visitor) error {
	cp := cf.ConstantPool

	header := Header{
		MajorVersion: cf.MajorVersion,
		Access:       cf.Flags(),
		Name:         cf.ClassName(),
		Signature:    cf.Signature(),
		SuperName:    cf.SuperClassName(),
		Interfaces:   cf.InterfaceNames(),
		SourceFile:   cf.SourceFile(),
		Deprecated:   cf.GetAttribute(AttrDeprecated) != nil,
	}
	if header.Name == "" {
		return fmt.Errorf("class file has no this_class name")
	}
	if err := v.VisitHeader(header); err != nil {
		return err
	}

	for _, ann := range annotationsOf(cp, cf.Attributes) {
		if err := v.VisitAnnotation(ann); err != nil {
			return err
		}
	}

	if attr := cf.GetAttribute(AttrInnerClasses); attr != nil {
		if ic := attr.AsInnerClasses(); ic != nil {
			for _, rec := range ic.Classes {
				entry := InnerClassEntry{
					Name:      cp.GetClassName(rec.InnerClassInfoIndex),
					OuterName: cp.GetClassName(rec.OuterClassInfoIndex),
					InnerName: cp.GetUtf8(rec.InnerNameIndex),
					Access:    rec.InnerClassAccessFlags,
				}
				if err := v.VisitInnerClass(entry); err != nil {
					return err
				}
			}
		}
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		entry := FieldEntry{
			Access:     f.Flags(cp),
			Name:       f.Name(cp),
			Descriptor: f.Descriptor(cp),
			Signature:  f.Signature(cp),
			Deprecated: f.IsDeprecated(cp),
		}
		if err := v.VisitField(entry); err != nil {
			return err
		}
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		entry := MethodEntry{
			Access:     m.Flags(cp),
			Name:       m.Name(cp),
			Descriptor: m.Descriptor(cp),
			Signature:  m.Signature(cp),
			Deprecated: m.IsDeprecated(cp),
		}
		if attr := m.GetAttribute(cp, AttrExceptions); attr != nil {
			if ex := attr.AsExceptions(); ex != nil {
				for _, idx := range ex.ExceptionIndexTable {
					entry.Exceptions = append(entry.Exceptions, cp.GetClassName(idx))
				}
			}
		}
		if attr := m.GetAttribute(cp, AttrMethodParameters); attr != nil {
			if mp := attr.AsMethodParameters(); mp != nil {
				for _, p := range mp.Parameters {
					entry.Parameters = append(entry.Parameters, ParameterEntry{
						Name:   cp.GetUtf8(p.NameIndex),
						Access: p.AccessFlags,
					})
				}
			}
		}
		if err := v.VisitMethod(entry); err != nil {
			return err
		}
	}

	return v.VisitEnd()
}

func annotationsOf(cp ConstantPool, attrs []AttributeInfo) []AnnotationEntry {
	var out []AnnotationEntry
	for i := range attrs {
		ann := attrs[i].AsAnnotations()
		if ann == nil {
			continue
		}
		for _, a := range ann.Annotations {
			out = append(out, decodeAnnotation(cp, a, ann.Visible))
		}
	}
	return out
}

func decodeAnnotation(cp ConstantPool, a Annotation, visible bool) AnnotationEntry {
	entry := AnnotationEntry{
		Descriptor: cp.GetUtf8(a.TypeIndex),
		Visible:    visible,
	}
	for _, pair := range a.ElementValuePairs {
		entry.Values = append(entry.Values, AnnotationValue{
			Name:  cp.GetUtf8(pair.ElementNameIndex),
			Value: decodeElementValue(cp, pair.Value, visible),
		})
	}
	return entry
}

func decodeElementValue(cp ConstantPool, ev ElementValue, visible bool) any {
	switch v := ev.Value.(type) {
	case uint16:
		switch ev.Tag {
		case 'c':
			return ClassValue{Descriptor: cp.GetUtf8(v)}
		case 's':
			return cp.GetUtf8(v)
		}
		c, ok := cp.GetConstant(v)
		if !ok {
			return nil
		}
		n, isInt := c.(int32)
		if !isInt {
			return c
		}
		switch ev.Tag {
		case 'Z':
			return n != 0
		case 'B':
			return int8(n)
		case 'S':
			return int16(n)
		case 'C':
			return rune(n)
		}
		return n
	case EnumConstValue:
		return EnumValue{
			Descriptor: cp.GetUtf8(v.TypeNameIndex),
			Name:       cp.GetUtf8(v.ConstNameIndex),
		}
	case Annotation:
		return decodeAnnotation(cp, v, visible)
	case ArrayValue:
		values := make([]any, len(v.Values))
		for i, elem := range v.Values {
			values[i] = decodeElementValue(cp, elem, visible)
		}
		return values
	}
	return nil
}
