package classfile

import (
	"encoding/binary"
)

// Attribute names decoded by the parser. Every other attribute is kept as raw bytes.
const (
	AttrSignature                   = "Signature"
	AttrInnerClasses                = "InnerClasses"
	AttrExceptions                  = "Exceptions"
	AttrDeprecated                  = "Deprecated"
	AttrSynthetic                   = "Synthetic"
	AttrSourceFile                  = "SourceFile"
	AttrMethodParameters            = "MethodParameters"
	AttrRuntimeVisibleAnnotations   = "RuntimeVisibleAnnotations"
	AttrRuntimeInvisibleAnnotations = "RuntimeInvisibleAnnotations"
)

type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
	Parsed    any
}

type SourceFileAttribute struct {
	SourceFileIndex uint16
}

type ExceptionsAttribute struct {
	ExceptionIndexTable []uint16
}

type InnerClassesAttribute struct {
	Classes []InnerClassRecord
}

// InnerClassRecord is one row of the InnerClasses attribute. Zero indices mean
// "absent": no outer class for local classes, no inner name for anonymous ones.
type InnerClassRecord struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags AccessFlags
}

type SignatureAttribute struct {
	SignatureIndex uint16
}

type SyntheticAttribute struct{}

type DeprecatedAttribute struct{}

type MethodParametersAttribute struct {
	Parameters []MethodParameter
}

type MethodParameter struct {
	NameIndex   uint16
	AccessFlags AccessFlags
}

type Annotation struct {
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

type ElementValuePair struct {
	ElementNameIndex uint16
	Value            ElementValue
}

// ElementValue holds a constant pool index (uint16) for constants and class
// literals, an EnumConstValue, a nested Annotation or an ArrayValue.
type ElementValue struct {
	Tag   byte
	Value any
}

type EnumConstValue struct {
	TypeNameIndex  uint16
	ConstNameIndex uint16
}

type ArrayValue struct {
	Values []ElementValue
}

type AnnotationsAttribute struct {
	Visible     bool
	Annotations []Annotation
}

func (a *AttributeInfo) AsSourceFile() *SourceFileAttribute {
	sf, _ := a.Parsed.(*SourceFileAttribute)
	return sf
}

func (a *AttributeInfo) AsExceptions() *ExceptionsAttribute {
	ex, _ := a.Parsed.(*ExceptionsAttribute)
	return ex
}

func (a *AttributeInfo) AsInnerClasses() *InnerClassesAttribute {
	ic, _ := a.Parsed.(*InnerClassesAttribute)
	return ic
}

func (a *AttributeInfo) AsSignature() *SignatureAttribute {
	sig, _ := a.Parsed.(*SignatureAttribute)
	return sig
}

func (a *AttributeInfo) AsMethodParameters() *MethodParametersAttribute {
	mp, _ := a.Parsed.(*MethodParametersAttribute)
	return mp
}

func (a *AttributeInfo) AsAnnotations() *AnnotationsAttribute {
	ann, _ := a.Parsed.(*AnnotationsAttribute)
	return ann
}

func decodeAttribute(name string, info []byte) any {
	switch name {
	case AttrSourceFile:
		return parseSourceFileAttribute(info)
	case AttrExceptions:
		return parseExceptionsAttribute(info)
	case AttrInnerClasses:
		return parseInnerClassesAttribute(info)
	case AttrSignature:
		return parseSignatureAttribute(info)
	case AttrSynthetic:
		return &SyntheticAttribute{}
	case AttrDeprecated:
		return &DeprecatedAttribute{}
	case AttrMethodParameters:
		return parseMethodParametersAttribute(info)
	case AttrRuntimeVisibleAnnotations:
		return parseAnnotationsAttribute(info, true)
	case AttrRuntimeInvisibleAnnotations:
		return parseAnnotationsAttribute(info, false)
	}
	return nil
}

func parseSourceFileAttribute(info []byte) *SourceFileAttribute {
	if len(info) < 2 {
		return nil
	}
	return &SourceFileAttribute{
		SourceFileIndex: binary.BigEndian.Uint16(info[0:2]),
	}
}

func parseExceptionsAttribute(info []byte) *ExceptionsAttribute {
	if len(info) < 2 {
		return nil
	}
	count := binary.BigEndian.Uint16(info[0:2])
	if len(info) < 2+int(count)*2 {
		return nil
	}

	ex := &ExceptionsAttribute{
		ExceptionIndexTable: make([]uint16, count),
	}

	offset := 2
	for i := uint16(0); i < count; i++ {
		ex.ExceptionIndexTable[i] = binary.BigEndian.Uint16(info[offset : offset+2])
		offset += 2
	}

	return ex
}

func parseInnerClassesAttribute(info []byte) *InnerClassesAttribute {
	if len(info) < 2 {
		return nil
	}
	count := binary.BigEndian.Uint16(info[0:2])
	if len(info) < 2+int(count)*8 {
		return nil
	}

	ic := &InnerClassesAttribute{
		Classes: make([]InnerClassRecord, count),
	}

	offset := 2
	for i := uint16(0); i < count; i++ {
		ic.Classes[i] = InnerClassRecord{
			InnerClassInfoIndex:   binary.BigEndian.Uint16(info[offset : offset+2]),
			OuterClassInfoIndex:   binary.BigEndian.Uint16(info[offset+2 : offset+4]),
			InnerNameIndex:        binary.BigEndian.Uint16(info[offset+4 : offset+6]),
			InnerClassAccessFlags: AccessFlags(binary.BigEndian.Uint16(info[offset+6 : offset+8])),
		}
		offset += 8
	}

	return ic
}

func parseSignatureAttribute(info []byte) *SignatureAttribute {
	if len(info) < 2 {
		return nil
	}
	return &SignatureAttribute{
		SignatureIndex: binary.BigEndian.Uint16(info[0:2]),
	}
}

func parseMethodParametersAttribute(info []byte) *MethodParametersAttribute {
	if len(info) < 1 {
		return nil
	}

	count := info[0]
	if len(info) < 1+int(count)*4 {
		return nil
	}

	mp := &MethodParametersAttribute{
		Parameters: make([]MethodParameter, count),
	}

	offset := 1
	for i := uint8(0); i < count; i++ {
		mp.Parameters[i] = MethodParameter{
			NameIndex:   binary.BigEndian.Uint16(info[offset : offset+2]),
			AccessFlags: AccessFlags(binary.BigEndian.Uint16(info[offset+2 : offset+4])),
		}
		offset += 4
	}

	return mp
}

func parseAnnotationsAttribute(info []byte, visible bool) *AnnotationsAttribute {
	if len(info) < 2 {
		return nil
	}

	numAnnotations := binary.BigEndian.Uint16(info[0:2])
	attr := &AnnotationsAttribute{
		Visible:     visible,
		Annotations: make([]Annotation, numAnnotations),
	}

	offset := 2
	for i := uint16(0); i < numAnnotations; i++ {
		attr.Annotations[i], offset = parseAnnotation(info, offset)
	}

	return attr
}

func parseAnnotation(info []byte, offset int) (Annotation, int) {
	ann := Annotation{}
	if len(info) < offset+4 {
		return ann, offset
	}

	ann.TypeIndex = binary.BigEndian.Uint16(info[offset : offset+2])
	numPairs := binary.BigEndian.Uint16(info[offset+2 : offset+4])
	offset += 4

	ann.ElementValuePairs = make([]ElementValuePair, 0, numPairs)
	for i := uint16(0); i < numPairs; i++ {
		if len(info) < offset+2 {
			return ann, offset
		}
		pair := ElementValuePair{
			ElementNameIndex: binary.BigEndian.Uint16(info[offset : offset+2]),
		}
		offset += 2
		pair.Value, offset = parseElementValue(info, offset)
		ann.ElementValuePairs = append(ann.ElementValuePairs, pair)
	}

	return ann, offset
}

func parseElementValue(info []byte, offset int) (ElementValue, int) {
	if len(info) <= offset {
		return ElementValue{}, offset
	}

	tag := info[offset]
	offset++

	ev := ElementValue{Tag: tag}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		if len(info) < offset+2 {
			return ev, offset
		}
		ev.Value = binary.BigEndian.Uint16(info[offset : offset+2])
		offset += 2

	case 'e':
		if len(info) < offset+4 {
			return ev, offset
		}
		ev.Value = EnumConstValue{
			TypeNameIndex:  binary.BigEndian.Uint16(info[offset : offset+2]),
			ConstNameIndex: binary.BigEndian.Uint16(info[offset+2 : offset+4]),
		}
		offset += 4

	case '@':
		var ann Annotation
		ann, offset = parseAnnotation(info, offset)
		ev.Value = ann

	case '[':
		if len(info) < offset+2 {
			return ev, offset
		}
		numValues := binary.BigEndian.Uint16(info[offset : offset+2])
		offset += 2
		values := make([]ElementValue, numValues)
		for i := uint16(0); i < numValues; i++ {
			values[i], offset = parseElementValue(info, offset)
		}
		ev.Value = ArrayValue{Values: values}
	}

	return ev, offset
}
