package classfile

import (
	"fmt"
	"strings"
)

// BaseTypes maps descriptor base type characters to their Java keywords.
var BaseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// FieldType is a decoded field descriptor. Base is zero for class types.
type FieldType struct {
	Base       byte
	ClassName  string
	ArrayDepth int
}

func (ft FieldType) String() string {
	var sb strings.Builder
	if ft.Base != 0 {
		sb.WriteString(BaseTypes[ft.Base])
	} else {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (ft FieldType) IsPrimitive() bool {
	return ft.Base != 0 && ft.ArrayDepth == 0
}

// MethodDescriptor is a decoded method descriptor. Return is nil for void.
type MethodDescriptor struct {
	Parameters []FieldType
	Return     *FieldType
}

func (md MethodDescriptor) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range md.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") ")
	if md.Return != nil {
		sb.WriteString(md.Return.String())
	} else {
		sb.WriteString("void")
	}
	return sb.String()
}

func ParseFieldDescriptor(desc string) (FieldType, error) {
	ft, n, err := parseFieldType(desc, 0)
	if err != nil {
		return FieldType{}, err
	}
	if n != len(desc) {
		return FieldType{}, fmt.Errorf("field descriptor %q: trailing characters", desc)
	}
	return ft, nil
}

func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	var md MethodDescriptor
	if len(desc) == 0 || desc[0] != '(' {
		return md, fmt.Errorf("method descriptor %q: missing '('", desc)
	}

	i := 1
	for i < len(desc) && desc[i] != ')' {
		ft, n, err := parseFieldType(desc, i)
		if err != nil {
			return md, fmt.Errorf("method descriptor %q: %w", desc, err)
		}
		md.Parameters = append(md.Parameters, ft)
		i += n
	}
	if i >= len(desc) {
		return md, fmt.Errorf("method descriptor %q: missing ')'", desc)
	}
	i++

	if i < len(desc) && desc[i] == 'V' && i+1 == len(desc) {
		return md, nil
	}
	ret, n, err := parseFieldType(desc, i)
	if err != nil {
		return md, fmt.Errorf("method descriptor %q: %w", desc, err)
	}
	if i+n != len(desc) {
		return md, fmt.Errorf("method descriptor %q: trailing characters", desc)
	}
	md.Return = &ret
	return md, nil
}

func parseFieldType(desc string, start int) (FieldType, int, error) {
	var ft FieldType
	i := start
	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return ft, 0, fmt.Errorf("unexpected end at offset %d", i)
	}

	c := desc[i]
	if _, ok := BaseTypes[c]; ok {
		ft.Base = c
		return ft, i - start + 1, nil
	}
	if c != 'L' {
		return ft, 0, fmt.Errorf("unexpected %q at offset %d", c, i)
	}
	semicolon := strings.IndexByte(desc[i:], ';')
	if semicolon <= 1 {
		return ft, 0, fmt.Errorf("unterminated class name at offset %d", i)
	}
	ft.ClassName = desc[i+1 : i+semicolon]
	return ft, i - start + semicolon + 1, nil
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}
