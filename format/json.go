package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/resolve"
)

type JSONEncoder struct {
	w     io.Writer
	class *resolve.Symbol
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *resolve.Symbol) error {
	if err := checkClass(class); err != nil {
		return err
	}
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildClassData(), "", "  ")
}

type jsonClass struct {
	Name           string              `json:"name"`
	SimpleName     string              `json:"simpleName"`
	BinaryName     string              `json:"binaryName,omitempty"`
	SourceFile     string              `json:"sourceFile,omitempty"`
	Package        string              `json:"package"`
	Kind           string              `json:"kind"`
	Visibility     string              `json:"visibility"`
	Modifiers      []string            `json:"modifiers,omitempty"`
	Missing        bool                `json:"missing,omitempty"`
	TypeParameters []jsonTypeParameter `json:"typeParameters,omitempty"`
	SuperClass     string              `json:"superClass,omitempty"`
	Interfaces     []string            `json:"interfaces,omitempty"`
	Annotations    []jsonAnnotation    `json:"annotations,omitempty"`
	Fields         []jsonField         `json:"fields,omitempty"`
	Methods        []jsonMethod        `json:"methods,omitempty"`
	InnerClasses   []string            `json:"innerClasses,omitempty"`
}

type jsonTypeParameter struct {
	Name   string   `json:"name"`
	Bounds []string `json:"bounds,omitempty"`
}

type jsonAnnotation struct {
	Type    string         `json:"type"`
	Visible bool           `json:"visible"`
	Values  map[string]any `json:"values,omitempty"`
}

type jsonField struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Visibility string   `json:"visibility"`
	Modifiers  []string `json:"modifiers,omitempty"`
}

type jsonMethod struct {
	Name           string              `json:"name"`
	ReturnType     string              `json:"returnType"`
	TypeParameters []jsonTypeParameter `json:"typeParameters,omitempty"`
	Parameters     []jsonParameter     `json:"parameters,omitempty"`
	Throws         []string            `json:"throws,omitempty"`
	Visibility     string              `json:"visibility"`
	Modifiers      []string            `json:"modifiers,omitempty"`
}

type jsonParameter struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

func (e *JSONEncoder) buildClassData() jsonClass {
	c := e.class
	data := jsonClass{
		Name:       c.FlatName(),
		SimpleName: c.Name(),
		BinaryName: c.BinaryName(),
		SourceFile: c.SourceFile(),
		Package:    packageOf(c),
		Kind:       classKind(c),
		Visibility: visibility(c.Flags()),
		Modifiers:  modifiers(c),
		Missing:    c.IsMissing(),
	}
	if c.IsMissing() {
		return data
	}

	data.TypeParameters = buildTypeParameters(c)
	if super := c.Superclass(); super != nil {
		data.SuperClass = super.String()
	}
	if ifaces := c.Interfaces(); len(ifaces) > 0 {
		data.Interfaces = typeStrings(ifaces)
	}
	for _, a := range c.Annotations() {
		data.Annotations = append(data.Annotations, buildAnnotation(a.Symbol.FlatName(), a.Visible, a.Values))
	}

	fields, methods, inner := members(c)
	for _, f := range fields {
		data.Fields = append(data.Fields, jsonField{
			Name:       f.Name(),
			Type:       typeString(f.Type()),
			Visibility: visibility(f.Flags()),
			Modifiers:  modifiers(f),
		})
	}
	for _, m := range methods {
		if jm, ok := buildMethod(m); ok {
			data.Methods = append(data.Methods, jm)
		}
	}
	for _, ic := range inner {
		data.InnerClasses = append(data.InnerClasses, ic.FlatName())
	}
	return data
}

func buildTypeParameters(owner *resolve.Symbol) []jsonTypeParameter {
	var out []jsonTypeParameter
	for _, p := range owner.TypeParameters().Symbols() {
		jp := jsonTypeParameter{Name: p.Name()}
		if tv, ok := p.Type().(*resolve.TypeVariableType); ok {
			jp.Bounds = typeStrings(tv.Bounds())
		}
		out = append(out, jp)
	}
	return out
}

func buildMethod(m *resolve.Symbol) (jsonMethod, bool) {
	mt, ok := m.Type().(*resolve.MethodType)
	if !ok {
		return jsonMethod{}, false
	}
	jm := jsonMethod{
		Name:           m.Name(),
		ReturnType:     typeString(mt.ResultType()),
		TypeParameters: buildTypeParameters(m),
		Visibility:     visibility(m.Flags()),
		Modifiers:      modifiers(m),
	}
	if thrown := mt.ThrownTypes(); len(thrown) > 0 {
		jm.Throws = typeStrings(thrown)
	}
	for _, p := range m.Members().Symbols() {
		jm.Parameters = append(jm.Parameters, jsonParameter{Name: p.Name(), Type: typeString(p.Type())})
	}
	return jm, true
}

func buildAnnotation(typeName string, visible bool, values []classfile.AnnotationValue) jsonAnnotation {
	ja := jsonAnnotation{Type: typeName, Visible: visible}
	if len(values) > 0 {
		ja.Values = make(map[string]any, len(values))
		for _, v := range values {
			ja.Values[v.Name] = annotationValue(v.Value)
		}
	}
	return ja
}

// annotationValue turns decoded element values into JSON-friendly ones.
func annotationValue(v any) any {
	switch v := v.(type) {
	case classfile.EnumValue:
		return map[string]string{"enum": descriptorName(v.Descriptor), "name": v.Name}
	case classfile.ClassValue:
		return map[string]string{"class": descriptorName(v.Descriptor)}
	case classfile.AnnotationEntry:
		return buildAnnotation(descriptorName(v.Descriptor), v.Visible, v.Values)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = annotationValue(elem)
		}
		return out
	}
	return v
}

func descriptorName(desc string) string {
	ft, err := classfile.ParseFieldDescriptor(desc)
	if err != nil {
		return desc
	}
	return ft.String()
}
