// Package format encodes completed class symbols for humans and tools.
package format

import (
	"encoding"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/classgraph/resolve"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *resolve.Symbol) error
}

// Names lists the encoders known to New.
var Names = []string{"line", "json"}

func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s (expected %s)", name, strings.Join(Names, " or "))
}

func checkClass(sym *resolve.Symbol) error {
	if sym == nil || sym.Kind() != resolve.KindType {
		return fmt.Errorf("not a class: %v", sym)
	}
	return nil
}

func classKind(c *resolve.Symbol) string {
	f := c.Flags()
	switch {
	case c.IsMissing():
		return "missing"
	case f.Has(resolve.AnnotationType):
		return "annotation"
	case f.Has(resolve.Enum):
		return "enum"
	case f.Has(resolve.Interface):
		return "interface"
	default:
		return "class"
	}
}

func visibility(f resolve.Flags) string {
	switch {
	case f.Has(resolve.Public):
		return "public"
	case f.Has(resolve.Protected):
		return "protected"
	case f.Has(resolve.Private):
		return "private"
	}
	return "package"
}

// modifiers lists the non-access flags; kind bits of classes are dropped.
func modifiers(sym *resolve.Symbol) []string {
	f := sym.Flags() &^ resolve.AccessFlags
	if sym.Kind() == resolve.KindType {
		f &^= resolve.Interface | resolve.AnnotationType | resolve.Enum
	}
	return strings.Fields(f.String())
}

func packageOf(sym *resolve.Symbol) string {
	o := sym.Owner()
	for o != nil && o.Kind() != resolve.KindPackage {
		o = o.Owner()
	}
	if o == nil {
		return ""
	}
	return o.FlatName()
}

func typeString(t resolve.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func typeStrings(types []resolve.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = typeString(t)
	}
	return out
}

// typeParameter renders T:bound1&bound2.
func typeParameter(p *resolve.Symbol) string {
	tv, ok := p.Type().(*resolve.TypeVariableType)
	if !ok || len(tv.Bounds()) == 0 {
		return p.Name()
	}
	return p.Name() + ":" + strings.Join(typeStrings(tv.Bounds()), "&")
}

func typeParameters(owner *resolve.Symbol) []string {
	params := owner.TypeParameters().Symbols()
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = typeParameter(p)
	}
	return out
}

// members splits the member scope of a class by kind, keeping declaration
// order.
func members(c *resolve.Symbol) (fields, methods, inner []*resolve.Symbol) {
	for _, m := range c.Members().Symbols() {
		switch m.Kind() {
		case resolve.KindVariable:
			fields = append(fields, m)
		case resolve.KindMethod:
			methods = append(methods, m)
		case resolve.KindType:
			inner = append(inner, m)
		}
	}
	return fields, methods, inner
}
