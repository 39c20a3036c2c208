package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/classgraph/resolve"
)

// LineEncoder writes one tab-separated record per line: the class, its
// supertypes, annotations, then fields, methods and inner classes. Empty
// columns are written as "-".
type LineEncoder struct {
	w     io.Writer
	class *resolve.Symbol
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *resolve.Symbol) error {
	if err := checkClass(class); err != nil {
		return err
	}
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%s\n",
		classKind(c),
		c.FlatName(),
		visibility(c.Flags()),
		column(modifiers(c), ","),
		column(typeParameters(c), ","),
	)
	if c.IsMissing() {
		return []byte(sb.String()), nil
	}

	if super := c.Superclass(); super != nil {
		fmt.Fprintf(&sb, "extends\t%s\n", super)
	}
	for _, iface := range c.Interfaces() {
		fmt.Fprintf(&sb, "implements\t%s\n", iface)
	}
	for _, a := range c.Annotations() {
		retention := "invisible"
		if a.Visible {
			retention = "visible"
		}
		fmt.Fprintf(&sb, "annotation\t%s\t%s\n", a.Symbol.FlatName(), retention)
	}

	fields, methods, inner := members(c)
	for _, f := range fields {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
			f.Name(),
			f.Type(),
			visibility(f.Flags()),
			column(modifiers(f), ","),
		)
	}
	for _, m := range methods {
		mt, _ := m.Type().(*resolve.MethodType)
		if mt == nil {
			continue
		}
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Name(),
			mt.ResultType(),
			column(typeStrings(mt.ArgTypes()), ","),
			visibility(m.Flags()),
			column(modifiers(m), ","),
			column(typeParameters(m), ","),
			column(typeStrings(mt.ThrownTypes()), ","),
		)
	}
	for _, ic := range inner {
		fmt.Fprintf(&sb, "inner\t%s\t%s\t%s\n",
			ic.FlatName(),
			visibility(ic.Flags()),
			column(modifiers(ic), ","),
		)
	}

	return []byte(sb.String()), nil
}

func column(parts []string, sep string) string {
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, sep)
}
