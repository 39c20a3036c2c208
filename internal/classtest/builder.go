// Package classtest assembles class-file bytes for tests.
package classtest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dhamidi/classgraph/classfile"
)

type Builder struct {
	pool    bytes.Buffer
	next    uint16
	utf8s   map[string]uint16
	classes map[string]uint16
	ints    map[int32]uint16
	longs   map[int64]uint16

	access      classfile.AccessFlags
	name        string
	super       string
	interfaces  []string
	signature   string
	sourceFile  string
	deprecated  bool
	synthetic   bool
	annotations []annotation
	inners      []innerClass
	fields      []*Member
	methods     []*Member
}

type innerClass struct {
	inner, outer, innerName string
	access                  classfile.AccessFlags
}

type annotation struct {
	descriptor string
	visible    bool
	values     []classfile.AnnotationValue
}

// New starts a public class with binary name name extending java/lang/Object.
// java/lang/Object itself gets no superclass.
func New(name string) *Builder {
	b := &Builder{
		next:    1,
		utf8s:   make(map[string]uint16),
		classes: make(map[string]uint16),
		ints:    make(map[int32]uint16),
		longs:   make(map[int64]uint16),
		access:  classfile.AccPublic | classfile.AccSuper,
		name:    name,
		super:   "java/lang/Object",
	}
	if name == "java/lang/Object" {
		b.super = ""
	}
	return b
}

// Name is the binary name of the class.
func (b *Builder) Name() string {
	return b.name
}

func (b *Builder) Access(flags classfile.AccessFlags) *Builder {
	b.access = flags
	return b
}

// Super sets the superclass; the empty string writes index 0.
func (b *Builder) Super(name string) *Builder {
	b.super = name
	return b
}

func (b *Builder) Implements(names ...string) *Builder {
	b.interfaces = append(b.interfaces, names...)
	return b
}

func (b *Builder) Signature(sig string) *Builder {
	b.signature = sig
	return b
}

func (b *Builder) SourceFile(name string) *Builder {
	b.sourceFile = name
	return b
}

func (b *Builder) Deprecated() *Builder {
	b.deprecated = true
	return b
}

// SyntheticAttribute marks the class synthetic through the attribute rather
// than the access flag.
func (b *Builder) SyntheticAttribute() *Builder {
	b.synthetic = true
	return b
}

// InnerClass adds an InnerClasses row. Empty outer or innerName are written
// as index 0.
func (b *Builder) InnerClass(inner, outer, innerName string, flags classfile.AccessFlags) *Builder {
	b.inners = append(b.inners, innerClass{inner: inner, outer: outer, innerName: innerName, access: flags})
	return b
}

// Annotation adds a class annotation. Values may be bool, int32, int64,
// string, classfile.EnumValue, classfile.ClassValue or []any.
func (b *Builder) Annotation(descriptor string, visible bool, values ...classfile.AnnotationValue) *Builder {
	b.annotations = append(b.annotations, annotation{descriptor: descriptor, visible: visible, values: values})
	return b
}

func (b *Builder) Field(flags classfile.AccessFlags, name, descriptor string) *Member {
	m := &Member{builder: b, access: flags, name: name, descriptor: descriptor}
	b.fields = append(b.fields, m)
	return m
}

func (b *Builder) Method(flags classfile.AccessFlags, name, descriptor string) *Member {
	m := &Member{builder: b, access: flags, name: name, descriptor: descriptor}
	b.methods = append(b.methods, m)
	return m
}

// Member is a field or method under construction.
type Member struct {
	builder    *Builder
	access     classfile.AccessFlags
	name       string
	descriptor string
	signature  string
	exceptions []string
	params     []classfile.ParameterEntry
	deprecated bool
	synthetic  bool
}

func (m *Member) Signature(sig string) *Member {
	m.signature = sig
	return m
}

func (m *Member) Throws(names ...string) *Member {
	m.exceptions = append(m.exceptions, names...)
	return m
}

func (m *Member) Parameter(name string, flags classfile.AccessFlags) *Member {
	m.params = append(m.params, classfile.ParameterEntry{Name: name, Access: flags})
	return m
}

func (m *Member) Deprecated() *Member {
	m.deprecated = true
	return m
}

func (m *Member) SyntheticAttribute() *Member {
	m.synthetic = true
	return m
}

// Done returns the owning builder for chaining.
func (m *Member) Done() *Builder {
	return m.builder
}

// Bytes encodes the class file. It panics on values it cannot encode.
func (b *Builder) Bytes() []byte {
	var body bytes.Buffer
	w := func(v any) {
		if err := binary.Write(&body, binary.BigEndian, v); err != nil {
			panic(err)
		}
	}

	w(uint16(b.access))
	w(b.class(b.name))
	if b.super == "" {
		w(uint16(0))
	} else {
		w(b.class(b.super))
	}
	w(uint16(len(b.interfaces)))
	for _, iface := range b.interfaces {
		w(b.class(iface))
	}

	for _, members := range [][]*Member{b.fields, b.methods} {
		w(uint16(len(members)))
		for _, m := range members {
			w(uint16(m.access))
			w(b.utf8(m.name))
			w(b.utf8(m.descriptor))
			b.writeAttributes(&body, m.attributes())
		}
	}

	b.writeAttributes(&body, b.classAttributes())

	var out bytes.Buffer
	for _, v := range []any{uint32(classfile.Magic), uint16(0), uint16(61), b.next} {
		if err := binary.Write(&out, binary.BigEndian, v); err != nil {
			panic(err)
		}
	}
	out.Write(b.pool.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

type attr struct {
	name string
	data []byte
}

func (b *Builder) classAttributes() []attr {
	var attrs []attr
	if b.signature != "" {
		attrs = append(attrs, b.indexAttr(classfile.AttrSignature, b.utf8(b.signature)))
	}
	if b.sourceFile != "" {
		attrs = append(attrs, b.indexAttr(classfile.AttrSourceFile, b.utf8(b.sourceFile)))
	}
	if b.deprecated {
		attrs = append(attrs, attr{name: classfile.AttrDeprecated})
	}
	if b.synthetic {
		attrs = append(attrs, attr{name: classfile.AttrSynthetic})
	}
	if len(b.inners) > 0 {
		data := u2(uint16(len(b.inners)))
		for _, ic := range b.inners {
			data = append(data, u2(b.class(ic.inner))...)
			data = append(data, u2(b.optionalClass(ic.outer))...)
			data = append(data, u2(b.optionalUtf8(ic.innerName))...)
			data = append(data, u2(uint16(ic.access))...)
		}
		attrs = append(attrs, attr{name: classfile.AttrInnerClasses, data: data})
	}
	var visible, invisible []annotation
	for _, a := range b.annotations {
		if a.visible {
			visible = append(visible, a)
		} else {
			invisible = append(invisible, a)
		}
	}
	if len(visible) > 0 {
		attrs = append(attrs, attr{name: classfile.AttrRuntimeVisibleAnnotations, data: b.annotationsData(visible)})
	}
	if len(invisible) > 0 {
		attrs = append(attrs, attr{name: classfile.AttrRuntimeInvisibleAnnotations, data: b.annotationsData(invisible)})
	}
	return attrs
}

func (m *Member) attributes() []attr {
	b := m.builder
	var attrs []attr
	if m.signature != "" {
		attrs = append(attrs, b.indexAttr(classfile.AttrSignature, b.utf8(m.signature)))
	}
	if len(m.exceptions) > 0 {
		data := u2(uint16(len(m.exceptions)))
		for _, ex := range m.exceptions {
			data = append(data, u2(b.class(ex))...)
		}
		attrs = append(attrs, attr{name: classfile.AttrExceptions, data: data})
	}
	if len(m.params) > 0 {
		data := []byte{byte(len(m.params))}
		for _, p := range m.params {
			data = append(data, u2(b.optionalUtf8(p.Name))...)
			data = append(data, u2(uint16(p.Access))...)
		}
		attrs = append(attrs, attr{name: classfile.AttrMethodParameters, data: data})
	}
	if m.deprecated {
		attrs = append(attrs, attr{name: classfile.AttrDeprecated})
	}
	if m.synthetic {
		attrs = append(attrs, attr{name: classfile.AttrSynthetic})
	}
	return attrs
}

func (b *Builder) writeAttributes(buf *bytes.Buffer, attrs []attr) {
	buf.Write(u2(uint16(len(attrs))))
	for _, a := range attrs {
		buf.Write(u2(b.utf8(a.name)))
		buf.Write(u4(uint32(len(a.data))))
		buf.Write(a.data)
	}
}

func (b *Builder) indexAttr(name string, index uint16) attr {
	return attr{name: name, data: u2(index)}
}

func (b *Builder) annotationsData(anns []annotation) []byte {
	data := u2(uint16(len(anns)))
	for _, a := range anns {
		data = append(data, b.annotationData(a.descriptor, a.values)...)
	}
	return data
}

func (b *Builder) annotationData(descriptor string, values []classfile.AnnotationValue) []byte {
	data := u2(b.utf8(descriptor))
	data = append(data, u2(uint16(len(values)))...)
	for _, v := range values {
		data = append(data, u2(b.utf8(v.Name))...)
		data = append(data, b.elementValue(v.Value)...)
	}
	return data
}

func (b *Builder) elementValue(v any) []byte {
	switch v := v.(type) {
	case bool:
		n := int32(0)
		if v {
			n = 1
		}
		return append([]byte{'Z'}, u2(b.integer(n))...)
	case int32:
		return append([]byte{'I'}, u2(b.integer(v))...)
	case int64:
		return append([]byte{'J'}, u2(b.long(v))...)
	case string:
		return append([]byte{'s'}, u2(b.utf8(v))...)
	case classfile.EnumValue:
		data := []byte{'e'}
		data = append(data, u2(b.utf8(v.Descriptor))...)
		return append(data, u2(b.utf8(v.Name))...)
	case classfile.ClassValue:
		return append([]byte{'c'}, u2(b.utf8(v.Descriptor))...)
	case classfile.AnnotationEntry:
		return append([]byte{'@'}, b.annotationData(v.Descriptor, v.Values)...)
	case []any:
		data := append([]byte{'['}, u2(uint16(len(v)))...)
		for _, elem := range v {
			data = append(data, b.elementValue(elem)...)
		}
		return data
	}
	panic(fmt.Sprintf("classtest: unsupported element value %T", v))
}

func (b *Builder) utf8(s string) uint16 {
	if idx, ok := b.utf8s[s]; ok {
		return idx
	}
	idx := b.add(1)
	b.pool.WriteByte(byte(classfile.ConstantUtf8))
	b.pool.Write(u2(uint16(len(s))))
	b.pool.WriteString(s)
	b.utf8s[s] = idx
	return idx
}

func (b *Builder) optionalUtf8(s string) uint16 {
	if s == "" {
		return 0
	}
	return b.utf8(s)
}

func (b *Builder) class(name string) uint16 {
	if idx, ok := b.classes[name]; ok {
		return idx
	}
	nameIdx := b.utf8(name)
	idx := b.add(1)
	b.pool.WriteByte(byte(classfile.ConstantClass))
	b.pool.Write(u2(nameIdx))
	b.classes[name] = idx
	return idx
}

func (b *Builder) optionalClass(name string) uint16 {
	if name == "" {
		return 0
	}
	return b.class(name)
}

func (b *Builder) integer(n int32) uint16 {
	if idx, ok := b.ints[n]; ok {
		return idx
	}
	idx := b.add(1)
	b.pool.WriteByte(byte(classfile.ConstantInteger))
	b.pool.Write(u4(uint32(n)))
	b.ints[n] = idx
	return idx
}

func (b *Builder) long(n int64) uint16 {
	if idx, ok := b.longs[n]; ok {
		return idx
	}
	idx := b.add(2)
	b.pool.WriteByte(byte(classfile.ConstantLong))
	b.pool.Write(u4(uint32(uint64(n) >> 32)))
	b.pool.Write(u4(uint32(uint64(n))))
	b.longs[n] = idx
	return idx
}

func (b *Builder) add(slots uint16) uint16 {
	if int(b.next)+int(slots) > math.MaxUint16 {
		panic("classtest: constant pool overflow")
	}
	idx := b.next
	b.next += slots
	return idx
}

func u2(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

func u4(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}
