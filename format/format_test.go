package format_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/classpath"
	"github.com/dhamidi/classgraph/format"
	"github.com/dhamidi/classgraph/internal/classtest"
	"github.com/dhamidi/classgraph/resolve"
)

func newCompleter(classes ...*classtest.Builder) *resolve.Completer {
	mem := classpath.NewMemory()
	mem.Add("java/lang/Object", classtest.New("java/lang/Object").Bytes())
	mem.Add("java/lang/String", classtest.New("java/lang/String").Bytes())
	for _, b := range classes {
		mem.Add(b.Name(), b.Bytes())
	}
	return resolve.NewCompleter(mem, resolve.WithLogger(commonlog.MOCK_LOGGER))
}

func widget() *classtest.Builder {
	return classtest.New("com/acme/Widget").
		Access(classfile.AccPublic|classfile.AccFinal|classfile.AccSuper).
		SourceFile("Widget.java").
		Implements("java/lang/Runnable").
		Signature("<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Runnable;").
		Annotation("Ljava/lang/Deprecated;", true).
		Annotation("Lcom/acme/Meta;", false,
			classfile.AnnotationValue{Name: "size", Value: int32(3)},
			classfile.AnnotationValue{Name: "kind", Value: classfile.EnumValue{Descriptor: "Lcom/acme/Kind;", Name: "BIG"}}).
		InnerClass("com/acme/Widget$Builder", "com/acme/Widget", "Builder", classfile.AccPublic|classfile.AccStatic).
		Field(classfile.AccPrivate|classfile.AccFinal, "name", "Ljava/lang/String;").Done().
		Field(classfile.AccPublic|classfile.AccStatic, "count", "I").Done().
		Method(classfile.AccPublic, "get", "()Ljava/lang/Object;").Signature("()TT;").Done().
		Method(classfile.AccPublic|classfile.AccVarargs, "of", "([Ljava/lang/Object;)V").Done().
		Method(classfile.AccPublic, "open", "()V").Throws("java/io/IOException").Done()
}

func load(t *testing.T, c *resolve.Completer, flat string) *resolve.Symbol {
	t.Helper()
	sym, err := c.Load(flat)
	require.NoError(t, err)
	return sym
}

func TestLineEncoder(t *testing.T) {
	w := load(t, newCompleter(widget()), "com.acme.Widget")

	var buf bytes.Buffer
	require.NoError(t, format.NewLineEncoder(&buf).Encode(w))

	want := "class\tcom.acme.Widget\tpublic\tfinal\tT:java.lang.Object\n" +
		"extends\tjava.lang.Object\n" +
		"implements\tjava.lang.Runnable\n" +
		"annotation\tjava.lang.Deprecated\tvisible\n" +
		"annotation\tcom.acme.Meta\tinvisible\n" +
		"field\tname\tjava.lang.String\tprivate\tfinal\n" +
		"field\tcount\tint\tpublic\tstatic\n" +
		"method\tget\tT\t-\tpublic\t-\t-\t-\n" +
		"method\tof\tvoid\tjava.lang.Object[]\tpublic\tvarargs\t-\t-\n" +
		"method\topen\tvoid\t-\tpublic\t-\t-\tjava.io.IOException\n" +
		"inner\tcom.acme.Widget.Builder\tpublic\tstatic\n"
	assert.Equal(t, want, buf.String())
}

func TestLineEncoderGenericMethod(t *testing.T) {
	c := newCompleter(classtest.New("com/acme/Util").
		Method(classfile.AccPublic|classfile.AccStatic, "max", "(Ljava/lang/Comparable;Ljava/lang/Comparable;)Ljava/lang/Comparable;").
		Signature("<E::Ljava/lang/Comparable;>(TE;TE;)TE;").Done())
	util := load(t, c, "com.acme.Util")

	var buf bytes.Buffer
	require.NoError(t, format.NewLineEncoder(&buf).Encode(util))
	assert.Contains(t, buf.String(), "method\tmax\tE\tE,E\tpublic\tstatic\tE:java.lang.Comparable\t-\n")
}

func TestLineEncoderMissingClass(t *testing.T) {
	c := newCompleter()
	gone := c.ClassSymbol("com.acme.Gone")

	var buf bytes.Buffer
	require.NoError(t, format.NewLineEncoder(&buf).Encode(gone))
	assert.Equal(t, "missing\tcom.acme.Gone\tpackage\t-\t-\n", buf.String())
}

func TestJSONEncoder(t *testing.T) {
	w := load(t, newCompleter(widget()), "com.acme.Widget")

	var buf bytes.Buffer
	require.NoError(t, format.NewJSONEncoder(&buf).Encode(w))

	var got struct {
		Name           string   `json:"name"`
		SimpleName     string   `json:"simpleName"`
		BinaryName     string   `json:"binaryName"`
		SourceFile     string   `json:"sourceFile"`
		Package        string   `json:"package"`
		Kind           string   `json:"kind"`
		Visibility     string   `json:"visibility"`
		Modifiers      []string `json:"modifiers"`
		Missing        bool     `json:"missing"`
		SuperClass     string   `json:"superClass"`
		Interfaces     []string `json:"interfaces"`
		InnerClasses   []string `json:"innerClasses"`
		TypeParameters []struct {
			Name   string   `json:"name"`
			Bounds []string `json:"bounds"`
		} `json:"typeParameters"`
		Annotations []struct {
			Type    string         `json:"type"`
			Visible bool           `json:"visible"`
			Values  map[string]any `json:"values"`
		} `json:"annotations"`
		Fields []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"fields"`
		Methods []struct {
			Name       string `json:"name"`
			ReturnType string `json:"returnType"`
			Parameters []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"parameters"`
			Throws    []string `json:"throws"`
			Modifiers []string `json:"modifiers"`
		} `json:"methods"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "com.acme.Widget", got.Name)
	assert.Equal(t, "Widget", got.SimpleName)
	assert.Equal(t, "com/acme/Widget", got.BinaryName)
	assert.Equal(t, "Widget.java", got.SourceFile)
	assert.Equal(t, "com.acme", got.Package)
	assert.Equal(t, "class", got.Kind)
	assert.Equal(t, "public", got.Visibility)
	assert.Equal(t, []string{"final"}, got.Modifiers)
	assert.False(t, got.Missing)
	assert.Equal(t, "java.lang.Object", got.SuperClass)
	assert.Equal(t, []string{"java.lang.Runnable"}, got.Interfaces)
	assert.Equal(t, []string{"com.acme.Widget.Builder"}, got.InnerClasses)

	require.Len(t, got.TypeParameters, 1)
	assert.Equal(t, "T", got.TypeParameters[0].Name)
	assert.Equal(t, []string{"java.lang.Object"}, got.TypeParameters[0].Bounds)

	require.Len(t, got.Annotations, 2)
	meta := got.Annotations[1]
	assert.Equal(t, "com.acme.Meta", meta.Type)
	assert.Equal(t, 3.0, meta.Values["size"])
	assert.Equal(t, map[string]any{"enum": "com.acme.Kind", "name": "BIG"}, meta.Values["kind"])

	require.Len(t, got.Fields, 2)
	assert.Equal(t, "int", got.Fields[1].Type)

	require.Len(t, got.Methods, 3)
	of := got.Methods[1]
	assert.Equal(t, "of", of.Name)
	require.Len(t, of.Parameters, 1)
	assert.Equal(t, "arg0", of.Parameters[0].Name)
	assert.Equal(t, "java.lang.Object[]", of.Parameters[0].Type)
	assert.Equal(t, []string{"varargs"}, of.Modifiers)
	assert.Equal(t, []string{"java.io.IOException"}, got.Methods[2].Throws)
}

func TestJSONEncoderMissingClass(t *testing.T) {
	gone := newCompleter().ClassSymbol("com.acme.Gone")

	var buf bytes.Buffer
	require.NoError(t, format.NewJSONEncoder(&buf).Encode(gone))
	assert.JSONEq(t, `{
		"name": "com.acme.Gone",
		"simpleName": "Gone",
		"package": "com.acme",
		"kind": "missing",
		"visibility": "package",
		"missing": true
	}`, buf.String())
}

func TestNew(t *testing.T) {
	for _, name := range format.Names {
		enc, err := format.New(name, &bytes.Buffer{})
		require.NoError(t, err, name)
		assert.NotNil(t, enc)
	}
	_, err := format.New("xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown format")
}

func TestEncodeRejectsNonClasses(t *testing.T) {
	c := newCompleter()
	pkg := c.Package("com.acme")
	assert.Error(t, format.NewLineEncoder(&bytes.Buffer{}).Encode(pkg))
	assert.Error(t, format.NewJSONEncoder(&bytes.Buffer{}).Encode(pkg))
}
