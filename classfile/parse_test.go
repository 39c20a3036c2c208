package classfile_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/internal/classtest"
)

func TestParseClassFile(t *testing.T) {
	data := classtest.New("com/acme/Widget").
		Implements("java/lang/Runnable", "java/io/Serializable").
		Signature("Ljava/lang/Object;Ljava/lang/Runnable;Ljava/io/Serializable;").
		SourceFile("Widget.java").
		Field(classfile.AccPublic|classfile.AccStatic|classfile.AccFinal, "MAX", "I").Done().
		Field(classfile.AccPrivate, "name", "Ljava/lang/String;").Deprecated().Done().
		Method(classfile.AccPublic, "run", "()V").Done().
		Bytes()

	cf, err := classfile.Parse(bytes.NewReader(data))
	require.NoError(t, err)

	t.Run("class name", func(t *testing.T) {
		assert.Equal(t, "com/acme/Widget", cf.ClassName())
		assert.Equal(t, "java/lang/Object", cf.SuperClassName())
		assert.Equal(t, []string{"java/lang/Runnable", "java/io/Serializable"}, cf.InterfaceNames())
	})

	t.Run("access flags", func(t *testing.T) {
		assert.True(t, cf.AccessFlags.IsPublic())
		assert.False(t, cf.AccessFlags.IsFinal())
		assert.False(t, cf.Flags().IsSynthetic())
	})

	t.Run("attributes", func(t *testing.T) {
		assert.Equal(t, "Ljava/lang/Object;Ljava/lang/Runnable;Ljava/io/Serializable;", cf.Signature())
		assert.Equal(t, "Widget.java", cf.SourceFile())
	})

	t.Run("fields", func(t *testing.T) {
		require.Len(t, cf.Fields, 2)
		max := cf.GetField("MAX")
		require.NotNil(t, max)
		assert.True(t, max.AccessFlags.IsStatic())
		assert.Equal(t, "I", max.Descriptor(cf.ConstantPool))

		name := cf.GetField("name")
		require.NotNil(t, name)
		assert.True(t, name.IsDeprecated(cf.ConstantPool))
		assert.False(t, max.IsDeprecated(cf.ConstantPool))
	})

	t.Run("methods", func(t *testing.T) {
		run := cf.GetMethod("run", "")
		require.NotNil(t, run)
		assert.Equal(t, "()V", run.Descriptor(cf.ConstantPool))
		assert.Nil(t, cf.GetMethod("run", "(I)V"))
	})
}

func TestParseRootClassHasNoSuperclass(t *testing.T) {
	cf, err := classfile.ParseBytes(classtest.New("java/lang/Object").Bytes())
	require.NoError(t, err)
	assert.Equal(t, "", cf.SuperClassName())
}

func TestParseSyntheticAttribute(t *testing.T) {
	data := classtest.New("a/B").
		SyntheticAttribute().
		Method(classfile.AccPublic, "m", "()V").SyntheticAttribute().Done().
		Bytes()
	cf, err := classfile.ParseBytes(data)
	require.NoError(t, err)

	assert.True(t, cf.Flags().IsSynthetic())
	assert.False(t, cf.AccessFlags.IsSynthetic())
	assert.True(t, cf.Methods[0].Flags(cf.ConstantPool).IsSynthetic())
}

func TestParseLongConstantTakesTwoSlots(t *testing.T) {
	data := classtest.New("a/B").
		Annotation("La/Limits;", true,
			classfile.AnnotationValue{Name: "max", Value: int64(1) << 40},
			classfile.AnnotationValue{Name: "label", Value: "after"}).
		Bytes()
	cf, err := classfile.ParseBytes(data)
	require.NoError(t, err)

	attr := cf.GetAttribute(classfile.AttrRuntimeVisibleAnnotations)
	require.NotNil(t, attr)
	ann := attr.AsAnnotations()
	require.NotNil(t, ann)
	require.Len(t, ann.Annotations, 1)
	pairs := ann.Annotations[0].ElementValuePairs
	require.Len(t, pairs, 2)
	assert.Equal(t, "after", cf.ConstantPool.GetUtf8(pairs[1].Value.Value.(uint16)))
}

func TestParseErrors(t *testing.T) {
	valid := classtest.New("a/B").Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 61}},
		{"truncated pool", valid[:12]},
		{"truncated body", valid[:len(valid)-3]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classfile.ParseBytes(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsOversizedAttributeLength(t *testing.T) {
	data := classtest.New("a/B").SourceFile("B.java").Bytes()
	// the SourceFile attribute ends the file: name u2, length u4, index u2
	binary.BigEndian.PutUint32(data[len(data)-6:], 0xFFFFFFFF)

	_, err := classfile.ParseBytes(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "exceeds")
}
