package classfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/classgraph/classfile"
)

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc string
		want classfile.FieldType
		str  string
	}{
		{"I", classfile.FieldType{Base: 'I'}, "int"},
		{"[[J", classfile.FieldType{Base: 'J', ArrayDepth: 2}, "long[][]"},
		{"Ljava/lang/String;", classfile.FieldType{ClassName: "java/lang/String"}, "java.lang.String"},
		{"[Ljava/util/Map$Entry;", classfile.FieldType{ClassName: "java/util/Map$Entry", ArrayDepth: 1}, "java.util.Map$Entry[]"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := classfile.ParseFieldDescriptor(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.str, got.String())
		})
	}
}

func TestParseFieldDescriptorErrors(t *testing.T) {
	for _, desc := range []string{"", "[", "Q", "Ljava/lang/String", "L;", "II"} {
		t.Run(desc, func(t *testing.T) {
			_, err := classfile.ParseFieldDescriptor(desc)
			assert.Error(t, err)
		})
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	md, err := classfile.ParseMethodDescriptor("(I)Ljava/lang/String;")
	require.NoError(t, err)
	assert.Equal(t, []classfile.FieldType{{Base: 'I'}}, md.Parameters)
	require.NotNil(t, md.Return)
	assert.Equal(t, "java/lang/String", md.Return.ClassName)
	assert.Equal(t, "(int) java.lang.String", md.String())

	md, err = classfile.ParseMethodDescriptor("([Ljava/lang/String;JZ)V")
	require.NoError(t, err)
	assert.Len(t, md.Parameters, 3)
	assert.Nil(t, md.Return)
	assert.Equal(t, "(java.lang.String[], long, boolean) void", md.String())
}

func TestParseMethodDescriptorErrors(t *testing.T) {
	for _, desc := range []string{"", "I", "(I", "(I)", "(X)V", "()VV", "()Ljava/lang/String"} {
		t.Run(desc, func(t *testing.T) {
			_, err := classfile.ParseMethodDescriptor(desc)
			assert.Error(t, err)
		})
	}
}
