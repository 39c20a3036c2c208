package classpath

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/classgraph/internal/classtest"
	"github.com/dhamidi/classgraph/metrics"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func zipBytes(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestMemory(t *testing.T) {
	m := NewMemory().Add("a/B", []byte{1}).Add("a/B$C", []byte{2})

	data, found, err := m.ReadClass("a/B$C")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{2}, data)

	_, found, err = m.ReadClass("a/D")
	require.NoError(t, err)
	assert.False(t, found)

	names, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a/B", "a/B$C"}, names)
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	widget := classtest.New("com/acme/Widget").Bytes()
	writeFile(t, filepath.Join(root, "com", "acme", "Widget.class"), widget)
	writeFile(t, filepath.Join(root, "com", "acme", "notes.txt"), []byte("ignored"))

	d := NewDir(root)
	data, found, err := d.ReadClass("com/acme/Widget")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, widget, data)

	_, found, err = d.ReadClass("com/acme/Gadget")
	require.NoError(t, err)
	assert.False(t, found)

	names, err := d.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"com/acme/Widget"}, names)
}

func TestJar(t *testing.T) {
	dir := t.TempDir()
	inner := zipBytes(t, map[string][]byte{
		"org/lib/Util.class":    []byte("util"),
		"com/acme/Widget.class": []byte("shadowed"),
	})
	path := filepath.Join(dir, "app.jar")
	writeFile(t, path, zipBytes(t, map[string][]byte{
		"BOOT-INF/classes/com/acme/Widget.class": []byte("widget"),
		"BOOT-INF/lib/util.jar":                  inner,
		"META-INF/MANIFEST.MF":                   []byte("Manifest-Version: 1.0\n"),
	}))

	j, err := OpenJar(path)
	require.NoError(t, err)
	defer j.Close()

	t.Run("own classes", func(t *testing.T) {
		data, found, err := j.ReadClass("com/acme/Widget")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "widget", string(data))
	})

	t.Run("nested jar", func(t *testing.T) {
		data, found, err := j.ReadClass("org/lib/Util")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "util", string(data))
	})

	t.Run("list", func(t *testing.T) {
		names, err := j.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"com/acme/Widget", "org/lib/Util"}, names)
	})
}

func TestPathSearchOrder(t *testing.T) {
	m := metrics.New()
	p := New(
		NewMemory().Add("a/B", []byte("first")),
		NewMemory().Add("a/B", []byte("second")).Add("a/C", []byte("c")),
	)
	p.metrics = m

	data, found, err := p.ReadClass("a/B")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "first", string(data))

	data, found, err = p.ReadClass("a/C")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "c", string(data))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ClasspathLookups.WithLabelValues("memory", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClasspathLookups.WithLabelValues("memory", "miss")))
}

func TestPathList(t *testing.T) {
	p := New(
		NewMemory().Add("com/acme/Widget", nil).Add("com/acme/Widget$Builder", nil).Add("com/acme/module-info", nil),
		NewMemory().Add("com/acme/impl/Engine", nil).Add("com/acme/Widget", nil),
	)

	all, err := p.List(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Widget", "com.acme.Widget.Builder", "com.acme.impl.Engine"}, all)

	g, err := CompileMatch("com.acme.*")
	require.NoError(t, err)
	direct, err := p.List(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Widget"}, direct)

	g, err = CompileMatch("com.acme.**")
	require.NoError(t, err)
	deep, err := p.List(g)
	require.NoError(t, err)
	assert.Equal(t, all, deep)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "lib.jar")
	writeFile(t, jar, zipBytes(t, map[string][]byte{"x/Y.class": []byte("y")}))
	classes := filepath.Join(dir, "classes")
	require.NoError(t, os.MkdirAll(classes, 0o755))

	p, err := Open([]string{classes, jar}, nil)
	require.NoError(t, err)
	defer p.Close()
	require.Len(t, p.Entries(), 2)
	assert.Equal(t, "dir", p.Entries()[0].Kind())
	assert.Equal(t, "jar", p.Entries()[1].Kind())

	_, found, err := p.ReadClass("x/Y")
	require.NoError(t, err)
	assert.True(t, found)

	_, err = Open([]string{filepath.Join(dir, "missing")}, nil)
	assert.Error(t, err)

	txt := filepath.Join(dir, "notes.txt")
	writeFile(t, txt, []byte("x"))
	_, err = Open([]string{txt}, nil)
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	sep := string(os.PathListSeparator)
	got := SplitList([]string{"a" + sep + "b", " ", "c" + sep})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
