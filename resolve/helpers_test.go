package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/classgraph/classpath"
	"github.com/dhamidi/classgraph/internal/classtest"
	"github.com/dhamidi/classgraph/metrics"
	"github.com/dhamidi/classgraph/resolve"
)

const genericObject = "<T:Ljava/lang/Object;>Ljava/lang/Object;"

// countingSource records how often each binary name is read.
type countingSource struct {
	resolve.ClassSource
	reads map[string]int
}

func (s *countingSource) ReadClass(binaryName string) ([]byte, bool, error) {
	s.reads[binaryName]++
	return s.ClassSource.ReadClass(binaryName)
}

func memoryOf(classes ...*classtest.Builder) *classpath.Memory {
	mem := classpath.NewMemory()
	mem.Add("java/lang/Object", classtest.New("java/lang/Object").Bytes())
	mem.Add("java/lang/String", classtest.New("java/lang/String").Bytes())
	for _, b := range classes {
		mem.Add(b.Name(), b.Bytes())
	}
	return mem
}

func newRun(t *testing.T, classes ...*classtest.Builder) *resolve.Completer {
	t.Helper()
	return resolve.NewCompleter(memoryOf(classes...), resolve.WithLogger(commonlog.MOCK_LOGGER))
}

func newMeteredRun(t *testing.T, classes ...*classtest.Builder) (*resolve.Completer, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	c := resolve.NewCompleter(memoryOf(classes...), resolve.WithLogger(commonlog.MOCK_LOGGER), resolve.WithMetrics(m))
	return c, m
}

func mustLoad(t *testing.T, c *resolve.Completer, flat string) *resolve.Symbol {
	t.Helper()
	sym, err := c.Load(flat)
	require.NoError(t, err)
	require.NotNil(t, sym)
	return sym
}

func member(t *testing.T, owner *resolve.Symbol, name string) *resolve.Symbol {
	t.Helper()
	found := owner.Members().Lookup(name)
	require.Len(t, found, 1, "members named %s in %s", name, owner.FlatName())
	return found[0]
}

func fieldType(t *testing.T, owner *resolve.Symbol, name string) resolve.Type {
	t.Helper()
	return member(t, owner, name).Type()
}

func methodType(t *testing.T, owner *resolve.Symbol, name string) *resolve.MethodType {
	t.Helper()
	mt, ok := member(t, owner, name).Type().(*resolve.MethodType)
	require.True(t, ok, "%s is not a method", name)
	return mt
}

func classType(t *testing.T, typ resolve.Type) *resolve.ClassType {
	t.Helper()
	ct, ok := typ.(*resolve.ClassType)
	require.True(t, ok, "%v is not a class type", typ)
	return ct
}
