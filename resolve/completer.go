package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/classgraph/classfile"
	"github.com/dhamidi/classgraph/metrics"
)

// ClassSource yields class file bytes by binary name (a/b/C$D). A missing
// class is reported with found == false, not with an error.
type ClassSource interface {
	ReadClass(binaryName string) (data []byte, found bool, err error)
}

// Symbols are the built-in symbols of one Completer.
type Symbols struct {
	Root       *Symbol
	ArrayClass *Symbol

	Byte, Char, Short, Int, Long, Float, Double, Boolean, Void *PrimitiveType
}

// Primitive returns the type for a descriptor base type character.
func (s *Symbols) Primitive(base byte) *PrimitiveType {
	switch base {
	case 'B':
		return s.Byte
	case 'C':
		return s.Char
	case 'S':
		return s.Short
	case 'I':
		return s.Int
	case 'J':
		return s.Long
	case 'F':
		return s.Float
	case 'D':
		return s.Double
	case 'Z':
		return s.Boolean
	case 'V':
		return s.Void
	}
	return nil
}

type Option func(*Completer)

func WithLogger(log commonlog.Logger) Option {
	return func(c *Completer) { c.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Completer) { c.metrics = m }
}

// Completer owns the symbol graph of one analysis run: the class table keyed
// by flat name, the packages, the built-in symbols and the parametrized type
// cache. It is not safe for concurrent use.
type Completer struct {
	runID   string
	log     commonlog.Logger
	metrics *metrics.Metrics
	source  ClassSource

	nextID   uint64
	classes  map[string]*Symbol
	packages map[string]*Symbol
	arrays   map[string]*ArrayType
	cache    *ParametrizedTypeCache
	symbols  *Symbols
	err      error
}

func NewCompleter(source ClassSource, opts ...Option) *Completer {
	c := &Completer{
		runID:    uuid.NewString(),
		log:      commonlog.GetLogger("classgraph.resolve"),
		source:   source,
		classes:  make(map[string]*Symbol),
		packages: make(map[string]*Symbol),
		arrays:   make(map[string]*ArrayType),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = NewParametrizedTypeCache(c.metrics)
	c.symbols = c.newBuiltins()
	return c
}

func (c *Completer) newBuiltins() *Symbols {
	root := c.newSymbol(KindPackage, "", nil, 0)
	root.members = NewScope(root)
	c.packages[""] = root

	s := &Symbols{Root: root}
	prim := func(kind PrimitiveKind) *PrimitiveType {
		sym := c.newSymbol(KindType, kind.String(), root, Public)
		sym.flat = kind.String()
		sym.members = NewScope(sym)
		t := &PrimitiveType{kind: kind, sym: sym}
		sym.typ = t
		return t
	}
	s.Byte, s.Char, s.Short, s.Int = prim(Byte), prim(Char), prim(Short), prim(Int)
	s.Long, s.Float, s.Double, s.Boolean = prim(Long), prim(Float), prim(Double), prim(Boolean)
	s.Void = prim(Void)

	array := c.newSymbol(KindType, "Array", root, Public)
	array.flat = "Array"
	array.members = NewScope(array)
	array.params = NewScope(array)
	array.typ = &ClassType{
		sym:       array,
		supertype: c.ObjectType(),
		interfaces: []Type{
			c.classSymbol("java/lang/Cloneable", 0).typ,
			c.classSymbol("java/io/Serializable", 0).typ,
		},
	}
	length := c.newSymbol(KindVariable, "length", array, Public|Final)
	length.typ = s.Int
	array.members.Enter(length)
	s.ArrayClass = array
	return s
}

// RunID identifies this Completer in log output.
func (c *Completer) RunID() string { return c.runID }

func (c *Completer) Symbols() *Symbols { return c.symbols }

func (c *Completer) Cache() *ParametrizedTypeCache { return c.cache }

// Err returns the internal consistency failure that stopped the run, if any.
// Once set, no further class is completed.
func (c *Completer) Err() error { return c.err }

// ObjectType is the erased type of java.lang.Object.
func (c *Completer) ObjectType() *ClassType {
	return c.classSymbol("java/lang/Object", 0).typ.(*ClassType)
}

// ClassSymbol returns the class symbol for a flat name, creating an
// unresolved shell when the name is new. It never completes the symbol, and
// a shell joins its package's members only once completion places it there.
func (c *Completer) ClassSymbol(flat string) *Symbol {
	return c.ClassSymbolWithFlags(flat, 0)
}

// ClassSymbolWithFlags is ClassSymbol that seeds the flags of a new shell.
func (c *Completer) ClassSymbolWithFlags(flat string, flags Flags) *Symbol {
	if sym, ok := c.classes[flat]; ok {
		return sym
	}
	sym := c.newSymbol(KindType, classfile.SimpleName(flat), nil, flags)
	sym.flat = flat
	sym.completer = c
	sym.typ = &ClassType{sym: sym}
	c.classes[flat] = sym
	return sym
}

// classSymbol resolves a binary name met in bytecode and remembers it, so
// the symbol's class file is found without probing.
func (c *Completer) classSymbol(binary string, flags Flags) *Symbol {
	sym := c.ClassSymbolWithFlags(classfile.FlatName(binary), flags)
	if sym.binaryName == "" {
		sym.binaryName = binary
	}
	return sym
}

// Load returns the completed class symbol for a flat name. The error is
// ErrNotFound or a read failure for missing classes, and the run's internal
// error once one occurred.
func (c *Completer) Load(flat string) (*Symbol, error) {
	sym := c.ClassSymbol(flat)
	sym.complete()
	if c.err != nil {
		return sym, c.err
	}
	if sym.missing {
		return sym, sym.loadErr
	}
	return sym, nil
}

// Package returns the package symbol for a flat package name, creating it
// and its enclosing packages as needed.
func (c *Completer) Package(flat string) *Symbol {
	if pkg, ok := c.packages[flat]; ok {
		return pkg
	}
	owner := c.Package(classfile.PackageName(flat))
	pkg := c.newSymbol(KindPackage, classfile.SimpleName(flat), owner, 0)
	pkg.flat = flat
	pkg.members = NewScope(pkg)
	owner.members.Enter(pkg)
	c.packages[flat] = pkg
	return pkg
}

// Classes returns every class symbol known so far, sorted by flat name,
// without completing any of them.
func (c *Completer) Classes() []*Symbol {
	out := make([]*Symbol, 0, len(c.classes))
	for _, sym := range c.classes {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].flat < out[j].flat })
	return out
}

func (c *Completer) newSymbol(kind Kind, name string, owner *Symbol, flags Flags) *Symbol {
	c.nextID++
	return &Symbol{id: c.nextID, kind: kind, name: name, owner: owner, flags: flags}
}

func (c *Completer) arrayOf(elem Type) *ArrayType {
	k := elem.key()
	if t, ok := c.arrays[k]; ok {
		return t
	}
	t := &ArrayType{elem: elem, sym: c.symbols.ArrayClass}
	c.arrays[k] = t
	return t
}

func (c *Completer) descriptorType(ft classfile.FieldType) Type {
	var t Type
	if ft.Base != 0 {
		t = c.symbols.Primitive(ft.Base)
	} else {
		t = c.classSymbol(ft.ClassName, 0).typ
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		t = c.arrayOf(t)
	}
	return t
}

func (c *Completer) complete(sym *Symbol) {
	sym.state = completing
	defer func() { sym.state = complete }()

	if c.err != nil {
		c.fail(sym)
		return
	}

	start := time.Now()
	data, binary, err := c.read(sym)
	if err != nil {
		c.log.Warning("cannot read class", "run", c.runID, "class", sym.flat, "error", err)
		c.markMissing(sym, err)
		return
	}
	if data == nil {
		c.log.Info("class not on classpath", "run", c.runID, "class", sym.flat)
		c.markMissing(sym, fmt.Errorf("%w: %s", ErrNotFound, sym.flat))
		return
	}
	sym.binaryName = binary

	cf, err := classfile.ParseBytes(data)
	if err == nil {
		err = classfile.Accept(cf, newBytecodeReader(c, sym))
	}
	var internal *InternalError
	switch {
	case errors.As(err, &internal):
		if c.err == nil {
			c.err = err
			c.metrics.InternalError()
			c.log.Critical("internal consistency failure", "run", c.runID, "class", sym.flat, "error", err)
		}
		c.fail(sym)
		return
	case err != nil:
		c.log.Warning("cannot parse class file", "run", c.runID, "class", sym.flat, "binary", binary, "error", err)
		c.markMissing(sym, fmt.Errorf("parse %s: %w", binary, err))
		return
	}

	c.metrics.ClassCompleted(time.Since(start))
	c.log.Debug("class completed", "run", c.runID, "class", sym.flat, "members", sym.members.Len())
}

// read finds the class file of sym. A nil slice with a nil error means not
// found.
func (c *Completer) read(sym *Symbol) ([]byte, string, error) {
	if c.source == nil {
		return nil, "", nil
	}
	candidates := classfile.BinaryNameCandidates(sym.flat)
	if sym.binaryName != "" {
		candidates = []string{sym.binaryName}
	}
	for _, binary := range candidates {
		data, found, err := c.source.ReadClass(binary)
		if err != nil {
			return nil, binary, fmt.Errorf("read %s: %w", binary, err)
		}
		if found {
			return data, binary, nil
		}
	}
	return nil, "", nil
}

// markMissing leaves sym complete but empty, owned by the package its name
// suggests. It is not entered into that package.
func (c *Completer) markMissing(sym *Symbol, cause error) {
	c.metrics.ClassMissing()
	c.fail(sym)
	sym.loadErr = cause
}

func (c *Completer) fail(sym *Symbol) {
	sym.missing = true
	sym.parametrized = false
	sym.members = nil
	sym.params = nil
	sym.annotations = nil
	sym.sourceFile = ""
	if ct, ok := sym.typ.(*ClassType); ok {
		ct.supertype = nil
		ct.interfaces = nil
	}
	if sym.owner == nil {
		pkg := classfile.PackageName(sym.flat)
		if sym.binaryName != "" {
			pkg = binaryPackage(sym.binaryName)
		}
		sym.owner = c.Package(pkg)
	}
}

// binaryPackage is the flat package name of a binary class name.
func binaryPackage(binary string) string {
	i := strings.LastIndexByte(binary, '/')
	if i < 0 {
		return ""
	}
	return classfile.FlatName(binary[:i])
}
