package resolve

import (
	"fmt"

	"github.com/dhamidi/classgraph/classfile"
)

// expectation names the position a type signature is read for. It decides
// which forms are legal there and labels parse errors.
type expectation int

const (
	expectSuperclass expectation = iota
	expectInterface
	expectBound
	expectTypeArgument
	expectArrayElement
	expectParameter
	expectReturn
	expectThrown
	expectField
)

var expectationNames = [...]string{
	expectSuperclass:   "superclass",
	expectInterface:    "interface",
	expectBound:        "bound",
	expectTypeArgument: "type argument",
	expectArrayElement: "array element",
	expectParameter:    "parameter",
	expectReturn:       "return type",
	expectThrown:       "thrown type",
	expectField:        "field type",
}

func (e expectation) String() string { return expectationNames[e] }

// allowsPrimitive reports whether a base type may appear in this position.
func (e expectation) allowsPrimitive() bool {
	switch e {
	case expectArrayElement, expectParameter, expectReturn, expectField:
		return true
	}
	return false
}

// allowsTypeVariable reports whether a bare type variable may appear here.
func (e expectation) allowsTypeVariable() bool {
	return e != expectSuperclass && e != expectInterface
}

// signatureReader is a recursive descent parser over one generic signature.
// Type variables are looked up from context outwards through its owners.
type signatureReader struct {
	c       *Completer
	context *Symbol
	sig     string
	pos     int
}

func newSignatureReader(c *Completer, context *Symbol, sig string) *signatureReader {
	return &signatureReader{c: c, context: context, sig: sig}
}

func (sr *signatureReader) errorf(format string, args ...any) error {
	return fmt.Errorf("signature %q at %d: %s", sr.sig, sr.pos, fmt.Sprintf(format, args...))
}

func (sr *signatureReader) eof() bool { return sr.pos >= len(sr.sig) }

func (sr *signatureReader) peek() byte {
	if sr.eof() {
		return 0
	}
	return sr.sig[sr.pos]
}

func (sr *signatureReader) consume(b byte) error {
	if sr.peek() != b {
		if sr.eof() {
			return sr.errorf("expected %q, got end of signature", b)
		}
		return sr.errorf("expected %q, got %q", b, sr.peek())
	}
	sr.pos++
	return nil
}

// identifier reads up to, not including, the first of the stop bytes.
func (sr *signatureReader) identifier(stops string) (string, error) {
	start := sr.pos
	for !sr.eof() {
		c := sr.sig[sr.pos]
		for i := 0; i < len(stops); i++ {
			if c == stops[i] {
				if sr.pos == start {
					return "", sr.errorf("empty identifier")
				}
				return sr.sig[start:sr.pos], nil
			}
		}
		sr.pos++
	}
	return "", sr.errorf("unterminated identifier")
}

// classSignature reads TypeParameters? SuperclassSignature
// SuperinterfaceSignature*. Type parameters are declared into class.
func (sr *signatureReader) classSignature(class *Symbol) (Type, []Type, error) {
	if sr.peek() == '<' {
		if err := sr.typeParameters(class); err != nil {
			return nil, nil, err
		}
	}
	super, err := sr.classType(expectSuperclass)
	if err != nil {
		return nil, nil, err
	}
	var ifaces []Type
	for !sr.eof() {
		iface, err := sr.classType(expectInterface)
		if err != nil {
			return nil, nil, err
		}
		ifaces = append(ifaces, iface)
	}
	return super, ifaces, nil
}

type methodSignature struct {
	args      []Type
	result    Type
	thrown    []Type
	hasThrown bool
}

// methodSignature reads TypeParameters? ( Type* ) Result ThrowsSignature*.
func (sr *signatureReader) methodSignature(method *Symbol) (methodSignature, error) {
	var ms methodSignature
	if sr.peek() == '<' {
		if err := sr.typeParameters(method); err != nil {
			return ms, err
		}
	}
	if err := sr.consume('('); err != nil {
		return ms, err
	}
	for sr.peek() != ')' {
		if sr.eof() {
			return ms, sr.errorf("unterminated parameter list")
		}
		t, err := sr.typeSignature(expectParameter)
		if err != nil {
			return ms, err
		}
		ms.args = append(ms.args, t)
	}
	sr.pos++

	if sr.peek() == 'V' {
		sr.pos++
		ms.result = sr.c.symbols.Void
	} else {
		t, err := sr.typeSignature(expectReturn)
		if err != nil {
			return ms, err
		}
		ms.result = t
	}

	for sr.peek() == '^' {
		sr.pos++
		ms.hasThrown = true
		t, err := sr.typeSignature(expectThrown)
		if err != nil {
			return ms, err
		}
		ms.thrown = append(ms.thrown, t)
	}
	if !sr.eof() {
		return ms, sr.errorf("trailing characters")
	}
	return ms, nil
}

func (sr *signatureReader) fieldSignature() (Type, error) {
	t, err := sr.typeSignature(expectField)
	if err != nil {
		return nil, err
	}
	if !sr.eof() {
		return nil, sr.errorf("trailing characters")
	}
	return t, nil
}

// typeParameters declares every parameter before reading any bound, so
// bounds may refer to parameters declared after them.
func (sr *signatureReader) typeParameters(owner *Symbol) error {
	if err := sr.consume('<'); err != nil {
		return err
	}

	type pending struct {
		tv          *TypeVariableType
		boundsStart int
	}
	var params []pending
	for sr.peek() != '>' {
		if sr.eof() {
			return sr.errorf("unterminated type parameters")
		}
		name, err := sr.identifier(":")
		if err != nil {
			return err
		}
		if len(owner.params.Lookup(name)) > 0 {
			return internalErrorf(owner, "signature", "duplicate type parameter %s", name)
		}
		sym := sr.c.newSymbol(KindTypeVariable, name, owner, 0)
		tv := &TypeVariableType{sym: sym}
		sym.typ = tv
		owner.params.Enter(sym)
		params = append(params, pending{tv: tv, boundsStart: sr.pos})

		// ':' ClassBound? (':' InterfaceBound)*
		for sr.peek() == ':' {
			sr.pos++
			if c := sr.peek(); c == ':' || c == '>' {
				continue
			}
			if err := sr.skipReference(); err != nil {
				return err
			}
		}
	}
	end := sr.pos + 1

	for _, p := range params {
		sr.pos = p.boundsStart
		for sr.peek() == ':' {
			sr.pos++
			if c := sr.peek(); c == ':' || c == '>' {
				continue
			}
			b, err := sr.typeSignature(expectBound)
			if err != nil {
				return err
			}
			p.tv.bounds = append(p.tv.bounds, b)
		}
		if len(p.tv.bounds) == 0 {
			p.tv.bounds = []Type{sr.c.ObjectType()}
		}
	}
	sr.pos = end
	return nil
}

// skipReference advances over one reference type signature without
// resolving it.
func (sr *signatureReader) skipReference() error {
	switch sr.peek() {
	case 'L':
		depth := 0
		for !sr.eof() {
			c := sr.sig[sr.pos]
			sr.pos++
			switch c {
			case '<':
				depth++
			case '>':
				depth--
			case ';':
				if depth == 0 {
					return nil
				}
			}
		}
		return sr.errorf("unterminated class type")
	case 'T':
		sr.pos++
		_, err := sr.identifier(";")
		sr.pos++
		return err
	case '[':
		sr.pos++
		if _, ok := classfile.BaseTypes[sr.peek()]; ok {
			sr.pos++
			return nil
		}
		return sr.skipReference()
	}
	return sr.errorf("expected reference type")
}

func (sr *signatureReader) typeSignature(exp expectation) (Type, error) {
	c := sr.peek()
	switch c {
	case 'L':
		return sr.classType(exp)
	case 'T':
		if !exp.allowsTypeVariable() {
			return nil, sr.errorf("type variable not allowed as %s", exp)
		}
		sr.pos++
		name, err := sr.identifier(";")
		if err != nil {
			return nil, err
		}
		sr.pos++
		return sr.lookupTypeVariable(name)
	case '[':
		sr.pos++
		elem, err := sr.typeSignature(expectArrayElement)
		if err != nil {
			return nil, err
		}
		return sr.c.arrayOf(elem), nil
	}
	if _, ok := classfile.BaseTypes[c]; ok {
		if !exp.allowsPrimitive() {
			return nil, sr.errorf("primitive type not allowed as %s", exp)
		}
		sr.pos++
		return sr.c.symbols.Primitive(c), nil
	}
	if sr.eof() {
		return nil, sr.errorf("expected %s, got end of signature", exp)
	}
	return nil, sr.errorf("expected %s, got %q", exp, c)
}

// classType reads L pkg/Name TypeArguments? (. Inner TypeArguments?)* ;
// Inner suffixes resolve to Outer$Inner; type arguments of the outer part
// are dropped.
func (sr *signatureReader) classType(exp expectation) (Type, error) {
	if err := sr.consume('L'); err != nil {
		return nil, fmt.Errorf("%s: %w", exp, err)
	}
	binary, err := sr.identifier("<.;")
	if err != nil {
		return nil, err
	}
	args, err := sr.typeArguments()
	if err != nil {
		return nil, err
	}
	for sr.peek() == '.' {
		sr.pos++
		inner, err := sr.identifier("<.;")
		if err != nil {
			return nil, err
		}
		binary += "$" + inner
		if args, err = sr.typeArguments(); err != nil {
			return nil, err
		}
	}
	if err := sr.consume(';'); err != nil {
		return nil, err
	}

	sym := sr.c.classSymbol(binary, 0)
	if len(args) == 0 {
		return sym.typ, nil
	}
	return sr.c.parametrized(sym, args), nil
}

// typeArguments reads an optional < TypeArgument+ >. Bounded wildcards keep
// only their bound; * stands for java.lang.Object.
func (sr *signatureReader) typeArguments() ([]Type, error) {
	if sr.peek() != '<' {
		return nil, nil
	}
	sr.pos++
	var args []Type
	for sr.peek() != '>' {
		switch sr.peek() {
		case 0:
			return nil, sr.errorf("unterminated type arguments")
		case '*':
			sr.pos++
			args = append(args, sr.c.ObjectType())
			continue
		case '+', '-':
			sr.pos++
		}
		t, err := sr.typeSignature(expectTypeArgument)
		if err != nil {
			return nil, err
		}
		args = append(args, t)
	}
	sr.pos++
	if len(args) == 0 {
		return nil, sr.errorf("empty type arguments")
	}
	return args, nil
}

// lookupTypeVariable searches the type parameters of the context symbol,
// then of each enclosing method or class.
func (sr *signatureReader) lookupTypeVariable(name string) (Type, error) {
	sawMissing := false
	for sym := sr.context; sym != nil && (sym.kind == KindType || sym.kind == KindMethod); sym = sym.owner {
		sym.complete()
		if sym.missing {
			sawMissing = true
			continue
		}
		switch found := sym.params.Lookup(name); len(found) {
		case 0:
		case 1:
			return found[0].typ, nil
		default:
			return nil, internalErrorf(sr.context, "signature", "type variable %s declared %d times in %s", name, len(found), sym.FlatName())
		}
	}
	if sawMissing {
		return Unknown, nil
	}
	return nil, internalErrorf(sr.context, "signature", "type variable %s not found", name)
}

// parametrized completes sym to learn its type variables and returns the
// cached instantiation, or the erasure when the argument count disagrees.
func (c *Completer) parametrized(sym *Symbol, args []Type) Type {
	sym.complete()
	vars := sym.params.Symbols()
	if sym.missing || len(vars) != len(args) {
		if !sym.missing {
			c.log.Debug("type argument count mismatch", "run", c.runID, "class", sym.flat, "want", len(vars), "got", len(args))
		}
		return sym.typ
	}
	subst := Substitution{vars: make([]*TypeVariableType, len(vars)), args: args}
	for i, v := range vars {
		subst.vars[i] = v.typ.(*TypeVariableType)
	}
	return c.cache.Get(sym, subst)
}
