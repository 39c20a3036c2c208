package resolve

// Scope is an insertion-ordered multiset of symbols keyed by name. Several
// symbols may share a name; narrowing by kind or arity is up to the caller.
type Scope struct {
	owner  *Symbol
	order  []*Symbol
	byName map[string][]*Symbol
}

func NewScope(owner *Symbol) *Scope {
	return &Scope{owner: owner, byName: make(map[string][]*Symbol)}
}

func (s *Scope) Owner() *Symbol {
	if s == nil {
		return nil
	}
	return s.owner
}

func (s *Scope) Enter(sym *Symbol) {
	s.order = append(s.order, sym)
	s.byName[sym.name] = append(s.byName[sym.name], sym)
}

// Lookup returns every symbol entered under name, in insertion order.
func (s *Scope) Lookup(name string) []*Symbol {
	if s == nil {
		return nil
	}
	return s.byName[name]
}

// Symbols returns all entries in insertion order. The slice must not be
// modified.
func (s *Scope) Symbols() []*Symbol {
	if s == nil {
		return nil
	}
	return s.order
}

func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
