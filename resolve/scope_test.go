package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeKeepsOverloadsInOrder(t *testing.T) {
	owner := &Symbol{kind: KindType, name: "Widget"}
	s := NewScope(owner)
	first := &Symbol{kind: KindMethod, name: "add"}
	field := &Symbol{kind: KindVariable, name: "size"}
	second := &Symbol{kind: KindMethod, name: "add"}
	s.Enter(first)
	s.Enter(field)
	s.Enter(second)

	assert.Same(t, owner, s.Owner())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []*Symbol{first, second}, s.Lookup("add"))
	assert.Equal(t, []*Symbol{first, field, second}, s.Symbols())
	assert.Empty(t, s.Lookup("remove"))
}

func TestNilScope(t *testing.T) {
	var s *Scope
	assert.Nil(t, s.Owner())
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Lookup("x"))
	assert.Empty(t, s.Symbols())
}
