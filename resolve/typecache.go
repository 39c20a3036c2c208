package resolve

import (
	"strconv"
	"strings"

	"github.com/dhamidi/classgraph/metrics"
)

// Substitution maps the type variables of a generic class to type
// arguments, in declaration order.
type Substitution struct {
	vars []*TypeVariableType
	args []Type
}

func (s Substitution) Len() int { return len(s.vars) }

func (s Substitution) Variables() []*TypeVariableType { return s.vars }

func (s Substitution) Arguments() []Type { return s.args }

// Lookup returns the argument bound to tv.
func (s Substitution) Lookup(tv *TypeVariableType) (Type, bool) {
	for i, v := range s.vars {
		if v == tv {
			return s.args[i], true
		}
	}
	return nil, false
}

func (s Substitution) key() string {
	var sb strings.Builder
	for i, v := range s.vars {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(v.sym.id, 10))
		sb.WriteByte('=')
		sb.WriteString(s.args[i].key())
	}
	return sb.String()
}

// ParametrizedTypeCache hands out one ClassType per generic symbol and
// substitution, so equal instantiations are the same pointer. Entries live
// as long as the cache.
type ParametrizedTypeCache struct {
	types   map[string]*ClassType
	metrics *metrics.Metrics
}

func NewParametrizedTypeCache(m *metrics.Metrics) *ParametrizedTypeCache {
	return &ParametrizedTypeCache{types: make(map[string]*ClassType), metrics: m}
}

// Get returns the canonical parametrized type of sym under subst. The
// erasure is the symbol's own class type.
func (c *ParametrizedTypeCache) Get(sym *Symbol, subst Substitution) *ClassType {
	k := strconv.FormatUint(sym.id, 10) + "<" + subst.key() + ">"
	if t, ok := c.types[k]; ok {
		c.metrics.CacheHit()
		return t
	}
	c.metrics.CacheMiss()

	erasure, _ := sym.typ.(*ClassType)
	t := &ClassType{sym: sym, erasure: erasure, subst: subst}
	c.types[k] = t
	return t
}

func (c *ParametrizedTypeCache) Len() int {
	return len(c.types)
}
