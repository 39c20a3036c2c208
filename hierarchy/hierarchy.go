// Package hierarchy builds the supertype graph of a class.
package hierarchy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/classgraph/resolve"
)

var log = commonlog.GetLogger("classgraph.hierarchy")

// ErrCycle is returned when class files describe a class as its own
// supertype.
var ErrCycle = errors.New("cyclic supertype relation")

// Hierarchy is a directed graph from each class to its direct superclass
// and interfaces, keyed by flat name. Parametrized supertypes contribute
// their erased class.
type Hierarchy struct {
	root *resolve.Symbol
	g    graph.Graph[string, *resolve.Symbol]
}

// Build completes root and every supertype reachable from it. Types that
// could not be resolved are left out; classes missing from the classpath
// stay in as leaves.
func Build(root *resolve.Symbol) (*Hierarchy, error) {
	g := graph.New(func(s *resolve.Symbol) string { return s.FlatName() }, graph.Directed(), graph.PreventCycles())
	if err := g.AddVertex(root); err != nil {
		return nil, err
	}

	queue := []*resolve.Symbol{root}
	for len(queue) > 0 {
		sym := queue[0]
		queue = queue[1:]

		for _, super := range supertypes(sym) {
			switch err := g.AddVertex(super); {
			case err == nil:
				queue = append(queue, super)
			case errors.Is(err, graph.ErrVertexAlreadyExists):
			default:
				return nil, err
			}

			switch err := g.AddEdge(sym.FlatName(), super.FlatName()); {
			case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return nil, fmt.Errorf("%w: %s -> %s", ErrCycle, sym.FlatName(), super.FlatName())
			default:
				return nil, err
			}
		}
	}

	h := &Hierarchy{root: root, g: g}
	log.Debugf("hierarchy of %s has %d classes", root.FlatName(), h.Len())
	return h, nil
}

func supertypes(sym *resolve.Symbol) []*resolve.Symbol {
	var out []*resolve.Symbol
	add := func(t resolve.Type) {
		if t == nil || resolve.IsUnknown(t) || t.Tag() != resolve.TagClass {
			return
		}
		out = append(out, t.Symbol())
	}
	add(sym.Superclass())
	for _, iface := range sym.Interfaces() {
		add(iface)
	}
	return out
}

func (h *Hierarchy) Root() *resolve.Symbol { return h.root }

func (h *Hierarchy) Len() int {
	n, err := h.g.Order()
	if err != nil {
		return 0
	}
	return n
}

// Contains reports whether flat names a class in the hierarchy.
func (h *Hierarchy) Contains(flat string) bool {
	_, err := h.g.Vertex(flat)
	return err == nil
}

// Ancestors lists every supertype of the named class in breadth-first
// order, nearest first.
func (h *Hierarchy) Ancestors(flat string) ([]*resolve.Symbol, error) {
	var out []*resolve.Symbol
	err := graph.BFS(h.g, flat, func(name string) bool {
		if name == flat {
			return false
		}
		sym, err := h.g.Vertex(name)
		if err == nil {
			out = append(out, sym)
		}
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("ancestors of %s: %w", flat, err)
	}
	return out, nil
}

// Order lists the hierarchy with every class after all of its supertypes,
// so the root comes last. Ties are broken by flat name.
func (h *Hierarchy) Order() ([]*resolve.Symbol, error) {
	names, err := graph.StableTopologicalSort(h.g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, err
	}
	out := make([]*resolve.Symbol, len(names))
	for i, name := range names {
		sym, err := h.g.Vertex(name)
		if err != nil {
			return nil, err
		}
		out[len(names)-1-i] = sym
	}
	return out, nil
}

// Supertypes lists the direct supertypes of the named class, sorted by
// flat name.
func (h *Hierarchy) Supertypes(flat string) ([]*resolve.Symbol, error) {
	adj, err := h.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	edges, ok := adj[flat]
	if !ok {
		return nil, fmt.Errorf("%s: %w", flat, graph.ErrVertexNotFound)
	}
	names := make([]string, 0, len(edges))
	for name := range edges {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*resolve.Symbol, len(names))
	for i, name := range names {
		if out[i], err = h.g.Vertex(name); err != nil {
			return nil, err
		}
	}
	return out, nil
}
