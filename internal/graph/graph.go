// Package graph resolves dtype references between the root record and custom
// dtypes, producing a cycle-aware build order for the type model builder.
package graph

import (
	"fmt"

	"github.com/goliatone/go-structspec/pkg/spec"
)

// Group is one strongly-connected component of the reference graph. Cyclic
// groups (mutual references, or a single self-referential type) require the
// builder's two-phase declare-then-populate construction.
type Group struct {
	Members []string
	Cyclic  bool
}

// BuildOrder lists the strongly-connected components of the reference graph
// in dependency order: every reference from a group points either into the
// group itself or into an earlier group.
type BuildOrder struct {
	Sequence []Group
}

// Names flattens the order into a single name sequence.
func (o BuildOrder) Names() []string {
	var names []string
	for _, group := range o.Sequence {
		names = append(names, group.Members...)
	}
	return names
}

// HasCycle reports whether any group in the order is cyclic.
func (o BuildOrder) HasCycle() bool {
	for _, group := range o.Sequence {
		if group.Cyclic {
			return true
		}
	}
	return false
}

// Resolve builds the reference graph for a parsed specification and returns a
// build order. This is the authoritative unknown-dtype check: unlike the
// parser's shallow pass it sees the complete custom dtype namespace. Cycles
// are never an error.
func Resolve(ms spec.ModelSpec) (BuildOrder, error) {
	nodes := ms.TypeNames()
	edges := make(map[string][]string, len(nodes))
	selfRef := make(map[string]bool, len(nodes))

	// Only custom dtypes are referenceable; a dtype naming the root record
	// is as unresolved as one naming nothing.
	declared := make(map[string]struct{}, len(ms.CustomDtypes))
	for _, custom := range ms.CustomDtypes {
		declared[custom.Name] = struct{}{}
	}

	addEdges := func(owner string, fields []spec.Field, basePath string) error {
		for idx, field := range fields {
			dtype := field.Specification.Dtype
			if _, ok := spec.PrimitiveFromName(dtype); ok {
				continue
			}
			if _, ok := declared[dtype]; !ok {
				path := fmt.Sprintf("%s[%d]", basePath, idx)
				return spec.NewError(spec.KindUnknownType, path, "unknown dtype %q", dtype)
			}
			edges[owner] = append(edges[owner], dtype)
			if dtype == owner {
				selfRef[owner] = true
			}
		}
		return nil
	}

	if err := addEdges(ms.Name, ms.Fields, "fields"); err != nil {
		return BuildOrder{}, err
	}
	for idx, custom := range ms.CustomDtypes {
		basePath := fmt.Sprintf("custom_dtypes[%d].fields", idx)
		if err := addEdges(custom.Name, custom.Fields, basePath); err != nil {
			return BuildOrder{}, err
		}
	}

	components := stronglyConnected(nodes, edges)

	order := BuildOrder{Sequence: make([]Group, 0, len(components))}
	for _, members := range components {
		cyclic := len(members) > 1
		if !cyclic && selfRef[members[0]] {
			cyclic = true
		}
		order.Sequence = append(order.Sequence, Group{Members: members, Cyclic: cyclic})
	}
	return order, nil
}

// stronglyConnected runs Tarjan's algorithm over the reference graph. With
// edges pointing from a type to the types it references, a component pops
// only after everything reachable from it has popped, so the emission order
// is already dependencies-first. Visit order follows declaration order,
// keeping the output stable.
func stronglyConnected(nodes []string, edges map[string][]string) [][]string {
	state := &tarjanState{
		edges:   edges,
		index:   make(map[string]int, len(nodes)),
		lowlink: make(map[string]int, len(nodes)),
		onStack: make(map[string]bool, len(nodes)),
	}

	for _, node := range nodes {
		if _, visited := state.index[node]; !visited {
			state.connect(node)
		}
	}

	return state.components
}

type tarjanState struct {
	edges      map[string][]string
	index      map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	next       int
	components [][]string
}

func (s *tarjanState) connect(node string) {
	s.index[node] = s.next
	s.lowlink[node] = s.next
	s.next++
	s.stack = append(s.stack, node)
	s.onStack[node] = true

	for _, target := range s.edges[node] {
		if _, visited := s.index[target]; !visited {
			s.connect(target)
			if s.lowlink[target] < s.lowlink[node] {
				s.lowlink[node] = s.lowlink[target]
			}
		} else if s.onStack[target] {
			if s.index[target] < s.lowlink[node] {
				s.lowlink[node] = s.index[target]
			}
		}
	}

	if s.lowlink[node] != s.index[node] {
		return
	}

	var members []string
	for {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.onStack[top] = false
		members = append(members, top)
		if top == node {
			break
		}
	}
	// Restore declaration order within the component; the stack pops in
	// reverse visit order.
	for i, j := 0, len(members)-1; i < j; i, j = i+1, j-1 {
		members[i], members[j] = members[j], members[i]
	}
	s.components = append(s.components, members)
}
