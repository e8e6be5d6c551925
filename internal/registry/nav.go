package registry

import (
	"iter"
	"sort"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
	"git.home.luguber.info/inful/docregistry/internal/util/sets"
)

// NavNode is one entry of a namespace's navigation tree. Children are
// ordered by weight ascending, ties broken by case-folded title, then path.
type NavNode struct {
	Page     *Page
	Name     string
	Weight   int
	Children []*NavNode
}

// buildNavigation resolves menu parent references name->page once per
// namespace and assembles ordered trees. Dangling parents fail the load in
// strict mode; cycles always do.
func (r *Registry) buildNavigation(opts Options) error {
	type placement struct {
		page   *Page
		name   string
		parent string
		weight int
	}

	byNamespace := make(map[string][]placement)
	for _, path := range r.order {
		page := r.pages[path]
		for ns, m := range page.Menu {
			name := m.Name
			if name == "" {
				name = page.Title
			}
			byNamespace[ns] = append(byNamespace[ns], placement{
				page:   page,
				name:   name,
				parent: m.Parent,
				weight: m.Weight,
			})
		}
	}

	for ns, placements := range byNamespace {
		// Resolve names to pages. A duplicate menu name makes parent
		// references ambiguous and fails the load.
		byName := make(map[string]*placement, len(placements))
		for i := range placements {
			p := &placements[i]
			if p.name == "" {
				return derrors.ValidationError("menu placement has neither name nor title").
					WithContext("path", p.page.Path).
					WithContext("namespace", ns).
					Build()
			}
			if other, exists := byName[p.name]; exists {
				return derrors.ValidationError("duplicate menu name in namespace").
					WithContext("namespace", ns).
					WithContext("name", p.name).
					WithContext("path", p.page.Path).
					WithContext("conflicting_path", other.page.Path).
					Build()
			}
			byName[p.name] = p
		}

		parentOf := make(map[*placement]*placement, len(placements))
		for i := range placements {
			p := &placements[i]
			if p.parent == "" {
				continue
			}
			target, ok := byName[p.parent]
			if !ok {
				if opts.Strict {
					return derrors.ValidationError("menu parent does not resolve to any menu name").
						WithContext("path", p.page.Path).
						WithContext("namespace", ns).
						WithContext("parent", p.parent).
						Build()
				}
				warnDanglingParent(p.page, ns, p.parent)
				continue
			}
			parentOf[p] = target
		}

		// Walk every parent chain with a visited set; revisiting a member
		// of the current chain means a cycle (self-parenting included).
		acyclic := sets.New[*placement]()
		for i := range placements {
			start := &placements[i]
			chain := sets.New[*placement]()
			var names []string
			for p := start; p != nil; p = parentOf[p] {
				if acyclic.Has(p) {
					break
				}
				if chain.Has(p) {
					names = append(names, p.name)
					return derrors.ValidationError("menu parent cycle").
						WithContext("namespace", ns).
						WithContext("cycle", cyclePathString(names)).
						Build()
				}
				chain.Add(p)
				names = append(names, p.name)
			}
			for p := range chain {
				acyclic.Add(p)
			}
		}

		nodes := make(map[*placement]*NavNode, len(placements))
		for i := range placements {
			p := &placements[i]
			nodes[p] = &NavNode{Page: p.page, Name: p.name, Weight: p.weight}
		}
		var roots []*NavNode
		for i := range placements {
			p := &placements[i]
			if parent, ok := parentOf[p]; ok {
				nodes[parent].Children = append(nodes[parent].Children, nodes[p])
			} else {
				roots = append(roots, nodes[p])
			}
		}

		for _, node := range nodes {
			sortSiblings(node.Children)
		}
		sortSiblings(roots)
		r.trees[ns] = roots
	}

	return nil
}

func sortSiblings(nodes []*NavNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Weight != b.Weight {
			return a.Weight < b.Weight
		}
		at, bt := foldCaser.String(a.Page.Title), foldCaser.String(b.Page.Title)
		if at != bt {
			return at < bt
		}
		return a.Page.Path < b.Page.Path
	})
}

// NavigationTree returns the ordered root nodes for a namespace. The
// returned nodes are shared registry state and must not be modified.
// An unknown namespace yields an empty tree.
func (r *Registry) NavigationTree(namespace string) []*NavNode {
	return r.trees[namespace]
}

// Walk returns a lazy depth-first (pre-order) sequence over a namespace's
// navigation tree. The sequence is a pure function of immutable registry
// state: it is finite, restartable, and safe for concurrent use.
func (r *Registry) Walk(namespace string) iter.Seq[*NavNode] {
	roots := r.trees[namespace]
	return func(yield func(*NavNode) bool) {
		var visit func(n *NavNode) bool
		visit = func(n *NavNode) bool {
			if !yield(n) {
				return false
			}
			for _, child := range n.Children {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		for _, root := range roots {
			if !visit(root) {
				return
			}
		}
	}
}
