package gff

import (
	"strings"
)

// Feature is one node of the annotation graph: a BaseData record plus its
// links to parents, children, co-features and memoized top-level
// ancestors. Nodes are mutable while their flush window is open and must
// be treated as frozen once the codec emits them.
//
// Discontinuous features split across several lines share an ID and are
// cross-linked as co-features; the co-feature set is always a full clique.
type Feature struct {
	BaseData

	parents    featureSet
	children   featureSet
	coFeatures featureSet

	// topLevel memoizes the top-level (parentless) ancestors this node
	// descends from. Empty exactly when the node is itself top-level.
	topLevel featureSet
}

// NewFeature wraps parsed base data in an unlinked graph node.
func NewFeature(data BaseData) *Feature {
	return &Feature{BaseData: data}
}

// featureSet is an insertion-ordered set of nodes.
type featureSet struct {
	items []*Feature
	index map[*Feature]struct{}
}

func (s *featureSet) add(f *Feature) bool {
	if _, ok := s.index[f]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[*Feature]struct{})
	}
	s.index[f] = struct{}{}
	s.items = append(s.items, f)
	return true
}

func (s *featureSet) remove(f *Feature) {
	if _, ok := s.index[f]; !ok {
		return
	}
	delete(s.index, f)
	for i, item := range s.items {
		if item == f {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

func (s *featureSet) has(f *Feature) bool {
	_, ok := s.index[f]
	return ok
}

func (s *featureSet) len() int { return len(s.items) }

func (s *featureSet) slice() []*Feature {
	cp := make([]*Feature, len(s.items))
	copy(cp, s.items)
	return cp
}

// equal reports set equality ignoring order.
func (s *featureSet) equal(o *featureSet) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for f := range s.index {
		if _, ok := o.index[f]; !ok {
			return false
		}
	}
	return true
}

// IsTopLevel reports whether the feature has no parents: the root of an
// annotation hierarchy, such as a gene.
func (f *Feature) IsTopLevel() bool { return f.parents.len() == 0 }

// HasParents reports whether at least one parent is attached.
func (f *Feature) HasParents() bool { return f.parents.len() > 0 }

// HasChildren reports whether at least one child is attached.
func (f *Feature) HasChildren() bool { return f.children.len() > 0 }

// HasCoFeatures reports whether the feature is one line of a
// discontinuous feature.
func (f *Feature) HasCoFeatures() bool { return f.coFeatures.len() > 0 }

// Parents returns the parent set in attach order.
func (f *Feature) Parents() []*Feature { return f.parents.slice() }

// Children returns the child set in attach order.
func (f *Feature) Children() []*Feature { return f.children.slice() }

// CoFeatures returns the co-feature clique, excluding the receiver.
func (f *Feature) CoFeatures() []*Feature { return f.coFeatures.slice() }

// TopLevelFeatures returns the set of top-level ancestors the feature
// descends from; a top-level feature returns itself.
func (f *Feature) TopLevelFeatures() []*Feature {
	if f.IsTopLevel() {
		return []*Feature{f}
	}
	return f.topLevel.slice()
}

func (f *Feature) derivesFrom() []string {
	return f.Attrs.Get(AttrDerivesFrom)
}

// AddParent links parent above f and recomputes the top-level ancestor
// sets of f's whole subtree. When f declares Derives_from, only the
// ancestors reachable through the named lineage are inherited. Each
// descendant is visited at most once per call.
func (f *Feature) AddParent(parent *Feature) {
	toAdd := parent.TopLevelFeatures()
	if derives := f.derivesFrom(); len(derives) > 0 {
		toAdd = filterByDerivesFrom(toAdd, derives)
	}

	wasTop := f.IsTopLevel()
	f.parents.add(parent)
	parent.children.add(f)

	seen := make(map[*Feature]struct{})
	var walk func(n *Feature)
	walk = func(n *Feature) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		for _, tl := range toAdd {
			n.topLevel.add(tl)
		}
		// f itself stopped being a top-level ancestor of its subtree.
		if wasTop && n != f {
			n.topLevel.remove(f)
		}
		for _, c := range n.children.items {
			walk(c)
		}
	}
	walk(f)
}

// filterByDerivesFrom keeps the roots whose subtree contains one of the
// IDs named by Derives_from (or which carry such an ID themselves).
func filterByDerivesFrom(roots []*Feature, derives []string) []*Feature {
	named := make(map[string]struct{}, len(derives))
	for _, id := range derives {
		named[id] = struct{}{}
	}
	var kept []*Feature
	for _, root := range roots {
		if _, ok := named[root.ID()]; ok {
			kept = append(kept, root)
			continue
		}
		for _, d := range root.Descendants() {
			if _, ok := named[d.ID()]; ok {
				kept = append(kept, root)
				break
			}
		}
	}
	return kept
}

// AddCoFeature declares co to be another physical line of the same
// discontinuous feature as f. The whole co-feature set stays a clique:
// co is cross-linked with every existing co-feature of f and vice versa.
// Co-features must agree on ID and on their parent sets.
func (f *Feature) AddCoFeature(co *Feature) error {
	if f.ID() == "" || f.ID() != co.ID() {
		return formatErrorf(0, "", "co-features must share an ID: %q vs %q", f.ID(), co.ID())
	}
	if !f.parents.equal(&co.parents) {
		return formatErrorf(0, "", "co-features with ID %q do not have the same parents", f.ID())
	}
	for _, existing := range f.coFeatures.items {
		existing.coFeatures.add(co)
		co.coFeatures.add(existing)
	}
	f.coFeatures.add(co)
	co.coFeatures.add(f)
	return nil
}

// Descendants returns every feature below f, breadth-first by discovery,
// without duplicates. A child whose Derives_from routes it through a
// lineage not containing f's subtree is excluded, along with its own
// subtree.
func (f *Feature) Descendants() []*Feature {
	idsInLineage := map[string]struct{}{}
	if id := f.ID(); id != "" {
		idsInLineage[id] = struct{}{}
	}
	var out []*Feature
	visited := map[*Feature]struct{}{f: {}}
	queue := []*Feature{f}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, c := range n.children.items {
			if _, ok := visited[c]; ok {
				continue
			}
			if !derivesFromAllows(c, idsInLineage) {
				continue
			}
			visited[c] = struct{}{}
			if id := c.ID(); id != "" {
				idsInLineage[id] = struct{}{}
			}
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}

// derivesFromAllows reports whether c's Derives_from attribute (if any)
// names an ID already seen on the lineage being traversed.
func derivesFromAllows(c *Feature, idsInLineage map[string]struct{}) bool {
	derives := c.derivesFrom()
	if len(derives) == 0 {
		return true
	}
	for _, id := range derives {
		if _, ok := idsInLineage[id]; ok {
			return true
		}
	}
	return false
}

// Ancestors returns every feature above f through chains of parent
// links, respecting f's Derives_from restriction when it names a
// specific lineage. Breadth-first by discovery, no duplicates.
func (f *Feature) Ancestors() []*Feature {
	derives := f.derivesFrom()
	var out []*Feature
	visited := map[*Feature]struct{}{f: {}}
	queue := []*Feature{}

	admit := func(p *Feature) bool {
		if len(derives) == 0 {
			return true
		}
		for _, id := range derives {
			if p.ID() == id {
				return true
			}
			for _, a := range p.selfAndAncestorsUnfiltered() {
				if a.ID() == id {
					return true
				}
			}
		}
		return false
	}

	for _, p := range f.parents.items {
		if !admit(p) {
			continue
		}
		if _, ok := visited[p]; ok {
			continue
		}
		visited[p] = struct{}{}
		out = append(out, p)
		queue = append(queue, p)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, p := range n.parents.items {
			if _, ok := visited[p]; ok {
				continue
			}
			visited[p] = struct{}{}
			out = append(out, p)
			queue = append(queue, p)
		}
	}
	return out
}

func (f *Feature) selfAndAncestorsUnfiltered() []*Feature {
	var out []*Feature
	visited := map[*Feature]struct{}{}
	queue := []*Feature{f}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if _, ok := visited[n]; ok {
			continue
		}
		visited[n] = struct{}{}
		out = append(out, n)
		queue = append(queue, n.parents.items...)
	}
	return out
}

// Flatten returns f and all its (Derives_from-filtered) descendants,
// f first, each node exactly once.
func (f *Feature) Flatten() []*Feature {
	return append([]*Feature{f}, f.Descendants()...)
}

// Equal reports whether two features carry equal base data and sit in
// structurally equal graphs. The relationship links are back-references
// that would recurse forever under naive comparison, so each side is
// first reduced to a canonical snapshot (node set, edge sets, co-feature
// partition) and the snapshots are compared.
func (f *Feature) Equal(other *Feature) bool {
	if f == other {
		return true
	}
	if !f.BaseData.Equal(&other.BaseData) {
		return false
	}
	return snapshotGraph(f).equal(snapshotGraph(other))
}

// graphSnapshot is the canonical, order-independent view of the graph a
// feature belongs to, keyed by the records' full contents.
type graphSnapshot struct {
	nodes       map[string]struct{}
	parentEdges map[[2]string]struct{}
	childEdges  map[[2]string]struct{}
	coFeatures  map[string]struct{} // canonicalized member-key lists
}

func snapshotGraph(f *Feature) *graphSnapshot {
	s := &graphSnapshot{
		nodes:       map[string]struct{}{},
		parentEdges: map[[2]string]struct{}{},
		childEdges:  map[[2]string]struct{}{},
		coFeatures:  map[string]struct{}{},
	}
	seen := map[*Feature]struct{}{}
	for _, root := range f.TopLevelFeatures() {
		for _, n := range root.Flatten() {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			s.addNode(n)
		}
	}
	return s
}

func (s *graphSnapshot) addNode(n *Feature) {
	nk := n.key()
	s.nodes[nk] = struct{}{}
	for _, p := range n.parents.items {
		s.parentEdges[[2]string{nk, p.key()}] = struct{}{}
	}
	for _, c := range n.children.items {
		s.childEdges[[2]string{nk, c.key()}] = struct{}{}
	}
	if n.coFeatures.len() > 0 {
		members := []string{nk}
		for _, co := range n.coFeatures.items {
			members = append(members, co.key())
		}
		s.coFeatures[strings.Join(sortedKeys(members), "\x00")] = struct{}{}
	}
}

func (s *graphSnapshot) equal(o *graphSnapshot) bool {
	return keysEqual(s.nodes, o.nodes) &&
		edgesEqual(s.parentEdges, o.parentEdges) &&
		edgesEqual(s.childEdges, o.childEdges) &&
		keysEqual(s.coFeatures, o.coFeatures)
}

func keysEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func edgesEqual(a, b map[[2]string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
