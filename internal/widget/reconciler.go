package widget

// descriptionSetter lets the reconciler record the configuring
// description on any node built on BaseNode, without every Configure
// implementation having to remember to do it.
type descriptionSetter interface {
	SetDescription(Description)
}

// Reconcile diffs desc against the node produced by the previous cycle
// (existing, possibly nil) and returns the node that should represent
// desc going forward. A node survives reconciliation, retaining its
// subclass state, whenever its kind matches; otherwise a new node is
// created and the old one is discarded (spec §4.5, §9 "reconciliation
// key: positional by default").
//
// This implementation matches children positionally rather than by an
// explicit key, a simplification recorded in DESIGN.md: reordering a
// child list reuses nodes by index rather than by identity, which is
// sufficient for every widget in this package since none of them reorder
// children based on data the builder doesn't also restructure.
func Reconcile(existing Node, desc Description) Node {
	if desc == nil {
		return nil
	}

	var n Node
	if existing != nil && existing.Description() != nil && existing.Description().Kind() == desc.Kind() {
		n = existing
		if !existing.Description().Equal(desc) {
			desc.Configure(n)
			n.MarkDirty()
		}
	} else {
		n = desc.NewNode()
		desc.Configure(n)
		n.MarkDirty()
	}
	if ds, ok := n.(descriptionSetter); ok {
		ds.SetDescription(desc)
	}

	childDescs := desc.Children()
	var existingChildren []Node
	if existing != nil {
		existingChildren = existing.Children()
	}

	newChildren := make([]Node, len(childDescs))
	childSetChanged := len(childDescs) != len(existingChildren)
	for i, cd := range childDescs {
		var prev Node
		if i < len(existingChildren) {
			prev = existingChildren[i]
		}
		newChildren[i] = Reconcile(prev, cd)
		if prev != newChildren[i] {
			childSetChanged = true
		}
	}
	n.SetChildren(newChildren)
	if childSetChanged {
		n.MarkDirty()
	}

	return n
}
