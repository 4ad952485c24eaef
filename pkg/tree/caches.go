package tree

// preorder lists every node reachable from the roots, parents before their
// children, siblings in insertion order.
func preorder(idx *index) []ID {
	order := make([]ID, 0, len(idx.nodes))
	stack := make([]ID, 0, len(idx.roots))
	for i := len(idx.roots) - 1; i >= 0; i-- {
		stack = append(stack, idx.roots[i])
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)
		kids := idx.nodes[id].children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return order
}

// computeDescendants materializes the descendant list of every node.
// Leaves get no entry, so lookups for them return nil.
func computeDescendants(idx *index, order Order) map[ID][]Record {
	if order == LevelOrder {
		return levelOrderDescendants(idx)
	}
	return preOrderDescendants(idx)
}

// preOrderDescendants visits nodes children-first (reverse pre-order) so that
// a node's list is the concatenation of [child] + descendants(child) over its
// children, all of which are already computed. Total work is proportional to
// the size of the output.
func preOrderDescendants(idx *index) map[ID][]Record {
	desc := make(map[ID][]Record, len(idx.nodes))
	order := preorder(idx)
	for i := len(order) - 1; i >= 0; i-- {
		n := idx.nodes[order[i]]
		if len(n.children) == 0 {
			continue
		}
		size := len(n.children)
		for _, c := range n.children {
			size += len(desc[c])
		}
		list := make([]Record, 0, size)
		for _, c := range n.children {
			list = append(list, idx.nodes[c].rec)
			list = append(list, desc[c]...)
		}
		desc[order[i]] = list
	}
	return desc
}

// levelOrderDescendants runs one breadth-first walk per node.
func levelOrderDescendants(idx *index) map[ID][]Record {
	desc := make(map[ID][]Record, len(idx.nodes))
	var queue []ID
	for id, n := range idx.nodes {
		if len(n.children) == 0 {
			continue
		}
		var list []Record
		queue = append(queue[:0], n.children...)
		for head := 0; head < len(queue); head++ {
			cur := idx.nodes[queue[head]]
			list = append(list, cur.rec)
			queue = append(queue, cur.children...)
		}
		desc[id] = list
	}
	return desc
}

// computeAncestors builds every ancestor chain, nearest first, in
// parent-before-child order so each chain is the parent's record followed by
// the parent's memoized chain. Roots get no entry.
func computeAncestors(idx *index) map[ID][]Record {
	anc := make(map[ID][]Record, len(idx.nodes))
	for _, id := range preorder(idx) {
		n := idx.nodes[id]
		if n.rec.IsRoot() {
			continue
		}
		parentChain := anc[n.rec.Parent]
		chain := make([]Record, 0, len(parentChain)+1)
		chain = append(chain, idx.nodes[n.rec.Parent].rec)
		anc[id] = append(chain, parentChain...)
	}
	return anc
}
