// Package xmltree decodes XML into a generic tree with explicit
// multiplicity rules: repeated sibling tags become an ordered sequence,
// a single occurrence stays a single node. Attributes are kept apart
// from child elements so a lookup never confuses the two.
package xmltree

// Node is one element of the decoded tree. A node is a scalar (text
// only), a mapping of child tag names, or both when the element mixes
// text and children.
type Node struct {
	text     string
	attrs    map[string]string
	children map[string][]*Node
	order    []string
}

// Text returns the trimmed scalar text of the node. Safe on nil.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.text
}

// Attr returns the named attribute, or empty. Safe on nil.
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.attrs[name]
}

// Child walks the given tag path, taking the first occurrence at each
// step. Returns nil when any step is absent. Safe on nil, so lookups
// chain without intermediate checks.
func (n *Node) Child(path ...string) *Node {
	cur := n
	for _, name := range path {
		if cur == nil {
			return nil
		}
		nodes := cur.children[name]
		if len(nodes) == 0 {
			return nil
		}
		cur = nodes[0]
	}
	return cur
}

// Sequence returns every occurrence of the named child, in document
// order. A singleton yields a one-element slice, an absent tag an
// empty one. Downstream code never branches on scalar-vs-sequence.
func (n *Node) Sequence(name string) []*Node {
	if n == nil {
		return nil
	}
	return n.children[name]
}

// ChildNames returns the distinct child tag names in document order of
// first appearance.
func (n *Node) ChildNames() []string {
	if n == nil {
		return nil
	}
	return n.order
}

func (n *Node) addChild(name string, child *Node) {
	if n.children == nil {
		n.children = make(map[string][]*Node)
	}
	if _, seen := n.children[name]; !seen {
		n.order = append(n.order, name)
	}
	n.children[name] = append(n.children[name], child)
}
