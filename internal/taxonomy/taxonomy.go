// Package taxonomy holds the fixed three-level category tree used by the
// classifier. The tree is built once at startup and immutable afterwards;
// reclassification with updated keywords rebuilds a fresh tree instead of
// mutating shared state.
package taxonomy

import "fmt"

// MaxDepth is the number of levels in the category hierarchy.
const MaxDepth = 3

// NodeSpec declares one node of the tree before it is built.
type NodeSpec struct {
	Key         string
	DisplayName string
	Keywords    []string
	Children    []NodeSpec
}

// Node is an immutable tree node. Level-3 leaves hold the terminal keyword
// sets used for scoring; internal nodes expose the union of their subtree.
type Node struct {
	Key         string
	DisplayName string
	Keywords    []string
	Children    []*Node
	Level       int

	subtreeKeywords []string
}

// SubtreeKeywords returns every leaf keyword under this node, computed once
// at build time. Callers must not modify the returned slice.
func (n *Node) SubtreeKeywords() []string {
	return n.subtreeKeywords
}

// Child finds a direct child by key.
func (n *Node) Child(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Tree is the built, immutable taxonomy.
type Tree struct {
	roots []*Node
}

// Build validates a node specification and freezes it into a Tree.
func Build(specs []NodeSpec) (*Tree, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("taxonomy: no top-level categories")
	}

	roots := make([]*Node, 0, len(specs))
	for _, spec := range specs {
		node, err := buildNode(spec, 1)
		if err != nil {
			return nil, err
		}
		roots = append(roots, node)
	}

	seen := map[string]bool{}
	for _, r := range roots {
		if seen[r.Key] {
			return nil, fmt.Errorf("taxonomy: duplicate top-level key %q", r.Key)
		}
		seen[r.Key] = true
	}

	return &Tree{roots: roots}, nil
}

func buildNode(spec NodeSpec, level int) (*Node, error) {
	if spec.Key == "" {
		return nil, fmt.Errorf("taxonomy: node at level %d has empty key", level)
	}
	if level > MaxDepth {
		return nil, fmt.Errorf("taxonomy: node %q exceeds max depth %d", spec.Key, MaxDepth)
	}
	if level == MaxDepth && len(spec.Children) > 0 {
		return nil, fmt.Errorf("taxonomy: leaf %q declares children", spec.Key)
	}

	node := &Node{
		Key:         spec.Key,
		DisplayName: spec.DisplayName,
		Level:       level,
	}

	kwSeen := map[string]bool{}
	for _, kw := range spec.Keywords {
		if kw == "" {
			continue
		}
		if kwSeen[kw] {
			return nil, fmt.Errorf("taxonomy: node %q repeats keyword %q", spec.Key, kw)
		}
		kwSeen[kw] = true
		node.Keywords = append(node.Keywords, kw)
	}

	childSeen := map[string]bool{}
	for _, childSpec := range spec.Children {
		child, err := buildNode(childSpec, level+1)
		if err != nil {
			return nil, err
		}
		if childSeen[child.Key] {
			return nil, fmt.Errorf("taxonomy: node %q has duplicate child key %q", spec.Key, child.Key)
		}
		childSeen[child.Key] = true
		node.Children = append(node.Children, child)
	}

	node.subtreeKeywords = collectKeywords(node)
	return node, nil
}

func collectKeywords(n *Node) []string {
	if len(n.Children) == 0 {
		return n.Keywords
	}
	var all []string
	all = append(all, n.Keywords...)
	for _, c := range n.Children {
		all = append(all, c.subtreeKeywords...)
	}
	return all
}

// Roots returns the level-1 category nodes.
func (t *Tree) Roots() []*Node {
	return t.roots
}

// Root finds a level-1 node by key.
func (t *Tree) Root(key string) *Node {
	for _, r := range t.roots {
		if r.Key == key {
			return r
		}
	}
	return nil
}

// Contains reports whether the given path is a valid chain in the tree: each
// non-empty segment must be a child of the previous one, and segments after
// the first empty one must also be empty.
func (t *Tree) Contains(path [MaxDepth]string) bool {
	if path[0] == "" {
		return path[1] == "" && path[2] == ""
	}
	node := t.Root(path[0])
	if node == nil {
		return false
	}
	for _, seg := range path[1:] {
		if seg == "" {
			node = nil
			continue
		}
		if node == nil {
			return false
		}
		node = node.Child(seg)
		if node == nil {
			return false
		}
	}
	return true
}

// DisplayPath maps a key path to the configured display names, stopping at
// the first empty or unknown segment.
func (t *Tree) DisplayPath(path [MaxDepth]string) []string {
	var names []string
	var node *Node
	for i, seg := range path {
		if seg == "" {
			break
		}
		if i == 0 {
			node = t.Root(seg)
		} else {
			node = node.Child(seg)
		}
		if node == nil {
			break
		}
		names = append(names, node.DisplayName)
	}
	return names
}

// LeafCount returns the number of level-3 leaves, used for startup logging.
func (t *Tree) LeafCount() int {
	count := 0
	var walk func(*Node)
	walk = func(n *Node) {
		if len(n.Children) == 0 {
			count++
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range t.roots {
		walk(r)
	}
	return count
}
