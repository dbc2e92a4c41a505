// Package namespace tracks the group hierarchy of a conversion run and
// materializes missing groups in the output exactly once.
package namespace

import (
	"errors"
	"fmt"
)

// Namespace errors.
var (
	ErrKindConflict = errors.New("path segment names a dataset")
	ErrInvalidPath  = errors.New("invalid path")
	ErrExists       = errors.New("path already exists")
	ErrNotFound     = errors.New("path not found")
)

// Kind is the kind of a node.
type Kind int

const (
	// Group nodes may have children.
	Group Kind = iota + 1
	// Dataset nodes are leaves.
	Dataset
)

func (k Kind) String() string {
	switch k {
	case Group:
		return "group"
	case Dataset:
		return "dataset"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is a group or dataset in the tree.
type Node struct {
	Path string
	Name string
	Kind Kind

	parent   *Node
	children []*Node
	byName   map[string]*Node
}

// Parent returns the enclosing group, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct members in insertion order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Child returns the member called name.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.byName[name]
	return c, ok
}

func (n *Node) add(c *Node) {
	c.parent = n
	if n.byName == nil {
		n.byName = make(map[string]*Node)
	}
	n.byName[c.Name] = c
	n.children = append(n.children, c)
}

func (n *Node) drop(c *Node) {
	delete(n.byName, c.Name)
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	c.parent = nil
}

// Tree is the namespace of one run. The root group always exists and is
// never created through the callback.
type Tree struct {
	root   *Node
	index  map[string]*Node
	order  []*Node
	create func(path string) error
}

// New returns a tree whose missing groups are materialized with
// createGroup. A nil createGroup only records groups.
func New(createGroup func(path string) error) *Tree {
	root := &Node{Path: "/", Name: "/", Kind: Group}
	return &Tree{
		root:   root,
		index:  map[string]*Node{"/": root},
		order:  []*Node{root},
		create: createGroup,
	}
}

// Root returns the root group.
func (t *Tree) Root() *Node { return t.root }

// Len returns the number of nodes, root included.
func (t *Tree) Len() int { return len(t.index) }

// Resolve returns the group at path, creating every missing group from the
// root down. Each group is handed to the create callback once; a failed
// creation leaves the tree unchanged from that segment on.
func (t *Tree) Resolve(path string) (*Node, error) {
	path = Clean(path)
	if n, ok := t.index[path]; ok {
		if n.Kind != Group {
			return nil, fmt.Errorf("%w: %s", ErrKindConflict, path)
		}
		return n, nil
	}

	segs, err := Split(path)
	if err != nil {
		return nil, err
	}

	cur := t.root
	for _, seg := range segs {
		next, ok := cur.Child(seg)
		if ok {
			if next.Kind != Group {
				return nil, fmt.Errorf("%w: %s", ErrKindConflict, next.Path)
			}
			cur = next
			continue
		}

		p := Join(cur.Path, seg)
		if t.create != nil {
			if err := t.create(p); err != nil {
				return nil, fmt.Errorf("create group %s: %w", p, err)
			}
		}
		next = &Node{Path: p, Name: seg, Kind: Group}
		t.insert(cur, next)
		cur = next
	}
	return cur, nil
}

// AddDataset records a dataset called name in the group parent.
func (t *Tree) AddDataset(parent *Node, name string) (*Node, error) {
	if parent == nil || parent.Kind != Group {
		return nil, fmt.Errorf("%w: dataset parent is not a group", ErrKindConflict)
	}
	if t.index[parent.Path] != parent {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, parent.Path)
	}
	if err := CheckName(name); err != nil {
		return nil, err
	}
	if c, ok := parent.Child(name); ok {
		return nil, fmt.Errorf("%w: %s %s", ErrExists, c.Kind, c.Path)
	}

	n := &Node{Path: Join(parent.Path, name), Name: name, Kind: Dataset}
	t.insert(parent, n)
	return n, nil
}

func (t *Tree) insert(parent, n *Node) {
	parent.add(n)
	t.index[n.Path] = n
	t.order = append(t.order, n)
}

// Lookup returns the node at path without creating anything.
func (t *Tree) Lookup(path string) (*Node, bool) {
	n, ok := t.index[Clean(path)]
	return n, ok
}

// Remove forgets the node at path and its subtree. The root cannot be
// removed.
func (t *Tree) Remove(path string) error {
	path = Clean(path)
	if path == "/" {
		return fmt.Errorf("%w: cannot remove the root group", ErrInvalidPath)
	}
	n, ok := t.index[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	gone := make(map[*Node]bool)
	var mark func(*Node)
	mark = func(x *Node) {
		gone[x] = true
		delete(t.index, x.Path)
		for _, c := range x.children {
			mark(c)
		}
	}
	mark(n)
	n.parent.drop(n)

	kept := t.order[:0]
	for _, x := range t.order {
		if !gone[x] {
			kept = append(kept, x)
		}
	}
	t.order = kept
	return nil
}

// Walk calls fn for every node in creation order, root first.
func (t *Tree) Walk(fn func(*Node) error) error {
	for _, n := range t.order {
		if err := fn(n); err != nil {
			return err
		}
	}
	return nil
}
