package scanner

// Node is one file or folder in the remote tree. Nodes are built during a
// scan and immutable afterwards.
type Node struct {
	ID       int64
	Name     string
	Size     int64
	IsFolder bool
	ParentID int64
	// Path is the location relative to the scan root, ancestors joined
	// with "/". The root sentinel has an empty path.
	Path     string
	Children []*Node
}

// newRoot returns the synthetic scan root (ID 0, empty path).
func newRoot() *Node {
	return &Node{ID: 0, Name: "root", IsFolder: true, ParentID: -1}
}

func (n *Node) childPath(name string) string {
	if n.Path == "" {
		return name
	}
	return n.Path + "/" + name
}

// Walk visits n and every descendant in depth-first order.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}
