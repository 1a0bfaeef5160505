package tree

import "time"

// Node is one filesystem entry captured during a scan. A directory's
// children are fully built before the directory node itself, so a finished
// tree is immutable and acyclic. Nodes carry no parent reference; callers
// that need upward lookups key a map by path instead.
type Node struct {
	Path     string
	IsDir    bool
	Size     int64
	ModTime  time.Time
	Depth    int
	Children []Node
}

// FileCount returns the number of files in the subtree rooted at n.
func (n Node) FileCount() int {
	if !n.IsDir {
		return 1
	}
	count := 0
	for _, child := range n.Children {
		count += child.FileCount()
	}
	return count
}

// Files collects every file node in the subtree, depth-first.
func (n Node) Files() []Node {
	var files []Node
	n.Walk(func(node Node) bool {
		if !node.IsDir {
			files = append(files, node)
		}
		return true
	})
	return files
}

// Walk visits n and every descendant depth-first, a directory before its
// children. Returning false from fn skips that directory's subtree.
func (n Node) Walk(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}
