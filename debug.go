package graphview

import (
	"fmt"
	"os"
)

// IndexStats describes the shape of a SpatialIndex. Computing it walks the
// whole tree, so it is meant for debug overlays and benchmarks.
type IndexStats struct {
	Items     int // distinct items
	PeakItems int // highest item count since the last Clear or Compact
	Nodes     int // quad nodes, including empty leaves left by removals
	Leaves    int
	MaxDepth  int // deepest node
	MaxLoad   int // largest item list held by one node
}

// String formats the stats on a single line.
func (st IndexStats) String() string {
	return fmt.Sprintf("items: %d (peak %d) | nodes: %d | leaves: %d | depth: %d | max load: %d",
		st.Items, st.PeakItems, st.Nodes, st.Leaves, st.MaxDepth, st.MaxLoad)
}

// Stats walks the tree and returns its current shape.
func (s *SpatialIndex[T]) Stats() IndexStats {
	st := IndexStats{Items: len(s.items), PeakItems: s.peak}
	collectStats(s.root, &st)
	return st
}

func collectStats[T any](n *quadNode[T], st *IndexStats) {
	st.Nodes++
	if n.depth > st.MaxDepth {
		st.MaxDepth = n.depth
	}
	if len(n.items) > st.MaxLoad {
		st.MaxLoad = len(n.items)
	}
	if n.children == nil {
		st.Leaves++
		return
	}
	for _, c := range n.children {
		collectStats(c, st)
	}
}

// debugMaxNodeLoad is the multiple of MaxItemsPerNode a node at MaxDepth may
// hold before a warning is printed.
const debugMaxNodeLoad = 4

// debugCheckNodeLoad warns on stderr when a node can no longer subdivide and
// has accumulated far more items than its capacity, which usually means
// MaxDepth is too small for the item density.
func debugCheckNodeLoad[T any](n *quadNode[T], opts *SpatialIndexOptions) {
	if n == nil || n.depth < opts.MaxDepth {
		return
	}
	if len(n.items) > debugMaxNodeLoad*opts.MaxItemsPerNode {
		_, _ = fmt.Fprintf(os.Stderr, "[graphview] warning: node at depth %d holds %d items (capacity %d)\n",
			n.depth, len(n.items), opts.MaxItemsPerNode)
	}
}
