// Package graphfile loads, saves, generates and watches node-graph documents.
package graphfile

import (
	"github.com/phanxgames/graphview"
	"github.com/phanxgames/graphview/internal/config"
)

// Node is one positioned node of a graph document.
type Node struct {
	ID     string  `json:"id"`
	Title  string  `json:"title,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Color is an optional "#rrggbb" override used by the minimap.
	Color string `json:"color,omitempty"`

	color graphview.Color
}

// Bounds returns the node rectangle in canvas space.
func (n *Node) Bounds() graphview.Bounds {
	return graphview.Bounds{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// FillColor returns the parsed Color override, or the zero Color when the
// node has none.
func (n *Node) FillColor() graphview.Color {
	return n.color
}

// Link connects the output side of From to the input side of To.
type Link struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a node-graph document. It implements graphview.GraphSource and
// graphview.LinkSource.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`

	byID map[string]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{byID: make(map[string]int)}
}

// reindex rebuilds the id lookup and the parsed colors.
func (g *Graph) reindex() {
	g.byID = make(map[string]int, len(g.Nodes))
	for i := range g.Nodes {
		g.byID[g.Nodes[i].ID] = i
		g.Nodes[i].parseColor()
	}
}

func (n *Node) parseColor() {
	n.color = graphview.Color{}
	if n.Color == "" {
		return
	}
	if c, err := config.ParseColor(n.Color); err == nil {
		n.color = c
	}
}

// AddNode appends n, replacing any node with the same id.
func (g *Graph) AddNode(n Node) {
	if g.byID == nil {
		g.reindex()
	}
	n.parseColor()
	if i, ok := g.byID[n.ID]; ok {
		g.Nodes[i] = n
		return
	}
	g.byID[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

// AddLink connects two existing nodes. It reports false if either is unknown.
func (g *Graph) AddLink(from, to string) bool {
	if g.Node(from) == nil || g.Node(to) == nil {
		return false
	}
	g.Links = append(g.Links, Link{From: from, To: to})
	return true
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	if g.byID == nil {
		g.reindex()
	}
	i, ok := g.byID[id]
	if !ok {
		return nil
	}
	return &g.Nodes[i]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EachNode calls fn for every node in document order.
func (g *Graph) EachNode(fn func(n graphview.MinimapNode)) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		fn(graphview.MinimapNode{Bounds: n.Bounds(), Color: n.color})
	}
}

// EachLink calls fn with the endpoints of every link whose nodes exist: the
// middle of the source's right edge and of the target's left edge.
func (g *Graph) EachLink(fn func(from, to graphview.Vec2)) {
	for _, l := range g.Links {
		a, b := g.Node(l.From), g.Node(l.To)
		if a == nil || b == nil {
			continue
		}
		fn(OutputPort(a), InputPort(b))
	}
}

// OutputPort returns the link anchor on the right edge of n.
func OutputPort(n *Node) graphview.Vec2 {
	return graphview.Vec2{X: n.X + n.Width, Y: n.Y + n.Height/2}
}

// InputPort returns the link anchor on the left edge of n.
func InputPort(n *Node) graphview.Vec2 {
	return graphview.Vec2{X: n.X, Y: n.Y + n.Height/2}
}

// Extent returns the union of all node bounds, or a zero rectangle for an
// empty graph.
func (g *Graph) Extent() graphview.Bounds {
	if len(g.Nodes) == 0 {
		return graphview.Bounds{}
	}
	ext := g.Nodes[0].Bounds()
	for i := 1; i < len(g.Nodes); i++ {
		ext = ext.Union(g.Nodes[i].Bounds())
	}
	return ext
}

// IndexRegion returns a root region for a spatial index over g: the extent
// grown by half its size on every side so that nodes can be dragged around
// without leaving the index.
func (g *Graph) IndexRegion() graphview.Bounds {
	ext := g.Extent()
	pad := max(ext.Width, ext.Height, 1000) / 2
	return ext.Expand(pad, pad)
}

// BuildIndex returns a spatial index holding every node, keyed by id with
// the node's slice position as payload. Nodes outside region are skipped and
// counted in the second return value.
func (g *Graph) BuildIndex(region graphview.Bounds, opts graphview.SpatialIndexOptions) (*graphview.SpatialIndex[int], int) {
	idx := graphview.NewSpatialIndex[int](region, opts)
	skipped := 0
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !idx.Insert(n.ID, n.Bounds(), i) {
			skipped++
		}
	}
	return idx, skipped
}

// MoveNode sets the position of the node with the given id and keeps idx in
// sync. It reports false if the node is unknown or the index rejected the
// new bounds, in which case nothing changes.
func (g *Graph) MoveNode(idx *graphview.SpatialIndex[int], id string, x, y float64) bool {
	n := g.Node(id)
	if n == nil {
		return false
	}
	b := graphview.Bounds{X: x, Y: y, Width: n.Width, Height: n.Height}
	if idx != nil && !idx.Update(id, b) {
		return false
	}
	n.X, n.Y = x, y
	return true
}
