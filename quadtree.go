package graphview

// Default SpatialIndex tuning, used when SpatialIndexOptions fields are zero.
const (
	DefaultMaxItemsPerNode = 8
	DefaultMaxDepth        = 8
)

// SpatialIndexOptions controls when quad-tree nodes subdivide.
type SpatialIndexOptions struct {
	// MaxItemsPerNode is the item count a leaf may hold before it subdivides.
	MaxItemsPerNode int
	// MaxDepth stops subdivision; leaves at this depth grow without bound.
	MaxDepth int
}

func (o SpatialIndexOptions) withDefaults() SpatialIndexOptions {
	if o.MaxItemsPerNode <= 0 {
		o.MaxItemsPerNode = DefaultMaxItemsPerNode
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Quadrant order of quadNode.children.
const (
	quadNW = iota
	quadNE
	quadSW
	quadSE
)

// spatialItem is one indexed entry. node and slot locate it inside the tree
// so that removal does not need a search.
type spatialItem[T any] struct {
	id      string
	bounds  Bounds
	payload T
	node    *quadNode[T]
	slot    int
}

// quadNode owns a region, the items that fit no single child, and either
// zero or four equally sized children.
type quadNode[T any] struct {
	bounds   Bounds
	depth    int
	items    []*spatialItem[T]
	children *[4]*quadNode[T]
}

// childFor returns the index of the child quadrant whose region fully
// contains b, or -1 if b must stay at n (n is a leaf, or b straddles a
// quadrant boundary).
func (n *quadNode[T]) childFor(b Bounds) int {
	if n.children == nil {
		return -1
	}
	for i, c := range n.children {
		if c.bounds.ContainsBounds(b) {
			return i
		}
	}
	return -1
}

// insert places it at the smallest node under n that fully contains it,
// subdividing a leaf once it holds more than opts.MaxItemsPerNode items.
func (n *quadNode[T]) insert(it *spatialItem[T], opts *SpatialIndexOptions) {
	if q := n.childFor(it.bounds); q >= 0 {
		n.children[q].insert(it, opts)
		return
	}
	n.add(it)
	if n.children == nil && len(n.items) > opts.MaxItemsPerNode && n.depth < opts.MaxDepth {
		n.subdivide(opts)
	}
}

func (n *quadNode[T]) add(it *spatialItem[T]) {
	it.node = n
	it.slot = len(n.items)
	n.items = append(n.items, it)
}

// detach removes it from n in O(1) by moving the last item into its slot.
func (n *quadNode[T]) detach(it *spatialItem[T]) {
	last := len(n.items) - 1
	moved := n.items[last]
	n.items[it.slot] = moved
	moved.slot = it.slot
	n.items[last] = nil
	n.items = n.items[:last]
	it.node = nil
}

// subdivide splits n into four quadrants and pushes down every item that
// fits entirely inside one of them. Straddling items stay at n.
func (n *quadNode[T]) subdivide(opts *SpatialIndexOptions) {
	hw := n.bounds.Width / 2
	hh := n.bounds.Height / 2
	x, y := n.bounds.X, n.bounds.Y
	d := n.depth + 1
	n.children = &[4]*quadNode[T]{
		quadNW: {bounds: Bounds{X: x, Y: y, Width: hw, Height: hh}, depth: d},
		quadNE: {bounds: Bounds{X: x + hw, Y: y, Width: hw, Height: hh}, depth: d},
		quadSW: {bounds: Bounds{X: x, Y: y + hh, Width: hw, Height: hh}, depth: d},
		quadSE: {bounds: Bounds{X: x + hw, Y: y + hh, Width: hw, Height: hh}, depth: d},
	}

	items := n.items
	n.items = nil
	for _, it := range items {
		if q := n.childFor(it.bounds); q >= 0 {
			n.children[q].insert(it, opts)
		} else {
			n.add(it)
		}
	}
}

// appendPayloads appends the payload of every item under n intersecting r.
// Children whose region misses r are never visited.
func (n *quadNode[T]) appendPayloads(dst []T, r Bounds) []T {
	for _, it := range n.items {
		if it.bounds.Intersects(r) {
			dst = append(dst, it.payload)
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			if c.bounds.Intersects(r) {
				dst = c.appendPayloads(dst, r)
			}
		}
	}
	return dst
}

// visit calls fn for every item under n intersecting r. It returns false as
// soon as fn does.
func (n *quadNode[T]) visit(r Bounds, fn func(id string, b Bounds, payload T) bool) bool {
	for _, it := range n.items {
		if it.bounds.Intersects(r) && !fn(it.id, it.bounds, it.payload) {
			return false
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			if c.bounds.Intersects(r) && !c.visit(r, fn) {
				return false
			}
		}
	}
	return true
}

// SpatialIndex is a region quad-tree mapping string identifiers to bounding
// boxes and an opaque payload. It answers range queries in time proportional
// to the number of quadrants overlapping the range rather than the number of
// items.
//
// Removal never merges quadrants; call Compact or CompactIfSparse from a
// maintenance pass to reclaim emptied nodes.
type SpatialIndex[T any] struct {
	root  *quadNode[T]
	items map[string]*spatialItem[T]
	opts  SpatialIndexOptions
	peak  int
	debug bool
}

// NewSpatialIndex creates an empty index covering region. Zero option fields
// take DefaultMaxItemsPerNode and DefaultMaxDepth.
func NewSpatialIndex[T any](region Bounds, opts SpatialIndexOptions) *SpatialIndex[T] {
	return &SpatialIndex[T]{
		root:  &quadNode[T]{bounds: region},
		items: make(map[string]*spatialItem[T]),
		opts:  opts.withDefaults(),
	}
}

// Region returns the root region of the index.
func (s *SpatialIndex[T]) Region() Bounds {
	return s.root.bounds
}

// Len returns the number of distinct items in the index.
func (s *SpatialIndex[T]) Len() int {
	return len(s.items)
}

// Insert adds an item or, if id is already present, replaces its bounds and
// payload. It returns false without modifying the index when b lies
// completely outside the root region or has negative dimensions.
func (s *SpatialIndex[T]) Insert(id string, b Bounds, payload T) bool {
	if !b.valid() || !s.root.bounds.Intersects(b) {
		return false
	}
	it, ok := s.items[id]
	if ok {
		it.node.detach(it)
		it.bounds = b
		it.payload = payload
	} else {
		it = &spatialItem[T]{id: id, bounds: b, payload: payload}
		s.items[id] = it
		if len(s.items) > s.peak {
			s.peak = len(s.items)
		}
	}
	s.root.insert(it, &s.opts)
	if s.debug {
		debugCheckNodeLoad(it.node, &s.opts)
	}
	return true
}

// Remove deletes the item with the given id. It returns false if id is unknown.
func (s *SpatialIndex[T]) Remove(id string) bool {
	it, ok := s.items[id]
	if !ok {
		return false
	}
	it.node.detach(it)
	delete(s.items, id)
	return true
}

// Update moves an existing item to new bounds, keeping its payload. It
// returns false and leaves the old entry in place if id is unknown or b lies
// completely outside the root region.
func (s *SpatialIndex[T]) Update(id string, b Bounds) bool {
	it, ok := s.items[id]
	if !ok || !b.valid() || !s.root.bounds.Intersects(b) {
		return false
	}
	// Still the smallest containing node: no tree change needed.
	if n := it.node; n.bounds.ContainsBounds(b) && n.childFor(b) < 0 {
		it.bounds = b
		return true
	}
	it.node.detach(it)
	it.bounds = b
	s.root.insert(it, &s.opts)
	return true
}

// Get returns the bounds and payload stored for id.
func (s *SpatialIndex[T]) Get(id string) (Bounds, T, bool) {
	it, ok := s.items[id]
	if !ok {
		var zero T
		return Bounds{}, zero, false
	}
	return it.bounds, it.payload, true
}

// Has reports whether id is in the index.
func (s *SpatialIndex[T]) Has(id string) bool {
	_, ok := s.items[id]
	return ok
}

// Query returns the payload of every item whose bounds intersect r, edges
// included. The result is a new slice; use QueryAppend to reuse a buffer.
func (s *SpatialIndex[T]) Query(r Bounds) []T {
	return s.root.appendPayloads(nil, r)
}

// QueryAppend appends the payloads intersecting r to dst and returns the
// extended slice.
func (s *SpatialIndex[T]) QueryAppend(dst []T, r Bounds) []T {
	return s.root.appendPayloads(dst, r)
}

// QueryFunc calls fn for every item intersecting r. Iteration stops early
// when fn returns false. fn must not modify the index.
func (s *SpatialIndex[T]) QueryFunc(r Bounds, fn func(id string, b Bounds, payload T) bool) {
	s.root.visit(r, fn)
}

// HitTest appends the payloads of items whose bounds contain p.
func (s *SpatialIndex[T]) HitTest(p Vec2, dst []T) []T {
	return s.root.appendPayloads(dst, Bounds{X: p.X, Y: p.Y})
}

// Clear removes every item and discards all quadrants.
func (s *SpatialIndex[T]) Clear() {
	s.root = &quadNode[T]{bounds: s.root.bounds}
	clear(s.items)
	s.peak = 0
}

// Compact rebuilds the tree from the current items so that quadrants emptied
// by removals are released.
func (s *SpatialIndex[T]) Compact() {
	s.root = &quadNode[T]{bounds: s.root.bounds}
	for _, it := range s.items {
		it.node = nil
		s.root.insert(it, &s.opts)
	}
	s.peak = len(s.items)
}

// CompactIfSparse calls Compact when the item count has dropped below ratio
// times the peak count seen since the last rebuild. It reports whether a
// rebuild happened.
func (s *SpatialIndex[T]) CompactIfSparse(ratio float64) bool {
	if s.peak == 0 || float64(len(s.items)) >= ratio*float64(s.peak) {
		return false
	}
	s.Compact()
	return true
}

// SetDebugMode enables or disables overload warnings on stderr.
func (s *SpatialIndex[T]) SetDebugMode(enabled bool) {
	s.debug = enabled
}
