package graphview

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

var testRegion = Bounds{X: 0, Y: 0, Width: 1000, Height: 1000}

// newGridIndex inserts a 10x10 grid of 50x50 items at (x*100, y*100).
func newGridIndex() *SpatialIndex[string] {
	idx := NewSpatialIndex[string](testRegion, SpatialIndexOptions{})
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			id := fmt.Sprintf("n%d_%d", x, y)
			idx.Insert(id, Bounds{X: float64(x * 100), Y: float64(y * 100), Width: 50, Height: 50}, id)
		}
	}
	return idx
}

func sorted(s []string) []string {
	slices.Sort(s)
	return s
}

func TestSpatialIndexDefaults(t *testing.T) {
	idx := NewSpatialIndex[int](testRegion, SpatialIndexOptions{})
	if idx.opts.MaxItemsPerNode != DefaultMaxItemsPerNode {
		t.Errorf("MaxItemsPerNode = %d, want %d", idx.opts.MaxItemsPerNode, DefaultMaxItemsPerNode)
	}
	if idx.opts.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", idx.opts.MaxDepth, DefaultMaxDepth)
	}
	if idx.Len() != 0 {
		t.Errorf("Len = %d, want 0", idx.Len())
	}
	if idx.Region() != testRegion {
		t.Errorf("Region = %v, want %v", idx.Region(), testRegion)
	}
}

func TestSpatialIndexGridQuery(t *testing.T) {
	idx := newGridIndex()
	if idx.Len() != 100 {
		t.Fatalf("Len = %d, want 100", idx.Len())
	}

	got := sorted(idx.Query(Bounds{0, 0, 250, 250}))
	want := []string{"n0_0", "n0_1", "n0_2", "n1_0", "n1_1", "n1_2", "n2_0", "n2_1", "n2_2"}
	if !slices.Equal(got, want) {
		t.Errorf("Query({0,0,250,250}) = %v, want %v", got, want)
	}
}

func TestSpatialIndexQueryTouchingEdge(t *testing.T) {
	idx := newGridIndex()
	// The range ends exactly where n1_0 begins.
	got := sorted(idx.Query(Bounds{0, 0, 100, 50}))
	want := []string{"n0_0", "n1_0"}
	if !slices.Equal(got, want) {
		t.Errorf("Query touching edge = %v, want %v", got, want)
	}
}

func TestSpatialIndexQueryCompleteness(t *testing.T) {
	idx := NewSpatialIndex[string](testRegion, SpatialIndexOptions{MaxItemsPerNode: 2})
	rng := rand.New(rand.NewPCG(1, 2))
	boxes := map[string]Bounds{}
	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("item%d", i)
		b := Bounds{
			X:      rng.Float64() * 950,
			Y:      rng.Float64() * 950,
			Width:  rng.Float64() * 50,
			Height: rng.Float64() * 50,
		}
		if i%10 == 0 {
			b.Width, b.Height = 0, 0
		}
		boxes[id] = b
		if !idx.Insert(id, b, id) {
			t.Fatalf("Insert(%s, %v) = false", id, b)
		}
	}

	for id, b := range boxes {
		if !slices.Contains(idx.Query(b), id) {
			t.Errorf("Query(%v) does not return %s", b, id)
		}
	}
}

func TestSpatialIndexQueryMatchesLinearScan(t *testing.T) {
	idx := NewSpatialIndex[string](testRegion, SpatialIndexOptions{MaxItemsPerNode: 3, MaxDepth: 6})
	rng := rand.New(rand.NewPCG(7, 11))
	boxes := map[string]Bounds{}
	for i := 0; i < 300; i++ {
		id := fmt.Sprintf("item%d", i)
		b := Bounds{X: rng.Float64() * 900, Y: rng.Float64() * 900, Width: rng.Float64() * 100, Height: rng.Float64() * 100}
		boxes[id] = b
		idx.Insert(id, b, id)
	}

	for q := 0; q < 50; q++ {
		r := Bounds{X: rng.Float64() * 800, Y: rng.Float64() * 800, Width: rng.Float64() * 200, Height: rng.Float64() * 200}
		var want []string
		for id, b := range boxes {
			if b.Intersects(r) {
				want = append(want, id)
			}
		}
		got := sorted(idx.Query(r))
		if !slices.Equal(got, sorted(want)) {
			t.Fatalf("Query(%v): got %d items, linear scan found %d", r, len(got), len(want))
		}
	}
}

func TestSpatialIndexQuerySoundness(t *testing.T) {
	idx := newGridIndex()
	// Gap between the grid cells.
	if got := idx.Query(Bounds{55, 55, 40, 40}); len(got) != 0 {
		t.Errorf("Query on empty gap = %v, want empty", got)
	}
	// Entirely outside the region.
	if got := idx.Query(Bounds{2000, 2000, 10, 10}); len(got) != 0 {
		t.Errorf("Query outside region = %v, want empty", got)
	}
}

func TestSpatialIndexInsertOutsideRegion(t *testing.T) {
	idx := NewSpatialIndex[string](testRegion, SpatialIndexOptions{})
	if idx.Insert("far", Bounds{1500, 1500, 10, 10}, "far") {
		t.Error("Insert outside region should return false")
	}
	if idx.Len() != 0 || idx.Has("far") {
		t.Error("failed Insert should not mutate the index")
	}
}

func TestSpatialIndexInsertNegativeSize(t *testing.T) {
	idx := NewSpatialIndex[string](testRegion, SpatialIndexOptions{})
	if idx.Insert("bad", Bounds{10, 10, -5, 5}, "bad") {
		t.Error("Insert with negative width should return false")
	}
}

func TestSpatialIndexInsertPartiallyOutside(t *testing.T) {
	idx := newGridIndex()
	b := Bounds{980, 980, 50, 50}
	if !idx.Insert("edge", b, "edge") {
		t.Fatal("Insert overlapping the region edge should succeed")
	}
	if !slices.Contains(idx.Query(Bounds{1010, 1010, 1, 1}), "edge") {
		t.Error("item should be found by a query outside the region that overlaps it")
	}
}

func TestSpatialIndexDuplicateInsertReplaces(t *testing.T) {
	idx := newGridIndex()
	idx.Insert("dup", Bounds{10, 610, 5, 5}, "first")
	size := idx.Len()

	if !idx.Insert("dup", Bounds{960, 960, 5, 5}, "second") {
		t.Fatal("re-Insert should succeed")
	}
	if idx.Len() != size {
		t.Errorf("Len after duplicate insert = %d, want %d", idx.Len(), size)
	}
	if got := idx.Query(Bounds{10, 610, 5, 5}); slices.Contains(got, "first") || slices.Contains(got, "second") {
		t.Errorf("old bounds still return the item: %v", got)
	}
	if got := idx.Query(Bounds{960, 960, 5, 5}); !slices.Equal(got, []string{"second"}) {
		t.Errorf("new bounds query = %v, want [second]", got)
	}
}

func TestSpatialIndexPointItems(t *testing.T) {
	idx := NewSpatialIndex[string](testRegion, SpatialIndexOptions{MaxItemsPerNode: 1})
	idx.Insert("p1", Bounds{500, 500, 0, 0}, "p1") // exactly on both midlines
	idx.Insert("p2", Bounds{250, 250, 0, 0}, "p2")
	idx.Insert("p3", Bounds{750, 250, 0, 0}, "p3")

	if got := idx.Query(Bounds{500, 500, 0, 0}); !slices.Equal(got, []string{"p1"}) {
		t.Errorf("point query = %v, want [p1]", got)
	}
	if got := sorted(idx.Query(Bounds{250, 250, 500, 0})); !slices.Equal(got, []string{"p2", "p3"}) {
		t.Errorf("zero-height range query = %v, want [p2 p3]", got)
	}
	if got := idx.HitTest(Vec2{750, 250}, nil); !slices.Equal(got, []string{"p3"}) {
		t.Errorf("HitTest = %v, want [p3]", got)
	}
}

func TestSpatialIndexSpanningItem(t *testing.T) {
	idx := NewSpatialIndex[string](testRegion, SpatialIndexOptions{MaxItemsPerNode: 1})
	// Fill each quadrant so the root subdivides.
	idx.Insert("nw", Bounds{100, 100, 10, 10}, "nw")
	idx.Insert("ne", Bounds{800, 100, 10, 10}, "ne")
	idx.Insert("sw", Bounds{100, 800, 10, 10}, "sw")
	idx.Insert("se", Bounds{800, 800, 10, 10}, "se")
	idx.Insert("center", Bounds{400, 400, 200, 200}, "center")

	if it := idx.items["center"]; it.node != idx.root {
		t.Errorf("spanning item stored at depth %d, want root", it.node.depth)
	}
	quadrants := []Bounds{
		{0, 0, 500, 500},
		{500, 0, 500, 500},
		{0, 500, 500, 500},
		{500, 500, 500, 500},
	}
	for _, q := range quadrants {
		if !slices.Contains(idx.Query(q), "center") {
			t.Errorf("Query(%v) should return the spanning item", q)
		}
	}
}

func TestSpatialIndexSubdivision(t *testing.T) {
	idx := NewSpatialIndex[string](testRegion, SpatialIndexOptions{MaxItemsPerNode: 4})
	for i := 0; i < 4; i++ {
		idx.Insert(fmt.Sprint(i), Bounds{float64(i * 10), 0, 5, 5}, "")
	}
	if idx.root.children != nil {
		t.Fatal("root should not subdivide at capacity")
	}
	idx.Insert("4", Bounds{40, 0, 5, 5}, "")
	if idx.root.children == nil {
		t.Fatal("root should subdivide once capacity is exceeded")
	}
	if len(idx.root.items) != 0 {
		t.Errorf("root kept %d items, want 0 after redistribution", len(idx.root.items))
	}
}

func TestSpatialIndexMaxDepth(t *testing.T) {
	idx := NewSpatialIndex[string](testRegion, SpatialIndexOptions{MaxItemsPerNode: 1, MaxDepth: 2})
	for i := 0; i < 20; i++ {
		idx.Insert(fmt.Sprint(i), Bounds{1, 1, 1, 1}, "")
	}
	st := idx.Stats()
	if st.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", st.MaxDepth)
	}
	if st.MaxLoad != 20 {
		t.Errorf("MaxLoad = %d, want 20 items in the deepest leaf", st.MaxLoad)
	}
}

func TestSpatialIndexRemove(t *testing.T) {
	idx := newGridIndex()
	if !idx.Remove("n1_1") {
		t.Fatal("Remove existing = false")
	}
	if idx.Remove("n1_1") {
		t.Error("second Remove should return false")
	}
	if idx.Remove("missing") {
		t.Error("Remove unknown should return false")
	}
	if idx.Len() != 99 {
		t.Errorf("Len = %d, want 99", idx.Len())
	}
	if got := idx.Query(Bounds{100, 100, 50, 50}); len(got) != 0 {
		t.Errorf("removed item still returned: %v", got)
	}
	// Neighbours in the same node survive the swap-delete.
	if got := len(idx.Query(Bounds{0, 0, 250, 250})); got != 8 {
		t.Errorf("Query after remove returned %d items, want 8", got)
	}
}

func TestSpatialIndexUpdate(t *testing.T) {
	idx := newGridIndex()
	if !idx.Update("n0_0", Bounds{900, 900, 50, 50}) {
		t.Fatal("Update = false")
	}
	if got := idx.Query(Bounds{0, 0, 50, 50}); len(got) != 0 {
		t.Errorf("old position still returns %v", got)
	}
	got := idx.Query(Bounds{920, 920, 1, 1})
	if !slices.Equal(sorted(got), []string{"n0_0", "n9_9"}) {
		t.Errorf("new position query = %v, want [n0_0 n9_9]", got)
	}
	_, payload, ok := idx.Get("n0_0")
	if !ok || payload != "n0_0" {
		t.Errorf("Update should keep the payload, got %q", payload)
	}
}

func TestSpatialIndexUpdateSmallMove(t *testing.T) {
	idx := newGridIndex()
	node := idx.items["n5_5"].node
	if !idx.Update("n5_5", Bounds{501, 501, 50, 50}) {
		t.Fatal("Update = false")
	}
	b, _, _ := idx.Get("n5_5")
	if b != (Bounds{501, 501, 50, 50}) {
		t.Errorf("bounds = %v after update", b)
	}
	if idx.items["n5_5"].node != node {
		t.Error("small move within the same node should not relocate the item")
	}
}

func TestSpatialIndexUpdateIsAtomic(t *testing.T) {
	idx := newGridIndex()
	if idx.Update("n3_3", Bounds{5000, 5000, 10, 10}) {
		t.Error("Update outside region should return false")
	}
	b, _, ok := idx.Get("n3_3")
	if !ok || b != (Bounds{300, 300, 50, 50}) {
		t.Errorf("failed Update changed the entry: %v %v", b, ok)
	}
	if !slices.Contains(idx.Query(Bounds{300, 300, 50, 50}), "n3_3") {
		t.Error("failed Update removed the entry from the tree")
	}
	if idx.Update("missing", Bounds{0, 0, 1, 1}) {
		t.Error("Update unknown id should return false")
	}
}

func TestSpatialIndexQueryFuncStopsEarly(t *testing.T) {
	idx := newGridIndex()
	calls := 0
	idx.QueryFunc(testRegion, func(id string, b Bounds, payload string) bool {
		calls++
		if id != payload {
			t.Errorf("id %q does not match payload %q", id, payload)
		}
		return calls < 3
	})
	if calls != 3 {
		t.Errorf("visited %d items, want 3", calls)
	}
}

func TestSpatialIndexQueryAppendReusesBuffer(t *testing.T) {
	idx := newGridIndex()
	buf := make([]string, 0, 16)
	buf = idx.QueryAppend(buf, Bounds{0, 0, 250, 250})
	if len(buf) != 9 {
		t.Fatalf("QueryAppend returned %d items, want 9", len(buf))
	}
	buf = idx.QueryAppend(buf[:0], Bounds{0, 0, 50, 50})
	if len(buf) != 1 || cap(buf) != 16 {
		t.Errorf("QueryAppend reuse: len %d cap %d, want 1 and 16", len(buf), cap(buf))
	}
}

func TestSpatialIndexClear(t *testing.T) {
	idx := newGridIndex()
	idx.Clear()
	if idx.Len() != 0 {
		t.Errorf("Len after Clear = %d", idx.Len())
	}
	if got := idx.Query(testRegion); len(got) != 0 {
		t.Errorf("Query after Clear = %v", got)
	}
	if idx.Stats().Nodes != 1 {
		t.Error("Clear should drop all quadrants")
	}
}

func TestSpatialIndexCompact(t *testing.T) {
	idx := NewSpatialIndex[string](testRegion, SpatialIndexOptions{MaxItemsPerNode: 2})
	for i := 0; i < 200; i++ {
		id := fmt.Sprint(i)
		idx.Insert(id, Bounds{float64(i%20) * 50, float64(i/20) * 100, 10, 10}, id)
	}
	before := idx.Stats().Nodes
	for i := 0; i < 190; i++ {
		idx.Remove(fmt.Sprint(i))
	}
	if idx.Stats().Nodes != before {
		t.Error("Remove should not merge quadrants")
	}

	if idx.CompactIfSparse(0.01) {
		t.Error("CompactIfSparse(0.01) should not rebuild at 5% occupancy")
	}
	if !idx.CompactIfSparse(0.5) {
		t.Fatal("CompactIfSparse(0.5) should rebuild at 5% occupancy")
	}
	st := idx.Stats()
	if st.Nodes >= before {
		t.Errorf("Nodes after compact = %d, want fewer than %d", st.Nodes, before)
	}
	if st.PeakItems != 10 {
		t.Errorf("PeakItems after compact = %d, want 10", st.PeakItems)
	}
	for i := 190; i < 200; i++ {
		id := fmt.Sprint(i)
		b, _, _ := idx.Get(id)
		if !slices.Contains(idx.Query(b), id) {
			t.Errorf("item %s lost by Compact", id)
		}
	}
}

// --- Benchmarks ---

func setupBenchIndex(n int) *SpatialIndex[int] {
	side := 1
	for side*side < n {
		side++
	}
	region := Bounds{0, 0, float64(side) * 300, float64(side) * 200}
	idx := NewSpatialIndex[int](region, SpatialIndexOptions{})
	for i := 0; i < n; i++ {
		x := float64(i%side) * 300
		y := float64(i/side) * 200
		idx.Insert(fmt.Sprint(i), Bounds{x, y, 200, 120}, i)
	}
	return idx
}

func BenchmarkSpatialIndexQuery_10000(b *testing.B) {
	idx := setupBenchIndex(10000)
	buf := make([]int, 0, 256)
	r := Bounds{5000, 5000, 1920, 1080}
	b.ReportAllocs()
	for b.Loop() {
		buf = idx.QueryAppend(buf[:0], r)
	}
}

func BenchmarkSpatialIndexUpdate_10000(b *testing.B) {
	idx := setupBenchIndex(10000)
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = fmt.Sprint(i * 97)
	}
	b.ReportAllocs()
	i := 0
	for b.Loop() {
		id := ids[i%len(ids)]
		bb, _, _ := idx.Get(id)
		bb.X += 1
		idx.Update(id, bb)
		i++
	}
}
