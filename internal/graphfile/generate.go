package graphfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Generated node geometry.
const (
	genNodeWidth  = 180.0
	genNodeHeight = 90.0
	genSpacingX   = 260.0
	genSpacingY   = 160.0
)

var genPalette = []string{"", "#5b8def", "#e0a030", "#4fb477", "#c75d9b"}

// Generate builds a pseudo-random layered graph of n nodes laid out on a
// jittered grid, each node linked to one or two nodes of the previous
// column. The same seed always yields the same document, ids included.
func Generate(n int, seed uint64) *Graph {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	rng := rand.New(src)

	g := New()
	if n <= 0 {
		return g
	}
	rows := max(1, int(math.Sqrt(float64(n))))

	for i := 0; i < n; i++ {
		col, row := i/rows, i%rows
		id, err := uuid.NewRandomFromReader(src)
		if err != nil {
			// ChaCha8 never fails to read.
			panic(err)
		}
		g.AddNode(Node{
			ID:     id.String(),
			Title:  fmt.Sprintf("Node %d", i+1),
			X:      float64(col)*genSpacingX + rng.Float64()*40,
			Y:      float64(row)*genSpacingY + rng.Float64()*30,
			Width:  genNodeWidth,
			Height: genNodeHeight + float64(rng.IntN(3))*20,
			Color:  genPalette[rng.IntN(len(genPalette))],
		})
		if col == 0 {
			continue
		}
		prevStart := (col - 1) * rows
		for k := 0; k < 1+rng.IntN(2); k++ {
			from := prevStart + rng.IntN(rows)
			g.AddLink(g.Nodes[from].ID, g.Nodes[i].ID)
		}
	}
	return g
}
