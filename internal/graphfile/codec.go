package graphfile

import (
	"io"
	"os"
	"path/filepath"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Decode reads a JSON graph document from r. Links referring to unknown
// nodes are kept in the document but never drawn.
func Decode(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, errors.New("decoding graph failed").Wrap(err)
	}
	seen := make(map[string]struct{}, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID == "" {
			return nil, errors.New("node without id").WithTag("index", i)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, errors.New("duplicate node id").WithTag("id", n.ID)
		}
		if n.Width < 0 || n.Height < 0 {
			return nil, errors.New("node has negative size").WithTag("id", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	g.reindex()
	return &g, nil
}

// Encode writes g as indented JSON.
func Encode(w io.Writer, g *Graph) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return errors.New("encoding graph failed").Wrap(err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Load reads the graph document at path.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("opening graph failed").
			WithTag("path", path).
			Wrap(err)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, errors.New("loading graph failed").
			WithTag("path", path).
			Wrap(err)
	}
	return g, nil
}

// Save writes g to path, replacing the file atomically so that a watcher
// never observes a partial document.
func Save(path string, g *Graph) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New("creating graph dir failed").Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, ".graph-*.json")
	if err != nil {
		return errors.New("creating temp file failed").Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, g); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.New("writing graph failed").Wrap(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.New("replacing graph failed").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}
