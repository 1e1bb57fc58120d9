package ingest

import (
	"context"
	"math"
	"testing"

	"github.com/ziadkadry99/docchat/internal/search"
)

// hashEmbedder produces a deterministic unit vector per text.
type hashEmbedder struct{}

func (hashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float64, 3)
		for j, r := range text {
			v[j%3] += float64(r)
		}
		var norm float64
		for _, x := range v {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		vec := make([]float32, 3)
		for j, x := range v {
			vec[j] = float32(x / norm)
		}
		out[i] = vec
	}
	return out, nil
}

func (hashEmbedder) Dimensions() int { return 3 }
func (hashEmbedder) Name() string    { return "hash" }

func TestIngestRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "handbook.txt", "Employees receive 25 vacation days per year.")
	writeFile(t, root, "benefits/dental.md", "The dental plan covers two cleanings per year.")

	index, err := search.NewLocalIndex(hashEmbedder{})
	if err != nil {
		t.Fatalf("creating index: %v", err)
	}

	ing := New(index, nil, nil)
	stats, err := ing.Run(context.Background(), Options{RootDir: root})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if stats.Files != 2 {
		t.Errorf("files = %d", stats.Files)
	}
	if stats.Sections != 2 {
		t.Errorf("sections = %d", stats.Sections)
	}
	if index.Count() != 2 {
		t.Errorf("index count = %d", index.Count())
	}

	// Sections carry their file position as the citation id.
	text := "Employees receive 25 vacation days per year."
	snippets, err := index.Search(context.Background(), search.Query{Text: &text, Top: 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(snippets) != 1 || snippets[0].SourceID != "handbook.txt#0" {
		t.Errorf("snippets = %+v", snippets)
	}
}

func TestIngestPersists(t *testing.T) {
	root := t.TempDir()
	dataDir := t.TempDir()
	writeFile(t, root, "note.txt", "some knowledge")

	index, err := search.NewLocalIndex(hashEmbedder{})
	if err != nil {
		t.Fatalf("creating index: %v", err)
	}

	ing := New(index, nil, nil)
	if _, err := ing.Run(context.Background(), Options{RootDir: root, DataDir: dataDir}); err != nil {
		t.Fatalf("run: %v", err)
	}

	// A fresh index restores the persisted store.
	restored, err := search.NewLocalIndex(hashEmbedder{})
	if err != nil {
		t.Fatalf("creating index: %v", err)
	}
	if err := restored.Load(context.Background(), dataDir); err != nil {
		t.Fatalf("load: %v", err)
	}
	if restored.Count() != 1 {
		t.Errorf("restored count = %d", restored.Count())
	}
}

func TestIngestEmptyTree(t *testing.T) {
	index, err := search.NewLocalIndex(hashEmbedder{})
	if err != nil {
		t.Fatalf("creating index: %v", err)
	}

	ing := New(index, nil, nil)
	stats, err := ing.Run(context.Background(), Options{RootDir: t.TempDir()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Files != 0 || stats.Sections != 0 {
		t.Errorf("stats = %+v", stats)
	}
}
