// Package ingest fills the local index from a directory of text files:
// it walks the tree, splits each file into overlapping sections, and
// stores them with their embeddings.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/search"
)

// Options controls one ingestion run.
type Options struct {
	RootDir string
	Include []string
	Exclude []string
	// DataDir is where the filled index is persisted. Empty skips
	// persistence.
	DataDir string
}

// Stats summarizes a completed run.
type Stats struct {
	Files    int
	Sections int
}

// Ingestor drives the walk-split-store pipeline.
type Ingestor struct {
	index    *search.LocalIndex
	reporter Reporter
	log      *zap.Logger
}

func New(index *search.LocalIndex, reporter Reporter, log *zap.Logger) *Ingestor {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{index: index, reporter: reporter, log: log}
}

// Run ingests every matching file under opts.RootDir.
func (ing *Ingestor) Run(ctx context.Context, opts Options) (*Stats, error) {
	files, err := Walk(WalkConfig{
		RootDir: opts.RootDir,
		Include: opts.Include,
		Exclude: opts.Exclude,
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &Stats{}, nil
	}

	ing.reporter.Start(len(files))
	defer ing.reporter.Finish()

	stats := &Stats{}
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sections, err := ing.ingestFile(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("ingesting %s: %w", file.RelPath, err)
		}
		stats.Files++
		stats.Sections += sections
		ing.reporter.Update(i+1, file.RelPath)
	}

	if opts.DataDir != "" {
		if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		if err := ing.index.Persist(ctx, opts.DataDir); err != nil {
			return nil, fmt.Errorf("persisting index: %w", err)
		}
	}

	ing.log.Info("ingestion finished",
		zap.Int("files", stats.Files),
		zap.Int("sections", stats.Sections),
	)
	return stats, nil
}

// ingestFile splits one file and stores its sections. The category is
// the top-level directory the file lives under, so requests can exclude
// whole subtrees.
func (ing *Ingestor) ingestFile(ctx context.Context, file FileInfo) (int, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return 0, err
	}

	sections := SplitText(string(data))
	if len(sections) == 0 {
		return 0, nil
	}

	docs := make([]search.Document, len(sections))
	for i, section := range sections {
		docs[i] = search.Document{
			ID:         fmt.Sprintf("%s#%d", file.RelPath, i),
			Content:    section,
			SourcePage: fmt.Sprintf("%s#%d", file.RelPath, i),
			Category:   categoryFor(file.RelPath),
		}
	}
	if err := ing.index.Add(ctx, docs); err != nil {
		return 0, err
	}
	return len(sections), nil
}

// categoryFor returns the top-level directory of a relative path, or ""
// for files at the root.
func categoryFor(relPath string) string {
	dir := filepath.ToSlash(filepath.Dir(relPath))
	if dir == "." {
		return ""
	}
	if i := strings.IndexByte(dir, '/'); i >= 0 {
		dir = dir[:i]
	}
	return dir
}
