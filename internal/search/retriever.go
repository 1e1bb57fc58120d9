package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/embeddings"
)

// DefaultTop is the result cap used when a request does not specify one.
const DefaultTop = 3

// Options controls a single retrieval.
type Options struct {
	Mode                Mode
	Top                 int
	ExcludeCategory     string
	SecurityFilter      string
	UseSemanticRanker   bool
	UseSemanticCaptions bool
}

// Retriever turns a query string into grounding snippets: it computes the
// query embedding when the mode calls for one, issues one index lookup,
// and returns the normalized results.
type Retriever struct {
	index    Index
	embedder embeddings.Embedder
	log      *zap.Logger
}

// NewRetriever creates a Retriever over the given index. The embedder is
// only consulted for modes that include vector matching.
func NewRetriever(index Index, embedder embeddings.Embedder, log *zap.Logger) *Retriever {
	if log == nil {
		log = zap.NewNop()
	}
	return &Retriever{index: index, embedder: embedder, log: log}
}

// Retrieve looks up grounding snippets for the given query text.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, opts Options) ([]Snippet, error) {
	top := opts.Top
	if top <= 0 {
		top = DefaultTop
	}

	q := Query{
		Top:             top,
		ExcludeCategory: opts.ExcludeCategory,
		SecurityFilter:  opts.SecurityFilter,
		// Semantic ranking and captions only apply when lexical matching
		// is active.
		UseSemanticRanker:   opts.UseSemanticRanker && opts.Mode.HasText(),
		UseSemanticCaptions: opts.UseSemanticCaptions && opts.Mode.HasText(),
	}

	if opts.Mode.HasVectors() {
		vector, err := embeddings.EmbedOne(ctx, r.embedder, queryText)
		if err != nil {
			return nil, fmt.Errorf("embedding query: %w", err)
		}
		q.Vector = vector
	}

	if opts.Mode.HasText() {
		q.Text = &queryText
	}

	snippets, err := r.index.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	if len(snippets) > top {
		snippets = snippets[:top]
	}

	r.log.Debug("retrieved snippets",
		zap.String("query", queryText),
		zap.String("mode", string(opts.Mode)),
		zap.Int("count", len(snippets)),
	)
	return snippets, nil
}
