package search

import (
	"context"
	"fmt"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/docchat/internal/embeddings"
)

const collectionName = "knowledgebase"

// localStoreFile is the persisted store name inside the data directory.
const localStoreFile = "index.gob.gz"

// Document is one unit of content stored in the local index.
type Document struct {
	ID         string
	Content    string
	SourcePage string
	Category   string
}

// LocalIndex implements Index over an embedded chromem-go vector store.
// It is vector-only: lexical and hybrid queries are answered by embedding
// the query text through the store's embedding function.
type LocalIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewLocalIndex creates an in-memory LocalIndex backed by the given embedder.
func NewLocalIndex(embedder embeddings.Embedder) (*LocalIndex, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &LocalIndex{db: db, collection: col, embedFunc: ef}, nil
}

// Add inserts or updates documents in the index.
func (s *LocalIndex) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:      doc.ID,
			Content: doc.Content,
			Metadata: map[string]string{
				"sourcepage": doc.SourcePage,
				"category":   doc.Category,
			},
		}
	}
	return s.collection.AddDocuments(ctx, chromDocs, 1)
}

func (s *LocalIndex) Search(ctx context.Context, q Query) ([]Snippet, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}

	// Fetch extra results when a category is excluded, since filtering
	// happens after the nearest-neighbour lookup here.
	n := q.Top
	if q.ExcludeCategory != "" {
		n *= 2
	}
	if n > count {
		n = count
	}

	var (
		results []chromem.Result
		err     error
	)
	switch {
	case q.Vector != nil:
		results, err = s.collection.QueryEmbedding(ctx, q.Vector, n, nil, nil)
	case q.Text != nil:
		results, err = s.collection.Query(ctx, *q.Text, n, nil, nil)
	default:
		return nil, fmt.Errorf("query has neither text nor vector")
	}
	if err != nil {
		return nil, fmt.Errorf("local index query: %w", err)
	}

	snippets := make([]Snippet, 0, len(results))
	for _, r := range results {
		if q.ExcludeCategory != "" && r.Metadata["category"] == q.ExcludeCategory {
			continue
		}
		sourceID := r.Metadata["sourcepage"]
		if sourceID == "" {
			sourceID = r.ID
		}
		snippets = append(snippets, Snippet{
			SourceID: sourceID,
			Content:  collapseNewlines(r.Content),
		})
		if len(snippets) == q.Top {
			break
		}
	}
	return snippets, nil
}

// Count returns the number of stored documents.
func (s *LocalIndex) Count() int {
	return s.collection.Count()
}

// Persist saves the store to the given directory.
func (s *LocalIndex) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(filepath.Join(dir, localStoreFile), true, "")
}

// Load restores the store from the given directory.
func (s *LocalIndex) Load(ctx context.Context, dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, localStoreFile), ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire the collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}
