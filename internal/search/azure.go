package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const azureAPIVersion = "2023-11-01"

// vectorK is the nearest-neighbour count requested for the vector
// component of a query, before the final top cut.
const vectorK = 50

// AzureConfig configures an AzureIndex client.
type AzureConfig struct {
	// Endpoint is the search service endpoint, e.g.
	// https://myservice.search.windows.net.
	Endpoint string
	// IndexName is the target index.
	IndexName string
	// APIKey is the query or admin key.
	APIKey string
	// ContentField is the index field holding document text.
	ContentField string
	// SourcePageField is the index field holding the citation identifier.
	SourcePageField string
	// VectorField is the index field holding document embeddings.
	VectorField string
	// SemanticConfig is the semantic configuration name used for
	// re-ranking.
	SemanticConfig string
	// Language is the query language passed with semantic queries.
	Language string
}

// AzureIndex implements Index against the Azure AI Search REST API.
// There is no maintained Go SDK for the search data plane, so this is a
// small hand-rolled client over net/http.
type AzureIndex struct {
	cfg        AzureConfig
	httpClient *http.Client
}

// NewAzureIndex creates an AzureIndex, filling in default field names.
func NewAzureIndex(cfg AzureConfig) *AzureIndex {
	if cfg.ContentField == "" {
		cfg.ContentField = "content"
	}
	if cfg.SourcePageField == "" {
		cfg.SourcePageField = "sourcepage"
	}
	if cfg.VectorField == "" {
		cfg.VectorField = "embedding"
	}
	if cfg.SemanticConfig == "" {
		cfg.SemanticConfig = "default"
	}
	if cfg.Language == "" {
		cfg.Language = "en-us"
	}
	return &AzureIndex{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type azureVectorQuery struct {
	Kind   string    `json:"kind"`
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
	Fields string    `json:"fields"`
}

type azureSearchRequest struct {
	Search                *string            `json:"search,omitempty"`
	Filter                string             `json:"filter,omitempty"`
	Top                   int                `json:"top"`
	QueryType             string             `json:"queryType,omitempty"`
	QueryLanguage         string             `json:"queryLanguage,omitempty"`
	Speller               string             `json:"speller,omitempty"`
	SemanticConfiguration string             `json:"semanticConfiguration,omitempty"`
	Captions              string             `json:"captions,omitempty"`
	VectorQueries         []azureVectorQuery `json:"vectorQueries,omitempty"`
}

type azureCaption struct {
	Text string `json:"text"`
}

type azureSearchResponse struct {
	Value []json.RawMessage `json:"value"`
}

// BuildFilter translates the query's category exclusion and security
// filter into one odata filter expression. Single quotes in the category
// value are doubled per the odata string grammar.
func BuildFilter(q Query) string {
	var parts []string
	if q.ExcludeCategory != "" {
		escaped := strings.ReplaceAll(q.ExcludeCategory, "'", "''")
		parts = append(parts, fmt.Sprintf("category ne '%s'", escaped))
	}
	if q.SecurityFilter != "" {
		parts = append(parts, q.SecurityFilter)
	}
	return strings.Join(parts, " and ")
}

func (a *AzureIndex) Search(ctx context.Context, q Query) ([]Snippet, error) {
	body := azureSearchRequest{
		Search: q.Text,
		Filter: BuildFilter(q),
		Top:    q.Top,
	}

	if q.UseSemanticRanker {
		body.QueryType = "semantic"
		body.QueryLanguage = a.cfg.Language
		body.Speller = "lexicon"
		body.SemanticConfiguration = a.cfg.SemanticConfig
	}
	if q.UseSemanticCaptions {
		body.Captions = "extractive|highlight-false"
	}
	if q.Vector != nil {
		body.VectorQueries = []azureVectorQuery{{
			Kind:   "vector",
			Vector: q.Vector,
			K:      vectorK,
			Fields: a.cfg.VectorField,
		}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s",
		strings.TrimSuffix(a.cfg.Endpoint, "/"), a.cfg.IndexName, azureAPIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.cfg.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result azureSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	snippets := make([]Snippet, 0, len(result.Value))
	for _, raw := range result.Value {
		snippet, ok := a.normalizeDoc(raw, q.UseSemanticCaptions)
		if ok {
			snippets = append(snippets, snippet)
		}
	}
	return snippets, nil
}

// normalizeDoc converts one search hit into a Snippet. Documents without
// a source identifier are dropped: citations would be unresolvable.
func (a *AzureIndex) normalizeDoc(raw json.RawMessage, useCaptions bool) (Snippet, bool) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Snippet{}, false
	}

	var sourceID string
	if err := json.Unmarshal(doc[a.cfg.SourcePageField], &sourceID); err != nil || sourceID == "" {
		return Snippet{}, false
	}

	var body string
	if useCaptions {
		var captions []azureCaption
		_ = json.Unmarshal(doc["@search.captions"], &captions)
		fragments := make([]string, 0, len(captions))
		for _, c := range captions {
			fragments = append(fragments, c.Text)
		}
		body = strings.Join(fragments, " . ")
	} else {
		_ = json.Unmarshal(doc[a.cfg.ContentField], &body)
	}

	return Snippet{
		SourceID: sourceID,
		Content:  collapseNewlines(body),
	}, true
}
