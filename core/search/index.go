// Package search provides in-memory full-text search over track names and
// artists, resolving free-text queries to catalog indices. It is the
// lookup collaborator in front of the engine: users type text, the index
// answers with seed candidates.
package search

import (
	"fmt"
	"strconv"

	"github.com/adalundhe/resona/core/catalog"
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Match pairs a catalog index with its full-text relevance score.
type Match struct {
	Index int
	Score float64
}

// Index wraps a memory-only bleve index over the catalog. Built once at
// startup, read-only afterward.
type Index struct {
	index bleve.Index
}

type trackDocument struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// New indexes every track's name and artist. Document ids are catalog
// indices, so hits resolve without a second lookup table.
func New(cat *catalog.Catalog) (*Index, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("search: create index: %w", err)
	}

	batch := index.NewBatch()
	for i := range cat.Len() {
		track, _ := cat.TrackAt(i)
		doc := trackDocument{Name: track.Name, Artist: track.Artist}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			return nil, fmt.Errorf("search: index track %d: %w", i, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("search: commit batch: %w", err)
	}

	return &Index{index: index}, nil
}

func buildMapping() mapping.IndexMapping {
	textField := bleve.NewTextFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("name", textField)
	doc.AddFieldMappingsAt("artist", textField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Search matches query against track names and artists, returning up to
// limit catalog indices by descending relevance.
func (idx *Index) Search(query string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 10
	}

	nameQuery := bleve.NewMatchQuery(query)
	nameQuery.SetField("name")
	artistQuery := bleve.NewMatchQuery(query)
	artistQuery.SetField("artist")

	disjunction := bleve.NewDisjunctionQuery(nameQuery, artistQuery)
	req := bleve.NewSearchRequestOptions(disjunction, limit, 0, false)

	result, err := idx.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	matches := make([]Match, 0, len(result.Hits))
	for _, hit := range result.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		matches = append(matches, Match{Index: i, Score: hit.Score})
	}
	return matches, nil
}

// Close releases the index.
func (idx *Index) Close() error {
	if idx.index == nil {
		return nil
	}
	return idx.index.Close()
}
