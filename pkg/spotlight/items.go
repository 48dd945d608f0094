// Package spotlight implements the quick search across every reference collection.
package spotlight

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/hradmin/pkg/entity"
)

// Item is one searchable entry.
type Item struct {
	Kind  string    `json:"kind" yaml:"kind"`
	ID    entity.ID `json:"id" yaml:"id"`
	Label string    `json:"label" yaml:"label"`
}

// Source yields the current entries of one collection.
type Source interface {
	Items() []Item
}

type SourceFunc func() []Item

func (f SourceFunc) Items() []Item { return f() }

// FromEntities adapts a collection getter into a Source.
func FromEntities[T entity.Entity](kind string, items func() []T, label func(T) string) Source {
	return SourceFunc(func() []Item {
		all := items()
		out := make([]Item, len(all))
		for i, it := range all {
			out[i] = Item{Kind: kind, ID: it.EntityID(), Label: label(it)}
		}
		return out
	})
}

type Spotlight struct {
	sources []Source
}

func New(sources ...Source) *Spotlight {
	return &Spotlight{sources: sources}
}

func (s *Spotlight) Add(sources ...Source) {
	s.sources = append(s.sources, sources...)
}

// Find ranks every item whose label fuzzily contains q, closest first. A limit <= 0 means
// no limit.
func (s *Spotlight) Find(q string, limit int) []Item {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	var items []Item
	for _, src := range s.sources {
		items = append(items, src.Items()...)
	}
	if len(items) == 0 {
		return nil
	}
	words := make([]string, len(items))
	for i, it := range items {
		words[i] = it.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Stable(ranks)

	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	result := make([]Item, 0, len(ranks))
	for _, rank := range ranks {
		result = append(result, items[rank.OriginalIndex])
	}
	return result
}
