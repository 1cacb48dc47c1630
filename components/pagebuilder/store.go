package pagebuilder

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// InMemoryPageStore keeps page documents in memory. It is safe for concurrent use.
type InMemoryPageStore struct {
	mu    sync.RWMutex
	pages map[string]map[string]*PageDocument
	now   func() time.Time
}

var _ PageStore = (*InMemoryPageStore)(nil)

// NewInMemoryPageStore creates an empty store.
func NewInMemoryPageStore() *InMemoryPageStore {
	return &InMemoryPageStore{
		pages: map[string]map[string]*PageDocument{},
		now:   time.Now,
	}
}

// Get returns a copy of the page.
func (s *InMemoryPageStore) Get(_ context.Context, storeID, pageID string) (*PageDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.pages[storeID][pageID]
	if !ok {
		return nil, notFound("page", pageID)
	}
	return doc.Clone(), nil
}

// GetBySlug returns a copy of the page with the slug.
func (s *InMemoryPageStore) GetBySlug(_ context.Context, storeID, slug string) (*PageDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.pages[storeID] {
		if doc.Meta.Slug == slug {
			return doc.Clone(), nil
		}
	}
	return nil, notFound("page", slug)
}

// List returns summaries for every page in the store ordered by slug.
func (s *InMemoryPageStore) List(_ context.Context, storeID string) ([]PageSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PageSummary, 0, len(s.pages[storeID]))
	for _, doc := range s.pages[storeID] {
		out = append(out, doc.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Slug != out[j].Slug {
			return out[i].Slug < out[j].Slug
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Save stores a copy of doc, bumping its revision. When ExpectedRevision is
// set it must match the stored revision.
func (s *InMemoryPageStore) Save(_ context.Context, doc *PageDocument, opts SaveOptions) (*PageDocument, error) {
	if doc == nil {
		return nil, fmt.Errorf("pagebuilder: save requires a document")
	}
	if err := doc.CheckStructure(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pages := s.pages[doc.StoreID]
	if pages == nil {
		pages = map[string]*PageDocument{}
		s.pages[doc.StoreID] = pages
	}
	var current int64
	existing, ok := pages[doc.ID]
	if ok {
		current = existing.Revision
	}
	if opts.ExpectedRevision > 0 && opts.ExpectedRevision != current {
		return nil, fmt.Errorf("%w: page %s is at revision %d, expected %d",
			ErrRevisionConflict, doc.ID, current, opts.ExpectedRevision)
	}
	if doc.Meta.Slug != "" {
		for id, other := range pages {
			if id != doc.ID && other.Meta.Slug == doc.Meta.Slug {
				return nil, fmt.Errorf("%w: %s", ErrSlugTaken, doc.Meta.Slug)
			}
		}
	}
	stored := doc.Clone()
	now := s.now().UTC()
	if ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	stored.Revision = current + 1
	pages[doc.ID] = stored
	return stored.Clone(), nil
}

// Delete removes the page.
func (s *InMemoryPageStore) Delete(_ context.Context, storeID, pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pages[storeID][pageID]; !ok {
		return notFound("page", pageID)
	}
	delete(s.pages[storeID], pageID)
	return nil
}
