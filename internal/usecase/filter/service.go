// Package filter manages the keyword list used by highlight keyword mode.
package filter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/infra/filterstore"
)

// Store loads and saves the keyword list.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, keywords []string) error
}

// Service serializes read-modify-write cycles on the store.
type Service struct {
	mu    sync.Mutex
	store Store
}

// NewService creates a filter Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the keywords in file order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	kws, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list filters: %w", err)
	}
	return kws, nil
}

// Add appends keywords not already present and returns the new list.
func (s *Service) Add(ctx context.Context, keywords ...string) ([]string, error) {
	if err := validate(keywords); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("add filters: %w", err)
	}
	next := filterstore.Dedupe(append(cur, keywords...))
	if err := s.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("add filters: %w", err)
	}
	return next, nil
}

// Remove drops keywords and returns the new list. Unknown keywords are ignored.
func (s *Service) Remove(ctx context.Context, keywords ...string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("remove filters: %w", err)
	}
	drop := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		drop[strings.TrimSpace(kw)] = struct{}{}
	}
	next := make([]string, 0, len(cur))
	for _, kw := range cur {
		if _, ok := drop[kw]; !ok {
			next = append(next, kw)
		}
	}
	if err := s.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("remove filters: %w", err)
	}
	return next, nil
}

// Replace overwrites the list.
func (s *Service) Replace(ctx context.Context, keywords []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := filterstore.Dedupe(keywords)
	if err := s.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("replace filters: %w", err)
	}
	return next, nil
}

func validate(keywords []string) error {
	if len(filterstore.Dedupe(keywords)) == 0 {
		return &entity.ValidationError{Field: "keywords", Message: "at least one keyword is required"}
	}
	return nil
}
