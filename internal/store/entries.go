package store

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"cmsadmin/internal/api"
	"cmsadmin/internal/util"
	"cmsadmin/pkg/domain"
)

// normalizeEntries guarantees the canonical field map is usable on every
// record that came off the wire or out of a snapshot.
func normalizeEntries(entries []domain.Entry) {
	for i := range entries {
		if entries[i].Fields == nil {
			entries[i].Fields = map[string]any{}
		}
	}
}

// Entries returns the cached entry collection.
func (s *Store) Entries() []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// EntryViews adapts the cached entries for display (fields/values duality
// and camelCase aliases live only on this boundary).
func (s *Store) EntryViews() []domain.EntryView {
	entries := s.Entries()
	views := make([]domain.EntryView, len(entries))
	for i, e := range entries {
		views[i] = e.View()
	}
	return views
}

// EntryByID returns a cached entry.
func (s *Store) EntryByID(id string) (domain.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Entry{}, false
}

// LoadEntries is the read-through load, optionally filtered by content type.
// The cache key is differentiated by the filter. After the fresh list lands,
// content-type ids that are neither owned nor already cached are resolved in
// parallel into the foreign-type cache so views can show names instead of
// raw ids.
func (s *Store) LoadEntries(ctx context.Context, contentTypeID string) ([]domain.Entry, error) {
	key := entriesKey(contentTypeID)

	var cached []domain.Entry
	if s.readCache(ctx, key, &cached) {
		normalizeEntries(cached)
		s.mu.Lock()
		s.entries = cached
		s.mu.Unlock()
	}

	entries, err := s.api.ListEntries(ctx, contentTypeID)
	if err != nil {
		return nil, err
	}
	normalizeEntries(entries)
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	s.writeCache(ctx, key, entries)

	s.resolveForeignTypes(ctx, entries)
	return entries, nil
}

// resolveForeignTypes fetches content types referenced by entries but absent
// from both the owned list and the foreign cache. Failures are swallowed:
// a missing name only degrades display.
func (s *Store) resolveForeignTypes(ctx context.Context, entries []domain.Entry) {
	s.mu.RLock()
	own := make(map[string]struct{}, len(s.contentTypes))
	for _, ct := range s.contentTypes {
		own[ct.ID] = struct{}{}
	}
	missing := make([]string, 0)
	seen := make(map[string]struct{})
	for _, e := range entries {
		id := e.ContentTypeID
		if id == "" {
			continue
		}
		if _, ok := own[id]; ok {
			continue
		}
		if _, ok := s.foreignTypes[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	s.mu.RUnlock()
	if len(missing) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range missing {
		g.Go(func() error {
			ct, err := s.api.GetContentType(gctx, id)
			if err != nil {
				s.log.Debug("foreign content type fetch", "id", id, "err", err)
				return nil
			}
			s.mu.Lock()
			s.foreignTypes[id] = ct
			s.mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

// ForeignType returns a session-cached content type owned by another user.
func (s *Store) ForeignType(id string) (domain.ContentType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ct, ok := s.foreignTypes[id]
	return ct, ok
}

// CreateEntry creates a DRAFT entry under a client-minted id. Fields missing
// from the payload are initialized to null for every schema field of the
// type; provided values are shape-checked against their field kinds when the
// schema is known.
func (s *Store) CreateEntry(ctx context.Context, contentTypeID, title string, fields map[string]any) (domain.Entry, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	if ct, ok := s.ContentTypeByID(ctx, contentTypeID); ok {
		for _, def := range ct.Schema {
			if _, present := fields[def.ID]; !present {
				fields[def.ID] = nil
			}
		}
		if err := validateFields(ct, fields); err != nil {
			return domain.Entry{}, err
		}
	}
	created, err := s.api.CreateEntry(ctx, api.EntryCreate{
		ID:            util.NewID(),
		ContentTypeID: contentTypeID,
		Title:         title,
		Fields:        fields,
	})
	if err != nil {
		return domain.Entry{}, err
	}
	if created.Fields == nil {
		created.Fields = map[string]any{}
	}
	s.mu.Lock()
	s.entries = append([]domain.Entry{created}, s.entries...)
	entries := make([]domain.Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()
	s.writeCache(ctx, entriesKeyAll, entries)
	return created, nil
}

// UpdateEntry applies a partial patch. The server record of the
// last-completed call wins; there is no optimistic locking.
func (s *Store) UpdateEntry(ctx context.Context, id string, patch api.EntryPatch) (domain.Entry, error) {
	if patch.Fields != nil {
		if ct, ok := s.entryType(ctx, id); ok {
			if err := validateFields(ct, *patch.Fields); err != nil {
				return domain.Entry{}, err
			}
		}
	}
	updated, err := s.api.UpdateEntry(ctx, id, patch)
	if err != nil {
		return domain.Entry{}, err
	}
	s.applyEntry(ctx, updated)
	return updated, nil
}

// PublishEntry transitions a draft to PUBLISHED through the dedicated
// endpoint. Publishing an already-published entry is a local no-op.
func (s *Store) PublishEntry(ctx context.Context, id string) (domain.Entry, error) {
	if e, ok := s.EntryByID(id); ok && e.Status == domain.StatusPublished {
		return e, nil
	}
	published, err := s.api.PublishEntry(ctx, id)
	if err != nil {
		return domain.Entry{}, err
	}
	s.applyEntry(ctx, published)
	return published, nil
}

// DeleteEntry removes an entry locally only after the server confirms.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	if err := s.api.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	entries := make([]domain.Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()
	s.writeCache(ctx, entriesKeyAll, entries)
	return nil
}

// applyEntry swaps a fresh server record into the collection.
func (s *Store) applyEntry(ctx context.Context, entry domain.Entry) {
	if entry.Fields == nil {
		entry.Fields = map[string]any{}
	}
	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = entry
			break
		}
	}
	entries := make([]domain.Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()
	s.writeCache(ctx, entriesKeyAll, entries)
}

// entryType resolves the schema of a cached entry's content type.
func (s *Store) entryType(ctx context.Context, entryID string) (domain.ContentType, bool) {
	e, ok := s.EntryByID(entryID)
	if !ok {
		return domain.ContentType{}, false
	}
	return s.ContentTypeByID(ctx, e.ContentTypeID)
}

// validateFields shape-checks values against the schema. Field ids unknown
// to the schema are rejected outright.
func validateFields(ct domain.ContentType, fields map[string]any) error {
	for id, value := range fields {
		def, ok := ct.Field(id)
		if !ok {
			return fmt.Errorf("field %q is not part of content type %s", id, ct.Name)
		}
		if err := domain.ValidateValue(def.Type, def.Config, value); err != nil {
			return fmt.Errorf("field %q: %w", id, err)
		}
	}
	return nil
}
