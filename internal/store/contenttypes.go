package store

import (
	"context"
	"fmt"

	"cmsadmin/internal/api"
	"cmsadmin/internal/util"
	"cmsadmin/pkg/domain"
)

// ContentTypes returns the cached caller-owned content types.
func (s *Store) ContentTypes() []domain.ContentType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ContentType, len(s.contentTypes))
	copy(out, s.contentTypes)
	return out
}

// LoadContentTypes is the read-through load: the durable cache hydrates the
// collection immediately, then the fresh server list overwrites both memory
// and cache.
func (s *Store) LoadContentTypes(ctx context.Context) ([]domain.ContentType, error) {
	var cached []domain.ContentType
	if s.readCache(ctx, contentTypesKey, &cached) {
		s.mu.Lock()
		s.contentTypes = cached
		s.mu.Unlock()
	}

	types, err := s.api.ListContentTypes(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.contentTypes = types
	s.mu.Unlock()
	s.writeCache(ctx, contentTypesKey, types)
	return types, nil
}

// CreateContentType registers a new empty schema under a client-minted id
// with an api_id derived from the name.
func (s *Store) CreateContentType(ctx context.Context, name string) (domain.ContentType, error) {
	apiID := domain.TypeAPIID(name)
	if apiID == "" {
		return domain.ContentType{}, fmt.Errorf("content type name %q derives an empty api_id", name)
	}
	ct := domain.ContentType{
		ID:     util.NewID(),
		Name:   name,
		APIID:  apiID,
		Schema: []domain.FieldDef{},
	}
	created, err := s.api.CreateContentType(ctx, ct)
	if err != nil {
		return domain.ContentType{}, err
	}
	s.mu.Lock()
	s.contentTypes = append(s.contentTypes, created)
	types := make([]domain.ContentType, len(s.contentTypes))
	copy(types, s.contentTypes)
	s.mu.Unlock()
	s.writeCache(ctx, contentTypesKey, types)
	return created, nil
}

// UpdateContentType applies a partial patch (name and/or full schema
// replacement) and swaps in the server's record.
func (s *Store) UpdateContentType(ctx context.Context, id string, patch api.ContentTypePatch) (domain.ContentType, error) {
	updated, err := s.api.UpdateContentType(ctx, id, patch)
	if err != nil {
		return domain.ContentType{}, err
	}
	s.mu.Lock()
	for i := range s.contentTypes {
		if s.contentTypes[i].ID == id {
			s.contentTypes[i] = updated
			break
		}
	}
	types := make([]domain.ContentType, len(s.contentTypes))
	copy(types, s.contentTypes)
	s.mu.Unlock()
	s.writeCache(ctx, contentTypesKey, types)
	return updated, nil
}

// DeleteContentType removes a schema after the server confirms. The server
// cascades the type's entries; the local entry collection follows suit.
func (s *Store) DeleteContentType(ctx context.Context, id string) error {
	if err := s.api.DeleteContentType(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	kept := s.contentTypes[:0]
	for _, ct := range s.contentTypes {
		if ct.ID != id {
			kept = append(kept, ct)
		}
	}
	s.contentTypes = kept
	keptEntries := s.entries[:0]
	for _, e := range s.entries {
		if e.ContentTypeID != id {
			keptEntries = append(keptEntries, e)
		}
	}
	s.entries = keptEntries
	types := make([]domain.ContentType, len(s.contentTypes))
	copy(types, s.contentTypes)
	entries := make([]domain.Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()
	s.writeCache(ctx, contentTypesKey, types)
	s.writeCache(ctx, entriesKeyAll, entries)
	return nil
}

// ContentTypeByID resolves a type by id: the caller's own list first, then
// the foreign-type cache, then a lazy remote fetch that is cached for the
// rest of the session. Lookup failures read as not found.
func (s *Store) ContentTypeByID(ctx context.Context, id string) (domain.ContentType, bool) {
	if id == "" {
		return domain.ContentType{}, false
	}
	s.mu.RLock()
	for _, ct := range s.contentTypes {
		if ct.ID == id {
			s.mu.RUnlock()
			return ct, true
		}
	}
	if ct, ok := s.foreignTypes[id]; ok {
		s.mu.RUnlock()
		return ct, true
	}
	s.mu.RUnlock()

	ct, err := s.api.GetContentType(ctx, id)
	if err != nil {
		s.log.Debug("foreign content type fetch", "id", id, "err", err)
		return domain.ContentType{}, false
	}
	s.mu.Lock()
	s.foreignTypes[id] = ct
	s.mu.Unlock()
	return ct, true
}

// AddField validates and appends one field to a type's schema, persisting
// through UpdateContentType. The derived id must be non-empty, match the
// field-id pattern, and not collide with an existing field.
func (s *Store) AddField(ctx context.Context, typeID string, field domain.FieldDef) (domain.ContentType, error) {
	if !field.Type.Valid() {
		return domain.ContentType{}, fmt.Errorf("unknown field kind %q", field.Type)
	}
	if field.ID == "" {
		return domain.ContentType{}, fmt.Errorf("field id is empty")
	}
	if !domain.ValidFieldID(field.ID) {
		return domain.ContentType{}, fmt.Errorf("field id %q must start with a lowercase letter and contain only letters and digits", field.ID)
	}
	s.mu.RLock()
	var base []domain.FieldDef
	found := false
	for _, ct := range s.contentTypes {
		if ct.ID == typeID {
			base = append([]domain.FieldDef(nil), ct.Schema...)
			found = true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return domain.ContentType{}, fmt.Errorf("content type %s not found", typeID)
	}
	for _, f := range base {
		if f.ID == field.ID {
			return domain.ContentType{}, fmt.Errorf("field id %q already exists on this content type", field.ID)
		}
	}
	schema := append(base, field)
	return s.UpdateContentType(ctx, typeID, api.ContentTypePatch{Schema: &schema})
}
