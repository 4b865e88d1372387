package store

import (
	"context"
	"fmt"

	"cmsadmin/pkg/domain"
)

// APIKeys returns the cached key collection.
func (s *Store) APIKeys() []domain.APIKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.APIKey, len(s.apiKeys))
	copy(out, s.apiKeys)
	return out
}

// LoadAPIKeys fetches the key list. Keys carry token material, so they are
// never written to a snapshot tier.
func (s *Store) LoadAPIKeys(ctx context.Context) ([]domain.APIKey, error) {
	keys, err := s.api.ListAPIKeys(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.apiKeys = keys
	s.mu.Unlock()
	return keys, nil
}

// CreateAPIKey asks the server to mint a key; the client never generates
// token material.
func (s *Store) CreateAPIKey(ctx context.Context, name, description string) (domain.APIKey, error) {
	key, err := s.api.CreateAPIKey(ctx, name, description)
	if err != nil {
		return domain.APIKey{}, err
	}
	s.mu.Lock()
	s.apiKeys = append([]domain.APIKey{key}, s.apiKeys...)
	s.mu.Unlock()
	return key, nil
}

// UpdateAPIKeyLocal patches a key's name/description in the local collection
// only. The observed server contract has no key-update endpoint, so this is
// explicitly a local-only mutation: it does not survive the next LoadAPIKeys.
func (s *Store) UpdateAPIKeyLocal(id int64, name, description *string) (domain.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.apiKeys {
		if s.apiKeys[i].ID != id {
			continue
		}
		if name != nil {
			s.apiKeys[i].Name = *name
		}
		if description != nil {
			s.apiKeys[i].Description = *description
		}
		return s.apiKeys[i], nil
	}
	return domain.APIKey{}, fmt.Errorf("api key %d not found", id)
}

// DeleteAPIKey revokes a key server-side, then drops it locally.
func (s *Store) DeleteAPIKey(ctx context.Context, id int64) error {
	if err := s.api.DeleteAPIKey(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	kept := s.apiKeys[:0]
	for _, k := range s.apiKeys {
		if k.ID != id {
			kept = append(kept, k)
		}
	}
	s.apiKeys = kept
	s.mu.Unlock()
	return nil
}
