package store

import (
	"context"

	"cmsadmin/pkg/domain"
)

// Theme returns the cached theme, if one has been loaded.
func (s *Store) Theme() (domain.Theme, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.theme == nil {
		return domain.Theme{}, false
	}
	return *s.theme, true
}

// LoadTheme is the read-through theme load: cached snapshot first, fresh
// server copy after.
func (s *Store) LoadTheme(ctx context.Context) (domain.Theme, error) {
	var cached domain.Theme
	if s.readCache(ctx, themeKey, &cached) {
		s.mu.Lock()
		s.theme = &cached
		s.mu.Unlock()
	}
	theme, err := s.api.GetTheme(ctx)
	if err != nil {
		return domain.Theme{}, err
	}
	s.mu.Lock()
	s.theme = &theme
	s.mu.Unlock()
	s.writeCache(ctx, themeKey, theme)
	return theme, nil
}

// UpdateTheme replaces the theme settings server-side and locally.
func (s *Store) UpdateTheme(ctx context.Context, theme domain.Theme) (domain.Theme, error) {
	saved, err := s.api.PutTheme(ctx, theme)
	if err != nil {
		return domain.Theme{}, err
	}
	s.mu.Lock()
	s.theme = &saved
	s.mu.Unlock()
	s.writeCache(ctx, themeKey, saved)
	return saved, nil
}
