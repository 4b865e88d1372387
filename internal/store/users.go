package store

import (
	"context"
	"errors"
	"io"

	"cmsadmin/internal/api"
	"cmsadmin/pkg/domain"
)

// ErrAdminOnly gates role reassignment client-side; the server remains the
// actual authority.
var ErrAdminOnly = errors.New("only admins can reassign roles")

// LoadMyProfile fetches the caller's profile and merges it into the session
// user, including a role change if the server reports one.
func (s *Store) LoadMyProfile(ctx context.Context) (domain.User, error) {
	user, err := s.api.Me(ctx)
	if err != nil {
		return domain.User{}, err
	}
	s.mergeSessionUser(user)
	return user, nil
}

// UpdateMyProfile applies a partial self-service patch.
func (s *Store) UpdateMyProfile(ctx context.Context, patch api.ProfilePatch) (domain.User, error) {
	user, err := s.api.UpdateMe(ctx, patch)
	if err != nil {
		return domain.User{}, err
	}
	s.mergeSessionUser(user)
	return user, nil
}

// UploadMyAvatar replaces the avatar and refreshes the session user.
func (s *Store) UploadMyAvatar(ctx context.Context, filename string, r io.Reader) (domain.User, error) {
	user, err := s.api.UploadAvatar(ctx, filename, r)
	if err != nil {
		return domain.User{}, err
	}
	s.mergeSessionUser(user)
	return user, nil
}

// ChangeMyPassword rotates the caller's password.
func (s *Store) ChangeMyPassword(ctx context.Context, current, next string) error {
	return s.api.ChangePassword(ctx, current, next)
}

// Register creates an account through the multipart endpoint; avatar may be
// nil.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest, avatarName string, avatar io.Reader) (domain.User, error) {
	return s.api.Register(ctx, req, avatarName, avatar)
}

func (s *Store) mergeSessionUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		u := user
		s.user = &u
	} else {
		merged := user
		if merged.UserID == "" {
			merged.UserID = s.user.UserID
		}
		*s.user = merged
	}
	if user.Role != "" {
		s.role = user.Role
	}
}

// ListRoles returns the role catalog.
func (s *Store) ListRoles(ctx context.Context) ([]domain.RoleInfo, error) {
	return s.api.ListRoles(ctx)
}

// ListUsers returns one page of the user listing, optionally filtered by
// role.
func (s *Store) ListUsers(ctx context.Context, opts api.ListUsersOptions) (domain.UserPage, error) {
	return s.api.ListUsers(ctx, opts)
}

// AssignRole reassigns a user's role. The client gate mirrors the disabled
// controls of the web UI; the server enforces the real rule.
func (s *Store) AssignRole(ctx context.Context, email string, role domain.Role) error {
	if domain.NormalizeRole(s.CurrentRole()) != domain.RoleAdmin {
		return ErrAdminOnly
	}
	return s.api.AssignRole(ctx, email, domain.RoleID(role))
}
