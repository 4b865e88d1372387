// Package store is the client-side state store of the admin console: it owns
// the session, the in-memory domain collections, and the persisted snapshot
// tiers, and it mediates every call to the remote CMS API. The server stays
// authoritative; snapshots only accelerate cold starts and are overwritten by
// every successful fetch.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"

	"cmsadmin/internal/api"
	"cmsadmin/internal/snapshot"
	"cmsadmin/pkg/domain"
)

// Snapshot keys. The session blob lives in both tiers; collection caches
// only in the durable primary.
const (
	sessionKey      = "session"
	contentTypesKey = "cache.contentTypes"
	entriesKeyAll   = "cache.entries.all"
	themeKey        = "cache.theme"
)

func entriesKey(contentTypeID string) string {
	if contentTypeID == "" {
		return entriesKeyAll
	}
	return "cache.entries." + contentTypeID
}

// snapshotTimeout bounds synchronous snapshot reads (credential fallback,
// command guard) so a slow backend never stalls the console.
const snapshotTimeout = 2 * time.Second

// Config wires a Store.
type Config struct {
	// BaseURL of the remote CMS API.
	BaseURL string
	// RequestTimeout for every API call.
	RequestTimeout time.Duration
	// Primary is the durable snapshot tier (survives restarts).
	Primary snapshot.Store
	// Secondary is the volatile session mirror consulted by the command
	// guard before the primary tier has been rehydrated.
	Secondary snapshot.Store
	Logger    *slog.Logger
}

// Store holds the session and the cached domain collections.
type Store struct {
	api       *api.Client
	primary   snapshot.Store
	secondary snapshot.Store
	log       *slog.Logger

	mu     sync.RWMutex
	token  string
	user   *domain.User
	role   domain.Role
	isAuth bool

	contentTypes []domain.ContentType
	entries      []domain.Entry
	apiKeys      []domain.APIKey
	foreignTypes map[string]domain.ContentType
	theme        *domain.Theme

	background sync.WaitGroup
}

// New constructs a store bound to the remote API. The store registers itself
// as the client's credential source and unauthorized hook: a 401 from any
// endpoint forces a logout.
func New(cfg Config) *Store {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	primary := cfg.Primary
	if primary == nil {
		primary = snapshot.NewMemoryStore()
	}
	secondary := cfg.Secondary
	if secondary == nil {
		secondary = snapshot.NewMemoryStore()
	}
	s := &Store{
		primary:      primary,
		secondary:    secondary,
		log:          log,
		foreignTypes: make(map[string]domain.ContentType),
	}
	client := api.NewClient(cfg.BaseURL, cfg.RequestTimeout, s)
	client.OnUnauthorized(s.forceLogout)
	s.api = client
	return s
}

// Credentials implements api.CredentialSource. When the in-memory fields are
// momentarily empty (e.g. before Hydrate finished) the persisted session
// snapshot is consulted, primary first.
func (s *Store) Credentials() api.Credentials {
	s.mu.RLock()
	token, role := s.token, s.role
	s.mu.RUnlock()
	if token != "" && role != "" {
		return api.Credentials{Token: token, Role: role}
	}
	if sess, ok := s.persistedSession(); ok {
		if token == "" {
			token = sess.Token
		}
		if role == "" {
			role = sess.Role
			if role == "" && sess.User != nil {
				role = sess.User.Role
			}
		}
	}
	return api.Credentials{Token: token, Role: role}
}

// Hydrate restores the session from the persisted snapshots, primary tier
// first. Absent, malformed, or expired sessions are ignored; Hydrate never
// fails.
func (s *Store) Hydrate(ctx context.Context) {
	sess, ok := s.readSession(ctx, s.primary)
	if !ok {
		sess, ok = s.readSession(ctx, s.secondary)
	}
	if !ok {
		return
	}
	s.mu.Lock()
	s.token = sess.Token
	s.user = sess.User
	s.role = sess.Role
	if s.role == "" && sess.User != nil {
		s.role = sess.User.Role
	}
	s.isAuth = true
	s.mu.Unlock()
	s.log.Debug("session hydrated", "email", sess.User.Email)
}

// Login authenticates against the remote API. On success the session is
// persisted to both snapshot tiers, the collections are warmed from the
// durable cache, and a background refresh of content types and entries is
// fired without blocking the caller. The returned error carries the server's
// detail message when credentials are rejected.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	sess, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.token = sess.Token
	s.user = sess.User
	s.role = sess.Role
	s.isAuth = true
	s.mu.Unlock()

	s.writeSessionSnapshots(ctx, sess)
	s.warmFromCache(ctx)

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.refreshCollections()
	}()

	s.log.Info("logged in", "email", sess.User.Email, "role", sess.Role)
	return sess.User, nil
}

// Logout clears the session fields and removes both persisted copies.
func (s *Store) Logout() {
	s.clearSession()
	s.log.Info("logged out")
}

// forceLogout is the 401 hook: same teardown as Logout, preempting whatever
// the operator was doing.
func (s *Store) forceLogout(detail string) {
	s.clearSession()
	s.log.Info("session invalidated by server", "detail", detail)
}

func (s *Store) clearSession() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.role = ""
	s.isAuth = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := s.primary.Delete(ctx, sessionKey); err != nil {
		s.log.Debug("delete primary session snapshot", "err", err)
	}
	if err := s.secondary.Delete(ctx, sessionKey); err != nil {
		s.log.Debug("delete secondary session snapshot", "err", err)
	}
}

// Authenticated resolves access synchronously for guarded commands: the
// in-memory session first, then the secondary snapshot mirror, which covers
// the window before hydration from the durable tier completes.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	ok := s.isAuth && s.user != nil
	s.mu.RUnlock()
	if ok {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	_, ok = s.readSession(ctx, s.secondary)
	return ok
}

// IsAuth reports the in-memory authentication flag.
func (s *Store) IsAuth() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuth
}

// CurrentUser returns a copy of the session user, if any.
func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// CurrentRole returns the session role.
func (s *Store) CurrentRole() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// WaitBackground blocks until in-flight background refreshes finish. Used on
// shutdown and in tests.
func (s *Store) WaitBackground() {
	s.background.Wait()
}

// ---- session snapshot plumbing ----

func (s *Store) persistedSession() (domain.Session, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if sess, ok := s.readSession(ctx, s.primary); ok {
		return sess, true
	}
	return s.readSession(ctx, s.secondary)
}

// readSession decodes and validates a persisted session. Malformed blobs and
// expired bearer tokens read as absent.
func (s *Store) readSession(ctx context.Context, snap snapshot.Store) (domain.Session, bool) {
	data, found, err := snap.Get(ctx, sessionKey)
	if err != nil {
		s.log.Debug("read session snapshot", "err", err)
		return domain.Session{}, false
	}
	if !found {
		return domain.Session{}, false
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.log.Debug("decode session snapshot", "err", err)
		return domain.Session{}, false
	}
	if sess.Token == "" || sess.User == nil {
		return domain.Session{}, false
	}
	if tokenExpired(sess.Token) {
		s.log.Debug("persisted session token expired")
		return domain.Session{}, false
	}
	return sess, true
}

func (s *Store) writeSessionSnapshots(ctx context.Context, sess domain.Session) {
	data, err := json.Marshal(sess)
	if err != nil {
		s.log.Debug("encode session snapshot", "err", err)
		return
	}
	if err := s.primary.Set(ctx, sessionKey, data); err != nil {
		s.log.Debug("write primary session snapshot", "err", err)
	}
	if err := s.secondary.Set(ctx, sessionKey, data); err != nil {
		s.log.Debug("write secondary session snapshot", "err", err)
	}
}

// tokenExpired inspects the bearer token's exp claim without verifying the
// signature; verification is the server's job. Opaque tokens never expire
// client-side.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// ---- collection snapshot plumbing ----

// readCache decodes a collection snapshot from the durable tier; any failure
// is a miss.
func (s *Store) readCache(ctx context.Context, key string, v any) bool {
	data, found, err := s.primary.Get(ctx, key)
	if err != nil {
		s.log.Debug("read cache snapshot", "key", key, "err", err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Debug("decode cache snapshot", "key", key, "err", err)
		return false
	}
	return true
}

// writeCache persists a collection snapshot, best-effort.
func (s *Store) writeCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Debug("encode cache snapshot", "key", key, "err", err)
		return
	}
	if err := s.primary.Set(ctx, key, data); err != nil {
		s.log.Debug("write cache snapshot", "key", key, "err", err)
	}
}

// warmFromCache hydrates collections from the durable cache right after
// login so the first screens render without waiting on the network.
func (s *Store) warmFromCache(ctx context.Context) {
	var types []domain.ContentType
	if s.readCache(ctx, contentTypesKey, &types) {
		s.mu.Lock()
		s.contentTypes = types
		s.mu.Unlock()
	}
	var entries []domain.Entry
	if s.readCache(ctx, entriesKeyAll, &entries) {
		normalizeEntries(entries)
		s.mu.Lock()
		s.entries = entries
		s.mu.Unlock()
	}
}

// refreshCollections is the post-login background refresh. Content types and
// entries load concurrently; failures are logged and swallowed, leaving the
// collections on their cached snapshots.
func (s *Store) refreshCollections() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := s.LoadContentTypes(gctx); err != nil {
			s.log.Debug("background content type refresh", "err", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.LoadEntries(gctx, ""); err != nil {
			s.log.Debug("background entry refresh", "err", err)
		}
		return nil
	})
	_ = g.Wait()
}
