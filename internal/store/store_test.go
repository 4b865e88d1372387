package store

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"cmsadmin/internal/snapshot"
	"cmsadmin/pkg/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore wires a store against a fake CMS server with in-memory
// snapshot tiers.
func newTestStore(t *testing.T, h http.Handler) (*Store, *snapshot.MemoryStore, *snapshot.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	primary := snapshot.NewMemoryStore()
	secondary := snapshot.NewMemoryStore()
	s := New(Config{
		BaseURL:   srv.URL,
		Primary:   primary,
		Secondary: secondary,
		Logger:    testLogger(),
	})
	return s, primary, secondary
}

// loginHandler answers POST /auth/login with a fixed token and user and
// serves empty collections so the post-login background refresh stays quiet.
func loginHandler(token string, role domain.Role) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"access_token": token,
			"token_type":   "bearer",
			"user": map[string]any{
				"user_id": "u1", "email": "op@example.com", "role": role, "full_name": "Op Erator",
			},
		})
	})
	mux.HandleFunc("GET /content_types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []domain.ContentType{})
	})
	mux.HandleFunc("GET /entries", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []domain.Entry{})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func mustLogin(t *testing.T, s *Store) {
	t.Helper()
	if _, err := s.Login(context.Background(), "op@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	s.WaitBackground()
}

func snapshotSession(t *testing.T, snap *snapshot.MemoryStore) (domain.Session, bool) {
	t.Helper()
	data, found, err := snap.Get(context.Background(), sessionKey)
	if err != nil {
		t.Fatalf("read session snapshot: %v", err)
	}
	if !found {
		return domain.Session{}, false
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		t.Fatalf("decode session snapshot: %v", err)
	}
	return sess, true
}
