package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"cmsadmin/internal/api"
	"cmsadmin/pkg/domain"
)

func TestUpdateMyProfileMergesSessionUser(t *testing.T) {
	mux := loginHandler("tok-1", domain.RoleAdmin)
	mux.HandleFunc("PUT /users/me", func(w http.ResponseWriter, r *http.Request) {
		var patch api.ProfilePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad payload")
			return
		}
		writeJSON(w, domain.User{
			UserID: "u1", Email: "op@example.com", Role: domain.RoleAdmin,
			FullName: *patch.FullName,
		})
	})
	s, _, _ := newTestStore(t, mux)
	mustLogin(t, s)

	name := "New Name"
	user, err := s.UpdateMyProfile(context.Background(), api.ProfilePatch{FullName: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.FullName != "New Name" {
		t.Fatalf("server record: %+v", user)
	}
	if got := s.CurrentUser(); got == nil || got.FullName != "New Name" {
		t.Fatalf("session user not merged: %+v", got)
	}
}

// A profile fetch that reports a role change (normalized from the legacy
// spelling) updates the session role.
func TestLoadMyProfilePropagatesRole(t *testing.T) {
	mux := loginHandler("tok-1", domain.RoleAdmin)
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, domain.User{UserID: "u1", Email: "op@example.com", Role: "empleado"})
	})
	s, _, _ := newTestStore(t, mux)
	mustLogin(t, s)

	if _, err := s.LoadMyProfile(context.Background()); err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if got := domain.NormalizeRole(s.CurrentRole()); got != domain.RoleEmployee {
		t.Fatalf("session role after profile fetch = %q", got)
	}
}

func TestAssignRoleAdminGate(t *testing.T) {
	var assigned map[string]any
	mux := loginHandler("tok-1", domain.RoleEmployee)
	mux.HandleFunc("PUT /roles/assign", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&assigned); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad payload")
			return
		}
		writeJSON(w, map[string]string{"message": "ok"})
	})
	s, _, _ := newTestStore(t, mux)
	mustLogin(t, s)

	err := s.AssignRole(context.Background(), "other@example.com", domain.RoleAdmin)
	if !errors.Is(err, ErrAdminOnly) {
		t.Fatalf("employee reassignment: got %v, want ErrAdminOnly", err)
	}
	if assigned != nil {
		t.Fatal("gate must reject before any request is made")
	}
}

func TestAssignRoleMapsRoleID(t *testing.T) {
	var assigned map[string]any
	mux := loginHandler("tok-1", domain.RoleAdmin)
	mux.HandleFunc("PUT /roles/assign", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&assigned); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad payload")
			return
		}
		writeJSON(w, map[string]string{"message": "ok"})
	})
	s, _, _ := newTestStore(t, mux)
	mustLogin(t, s)
	ctx := context.Background()

	if err := s.AssignRole(ctx, "other@example.com", domain.RoleEmployee); err != nil {
		t.Fatalf("assign role: %v", err)
	}
	if assigned["user_id"] != "other@example.com" {
		t.Fatalf("assign payload: %+v", assigned)
	}
	if got := assigned["role_id"]; got != float64(2) {
		t.Fatalf("employee role_id = %v, want 2", got)
	}

	if err := s.AssignRole(ctx, "other@example.com", domain.RoleAdmin); err != nil {
		t.Fatalf("assign admin: %v", err)
	}
	if got := assigned["role_id"]; got != float64(1) {
		t.Fatalf("admin role_id = %v, want 1", got)
	}
}

func TestListUsersPaging(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, domain.UserPage{
			Items: []domain.User{{UserID: "u1"}, {UserID: "u2"}},
			Page:  1, Limit: 2, Total: 5,
		})
	})
	s, _, _ := newTestStore(t, mux)

	page, err := s.ListUsers(context.Background(), api.ListUsersOptions{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if got := page.TotalPages(); got != 3 {
		t.Fatalf("TotalPages() = %d, want 3", got)
	}
}
