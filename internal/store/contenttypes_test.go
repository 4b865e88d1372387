package store

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"cmsadmin/internal/api"
	"cmsadmin/pkg/domain"
)

// typesHandler echoes creates and updates back so the store's local swap
// logic is observable.
func typesHandler(t *testing.T, owned []domain.ContentType) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /content_types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, owned)
	})
	mux.HandleFunc("POST /content_types", func(w http.ResponseWriter, r *http.Request) {
		var ct domain.ContentType
		if err := json.NewDecoder(r.Body).Decode(&ct); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad payload")
			return
		}
		writeJSON(w, ct)
	})
	mux.HandleFunc("PUT /content_types/{id}", func(w http.ResponseWriter, r *http.Request) {
		var patch api.ContentTypePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad payload")
			return
		}
		id := r.PathValue("id")
		for _, ct := range owned {
			if ct.ID != id {
				continue
			}
			if patch.Name != nil {
				ct.Name = *patch.Name
			}
			if patch.Schema != nil {
				ct.Schema = *patch.Schema
			}
			writeJSON(w, ct)
			return
		}
		writeDetail(w, http.StatusNotFound, "no such content type")
	})
	mux.HandleFunc("DELETE /content_types/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "deleted"})
	})
	return mux
}

func TestLoadContentTypesReadThrough(t *testing.T) {
	owned := []domain.ContentType{{ID: "ct-1", Name: "Page", APIID: "page"}}
	s, primary, _ := newTestStore(t, typesHandler(t, owned))
	ctx := context.Background()

	// Stale cache hydrates first, then the server list overwrites it.
	stale := []domain.ContentType{{ID: "ct-old", Name: "Old", APIID: "old"}}
	data, _ := json.Marshal(stale)
	if err := primary.Set(ctx, contentTypesKey, data); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	types, err := s.LoadContentTypes(ctx)
	if err != nil {
		t.Fatalf("load content types: %v", err)
	}
	if len(types) != 1 || types[0].ID != "ct-1" {
		t.Fatalf("unexpected fresh list: %+v", types)
	}
	fresh, found, _ := primary.Get(ctx, contentTypesKey)
	if !found {
		t.Fatal("cache not rewritten")
	}
	var cached []domain.ContentType
	if err := json.Unmarshal(fresh, &cached); err != nil || len(cached) != 1 || cached[0].ID != "ct-1" {
		t.Fatalf("cache holds stale data: %s", fresh)
	}
}

func TestLoadContentTypesFailureKeepsCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /content_types", func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusInternalServerError, "backend down")
	})
	s, primary, _ := newTestStore(t, mux)
	ctx := context.Background()
	cached := []domain.ContentType{{ID: "ct-1", Name: "Page", APIID: "page"}}
	data, _ := json.Marshal(cached)
	if err := primary.Set(ctx, contentTypesKey, data); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	if _, err := s.LoadContentTypes(ctx); err == nil {
		t.Fatal("expected load failure")
	}
	got := s.ContentTypes()
	if len(got) != 1 || got[0].ID != "ct-1" {
		t.Fatalf("cached list lost on failed refresh: %+v", got)
	}
}

func TestCreateContentTypeDerivesAPIID(t *testing.T) {
	s, _, _ := newTestStore(t, typesHandler(t, nil))
	ctx := context.Background()

	ct, err := s.CreateContentType(ctx, "Blog Post")
	if err != nil {
		t.Fatalf("create content type: %v", err)
	}
	if ct.APIID != "blog_post" {
		t.Fatalf("api_id = %q, want blog_post", ct.APIID)
	}
	if ct.ID == "" {
		t.Fatal("expected a client-minted id")
	}
	if ct.Schema == nil || len(ct.Schema) != 0 {
		t.Fatalf("new type must start with an empty schema, got %+v", ct.Schema)
	}
	if got := s.ContentTypes(); len(got) != 1 {
		t.Fatalf("created type not in local collection: %+v", got)
	}
}

func TestCreateContentTypeRejectsEmptyAPIID(t *testing.T) {
	s, _, _ := newTestStore(t, typesHandler(t, nil))
	if _, err := s.CreateContentType(context.Background(), "!!!"); err == nil {
		t.Fatal("expected rejection of a name that derives an empty api_id")
	}
}

func TestDeleteContentTypeCascadesEntries(t *testing.T) {
	owned := []domain.ContentType{
		{ID: "ct-1", Name: "Page", APIID: "page"},
		{ID: "ct-2", Name: "Post", APIID: "post"},
	}
	mux := typesHandler(t, owned)
	mux.HandleFunc("GET /entries", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []domain.Entry{
			{ID: "e1", ContentTypeID: "ct-1", Status: domain.StatusDraft},
			{ID: "e2", ContentTypeID: "ct-2", Status: domain.StatusDraft},
		})
	})
	s, primary, _ := newTestStore(t, mux)
	ctx := context.Background()
	if _, err := s.LoadContentTypes(ctx); err != nil {
		t.Fatalf("load content types: %v", err)
	}
	if _, err := s.LoadEntries(ctx, ""); err != nil {
		t.Fatalf("load entries: %v", err)
	}

	if err := s.DeleteContentType(ctx, "ct-1"); err != nil {
		t.Fatalf("delete content type: %v", err)
	}
	if got := s.ContentTypes(); len(got) != 1 || got[0].ID != "ct-2" {
		t.Fatalf("type list after delete: %+v", got)
	}
	if _, ok := s.EntryByID("e1"); ok {
		t.Fatal("entries of the deleted type must cascade locally")
	}
	if _, ok := s.EntryByID("e2"); !ok {
		t.Fatal("entries of other types must survive")
	}
	// Both caches reflect the cascade.
	var types []domain.ContentType
	data, _, _ := primary.Get(ctx, contentTypesKey)
	if err := json.Unmarshal(data, &types); err != nil || len(types) != 1 {
		t.Fatalf("type cache after delete: %s", data)
	}
	var entries []domain.Entry
	data, _, _ = primary.Get(ctx, entriesKeyAll)
	if err := json.Unmarshal(data, &entries); err != nil || len(entries) != 1 || entries[0].ID != "e2" {
		t.Fatalf("entry cache after delete: %s", data)
	}
}

func TestAddField(t *testing.T) {
	owned := []domain.ContentType{{
		ID: "ct-1", Name: "Page", APIID: "page",
		Schema: []domain.FieldDef{{ID: "title", Name: "Title", Type: domain.KindShortText}},
	}}
	s, _, _ := newTestStore(t, typesHandler(t, owned))
	ctx := context.Background()
	if _, err := s.LoadContentTypes(ctx); err != nil {
		t.Fatalf("load content types: %v", err)
	}

	ct, err := s.AddField(ctx, "ct-1", domain.FieldDef{ID: "subtitle", Name: "Subtitle", Type: domain.KindShortText})
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	if len(ct.Schema) != 2 || ct.Schema[1].ID != "subtitle" {
		t.Fatalf("schema after add: %+v", ct.Schema)
	}
}

func TestAddFieldRejections(t *testing.T) {
	owned := []domain.ContentType{{
		ID: "ct-1", Name: "Page", APIID: "page",
		Schema: []domain.FieldDef{{ID: "title", Name: "Title", Type: domain.KindShortText}},
	}}
	s, _, _ := newTestStore(t, typesHandler(t, owned))
	ctx := context.Background()
	if _, err := s.LoadContentTypes(ctx); err != nil {
		t.Fatalf("load content types: %v", err)
	}

	cases := []struct {
		name   string
		typeID string
		field  domain.FieldDef
	}{
		{"duplicate id", "ct-1", domain.FieldDef{ID: "title", Name: "Title", Type: domain.KindShortText}},
		{"invalid id", "ct-1", domain.FieldDef{ID: "Title", Name: "Title", Type: domain.KindShortText}},
		{"empty id", "ct-1", domain.FieldDef{Name: "Title", Type: domain.KindShortText}},
		{"unknown kind", "ct-1", domain.FieldDef{ID: "x", Name: "X", Type: domain.FieldKind("blob")}},
		{"unknown type", "ct-404", domain.FieldDef{ID: "x", Name: "X", Type: domain.KindShortText}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.AddField(ctx, tc.typeID, tc.field); err == nil {
				t.Fatalf("AddField(%s) accepted %+v", tc.typeID, tc.field)
			}
		})
	}
}

func TestContentTypeByIDLazyFetch(t *testing.T) {
	mux := typesHandler(t, nil)
	var fetches int
	mux.HandleFunc("GET /content_types/{id}", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		writeJSON(w, domain.ContentType{ID: r.PathValue("id"), Name: "Remote", APIID: "remote"})
	})
	s, _, _ := newTestStore(t, mux)
	ctx := context.Background()

	ct, ok := s.ContentTypeByID(ctx, "ct-remote")
	if !ok || ct.Name != "Remote" {
		t.Fatalf("lazy fetch failed: ok=%v ct=%+v", ok, ct)
	}
	// Second lookup hits the session cache.
	if _, ok := s.ContentTypeByID(ctx, "ct-remote"); !ok {
		t.Fatal("cached foreign type lost")
	}
	if fetches != 1 {
		t.Fatalf("remote fetched %d times, want 1", fetches)
	}
}
