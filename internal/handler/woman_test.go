package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/womencount/womencount/internal/model"
	"github.com/womencount/womencount/internal/repository"
	"github.com/womencount/womencount/internal/service"
)

type memoryWomanStore struct {
	women map[string]*model.Woman
	err   error
}

func newMemoryWomanStore() *memoryWomanStore {
	return &memoryWomanStore{women: make(map[string]*model.Woman)}
}

func (m *memoryWomanStore) CreateWoman(ctx context.Context, w *model.Woman) error {
	if m.err != nil {
		return m.err
	}
	clone := *w
	m.women[w.ID] = &clone
	return nil
}

func (m *memoryWomanStore) ListWomen(ctx context.Context, filter repository.WomanFilter) ([]*model.Woman, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*model.Woman, 0, len(m.women))
	for _, w := range m.women {
		if filter.Region != nil && w.Region != *filter.Region {
			continue
		}
		if filter.MinAge != nil && w.Age < *filter.MinAge {
			continue
		}
		if filter.MaxAge != nil && w.Age > *filter.MaxAge {
			continue
		}
		clone := *w
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memoryWomanStore) GetWomanByID(ctx context.Context, id string) (*model.Woman, error) {
	w, ok := m.women[id]
	if !ok {
		return nil, repository.ErrWomanNotFound
	}
	clone := *w
	return &clone, nil
}

func (m *memoryWomanStore) UpdateWoman(ctx context.Context, w *model.Woman) error {
	if _, ok := m.women[w.ID]; !ok {
		return repository.ErrWomanNotFound
	}
	clone := *w
	m.women[w.ID] = &clone
	return nil
}

func (m *memoryWomanStore) DeleteWoman(ctx context.Context, id string) (*model.Woman, error) {
	w, ok := m.women[id]
	if !ok {
		return nil, repository.ErrWomanNotFound
	}
	delete(m.women, id)
	return w, nil
}

func newWomanRouter(store *memoryWomanStore) http.Handler {
	h := NewWomanHandler(service.NewWomanService(store), discardLogger())

	r := chi.NewRouter()
	r.Route("/api/women", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

const validCreateBody = `{
	"first_name": "Awa",
	"last_name": "Diop",
	"age": 30,
	"region": "Dakar",
	"department": "Dakar",
	"commune": "Plateau",
	"activity": "Commerce"
}`

func createRecord(t *testing.T, router http.Handler) *model.Woman {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/women", strings.NewReader(validCreateBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var w model.Woman
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return &w
}

func TestCreateWomanEndpoint(t *testing.T) {
	router := newWomanRouter(newMemoryWomanStore())

	w := createRecord(t, router)
	if w.ID == "" {
		t.Error("missing server-assigned id")
	}
	if w.FirstName != "Awa" || w.Region != "Dakar" {
		t.Errorf("unexpected record: %+v", w)
	}
}

func TestCreateWomanInvalidJSON(t *testing.T) {
	router := newWomanRouter(newMemoryWomanStore())

	req := httptest.NewRequest(http.MethodPost, "/api/women", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateWomanValidationFailure(t *testing.T) {
	router := newWomanRouter(newMemoryWomanStore())

	body := `{"first_name": "", "last_name": "Diop", "age": 30, "region": "Dakar", "department": "Dakar", "commune": "Plateau", "activity": "Commerce"}`
	req := httptest.NewRequest(http.MethodPost, "/api/women", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Code != "VALIDATION_FAILED" {
		t.Errorf("code = %q", resp.Code)
	}
	if !strings.Contains(resp.Error, "FirstName is required") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestListWomenEmptyIsArray(t *testing.T) {
	router := newWomanRouter(newMemoryWomanStore())

	req := httptest.NewRequest(http.MethodGet, "/api/women", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestListWomenWithFilters(t *testing.T) {
	store := newMemoryWomanStore()
	router := newWomanRouter(store)
	createRecord(t, router)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"no_filter", "", 1},
		{"matching_region", "?region=Dakar", 1},
		{"other_region", "?region=Thiès", 0},
		{"age_window", "?minAge=18&maxAge=35", 1},
		{"age_window_excludes", "?minAge=40", 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/women"+test.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var women []*model.Woman
			if err := json.Unmarshal(rec.Body.Bytes(), &women); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if len(women) != test.want {
				t.Errorf("got %d records, want %d", len(women), test.want)
			}
		})
	}
}

func TestListWomenMalformedAgeFilter(t *testing.T) {
	router := newWomanRouter(newMemoryWomanStore())

	req := httptest.NewRequest(http.MethodGet, "/api/women?minAge=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetWomanEndpoint(t *testing.T) {
	router := newWomanRouter(newMemoryWomanStore())
	created := createRecord(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/women/"+created.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var w model.Woman
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if w.ID != created.ID {
		t.Errorf("id = %q, want %q", w.ID, created.ID)
	}
}

func TestGetWomanNotFound(t *testing.T) {
	router := newWomanRouter(newMemoryWomanStore())

	req := httptest.NewRequest(http.MethodGet, "/api/women/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateWomanEndpoint(t *testing.T) {
	router := newWomanRouter(newMemoryWomanStore())
	created := createRecord(t, router)

	body := `{"age": 35, "commune": "Médina"}`
	req := httptest.NewRequest(http.MethodPut, "/api/women/"+created.ID, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var w model.Woman
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if w.Age != 35 || w.Commune != "Médina" {
		t.Errorf("merge failed: %+v", w)
	}
	if w.FirstName != "Awa" {
		t.Errorf("untouched field changed: %+v", w)
	}
}

func TestUpdateWomanNotFound(t *testing.T) {
	router := newWomanRouter(newMemoryWomanStore())

	req := httptest.NewRequest(http.MethodPut, "/api/women/missing", strings.NewReader(`{"age": 35}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteWomanEndpoint(t *testing.T) {
	store := newMemoryWomanStore()
	router := newWomanRouter(store)
	created := createRecord(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/api/women/"+created.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// The deleted record comes back in the response body.
	var w model.Woman
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if w.ID != created.ID {
		t.Errorf("id = %q, want %q", w.ID, created.ID)
	}

	if _, ok := store.women[created.ID]; ok {
		t.Error("record still present after delete")
	}
}

func TestDeleteWomanNotFound(t *testing.T) {
	router := newWomanRouter(newMemoryWomanStore())

	req := httptest.NewRequest(http.MethodDelete, "/api/women/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
