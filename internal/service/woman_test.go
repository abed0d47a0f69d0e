package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/womencount/womencount/internal/model"
	"github.com/womencount/womencount/internal/repository"
)

type fakeWomanStore struct {
	women map[string]*model.Woman

	createErr error
	listErr   error
}

func newFakeWomanStore() *fakeWomanStore {
	return &fakeWomanStore{women: make(map[string]*model.Woman)}
}

func (f *fakeWomanStore) CreateWoman(ctx context.Context, w *model.Woman) error {
	if f.createErr != nil {
		return f.createErr
	}
	clone := *w
	f.women[w.ID] = &clone
	return nil
}

func (f *fakeWomanStore) ListWomen(ctx context.Context, filter repository.WomanFilter) ([]*model.Woman, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*model.Woman, 0, len(f.women))
	for _, w := range f.women {
		clone := *w
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeWomanStore) GetWomanByID(ctx context.Context, id string) (*model.Woman, error) {
	w, ok := f.women[id]
	if !ok {
		return nil, repository.ErrWomanNotFound
	}
	clone := *w
	return &clone, nil
}

func (f *fakeWomanStore) UpdateWoman(ctx context.Context, w *model.Woman) error {
	if _, ok := f.women[w.ID]; !ok {
		return repository.ErrWomanNotFound
	}
	clone := *w
	f.women[w.ID] = &clone
	return nil
}

func (f *fakeWomanStore) DeleteWoman(ctx context.Context, id string) (*model.Woman, error) {
	w, ok := f.women[id]
	if !ok {
		return nil, repository.ErrWomanNotFound
	}
	delete(f.women, id)
	return w, nil
}

func validCreateInput() CreateWomanInput {
	return CreateWomanInput{
		FirstName:  "Awa",
		LastName:   "Diop",
		Age:        30,
		Region:     "Dakar",
		Department: "Dakar",
		Commune:    "Plateau",
		Activity:   "Commerce",
	}
}

func TestCreateWoman(t *testing.T) {
	store := newFakeWomanStore()
	svc := NewWomanService(store)

	w, err := svc.CreateWoman(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.ID == "" {
		t.Error("expected server-assigned id")
	}
	if w.CreatedAt.IsZero() || w.UpdatedAt.IsZero() {
		t.Error("expected server-assigned timestamps")
	}
	if !w.CreatedAt.Equal(w.UpdatedAt) {
		t.Error("expected created_at and updated_at to match on create")
	}
	if _, ok := store.women[w.ID]; !ok {
		t.Error("record not persisted")
	}
}

func TestCreateWomanValidationErrors(t *testing.T) {
	svc := NewWomanService(newFakeWomanStore())

	tests := []struct {
		name    string
		mutate  func(*CreateWomanInput)
		wantMsg string
	}{
		{"missing_first_name", func(in *CreateWomanInput) { in.FirstName = "" }, "FirstName is required"},
		{"missing_last_name", func(in *CreateWomanInput) { in.LastName = "" }, "LastName is required"},
		{"missing_region", func(in *CreateWomanInput) { in.Region = "" }, "Region is required"},
		{"missing_department", func(in *CreateWomanInput) { in.Department = "" }, "Department is required"},
		{"missing_commune", func(in *CreateWomanInput) { in.Commune = "" }, "Commune is required"},
		{"missing_activity", func(in *CreateWomanInput) { in.Activity = "" }, "Activity is required"},
		{"negative_age", func(in *CreateWomanInput) { in.Age = -1 }, "Age must be between 0 and 120"},
		{"age_too_high", func(in *CreateWomanInput) { in.Age = 121 }, "Age must be between 0 and 120"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			input := validCreateInput()
			test.mutate(&input)

			_, err := svc.CreateWoman(context.Background(), input)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), test.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), test.wantMsg)
			}
		})
	}
}

func TestCreateWomanPhoneOptional(t *testing.T) {
	svc := NewWomanService(newFakeWomanStore())

	input := validCreateInput()
	input.PhoneNumber = ""

	if _, err := svc.CreateWoman(context.Background(), input); err != nil {
		t.Fatalf("phone number should be optional, got %v", err)
	}
}

func TestGetWomanNotFound(t *testing.T) {
	svc := NewWomanService(newFakeWomanStore())

	_, err := svc.GetWoman(context.Background(), "missing")
	if !errors.Is(err, ErrWomanNotFound) {
		t.Fatalf("expected ErrWomanNotFound, got %v", err)
	}
}

func TestGetWomanMalformedID(t *testing.T) {
	svc := NewWomanService(newFakeWomanStore())

	// A malformed id surfaces as plain NotFound, never a format error.
	_, err := svc.GetWoman(context.Background(), "!!!not-an-id!!!")
	if !errors.Is(err, ErrWomanNotFound) {
		t.Fatalf("expected ErrWomanNotFound, got %v", err)
	}
}

func TestUpdateWomanPartialMerge(t *testing.T) {
	store := newFakeWomanStore()
	svc := NewWomanService(store)

	created, err := svc.CreateWoman(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newAge := 35
	newCommune := "Médina"
	updated, err := svc.UpdateWoman(context.Background(), created.ID, UpdateWomanInput{
		Age:     &newAge,
		Commune: &newCommune,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Age != 35 || updated.Commune != "Médina" {
		t.Errorf("merge failed: %+v", updated)
	}
	if updated.FirstName != "Awa" || updated.Region != "Dakar" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("created_at must not change on update")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("updated_at not re-stamped")
	}
}

func TestUpdateWomanRejectsInvalidMerge(t *testing.T) {
	store := newFakeWomanStore()
	svc := NewWomanService(store)

	created, err := svc.CreateWoman(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	badAge := 200
	_, err = svc.UpdateWoman(context.Background(), created.ID, UpdateWomanInput{Age: &badAge})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	// Stored record must be untouched after a rejected update.
	stored := store.women[created.ID]
	if stored.Age != 30 {
		t.Errorf("stored age = %d, want 30", stored.Age)
	}
}

func TestUpdateWomanNotFound(t *testing.T) {
	svc := NewWomanService(newFakeWomanStore())

	name := "Fatou"
	_, err := svc.UpdateWoman(context.Background(), "missing", UpdateWomanInput{FirstName: &name})
	if !errors.Is(err, ErrWomanNotFound) {
		t.Fatalf("expected ErrWomanNotFound, got %v", err)
	}
}

func TestDeleteWomanReturnsRecord(t *testing.T) {
	store := newFakeWomanStore()
	svc := NewWomanService(store)

	created, err := svc.CreateWoman(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := svc.DeleteWoman(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != created.ID {
		t.Errorf("deleted id = %q, want %q", deleted.ID, created.ID)
	}

	if _, err := svc.GetWoman(context.Background(), created.ID); !errors.Is(err, ErrWomanNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
}

func TestDeleteWomanNotFound(t *testing.T) {
	svc := NewWomanService(newFakeWomanStore())

	_, err := svc.DeleteWoman(context.Background(), "missing")
	if !errors.Is(err, ErrWomanNotFound) {
		t.Fatalf("expected ErrWomanNotFound, got %v", err)
	}
}

func TestListWomenPassesFilter(t *testing.T) {
	store := newFakeWomanStore()
	svc := NewWomanService(store)

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateWoman(context.Background(), validCreateInput()); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	region := "Dakar"
	minAge := 18
	women, err := svc.ListWomen(context.Background(), ListWomenInput{Region: &region, MinAge: &minAge})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(women) != 3 {
		t.Errorf("expected 3 records, got %d", len(women))
	}

	// IDs must be ULIDs.
	for _, w := range women {
		if len(w.ID) != 26 {
			t.Errorf("unexpected id format: %q", w.ID)
		}
	}
}
