// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/womencount/womencount/internal/model"
	"github.com/womencount/womencount/internal/repository"
)

// Service errors.
var (
	ErrValidation    = errors.New("validation failed")
	ErrWomanNotFound = errors.New("woman record not found")
)

// WomanStore is the persistence surface the record service needs.
type WomanStore interface {
	CreateWoman(ctx context.Context, w *model.Woman) error
	ListWomen(ctx context.Context, filter repository.WomanFilter) ([]*model.Woman, error)
	GetWomanByID(ctx context.Context, id string) (*model.Woman, error)
	UpdateWoman(ctx context.Context, w *model.Woman) error
	DeleteWoman(ctx context.Context, id string) (*model.Woman, error)
}

// WomanService handles record business logic.
type WomanService struct {
	store    WomanStore
	validate *validator.Validate
}

// NewWomanService creates a new WomanService.
func NewWomanService(store WomanStore) *WomanService {
	return &WomanService{
		store:    store,
		validate: validator.New(),
	}
}

// CreateWomanInput defines input for creating a record.
// Ages outside 0-120 are semantically invalid even though the store
// would accept them.
type CreateWomanInput struct {
	FirstName   string `validate:"required"`
	LastName    string `validate:"required"`
	Age         int    `validate:"gte=0,lte=120"`
	Region      string `validate:"required"`
	Department  string `validate:"required"`
	Commune     string `validate:"required"`
	Activity    string `validate:"required"`
	PhoneNumber string
}

// CreateWoman validates the input and persists a new record with a
// server-assigned id and timestamps.
func (s *WomanService) CreateWoman(ctx context.Context, input CreateWomanInput) (*model.Woman, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, describeFieldError(err))
	}

	now := time.Now().UTC()
	w := &model.Woman{
		ID:          ulid.Make().String(),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Age:         input.Age,
		Region:      input.Region,
		Department:  input.Department,
		Commune:     input.Commune,
		Activity:    input.Activity,
		PhoneNumber: input.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateWoman(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create woman record: %w", err)
	}

	return w, nil
}

// ListWomenInput defines optional filters for listing records.
type ListWomenInput struct {
	Region     *string
	Department *string
	Commune    *string
	Activity   *string
	MinAge     *int
	MaxAge     *int
}

// ListWomen retrieves all records matching the filters.
func (s *WomanService) ListWomen(ctx context.Context, input ListWomenInput) ([]*model.Woman, error) {
	filter := repository.WomanFilter{
		Region:     input.Region,
		Department: input.Department,
		Commune:    input.Commune,
		Activity:   input.Activity,
		MinAge:     input.MinAge,
		MaxAge:     input.MaxAge,
	}

	women, err := s.store.ListWomen(ctx, filter)
	if err != nil {
		return nil, err
	}

	return women, nil
}

// GetWoman retrieves a record by id.
// A malformed id simply fails the lookup: callers always see NotFound,
// never a storage-format error.
func (s *WomanService) GetWoman(ctx context.Context, id string) (*model.Woman, error) {
	w, err := s.store.GetWomanByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWomanNotFound) {
			return nil, ErrWomanNotFound
		}
		return nil, err
	}

	return w, nil
}

// UpdateWomanInput defines a partial update. Nil fields are left as
// stored. Timestamps are server-owned and cannot be set by clients.
type UpdateWomanInput struct {
	FirstName   *string
	LastName    *string
	Age         *int
	Region      *string
	Department  *string
	Commune     *string
	Activity    *string
	PhoneNumber *string
}

// UpdateWoman merges the provided fields onto the stored record,
// re-validates the result and re-stamps updated_at.
func (s *WomanService) UpdateWoman(ctx context.Context, id string, input UpdateWomanInput) (*model.Woman, error) {
	w, err := s.store.GetWomanByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWomanNotFound) {
			return nil, ErrWomanNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		w.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		w.LastName = *input.LastName
	}
	if input.Age != nil {
		w.Age = *input.Age
	}
	if input.Region != nil {
		w.Region = *input.Region
	}
	if input.Department != nil {
		w.Department = *input.Department
	}
	if input.Commune != nil {
		w.Commune = *input.Commune
	}
	if input.PhoneNumber != nil {
		w.PhoneNumber = *input.PhoneNumber
	}
	if input.Activity != nil {
		w.Activity = *input.Activity
	}

	merged := CreateWomanInput{
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		Age:         w.Age,
		Region:      w.Region,
		Department:  w.Department,
		Commune:     w.Commune,
		Activity:    w.Activity,
		PhoneNumber: w.PhoneNumber,
	}
	if err := s.validate.Struct(merged); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, describeFieldError(err))
	}

	w.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateWoman(ctx, w); err != nil {
		if errors.Is(err, repository.ErrWomanNotFound) {
			return nil, ErrWomanNotFound
		}
		return nil, fmt.Errorf("failed to update woman record: %w", err)
	}

	return w, nil
}

// DeleteWoman removes a record and returns it.
func (s *WomanService) DeleteWoman(ctx context.Context, id string) (*model.Woman, error) {
	w, err := s.store.DeleteWoman(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWomanNotFound) {
			return nil, ErrWomanNotFound
		}
		return nil, err
	}

	return w, nil
}

// describeFieldError turns the first validator error into a short
// human-readable message without leaking internals.
func describeFieldError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid input"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte", "lte":
		return fe.Field() + " must be between 0 and 120"
	default:
		return fe.Field() + " is invalid"
	}
}
