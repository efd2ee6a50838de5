package responses

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Service contains business logic for the response library.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service over repo.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// List returns the user's responses oldest first.
func (s *Service) List(ctx context.Context, userID string, category Category) ([]Response, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.List(ctx, userID, category)
}

// Create validates and stores a new response for the user.
func (s *Service) Create(ctx context.Context, userID string, r Response) (Response, error) {
	if userID == "" {
		return Response{}, ErrInvalidInput
	}
	r.UserID = userID
	r.ID = strings.TrimSpace(r.ID)
	r.Text = strings.TrimSpace(r.Text)
	r.Source = strings.TrimSpace(r.Source)
	r.Tags = CleanTags(r.Tags)
	if err := validate.Struct(r); err != nil {
		return Response{}, fmt.Errorf("%w: %s", ErrInvalidInput, describeValidation(err))
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		return Response{}, err
	}
	return r, nil
}

// Update applies a partial update to a response the user owns.
func (s *Service) Update(ctx context.Context, userID, id string, p Patch) (Response, error) {
	current, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Response{}, err
	}
	if p.Text != nil {
		current.Text = strings.TrimSpace(*p.Text)
	}
	if p.Category != nil {
		current.Category = *p.Category
	}
	if p.UserCreated != nil {
		current.UserCreated = *p.UserCreated
	}
	if p.Source != nil {
		current.Source = strings.TrimSpace(*p.Source)
	}
	if p.Tags != nil {
		current.Tags = CleanTags(p.Tags)
	}
	if err := validate.Struct(current); err != nil {
		return Response{}, fmt.Errorf("%w: %s", ErrInvalidInput, describeValidation(err))
	}
	if err := s.Repo.Update(ctx, current); err != nil {
		return Response{}, err
	}
	return current, nil
}

// Delete removes a response the user owns.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" || id == "" {
		return ErrInvalidInput
	}
	return s.Repo.Delete(ctx, userID, id)
}

// PurgeSource removes every response carrying the source tag.
func (s *Service) PurgeSource(ctx context.Context, userID, source string) (int, error) {
	if userID == "" || strings.TrimSpace(source) == "" {
		return 0, ErrInvalidInput
	}
	return s.Repo.DeleteBySource(ctx, userID, source)
}

// ReplaceSource swaps every response tagged source for list, so generated
// suggestions never accumulate across regenerations.
func (s *Service) ReplaceSource(ctx context.Context, userID, source string, list []Response) ([]Response, error) {
	if _, err := s.PurgeSource(ctx, userID, source); err != nil {
		return nil, err
	}
	out := make([]Response, 0, len(list))
	for _, r := range list {
		r.Source = source
		created, err := s.Create(ctx, userID, r)
		if err != nil {
			return nil, fmt.Errorf("store %s response %s: %w", source, r.ID, err)
		}
		out = append(out, created)
	}
	return out, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "oneof":
			parts = append(parts, field+" must be one of "+fe.Param())
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
