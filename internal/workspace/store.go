package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"coverletter-backend/internal/jobads"
	"coverletter-backend/internal/letter"
	"coverletter-backend/internal/paragraphs"
	"coverletter-backend/internal/parsing"
	"coverletter-backend/internal/profile"
	"coverletter-backend/internal/responses"
	"coverletter-backend/internal/resumes"
	"coverletter-backend/internal/shared/storage/kv"
)

var (
	ErrNotFound        = errors.New("response not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyLetter     = errors.New("letter has no paragraphs")
	ErrAlreadyInLetter = errors.New("response already in letter")
)

// Reorder moves a letter paragraph to a new position.
type Reorder interface {
	Move(ctx context.Context, id string, toIndex int) error
}

// Store holds the workspace state. Every operation mutates a copy, persists
// the keys it touched, and only then commits, so a failed write leaves the
// in-memory state unchanged.
type Store struct {
	kv  kv.Store
	Now func() time.Time

	mu    sync.Mutex
	state State
}

// Open loads every key from store. A workspace without a library is seeded
// with the default responses.
func Open(ctx context.Context, store kv.Store) (*Store, error) {
	s := &Store{kv: store}
	st := State{Settings: Settings{PageSize: letter.PageLetter}}

	targets := map[string]any{
		KeyProfile:      &st.Profile,
		KeyResponses:    &st.Responses,
		KeyLetter:       &st.Letter,
		KeySettings:     &st.Settings,
		KeySavedLetters: &st.SavedLetters,
	}
	seeded := false
	for _, key := range allKeys {
		if key == KeyResume {
			var rec resumes.Record
			ok, err := kv.GetJSON(ctx, store, key, &rec)
			if err != nil {
				return nil, err
			}
			if ok {
				st.Resume = &rec
			}
			continue
		}
		ok, err := kv.GetJSON(ctx, store, key, targets[key])
		if err != nil {
			return nil, err
		}
		if key == KeyResponses && !ok {
			seeded = true
		}
	}

	if seeded {
		st.Responses = responses.Defaults(s.now())
		if err := kv.PutJSON(ctx, store, KeyResponses, st.Responses); err != nil {
			return nil, err
		}
	}
	s.state = st
	return s, nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) update(ctx context.Context, fn func(st *State) ([]string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	keys, err := fn(&next)
	if err != nil {
		return err
	}
	for _, key := range keys {
		var err error
		if key == KeyResume && next.Resume == nil {
			err = s.kv.Delete(ctx, key)
		} else {
			err = kv.PutJSON(ctx, s.kv, key, persisted(next, key))
		}
		if err != nil {
			return fmt.Errorf("persist %s: %w", key, err)
		}
	}
	s.state = next
	return nil
}

func persisted(st State, key string) any {
	switch key {
	case KeyProfile:
		return st.Profile
	case KeyResponses:
		return st.Responses
	case KeyResume:
		return st.Resume
	case KeyLetter:
		return st.Letter
	case KeySettings:
		return st.Settings
	case KeySavedLetters:
		return st.SavedLetters
	}
	return nil
}

// SaveProfile overwrites the profile.
func (s *Store) SaveProfile(ctx context.Context, p profile.Profile) error {
	return s.update(ctx, func(st *State) ([]string, error) {
		st.Profile = p
		return []string{KeyProfile}, nil
	})
}

// AddResponse appends a user-authored response. A missing id is generated.
func (s *Store) AddResponse(ctx context.Context, text string, tags []string) (responses.Response, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return responses.Response{}, ErrInvalidInput
	}
	r := responses.Response{
		ID:          "user-" + uuid.NewString(),
		Text:        text,
		Category:    responses.CategoryUser,
		UserCreated: true,
		Tags:        responses.CleanTags(tags),
		CreatedAt:   s.now().UTC(),
	}
	err := s.update(ctx, func(st *State) ([]string, error) {
		st.Responses = append(st.Responses, r)
		return []string{KeyResponses}, nil
	})
	return r, err
}

// EditResponse changes only the text and tags of a response.
func (s *Store) EditResponse(ctx context.Context, id, text string, tags []string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrInvalidInput
	}
	return s.update(ctx, func(st *State) ([]string, error) {
		i := indexOf(st.Responses, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		st.Responses[i].Text = text
		if tags != nil {
			st.Responses[i].Tags = responses.CleanTags(tags)
		}
		return []string{KeyResponses}, nil
	})
}

// DeleteResponse removes a response and its place in the letter.
func (s *Store) DeleteResponse(ctx context.Context, id string) error {
	return s.update(ctx, func(st *State) ([]string, error) {
		i := indexOf(st.Responses, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		st.Responses = slices.Delete(st.Responses, i, i+1)
		keys := []string{KeyResponses}
		if dropFromLetter(st, func(pid string) bool { return pid == id }) {
			keys = append(keys, KeyLetter)
		}
		return keys, nil
	})
}

// ReplaceResponses swaps the whole library, dropping letter paragraphs
// that no longer resolve.
func (s *Store) ReplaceResponses(ctx context.Context, list []responses.Response) error {
	return s.update(ctx, func(st *State) ([]string, error) {
		st.Responses = append([]responses.Response(nil), list...)
		keys := []string{KeyResponses}
		if dropFromLetter(st, func(pid string) bool { return indexOf(st.Responses, pid) < 0 }) {
			keys = append(keys, KeyLetter)
		}
		return keys, nil
	})
}

// ApplyResume stores a parsed résumé, fills empty profile fields from the
// extracted details and replaces the previous résumé-based suggestions.
// It returns the profile fields that were filled.
func (s *Store) ApplyResume(ctx context.Context, rec resumes.Record, details *parsing.PersonalDetails, suggestions []responses.Response) ([]string, error) {
	var filled []string
	err := s.update(ctx, func(st *State) ([]string, error) {
		st.Resume = &rec
		keys := []string{KeyResume, KeyResponses}
		if details != nil {
			st.Profile, filled = profile.MergeDetails(st.Profile, *details)
			if len(filled) > 0 {
				keys = append(keys, KeyProfile)
			}
		}
		st.Responses = paragraphs.Replace(st.Responses, suggestions)
		if dropFromLetter(st, func(pid string) bool { return indexOf(st.Responses, pid) < 0 }) {
			keys = append(keys, KeyLetter)
		}
		return keys, nil
	})
	return filled, err
}

// RemoveResume clears the résumé and purges résumé-based responses.
func (s *Store) RemoveResume(ctx context.Context) error {
	return s.update(ctx, func(st *State) ([]string, error) {
		st.Resume = nil
		st.Responses = responses.WithoutSource(st.Responses, responses.SourceResumeBased)
		keys := []string{KeyResume, KeyResponses}
		if dropFromLetter(st, func(pid string) bool { return indexOf(st.Responses, pid) < 0 }) {
			keys = append(keys, KeyLetter)
		}
		return keys, nil
	})
}

// ApplyJobFields merges extracted fields into the letter's job form,
// keeping existing values unless override is set.
func (s *Store) ApplyJobFields(ctx context.Context, f jobads.Fields, override bool) ([]string, error) {
	var changed []string
	err := s.update(ctx, func(st *State) ([]string, error) {
		st.Letter.Job, changed = jobads.Merge(st.Letter.Job, f, override)
		return []string{KeyLetter}, nil
	})
	return changed, err
}

// SetJob overwrites the job form.
func (s *Store) SetJob(ctx context.Context, form jobads.Form) error {
	return s.update(ctx, func(st *State) ([]string, error) {
		st.Letter.Job = form
		return []string{KeyLetter}, nil
	})
}

// AddToLetter appends a library response to the letter.
func (s *Store) AddToLetter(ctx context.Context, id string) error {
	return s.update(ctx, func(st *State) ([]string, error) {
		if indexOf(st.Responses, id) < 0 {
			return nil, ErrNotFound
		}
		if slices.Contains(st.Letter.Paragraphs, id) {
			return nil, ErrAlreadyInLetter
		}
		st.Letter.Paragraphs = append(st.Letter.Paragraphs, id)
		return []string{KeyLetter}, nil
	})
}

// RemoveFromLetter drops a paragraph from the letter; the library keeps it.
func (s *Store) RemoveFromLetter(ctx context.Context, id string) error {
	return s.update(ctx, func(st *State) ([]string, error) {
		if !dropFromLetter(st, func(pid string) bool { return pid == id }) {
			return nil, ErrNotFound
		}
		return []string{KeyLetter}, nil
	})
}

// Move places the paragraph id at toIndex, clamped to the letter bounds.
func (s *Store) Move(ctx context.Context, id string, toIndex int) error {
	return s.update(ctx, func(st *State) ([]string, error) {
		from := slices.Index(st.Letter.Paragraphs, id)
		if from < 0 {
			return nil, ErrNotFound
		}
		ps := slices.Delete(st.Letter.Paragraphs, from, from+1)
		toIndex = max(0, min(toIndex, len(ps)))
		st.Letter.Paragraphs = slices.Insert(ps, toIndex, id)
		return []string{KeyLetter}, nil
	})
}

// NewLetter clears the paragraphs and the job form.
func (s *Store) NewLetter(ctx context.Context) error {
	return s.update(ctx, func(st *State) ([]string, error) {
		st.Letter = Letter{}
		return []string{KeyLetter}, nil
	})
}

// SaveLetter snapshots the current letter under a generated name.
func (s *Store) SaveLetter(ctx context.Context) (SavedLetter, error) {
	var saved SavedLetter
	err := s.update(ctx, func(st *State) ([]string, error) {
		if len(st.Letter.Paragraphs) == 0 {
			return nil, ErrEmptyLetter
		}
		now := s.now()
		saved = SavedLetter{
			Name:       savedLetterName(st.Letter.Job, now),
			JobInfo:    st.Letter.Job,
			Paragraphs: slices.Clone(st.Letter.Paragraphs),
			SavedAt:    now.UTC(),
		}
		st.SavedLetters = append(st.SavedLetters, saved)
		return []string{KeySavedLetters}, nil
	})
	return saved, err
}

// SetSettings stores the theme and page size.
func (s *Store) SetSettings(ctx context.Context, set Settings) error {
	set.PageSize = letter.NormalizePageSize(set.PageSize)
	return s.update(ctx, func(st *State) ([]string, error) {
		st.Settings = set
		return []string{KeySettings}, nil
	})
}

// LetterInput resolves the current letter for rendering.
func (s *Store) LetterInput() letter.Input {
	st := s.Snapshot()
	return letter.Input{
		Profile:    st.Profile,
		Job:        st.Letter.Job,
		Paragraphs: st.LetterTexts(),
		PageSize:   st.Settings.PageSize,
	}
}

func savedLetterName(job jobads.Form, now time.Time) string {
	role := strings.TrimSpace(parsing.Normalize(job.RoleTitle))
	if role == "" {
		role = "Letter"
	}
	company := strings.TrimSpace(parsing.Normalize(job.CompanyName))
	if company == "" {
		company = "Company"
	}
	return role + " - " + company + " - " + now.Format("2006-01-02 15:04:05")
}

func indexOf(list []responses.Response, id string) int {
	return slices.IndexFunc(list, func(r responses.Response) bool { return r.ID == id })
}

// dropFromLetter removes matching paragraph ids and reports whether any went.
func dropFromLetter(st *State, drop func(id string) bool) bool {
	before := len(st.Letter.Paragraphs)
	st.Letter.Paragraphs = slices.DeleteFunc(st.Letter.Paragraphs, drop)
	return len(st.Letter.Paragraphs) != before
}

var _ Reorder = (*Store)(nil)
