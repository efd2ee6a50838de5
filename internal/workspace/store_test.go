package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverletter-backend/internal/jobads"
	"coverletter-backend/internal/parsing"
	"coverletter-backend/internal/profile"
	"coverletter-backend/internal/responses"
	"coverletter-backend/internal/resumes"
	"coverletter-backend/internal/shared/storage/kv"
)

var testNow = time.Date(2026, time.May, 4, 14, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T, store kv.Store) *Store {
	t.Helper()
	s, err := Open(context.Background(), store)
	require.NoError(t, err)
	s.Now = func() time.Time { return testNow }
	return s
}

func TestOpenSeedsDefaultsOnce(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	s := openTestStore(t, store)
	st := s.Snapshot()
	assert.Len(t, st.Responses, 10)
	assert.Equal(t, "letter", st.Settings.PageSize)

	require.NoError(t, s.DeleteResponse(ctx, "crowd1"))

	reopened := openTestStore(t, store)
	assert.Len(t, reopened.Snapshot().Responses, 9, "defaults must not be re-seeded over an existing library")
}

func TestLetterAssemblyAndMove(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, kv.NewMemoryStore())

	for _, id := range []string{"crowd1", "crowd2", "ai1"} {
		require.NoError(t, s.AddToLetter(ctx, id))
	}
	assert.ErrorIs(t, s.AddToLetter(ctx, "crowd1"), ErrAlreadyInLetter)
	assert.ErrorIs(t, s.AddToLetter(ctx, "missing"), ErrNotFound)

	require.NoError(t, s.Move(ctx, "ai1", 0))
	assert.Equal(t, []string{"ai1", "crowd1", "crowd2"}, s.Snapshot().Letter.Paragraphs)

	require.NoError(t, s.Move(ctx, "ai1", 99))
	assert.Equal(t, []string{"crowd1", "crowd2", "ai1"}, s.Snapshot().Letter.Paragraphs)

	require.NoError(t, s.Move(ctx, "crowd2", -3))
	assert.Equal(t, []string{"crowd2", "crowd1", "ai1"}, s.Snapshot().Letter.Paragraphs)

	require.NoError(t, s.DeleteResponse(ctx, "crowd1"))
	assert.Equal(t, []string{"crowd2", "ai1"}, s.Snapshot().Letter.Paragraphs)

	require.NoError(t, s.RemoveFromLetter(ctx, "ai1"))
	assert.ErrorIs(t, s.RemoveFromLetter(ctx, "ai1"), ErrNotFound)
}

func TestEditResponseOnlyChangesTextAndTags(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, kv.NewMemoryStore())

	r, err := s.AddResponse(ctx, "  My own words.  ", []string{"intro", " ", "intro"})
	require.NoError(t, err)
	assert.Equal(t, responses.CategoryUser, r.Category)
	assert.True(t, r.UserCreated)
	assert.Equal(t, []string{"intro"}, r.Tags)

	require.NoError(t, s.EditResponse(ctx, r.ID, "Better words.", nil))
	got, ok := s.Snapshot().Response(r.ID)
	require.True(t, ok)
	assert.Equal(t, "Better words.", got.Text)
	assert.Equal(t, []string{"intro"}, got.Tags)
	assert.Equal(t, r.CreatedAt, got.CreatedAt)

	assert.ErrorIs(t, s.EditResponse(ctx, r.ID, " ", nil), ErrInvalidInput)
	assert.ErrorIs(t, s.EditResponse(ctx, "nope", "x", nil), ErrNotFound)
}

func TestApplyAndRemoveResume(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	s := openTestStore(t, store)
	require.NoError(t, s.SaveProfile(ctx, profile.Profile{FirstName: "Janet"}))

	suggestion := func(id string) responses.Response {
		return responses.Response{ID: id, Text: "Generated " + id, Category: responses.CategoryAI, Source: responses.SourceResumeBased}
	}
	rec := resumes.Record{FileName: "cv.pdf", Keywords: []string{"Go"}}
	details := &parsing.PersonalDetails{FirstName: "Jane", LastName: "Citizen", Email: "jane@example.com"}

	filled, err := s.ApplyResume(ctx, rec, details, []responses.Response{suggestion("resume-1-0"), suggestion("resume-1-1")})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lastName", "emailAddress"}, filled)
	assert.Equal(t, "Janet", s.Snapshot().Profile.FirstName)
	require.NoError(t, s.AddToLetter(ctx, "resume-1-0"))

	_, err = s.ApplyResume(ctx, rec, nil, []responses.Response{suggestion("resume-2-0")})
	require.NoError(t, err)
	st := s.Snapshot()
	assert.Len(t, st.Responses, 11)
	assert.Empty(t, st.Letter.Paragraphs, "stale suggestions leave the letter")

	require.NoError(t, s.RemoveResume(ctx))
	st = s.Snapshot()
	assert.Nil(t, st.Resume)
	assert.Len(t, st.Responses, 10)

	reopened := openTestStore(t, store)
	assert.Nil(t, reopened.Snapshot().Resume)
	assert.Equal(t, "Citizen", reopened.Snapshot().Profile.LastName)
}

func TestJobFieldsAndNewLetter(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, kv.NewMemoryStore())
	require.NoError(t, s.SetJob(ctx, jobads.Form{RoleTitle: "Typed Role"}))

	changed, err := s.ApplyJobFields(ctx, jobads.Fields{RoleTitle: "Parsed Role", CompanyName: "Acme"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"companyName"}, changed)
	assert.Equal(t, "Typed Role", s.Snapshot().Letter.Job.RoleTitle)

	_, err = s.ApplyJobFields(ctx, jobads.Fields{RoleTitle: "Parsed Role"}, true)
	require.NoError(t, err)
	assert.Equal(t, "Parsed Role", s.Snapshot().Letter.Job.RoleTitle)

	require.NoError(t, s.AddToLetter(ctx, "crowd1"))
	require.NoError(t, s.NewLetter(ctx))
	assert.Equal(t, Letter{}, s.Snapshot().Letter)
}

func TestSaveLetter(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, kv.NewMemoryStore())

	_, err := s.SaveLetter(ctx)
	assert.ErrorIs(t, err, ErrEmptyLetter)

	require.NoError(t, s.AddToLetter(ctx, "crowd1"))
	saved, err := s.SaveLetter(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Letter - Company - 2026-05-04 14:30:00", saved.Name)

	require.NoError(t, s.SetJob(ctx, jobads.Form{RoleTitle: "Analyst", CompanyName: "Acme"}))
	saved, err = s.SaveLetter(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Analyst - Acme - 2026-05-04 14:30:00", saved.Name)
	assert.Len(t, s.Snapshot().SavedLetters, 2)
}

type failingKV struct{ kv.Store }

func (failingKV) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func TestFailedPersistLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	s := openTestStore(t, mem)
	s.kv = failingKV{mem}

	err := s.AddToLetter(ctx, "crowd1")
	require.Error(t, err)
	assert.Empty(t, s.Snapshot().Letter.Paragraphs)
}

func TestLetterInputResolvesTexts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, kv.NewMemoryStore())
	require.NoError(t, s.SetSettings(ctx, Settings{Theme: "dark", PageSize: "A4"}))
	require.NoError(t, s.AddToLetter(ctx, "ai1"))

	in := s.LetterInput()
	assert.Equal(t, "a4", in.PageSize)
	require.Len(t, in.Paragraphs, 1)
	r, _ := s.Snapshot().Response("ai1")
	assert.Equal(t, r.Text, in.Paragraphs[0])
}
