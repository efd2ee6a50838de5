package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverletter-backend/internal/letter"
	"coverletter-backend/internal/shared/storage/kv"
	"coverletter-backend/internal/workspace"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	apiURL, apiToken = "", ""
	exportRemote, exportOut, exportFormat = false, "", letter.FormatPDF
	jobUseAI, jobOverwrite, jobSourceURL = false, false, ""
	responsesTags, responsesCategory, responsesJSON = nil, "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--workspace", dir}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func loadState(t *testing.T, dir string) workspace.State {
	t.Helper()
	store, err := kv.NewDirStore(dir)
	require.NoError(t, err)
	ws, err := workspace.Open(context.Background(), store)
	require.NoError(t, err)
	return ws.Snapshot()
}

func TestProfileSetKeepsOtherFields(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "profile", "set", "--first-name", "Jane", "--email", "jane@example.com")
	require.NoError(t, err)

	out, err := execute(t, dir, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"firstName": "Jane"`)
	assert.Contains(t, out, `"emailAddress": "jane@example.com"`)
	assert.Equal(t, "Jane", loadState(t, dir).Profile.FirstName)
}

func TestLetterAssemblyFromCommandLine(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "responses", "add", "I have led teams of five engineers.")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(id, "user-"))

	_, err = execute(t, dir, "letter", "add", "crowd1", id)
	require.NoError(t, err)
	_, err = execute(t, dir, "letter", "move", id, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{id, "crowd1"}, loadState(t, dir).Letter.Paragraphs)

	out, err = execute(t, dir, "letter", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "1. "+id)
	assert.Contains(t, out, "Dear Recruitment Officer,")
	assert.Contains(t, out, "I have led teams of five engineers.")

	_, err = execute(t, dir, "letter", "add", "crowd1")
	assert.ErrorIs(t, err, workspace.ErrAlreadyInLetter)

	out, err = execute(t, dir, "letter", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Letter - Company - ")

	_, err = execute(t, dir, "letter", "new")
	require.NoError(t, err)
	assert.Empty(t, loadState(t, dir).Letter.Paragraphs)
	assert.Len(t, loadState(t, dir).SavedLetters, 1)
}

func TestLetterShowEmpty(t *testing.T) {
	out, err := execute(t, t.TempDir(), "letter", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "no paragraphs")
}

func TestLetterExportText(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "letter", "add", "crowd2")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "letter.txt")
	_, err = execute(t, dir, "letter", "export", "--format", "text", "--out", path)
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Dear Recruitment Officer,")
}

func TestResumeUploadParsesLocally(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "jane-citizen.txt")
	content := "Jane Citizen\njane.citizen@example.com | 0412 345 678\n\nExperience\nSenior Software Engineer at Acme.\nBuilt Go services on AWS with PostgreSQL and Docker.\n\nSkills\nGo, SQL, AWS, Docker, Kubernetes\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := execute(t, dir, "resume", "upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, "parsed jane-citizen.txt")

	st := loadState(t, dir)
	require.NotNil(t, st.Resume)
	assert.Equal(t, "jane-citizen.txt", st.Resume.FileName)
	assert.Equal(t, "jane.citizen@example.com", st.Profile.EmailAddress)

	resumeBased := 0
	for _, r := range st.Responses {
		if r.Source == "resume-based" {
			resumeBased++
		}
	}
	assert.Positive(t, resumeBased)

	_, err = execute(t, dir, "resume", "remove")
	require.NoError(t, err)
	st = loadState(t, dir)
	assert.Nil(t, st.Resume)
	for _, r := range st.Responses {
		assert.NotEqual(t, "resume-based", r.Source)
	}
}

func TestResumeUploadRejectsUnsupportedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n"), 0o600))

	_, err := execute(t, t.TempDir(), "resume", "upload", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PDF, DOCX or plain text")
}

func TestJobParseKeepsExistingFieldsWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "job", "set", "--company", "Existing Co")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ad.txt")
	ad := "Position: Data Analyst\nCompany: Acme Pty Ltd\nRef #: DA-77"
	require.NoError(t, os.WriteFile(path, []byte(ad), 0o600))

	_, err = execute(t, dir, "job", "parse", path)
	require.NoError(t, err)
	job := loadState(t, dir).Letter.Job
	assert.Equal(t, "Existing Co", job.CompanyName)
	assert.Equal(t, "Data Analyst", job.RoleTitle)
	assert.Equal(t, "DA-77", job.RefNumber)

	_, err = execute(t, dir, "job", "parse", path, "--overwrite")
	require.NoError(t, err)
	assert.Equal(t, "Acme Pty Ltd", loadState(t, dir).Letter.Job.CompanyName)
}

func TestSyncPullReplacesLibrary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/responses" || r.Header.Get("Authorization") != "Bearer tok" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "server-1", "text": "From the server.", "category": "user", "userCreated": true},
		})
	}))
	defer srv.Close()

	dir := t.TempDir()
	out, err := execute(t, dir, "sync", "pull", "--api", srv.URL+"/api/v1", "--token", "tok")
	require.NoError(t, err)
	assert.Contains(t, out, "pulled 1 paragraphs")

	st := loadState(t, dir)
	require.Len(t, st.Responses, 1)
	assert.Equal(t, "server-1", st.Responses[0].ID)
}

func TestSyncPullFailureKeepsLocalLibrary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := execute(t, dir, "sync", "pull", "--api", srv.URL)
	require.Error(t, err)
	assert.Len(t, loadState(t, dir).Responses, 10)
}
