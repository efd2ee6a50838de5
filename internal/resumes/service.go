package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/paragraphs"
	"coverletter-backend/internal/parsing"
	"coverletter-backend/internal/responses"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/storage/object"
	"coverletter-backend/internal/shared/telemetry"
)

const DefaultMaxBytes = 10 << 20

var ErrInvalidInput = errors.New("invalid input")

// Service turns uploaded résumés into records and resume-based suggestions.
type Service struct {
	Repo      Repo
	Store     object.ObjectStore
	Extractor extract.TextExtractor
	Keywords  *parsing.KeywordExtractor
	Responses *responses.Service
	MaxBytes  int64
	Now       func() time.Time

	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(repo Repo, ex extract.TextExtractor, rs *responses.Service) *Service {
	return &Service{
		Repo:      repo,
		Extractor: ex,
		Responses: rs,
		MaxBytes:  DefaultMaxBytes,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// lock serializes work for one user so replace and purge never interleave.
// An entry lives only while someone holds or waits for it.
func (s *Service) lock(userID string) func() {
	s.mu.Lock()
	if s.locks == nil {
		s.locks = make(map[string]*userLock)
	}
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

// Upload validates, parses and stores a résumé, replacing the previous one.
// size is the declared size; a negative value means unknown.
func (s *Service) Upload(ctx context.Context, userID, fileName, mimeType string, size int64, r io.Reader) (UploadResult, error) {
	fileName = strings.TrimSpace(fileName)
	if userID == "" || fileName == "" {
		return UploadResult{}, ErrInvalidInput
	}
	limit := s.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if size > limit {
		return UploadResult{}, extract.ErrTooLarge
	}
	if !extract.Supported(mimeType, fileName) {
		return UploadResult{}, extract.ErrUnsupportedType
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return UploadResult{}, extract.ErrTooLarge
	}
	mimeType = extract.NormalizeMimeType(mimeType, fileName, data)

	unlock := s.lock(userID)
	defer unlock()

	start := time.Now()
	text, err := s.Extractor.ExtractText(ctx, data, mimeType, fileName)
	metrics.ObserveResumeParseMs(metrics.SinceMillis(start))
	if err == nil && strings.TrimSpace(text) == "" {
		err = extract.ErrParse
	}
	if err != nil {
		metrics.IncResumeFailed(errors.Is(err, extract.ErrTimeout))
		telemetry.Warn("resume.parse_failed", map[string]any{
			"user_id":   userID,
			"file_name": fileName,
			"mime_type": mimeType,
			"error":     err,
		})
		return UploadResult{}, err
	}
	metrics.IncResumeParsed()

	rec := Analyze(s.Keywords, text, fileName, int64(len(data)), s.now())
	rec.UserID = userID
	rec.MimeType = mimeType

	previous, err := s.Repo.Get(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return UploadResult{}, err
	}
	if s.Store != nil {
		key, _, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
		if err != nil {
			return UploadResult{}, fmt.Errorf("store original: %w", err)
		}
		rec.ObjectKey = key
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		return UploadResult{}, err
	}
	if previous.ObjectKey != "" && previous.ObjectKey != rec.ObjectKey {
		s.deleteObject(ctx, previous.ObjectKey)
	}

	result := UploadResult{Resume: rec}
	if details, ok := parsing.ExtractPersonalDetails(rec.ParsedText, fileName); ok {
		result.PersonalDetails = &details
	}

	generated := paragraphs.Generate(rec.GeneratorInput(), s.now())
	if s.Responses != nil {
		stored, err := s.Responses.ReplaceSource(ctx, userID, responses.SourceResumeBased, generated)
		if err != nil {
			return UploadResult{}, fmt.Errorf("replace suggestions: %w", err)
		}
		generated = stored
	}
	result.Suggestions = generated

	telemetry.Info("resume.uploaded", map[string]any{
		"user_id":     userID,
		"file_name":   fileName,
		"size_bytes":  rec.FileSize,
		"keywords":    len(rec.Keywords),
		"sections":    len(rec.Sections),
		"suggestions": len(generated),
	})
	return result, nil
}

// Current returns the user's résumé record.
func (s *Service) Current(ctx context.Context, userID string) (Record, error) {
	if userID == "" {
		return Record{}, ErrInvalidInput
	}
	return s.Repo.Get(ctx, userID)
}

// Remove clears the record and purges resume-based responses. Removing
// when nothing is stored succeeds.
func (s *Service) Remove(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrInvalidInput
	}
	unlock := s.lock(userID)
	defer unlock()

	rec, err := s.Repo.Get(ctx, userID)
	switch {
	case err == nil:
		if err := s.Repo.Delete(ctx, userID); err != nil && !errors.Is(err, ErrNotFound) {
			return 0, err
		}
		if rec.ObjectKey != "" {
			s.deleteObject(ctx, rec.ObjectKey)
		}
	case !errors.Is(err, ErrNotFound):
		return 0, err
	}

	if s.Responses == nil {
		return 0, nil
	}
	return s.Responses.PurgeSource(ctx, userID, responses.SourceResumeBased)
}

func (s *Service) deleteObject(ctx context.Context, key string) {
	if s.Store == nil {
		return
	}
	if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, object.ErrNotFound) {
		telemetry.Warn("resume.object_delete_failed", map[string]any{
			"object_key": key,
			"error":      err,
		})
	}
}
