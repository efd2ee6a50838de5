package ai

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/singleflight"

	"coverletter-backend/internal/jobads"
	"coverletter-backend/internal/parsing"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/telemetry"
)

const (
	SourceHeuristic = "heuristic"
	maxFieldLength  = 100
	maxAddrLength   = 200
)

// Service guards provider calls behind the shared quota flag.
type Service struct {
	Completer Completer
	Quota     QuotaFlag

	probe singleflight.Group
}

// NewService returns a Service. A nil completer disables the provider; a
// nil quota flag gets a process-local one.
func NewService(c Completer, q QuotaFlag) *Service {
	if q == nil {
		q = NewMemoryQuota(DefaultQuotaCooldown)
	}
	return &Service{Completer: c, Quota: q}
}

func (s *Service) provider() string {
	if s.Completer == nil {
		return ProviderNone
	}
	return s.Completer.Name()
}

func (s *Service) quotaExceeded(ctx context.Context) bool {
	set, err := s.Quota.IsSet(ctx)
	if err != nil {
		telemetry.Warn("ai.quota_flag_unreadable", map[string]any{"error": err})
		return false
	}
	return set
}

func (s *Service) markQuotaExceeded(ctx context.Context) {
	metrics.IncAIQuotaExceeded()
	if err := s.Quota.Set(ctx); err != nil {
		telemetry.Warn("ai.quota_flag_unwritable", map[string]any{"error": err})
	}
}

// Status reports availability. While the quota flag is set, concurrent
// callers share one probe of the provider; a successful probe clears it.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{Provider: s.provider()}
	if s.Completer == nil {
		return st
	}
	if s.quotaExceeded(ctx) {
		v, _, _ := s.probe.Do("probe", func() (any, error) {
			return s.recheck(ctx), nil
		})
		st.QuotaExceeded = v.(bool)
	}
	st.Enabled = !st.QuotaExceeded
	return st
}

// recheck returns true when the quota is still exhausted.
func (s *Service) recheck(ctx context.Context) bool {
	_, err := s.Completer.Complete(ctx, probePrompt)
	switch {
	case err == nil:
		if err := s.Quota.Clear(ctx); err != nil {
			telemetry.Warn("ai.quota_flag_unwritable", map[string]any{"error": err})
		}
		telemetry.Info("ai.quota_cleared", map[string]any{"provider": s.provider()})
		return false
	case errors.Is(err, ErrQuotaExceeded):
		return true
	default:
		telemetry.Warn("ai.probe_failed", map[string]any{"provider": s.provider(), "error": err})
		return true
	}
}

// ExtractJob asks the provider for job-ad fields, falling back to the local
// extractor when no provider is configured or its reply is unusable.
// Exhausted quota is reported rather than masked.
func (s *Service) ExtractJob(ctx context.Context, text, sourceURL string) (JobFields, error) {
	if strings.TrimSpace(text) == "" {
		return JobFields{}, ErrInvalidInput
	}
	if s.Completer == nil {
		return heuristicJobFields(text, sourceURL), nil
	}
	if s.quotaExceeded(ctx) {
		return JobFields{}, ErrQuotaExceeded
	}

	metrics.IncAIRequest()
	raw, err := s.Completer.Complete(ctx, extractJobPrompt(text))
	if errors.Is(err, ErrQuotaExceeded) {
		s.markQuotaExceeded(ctx)
		return JobFields{}, err
	}
	var out JobFields
	if err == nil {
		err = decodeContract(jobFieldsLoader, raw, &out)
	}
	if err != nil {
		metrics.IncAIFallback()
		telemetry.Warn("ai.extract_job_fallback", map[string]any{"provider": s.provider(), "error": err})
		return heuristicJobFields(text, sourceURL), nil
	}

	out.RoleTitle = cleanField(out.RoleTitle, maxFieldLength)
	out.CompanyName = cleanField(out.CompanyName, maxFieldLength)
	out.ContactPerson = cleanField(out.ContactPerson, maxFieldLength)
	out.Reference = cleanField(out.Reference, maxFieldLength)
	out.BusinessAddress = cleanField(out.BusinessAddress, maxAddrLength)
	out.Source = s.provider()
	return out, nil
}

// GenerateLetter drafts opening, body and closing paragraphs. There is no
// local equivalent, so every failure is returned.
func (s *Service) GenerateLetter(ctx context.Context, text, role, company string) (Letter, error) {
	if strings.TrimSpace(text) == "" {
		return Letter{}, ErrInvalidInput
	}
	if s.Completer == nil {
		return Letter{}, ErrDisabled
	}
	if s.quotaExceeded(ctx) {
		return Letter{}, ErrQuotaExceeded
	}

	metrics.IncAIRequest()
	raw, err := s.Completer.Complete(ctx, generateLetterPrompt(text, strings.TrimSpace(role), strings.TrimSpace(company)))
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			s.markQuotaExceeded(ctx)
		}
		return Letter{}, err
	}
	var out Letter
	if err := decodeContract(letterLoader, raw, &out); err != nil {
		return Letter{}, err
	}
	out.Opening = strings.TrimSpace(out.Opening)
	out.Body = strings.TrimSpace(out.Body)
	out.Closing = strings.TrimSpace(out.Closing)
	return out, nil
}

func heuristicJobFields(text, sourceURL string) JobFields {
	f := jobads.Extract(text, sourceURL)
	out := JobFields{
		RoleTitle:     f.RoleTitle,
		CompanyName:   f.CompanyName,
		ContactPerson: f.ContactPerson,
		Reference:     f.RefNumber,
		Source:        SourceHeuristic,
	}
	if addr, ok := parsing.ExtractAddress(text); ok {
		out.BusinessAddress = cleanField(addr.Line, maxAddrLength)
	}
	return out
}

func cleanField(s string, max int) string {
	return parsing.Truncate(strings.TrimSpace(parsing.CollapseWhitespace(s)), max)
}
