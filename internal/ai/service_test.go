package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   atomic.Int32
	gate    chan struct{}
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var reply string
	var err error
	if len(f.replies) > 0 {
		reply, f.replies = f.replies[0], f.replies[1:]
	}
	if len(f.errs) > 0 {
		err, f.errs = f.errs[0], f.errs[1:]
	}
	return reply, err
}

const jobAd = `Senior Data Analyst
Company: Bright Futures Pty Ltd
Reference No: BF-2291
Please contact Sarah Nguyen on 03 9000 0000.
Our office is at 200 Collins Street, Melbourne VIC 3000.`

func TestExtractJobWithoutProviderUsesHeuristics(t *testing.T) {
	svc := NewService(nil, nil)

	fields, err := svc.ExtractJob(context.Background(), jobAd, "")
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, fields.Source)
	assert.Equal(t, "BF-2291", fields.Reference)
	assert.Equal(t, "Sarah Nguyen", fields.ContactPerson)
	assert.Contains(t, fields.BusinessAddress, "Collins Street")
}

func TestExtractJobUsesProviderReply(t *testing.T) {
	fc := &fakeCompleter{replies: []string{`{"roleTitle":"  Data   Analyst ","companyName":"Bright Futures","contactPerson":"","reference":"BF-2291","businessAddress":""}`}}
	svc := NewService(fc, nil)

	fields, err := svc.ExtractJob(context.Background(), jobAd, "")
	require.NoError(t, err)
	assert.Equal(t, "fake", fields.Source)
	assert.Equal(t, "Data Analyst", fields.RoleTitle)
	assert.Equal(t, "Bright Futures", fields.CompanyName)
}

func TestExtractJobFallsBackOnContractViolation(t *testing.T) {
	cases := map[string]*fakeCompleter{
		"missing keys":   {replies: []string{`{"roleTitle":"Analyst"}`}},
		"not json":       {replies: []string{`sure, here you go`}},
		"upstream error": {errs: []error{errors.New("boom")}},
	}
	for name, fc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewService(fc, nil)
			fields, err := svc.ExtractJob(context.Background(), jobAd, "")
			require.NoError(t, err)
			assert.Equal(t, SourceHeuristic, fields.Source)
			assert.Equal(t, "BF-2291", fields.Reference)
		})
	}
}

func TestQuotaExceededFlipsFlagUntilRecheck(t *testing.T) {
	ctx := context.Background()
	fc := &fakeCompleter{errs: []error{fmt.Errorf("%w: insufficient_quota", ErrQuotaExceeded)}}
	svc := NewService(fc, NewMemoryQuota(time.Hour))

	_, err := svc.ExtractJob(ctx, jobAd, "")
	require.ErrorIs(t, err, ErrQuotaExceeded)

	_, err = svc.GenerateLetter(ctx, jobAd, "Analyst", "Bright Futures")
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, int32(1), fc.calls.Load(), "flagged calls must not reach the provider")

	// Probe still over quota.
	fc.errs = []error{ErrQuotaExceeded}
	st := svc.Status(ctx)
	assert.True(t, st.QuotaExceeded)
	assert.False(t, st.Enabled)

	// Probe succeeds and clears the flag.
	fc.replies = []string{`{"ok":true}`}
	st = svc.Status(ctx)
	assert.False(t, st.QuotaExceeded)
	assert.True(t, st.Enabled)
	assert.Equal(t, "fake", st.Provider)
}

func TestStatusProbesOnceForConcurrentCallers(t *testing.T) {
	ctx := context.Background()
	fc := &fakeCompleter{gate: make(chan struct{}), replies: []string{`{"ok":true}`}}
	quota := NewMemoryQuota(time.Hour)
	require.NoError(t, quota.Set(ctx))
	svc := NewService(fc, quota)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Status(ctx)
		}()
	}
	for fc.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(fc.gate)
	wg.Wait()

	assert.Equal(t, int32(1), fc.calls.Load())
	set, err := quota.IsSet(ctx)
	require.NoError(t, err)
	assert.False(t, set)
}

func TestStatusWithoutProvider(t *testing.T) {
	st := NewService(nil, nil).Status(context.Background())
	assert.Equal(t, Status{Provider: ProviderNone}, st)
}

func TestGenerateLetter(t *testing.T) {
	ctx := context.Background()

	_, err := NewService(nil, nil).GenerateLetter(ctx, jobAd, "", "")
	require.ErrorIs(t, err, ErrDisabled)

	fc := &fakeCompleter{replies: []string{`{"opening":" I am applying. ","body":"I have done this.","closing":"Thank you."}`}}
	letter, err := NewService(fc, nil).GenerateLetter(ctx, jobAd, "Analyst", "Bright Futures")
	require.NoError(t, err)
	assert.Equal(t, Letter{Opening: "I am applying.", Body: "I have done this.", Closing: "Thank you."}, letter)

	fc = &fakeCompleter{replies: []string{`{"opening":"Hi","body":"","closing":"Bye"}`}}
	_, err = NewService(fc, nil).GenerateLetter(ctx, jobAd, "Analyst", "Bright Futures")
	require.ErrorIs(t, err, ErrInvalidOutput)

	_, err = NewService(fc, nil).GenerateLetter(ctx, "  ", "", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMemoryQuotaExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	q := NewMemoryQuota(time.Minute)
	q.Now = func() time.Time { return now }

	require.NoError(t, q.Set(ctx))
	set, _ := q.IsSet(ctx)
	assert.True(t, set)

	now = now.Add(2 * time.Minute)
	set, _ = q.IsSet(ctx)
	assert.False(t, set)
}
