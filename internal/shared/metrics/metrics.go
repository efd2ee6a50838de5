package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

type counter struct {
	name string
	help string
	v    atomic.Uint64
}

var (
	resumeParsed   = &counter{name: "resume_parsed_total", help: "Total resumes parsed"}
	resumeFailed   = &counter{name: "resume_failed_total", help: "Total resume uploads that failed to parse"}
	resumeTimeouts = &counter{name: "resume_timeout_total", help: "Total resume parses that timed out"}
	jobAdParsed    = &counter{name: "job_ad_parsed_total", help: "Total job ads parsed"}
	aiRequests     = &counter{name: "ai_requests_total", help: "Total completion provider calls"}
	aiFallbacks    = &counter{name: "ai_fallback_total", help: "Total AI requests served by heuristics"}
	aiQuota        = &counter{name: "ai_quota_exceeded_total", help: "Total provider quota rejections"}

	counters = []*counter{resumeParsed, resumeFailed, resumeTimeouts, jobAdParsed, aiRequests, aiFallbacks, aiQuota}

	lettersRendered = newLabeled("letter_rendered_total", "Total letters rendered", "format")

	resumeParseDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncResumeParsed counts a résumé that parsed successfully.
func IncResumeParsed() { resumeParsed.v.Add(1) }

// IncResumeFailed counts a résumé upload that could not be parsed.
func IncResumeFailed(timedOut bool) {
	resumeFailed.v.Add(1)
	if timedOut {
		resumeTimeouts.v.Add(1)
	}
}

// ObserveResumeParseMs records a résumé parse duration in milliseconds.
func ObserveResumeParseMs(value float64) {
	resumeParseDuration.Observe(max(value, 0))
}

func IncJobAdParsed() { jobAdParsed.v.Add(1) }

// IncAIRequest counts a call to the completion provider.
func IncAIRequest() { aiRequests.v.Add(1) }

// IncAIFallback counts an AI request answered by local heuristics.
func IncAIFallback() { aiFallbacks.v.Add(1) }

func IncAIQuotaExceeded() { aiQuota.v.Add(1) }

// IncLetterRendered counts a rendered letter by output format.
func IncLetterRendered(format string) { lettersRendered.Inc(format) }

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders every metric in Prometheus text format.
func Render() string {
	var sb strings.Builder
	for _, c := range counters {
		header(&sb, c.name, c.help, "counter")
		fmt.Fprintf(&sb, "%s %d\n", c.name, c.v.Load())
	}
	lettersRendered.write(&sb)
	resumeParseDuration.write(&sb, "resume_parse_duration_ms", "Resume parse duration in milliseconds")
	return sb.String()
}

func header(w io.Writer, name, help, kind string) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

// labeled is a counter family keyed by a single label value.
type labeled struct {
	name, help, label string

	mu     sync.Mutex
	values map[string]uint64
}

func newLabeled(name, help, label string) *labeled {
	return &labeled{name: name, help: help, label: label, values: map[string]uint64{}}
}

func (l *labeled) Inc(value string) {
	l.mu.Lock()
	l.values[value]++
	l.mu.Unlock()
}

func (l *labeled) write(w io.Writer) {
	l.mu.Lock()
	keys := make([]string, 0, len(l.values))
	for k := range l.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	snapshot := make([]uint64, len(keys))
	for i, k := range keys {
		snapshot[i] = l.values[k]
	}
	l.mu.Unlock()

	header(w, l.name, l.help, "counter")
	for i, k := range keys {
		fmt.Fprintf(w, "%s{%s=%q} %d\n", l.name, l.label, k, snapshot[i])
	}
}

type histogram struct {
	mu     sync.Mutex
	bounds []float64
	counts []uint64
	sum    float64
	count  uint64
}

func newHistogram(bounds []float64) *histogram {
	return &histogram{bounds: bounds, counts: make([]uint64, len(bounds))}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	if i := sort.SearchFloat64s(h.bounds, value); i < len(h.bounds) {
		h.counts[i]++
	}
}

func (h *histogram) write(w io.Writer, name, help string) {
	h.mu.Lock()
	counts := append([]uint64(nil), h.counts...)
	sum, count := h.sum, h.count
	h.mu.Unlock()

	header(w, name, help, "histogram")
	var cumulative uint64
	for i, bound := range h.bounds {
		cumulative += counts[i]
		fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", name, count)
	fmt.Fprintf(w, "%s_sum %s\n", name, formatFloat(sum))
	fmt.Fprintf(w, "%s_count %d\n", name, count)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
