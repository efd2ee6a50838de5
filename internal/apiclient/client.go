// Package apiclient talks to the cover-letter API. Calls use one short
// timeout and are never retried; callers keep working from their local
// cache when a call fails.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"coverletter-backend/internal/ai"
	"coverletter-backend/internal/jobads"
	"coverletter-backend/internal/letter"
	"coverletter-backend/internal/responses"
	"coverletter-backend/internal/resumes"
	"coverletter-backend/internal/users"
)

const DefaultTimeout = 8 * time.Second

// ErrAIDisabled is returned locally, without a request, after the server
// reported exhausted AI quota and before a status check re-enabled it.
var ErrAIDisabled = errors.New("ai calls disabled until status check")

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string

	aiDisabled atomic.Bool
}

// New builds a client for baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// AIDisabled reports whether AI calls are currently refused locally.
func (c *Client) AIDisabled() bool {
	return c.aiDisabled.Load()
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if b, ok := out.(*[]byte); ok {
		*b = raw
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func decodeError(status int, raw []byte) error {
	apiErr := &Error{Status: status}
	var env struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Error.Code != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
		return apiErr
	}
	apiErr.Code = strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Auth

type AuthResult struct {
	Token string     `json:"token"`
	User  users.User `json:"user"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, username, password string) (AuthResult, error) {
	var out AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", credentials{username, password}, &out)
	if err == nil {
		c.SetToken(out.Token)
	}
	return out, err
}

func (c *Client) Login(ctx context.Context, username, password string) (AuthResult, error) {
	var out AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", credentials{username, password}, &out)
	if err == nil {
		c.SetToken(out.Token)
	}
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

// Responses

func (c *Client) ListResponses(ctx context.Context) ([]responses.Response, error) {
	var out []responses.Response
	err := c.doJSON(ctx, http.MethodGet, "/responses", nil, &out)
	return out, err
}

func (c *Client) CreateResponse(ctx context.Context, r responses.Response) (responses.Response, error) {
	var out responses.Response
	err := c.doJSON(ctx, http.MethodPost, "/responses", r, &out)
	return out, err
}

func (c *Client) UpdateResponse(ctx context.Context, id string, p responses.Patch) (responses.Response, error) {
	var out responses.Response
	err := c.doJSON(ctx, http.MethodPut, "/responses/"+url.PathEscape(id), p, &out)
	return out, err
}

func (c *Client) DeleteResponse(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/responses/"+url.PathEscape(id), nil, nil)
}

// Résumé

func (c *Client) UploadResume(ctx context.Context, fileName string, content []byte) (resumes.UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return resumes.UploadResult{}, err
	}
	if _, err := part.Write(content); err != nil {
		return resumes.UploadResult{}, err
	}
	if err := writer.Close(); err != nil {
		return resumes.UploadResult{}, err
	}
	var out resumes.UploadResult
	err = c.do(ctx, http.MethodPost, "/resume", &buf, writer.FormDataContentType(), &out)
	return out, err
}

func (c *Client) RemoveResume(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/resume", nil, nil)
}

// Job ads and letters

func (c *Client) ParseJobAd(ctx context.Context, text, sourceURL string) (jobads.Fields, error) {
	var out struct {
		Fields jobads.Fields `json:"fields"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/job-ads/parse", map[string]string{"text": text, "sourceUrl": sourceURL}, &out)
	return out.Fields, err
}

func (c *Client) RenderLetter(ctx context.Context, in letter.Input, format string) ([]byte, error) {
	body := struct {
		letter.Input
		Format string `json:"format"`
	}{in, format}
	var out []byte
	err := c.doJSON(ctx, http.MethodPost, "/letters/render", body, &out)
	return out, err
}

// AI

func (c *Client) aiCall(ctx context.Context, path string, in, out any) error {
	if c.aiDisabled.Load() {
		return ErrAIDisabled
	}
	err := c.doJSON(ctx, http.MethodPost, path, in, out)
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable {
		if quota, _ := apiErr.Details["quotaExceeded"].(bool); quota {
			c.aiDisabled.Store(true)
		}
	}
	return err
}

func (c *Client) ExtractJob(ctx context.Context, text string) (ai.JobFields, error) {
	var out ai.JobFields
	err := c.aiCall(ctx, "/ai/extract-job", map[string]string{"text": text}, &out)
	return out, err
}

func (c *Client) GenerateLetter(ctx context.Context, text, role, company string) (ai.Letter, error) {
	var out ai.Letter
	err := c.aiCall(ctx, "/ai/generate-letter", map[string]string{
		"text":        text,
		"roleTitle":   role,
		"companyName": company,
	}, &out)
	return out, err
}

// AIStatus asks the server for AI availability and mirrors the answer
// into the local flag.
func (c *Client) AIStatus(ctx context.Context) (ai.Status, error) {
	var out ai.Status
	if err := c.doJSON(ctx, http.MethodGet, "/ai/status", nil, &out); err != nil {
		return ai.Status{}, err
	}
	c.aiDisabled.Store(out.QuotaExceeded)
	return out, nil
}
