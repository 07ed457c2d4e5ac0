// Package gateway is the typed client for the four boundary operations.
// Every call runs under the shared retry harness: the remote side may be
// slow to cold-start or emit a plain-text error while half-booted, so
// transport and parse failures retry on a fixed delay, while
// application-level outcomes propagate immediately — retrying cannot
// change an authorization result.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/williamthazard/react-test/internal/access"
	"github.com/williamthazard/react-test/internal/grading"
	"github.com/williamthazard/react-test/internal/quiz"
	"github.com/williamthazard/react-test/internal/retry"
	"github.com/williamthazard/react-test/internal/store"
)

// ErrMalformedResponse means a body expected to parse did not. Treated as
// transient, symmetrical with a transport failure: it usually indicates a
// half-booted server answering in plain text.
var ErrMalformedResponse = errors.New("malformed gateway response")

type Client struct {
	base string
	http *http.Client

	content retry.Config // load/save budget
	auth    retry.Config // verify/submit budget
}

type ClientOption func(*Client)

func WithRetry(content, auth retry.Config) ClientOption {
	return func(c *Client) {
		c.content = content
		c.auth = auth
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

func NewClient(base string, opts ...ClientOption) *Client {
	c := &Client{
		base:    base,
		http:    &http.Client{Timeout: 30 * time.Second},
		content: retry.Config{Attempts: 5, Delay: 2 * time.Second},
		auth:    retry.Config{Attempts: 3, Delay: 2 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// VerifyResult mirrors the verification response; Content is the preloaded
// definition so the happy path needs no follow-up load call.
type VerifyResult struct {
	Valid   bool                 `json:"valid"`
	Role    access.Role          `json:"role"`
	Content *quiz.TestDefinition `json:"content"`
}

func (c *Client) Verify(ctx context.Context, code string) (VerifyResult, error) {
	var out VerifyResult
	err := c.call(ctx, c.auth, "/api/verify", map[string]string{"code": code}, &out)
	return out, err
}

func (c *Client) LoadQuestions(ctx context.Context, code string) (*quiz.TestDefinition, error) {
	var out struct {
		Content *quiz.TestDefinition `json:"content"`
	}
	err := c.call(ctx, c.content, "/api/questions/load", map[string]string{"code": code}, &out)
	return out.Content, err
}

func (c *Client) SaveQuestions(ctx context.Context, code string, def *quiz.TestDefinition) error {
	req := struct {
		Code    string               `json:"code"`
		Content *quiz.TestDefinition `json:"content"`
	}{code, def}
	var out struct {
		Saved bool `json:"saved"`
	}
	return c.call(ctx, c.content, "/api/questions/save", req, &out)
}

func (c *Client) Submit(ctx context.Context, code string, answers grading.AnswerSet) (grading.Report, error) {
	req := struct {
		Code    string            `json:"code"`
		Answers grading.AnswerSet `json:"answers"`
	}{code, answers}
	var out struct {
		Report grading.Report `json:"report"`
	}
	err := c.call(ctx, c.auth, "/api/submit", req, &out)
	return out.Report, err
}

type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// call posts the request and decodes into out under the retry budget.
func (c *Client) call(ctx context.Context, budget retry.Config, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return retry.Do(ctx, budget, func() error {
		return c.once(ctx, path, body, out)
	})
}

func (c *Client) once(ctx context.Context, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err // transport failure: retryable
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Half-booted servers answer in plain text; retry as if the
		// transport had failed.
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return nil
	}
	return classifyStatus(resp.StatusCode, env.Error)
}

// classifyStatus maps a structured error response back onto the taxonomy.
// Only 503 — the remote reporting its own backing service as unreachable,
// the cold-start case — stays retryable; the rest are application-level
// outcomes that no amount of retrying will change.
func classifyStatus(status int, msg string) error {
	switch status {
	case http.StatusUnauthorized:
		return retry.Permanent(access.ErrInvalidCode)
	case http.StatusForbidden:
		return retry.Permanent(access.ErrUnauthorized)
	case http.StatusRequestEntityTooLarge:
		return retry.Permanent(store.ErrPayloadTooLarge)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("remote unavailable: %s", msg)
	default:
		return retry.Permanent(fmt.Errorf("gateway error (%d): %s", status, msg))
	}
}
