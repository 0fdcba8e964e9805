package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/artummeti/lc-vid-generator/internal/types"
)

const (
	defaultModel   = "gpt-4o"
	requestTimeout = 90 * time.Second
)

const (
	solutionSystem = "You are a helpful assistant providing solutions to coding problems."
	tipsSystem     = "You provide short, helpful tips based on the given title and difficulty."
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: normalizeBaseURL(baseURL),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

// WithHTTPClient swaps the transport, mainly for tests against httptest servers.
func (a *Adapter) WithHTTPClient(c *http.Client) *Adapter {
	a.client = c
	return a
}

func (a *Adapter) Solution(ctx context.Context, p types.ProblemRef) (string, error) {
	return a.complete(ctx, solutionSystem, solutionPrompt(p))
}

func (a *Adapter) Tips(ctx context.Context, p types.ProblemRef) (string, error) {
	return a.complete(ctx, tipsSystem, tipsPrompt(p))
}

func solutionPrompt(p types.ProblemRef) string {
	return fmt.Sprintf(
		"You are a helpful assistant that provides inferred solutions to coding problems.\n"+
			"You have the following info:\n"+
			"- Title: %q\n"+
			"- Difficulty: %s\n\n"+
			"Based on this, provide a detailed step-by-step solution.\n"+
			"DO NOT RETURN ANY EXTRA DATA",
		p.Title, p.Difficulty,
	)
}

func tipsPrompt(p types.ProblemRef) string {
	return fmt.Sprintf(
		"You have the following info:\n"+
			"- Title: %q\n"+
			"- Difficulty: %s\n\n"+
			"Provide 3 concise tips or insights for approaching a problem that fits this title and difficulty.\n"+
			"Label them as 'Tips:' followed by 3 bullet points.",
		p.Title, p.Difficulty,
	)
}

func (a *Adapter) complete(ctx context.Context, system, user string) (string, error) {
	payload := map[string]any{
		"model": a.model,
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	url := a.baseURL + "/v1/chat/completions"

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("openai timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return "", fmt.Errorf("openai request: %s", redactSecrets(err.Error(), a.key))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("openai status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return "", fmt.Errorf("openai status %d: %s", resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(raw.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}
	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.New("openai: empty content")
	}
	return content, nil
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some compatible providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		return b.String(), nil
	case nil:
		return "", errors.New("openai: empty content")
	default:
		return "", fmt.Errorf("openai: unexpected content type %T", v)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
