package leetcode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/artummeti/lc-vid-generator/internal/types"
)

const DefaultURL = "https://leetcode.com/api/problems/algorithms/"

type Adapter struct {
	url    string
	client *http.Client
}

func New(url string) *Adapter {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	return &Adapter{url: url, client: &http.Client{Timeout: time.Minute}}
}

type listing struct {
	Pairs []struct {
		Stat struct {
			Slug       string `json:"question__title_slug"`
			Title      string `json:"question__title"`
			FrontendID int    `json:"frontend_question_id"`
		} `json:"stat"`
		Difficulty struct {
			Level int `json:"level"`
		} `json:"difficulty"`
		PaidOnly bool `json:"paid_only"`
	} `json:"stat_status_pairs"`
}

// FetchProblems returns every record of the listing, paid ones included.
func (a *Adapter) FetchProblems(ctx context.Context) ([]types.ProblemRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch problems: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch problems: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode problems: %w", err)
	}
	out := make([]types.ProblemRecord, 0, len(l.Pairs))
	for _, p := range l.Pairs {
		out = append(out, types.ProblemRecord{
			Slug:       p.Stat.Slug,
			Title:      p.Stat.Title,
			Difficulty: types.Difficulty(p.Difficulty.Level),
			OrdinalID:  p.Stat.FrontendID,
			PaidOnly:   p.PaidOnly,
		})
	}
	return out, nil
}
