package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/artummeti/lc-vid-generator/internal/ports"
	"github.com/artummeti/lc-vid-generator/internal/ports/adapters/ffmpeg"
	"github.com/artummeti/lc-vid-generator/internal/ports/adapters/gtts"
	"github.com/artummeti/lc-vid-generator/internal/ports/adapters/leetcode"
	"github.com/artummeti/lc-vid-generator/internal/ports/adapters/openai"
	"github.com/artummeti/lc-vid-generator/internal/types"
	"github.com/artummeti/lc-vid-generator/internal/usecase"
)

type Config struct {
	OutDir string
	// TempDir holds narration audio and segment clips. Defaults to os.TempDir().
	TempDir string
	Policy  Policy
	Logf    func(format string, args ...any)

	FFmpegPath  string
	FFprobePath string

	ContentURL string
	TTSURL     string

	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIAllowedHosts []string
}

func (c Config) Validate() error {
	if c.OutDir == "" {
		return errors.New("output dir is empty")
	}
	if fi, err := os.Stat(c.OutDir); err == nil && !fi.IsDir() {
		return fmt.Errorf("output %s is not a directory", c.OutDir)
	}
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	return openai.ValidateBaseURL(c.OpenAIBaseURL, c.OpenAIAllowedHosts)
}

// Run renders one batch and writes its manifest next to the videos. Per
// problem failures are reported in the result, not as an error.
func Run(ctx context.Context, cfg Config) (usecase.Result, error) {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	// adapters
	v := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	uc := usecase.New(usecase.Deps{
		Content:   leetcode.New(cfg.ContentURL),
		Narration: openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL),
		Speech:    gtts.New(cfg.TTSURL),
		Renderer:  v,
		Video:     v,
	})

	runID := uuid.NewString()[:8]
	started := time.Now().UTC()
	logf("run %s: up to %d problems into %s", runID, cfg.Policy.Count, cfg.OutDir)

	res, err := uc.Run(ctx, usecase.Input{
		Count:   cfg.Policy.Count,
		Delay:   cfg.Policy.Delay,
		Style:   cfg.Policy.TextStyle(),
		Lang:    cfg.Policy.Lang,
		OutDir:  cfg.OutDir,
		TempDir: cfg.TempDir,
		Logf:    logf,
	})
	var cfe *usecase.ContentFetchError
	if errors.As(err, &cfe) {
		return res, err
	}

	m := buildManifest(runID, started, time.Now().UTC(), res)
	path, werr := writeManifest(cfg.OutDir, m)
	if werr != nil {
		return res, errors.Join(err, werr)
	}
	logf("manifest written (%d problems): %s", len(m.Problems), path)
	return res, err
}

func buildManifest(runID string, started, finished time.Time, res usecase.Result) types.Manifest {
	m := types.Manifest{
		RunID:    runID,
		Started:  started.Format(time.RFC3339),
		Finished: finished.Format(time.RFC3339),
		Problems: make([]types.ManifestProblem, 0, len(res.Problems)),
	}
	for _, pr := range res.Problems {
		mp := types.ManifestProblem{
			Index:      pr.Index + 1,
			Slug:       pr.Problem.Slug,
			OrdinalID:  pr.Problem.OrdinalID,
			Title:      pr.Problem.Title,
			Difficulty: pr.Problem.Difficulty.String(),
		}
		if pr.OK() {
			mp.Status = "ok"
			mp.File = filepath.ToSlash(filepath.Base(pr.Artifact.Path))
			mp.VideoSec = pr.Artifact.Video.Seconds()
			mp.AudioSec = pr.Artifact.Audio.Seconds()
			mp.Truncated = pr.Artifact.Truncated
		} else {
			mp.Status = "failed"
			mp.Stage = string(pr.Err.Stage)
			mp.Error = pr.Err.Err.Error()
		}
		m.Problems = append(m.Problems, mp)
	}
	return m
}

func writeManifest(outDir string, m types.Manifest) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(outDir, "manifest-"+m.RunID+".json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ensure adapters implement ports
var _ ports.ContentSource = (*leetcode.Adapter)(nil)
var _ ports.NarrationSource = (*openai.Adapter)(nil)
var _ ports.SpeechSynthesizer = (*gtts.Adapter)(nil)
var _ ports.SegmentRenderer = (*ffmpeg.Adapter)(nil)
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
