package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/artummeti/lc-vid-generator/internal/domain/catalog"
	"github.com/artummeti/lc-vid-generator/internal/domain/script"
	"github.com/artummeti/lc-vid-generator/internal/domain/sequence"
	"github.com/artummeti/lc-vid-generator/internal/ports"
	"github.com/artummeti/lc-vid-generator/internal/types"
)

type Deps struct {
	Content   ports.ContentSource
	Narration ports.NarrationSource
	Speech    ports.SpeechSynthesizer
	Renderer  ports.SegmentRenderer
	Video     ports.VideoTool
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Count   int
	Delay   time.Duration
	Style   ports.TextStyle
	Lang    string
	OutDir  string
	TempDir string
	Logf    func(format string, args ...any)

	// Sleep waits between problems. Nil means a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

type Result struct {
	Problems []ProblemResult
}

func (r Result) Failed() int {
	n := 0
	for _, p := range r.Problems {
		if !p.OK() {
			n++
		}
	}
	return n
}

type ProblemResult struct {
	Index    int
	Problem  types.ProblemRef
	Artifact types.Artifact
	Err      *ProblemError
}

func (r ProblemResult) OK() bool { return r.Err == nil }

// Run fetches the problem list once and renders the first in.Count eligible
// problems one after another. A failing problem is recorded and skipped; only
// a content fetch failure or context cancellation ends the batch early.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	sleep := in.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	logf("fetching problems list")
	records, err := u.d.Content.FetchProblems(ctx)
	if err != nil {
		return Result{}, &ContentFetchError{Err: err}
	}
	selected := catalog.Select(records, in.Count)
	logf("problems list fetched: %d records, %d selected", len(records), len(selected))

	var res Result
	for i, p := range selected {
		if i > 0 && in.Delay > 0 {
			if err := sleep(ctx, in.Delay); err != nil {
				return res, err
			}
		}
		logf("making video for problem %d/%d: %s (%s)", i+1, len(selected), p.Title, p.Slug)

		pr := ProblemResult{Index: i, Problem: p}
		art, err := u.RenderProblem(ctx, in, i, p)
		if err != nil {
			var pe *ProblemError
			if !errors.As(err, &pe) {
				pe = &ProblemError{Problem: p, Stage: StageUnknown, Err: err}
			}
			pr.Err = pe
			logf("error creating video for %s: %v", p.Slug, pe)
		} else {
			pr.Artifact = art
			logf("video ready: %s", art.Path)
		}
		res.Problems = append(res.Problems, pr)

		if ctx.Err() != nil {
			return res, ctx.Err()
		}
	}
	return res, nil
}

// RenderProblem runs the full per-problem pipeline and returns the written artifact.
func (u Usecase) RenderProblem(ctx context.Context, in Input, idx int, p types.ProblemRef) (types.Artifact, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	fail := func(stage Stage, err error) (types.Artifact, error) {
		return types.Artifact{}, &ProblemError{Problem: p, Stage: stage, Err: err}
	}

	logf("creating solution explanation for: %s (difficulty: %s)", p.Title, p.Difficulty)
	solution, err := u.d.Narration.Solution(ctx, p)
	if err != nil {
		return fail(StageNarration, err)
	}
	logf("getting tips for: %s (difficulty: %s)", p.Title, p.Difficulty)
	tips, err := u.d.Narration.Tips(ctx, p)
	if err != nil {
		return fail(StageNarration, err)
	}

	narration, plan := script.Compose(p, solution, tips)

	tmp := in.TempDir
	if tmp == "" {
		tmp = os.TempDir()
	}
	audioPath := filepath.Join(tmp, fmt.Sprintf("voiceover_%s.mp3", safeSlug(p.Slug)))
	logf("converting text to speech: %s", audioPath)
	if err := u.d.Speech.Synthesize(ctx, narration, in.Lang, audioPath); err != nil {
		return fail(StageSpeech, err)
	}
	audioLen, err := u.d.Video.ProbeDuration(ctx, audioPath)
	if err != nil {
		return fail(StageSpeech, err)
	}

	work, err := os.MkdirTemp(tmp, "lcvid-"+safeSlug(p.Slug)+"-")
	if err != nil {
		return fail(StageRender, err)
	}
	defer os.RemoveAll(work)

	logf("rendering %d segments", len(plan))
	clips := make([]types.Clip, 0, len(plan))
	paths := make([]string, 0, len(plan))
	for i, seg := range plan {
		clipPath := filepath.Join(work, fmt.Sprintf("segment_%d.mp4", i+1))
		if err := u.d.Renderer.RenderText(ctx, seg.Text, seg.Duration, in.Style, clipPath); err != nil {
			return fail(StageRender, fmt.Errorf("segment %d: %w", i+1, err))
		}
		clips = append(clips, types.Clip{Path: clipPath, Duration: seg.Duration})
		paths = append(paths, clipPath)
	}

	timing, err := sequence.Plan(clips, audioLen)
	if err != nil {
		return fail(StageSequence, err)
	}
	logf("video duration: %.2fs, audio duration: %.2fs", timing.Video.Seconds(), audioLen.Seconds())
	if timing.Truncated {
		logf("narration cut to %.2fs", timing.Audio.Seconds())
	}

	logf("concatenating video clips")
	silent := filepath.Join(work, "visuals.mp4")
	if err := u.d.Video.Concat(ctx, paths, silent); err != nil {
		return fail(StageSequence, err)
	}

	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return fail(StageOutput, err)
	}
	outPath := filepath.Join(in.OutDir, OutputName(idx, p.Slug))
	logf("writing final video file: %s", outPath)
	if err := u.d.Video.Mux(ctx, silent, audioPath, timing.Video, timing.Audio, outPath); err != nil {
		return fail(StageOutput, err)
	}

	if err := os.Remove(audioPath); err == nil {
		logf("temp audio file removed: %s", audioPath)
	}

	return types.Artifact{
		Path:      outPath,
		Video:     timing.Video,
		Audio:     timing.Audio,
		Truncated: timing.Truncated,
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
