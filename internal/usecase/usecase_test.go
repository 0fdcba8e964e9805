package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/artummeti/lc-vid-generator/internal/ports"
	"github.com/artummeti/lc-vid-generator/internal/types"
)

type fakeContent struct {
	records []types.ProblemRecord
	err     error
}

func (f fakeContent) FetchProblems(_ context.Context) ([]types.ProblemRecord, error) {
	return f.records, f.err
}

type fakeNarration struct {
	failSlug string
}

func (f fakeNarration) Solution(_ context.Context, p types.ProblemRef) (string, error) {
	if p.Slug == f.failSlug {
		return "", errors.New("model unavailable")
	}
	return "Solve " + p.Title, nil
}

func (f fakeNarration) Tips(_ context.Context, p types.ProblemRef) (string, error) {
	return "Tips:\n- think about " + p.Title, nil
}

type fakeSpeech struct {
	texts []string
	paths []string
}

func (f *fakeSpeech) Synthesize(_ context.Context, text, _, outPath string) error {
	f.texts = append(f.texts, text)
	f.paths = append(f.paths, outPath)
	return os.WriteFile(outPath, []byte("mp3"), 0o644)
}

type fakeRenderer struct {
	texts []string
	durs  []time.Duration
	style ports.TextStyle
}

func (f *fakeRenderer) RenderText(_ context.Context, text string, d time.Duration, style ports.TextStyle, outPath string) error {
	f.texts = append(f.texts, text)
	f.durs = append(f.durs, d)
	f.style = style
	return os.WriteFile(outPath, []byte("clip"), 0o644)
}

type muxCall struct {
	video, audio       string
	videoLen, audioLen time.Duration
	out                string
}

type fakeVideo struct {
	audioLen time.Duration
	concats  [][]string
	muxes    []muxCall
}

func (f *fakeVideo) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	return f.audioLen, nil
}

func (f *fakeVideo) Concat(_ context.Context, clips []string, outPath string) error {
	f.concats = append(f.concats, append([]string(nil), clips...))
	return os.WriteFile(outPath, []byte("video"), 0o644)
}

func (f *fakeVideo) Mux(_ context.Context, videoPath, audioPath string, videoLen, audioLen time.Duration, outPath string) error {
	f.muxes = append(f.muxes, muxCall{videoPath, audioPath, videoLen, audioLen, outPath})
	return os.WriteFile(outPath, []byte("mp4"), 0o644)
}

func scenarioRecords() []types.ProblemRecord {
	return []types.ProblemRecord{
		{Slug: "two-sum", Difficulty: 1, PaidOnly: false, OrdinalID: 1, Title: "Two Sum"},
		{Slug: "paid-q", Difficulty: 1, PaidOnly: true, OrdinalID: 2, Title: "Paid"},
		{Slug: "add-two-numbers", Difficulty: 1, PaidOnly: false, OrdinalID: 3, Title: "Add Two Numbers"},
	}
}

type harness struct {
	uc       Usecase
	speech   *fakeSpeech
	renderer *fakeRenderer
	video    *fakeVideo
	in       Input
	sleeps   []time.Duration
}

func newHarness(t *testing.T, narration fakeNarration, audioLen time.Duration) *harness {
	t.Helper()
	tmp := t.TempDir()
	h := &harness{
		speech:   &fakeSpeech{},
		renderer: &fakeRenderer{},
		video:    &fakeVideo{audioLen: audioLen},
	}
	h.uc = New(Deps{
		Content:   fakeContent{records: scenarioRecords()},
		Narration: narration,
		Speech:    h.speech,
		Renderer:  h.renderer,
		Video:     h.video,
	})
	h.in = Input{
		Count:   2,
		Delay:   5 * time.Second,
		Style:   ports.TextStyle{Width: 1280, Height: 720, FontSize: 50, Color: "white", Background: "black", FPS: 24},
		Lang:    "en",
		OutDir:  filepath.Join(tmp, "created_vids"),
		TempDir: filepath.Join(tmp, "tmp"),
		Sleep: func(_ context.Context, d time.Duration) error {
			h.sleeps = append(h.sleeps, d)
			return nil
		},
	}
	if err := os.MkdirAll(h.in.TempDir, 0o755); err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	return h
}

func TestRun_SelectsAndRendersInOrder(t *testing.T) {
	t.Parallel()

	h := newHarness(t, fakeNarration{}, 30*time.Second)
	res, err := h.uc.Run(context.Background(), h.in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Problems) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res.Problems))
	}
	if res.Problems[0].Problem.Slug != "two-sum" || res.Problems[1].Problem.Slug != "add-two-numbers" {
		t.Fatalf("unexpected selection: %s, %s", res.Problems[0].Problem.Slug, res.Problems[1].Problem.Slug)
	}
	if res.Failed() != 0 {
		t.Fatalf("expected no failures, got %d", res.Failed())
	}

	wantOut := []string{"problem_1_two-sum.mp4", "problem_2_add-two-numbers.mp4"}
	for i, pr := range res.Problems {
		if filepath.Base(pr.Artifact.Path) != wantOut[i] {
			t.Fatalf("artifact %d path = %s", i, pr.Artifact.Path)
		}
		if _, err := os.Stat(pr.Artifact.Path); err != nil {
			t.Fatalf("artifact %d missing: %v", i, err)
		}
		if pr.Artifact.Video != 44*time.Second || pr.Artifact.Audio != 30*time.Second || pr.Artifact.Truncated {
			t.Fatalf("artifact %d timing = %+v", i, pr.Artifact)
		}
	}

	if len(h.sleeps) != 1 || h.sleeps[0] != 5*time.Second {
		t.Fatalf("expected one 5s pause between problems, got %v", h.sleeps)
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, fakeNarration{failSlug: "two-sum"}, 30*time.Second)
	res, err := h.uc.Run(context.Background(), h.in)
	if err != nil {
		t.Fatalf("batch must not fail on a problem error: %v", err)
	}
	if len(res.Problems) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res.Problems))
	}

	first := res.Problems[0]
	if first.OK() {
		t.Fatalf("expected first problem to fail")
	}
	if first.Err.Stage != StageNarration || first.Err.Problem.Slug != "two-sum" {
		t.Fatalf("unexpected error: %+v", first.Err)
	}
	if !strings.Contains(first.Err.Error(), "model unavailable") {
		t.Fatalf("error lost its cause: %v", first.Err)
	}

	second := res.Problems[1]
	if !second.OK() {
		t.Fatalf("expected second problem to succeed, got %v", second.Err)
	}
	if _, err := os.Stat(second.Artifact.Path); err != nil {
		t.Fatalf("second artifact missing: %v", err)
	}
	if len(h.video.muxes) != 1 {
		t.Fatalf("expected exactly one mux, got %d", len(h.video.muxes))
	}
}

func TestRun_AudioLongerThanVideoIsCut(t *testing.T) {
	t.Parallel()

	h := newHarness(t, fakeNarration{}, 60*time.Second)
	h.in.Count = 1
	res, err := h.uc.Run(context.Background(), h.in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	art := res.Problems[0].Artifact
	if art.Video != 44*time.Second || art.Audio != 44*time.Second || !art.Truncated {
		t.Fatalf("unexpected timing: %+v", art)
	}
	m := h.video.muxes[0]
	if m.videoLen != 44*time.Second || m.audioLen != 44*time.Second {
		t.Fatalf("mux got video=%v audio=%v", m.videoLen, m.audioLen)
	}
	if len(h.sleeps) != 0 {
		t.Fatalf("no pause expected for a single problem, got %v", h.sleeps)
	}
}

func TestRenderProblem_SegmentsAndNarration(t *testing.T) {
	t.Parallel()

	h := newHarness(t, fakeNarration{}, 10*time.Second)
	p := types.ProblemRef{Slug: "two-sum", Title: "Two Sum", Difficulty: types.Easy, OrdinalID: 1}
	if _, err := h.uc.RenderProblem(context.Background(), h.in, 0, p); err != nil {
		t.Fatalf("render problem: %v", err)
	}

	wantDurs := []time.Duration{10 * time.Second, 7 * time.Second, 7 * time.Second, 20 * time.Second}
	if len(h.renderer.durs) != len(wantDurs) {
		t.Fatalf("expected %d segments, got %d", len(wantDurs), len(h.renderer.durs))
	}
	for i, d := range wantDurs {
		if h.renderer.durs[i] != d {
			t.Fatalf("segment %d duration %v, want %v", i, h.renderer.durs[i], d)
		}
	}
	if h.renderer.style.Width != 1280 || h.renderer.style.FontSize != 50 {
		t.Fatalf("style not passed through: %+v", h.renderer.style)
	}
	if got := strings.Join(h.renderer.texts, "\n\n"); got != h.speech.texts[0] {
		t.Fatalf("narration does not match segment texts:\n%s\n---\n%s", h.speech.texts[0], got)
	}

	if len(h.video.concats) != 1 || len(h.video.concats[0]) != 4 {
		t.Fatalf("expected one concat of 4 clips, got %v", h.video.concats)
	}
	for i, c := range h.video.concats[0] {
		if !strings.HasSuffix(c, fmt.Sprintf("segment_%d.mp4", i+1)) {
			t.Fatalf("clip %d out of order: %s", i, c)
		}
	}

	audio := h.speech.paths[0]
	if filepath.Base(audio) != "voiceover_two-sum.mp3" {
		t.Fatalf("unexpected temp audio path: %s", audio)
	}
	if _, err := os.Stat(audio); !os.IsNotExist(err) {
		t.Fatalf("expected temp audio to be removed, stat err=%v", err)
	}
	entries, err := os.ReadDir(h.in.TempDir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected clean temp dir, found %d entries", len(entries))
	}
}

func TestRun_ContentFetchErrorIsFatal(t *testing.T) {
	t.Parallel()

	uc := New(Deps{Content: fakeContent{err: errors.New("status 503")}})
	_, err := uc.Run(context.Background(), Input{Count: 2})
	var cfe *ContentFetchError
	if !errors.As(err, &cfe) {
		t.Fatalf("expected ContentFetchError, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 503") {
		t.Fatalf("cause missing: %v", err)
	}
}

func TestRun_StopsWhenContextCancelledDuringPause(t *testing.T) {
	t.Parallel()

	h := newHarness(t, fakeNarration{}, 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	h.in.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}
	res, err := h.uc.Run(ctx, h.in)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(res.Problems) != 1 {
		t.Fatalf("expected the finished problem to be reported, got %d", len(res.Problems))
	}
}
