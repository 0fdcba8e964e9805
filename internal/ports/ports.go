package ports

import (
	"context"
	"time"

	"github.com/artummeti/lc-vid-generator/internal/types"
)

type ContentSource interface {
	FetchProblems(ctx context.Context) ([]types.ProblemRecord, error)
}

type NarrationSource interface {
	Solution(ctx context.Context, p types.ProblemRef) (string, error)
	Tips(ctx context.Context, p types.ProblemRef) (string, error)
}

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, lang, outPath string) error
}

// TextStyle is the fixed look of every rendered segment.
type TextStyle struct {
	Width      int
	Height     int
	FontSize   int
	FontFile   string
	Color      string
	Background string
	FPS        int
}

type SegmentRenderer interface {
	RenderText(ctx context.Context, text string, d time.Duration, style TextStyle, outPath string) error
}

type VideoTool interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	Concat(ctx context.Context, clips []string, outPath string) error
	// Mux attaches the first audioLen of audioPath to videoPath; the output is exactly videoLen long.
	Mux(ctx context.Context, videoPath, audioPath string, videoLen, audioLen time.Duration, outPath string) error
}
