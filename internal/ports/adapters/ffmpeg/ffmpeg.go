package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/artummeti/lc-vid-generator/internal/ports"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// RenderText draws text centered on a solid background for exactly d.
// Lines are not wrapped; long lines run off the canvas.
func (a *Adapter) RenderText(ctx context.Context, text string, d time.Duration, style ports.TextStyle, outPath string) error {
	// The text goes through a file so it needs no filter escaping; expansion
	// is off so % and backslashes are drawn literally.
	textFile := outPath + ".txt"
	if err := os.WriteFile(textFile, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write segment text: %w", err)
	}
	defer os.Remove(textFile)

	cmd := exec.CommandContext(ctx, a.ffmpeg, renderArgs(textFile, d, style, outPath)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render segment: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) Concat(ctx context.Context, clips []string, outPath string) error {
	if len(clips) == 0 {
		return fmt.Errorf("ffmpeg concat: no clips")
	}
	listFile := outPath + ".concat.txt"
	if err := os.WriteFile(listFile, []byte(concatList(clips)), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listFile)

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg concat: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) Mux(ctx context.Context, videoPath, audioPath string, videoLen, audioLen time.Duration, outPath string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, muxArgs(videoPath, audioPath, videoLen, audioLen, outPath)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg mux: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func renderArgs(textFile string, d time.Duration, style ports.TextStyle, outPath string) []string {
	src := fmt.Sprintf("color=c=%s:s=%dx%d:d=%s:r=%d",
		style.Background, style.Width, style.Height, fmtSeconds(d), style.FPS)
	return []string{
		"-y",
		"-f", "lavfi",
		"-i", src,
		"-vf", drawtextFilter(textFile, style),
		"-t", fmtSeconds(d),
		"-r", strconv.Itoa(style.FPS),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		"-an",
		outPath,
	}
}

func drawtextFilter(textFile string, style ports.TextStyle) string {
	parts := []string{"textfile=" + escapeFilterPath(textFile), "expansion=none"}
	if style.FontFile != "" {
		parts = append(parts, "fontfile="+escapeFilterPath(style.FontFile))
	}
	parts = append(parts,
		"fontsize="+strconv.Itoa(style.FontSize),
		"fontcolor="+style.Color,
		"x=(w-text_w)/2",
		"y=(h-text_h)/2",
	)
	return "drawtext=" + strings.Join(parts, ":")
}

func muxArgs(videoPath, audioPath string, videoLen, audioLen time.Duration, outPath string) []string {
	args := []string{"-y", "-i", videoPath}
	if audioLen <= 0 {
		return append(args,
			"-map", "0:v:0",
			"-c:v", "copy",
			"-t", fmtSeconds(videoLen),
			outPath,
		)
	}
	// -t ahead of the second -i limits how much narration is read.
	args = append(args,
		"-t", fmtSeconds(audioLen),
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-t", fmtSeconds(videoLen),
		outPath,
	)
	return args
}

func concatList(clips []string) string {
	var b strings.Builder
	for _, c := range clips {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(c, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	p = strings.ReplaceAll(p, "'", "\\'")
	return p
}
