package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/artummeti/lc-vid-generator/internal/pipeline"
	"github.com/artummeti/lc-vid-generator/internal/ports/adapters/openai"
)

type flagDefaults struct {
	out   string
	count int
	delay time.Duration
	lang  string
}

func defaultFlags() flagDefaults {
	p := pipeline.DefaultPolicy()
	return flagDefaults{out: "created_vids", count: p.Count, delay: p.Delay, lang: p.Lang}
}

func run(cmd *cobra.Command) error {
	policy, err := resolvePolicy(cmd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	outDir, _ := cmd.Flags().GetString("out")
	tmpDir, _ := cmd.Flags().GetString("tmp")

	logf := newConsoleLogf(cmd.OutOrStdout())

	cfg := pipeline.Config{
		OutDir:  outDir,
		TempDir: tmpDir,
		Policy:  policy,
		Logf:    logf,

		FFmpegPath:  getenvDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: getenvDefault("FFPROBE_PATH", "ffprobe"),

		ContentURL: os.Getenv("LEETCODE_API_URL"),
		TTSURL:     os.Getenv("TTS_URL"),

		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getenvDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:      getenvDefault("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAllowedHosts: openai.ParseAllowedHosts(os.Getenv("OPENAI_ALLOWED_HOSTS")),
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 3*time.Hour)
	defer cancel()

	res, err := pipeline.Run(ctx, cfg)
	if len(res.Problems) > 0 || err == nil {
		logf("done: %d ok, %d failed", len(res.Problems)-res.Failed(), res.Failed())
	}
	return err
}

// resolvePolicy starts from the built-in policy, applies --policy and then
// any flag the user set explicitly.
func resolvePolicy(cmd *cobra.Command) (pipeline.Policy, error) {
	p := pipeline.DefaultPolicy()
	if path, _ := cmd.Flags().GetString("policy"); path != "" {
		loaded, err := pipeline.LoadPolicy(path)
		if err != nil {
			return pipeline.Policy{}, err
		}
		p = loaded
	}
	fs := cmd.Flags()
	if fs.Changed("count") {
		p.Count, _ = fs.GetInt("count")
	}
	if fs.Changed("delay") {
		p.Delay, _ = fs.GetDuration("delay")
	}
	if fs.Changed("lang") {
		p.Lang, _ = fs.GetString("lang")
	}
	return p, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
