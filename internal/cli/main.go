package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "lcvid",
		Short:        "Render narrated explainer videos for coding practice problems",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags; defaults match the built-in policy.
	def := defaultFlags()
	root.Flags().String("out", def.out, "Output directory")
	root.Flags().Int("count", def.count, "Number of problems to render")
	root.Flags().Duration("delay", def.delay, "Pause between problems")
	root.Flags().String("policy", "", "YAML file overriding the rendering policy")

	// Hidden tuning flags (internal)
	root.Flags().String("lang", def.lang, "Narration language code")
	root.Flags().String("tmp", "", "Directory for transient audio and clips")
	_ = root.Flags().MarkHidden("lang")
	_ = root.Flags().MarkHidden("tmp")

	return root
}
