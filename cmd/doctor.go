package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itsrayland/pwx/pkg/config"
	"github.com/itsrayland/pwx/pkg/model"
	"github.com/itsrayland/pwx/pkg/signal"
	"github.com/itsrayland/pwx/pkg/style"
)

var doctorValidate bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and provider credentials",
	Long: `Check that pwx is usable: config validates, directories are
writable, and provider API keys are present.

With --validate, additionally round-trip each configured provider to
confirm the credentials actually work. This sends real requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ok := true
		check := func(label string, pass bool, hint string) {
			mark := style.C(style.Green, "✓")
			if !pass {
				mark = style.C(style.Red, "✗")
				ok = false
			}
			fmt.Printf("  %s %s", mark, label)
			if !pass && hint != "" {
				fmt.Printf("  %s", style.C(style.Gray, hint))
			}
			fmt.Println()
		}

		fmt.Printf("\n%s\n\n", style.B("pwx doctor"))

		if err := cfg.Validate(); err != nil {
			check("config validates", false, err.Error())
		} else {
			check("config validates", true, "")
		}

		if err := os.MkdirAll(cfg.OutputDirectory, 0o755); err != nil {
			check("output directory writable", false, err.Error())
		} else {
			check("output directory writable", true, "")
		}

		check("CLAUDE_API_KEY set", cfg.Keys.Claude != "", "export CLAUDE_API_KEY=...")
		check("OPENAI_API_KEY set", cfg.Keys.OpenAI != "", "export OPENAI_API_KEY=...")
		check("ULM_API_KEY set", cfg.Keys.ULM != "", "export ULM_API_KEY=...")
		check("GEMINI_API_KEY set", cfg.Keys.Gemini != "", "optional")

		if doctorValidate {
			fmt.Printf("\n%s\n\n", style.B("provider round-trips"))
			ctx, stop := signal.NotifyContext()
			defer stop()
			for name, status := range model.NewManager(cfg).ValidateConnections(ctx) {
				hint := ""
				if status.Err != nil {
					hint = status.Err.Error()
				}
				check(name+" reachable", status.Connected, hint)
			}
		}

		fmt.Println()
		if !ok {
			return fmt.Errorf("some checks failed")
		}
		fmt.Println(style.C(style.Green, "All checks passed."))
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorValidate, "validate", false, "Round-trip each provider to verify credentials")
	rootCmd.AddCommand(doctorCmd)
}
