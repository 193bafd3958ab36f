package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/itsrayland/pwx/pkg/config"
	"github.com/itsrayland/pwx/pkg/style"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the workstation directory layout",
	Long: `Create the output, templates, and assets directories and write a
default config file if none exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		dirs := []string{
			cfg.OutputDirectory,
			filepath.Join(cfg.OutputDirectory, "projects"),
			filepath.Join(cfg.OutputDirectory, "specs"),
			cfg.TemplatesDirectory,
			cfg.AssetsDirectory,
		}
		for _, dir := range dirs {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}

		if _, err := os.Stat(config.Path()); os.IsNotExist(err) {
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Printf("%s%s\n", style.Success("Wrote"), config.Path())
		}

		fmt.Printf("%spwx is ready. Try: %s\n", style.Success("Done"), style.C(style.Cyan, "pwx project create <name>"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
