package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/itsrayland/pwx/pkg/spec"
	"github.com/itsrayland/pwx/pkg/style"
	"github.com/itsrayland/pwx/pkg/workstation"
)

var (
	specFormat string
	specOut    string
)

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Generate and validate specification documents",
}

var specGenerateCmd = &cobra.Command{
	Use:   "generate [project-id]",
	Short: "Render the project specification",
	Long: `Compile the project into a specification document and render it.

With --format, render one format (markdown, json, html, pdf). Without,
render every format; a format that fails does not stop the others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, cfg, err := newWorkstation()
		if err != nil {
			return err
		}
		id := readActiveProjectID(cfg)
		if len(args) == 1 {
			id = args[0]
		}
		if id == "" {
			return workstation.ErrNoActiveProject
		}
		p, err := w.Projects.Load(id)
		if err != nil {
			return err
		}
		doc := spec.Compile(p)

		outDir := specOut
		if outDir == "" {
			outDir = filepath.Join(cfg.OutputDirectory, "specs", p.ID)
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}

		if specFormat != "" {
			f, err := spec.Generate(doc, specFormat)
			if err != nil {
				return err
			}
			return writeSpecFile(outDir, f)
		}

		results := spec.GenerateAll(doc)
		for _, format := range spec.Formats {
			res := results[format]
			if res.Err != nil {
				fmt.Printf("%s %s: %v\n", style.C(style.Yellow, "skipped"), format, res.Err)
				continue
			}
			if err := writeSpecFile(outDir, res.File); err != nil {
				return err
			}
		}
		return nil
	},
}

func writeSpecFile(dir string, f *spec.File) error {
	path := filepath.Join(dir, f.Name)
	if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
		return err
	}
	fmt.Printf("%s%s\n", style.Success("Wrote"), path)
	return nil
}

var specValidateCmd = &cobra.Command{
	Use:   "validate [project-id]",
	Short: "Validate the project specification",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, cfg, err := newWorkstation()
		if err != nil {
			return err
		}
		id := readActiveProjectID(cfg)
		if len(args) == 1 {
			id = args[0]
		}
		if id == "" {
			return workstation.ErrNoActiveProject
		}
		p, err := w.Projects.Load(id)
		if err != nil {
			return err
		}

		report := spec.Validate(spec.Compile(p))
		fmt.Printf("%s %d/100 (%d of %d rules passed)\n",
			style.B("Score:"), report.Score, report.Passed, report.Total)
		for _, issue := range report.Issues {
			mark := style.C(style.Yellow, issue.Severity)
			if issue.Severity == "error" {
				mark = style.C(style.Red, issue.Severity)
			}
			fmt.Printf("  %s %s: %s\n", mark, issue.Rule, issue.Message)
		}
		if !report.Valid() {
			return fmt.Errorf("specification has errors")
		}
		return nil
	},
}

func init() {
	specGenerateCmd.Flags().StringVar(&specFormat, "format", "", "Single output format (markdown, json, html, pdf)")
	specGenerateCmd.Flags().StringVar(&specOut, "out", "", "Output directory (default <output_dir>/specs/<project>)")

	specCmd.AddCommand(specGenerateCmd, specValidateCmd)
	rootCmd.AddCommand(specCmd)
}
