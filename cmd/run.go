package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/itsrayland/pwx/pkg/signal"
	"github.com/itsrayland/pwx/pkg/style"
	"github.com/itsrayland/pwx/pkg/styleguide"
	"github.com/itsrayland/pwx/pkg/template"
	"github.com/itsrayland/pwx/pkg/workstation"
)

var (
	runMedia        []string
	runPrimary      string
	runJSON         bool
	runTplName      string
	runTplText      string
	runTplModel     string
	runTplCategory  string
	runTplParams    []string
	runTplDetailDsc string
)

var runCmd = &cobra.Command{
	Use:   "run <workflow-type>",
	Short: "Run a workflow against the active project",
	Long: `Run a multi-step workflow against the active project.

Workflow types:
  full-design-spec          Requirements, tech spec, style guide, output docs
  style-guide-generation    Generate and persist a style guide
  media-analysis            Analyze project media assets
  prompt-template-creation  Create a custom prompt template

Steps run in order; the first failure stops the run. Failed runs are
recorded in history like completed ones.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		if w.ActiveProject() == nil {
			return workstation.ErrNoActiveProject
		}

		opts := workstation.Options{
			MediaAssets: runMedia,
		}
		if runPrimary != "" {
			opts.DesignSpec = &styleguide.DesignSpec{
				ColorPalette: styleguide.ColorPalette{Primary: runPrimary},
			}
		}
		if runTplText != "" {
			opts.Template = &template.Template{
				Name:        runTplName,
				Model:       runTplModel,
				Category:    runTplCategory,
				Text:        runTplText,
				Description: runTplDetailDsc,
				Parameters:  runTplParams,
			}
		}

		ctx, stop := signal.NotifyContext()
		defer stop()

		rec, err := w.ExecuteWorkflow(ctx, args[0], opts)
		if rec != nil && !runJSON {
			printRecord(rec)
		}
		if err != nil {
			return err
		}
		if runJSON {
			return printJSON(rec)
		}
		return nil
	},
}

func printRecord(rec *workstation.Record) {
	status := style.C(style.Green, rec.Status)
	if rec.Status == workstation.StatusFailed {
		status = style.C(style.Red, rec.Status)
	}
	fmt.Printf("\n%s %s  %s  %s\n", style.B(rec.Type), style.C(style.Gray, rec.ID), status,
		style.C(style.Gray, rec.Duration().Round(time.Millisecond).String()))
	for _, step := range rec.Steps {
		mark := style.C(style.Green, "✓")
		if step.Status == workstation.StepFailed {
			mark = style.C(style.Red, "✗")
		}
		line := fmt.Sprintf("  %s %s", mark, step.Name)
		if step.Error != "" {
			line += "  " + style.C(style.Red, step.Error)
		}
		fmt.Println(line)
	}
	if rec.Error != "" {
		fmt.Printf("\n%s %s\n", style.C(style.Red, "Error:"), rec.Error)
	}
}

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List available workflow types",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(strings.Join(workstation.WorkflowTypes, "\n"))
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runMedia, "media", nil, "Media asset path (repeatable)")
	runCmd.Flags().StringVar(&runPrimary, "primary-color", "", "Primary brand color (hex) for style guide workflows")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Output the full record as JSON")
	runCmd.Flags().StringVar(&runTplName, "template-name", "", "Template name (prompt-template-creation)")
	runCmd.Flags().StringVar(&runTplText, "template-text", "", "Template text with ${param} placeholders (prompt-template-creation)")
	runCmd.Flags().StringVar(&runTplModel, "template-model", "claude", "Target model for the template")
	runCmd.Flags().StringVar(&runTplCategory, "template-category", "custom", "Template category")
	runCmd.Flags().StringSliceVar(&runTplParams, "template-param", nil, "Declared parameter (repeatable)")
	runCmd.Flags().StringVar(&runTplDetailDsc, "template-description", "", "Template description")

	rootCmd.AddCommand(runCmd, workflowsCmd)
}
