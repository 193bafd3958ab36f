package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsrayland/pwx/pkg/style"
	"github.com/itsrayland/pwx/pkg/workstation"
)

var histJSON bool

// Workflow history lives with the running workstation, so a fresh
// CLI process only sees runs recorded on the project files. These
// commands read the per-project workflow refs.

var historyCmd = &cobra.Command{
	Use:   "history [project-id]",
	Short: "Show workflow history for a project",
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
		if histJSON {
			return printJSON(p.Workflows)
		}
		if len(p.Workflows) == 0 {
			fmt.Println("No workflow runs recorded.")
			return nil
		}
		for _, ref := range p.Workflows {
			status := style.C(style.Green, ref.Status)
			if ref.Status == workstation.StatusFailed {
				status = style.C(style.Red, ref.Status)
			}
			fmt.Printf("%s  %s  %s  %s\n",
				style.C(style.Gray, ref.ExecutedAt.Format("2006-01-02 15:04")),
				style.B(ref.Type), status, style.C(style.Gray, ref.ID))
		}
		return nil
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics [project-id]",
	Short: "Show workflow metrics for a project",
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

		total, completed, failed := len(p.Workflows), 0, 0
		byType := map[string]int{}
		for _, ref := range p.Workflows {
			byType[ref.Type]++
			switch ref.Status {
			case workstation.StatusCompleted:
				completed++
			case workstation.StatusFailed:
				failed++
			}
		}
		out := map[string]any{
			"projectId":      p.ID,
			"totalWorkflows": total,
			"completed":      completed,
			"failed":         failed,
			"byType":         byType,
		}
		if total > 0 {
			out["successRate"] = float64(completed) / float64(total)
		}
		return printJSON(out)
	},
}

func init() {
	historyCmd.Flags().BoolVar(&histJSON, "json", false, "Output JSON")
	rootCmd.AddCommand(historyCmd, metricsCmd)
}
