package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/itsrayland/pwx/pkg/project"
	"github.com/itsrayland/pwx/pkg/style"
	"github.com/itsrayland/pwx/pkg/workstation"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage design projects",
}

var (
	projType        string
	projDescription string
	projClient      string
	projAudience    string
	projIndustry    string
	projStatus      string
	projJSON        bool
)

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, cfg, err := newWorkstation()
		if err != nil {
			return err
		}
		p, err := w.CreateProject(args[0], project.CreateOptions{
			Type:        projType,
			Description: projDescription,
			Client: project.ClientInfo{
				Name:           projClient,
				TargetAudience: projAudience,
				Industry:       projIndustry,
			},
		})
		if err != nil {
			return err
		}
		if err := writeActiveProjectID(cfg, p.ID); err != nil {
			return err
		}
		fmt.Printf("%s%s (%s)\n", style.Success("Created"), p.Name, style.C(style.Gray, p.ID))
		return nil
	},
}

var projectUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Select the active project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, cfg, err := newWorkstation()
		if err != nil {
			return err
		}
		p, err := w.UseProject(args[0])
		if err != nil {
			return err
		}
		if err := writeActiveProjectID(cfg, p.ID); err != nil {
			return err
		}
		fmt.Printf("%s%s\n", style.Success("Active"), p.Name)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, cfg, err := newWorkstation()
		if err != nil {
			return err
		}
		projects, err := w.Projects.List(project.ListFilter{
			Status: project.Status(projStatus),
			Type:   projType,
		})
		if err != nil {
			return err
		}
		if projJSON {
			return printJSON(projects)
		}
		if len(projects) == 0 {
			fmt.Println("No projects. Create one with: pwx project create <name>")
			return nil
		}
		activeID := readActiveProjectID(cfg)
		for _, p := range projects {
			marker := "  "
			if p.ID == activeID {
				marker = style.C(style.Green, "* ")
			}
			fmt.Printf("%s%s  %s  %s %s\n",
				marker,
				style.B(p.Name),
				style.C(style.Gray, p.ID),
				statusColor(p.Status),
				style.C(style.Gray, p.CreatedAt.Format("2006-01-02")))
		}
		return nil
	},
}

func statusColor(s project.Status) string {
	switch s {
	case project.StatusActive:
		return style.C(style.Green, string(s))
	case project.StatusArchived:
		return style.C(style.Yellow, string(s))
	case project.StatusDeleted:
		return style.C(style.Red, string(s))
	default:
		return style.C(style.Cyan, string(s))
	}
}

var projectViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a project in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		p, err := w.Projects.Load(args[0])
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update project fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		p, err := w.Projects.Update(args[0], func(p *project.Project) {
			if projDescription != "" {
				p.Description = projDescription
			}
			if projClient != "" {
				p.Client.Name = projClient
			}
			if projAudience != "" {
				p.Client.TargetAudience = projAudience
			}
			if projIndustry != "" {
				p.Client.Industry = projIndustry
			}
			if projType != "" {
				p.Type = projType
			}
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s%s\n", style.Success("Updated"), p.Name)
		return nil
	},
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		if err := w.Projects.Archive(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s%s\n", style.Success("Archived"), args[0])
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project (soft delete, file is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, cfg, err := newWorkstation()
		if err != nil {
			return err
		}
		if err := w.Projects.Delete(args[0]); err != nil {
			return err
		}
		if readActiveProjectID(cfg) == args[0] {
			_ = writeActiveProjectID(cfg, "")
		}
		fmt.Printf("%s%s\n", style.Success("Deleted"), args[0])
		return nil
	},
}

var projectExportCmd = &cobra.Command{
	Use:   "export <id> [file]",
	Short: "Export a project to JSON",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, cfg, err := newWorkstation()
		if err != nil {
			return err
		}
		res, err := w.Projects.Export(args[0])
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.OutputDirectory, res.FileName)
		if len(args) == 2 {
			path = args[1]
		}
		if err := os.WriteFile(path, res.Data, 0o644); err != nil {
			return err
		}
		fmt.Printf("%s%s (%d bytes)\n", style.Success("Exported"), path, res.Size)
		return nil
	},
}

var projectImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a project from an export file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		p, err := w.Projects.Import(data)
		if err != nil {
			return err
		}
		fmt.Printf("%s%s (%s)\n", style.Success("Imported"), p.Name, style.C(style.Gray, p.ID))
		fmt.Printf("Activate it with: pwx project use %s\n", p.ID)
		return nil
	},
}

var projectCloneCmd = &cobra.Command{
	Use:   "clone <id> [new-name]",
	Short: "Clone a project under a new name",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		newName := ""
		if len(args) == 2 {
			newName = args[1]
		}
		p, err := w.Projects.Clone(args[0], newName)
		if err != nil {
			return err
		}
		fmt.Printf("%s%s (%s)\n", style.Success("Cloned"), p.Name, style.C(style.Gray, p.ID))
		return nil
	},
}

var projectSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search projects by name, description, or client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		matches, err := w.Projects.Search(args[0])
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, p := range matches {
			fmt.Printf("%s  %s\n", style.B(p.Name), style.C(style.Gray, p.ID))
		}
		return nil
	},
}

var projectStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate project statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		st, err := w.Projects.Stats()
		if err != nil {
			return err
		}
		return printJSON(st)
	},
}

var projAssetKind string

var projectAssetsCmd = &cobra.Command{
	Use:   "assets <path>...",
	Short: "Register media assets on the active project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		active := w.ActiveProject()
		if active == nil {
			return workstation.ErrNoActiveProject
		}
		added, err := w.Projects.AddAssets(active.ID, args, projAssetKind)
		if err != nil {
			return err
		}
		fmt.Printf("%s%d asset(s) on %s\n", style.Success("Added"), len(added), active.Name)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringVar(&projType, "type", "", "Project type (web-design, branding, ...)")
	projectCreateCmd.Flags().StringVar(&projDescription, "description", "", "Project description")
	projectCreateCmd.Flags().StringVar(&projClient, "client", "", "Client name")
	projectCreateCmd.Flags().StringVar(&projAudience, "audience", "", "Client target audience")
	projectCreateCmd.Flags().StringVar(&projIndustry, "industry", "", "Client industry")

	projectListCmd.Flags().StringVar(&projStatus, "status", "", "Filter by status")
	projectListCmd.Flags().StringVar(&projType, "type", "", "Filter by type")
	projectListCmd.Flags().BoolVar(&projJSON, "json", false, "Output JSON")

	projectUpdateCmd.Flags().StringVar(&projDescription, "description", "", "New description")
	projectUpdateCmd.Flags().StringVar(&projClient, "client", "", "New client name")
	projectUpdateCmd.Flags().StringVar(&projAudience, "audience", "", "New client target audience")
	projectUpdateCmd.Flags().StringVar(&projIndustry, "industry", "", "New client industry")
	projectUpdateCmd.Flags().StringVar(&projType, "type", "", "New type")

	projectAssetsCmd.Flags().StringVar(&projAssetKind, "kind", "image", "Asset kind")

	projectCmd.AddCommand(projectCreateCmd, projectUseCmd, projectListCmd, projectViewCmd,
		projectUpdateCmd, projectArchiveCmd, projectDeleteCmd, projectExportCmd,
		projectImportCmd, projectCloneCmd, projectSearchCmd, projectStatsCmd,
		projectAssetsCmd)
	rootCmd.AddCommand(projectCmd)
}
