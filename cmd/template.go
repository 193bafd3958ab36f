package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itsrayland/pwx/pkg/style"
	"github.com/itsrayland/pwx/pkg/template"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage prompt templates",
}

var (
	tplModel    string
	tplCategory string
	tplText     string
	tplParams   []string
	tplJSON     bool
)

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		summaries := w.Templates.List(template.Filter{Model: tplModel, Category: tplCategory})
		if tplJSON {
			return printJSON(summaries)
		}
		for _, s := range summaries {
			label := ""
			if s.Custom {
				label = style.C(style.Yellow, " custom")
			}
			fmt.Printf("%s  %s  %s%s\n",
				style.B(s.ID),
				style.C(style.Cyan, s.Model),
				style.C(style.Gray, fmt.Sprintf("%s, %d params", s.Category, s.ParameterCount)),
				label)
		}
		return nil
	},
}

var templateViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a template in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		t, err := w.Templates.Get(args[0])
		if err != nil {
			return err
		}
		return printJSON(t)
	},
}

var templateRenderCmd = &cobra.Command{
	Use:   "render <id> [param=value ...]",
	Short: "Render a template with parameters",
	Long: `Render a template, substituting ` + "`${param}`" + ` placeholders with the
supplied values. Declared parameters you leave out are reported but do
not abort the render; their placeholders stay in the output verbatim.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		params, err := parseKeyValues(args[1:])
		if err != nil {
			return err
		}
		res, err := w.Templates.Render(args[0], params)
		if err != nil {
			return err
		}
		if tplJSON {
			return printJSON(res)
		}
		fmt.Println(res.Content)
		if len(res.Metadata.MissingParameters) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "\n%s %s\n",
				style.C(style.Yellow, "Missing parameters:"),
				strings.Join(res.Metadata.MissingParameters, ", "))
		}
		return nil
	},
}

var templateAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a custom template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWorkstation()
		if err != nil {
			return err
		}
		if tplText == "" {
			return fmt.Errorf("--text is required")
		}
		t, err := w.Templates.CreateCustom(&template.Template{
			Name:       args[0],
			Model:      tplModel,
			Category:   tplCategory,
			Text:       tplText,
			Parameters: tplParams,
		})
		if err != nil {
			return err
		}
		if err := w.Templates.Save(t.ID); err != nil {
			return err
		}
		fmt.Printf("%s%s (%s)\n", style.Success("Created"), t.Name, style.C(style.Gray, t.ID))
		return nil
	},
}

func init() {
	templateListCmd.Flags().StringVar(&tplModel, "model", "", "Filter by model")
	templateListCmd.Flags().StringVar(&tplCategory, "category", "", "Filter by category")
	templateListCmd.Flags().BoolVar(&tplJSON, "json", false, "Output JSON")

	templateRenderCmd.Flags().BoolVar(&tplJSON, "json", false, "Output content and metadata as JSON")

	templateAddCmd.Flags().StringVar(&tplModel, "model", "claude", "Target model")
	templateAddCmd.Flags().StringVar(&tplCategory, "category", "custom", "Template category")
	templateAddCmd.Flags().StringVar(&tplText, "text", "", "Template text with ${param} placeholders")
	templateAddCmd.Flags().StringSliceVar(&tplParams, "param", nil, "Declared parameter (repeatable)")

	templateCmd.AddCommand(templateListCmd, templateViewCmd, templateRenderCmd, templateAddCmd)
	rootCmd.AddCommand(templateCmd)
}
