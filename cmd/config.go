package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/itsrayland/pwx/pkg/config"
	"github.com/itsrayland/pwx/pkg/style"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pwx configuration",
	Long: `Read and write workstation settings.

Settings live in ` + "`.pwx-config.yaml`" + ` and can be overridden with
PWX_-prefixed environment variables. API keys are never stored here;
set CLAUDE_API_KEY, OPENAI_API_KEY, ULM_API_KEY and GEMINI_API_KEY in
the environment or a .env file.

  pwx config list
  pwx config get output_dir
  pwx config set claude_model claude-3-opus-20240229`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("\n%s\n%s\n\n", style.B(style.C(style.Cyan, "pwx config")), style.C(style.Gray, config.Path()))
		all := config.All()
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %-21s %s\n", k, style.C(style.Green, all[k]))
		}
		fmt.Println()
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
