package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsrayland/pwx/pkg/config"
	"github.com/itsrayland/pwx/pkg/workstation"
)

// newWorkstation loads and validates config, builds the workstation,
// and restores the active project selection if one is saved.
func newWorkstation() (*workstation.Workstation, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	w, err := workstation.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if id := readActiveProjectID(cfg); id != "" {
		// A stale selection is not fatal; the project may be gone.
		_, _ = w.UseProject(id)
	}
	return w, cfg, nil
}

func activeProjectFile(cfg *config.Config) string {
	return filepath.Join(cfg.OutputDirectory, ".active-project")
}

func readActiveProjectID(cfg *config.Config) string {
	data, err := os.ReadFile(activeProjectFile(cfg))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func writeActiveProjectID(cfg *config.Config, id string) error {
	if err := os.MkdirAll(cfg.OutputDirectory, 0o755); err != nil {
		return err
	}
	return os.WriteFile(activeProjectFile(cfg), []byte(id+"\n"), 0o644)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// parseKeyValues turns key=value args into a map.
func parseKeyValues(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		out[key] = value
	}
	return out, nil
}
