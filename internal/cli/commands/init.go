package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// starterConfig is the cellform.yaml written by init.
type starterConfig struct {
	ColumnsFile   string `yaml:"columns_file"`
	BackendURL    string `yaml:"backend_url"`
	Port          int    `yaml:"port"`
	SessionSecret string `yaml:"session_secret,omitempty"`
	Output        string `yaml:"output"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter cellform project",
		Long: `Create a cellform.yaml and an example column source in the given
directory (default: current directory).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir)
		},
	}
}

func runInit(cmd *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	cfgPath := filepath.Join(dir, "cellform.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := starterConfig{
		ColumnsFile: "columns.yaml",
		BackendURL:  "http://localhost:9090",
		Port:        8080,
		Output:      "auto",
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	colsPath := filepath.Join(dir, "columns.yaml")
	if _, err := os.Stat(colsPath); os.IsNotExist(err) {
		cols := []byte("# Column names the formula editor validates against.\ncolumns:\n  - Revenue\n  - Cost\n  - Profit\n  - Region\n  - OrderDate\n")
		if err := os.WriteFile(colsPath, cols, 0o644); err != nil {
			return fmt.Errorf("failed to write column source: %w", err)
		}
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized cellform project in %s\n", dir)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Try: cellform check '=SUM(Revenue, Cost)'")
	return nil
}
