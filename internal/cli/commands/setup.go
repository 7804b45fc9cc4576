// Package commands implements the cellform subcommands.
package commands

import (
	"errors"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gridleaf-labs/cellform/internal/cli/config"
	"github.com/gridleaf-labs/cellform/internal/cli/output"
	"github.com/gridleaf-labs/cellform/internal/columns"
	"github.com/gridleaf-labs/cellform/pkg/formula"
)

// CommandContext bundles what every command needs.
type CommandContext struct {
	Cfg      *config.Config
	Renderer *output.Renderer
	Catalog  formula.Catalog
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Renderer: r,
		Catalog:  formula.DefaultCatalog(),
	}
}

// LoadColumns reads the configured column source. Commands that can work
// without columns pass required=false and get an empty list when the source
// is missing.
func (c *CommandContext) LoadColumns(required bool) ([]string, error) {
	if c.Cfg.ColumnsFile == "" {
		if required {
			return nil, errors.New("no column source configured (set columns_file or --columns)")
		}
		return nil, nil
	}
	cols, err := columns.Load(c.Cfg.ColumnsFile)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return cols, nil
}

// getConfig returns the current configuration, falling back to environment
// variables for commands invoked without the root PersistentPreRunE.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	port := config.DefaultPort
	if v := os.Getenv("CELLFORM_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			port = n
		}
	}

	return &config.Config{
		ColumnsFile:   getEnvOrDefault("CELLFORM_COLUMNS_FILE", config.DefaultColumnsFile),
		BackendURL:    getEnvOrDefault("CELLFORM_BACKEND_URL", config.DefaultBackendURL),
		Port:          port,
		SessionSecret: os.Getenv("CELLFORM_SESSION_SECRET"),
		OutputFormat:  getEnvOrDefault("CELLFORM_OUTPUT", config.DefaultOutput),
		Verbose:       os.Getenv("CELLFORM_VERBOSE") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
