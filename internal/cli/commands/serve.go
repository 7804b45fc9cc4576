package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridleaf-labs/cellform/internal/backend"
	"github.com/gridleaf-labs/cellform/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the formula API server",
		Long: `Run the HTTP API that grid frontends call for validation, completion,
signature help, and applying formulas. Applies are forwarded to the
configured execution service.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			return runServe(cmd.Context(), cmdCtx, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload the column source when it changes")

	return cmd
}

func runServe(ctx context.Context, cmdCtx *CommandContext, opts *ServeOptions) error {
	cols, err := cmdCtx.LoadColumns(true)
	if err != nil {
		return err
	}

	secret := cmdCtx.Cfg.SessionSecret
	if secret == "" {
		secret = randomSecret()
		slog.Warn("no session_secret configured, sessions will not survive restarts")
	}

	srvCfg := server.Config{
		Catalog:       cmdCtx.Catalog,
		Columns:       cols,
		Applier:       backend.NewClient(cmdCtx.Cfg.BackendURL),
		Port:          cmdCtx.Cfg.Port,
		SessionSecret: secret,
		Logger:        slog.Default(),
	}
	if opts.Watch {
		srvCfg.ColumnSource = cmdCtx.Cfg.ColumnsFile
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.NewServer(srvCfg).Serve(ctx)
}

func randomSecret() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
