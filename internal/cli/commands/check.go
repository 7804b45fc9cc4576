package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/gridleaf-labs/cellform/internal/cli/output"
	"github.com/gridleaf-labs/cellform/pkg/formula"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Live bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <formula>",
		Short: "Validate a formula",
		Long: `Validate a formula against the function catalog and the configured
column source, running the same gate that protects applying a formula.

With --live only the keystroke-time checks run: column references and
parenthesis balance are skipped, matching what the editor shows while the
formula is still being typed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			return runCheck(cmdCtx, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Live, "live", false, "Run only keystroke-time checks")

	return cmd
}

func runCheck(cmdCtx *CommandContext, expr string, opts *CheckOptions) error {
	var result formula.ValidationResult
	if opts.Live {
		result = formula.Live(expr, cmdCtx.Catalog)
	} else {
		cols, err := cmdCtx.LoadColumns(true)
		if err != nil {
			return err
		}
		result = formula.Submit(expr, cols, cmdCtx.Catalog)
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(result); err != nil {
			return err
		}
		if !result.IsValid {
			return errors.New("formula is invalid")
		}
		return nil
	}

	styles := r.Styles()
	switch {
	case result.Clean():
		r.Println(styles.Success.Render("✓ formula is valid"))
		if def := cmdCtx.Catalog.Match(expr); def != nil {
			r.Println(styles.Muted.Render("  matched: " + def.Name))
		}
		return nil
	case result.IsValid:
		r.Println(styles.Warning.Render("⚠ " + result.Error))
		return nil
	default:
		r.Println(styles.Error.Render("✗ " + result.Error))
		for _, s := range result.Suggestions {
			r.Println(styles.Muted.Render("  suggestion: " + s))
		}
		return errors.New("formula is invalid")
	}
}
