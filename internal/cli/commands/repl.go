package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/gridleaf-labs/cellform/internal/cli/output"
	"github.com/gridleaf-labs/cellform/pkg/formula"
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive formula checker",
		Long: `Start an interactive shell for trying out formulas against the
configured column source. Each line is validated with the full submit
gate; tab completes function names.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			return runRepl(cmd, cmdCtx)
		},
	}
}

// engineCompleter feeds catalog function names and column names to readline.
type engineCompleter struct {
	catalog formula.Catalog
	columns []string
}

func (c *engineCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fragment, start := formula.Fragment(text, len(text))
	if fragment == "" {
		return nil, 0
	}

	var out [][]rune
	upper := strings.ToUpper(fragment)
	for _, name := range c.catalog.FunctionNames() {
		if strings.HasPrefix(name, upper) {
			out = append(out, []rune(name[len(fragment):]+"("))
		}
	}
	lower := strings.ToLower(fragment)
	for _, col := range c.columns {
		if strings.HasPrefix(strings.ToLower(col), lower) {
			out = append(out, []rune(col[len(fragment):]))
		}
	}
	return out, len(text) - start
}

func runRepl(cmd *cobra.Command, cmdCtx *CommandContext) error {
	cols, err := cmdCtx.LoadColumns(false)
	if err != nil {
		return err
	}

	historyFile := filepath.Join(cmdCtx.Cfg.ProjectRoot, ".cellform_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "cellform> ",
		HistoryFile:     historyFile,
		AutoComplete:    &engineCompleter{catalog: cmdCtx.Catalog, columns: cols},
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cellform REPL (%d columns loaded)\n", len(cols))
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type a formula to validate it, .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, cmdCtx, cols, line); quit {
				break
			}
			continue
		}

		renderCheck(cmd, cmdCtx, cols, line)
	}

	return nil
}

// handleDotCommand runs a REPL dot-command; returns true on .quit.
func handleDotCommand(cmd *cobra.Command, cmdCtx *CommandContext, cols []string, line string) bool {
	parts := strings.Fields(line)
	out := cmd.OutOrStdout()

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		_, _ = fmt.Fprintln(out, "Commands:")
		_, _ = fmt.Fprintln(out, "  .functions [query]   list matching functions")
		_, _ = fmt.Fprintln(out, "  .describe <name>     show one function in detail")
		_, _ = fmt.Fprintln(out, "  .columns             list known columns")
		_, _ = fmt.Fprintln(out, "  .quit                exit")

	case ".functions":
		query := ""
		if len(parts) > 1 {
			query = parts[1]
		}
		for _, def := range cmdCtx.Catalog.Search(query) {
			if name := formula.CanonicalName(def.Syntax); name != "" {
				_, _ = fmt.Fprintf(out, "  %-12s %s\n", name, def.Description)
			}
		}

	case ".describe":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .describe <name>")
			return false
		}
		def := cmdCtx.Catalog.ByName(parts[1])
		if def == nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "unknown function %q\n", parts[1])
			return false
		}
		_, _ = fmt.Fprintln(out, formula.Describe(def))

	case ".columns":
		if len(cols) == 0 {
			_, _ = fmt.Fprintln(out, "no column source loaded")
			return false
		}
		for _, col := range cols {
			_, _ = fmt.Fprintln(out, "  "+col)
		}

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "unknown command %s (try .help)\n", parts[0])
	}
	return false
}

func renderCheck(cmd *cobra.Command, cmdCtx *CommandContext, cols []string, expr string) {
	result := formula.Submit(expr, cols, cmdCtx.Catalog)
	styles := output.NewStyles(true)
	out := cmd.OutOrStdout()

	switch {
	case result.Clean():
		msg := "✓ valid"
		if def := cmdCtx.Catalog.Match(expr); def != nil {
			msg += "  (" + def.Name + ")"
		}
		_, _ = fmt.Fprintln(out, styles.Success.Render(msg))
	case result.IsValid:
		_, _ = fmt.Fprintln(out, styles.Warning.Render("⚠ "+result.Error))
	default:
		_, _ = fmt.Fprintln(out, styles.Error.Render("✗ "+result.Error))
		for _, s := range result.Suggestions {
			_, _ = fmt.Fprintln(out, styles.Muted.Render("  suggestion: "+s))
		}
	}
}
