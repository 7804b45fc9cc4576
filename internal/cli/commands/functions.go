package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gridleaf-labs/cellform/internal/cli/output"
	"github.com/gridleaf-labs/cellform/pkg/formula"
)

// FunctionsOptions holds options for the functions command.
type FunctionsOptions struct {
	Category string
	Search   string
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand() *cobra.Command {
	opts := &FunctionsOptions{}

	cmd := &cobra.Command{
		Use:   "functions [name]",
		Short: "List formula functions",
		Long: `List the functions available in column formulas.

With a name argument, show the full documentation for that function.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			if len(args) == 1 {
				return showFunction(cmdCtx, args[0])
			}
			return listFunctions(cmdCtx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "Filter by category (math, statistical, text, date, mapping, nulls, logical)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Filter by name or description")

	return cmd
}

func listFunctions(cmdCtx *CommandContext, opts *FunctionsOptions) error {
	defs := cmdCtx.Catalog.Search(opts.Search)

	var filtered []formula.FormulaDefinition
	for _, def := range defs {
		if formula.CanonicalName(def.Syntax) == "" {
			continue // the free-form arithmetic entry has no callable name
		}
		if opts.Category != "" && def.Category != formula.Category(opts.Category) {
			continue
		}
		filtered = append(filtered, def)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(filtered)
	case output.ModeMarkdown:
		return listFunctionsMarkdown(r, filtered)
	default:
		return listFunctionsText(r, filtered)
	}
}

func listFunctionsText(r *output.Renderer, defs []formula.FormulaDefinition) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Function", "Category", "Syntax", "Description"})

	for _, def := range defs {
		t.AppendRow(table.Row{
			formula.CanonicalName(def.Syntax),
			def.Category,
			def.Syntax,
			def.Description,
		})
	}

	t.Render()
	r.Printf("(%d functions)\n", len(defs))
	return nil
}

func listFunctionsMarkdown(r *output.Renderer, defs []formula.FormulaDefinition) error {
	r.Println("# Formula Functions")
	r.Println("")
	r.Println("| Function | Category | Syntax | Description |")
	r.Println("|----------|----------|--------|-------------|")
	for _, def := range defs {
		r.Printf("| %s | %s | `%s` | %s |\n",
			formula.CanonicalName(def.Syntax), def.Category, def.Syntax, def.Description)
	}
	return nil
}

func showFunction(cmdCtx *CommandContext, name string) error {
	def := cmdCtx.Catalog.ByName(name)
	if def == nil {
		return fmt.Errorf("unknown function %q", strings.ToUpper(name))
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(def)
	}

	styles := r.Styles()
	r.Println(styles.Header1.Render(def.Name))
	r.Println("")
	r.Println("  " + styles.Bold.Render(def.Syntax))
	r.Println("  " + def.Description)
	if def.Example != "" {
		r.Println("")
		r.Println("  " + styles.Muted.Render("Example: "+def.Example))
	}
	if len(def.Arguments) > 0 {
		r.Println("")
		for _, arg := range def.Arguments {
			var notes []string
			if arg.Optional {
				notes = append(notes, "optional")
			}
			if arg.Variadic {
				notes = append(notes, "repeatable")
			}
			suffix := ""
			if len(notes) > 0 {
				suffix = " (" + strings.Join(notes, ", ") + ")"
			}
			r.Println("  - " + arg.Name + suffix)
		}
	}
	return nil
}
