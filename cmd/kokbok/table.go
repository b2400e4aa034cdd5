package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"kokbok/pkg/recipe"
)

// renderRecipeList renders the collection as a rounded table on a TTY
// and as plain tab-separated lines otherwise, so output stays pipeable.
func renderRecipeList(recipes []recipe.Recipe) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		var b strings.Builder
		for i, r := range recipes {
			fmt.Fprintf(&b, "%d\t%s\t%d\t%d\n", i, r.Name, len(r.Ingredients), len(r.Instructions))
		}
		return strings.TrimRight(b.String(), "\n")
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Name", "Ingredients", "Instructions"})
	for i, r := range recipes {
		tw.AppendRow(table.Row{i, r.Name, len(r.Ingredients), len(r.Instructions)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// renderRecipe prints one recipe in the shape of the file format, but
// readable: ingredients as "amount measure name", instructions numbered.
func renderRecipe(r recipe.Recipe) string {
	var b strings.Builder
	fmt.Fprintln(&b, r.Name)
	fmt.Fprintln(&b, strings.Repeat("=", len(r.Name)))
	fmt.Fprintln(&b, "\nIngredients:")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "  %s %s %s\n", ing.Amount, ing.Measure, ing.Name)
	}
	fmt.Fprintln(&b, "\nInstructions:")
	for i, line := range r.Instructions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, line)
	}
	return b.String()
}
