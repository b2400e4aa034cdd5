package recipe

import (
	"bufio"
	"fmt"
	"io"
)

// writeTo serializes the collection in the section-tag format, one recipe
// after another in the given order. A blank line separates recipes; the
// parser skips blanks, so the separator does not affect round-trips.
func writeTo(w io.Writer, recipes []Recipe) error {
	bw := bufio.NewWriter(w)
	for i, r := range recipes {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, tagRecipe)
		fmt.Fprintln(bw, r.Name)
		fmt.Fprintln(bw, tagIngredients)
		for _, ing := range r.Ingredients {
			fmt.Fprintf(bw, "%s;%s;%s\n", ing.Amount, ing.Measure, ing.Name)
		}
		fmt.Fprintln(bw, tagInstructions)
		for _, line := range r.Instructions {
			fmt.Fprintln(bw, line)
		}
	}
	return bw.Flush()
}
