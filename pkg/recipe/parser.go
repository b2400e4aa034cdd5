package recipe

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Section markers of the recipe file format. Exact-match literals; the
// format predates this tool and is kept verbatim, Swedish tags included.
const (
	tagRecipe       = "[Recept]"
	tagIngredients  = "[Ingredienser]"
	tagInstructions = "[Instruktioner]"
)

// parseState tracks which section of the file the classifier is inside.
type parseState int

const (
	stateIndefinite parseState = iota
	stateName
	stateIngredients
	stateInstructions
)

// ingredientFields is the required field count of an ingredient line
// (amount;measure;name).
const ingredientFields = 3

// parse reads the line-oriented recipe format into a staged slice sorted
// by name ascending. Nothing here touches a live collection; the caller
// swaps the result in only when parse returns without error.
func parse(r io.Reader) ([]Recipe, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		staged []Recipe
		st     = stateIndefinite
		lineNo int
	)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineNo++
		return sc.Text(), true
	}

scan:
	for line, ok := next(); ok; line, ok = next() {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// A marker line switches state and immediately consumes the
		// following line as the first payload line of the new section.
		// That line is never re-matched against the markers.
		switch line {
		case tagRecipe:
			st = stateName
			if line, ok = next(); !ok {
				break scan
			}
		case tagIngredients:
			st = stateIngredients
			if line, ok = next(); !ok {
				break scan
			}
		case tagInstructions:
			st = stateInstructions
			if line, ok = next(); !ok {
				break scan
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch st {
		case stateIndefinite:
			return nil, fmt.Errorf("%w: line %d: %q before any section marker", ErrFormat, lineNo, line)

		case stateName:
			staged = append(staged, Recipe{Name: line})

		case stateIngredients:
			if len(staged) == 0 {
				return nil, fmt.Errorf("%w: line %d: ingredient before any %s section", ErrFormat, lineNo, tagRecipe)
			}
			parts := strings.Split(line, ";")
			if len(parts) != ingredientFields {
				return nil, fmt.Errorf("%w: line %d: ingredient needs %d fields, got %d", ErrFormat, lineNo, ingredientFields, len(parts))
			}
			cur := &staged[len(staged)-1]
			cur.Ingredients = append(cur.Ingredients, Ingredient{
				Amount:  parts[0],
				Measure: parts[1],
				Name:    parts[2],
			})

		case stateInstructions:
			if len(staged) == 0 {
				return nil, fmt.Errorf("%w: line %d: instruction before any %s section", ErrFormat, lineNo, tagRecipe)
			}
			cur := &staged[len(staged)-1]
			cur.Instructions = append(cur.Instructions, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrIO, err)
	}

	sort.SliceStable(staged, func(i, j int) bool { return staged[i].Less(staged[j]) })
	return staged, nil
}
