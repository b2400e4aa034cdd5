package recipe

// Ingredient is a single line of a recipe's ingredient list.
// All three fields are free text; equality is plain field equality.
type Ingredient struct {
	Amount  string
	Measure string
	Name    string
}

// Recipe is a named dish with ordered ingredients and instructions.
// Name is the identity: lookups, deduplication and deletion all resolve
// recipes by name, compared case-sensitively byte for byte.
type Recipe struct {
	Name         string
	Ingredients  []Ingredient
	Instructions []string
}

// Clone returns a deep copy with freshly allocated ingredient and
// instruction slices. The repository clones every value crossing its
// boundary, so callers can never reach internal storage by reference.
func (r Recipe) Clone() Recipe {
	c := Recipe{Name: r.Name}
	if r.Ingredients != nil {
		c.Ingredients = make([]Ingredient, len(r.Ingredients))
		copy(c.Ingredients, r.Ingredients)
	}
	if r.Instructions != nil {
		c.Instructions = make([]string, len(r.Instructions))
		copy(c.Instructions, r.Instructions)
	}
	return c
}

// Equal reports whether both values name the same recipe.
func (r Recipe) Equal(other Recipe) bool {
	return r.Name == other.Name
}

// Less orders recipes by name ascending, byte-wise.
func (r Recipe) Less(other Recipe) bool {
	return r.Name < other.Name
}
