// Package kokbok is a console recipe manager backed by a flat text file.
//
// Recipes live in a line-oriented file with [Recept], [Ingredienser] and
// [Instruktioner] section markers. The kokbok CLI loads the file into an
// in-memory repository, renders and mutates it, and writes it back.
//
// Example usage as a library:
//
//	repo, err := kokbok.NewRepository("recipes.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := repo.Load(); err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range repo.GetAll() {
//	    fmt.Println(r.Name)
//	}
package kokbok

import "kokbok/pkg/recipe"

// Recipe is a named dish with ordered ingredients and instructions.
type Recipe = recipe.Recipe

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient = recipe.Ingredient

// Repository owns the in-memory recipe collection and its on-disk file.
type Repository = recipe.Repository

// Subscription is the handle returned by Repository.OnChanged.
type Subscription = recipe.Subscription

// NewRepository returns a repository bound to the given recipe file path.
func NewRepository(path string) (*Repository, error) {
	return recipe.NewRepository(path)
}

// Sentinel errors returned by the repository; check with errors.Is.
var (
	ErrFormat     = recipe.ErrFormat
	ErrOutOfRange = recipe.ErrOutOfRange
	ErrNotFound   = recipe.ErrNotFound
	ErrExists     = recipe.ErrExists
	ErrIO         = recipe.ErrIO
)
