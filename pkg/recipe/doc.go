// Package recipe provides the recipe data model and a file-backed
// repository over the section-tag text format.
//
// The format is line-oriented: a [Recept] marker introduces a recipe
// name, [Ingredienser] introduces amount;measure;name lines, and
// [Instruktioner] introduces free-text instruction lines. Blank lines are
// ignored everywhere.
//
// # Usage
//
// Create a repository bound to a file, load it, mutate, save:
//
//	repo, err := recipe.NewRepository("recipes.txt")
//	if err != nil {
//	    return err
//	}
//	if err := repo.Load(); err != nil {
//	    return err
//	}
//	if err := repo.DeleteAt(0); err != nil {
//	    return err
//	}
//	if err := repo.Save(); err != nil {
//	    return err
//	}
//
// Accessors return deep copies; mutating a returned Recipe never affects
// repository state. Subscribers registered with OnChanged are invoked
// after Load and after every successful mutation.
package recipe
