package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"kokbok/internal/cliconfig"
	"kokbok/internal/watch"
	"kokbok/pkg/recipe"
)

// loadRepo builds the repository and loads the recipe file. When
// tolerateMissing is set, a missing file starts an empty cookbook so the
// first add works without touching the disk by hand.
func loadRepo(cfg *cliconfig.Config, tolerateMissing bool) (*recipe.Repository, error) {
	repo, err := recipe.NewRepository(cfg.RecipeFile)
	if err != nil {
		return nil, err
	}
	if err := repo.Load(); err != nil {
		if tolerateMissing && errors.Is(err, fs.ErrNotExist) {
			return repo, nil
		}
		return nil, err
	}
	return repo, nil
}

// resolveIndex turns a name-or-index argument into a collection index.
func resolveIndex(repo *recipe.Repository, arg string) (int, error) {
	if i, err := strconv.Atoi(arg); err == nil {
		if i < 0 || i >= repo.Count() {
			return 0, fmt.Errorf("%w: index %d with %d recipes", recipe.ErrOutOfRange, i, repo.Count())
		}
		return i, nil
	}
	for i, r := range repo.GetAll() {
		if r.Name == arg {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", recipe.ErrNotFound, arg)
}

// parseIngredient parses an amount;measure;name flag value.
func parseIngredient(s string) (recipe.Ingredient, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 3 {
		return recipe.Ingredient{}, fmt.Errorf("%w: ingredient %q needs 3 fields (amount;measure;name)", recipe.ErrFormat, s)
	}
	return recipe.Ingredient{Amount: parts[0], Measure: parts[1], Name: parts[2]}, nil
}

func newListCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := loadRepo(cfg, true)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecipeList(repo.GetAll()))
			return nil
		},
	}
}

func newShowCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|index>",
		Short: "Print one recipe in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := loadRepo(cfg, false)
			if err != nil {
				return err
			}
			i, err := resolveIndex(repo, args[0])
			if err != nil {
				return err
			}
			rec, err := repo.GetAt(i)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderRecipe(rec))
			return nil
		},
	}
}

func newAddCmd(cfg *cliconfig.Config) *cobra.Command {
	var (
		name         string
		ingredients  []string
		instructions []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe and save the file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := recipe.Recipe{Name: name}
			for _, s := range ingredients {
				ing, err := parseIngredient(s)
				if err != nil {
					return err
				}
				rec.Ingredients = append(rec.Ingredients, ing)
			}
			rec.Instructions = append(rec.Instructions, instructions...)

			repo, err := loadRepo(cfg, true)
			if err != nil {
				return err
			}
			if err := repo.Add(rec); err != nil {
				return err
			}
			if err := repo.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q (%d recipes)\n", rec.Name, repo.Count())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "recipe name (required)")
	cmd.Flags().StringArrayVar(&ingredients, "ingredient", nil, "ingredient as amount;measure;name (repeatable)")
	cmd.Flags().StringArrayVar(&instructions, "instruction", nil, "instruction line (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newEditCmd(cfg *cliconfig.Config) *cobra.Command {
	var (
		rename            string
		ingredients       []string
		instructions      []string
		clearIngredients  bool
		clearInstructions bool
	)
	cmd := &cobra.Command{
		Use:   "edit <name|index>",
		Short: "Edit a recipe and save the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := loadRepo(cfg, false)
			if err != nil {
				return err
			}
			i, err := resolveIndex(repo, args[0])
			if err != nil {
				return err
			}
			rec, err := repo.GetAt(i)
			if err != nil {
				return err
			}

			if rename != "" {
				rec.Name = rename
			}
			if clearIngredients {
				rec.Ingredients = nil
			}
			if clearInstructions {
				rec.Instructions = nil
			}
			for _, s := range ingredients {
				ing, err := parseIngredient(s)
				if err != nil {
					return err
				}
				rec.Ingredients = append(rec.Ingredients, ing)
			}
			rec.Instructions = append(rec.Instructions, instructions...)

			if err := repo.Update(i, rec); err != nil {
				return err
			}
			if err := repo.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %q\n", rec.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&rename, "rename", "", "new recipe name")
	cmd.Flags().StringArrayVar(&ingredients, "ingredient", nil, "ingredient to append as amount;measure;name (repeatable)")
	cmd.Flags().StringArrayVar(&instructions, "instruction", nil, "instruction line to append (repeatable)")
	cmd.Flags().BoolVar(&clearIngredients, "clear-ingredients", false, "drop existing ingredients first")
	cmd.Flags().BoolVar(&clearInstructions, "clear-instructions", false, "drop existing instructions first")
	return cmd
}

func newRemoveCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name|index>",
		Short: "Delete a recipe and save the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := loadRepo(cfg, false)
			if err != nil {
				return err
			}
			i, err := resolveIndex(repo, args[0])
			if err != nil {
				return err
			}
			rec, err := repo.GetAt(i)
			if err != nil {
				return err
			}
			if err := repo.Delete(rec); err != nil {
				return err
			}
			if err := repo.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %q (%d recipes)\n", rec.Name, repo.Count())
			return nil
		},
	}
}

func newCheckCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the recipe file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := loadRepo(cfg, false)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d recipes, format ok\n", repo.Path(), repo.Count())
			return nil
		},
	}
}

func newWatchCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the recipe file and re-render the list on change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := cliconfig.Logger(cfg.LogLevel)

			repo, err := loadRepo(cfg, true)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sub := repo.OnChanged(func() {
				fmt.Fprintln(out, renderRecipeList(repo.GetAll()))
			})
			defer sub.Cancel()

			fmt.Fprintln(out, renderRecipeList(repo.GetAll()))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch.New(repo, log, cfg.Debounce).Run(ctx)
		},
	}
}
