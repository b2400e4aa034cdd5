package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"kokbok/internal/cliconfig"
)

const helpDescription = `
Manage a cookbook stored in a flat text file.

The file format is line-oriented: [Recept] introduces a recipe name,
[Ingredienser] introduces amount;measure;name lines and [Instruktioner]
introduces free-text instruction lines. Recipes are kept sorted by name.

Configure the recipe file via flag, KOKBOK_* environment variables or
~/.kokbok/config.toml (flags win over env, env wins over file).
`

var exampleUsage = strings.TrimSpace(`
  kokbok list -f recipes.txt
  kokbok add --name Tea --ingredient "1;cup;water" --instruction "Boil water."
  kokbok remove Tea
  kokbok watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "kokbok",
		Short:         "Manage a cookbook stored in a flat text file",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default ~/.kokbok/config.toml), then
			// env, with explicit flags winning over both.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			return cfg.Validate()
		},
	}

	root.PersistentFlags().StringVarP(&cfg.RecipeFile, "file", "f", cfg.RecipeFile, "recipe file path")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "reload delay in watch mode")
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.kokbok/config.toml)")

	root.AddCommand(
		newListCmd(&cfg),
		newShowCmd(&cfg),
		newAddCmd(&cfg),
		newEditCmd(&cfg),
		newRemoveCmd(&cfg),
		newCheckCmd(&cfg),
		newWatchCmd(&cfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
