package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/devskills/pkg/catalog"
	"github.com/jingkaihe/devskills/pkg/logger"
	"github.com/jingkaihe/devskills/pkg/presenter"
	"github.com/jingkaihe/devskills/pkg/skill"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("DEVSKILLS")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.devskills")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()

	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
}

var rootCmd = &cobra.Command{
	Use:   "devskills",
	Short: "Curated development-convention skills for AI coding assistants",
	Long: `devskills ships a corpus of skill documents (naming, error handling,
testing layout, migrations, CLI UX, git workflow, logging, code style) and the
tooling around it: list and render skills, lint a corpus, bundle skills into
prompt context, install them into assistant skill directories, and serve them
over MCP.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.SetLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

// newCatalog builds the catalog from config: explicit skills.dirs
// replace the default local/global chain, the embedded corpus always
// sits at the bottom.
func newCatalog() (*catalog.Catalog, error) {
	if dirs := viper.GetStringSlice("skills.dirs"); len(dirs) > 0 {
		return catalog.New(catalog.WithDirs(dirs...), catalog.WithBuiltin())
	}
	return catalog.New()
}

// discoverSkills runs discovery and applies the configured allowlist.
func discoverSkills() (map[string]*skill.Skill, error) {
	cat, err := newCatalog()
	if err != nil {
		return nil, err
	}

	found, err := cat.Discover()
	if err != nil {
		return nil, err
	}

	return catalog.FilterAllowed(found, viper.GetStringSlice("skills.allowed")), nil
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
