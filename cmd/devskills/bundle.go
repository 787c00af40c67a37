package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/devskills/pkg/bundle"
	"github.com/jingkaihe/devskills/pkg/catalog"
	"github.com/jingkaihe/devskills/pkg/presenter"
)

type BundleConfig struct {
	Patterns []string
	Title    string
	Output   string
}

func NewBundleConfig() *BundleConfig {
	return &BundleConfig{
		Patterns: nil,
		Title:    "",
		Output:   "",
	}
}

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Render skills into one prompt-context document",
	Long: `Concatenate a selection of skills into a single markdown document with
a table of contents, ready to be loaded as assistant context.

Examples:
  devskills bundle
  devskills bundle --skill 'db-*' --skill git-workflow
  devskills bundle -o CONVENTIONS.md`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getBundleConfigFromFlags(cmd)
		bundleSkillsCmd(config)
	},
}

func init() {
	defaults := NewBundleConfig()
	bundleCmd.Flags().StringSliceP("skill", "s", defaults.Patterns, "Skill name or glob to include (repeatable; default all)")
	bundleCmd.Flags().String("title", defaults.Title, "Bundle title")
	bundleCmd.Flags().StringP("output", "o", defaults.Output, "Write to file instead of stdout")
	rootCmd.AddCommand(bundleCmd)
}

func getBundleConfigFromFlags(cmd *cobra.Command) *BundleConfig {
	config := NewBundleConfig()
	if patterns, err := cmd.Flags().GetStringSlice("skill"); err == nil {
		config.Patterns = patterns
	}
	if title, err := cmd.Flags().GetString("title"); err == nil {
		config.Title = title
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}
	return config
}

func bundleSkillsCmd(config *BundleConfig) {
	found, err := discoverSkills()
	if err != nil {
		presenter.Error(err, "Failed to discover skills")
		os.Exit(1)
	}

	selected, err := catalog.Match(found, config.Patterns)
	if err != nil {
		presenter.Error(err, "Invalid skill selection")
		os.Exit(1)
	}

	doc, err := bundle.Render(selected, bundle.Options{Title: config.Title})
	if err != nil {
		presenter.Error(err, "Failed to render bundle")
		os.Exit(1)
	}

	if config.Output == "" {
		fmt.Print(doc)
		return
	}

	if err := os.WriteFile(config.Output, []byte(doc), 0o644); err != nil {
		presenter.Error(err, "Failed to write bundle")
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Wrote %d skill(s) to %s", len(selected), config.Output))
}
