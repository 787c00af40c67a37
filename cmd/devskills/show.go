package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/devskills/pkg/presenter"
)

type ShowConfig struct {
	Render bool
	Raw    bool
}

func NewShowConfig() *ShowConfig {
	return &ShowConfig{
		Render: false,
		Raw:    false,
	}
}

var showCmd = &cobra.Command{
	Use:   "show <skill-name>",
	Short: "Print a skill's guidance",
	Long: `Print the markdown body of a skill. With --render the document is
rendered for the terminal; with --raw the full file including frontmatter is
printed.

Examples:
  devskills show error-handling
  devskills show git-workflow --render
  devskills show cli-ux --raw > SKILL.md`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getShowConfigFromFlags(cmd)
		showSkillCmd(args[0], config)
	},
}

func init() {
	defaults := NewShowConfig()
	showCmd.Flags().Bool("render", defaults.Render, "Render markdown for the terminal")
	showCmd.Flags().Bool("raw", defaults.Raw, "Print the full file including frontmatter")
	rootCmd.AddCommand(showCmd)
}

func getShowConfigFromFlags(cmd *cobra.Command) *ShowConfig {
	config := NewShowConfig()
	if render, err := cmd.Flags().GetBool("render"); err == nil {
		config.Render = render
	}
	if raw, err := cmd.Flags().GetBool("raw"); err == nil {
		config.Raw = raw
	}
	return config
}

func showSkillCmd(name string, config *ShowConfig) {
	cat, err := newCatalog()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill catalog")
		os.Exit(1)
	}

	s, err := cat.Get(name)
	if err != nil {
		presenter.Error(err, "Skill not found")
		os.Exit(1)
	}

	if config.Raw {
		fmt.Print(s.Raw)
		return
	}

	if config.Render {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if out, err := renderer.Render(s.Content); err == nil {
				fmt.Print(out)
				return
			}
		}
		// Fall through to plain output when the terminal renderer
		// cannot be built.
	}

	fmt.Print(s.Content)
}
