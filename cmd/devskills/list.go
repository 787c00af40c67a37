package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/devskills/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available skills",
	Long: `List every skill visible through the source chain (repo-local,
user-global, plugins, built-in corpus) with name, version, source, and
description.`,
	Run: func(_ *cobra.Command, _ []string) {
		listSkillsCmd()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listSkillsCmd() {
	found, err := discoverSkills()
	if err != nil {
		presenter.Error(err, "Failed to discover skills")
		os.Exit(1)
	}

	if len(found) == 0 {
		presenter.Info("No skills available")
		return
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tSOURCE\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t-------\t------\t-----------")

	for _, name := range names {
		s := found[name]
		description := s.Description
		if len(description) > 60 {
			description = description[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.Version, s.Source, description)
	}
	tw.Flush()
}
