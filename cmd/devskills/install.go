package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/devskills/pkg/catalog"
	"github.com/jingkaihe/devskills/pkg/installer"
	"github.com/jingkaihe/devskills/pkg/presenter"
	"github.com/jingkaihe/devskills/pkg/skill"
)

type InstallConfig struct {
	Global bool
	Dir    string
	Force  bool
}

func NewInstallConfig() *InstallConfig {
	return &InstallConfig{
		Global: false,
		Dir:    "",
		Force:  false,
	}
}

type RemoveConfig struct {
	Global bool
	Dir    string
}

func NewRemoveConfig() *RemoveConfig {
	return &RemoveConfig{
		Global: false,
		Dir:    "",
	}
}

var installCmd = &cobra.Command{
	Use:   "install [skill...]",
	Short: "Install skills into an assistant's skills directory",
	Long: `Copy skills (SKILL.md plus reference files) into an assistant's skills
directory. Defaults to ./.claude/skills; use -g for ~/.claude/skills or --dir
for anything else. Glob patterns select multiple skills; no arguments installs
everything visible.

An existing install is left alone unless --force is given; the pending diff is
shown either way.

Examples:
  devskills install error-handling git-workflow
  devskills install 'db-*' -g
  devskills install --dir ./.cursor/skills --force`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getInstallConfigFromFlags(cmd)
		installSkillsCmd(args, config)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <skill-name>",
	Short: "Remove an installed skill",
	Long: `Remove an installed skill by name from the target skills directory.

Examples:
  devskills remove error-handling
  devskills remove error-handling -g`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getRemoveConfigFromFlags(cmd)
		removeSkillCmd(args[0], config)
	},
}

func init() {
	installDefaults := NewInstallConfig()
	installCmd.Flags().BoolP("global", "g", installDefaults.Global, "Install to ~/.claude/skills instead of ./.claude/skills")
	installCmd.Flags().StringP("dir", "d", installDefaults.Dir, "Install to a custom skills directory")
	installCmd.Flags().BoolP("force", "f", installDefaults.Force, "Overwrite existing installs that differ")

	removeDefaults := NewRemoveConfig()
	removeCmd.Flags().BoolP("global", "g", removeDefaults.Global, "Remove from ~/.claude/skills instead of ./.claude/skills")
	removeCmd.Flags().StringP("dir", "d", removeDefaults.Dir, "Remove from a custom skills directory")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(removeCmd)
}

func getInstallConfigFromFlags(cmd *cobra.Command) *InstallConfig {
	config := NewInstallConfig()
	if global, err := cmd.Flags().GetBool("global"); err == nil {
		config.Global = global
	}
	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	return config
}

func getRemoveConfigFromFlags(cmd *cobra.Command) *RemoveConfig {
	config := NewRemoveConfig()
	if global, err := cmd.Flags().GetBool("global"); err == nil {
		config.Global = global
	}
	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}
	return config
}

func resolveTarget(global bool, dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return installer.DefaultTarget(global)
}

func installSkillsCmd(patterns []string, config *InstallConfig) {
	found, err := discoverSkills()
	if err != nil {
		presenter.Error(err, "Failed to discover skills")
		os.Exit(1)
	}

	selected, err := catalog.Match(found, patterns)
	if err != nil {
		presenter.Error(err, "Invalid skill selection")
		os.Exit(1)
	}
	if len(selected) == 0 {
		presenter.Warning("No skills matched")
		os.Exit(1)
	}

	targetDir, err := resolveTarget(config.Global, config.Dir)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		presenter.Error(err, "Failed to create skills directory")
		os.Exit(1)
	}

	inst := installer.New(targetDir)
	installed := 0

	for _, name := range sortedNames(selected) {
		s := selected[name]
		outcome, err := inst.Install(s, config.Force)
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to install skill '%s'", name))
			continue
		}

		switch outcome.Status {
		case installer.StatusInstalled:
			installed++
			presenter.Success(fmt.Sprintf("Installed skill '%s' to %s", name, outcome.Path))
		case installer.StatusUpdated:
			installed++
			presenter.Success(fmt.Sprintf("Updated skill '%s' at %s", name, outcome.Path))
		case installer.StatusUnchanged:
			presenter.Info(fmt.Sprintf("Skill '%s' is up to date", name))
		case installer.StatusSkipped:
			presenter.Warning(fmt.Sprintf("Skill '%s' already exists and differs, use --force to overwrite:", name))
			fmt.Fprint(os.Stderr, outcome.Diff)
		}
	}

	if installed > 0 {
		presenter.Info(fmt.Sprintf("Successfully installed %d skill(s)", installed))
	}
}

func sortedNames(selected map[string]*skill.Skill) []string {
	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func removeSkillCmd(name string, config *RemoveConfig) {
	targetDir, err := resolveTarget(config.Global, config.Dir)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	if err := installer.New(targetDir).Remove(name); err != nil {
		presenter.Error(err, "Failed to remove skill")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Removed skill '%s' from %s", name, targetDir))
}
