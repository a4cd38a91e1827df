package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Gaurav-Gosain/winshell/internal/apps"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/theme"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage winshell configuration",
		Long:  `Manage the winshell configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order. A running winshell picks up
the saved file unless it was started with --no-watch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)
	return configCmd
}

// editConfigFile opens the config file in $EDITOR, creating it first.
func editConfigFile() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", path)
		if err := config.WriteConfig(path, config.DefaultConfig()); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return errors.New("no editor found, set $EDITOR")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	// Report mistakes now rather than on the next start.
	if _, err := config.LoadFrom(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return nil
}

func resetConfigToDefaults() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", path)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		_, _ = fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.WriteConfig(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", path)
	fmt.Println("\nYou can customize it with: winshell config edit")
	return nil
}

func newKeybindsCmd() *cobra.Command {
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				fmt.Fprintln(os.Stderr, "Using default keybindings...")
				cfg = config.DefaultConfig()
			}
			printKeybindingsTable(config.NewKeybindRegistry(cfg))
			return nil
		},
	}

	keybindsCustomCmd := &cobra.Command{
		Use:   "list-custom",
		Short: "List customized keybindings",
		Long:  `Display only keybindings that differ from defaults`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			printCustomKeybindings(findCustomizations(cfg.Keybindings, config.DefaultKeybindings()))
			return nil
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd, keybindsCustomCmd)
	return keybindsCmd
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableBorder())).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func printKeybindingsTable(registry *config.KeybindRegistry) {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader())
	section := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableKey())

	fmt.Println()
	_, _ = lipgloss.Println(title.Render("winshell Keybindings"))
	fmt.Println()

	for _, s := range config.GetKeybindings(registry) {
		t := newTable("Keys", "Action")
		for _, b := range s.Bindings {
			t.Row(b.Key, b.Description)
		}
		_, _ = lipgloss.Println(section.Render(s.Title))
		_, _ = lipgloss.Println(t.Render())
		fmt.Println()
	}

	var unbound []string
	for _, action := range config.SortedActions() {
		if len(registry.GetKeys(action)) == 0 {
			unbound = append(unbound, action)
		}
	}
	if len(unbound) > 0 {
		_, _ = lipgloss.Println(lipgloss.NewStyle().Foreground(theme.CLITableDim()).Italic(true).
			Render("Unbound: " + strings.Join(unbound, ", ")))
		fmt.Println()
	}
}

// Customization is a binding that differs from the default.
type Customization struct {
	Action      string
	DefaultKeys string
	CustomKeys  string
}

func findCustomizations(user, defaults map[string][]string) []Customization {
	var out []Customization
	for _, action := range config.SortedActions() {
		userKeys, ok := user[action]
		if !ok || slices.Equal(userKeys, defaults[action]) {
			continue
		}
		custom := strings.Join(userKeys, ", ")
		if custom == "" {
			custom = "(unbound)"
		}
		out = append(out, Customization{
			Action:      formatActionName(action),
			DefaultKeys: strings.Join(defaults[action], ", "),
			CustomKeys:  custom,
		})
	}
	return out
}

func printCustomKeybindings(customizations []Customization) {
	dim := lipgloss.NewStyle().Foreground(theme.CLITableDim())
	if len(customizations) == 0 {
		_, _ = lipgloss.Println(dim.Render("No custom keybindings configured. All keybindings are using defaults."))
		fmt.Println()
		fmt.Println("Run 'winshell keybinds list' to see all keybindings.")
		return
	}

	t := newTable("Action", "Default", "Custom")
	for _, c := range customizations {
		t.Row(c.Action, c.DefaultKeys, c.CustomKeys)
	}
	fmt.Println()
	_, _ = lipgloss.Println(lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Render("Custom Keybindings"))
	fmt.Println()
	_, _ = lipgloss.Println(t.Render())
	fmt.Println()
	_, _ = lipgloss.Println(lipgloss.NewStyle().Foreground(theme.CLITableKey()).
		Render(fmt.Sprintf("Found %d customized keybinding(s)", len(customizations))))
	fmt.Println()
}

// formatActionName prefers the action's description.
func formatActionName(action string) string {
	if desc, ok := config.ActionDescriptions[action]; ok {
		return desc
	}
	return strings.ReplaceAll(action, "_", " ")
}

func newAppsCmd() *cobra.Command {
	appsCmd := &cobra.Command{
		Use:   "apps",
		Short: "Inspect built-in apps",
	}

	var all bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the built-in apps",
		Long: `List the apps that open with app:<name> URLs

Hidden apps are dialogs other apps open; pass --all to include them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := newTable("URL", "Description")
			for _, e := range apps.Default().Entries() {
				if e.Hidden && !all {
					continue
				}
				desc := e.Description
				if e.Hidden {
					desc += " (dialog)"
				}
				t.Row(apps.URL(e.Name), desc)
			}
			_, _ = lipgloss.Println(t.Render())
			return nil
		},
	}
	listCmd.Flags().BoolVar(&all, "all", false, "Include dialog apps")

	appsCmd.AddCommand(listCmd)
	return appsCmd
}
