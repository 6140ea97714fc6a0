package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kastheco/tabtray/config"
	"github.com/kastheco/tabtray/config/auditlog"
	"github.com/kastheco/tabtray/config/tabstore"
	"github.com/kastheco/tabtray/tabs"
	"github.com/kastheco/tabtray/ui/overlay"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Plan output formats.
const (
	FormatAuto = ""
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

const defaultTextWidth = 80

// debugAuditLimit is how many audit events `debug` prints.
const debugAuditLimit = 10

// executePlan writes the render plan of snap. The auto format prints text to
// a terminal and YAML otherwise.
func executePlan(w io.Writer, snap tabs.PanelSnapshot, format string, isTTY bool, width int, now time.Time) error {
	plan := tabs.BuildPlan(snap)
	if format == FormatAuto {
		format = FormatYAML
		if isTTY {
			format = FormatText
		}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		_, err := io.WriteString(w, renderPlanText(plan, snap.IsPrivateBrowsing, width, now))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}
}

// renderPlanText lays the plan out the way the tray does, one line per row.
func renderPlanText(plan tabs.RenderPlan, private bool, width int, now time.Time) string {
	if width <= 0 {
		width = defaultTextWidth
	}
	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(runewidth.Truncate(s, width, "…"))
		sb.WriteByte('\n')
	}
	if private {
		line("private browsing")
	}
	for _, section := range plan.Sections {
		switch section.Kind {
		case tabs.SectionInactiveTabs:
			line(fmt.Sprintf("inactive tabs (%s) · %d", section.State, len(section.Items)))
		default:
			line(fmt.Sprintf("tabs · %d", len(section.Items)))
		}
		for i, it := range section.VisibleItems() {
			marker := " "
			if it.Tab.Selected {
				marker = "●"
			}
			seen := ""
			if !it.Tab.LastAccessed.IsZero() {
				seen = "  " + humanize.RelTime(it.Tab.LastAccessed, now, "ago", "from now")
			}
			line(fmt.Sprintf(" %s %2d. %s  %s%s", marker, i+1, it.Tab.Title, it.Tab.URL, seen))
		}
	}
	if plan.Len() == 0 {
		line("no tabs open")
	}
	return sb.String()
}

// executeOpen validates rawURL and opens it as a new tab.
func executeOpen(d interface{ Dispatch(tabs.Command) error }, rawURL, title string) (string, error) {
	u, err := overlay.NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}
	if err := d.Dispatch(tabs.OpenTabCommand{URL: u, Title: strings.TrimSpace(title)}); err != nil {
		return "", err
	}
	return u, nil
}

// executeReset removes every tab and preference.
func executeReset(store tabstore.Store, audit auditlog.Logger) error {
	if err := store.DeleteAll(); err != nil {
		return fmt.Errorf("failed to reset tab store: %w", err)
	}
	audit.Emit(auditlog.NewEvent(auditlog.EventPanelReset, "all tabs removed"))
	return nil
}

// executeDebug prints paths, the effective config and recent audit events.
func executeDebug(w io.Writer, cfg *config.Config, env *Env, now time.Time) error {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	fmt.Fprintf(w, "Config: %s/%s\n", configDir, config.ConfigFileName)
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	fmt.Fprintf(w, "\nDatabase: %s\n", env.DBPath)
	if err := env.Store.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	version, err := env.Store.SchemaVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Schema version: %d\n", version)

	snap := env.Panel.Snapshot()
	fmt.Fprintf(w, "Tabs: %d active, %d inactive (private browsing: %t)\n",
		len(snap.Active), len(snap.Inactive), snap.IsPrivateBrowsing)

	events, err := env.Audit.Query(auditlog.QueryFilter{Limit: debugAuditLimit})
	if err != nil {
		return fmt.Errorf("query audit log: %w", err)
	}
	fmt.Fprintf(w, "\nRecent events:\n")
	if len(events) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, e := range events {
		fmt.Fprintf(w, "  %-22s %-16s %s\n", e.Kind, humanize.RelTime(e.Timestamp, now, "ago", "from now"), e.Message)
	}
	return nil
}

func stdoutIsTerminal() (bool, int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return true, defaultTextWidth
	}
	return true, width
}

// NewPlanCmd builds the `tabtray plan` command.
func NewPlanCmd() *cobra.Command {
	var private bool
	var format string
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the tray layout of the current tabs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			var opts EnvOptions
			if cmd.Flags().Changed("private") {
				opts.Private = &private
			}
			env, err := OpenEnv(cfg, opts)
			if err != nil {
				return err
			}
			defer env.Close()

			isTTY, width := stdoutIsTerminal()
			return executePlan(cmd.OutOrStdout(), env.Panel.Snapshot(), format, isTTY, width, time.Now())
		},
	}
	planCmd.Flags().BoolVar(&private, "private", false, "show the private browsing tabs")
	planCmd.Flags().StringVarP(&format, "format", "f", FormatAuto, "output format: text, yaml or json")
	return planCmd
}

// NewOpenCmd builds the `tabtray open URL` command.
func NewOpenCmd() *cobra.Command {
	var title string
	openCmd := &cobra.Command{
		Use:   "open URL",
		Short: "Open a new tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := OpenEnv(config.LoadConfig(), EnvOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			u, err := executeOpen(env.Panel, args[0], title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "opened %s\n", u)
			return nil
		},
	}
	openCmd.Flags().StringVarP(&title, "title", "t", "", "tab title (defaults to the url)")
	return openCmd
}

// NewResetCmd builds the `tabtray reset` command.
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove all stored tabs and preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := OpenEnv(config.LoadConfig(), EnvOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			if err := executeReset(env.Store, env.Audit); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tab storage has been reset successfully")
			return nil
		},
	}
}

// NewDebugCmd builds the `tabtray debug` command.
func NewDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config and database paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			env, err := OpenEnv(cfg, EnvOptions{})
			if err != nil {
				return err
			}
			defer env.Close()
			return executeDebug(cmd.OutOrStdout(), cfg, env, time.Now())
		},
	}
}
