package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kastheco/tabtray/app"
	cmd2 "github.com/kastheco/tabtray/cmd"
	"github.com/kastheco/tabtray/config"
	sentrypkg "github.com/kastheco/tabtray/internal/sentry"
	"github.com/kastheco/tabtray/log"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	version     = "0.1.0"
	noColorFlag bool
	privateFlag bool
	rootCmd     = &cobra.Command{
		Use:   "tabtray",
		Short: "tabtray - a terminal tab tray that tucks away tabs you stopped visiting",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColorFlag || os.Getenv("NO_COLOR") != "" {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
			defer stop()

			cfg := config.LoadConfig()
			if err := sentrypkg.Init(version, cfg.IsTelemetryEnabled()); err != nil {
				// Non-fatal: sentry failure should not prevent startup
				_ = err
			}
			defer sentrypkg.Flush()
			defer sentrypkg.RecoverPanic()

			log.Initialize(false, cfg.IsTelemetryEnabled())
			defer log.Close()

			var opts cmd2.EnvOptions
			if cmd.Flags().Changed("private") {
				opts.Private = &privateFlag
			}
			env, err := cmd2.OpenEnv(cfg, opts)
			if err != nil {
				return err
			}
			defer env.Close()

			snap := env.Panel.Snapshot()
			sentrypkg.SetContext(snap.IsPrivateBrowsing, len(snap.Active)+len(snap.Inactive), env.DBPath)

			return app.Run(ctx, app.Options{
				Owner:  env.Panel,
				Audit:  env.Audit,
				Config: cfg,
			})
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tabtray",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tabtray version %s\n", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colors in all output")
	rootCmd.Flags().BoolVar(&privateFlag, "private", false,
		"Start in private browsing without changing the saved mode")

	rootCmd.AddCommand(cmd2.NewPlanCmd())
	rootCmd.AddCommand(cmd2.NewOpenCmd())
	rootCmd.AddCommand(cmd2.NewResetCmd())
	rootCmd.AddCommand(cmd2.NewDebugCmd())
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
