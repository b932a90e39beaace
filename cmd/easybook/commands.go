package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/easybook/internal/config"
	"github.com/jask/easybook/internal/testdata"
	"github.com/jask/easybook/internal/tui"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "easybook",
		Short:         "Calendar bookkeeping for a small stall",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			p := tea.NewProgram(tui.New(cmd.Context(), a.ctrl, a.cfg.UI.CurrencySymbol), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	root.AddCommand(newImportCmd(), newExportCmd(), newDemoCmd(), newInitConfigCmd())
	return root
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Append transactions from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := a.importer.Import(cmd.Context(), f)
			out := cmd.OutOrStdout()
			printf(out, "%s\n", res.Message())
			for _, le := range res.Errors {
				printf(out, "  %v\n", le)
			}
			return err
		},
	}
}

func newExportCmd() *cobra.Command {
	var month string
	var all bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a month, or everything, to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all && month != "" {
				return fmt.Errorf("--all and --month are mutually exclusive")
			}
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			var path string
			if all {
				path, err = a.exporter.ExportAll(cmd.Context())
			} else {
				var ref time.Time
				ref, err = parseMonth(month, a.loc, time.Now().In(a.loc))
				if err != nil {
					return err
				}
				path, err = a.exporter.ExportMonth(cmd.Context(), ref)
			}
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to export as YYYY-MM (default current month)")
	cmd.Flags().BoolVar(&all, "all", false, "export every transaction, newest first")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var month string
	var seed int64
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Append a month of sample transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			ref, err := parseMonth(month, a.loc, time.Now().In(a.loc))
			if err != nil {
				return err
			}
			n, err := testdata.Seed(cmd.Context(), a.store, ref, seed)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "added %d sample transactions for %s\n", n, ref.Format("2006-01"))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to fill as YYYY-MM (default current month)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	return cmd
}

// newInitConfigCmd writes the effective settings (defaults plus env
// overrides) to the config file so they can be edited.
func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write the current settings to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			path := config.Path()
			if err := config.Save(cfg); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", path)
			return nil
		},
	}
}
