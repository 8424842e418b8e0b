package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/riskibarqy/getstandings/internal/app"
	"github.com/riskibarqy/getstandings/internal/domain/standings"
	"github.com/riskibarqy/getstandings/internal/usecase"
	"github.com/spf13/cobra"
)

type appLoader func(ctx context.Context, verbose bool) (*app.App, error)

// cli owns the application built on first use; later commands reuse it.
type cli struct {
	load    appLoader
	verbose bool
	app     *app.App
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "standingsctl",
		Short:         "standingsctl inspects and drives the standings refresh pipeline.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.app != nil {
				return nil
			}
			a, err := c.load(cmd.Context(), c.verbose)
			if err != nil {
				return fmt.Errorf("build app: %w", err)
			}
			c.app = a
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		c.rowsCommand(),
		c.renderCommand(),
		c.refreshCommand(),
		c.scheduleCommand(),
		c.activateCommand(),
		c.deactivateCommand(),
	)
	return root
}

func (c *cli) rowsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rows",
		Short: "Lists the cached standings rows.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := c.app.StandingsService().Rows(cmd.Context())
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Team", "W", "L", "Pct"})
			for i, row := range rows {
				t.AppendRow(table.Row{i + 1, row.TeamName, row.Wins, row.Losses, row.FormattedWinPercentage()})
			}
			t.Render()
			return nil
		},
	}
}

func (c *cli) renderCommand() *cobra.Command {
	var (
		debug     bool
		sourceURL string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Renders the standings into an empty table, the way the page embed does.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := standings.NewTable("Team", "W", "L", "Pct")
			out, err := c.app.StandingsService().Render(cmd.Context(), input, standings.RenderOptions{
				Enabled:   true,
				SourceURL: sourceURL,
				Debug:     debug,
			})
			if err != nil {
				return err
			}
			renderTable(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "write the schedule note into the header cell")
	cmd.Flags().StringVar(&sourceURL, "source-url", "", "override the standings query url")
	return cmd
}

func (c *cli) refreshCommand() *cobra.Command {
	var sourceURL string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetches the standings now and replaces the cache.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy := c.app.RefreshPolicy()
			policy.SetSourceURL(sourceURL)

			result, err := policy.Refresh(cmd.Context(), usecase.TriggerManual)
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendRows([]table.Row{
				{"Dispatch", result.DispatchID},
				{"Source", result.SourceURL},
				{"Bytes", result.Bytes},
				{"Rows", result.RowCount},
				{"Fetched at", result.FetchedAt.Format(time.RFC3339)},
			})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceURL, "source-url", "", "override the standings query url")
	return cmd
}

func (c *cli) scheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Shows the refresh task registration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			status, err := a.StandingsService().Schedule(cmd.Context())
			if err != nil {
				return err
			}
			renderSchedule(cmd.OutOrStdout(), a.RefreshPolicy().TaskID(), status)
			return nil
		},
	}
}

func (c *cli) activateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate",
		Short: "Registers the refresh task and runs one refresh.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			status, err := a.RefreshPolicy().Activate(cmd.Context())
			if err != nil {
				return err
			}
			renderSchedule(cmd.OutOrStdout(), a.RefreshPolicy().TaskID(), status)
			return nil
		},
	}
}

func (c *cli) deactivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Cancels the refresh task and clears the cached standings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			if err := a.RefreshPolicy().Deactivate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deactivated %s\n", a.RefreshPolicy().TaskID())
			return nil
		},
	}
}

func renderSchedule(w io.Writer, taskID string, status usecase.ScheduleStatus) {
	next := "-"
	if status.Scheduled && !status.NextFireAt.IsZero() {
		next = status.NextFireAt.UTC().Format(time.RFC3339)
	}

	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Task", taskID},
		{"Scheduled", status.Scheduled},
		{"Already scheduled", status.AlreadyScheduled},
		{"Next fire", next},
	})
	t.Render()
}
