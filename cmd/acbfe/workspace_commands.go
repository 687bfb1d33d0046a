package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"acbfe/internal/workspace"
)

func newWorkspaceCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Inspect and clean leftover session workspaces",
	}
	cmd.AddCommand(newWorkspaceListCommand(ctx), newWorkspaceCleanCommand(ctx))
	return cmd
}

func newWorkspaceListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List session workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dirs, err := workspace.List(cfg.WorkspaceRoot())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, dirs)
			}
			if len(dirs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No workspaces in %s\n", cfg.WorkspaceRoot())
				return nil
			}
			rows := make([][]string, 0, len(dirs))
			var total int64
			for _, d := range dirs {
				total += d.Size
				rows = append(rows, []string{d.Name, humanize.Bytes(uint64(d.Size)), humanize.Time(d.ModTime)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Size", "Modified"}, rows, []columnAlignment{alignLeft, alignRight}))
			fmt.Fprintf(cmd.OutOrStdout(), "%d workspaces, %s\n", len(dirs), humanize.Bytes(uint64(total)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func newWorkspaceCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove workspaces left behind by crashed sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result := workspace.CleanStale(cmd.Context(), cfg.WorkspaceRoot(), maxAge, ctx.log())
			out := cmd.OutOrStdout()
			for _, path := range result.Removed {
				fmt.Fprintf(out, "Removed %s\n", path)
			}
			for _, e := range result.Errors {
				fmt.Fprintf(out, "Failed %s: %v\n", e.Path, e.Error)
			}
			if len(result.Removed) == 0 && len(result.Errors) == 0 {
				fmt.Fprintln(out, "Nothing to clean")
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d workspaces could not be removed", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Only remove workspaces older than this (0 removes all)")
	return cmd
}
