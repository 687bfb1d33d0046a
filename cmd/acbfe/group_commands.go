package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"acbfe/internal/comic"
)

// newGroupCommands builds one command per editable metadata list, each with
// list, add and remove subcommands.
func newGroupCommands(ctx *commandContext) []*cobra.Command {
	groups := comic.Groups()
	cmds := make([]*cobra.Command, 0, len(groups))
	for _, g := range groups {
		cmds = append(cmds, newGroupCommand(ctx, g))
	}
	return cmds
}

func newGroupCommand(ctx *commandContext, g comic.Group) *cobra.Command {
	cmd := &cobra.Command{
		Use:   g.Name,
		Short: "Edit the " + g.Name + " list",
	}

	var jsonOut bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List " + g.Name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				rows := g.List(s)
				if jsonOut {
					items := make([]map[string]string, 0, len(rows))
					for _, row := range rows {
						item := make(map[string]string, len(g.Columns))
						for i, col := range g.Columns {
							if i < len(row) {
								item[col] = row[i]
							}
						}
						items = append(items, item)
					}
					return writeJSON(cmd, items)
				}
				if len(rows) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s\n", g.Name)
					return nil
				}
				headers := append([]string{"#"}, g.Columns...)
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, numbered(rows), []columnAlignment{alignRight}))
				return nil
			})
		},
	}
	list.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")

	add := &cobra.Command{
		Use:   "add " + g.Usage,
		Short: "Add to " + g.Name,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				return g.Add(s, args)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <n>",
		Short: "Remove item n (as numbered by list) from " + g.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item number %q", args[0])
			}
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				return g.Remove(s, n)
			})
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}
