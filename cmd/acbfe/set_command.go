package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"acbfe/internal/comic"
)

func newSetCommand(ctx *commandContext) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:       "set <field> <value>",
		Short:     "Set a metadata field",
		Long:      "Set a metadata field. Fields: " + strings.Join(comic.Fields, ", ") + ".\nAn empty value clears the field.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: comic.Fields,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, true, func(s *comic.Session) error {
				if err := s.SetField(args[0], langOrEmpty(lang), args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s set\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "Language of title and annotation (untagged when empty)")
	return cmd
}

func langOrEmpty(lang string) string {
	return strings.TrimSpace(lang)
}

func newGetCommand(ctx *commandContext) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:       "get <field>",
		Short:     "Print a metadata field",
		Args:      cobra.ExactArgs(1),
		ValidArgs: comic.Fields,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(s *comic.Session) error {
				value, err := s.Field(args[0], langOrEmpty(lang))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "Language of title and annotation")
	return cmd
}
