package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"acbfe/internal/deps"
	"acbfe/internal/preflight"
)

type doctorReport struct {
	Checks []preflight.Result `json:"checks"`
	Tools  []deps.Status      `json:"tools"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := doctorReport{
				Checks: preflight.RunAll(cmd.Context(), cfg),
				Tools:  preflight.CheckSystemDeps(cfg),
			}
			if jsonOut {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			checkRows := make([][]string, 0, len(report.Checks))
			failed := 0
			for _, r := range report.Checks {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
					failed++
				}
				checkRows = append(checkRows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, checkRows, nil))

			toolRows := make([][]string, 0, len(report.Tools))
			for _, s := range report.Tools {
				where := s.Path
				if !s.Available {
					where = s.Detail
				}
				toolRows = append(toolRows, []string{s.Name, yesNo(s.Available), s.Description, where})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Found", "Used for", "Path"}, toolRows, nil))

			if missing := deps.MissingRequired(report.Tools); len(missing) > 0 {
				failed += len(missing)
			}
			if failed > 0 {
				return fmt.Errorf("%d checks failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}
