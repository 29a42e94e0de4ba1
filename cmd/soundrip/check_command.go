package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"soundrip/internal/preflight"
)

func newCheckCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify external tools and directory access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			var rows [][]string
			failures := 0

			for _, status := range preflight.CheckSystemDeps(cfg) {
				if !status.Available && !status.Optional {
					failures++
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Command
				}
				rows = append(rows, []string{status.Name, yesNo(status.Available), detail})
			}

			dirChecks := []preflight.Result{
				preflight.CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
				preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
			}
			for _, result := range dirChecks {
				if !result.Passed {
					failures++
				}
				rows = append(rows, []string{result.Name, yesNo(result.Passed), result.Detail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "OK", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if failures > 0 {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
