package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type fileSummary struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	TotalLines int    `json:"total_lines"`
	TotalPages int    `json:"total_pages"`
}

func newFilesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the registered log files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reader, err := ctx.ensureReader()
			if err != nil {
				return err
			}

			summaries := make([]fileSummary, 0, reader.FileCount())
			for _, id := range reader.Files() {
				lines, err := reader.TotalLines(id)
				if err != nil {
					return err
				}
				path, err := reader.Path(id)
				if err != nil {
					return err
				}
				pageSize := cfg.Search.PageSize
				summaries = append(summaries, fileSummary{
					ID:         id,
					Path:       path,
					TotalLines: lines,
					TotalPages: (lines + pageSize - 1) / pageSize,
				})
			}

			if jsonOut {
				return writeJSON(cmd, summaries)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No log files registered")
				return nil
			}

			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{s.ID, strconv.Itoa(s.TotalLines), strconv.Itoa(s.TotalPages), s.Path})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Lines", "Pages", "Path"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}
