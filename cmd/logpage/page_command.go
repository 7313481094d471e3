package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/logpage/internal/pager"
)

func newPageCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var pageNumber int
	var offset int
	var numbers bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "page <file-id>",
		Short: "Print one page of a log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reader, err := ctx.ensureReader()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("limit") {
				limit = cfg.Search.PageSize
			}
			opts := []pager.PageOption{pager.WithLimit(limit)}
			if cmd.Flags().Changed("offset") {
				opts = append(opts, pager.WithOffset(offset))
			}
			if cmd.Flags().Changed("page") {
				opts = append(opts, pager.WithPageNumber(pageNumber))
			}

			page, err := reader.Page(args[0], opts...)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, page)
			}

			out := cmd.OutOrStdout()
			printLines(out, page, lineRenderer(out, cfg, ""), numbers, nil)
			if page.Limit > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "page %d/%d  lines %d-%d of %d\n",
					page.Offset/page.Limit+1, page.TotalPages,
					min(page.Offset+1, page.TotalLines), page.Offset+len(page.Lines), page.TotalLines)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", pager.DefaultPageSize, "Lines per page")
	cmd.Flags().IntVarP(&pageNumber, "page", "p", 1, "1-based page number")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "0-based line offset (wins over --page)")
	cmd.Flags().BoolVarP(&numbers, "numbers", "N", false, "Prefix lines with line numbers")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}
