package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/logpage/internal/pager"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var fromPage int
	var pageSize int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search <file-id> <query>",
		Short: "Find the first page containing a keyword",
		Long: "Search a log file case-insensitively and print the page holding the first match.\n" +
			"With --from-page the search starts at that page instead of the top of the file.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reader, err := ctx.ensureReader()
			if err != nil {
				return err
			}

			fileID, query := args[0], args[1]
			if !cmd.Flags().Changed("page-size") {
				pageSize = cfg.Search.PageSize
			}

			var res *pager.SearchResult
			if cmd.Flags().Changed("from-page") {
				res, err = reader.SearchFromPage(fileID, query, fromPage, pageSize)
			} else {
				res, err = reader.SearchFirst(fileID, query, pageSize)
			}
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(cmd.ErrOrStderr(), "match on page %d/%d  %d on page  %d counted\n",
				res.MatchedPageNumber, res.Page.TotalPages, len(res.Occurrences), res.TotalMatches)
			printLines(out, res.Page, lineRenderer(out, cfg, query), true, res.Occurrences)
			return nil
		},
	}

	cmd.Flags().IntVar(&fromPage, "from-page", 1, "Start searching at this 1-based page")
	cmd.Flags().IntVar(&pageSize, "page-size", pager.DefaultPageSize, "Lines per page")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}
