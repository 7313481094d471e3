package main

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/TimelordUK/logpage/internal/ui"
)

func newViewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "view <file-id>",
		Short: "Browse a log file page by page in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !isTerminal(cmd.OutOrStdout()) {
				return errors.New("view needs an interactive terminal; use `logpage page` to print pages")
			}
			reader, err := ctx.ensureReader()
			if err != nil {
				return err
			}
			path, err := reader.Path(args[0])
			if err != nil {
				return err
			}

			model, err := ui.NewModel(reader, args[0], path, cfg)
			if err != nil {
				return err
			}

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}
}
