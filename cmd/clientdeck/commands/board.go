package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/clientdeck/internal/app"
)

func newBoardCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, flags)
		},
	}
}

// runBoard opens the terminal UI. Status changes are shown in the status
// bar instead of stderr.
func runBoard(cmd *cobra.Command, flags *globalFlags) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	notices := &app.Notices{}
	s, err := openSession(ctx, flags, notices)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	root := app.New(s.board, notices, app.Options{
		Theme:         s.cfg.Display.Theme,
		DefaultFilter: s.cfg.Display.DefaultFilter,
		Config:        *s.cfg,
		ConfigPath:    flags.configPath,
	})

	s.log.Info().Msg("board opened")
	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
