package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/clientdeck/internal/query"
)

func newStatsCmd(flags *globalFlags) *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count clients per stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				c := s.board.Stats(templateID)
				t := table.New().
					Headers("TO DO", "IN PROGRESS", "DONE", "TOTAL").
					Row(
						strconv.Itoa(c.Todo),
						strconv.Itoa(c.InProgress),
						strconv.Itoa(c.Done),
						strconv.Itoa(c.Total()),
					)
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", query.AllTemplates, "only clients using this template")
	return cmd
}
