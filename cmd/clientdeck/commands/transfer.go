package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/clientdeck/internal/persist"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of all clients and templates",
		Long:  "Write a JSON backup. Without -o the file is named clientdeck-backup-YYYY-MM-DD.json; use -o - for stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				now := time.Now()
				data, err := s.board.Export(now)
				if err != nil {
					return fmt.Errorf("failed to export: %w", err)
				}

				if output == "-" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if output == "" {
					output = persist.ExportFileName(now)
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				s.log.Info().Str("file", output).Int("bytes", len(data)).Msg("exported")
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (- for stdout)")
	return cmd
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all clients and templates with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			return withSession(cmd, flags, func(s *session) error {
				if err := s.board.Import(cmd.Context(), data); err != nil {
					return fmt.Errorf("error importing file: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Data imported successfully")
				return nil
			})
		},
	}
}
