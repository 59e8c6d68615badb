// Package commands implements the clientdeck command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/clientdeck/internal/board"
	"github.com/nhle/clientdeck/internal/logger"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/persist"
	"github.com/nhle/clientdeck/internal/status"
	"github.com/nhle/clientdeck/internal/store"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dbPath     string
}

// NewRootCmd builds the clientdeck command tree. Without a subcommand it
// opens the interactive board.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "clientdeck",
		Short:         "Kanban board for client onboarding checklists",
		Long:          "Track clients through To Do, In Progress and Done as their template checklists fill in.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", model.DefaultConfigPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "database file (overrides storage.path)")

	rootCmd.AddCommand(newBoardCmd(flags))
	rootCmd.AddCommand(newExportCmd(flags))
	rootCmd.AddCommand(newImportCmd(flags))
	rootCmd.AddCommand(newTemplateCmd(flags))
	rootCmd.AddCommand(newClientCmd(flags))
	rootCmd.AddCommand(newStatsCmd(flags))

	return rootCmd
}

// session is an opened board with everything it depends on.
type session struct {
	cfg    *model.AppConfig
	log    *logger.Logger
	board  *board.Board
	kv     store.KV
	closer io.Closer
}

// openSession loads config, starts file logging, opens the database and
// hydrates the board. notifier may be nil.
func openSession(ctx context.Context, flags *globalFlags, notifier status.Notifier) (*session, error) {
	cfg, err := model.LoadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.dbPath != "" {
		cfg.Storage.Path = flags.dbPath
	}

	log, closer, err := logger.NewFileLogger(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	kv, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	opts := []board.Option{board.WithLogger(log)}
	if notifier != nil {
		opts = append(opts, board.WithNotifier(notifier))
	}
	b, err := board.Open(ctx, persist.New(kv, log), opts...)
	if err != nil {
		kv.Close()
		closer.Close()
		return nil, err
	}

	log.Debug().Str("db", cfg.Storage.Path).Msg("session opened")
	return &session{cfg: cfg, log: log, board: b, kv: kv, closer: closer}, nil
}

// Close flushes the board and releases the database and log file.
func (s *session) Close(ctx context.Context) error {
	return errors.Join(
		s.board.Close(ctx),
		s.kv.Close(),
		s.closer.Close(),
	)
}

// withSession runs fn against an opened session, always closing it.
func withSession(cmd *cobra.Command, flags *globalFlags, fn func(*session) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	notifier := status.NotifierFunc(func(n status.Notification) {
		fmt.Fprintln(cmd.ErrOrStderr(), n.Message())
	})
	s, err := openSession(ctx, flags, notifier)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
