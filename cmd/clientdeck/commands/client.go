package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/persist"
	"github.com/nhle/clientdeck/internal/query"
)

func newClientCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients on the board",
	}

	cmd.AddCommand(newClientListCmd(flags))
	cmd.AddCommand(newClientAddCmd(flags))
	cmd.AddCommand(newClientMoveCmd(flags))
	cmd.AddCommand(newClientSetCmd(flags))
	cmd.AddCommand(newClientDuplicateCmd(flags))
	cmd.AddCommand(newClientDeleteCmd(flags))
	return cmd
}

func parseClientID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: client id %q is not a number", model.ErrMalformedInput, s)
	}
	return id, nil
}

func newClientListCmd(flags *globalFlags) *cobra.Command {
	var templateID, statusName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients with their stage and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var only model.Status
			if statusName != "" {
				st, err := model.ParseStatus(statusName)
				if err != nil {
					return err
				}
				only = st
			}

			return withSession(cmd, flags, func(s *session) error {
				t := table.New().Headers("ID", "NAME", "TEMPLATE", "STATUS", "PROGRESS", "CREATED")
				for _, c := range s.board.Clients(templateID) {
					if only != "" && c.Status != only {
						continue
					}
					t.Row(
						strconv.FormatInt(c.ID, 10),
						c.Name,
						c.Template,
						c.Status.Label(),
						fmt.Sprintf("%d%%", s.board.Progress(c)),
						c.CreatedAt.Local().Format("2006-01-02"),
					)
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", query.AllTemplates, "only clients using this template")
	cmd.Flags().StringVarP(&statusName, "status", "s", "", "only clients in this stage (todo, in_progress, done)")
	return cmd
}

func newClientAddCmd(flags *globalFlags) *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a client in To Do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				c, err := s.board.CreateClient(cmd.Context(), args[0], templateID)
				if err != nil {
					return fmt.Errorf("failed to add client: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d)\n", c.Name, c.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", persist.DefaultTemplateID, "template id")
	return cmd
}

func newClientMoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "move <client-id> <status>",
		Short: "Move a client to another stage",
		Long:  "Move a client to todo, in_progress or done. Moving to done requires every required item.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseClientID(args[0])
			if err != nil {
				return err
			}
			target, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(s *session) error {
				moved, err := s.board.MoveClient(cmd.Context(), id, target)
				if err != nil {
					return err
				}
				if !moved {
					fmt.Fprintf(cmd.OutOrStdout(), "Already in %s\n", target.Label())
				}
				return nil
			})
		},
	}
}

func newClientSetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <client-id> <item-id> <value>",
		Short: "Answer one checklist item",
		Long:  "Answer one checklist item. Checkbox items take true/false; an empty value clears a text answer.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseClientID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(s *session) error {
				value, err := answerValue(s, id, args[1], args[2])
				if err != nil {
					return err
				}
				if _, err := s.board.SetResponse(cmd.Context(), id, args[1], value); err != nil {
					return fmt.Errorf("failed to save answer: %w", err)
				}
				c, err := s.board.Client(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d%% (%s)\n", c.Name, s.board.Progress(c), c.Status.Label())
				return nil
			})
		},
	}
}

// answerValue converts a command line answer to the Go type the item
// expects.
func answerValue(s *session, clientID int64, itemID, raw string) (any, error) {
	c, err := s.board.Client(clientID)
	if err != nil {
		return nil, err
	}
	t, ok := s.board.Template(c.Template)
	if !ok {
		return nil, &model.NotFoundError{Kind: "template", ID: c.Template}
	}
	item, ok := t.Item(itemID)
	if !ok {
		return nil, &model.NotFoundError{Kind: "template item", ID: itemID}
	}
	if item.Type != model.ItemCheckbox {
		return raw, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: checkbox answers are true or false", model.ErrInvalidResponse)
	}
	return b, nil
}

func newClientDuplicateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <client-id>",
		Short: "Copy a client into a fresh To Do card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseClientID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(s *session) error {
				c, err := s.board.DuplicateClient(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("failed to duplicate client: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d)\n", c.Name, c.ID)
				return nil
			})
		},
	}
}

func newClientDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <client-id>",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseClientID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(s *session) error {
				if err := s.board.DeleteClient(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to delete client: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted client %d\n", id)
				return nil
			})
		},
	}
}
