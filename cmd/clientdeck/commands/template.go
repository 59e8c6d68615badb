package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/clientdeck/internal/model"
)

func newTemplateCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage checklist templates",
	}

	cmd.AddCommand(newTemplateListCmd(flags))
	cmd.AddCommand(newTemplateAddCmd(flags))
	cmd.AddCommand(newTemplateDeleteCmd(flags))
	return cmd
}

func newTemplateListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List templates with their client counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				t := table.New().Headers("ID", "NAME", "ITEMS", "REQUIRED", "CLIENTS", "BUILT-IN")
				for _, u := range s.board.TemplateUsage() {
					t.Row(
						u.Template.ID,
						u.Template.Name,
						strconv.Itoa(len(u.Template.Items)),
						strconv.Itoa(len(u.Template.RequiredItems())),
						strconv.Itoa(u.Clients),
						yesNo(u.Template.IsDefault),
					)
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			})
		},
	}
}

// templateFile is the YAML shape accepted by "template add".
type templateFile struct {
	Name  string               `yaml:"name"`
	Items []model.TemplateItem `yaml:"items"`
}

// readTemplateFile parses a YAML template definition.
func readTemplateFile(path string) (templateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return templateFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var tf templateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return templateFile{}, fmt.Errorf("%w: parsing %s: %w", model.ErrMalformedInput, path, err)
	}
	return tf, nil
}

func newTemplateAddCmd(flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add -f template.yaml",
		Short: "Create a template from a YAML definition",
		Long: `Create a template from a YAML definition such as:

  name: Onboarding
  items:
    - text: Contract signed?
      type: checkbox
      required: true
    - text: Plan
      type: select
      options: [basic, pro]
    - type: observations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := readTemplateFile(file)
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(s *session) error {
				t, err := s.board.CreateTemplate(cmd.Context(), tf.Name, tf.Items)
				if err != nil {
					return fmt.Errorf("failed to create template: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created template %s (%s)\n", t.Name, t.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML template definition")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTemplateDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <template-id>",
		Short: "Delete an unused custom template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				if err := s.board.DeleteTemplate(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("failed to delete template: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", args[0])
				return nil
			})
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
