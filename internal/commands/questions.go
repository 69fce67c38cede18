package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewQuestionsCmd lists the canned questions of the assistant profile
func NewQuestionsCmd(deps *Dependencies) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the common questions",
		Long: `List the common questions offered by the assistant.

Any of them can be asked directly, for example:
  wedeliver "$(wedeliver questions -n 3)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, err := deps.LoadAssistant()
			if err != nil {
				return err
			}

			n, _ := cmd.Flags().GetInt("number")
			if n != 0 {
				if n < 1 || n > len(assistant.Questions) {
					return fmt.Errorf("question number must be between 1 and %d", len(assistant.Questions))
				}
				fmt.Fprintln(deps.Stdout, assistant.Questions[n-1])
				return nil
			}

			if asYAML {
				enc := yaml.NewEncoder(deps.Stdout)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(map[string][]string{"questions": assistant.Questions})
			}

			fmt.Fprintln(deps.Stdout, assistant.QuestionsHeading)
			for i, q := range assistant.Questions {
				fmt.Fprintf(deps.Stdout, "%2d. %s\n", i+1, q)
			}
			return nil
		},
	}

	cmd.Flags().IntP("number", "n", 0, "Print only the question with this number")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the questions as YAML")

	return cmd
}
