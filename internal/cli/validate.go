package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <input.msl>",
		Short: "Parse and validate an MSL schema without generating code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d type(s) OK\n", args[0], len(doc.Types))
			for _, t := range doc.Types {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s (%d fields)\n", t.Name, len(t.Fields))
			}
			return nil
		},
	}
}
