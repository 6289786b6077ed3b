package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/patchbay/internal/codec"
)

// NewValidateCommand creates the validate command: decode a project and
// check its envelope against the schema.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	var (
		file string
		url  string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a project envelope against the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := readProject(cmd, file, url)
			if err != nil {
				return err
			}
			if err := codec.ValidateProject(project); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: version %d, %d nodes, %d edges\n",
				project.Version, len(project.Nodes), len(project.Edges))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "project file to validate")
	cmd.Flags().StringVarP(&url, "url", "u", "", "URL fragment to validate")
	cmd.MarkFlagsOneRequired("file", "url")
	cmd.MarkFlagsMutuallyExclusive("file", "url")

	return cmd
}
