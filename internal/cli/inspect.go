package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/patchbay/internal/codec"
)

// NewInspectCommand creates the inspect command: decode a project and
// print its envelope as JSON.
func NewInspectCommand(opts *RootOptions) *cobra.Command {
	var (
		file string
		url  string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Decode a project and print its envelope as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := readProject(cmd, file, url)
			if err != nil {
				return err
			}
			dump, err := codec.DumpJSON(project)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(dump))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "project file to inspect")
	cmd.Flags().StringVarP(&url, "url", "u", "", "URL fragment to inspect")
	cmd.MarkFlagsOneRequired("file", "url")
	cmd.MarkFlagsMutuallyExclusive("file", "url")

	return cmd
}

// readProject decodes a project from either a binary file or a URL
// fragment using the builtin registry.
func readProject(cmd *cobra.Command, file, url string) (*codec.Project, error) {
	reg := BuiltinRegistry()
	if url != "" {
		return codec.DecodeURL(cmd.Context(), url, reg)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	return codec.Decode(cmd.Context(), data, reg)
}
