package cli

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewConvertCommand creates the convert command: translate a project
// between its binary file form and its URL-safe fragment form.
func NewConvertCommand(opts *RootOptions) *cobra.Command {
	var (
		file string
		url  string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a project between file and URL fragment forms",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read project file: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), base64.RawURLEncoding.EncodeToString(data))
				return nil
			}

			data, err := base64.RawURLEncoding.DecodeString(url)
			if err != nil {
				return fmt.Errorf("decode url fragment: %w", err)
			}
			if out == "" {
				return fmt.Errorf("--out is required when converting from a URL fragment")
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write project file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "project file to convert to a URL fragment")
	cmd.Flags().StringVarP(&url, "url", "u", "", "URL fragment to convert to a file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file path (with --url)")
	cmd.MarkFlagsOneRequired("file", "url")
	cmd.MarkFlagsMutuallyExclusive("file", "url")

	return cmd
}
