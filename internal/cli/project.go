package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/patchbay/internal/store"
)

// NewProjectCommand creates the project command group for the local
// project database.
func NewProjectCommand(opts *RootOptions) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage the local project database",
	}
	cmd.PersistentFlags().StringVar(&db, "db", "patchbay.db", "project database path")

	cmd.AddCommand(newProjectSaveCommand(&db))
	cmd.AddCommand(newProjectLoadCommand(&db))
	cmd.AddCommand(newProjectListCommand(&db))
	cmd.AddCommand(newProjectDeleteCommand(&db))

	return cmd
}

func newProjectSaveCommand(db *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a project file under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read project file: %w", err)
			}

			s, err := store.Open(*db)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.Save(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %q (%s)\n", args[0], id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "project file to save")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newProjectLoadCommand(db *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Load a saved project to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(*db)
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := s.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write project file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file path")
	cmd.MarkFlagRequired("out")
	return cmd
}

func newProjectListCommand(db *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(*db)
			if err != nil {
				return err
			}
			defer s.Close()

			infos, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no saved projects")
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
					info.UpdatedAt.Format("2006-01-02 15:04:05"), info.Name)
			}
			return nil
		},
	}
}

func newProjectDeleteCommand(db *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(*db)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
			return nil
		},
	}
}
