package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/patchbay/internal/settings"
)

// NewSettingsCommand creates the settings command group for host
// preferences (volume, onboarding, tick interval).
func NewSettingsCommand(opts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change host settings",
	}
	cmd.PersistentFlags().StringVar(&path, "settings-file", "patchbay.yaml", "settings file path")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.NewService(path).Load()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "volume: %.2f\nonboarding_complete: %v\ntick_interval_ms: %d\n",
				s.Volume, s.OnboardingComplete, s.TickIntervalMS)
			return nil
		},
	}

	var volume float64
	setVolume := &cobra.Command{
		Use:   "volume <0..1>",
		Short: "Set the master volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := fmt.Sscanf(args[0], "%f", &volume); err != nil {
				return fmt.Errorf("parse volume: %w", err)
			}
			if volume < 0 || volume > 1 {
				return fmt.Errorf("volume must be in [0,1], got %v", volume)
			}
			updated, err := settings.NewService(path).Update(func(s *settings.Settings) {
				s.Volume = volume
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "volume: %.2f\n", updated.Volume)
			return nil
		},
	}

	onboarded := &cobra.Command{
		Use:   "onboarded",
		Short: "Mark onboarding as complete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := settings.NewService(path).Update(func(s *settings.Settings) {
				s.OnboardingComplete = true
			})
			return err
		},
	}

	cmd.AddCommand(show, setVolume, onboarded)
	return cmd
}
