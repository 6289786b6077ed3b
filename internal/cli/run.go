package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/patchbay/internal/engine"
	"github.com/roach88/patchbay/internal/settings"
)

// NewRunCommand creates the run command: load a project, wire it to the
// logging backend, and trace it for a while so its note and parameter
// traffic is visible.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	var (
		file         string
		url          string
		duration     time.Duration
		interval     time.Duration
		settingsFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a project against the logging backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := readProject(cmd, file, url)
			if err != nil {
				return err
			}

			// The flag wins; otherwise the persisted tick interval applies.
			if !cmd.Flags().Changed("interval") {
				if s, err := settings.NewService(settingsFile).Load(); err == nil && s.TickIntervalMS > 0 {
					interval = time.Duration(s.TickIntervalMS) * time.Millisecond
				}
			}

			log := slog.Default()
			nodes, edges, err := BuildGraph(project, log)
			if err != nil {
				return err
			}

			tracer := engine.NewTracer(engine.WithTracerLogger(log))
			mutator := engine.NewMutator(
				engine.WithMutatorLogger(log),
				engine.WithFinalConnectHook(func() {
					log.Info("final output connected, playback eligible")
				}),
			)
			player := engine.NewPlayer(tracer, mutator,
				engine.WithPlayerLogger(log),
				engine.WithTickInterval(interval),
			)

			fired := player.Apply(nodes, edges)
			log.Info("graph applied", "nodes", len(nodes), "edges", len(edges), "notifications", len(fired))
			player.Play()

			ctx, cancel := context.WithTimeout(cmd.Context(), duration)
			defer cancel()
			if err := player.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "done")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "project file to run")
	cmd.Flags().StringVarP(&url, "url", "u", "", "URL fragment to run")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 2*time.Second, "how long to run")
	cmd.Flags().DurationVarP(&interval, "interval", "i", engine.DefaultTickInterval, "trace interval")
	cmd.Flags().StringVar(&settingsFile, "settings-file", "patchbay.yaml", "settings file path")
	cmd.MarkFlagsOneRequired("file", "url")
	cmd.MarkFlagsMutuallyExclusive("file", "url")

	return cmd
}
