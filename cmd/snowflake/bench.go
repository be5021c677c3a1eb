package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBenchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bench",
		Aliases: []string{"benchmark", "b"},
		Short:   "Measure generation throughput with concurrent callers",
		Example: `  snowflake bench --duration 5s
  snowflake bench --workers 8 --duration 10s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, _ := cmd.Flags().GetDuration("duration")
			workers, _ := cmd.Flags().GetInt("workers")
			if duration <= 0 {
				return fmt.Errorf("invalid --duration %v: must be positive", duration)
			}
			if workers < 1 {
				return fmt.Errorf("invalid --workers %d: must be at least 1", workers)
			}

			m, err := a.manager()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), duration)
			defer cancel()

			var generated atomic.Int64
			g, ctx := errgroup.WithContext(ctx)
			start := time.Now()
			for i := 0; i < workers; i++ {
				g.Go(func() error {
					for ctx.Err() == nil {
						if _, err := m.GenerateID(); err != nil {
							return err
						}
						generated.Add(1)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				a.logger.Error().Err(err).Msg("benchmark aborted")
				return err
			}
			elapsed := time.Since(start)

			count := generated.Load()
			metrics := m.Metrics()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running benchmark (duration: %v, callers: %d, worker: %d)\n\n", duration, workers, m.WorkerID())
			fmt.Fprintf(out, "   Generated:         %d IDs\n", count)
			fmt.Fprintf(out, "   Duration:          %v\n", elapsed.Round(time.Millisecond))
			if count > 0 {
				fmt.Fprintf(out, "   Rate:              %.0f IDs/sec (%.0f ns/op)\n",
					float64(count)/elapsed.Seconds(), float64(elapsed.Nanoseconds())/float64(count))
			}
			fmt.Fprintf(out, "   Sequence waits:    %d\n", metrics.SequenceOverflow)
			fmt.Fprintf(out, "   Clock rollbacks:   %d (%d failed)\n", metrics.ClockBackward, metrics.ClockBackwardErr)
			fmt.Fprintf(out, "   Time waiting:      %v\n", time.Duration(metrics.WaitTimeUs)*time.Microsecond)
			return nil
		},
	}
	cmd.Flags().Duration("duration", 3*time.Second, "Benchmark duration")
	cmd.Flags().Int("workers", 4, "Number of concurrent callers")
	return cmd
}
