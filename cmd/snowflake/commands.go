package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clamberhq/snowflake"
)

// ============================================================================
// generate
// ============================================================================

// generatedID is the JSON shape printed by generate --json.
type generatedID struct {
	snowflake.ParsedID
	Time   string `json:"time"`
	Base58 string `json:"base58"`
	Base62 string `json:"base62"`
	Hex    string `json:"hex"`
}

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen", "g"},
		Short:   "Generate Snowflake IDs",
		Example: `  snowflake generate --worker 42
  snowflake generate --count 1000 --format base62 --worker 42
  snowflake generate --json --worker 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			format, _ := cmd.Flags().GetString("format")
			asJSON, _ := cmd.Flags().GetBool("json")

			if count < 1 {
				return fmt.Errorf("invalid --count %d: must be at least 1", count)
			}
			encode, err := formatter(format)
			if err != nil {
				return err
			}

			m, err := a.manager()
			if err != nil {
				return err
			}

			start := time.Now()
			ids, err := m.GenerateIDsContext(cmd.Context(), count)
			if err != nil {
				a.logger.Error().Err(err).Int("count", count).Msg("generation failed")
				return err
			}
			a.logger.Debug().Int("count", len(ids)).Dur("elapsed", time.Since(start)).Msg("generated")

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, m.Config(), ids)
			}
			for _, id := range ids {
				fmt.Fprintln(out, encode(id))
			}
			return nil
		},
	}
	cmd.Flags().Int("count", 1, "Number of IDs to generate")
	cmd.Flags().String("format", "decimal", "Output format: decimal|hex|base58|base62")
	cmd.Flags().Bool("json", false, "Output as JSON with decoded fields")
	return cmd
}

func formatter(format string) (func(snowflake.ID) string, error) {
	switch strings.ToLower(format) {
	case "decimal", "dec", "":
		return snowflake.ID.String, nil
	case "hex", "x":
		return snowflake.ID.Hex, nil
	case "base58", "b58":
		return snowflake.ID.Base58, nil
	case "base62", "b62":
		return snowflake.ID.Base62, nil
	default:
		return nil, fmt.Errorf("invalid --format %q: use decimal|hex|base58|base62", format)
	}
}

func writeJSON(w io.Writer, cfg snowflake.Config, ids []snowflake.ID) error {
	out := make([]generatedID, len(ids))
	for i, id := range ids {
		p := snowflake.Parse(id, cfg)
		out[i] = generatedID{
			ParsedID: p,
			Time:     p.TimeString(),
			Base58:   id.Base58(),
			Base62:   id.Base62(),
			Hex:      id.Hex(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ============================================================================
// parse
// ============================================================================

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "parse <id>",
		Aliases: []string{"p"},
		Short:   "Decode an ID into its timestamp, worker and sequence",
		Long: "Decode an ID. The input is tried as decimal, then base62, base58 and hex;\n" +
			"the timestamp is computed from the configured epoch.",
		Example: `  snowflake parse 515919872 --epoch 1609459200000
  snowflake parse 7n42dgm5tfl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.snowflakeConfig()
			if err != nil {
				return err
			}
			id, err := parseFlexible(args[0])
			if err != nil {
				return err
			}

			p := snowflake.Parse(id, cfg)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Snowflake ID: %s\n\n", id)
			fmt.Fprintf(out, "Components:\n")
			fmt.Fprintf(out, "  Timestamp:  %s (%d ms since epoch)\n", p.TimeString(), p.Delta)
			fmt.Fprintf(out, "  Worker ID:  %d\n", p.WorkerID)
			fmt.Fprintf(out, "  Sequence:   %d\n\n", p.Sequence)
			fmt.Fprintf(out, "Encodings:\n")
			fmt.Fprintf(out, "  Decimal:    %s\n", id)
			fmt.Fprintf(out, "  Base62:     %s\n", id.Base62())
			fmt.Fprintf(out, "  Base58:     %s\n", id.Base58())
			fmt.Fprintf(out, "  Hex:        %s\n", id.Hex())
			return nil
		},
	}
}

// parseFlexible tries each supported encoding in turn.
func parseFlexible(s string) (snowflake.ID, error) {
	var errs []error
	for _, parse := range []func(string) (snowflake.ID, error){
		snowflake.ParseString,
		snowflake.ParseBase62,
		snowflake.ParseBase58,
		snowflake.ParseHex,
	} {
		id, err := parse(s)
		if err == nil {
			return id, nil
		}
		errs = append(errs, err)
	}
	return 0, fmt.Errorf("unable to parse ID %q: %w", s, errors.Join(errs...))
}

// ============================================================================
// validate
// ============================================================================

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "validate <id>",
		Aliases: []string{"val", "v"},
		Short:   "Check an ID could have been issued under the configured epoch",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.snowflakeConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			id, err := parseFlexible(args[0])
			if err != nil {
				fmt.Fprintf(out, "INVALID: %v\n", err)
				return err
			}
			if err := snowflake.ValidateID(id, cfg, time.Now()); err != nil {
				fmt.Fprintf(out, "INVALID: %v\n", err)
				return err
			}

			p := snowflake.Parse(id, cfg)
			fmt.Fprintf(out, "VALID: %s\n", p)
			fmt.Fprintf(out, "  Age:        %v\n", time.Since(p.Time()).Round(time.Millisecond))
			return nil
		},
	}
}

// ============================================================================
// layout / version
// ============================================================================

func newLayoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Show bit layout capacity and the configured epoch's deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.snowflakeConfig()
			if err != nil {
				return err
			}
			c := snowflake.Capacity()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Layout:      1 reserved | %d timestamp | %d worker | %d sequence bits\n",
				snowflake.TimestampBits, snowflake.WorkerIDBits, snowflake.SequenceBits)
			fmt.Fprintf(out, "Workers:     %d\n", c.MaxWorkers)
			fmt.Fprintf(out, "Per worker:  %d IDs/ms (%d IDs/sec)\n", c.IDsPerMillisecond, c.ThroughputPerWorker)
			fmt.Fprintf(out, "Total:       %d IDs/sec\n", c.TotalThroughput)
			fmt.Fprintf(out, "Epoch:       %s (%d)\n", cfg.EpochTime().Format(snowflake.TimeLayout), cfg.Epoch())
			fmt.Fprintf(out, "Deadline:    %s\n", cfg.Deadline().Format(snowflake.TimeLayout))
			fmt.Fprintf(out, "Remaining:   %v\n", time.Until(cfg.Deadline()).Round(time.Hour))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No configuration is needed to print the version.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "snowflake CLI version %s\n", version)
		},
	}
}
