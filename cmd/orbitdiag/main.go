// Command orbitdiag is a diagnostic CLI for inspecting element sets and
// solver output without running the service.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/orbitcast/orbitcast/internal/propagation"
	"github.com/orbitcast/orbitcast/internal/state"
	"github.com/orbitcast/orbitcast/internal/tle"
	"github.com/orbitcast/orbitcast/internal/transform"
)

var (
	tlePath string
	tleURL  string
	atFlag  string
)

func main() {
	root := &cobra.Command{
		Use:           "orbitdiag",
		Short:         "Inspect orbital element sets and solver output",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&tlePath, "tle", "", "path to a TLE file")
	root.PersistentFlags().StringVar(&tleURL, "url", tle.DefaultSourceURL, "element source URL (used when --tle is not set)")
	root.PersistentFlags().StringVar(&atFlag, "at", "", "instant to evaluate, RFC 3339 (default: now)")

	root.AddCommand(positionCmd(), trailCmd(), gmstCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "orbitdiag:", err)
		os.Exit(1)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func loadElements() (*tle.ElementSet, error) {
	if tlePath != "" {
		data, err := os.ReadFile(tlePath)
		if err != nil {
			return nil, fmt.Errorf("reading TLE file: %w", err)
		}
		return tle.Parse(string(data))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(tleURL)
	if err != nil {
		return nil, fmt.Errorf("fetching elements: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching elements: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading elements: %w", err)
	}
	return tle.Parse(string(data))
}

func instant() (time.Time, error) {
	if atFlag == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, atFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --at: %w", err)
	}
	return t.UTC(), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func positionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "position",
		Short: "Print the full state vector for an instant",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadElements()
			if err != nil {
				return err
			}
			at, err := instant()
			if err != nil {
				return err
			}
			composer := state.NewComposer(propagation.NewSolver(quietLogger()), quietLogger())
			fs, err := composer.ComputeState(set, at)
			if err != nil {
				return err
			}
			return printJSON(fs)
		},
	}
}

func trailCmd() *cobra.Command {
	var past, future, step int
	cmd := &cobra.Command{
		Use:   "trail",
		Short: "Print ground-track samples around an instant",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadElements()
			if err != nil {
				return err
			}
			at, err := instant()
			if err != nil {
				return err
			}
			composer := state.NewComposer(propagation.NewSolver(quietLogger()), quietLogger())
			trail := composer.ComputeTrail(set, at, state.TrailWindow{
				Past:   time.Duration(past) * time.Second,
				Future: time.Duration(future) * time.Second,
				Step:   time.Duration(step) * time.Second,
			})
			return printJSON(trail)
		},
	}
	cmd.Flags().IntVar(&past, "past", 1800, "seconds of past track")
	cmd.Flags().IntVar(&future, "future", 1800, "seconds of future track")
	cmd.Flags().IntVar(&step, "step", 30, "seconds between samples")
	return cmd
}

func gmstCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gmst",
		Short: "Print the Julian date and sidereal angle for an instant",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := instant()
			if err != nil {
				return err
			}
			gmst := transform.GMST(at)
			return printJSON(map[string]any{
				"timestamp":   at,
				"julian_date": transform.JulianDate(at),
				"gmst_rad":    gmst,
				"gmst_deg":    gmst * 180 / math.Pi,
			})
		},
	}
}
