package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/pogodynka/internal/adapter/weatherapi"
	"github.com/couchcryptid/pogodynka/internal/config"
	"github.com/couchcryptid/pogodynka/internal/domain"
	"github.com/couchcryptid/pogodynka/internal/observability"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pogoda",
		Short:        "Show current weather for a city",
		Long:         "Fetches current conditions from weatherapi.com for the given city and country.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runLookup,
	}

	cmd.Flags().String("city", "", "city name, e.g. Warszawa")
	cmd.Flags().String("country", "", "country name, e.g. Polska")
	cmd.Flags().Bool("json", false, "print the snapshot as JSON")
	cmd.Flags().String("env-file", ".env", "dotenv file to load before reading the environment")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("country")

	cmd.AddCommand(newLocationsCmd())

	return cmd
}

func newLocationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the locations offered by the web form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, c := range domain.DefaultLocations {
				if _, err := fmt.Fprintf(out, "%s: %s\n", c.Name, strings.Join(c.Cities, ", ")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// lookupResult is the --json output.
type lookupResult struct {
	City     string          `json:"city"`
	Country  string          `json:"country"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

func runLookup(cmd *cobra.Command, _ []string) error {
	city, _ := cmd.Flags().GetString("city")
	country, _ := cmd.Flags().GetString("country")
	asJSON, _ := cmd.Flags().GetBool("json")
	envFile, _ := cmd.Flags().GetString("env-file")

	if err := config.LoadDotEnv(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelError}))
	client := weatherapi.NewClient(cfg, observability.NewMetricsWith(prometheus.NewRegistry()), logger)

	snap, err := client.FetchWeather(cmd.Context(), city, country)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(lookupResult{City: city, Country: country, Snapshot: snap})
	}
	return printReadings(out, city, country, snap)
}

func printReadings(w io.Writer, city, country string, snap domain.Snapshot) error {
	if _, err := fmt.Fprintf(w, "Pogoda: %s, %s\n", city, country); err != nil {
		return err
	}
	for _, r := range snap.Readings() {
		if _, err := fmt.Fprintf(w, "  %-12s %s\n", r.Label+":", r.Value); err != nil {
			return err
		}
	}
	return nil
}
