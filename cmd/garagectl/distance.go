package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/pkg/geospatial"
)

var (
	distFrom string
	distTo   string
	distUnit string
)

var distanceCmd = &cobra.Command{
	Use:   "distance",
	Short: "Great-circle distance between two points",
	Example: `  garagectl distance --from 51.5074,-0.1278 --to 48.8566,2.3522
  garagectl distance --from 43.263,-2.935 --to 40.4168,-3.7038 --unit mi`,
	Args: cobra.NoArgs,
	RunE: runDistance,
}

func init() {
	distanceCmd.Flags().StringVar(&distFrom, "from", "", "origin as lat,lon")
	distanceCmd.Flags().StringVar(&distTo, "to", "", "destination as lat,lon")
	distanceCmd.Flags().StringVar(&distUnit, "unit", "km", "km or mi")
	_ = distanceCmd.MarkFlagRequired("from")
	_ = distanceCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(distanceCmd)
}

func runDistance(cmd *cobra.Command, args []string) error {
	from, err := parsePoint(distFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parsePoint(distTo)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	unit, err := geospatial.ParseUnit(distUnit)
	if err != nil {
		return err
	}

	d := geospatial.Distance(from.Latitude, from.Longitude, to.Latitude, to.Longitude, unit)
	fmt.Fprintf(cmd.OutOrStdout(), "%.2f %s\n", geospatial.Round(d, 2), unit)
	return nil
}

// parsePoint reads "lat,lon".
func parsePoint(s string) (domain.GeoPoint, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.GeoPoint{}, fmt.Errorf("expected lat,lon, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("latitude %q: %w", latStr, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("longitude %q: %w", lonStr, err)
	}
	p := domain.GeoPoint{Latitude: lat, Longitude: lon}
	return p, p.Validate()
}
