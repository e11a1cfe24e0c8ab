package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gisconv/mapgis/internal/log"
	"github.com/gisconv/mapgis/pkg/mapgis"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mapgisconv",
	Short: "Convert MapGIS vector files to standard formats",
	Long: `mapgisconv reads MapGIS point, line and polygon files and converts
them to FlatGeobuf or GeoJSON, carrying over attributes, display
styling and the coordinate system.`,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// convert command

var convertCmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "Convert MapGIS files",
	Long: `Convert one or more MapGIS files. Each input is written next to the
original, or into --out-dir when given, with the extension of the chosen
format. Failures are reported per file; the remaining inputs still run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("out-dir", "o", "", "Output directory (default: next to each input)")
	convertCmd.Flags().String("format", "fgb", "Output format: fgb, geojson")
	convertCmd.Flags().Int("scale", 0, "Override the coordinate scale stored in the file")
	convertCmd.Flags().Int("srid", 0, "Explicit EPSG code (required for Gauss-Krüger zone files)")
	convertCmd.Flags().Bool("keep-names", false, "Keep original field names instead of ASCII ones")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	outDir, _ := cmd.Flags().GetString("out-dir")
	format, _ := cmd.Flags().GetString("format")
	scale, _ := cmd.Flags().GetInt("scale")
	srid, _ := cmd.Flags().GetInt("srid")
	keepNames, _ := cmd.Flags().GetBool("keep-names")

	var ext string
	switch format {
	case "fgb":
		ext = ".fgb"
	case "geojson":
		ext = ".geojson"
	default:
		return fmt.Errorf("unknown format %q: want fgb or geojson", format)
	}

	failed := 0
	for _, input := range args {
		start := time.Now()
		if err := convertOne(input, outDir, ext, scale, srid, keepNames); err != nil {
			log.With(logrus.Fields{"file": input}).Error(err)
			failed++
			continue
		}
		log.With(logrus.Fields{
			"file":     input,
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Info("converted")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func convertOne(input, outDir, ext string, scale, srid int, keepNames bool) error {
	r, err := mapgis.OpenWithOptions(input, mapgis.OpenOptions{
		ScaleFactor: scale,
		SRID:        srid,
	})
	if err != nil {
		return err
	}
	if r.CRS().RequiresOverride {
		log.With(logrus.Fields{"file": input}).
			Warn("file needs --srid, output will carry no coordinate system")
	}
	if r.Repaired() {
		log.With(logrus.Fields{"file": input}).
			Warn("attribute/geometry counts disagreed, table was repaired")
	}

	base := filepath.Base(input)
	out := strings.TrimSuffix(base, filepath.Ext(base)) + ext
	if outDir != "" {
		out = filepath.Join(outDir, out)
	} else {
		out = filepath.Join(filepath.Dir(input), out)
	}

	opts := mapgis.DefaultWriteOptions()
	opts.ASCIIFieldNames = !keepNames
	return r.WriteTo(out, opts)
}

// info command

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show file metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	r, err := mapgis.Open(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("File:     %s\n", args[0])
	fmt.Printf("Layer:    %s\n", r.LayerType())
	fmt.Printf("Features: %d\n", r.FeatureCount())
	fmt.Printf("Scale:    %g\n", r.Scale())
	if crs := r.CRS(); crs.IsEmpty() {
		if crs.RequiresOverride {
			fmt.Println("CRS:      (Gauss-Krüger, needs --srid)")
		} else {
			fmt.Println("CRS:      (none)")
		}
	} else {
		fmt.Printf("CRS:      %s\n", crs)
	}
	if r.Repaired() {
		fmt.Println("Repaired: yes")
	}
	b := r.Bounds()
	fmt.Printf("Bounds:   %g %g %g %g\n", b.Min[0], b.Min[1], b.Max[0], b.Max[1])
	fmt.Printf("Columns:  %s\n", strings.Join(r.Columns(), ", "))
	return nil
}

// version command

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mapgisconv %s (commit %s, built %s)\n", version, commit, date)
	},
}
