// Command gsidem converts GSI DEM XML tiles to GeoTIFF or Terrain-RGB.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/gsi-tools/go-gsidem"
)

type convertConfig struct {
	Jobs         int      `yaml:"jobs"`
	TerrainRGB   bool     `yaml:"terrain_rgb"`
	MinElevation *float32 `yaml:"min_elevation"`
	MaxElevation *float32 `yaml:"max_elevation"`
}

var (
	outputDir    string
	configPath   string
	jobs         int
	terrainRGB   bool
	minElevation float32
	maxElevation float32
)

var rootCmd = &cobra.Command{
	Use:           "gsidem",
	Short:         "Convert GSI DEM XML tiles to GeoTIFF",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert INPUT",
	Short: "Convert an XML file, ZIP archive or directory to GeoTIFF",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print a summary of a DEM XML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	convertCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	convertCmd.Flags().StringVar(&configPath, "config", "", "YAML file with convert defaults")
	convertCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel conversions (default: number of CPUs)")
	convertCmd.Flags().BoolVar(&terrainRGB, "terrain-rgb", false, "write Terrain-RGB output")
	convertCmd.Flags().Float32Var(&minElevation, "min-elevation", 0, "minimum encoded elevation")
	convertCmd.Flags().Float32Var(&maxElevation, "max-elevation", 0, "maximum encoded elevation")
	_ = convertCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(convertCmd, infoCmd)
}

func loadConfig(cmd *cobra.Command) (*convertConfig, error) {
	config := &convertConfig{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
	}
	if cmd.Flags().Changed("jobs") {
		config.Jobs = jobs
	}
	if cmd.Flags().Changed("terrain-rgb") {
		config.TerrainRGB = terrainRGB
	}
	if cmd.Flags().Changed("min-elevation") {
		v := minElevation
		config.MinElevation = &v
	}
	if cmd.Flags().Changed("max-elevation") {
		v := maxElevation
		config.MaxElevation = &v
	}
	return config, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(args[0])
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	slog.Info("converting", "inputs", len(inputs), "output", outputDir)

	group, ctx := errgroup.WithContext(cmd.Context())
	if config.Jobs > 0 {
		group.SetLimit(config.Jobs)
	}
	for _, input := range inputs {
		input := input
		group.Go(func() error {
			var tiles []*gsidem.DemTile
			var err error
			switch strings.ToLower(filepath.Ext(input)) {
			case ".zip":
				tiles, err = gsidem.ParseZip(ctx, input)
			default:
				var tile *gsidem.DemTile
				tile, err = gsidem.ParseFileContext(ctx, input)
				tiles = []*gsidem.DemTile{tile}
			}
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			for _, tile := range tiles {
				if err := writeTile(tile, config); err != nil {
					return fmt.Errorf("%s: %w", input, err)
				}
			}
			return nil
		})
	}
	return group.Wait()
}

func writeTile(tile *gsidem.DemTile, config *convertConfig) error {
	writer := gsidem.NewGeoTIFFWriter()
	if config.TerrainRGB {
		path := filepath.Join(outputDir, tile.Metadata.MeshCode+"_terrain_rgb.tif")
		terrainRGBConfig := &gsidem.TerrainRGBConfig{
			MinElevation: config.MinElevation,
			MaxElevation: config.MaxElevation,
		}
		if err := writer.WriteTerrainRGB(tile, path, terrainRGBConfig); err != nil {
			return err
		}
		slog.Info("wrote Terrain-RGB", "path", path, "meshCode", tile.Metadata.MeshCode)
		return nil
	}
	path := filepath.Join(outputDir, tile.Metadata.MeshCode+".tif")
	if err := writer.Write(tile, path); err != nil {
		return err
	}
	slog.Info("wrote GeoTIFF", "path", path, "meshCode", tile.Metadata.MeshCode)
	return nil
}

// collectInputs expands path into the list of .xml and .zip files to convert.
func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var inputs []string
	err = filepath.WalkDir(path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xml", ".zip":
			inputs = append(inputs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	tile, err := gsidem.ParseFileContext(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	minLon, minLat, maxLon, maxLat := tile.Bounds()
	fmt.Println(tile)
	fmt.Println(tile.Metadata)
	fmt.Printf("bounds: (%g, %g) - (%g, %g)\n", minLon, minLat, maxLon, maxLat)
	fmt.Printf("samples: %d of %d cells\n", len(tile.Values), tile.Rows*tile.Cols)
	if len(tile.Values) > 0 {
		minElevation, maxElevation := gsidem.ElevationRange([]*gsidem.DemTile{tile})
		fmt.Printf("elevation range: %g - %g\n", minElevation, maxElevation)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed", "err", err)
		os.Exit(1)
	}
}
