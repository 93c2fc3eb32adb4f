// treegen is a CLI utility for producing and inspecting GeoJSON catalogs
// for the shadowcast viewer's synthetic data source.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/urbancanopy/shadowcast/internal/treedata"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "generate", "gen":
		cmdGenerate(args)
	case "info":
		cmdInfo(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`treegen - synthetic tree/building catalog utility

Usage:
  treegen <command> [options]

Commands:
  generate [options]       Generate a synthetic catalog
  info <catalog.geojson>   Show catalog record counts

Generate options:
  -lon     center longitude (default 13.4050)
  -lat     center latitude (default 52.5200)
  -radius  generation radius in meters (default 1500)
  -out     output file (default catalog.geojson)`)
}

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	lon := fs.Float64("lon", 13.4050, "center longitude")
	lat := fs.Float64("lat", 52.5200, "center latitude")
	radius := fs.Float64("radius", 1500, "generation radius in meters")
	out := fs.String("out", "catalog.geojson", "output file")
	fs.Parse(args)

	trees, buildings := treedata.GenerateSynthetic(*lon, *lat, *radius)

	data, err := treedata.EncodeCatalog(trees, buildings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding catalog: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s: %d trees, %d buildings\n", *out, len(trees), len(buildings))
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: treegen info <catalog.geojson>")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", args[0], err)
		os.Exit(1)
	}

	trees, buildings, err := treedata.DecodeCatalog(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %s: %v\n", args[0], err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", args[0])
	fmt.Printf("  trees:     %d\n", len(trees))
	fmt.Printf("  buildings: %d\n", len(buildings))

	invalidTrees := 0
	for _, t := range trees {
		if !t.Valid() {
			invalidTrees++
		}
	}
	invalidBuildings := 0
	for _, b := range buildings {
		if !b.Valid() {
			invalidBuildings++
		}
	}
	if invalidTrees > 0 || invalidBuildings > 0 {
		fmt.Printf("  invalid:   %d trees, %d buildings\n", invalidTrees, invalidBuildings)
	}
}
