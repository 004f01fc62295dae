package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"os"

	"github.com/taylordotfish/plumage/cmd/plumage/wizard"
	"github.com/taylordotfish/plumage/internal/generate"
	"github.com/taylordotfish/plumage/internal/params"
)

// version is set at build time via -ldflags
var version = "dev"

// defaultParamsFile is read automatically when present, so a directory can
// carry its own parameter set without any flags.
const defaultParamsFile = "params.yaml"

func main() {
	// Check for wizard subcommand (before flag.Parse)
	if len(os.Args) > 1 && os.Args[1] == "wizard" {
		if err := wizard.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Define command-line flags
	width := flag.Int("width", 0, fmt.Sprintf("Image width in pixels (default: %d)", params.DefaultWidth))
	height := flag.Int("height", 0, fmt.Sprintf("Image height in pixels (default: %d)", params.DefaultHeight))
	spread := flag.String("spread", "", fmt.Sprintf("Neighbor window as shape:size, e.g. 'square:5' or 'quarter-circle:4' (default: %s)", params.DefaultSpread))
	distancePower := flag.Float64("distance-power", 0, fmt.Sprintf("Exponent applied to neighbor distance when weighting (default: %v)", params.DefaultDistancePower))
	randomPower := flag.Float64("random-power", 0, fmt.Sprintf("Exponent shaping the jitter magnitude distribution (default: %v)", params.DefaultRandomPower))
	randomMax := flag.Float64("random-max", 0, fmt.Sprintf("Maximum per-channel jitter (default: %v)", params.DefaultRandomMax))
	gamma := flag.Float64("gamma", 0, fmt.Sprintf("Gamma correction exponent (default: %v)", params.DefaultGamma))
	startColor := flag.String("start-color", "", "Seed pixel color: '#rrggbb' or 'random' (default: random)")
	seed := flag.String("seed", "", "Seed as 64 hex characters (random if not specified)")
	output := flag.String("output", "plumage.bmp", "Output image path")
	paramsFile := flag.String("params", "", fmt.Sprintf("Load parameters from YAML file (default: ./%s if present)", defaultParamsFile))
	saveParams := flag.String("save-params", "", "Save the fully resolved parameters to a YAML file (after generation)")

	interactive := flag.Bool("interactive", false, "Launch interactive wizard")
	flag.BoolVar(interactive, "i", false, "Launch interactive wizard (shortcut)")
	quiet := flag.Bool("quiet", false, "Suppress progress output")

	help := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	// Handle interactive mode
	if *interactive {
		if err := wizard.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Show version
	if *showVersion {
		fmt.Printf("plumage %s\n", version)
		os.Exit(0)
	}

	// Show help
	if *help {
		printHelp()
		os.Exit(0)
	}

	// Load parameter file: explicit path, or ./params.yaml when present
	var cfg params.Config
	path := *paramsFile
	if path == "" {
		if _, err := os.Stat(defaultParamsFile); err == nil {
			path = defaultParamsFile
		}
	}
	if path != "" {
		loaded, err := params.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
		if !*quiet {
			fmt.Printf("Loaded parameters from %s\n", path)
		}
	}

	// Apply only the flags the user actually set on top of the file
	// config; zero is meaningful for several parameters, so presence is
	// tracked rather than compared against defaults.
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		if flagErr != nil {
			return
		}
		switch f.Name {
		case "width":
			if cfg.Dimensions == nil {
				cfg.Dimensions = &params.DimensionsConfig{Height: params.DefaultHeight}
			}
			cfg.Dimensions.Width = *width
		case "height":
			if cfg.Dimensions == nil {
				cfg.Dimensions = &params.DimensionsConfig{Width: params.DefaultWidth}
			}
			cfg.Dimensions.Height = *height
		case "spread":
			parsed, err := params.ParseSpread(*spread)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Spread = &params.SpreadConfig{Shape: string(parsed.Shape), Size: parsed.Size}
		case "distance-power":
			cfg.DistancePower = distancePower
		case "random-power":
			cfg.RandomPower = randomPower
		case "random-max":
			cfg.RandomMax = randomMax
		case "gamma":
			cfg.Gamma = gamma
		case "start-color":
			color, err := params.ParseStartColor(*startColor)
			if err != nil {
				flagErr = err
				return
			}
			cfg.StartColor = color
		case "seed":
			cfg.Seed = *seed
		}
	})
	if flagErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", flagErr)
		printUsage()
		os.Exit(1)
	}

	// Resolve defaults; missing seed and start color come from crypto/rand
	resolved, err := cfg.Resolve(rand.Reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		fmt.Println("plumage")
		fmt.Println("=======")
		fmt.Printf("Resolution: %dx%d pixels\n", resolved.Dimensions.Width, resolved.Dimensions.Height)
		fmt.Printf("Spread: %s\n", resolved.Spread)
		fmt.Printf("Using seed: %s\n", resolved.Seed)
		fmt.Println("  (same seed + same parameters = identical image)")
	}

	// Generate the image
	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not create output file: %v\n", err)
		os.Exit(1)
	}
	if err := generate.New(resolved).Generate(f); err != nil {
		_ = f.Close()
		fmt.Fprintf(os.Stderr, "Error generating image: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not finish output file: %v\n", err)
		os.Exit(1)
	}

	// Save resolved params if requested
	if *saveParams != "" {
		if err := params.Save(resolved, *saveParams); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save params: %v\n", err)
		} else if !*quiet {
			fmt.Printf("Parameters saved to %s\n", *saveParams)
		}
	}

	if !*quiet {
		fmt.Println("\n✓ Generation complete!")
		fmt.Printf("  Image: %s\n", *output)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  plumage [options]")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

func printHelp() {
	fmt.Println("plumage")
	fmt.Println("=======")
	fmt.Println()
	fmt.Println("Generate a procedural image by diffusing color outward from a seed pixel.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  plumage [options]")
	fmt.Println("  plumage wizard")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Printf("  --width <N>            Image width in pixels (default: %d)\n", params.DefaultWidth)
	fmt.Printf("  --height <N>           Image height in pixels (default: %d)\n", params.DefaultHeight)
	fmt.Printf("  --spread <SHAPE:SIZE>  Neighbor window, 'square:5' or 'quarter-circle:4' (default: %s)\n", params.DefaultSpread)
	fmt.Printf("  --distance-power <F>   Neighbor weighting exponent (default: %v)\n", params.DefaultDistancePower)
	fmt.Printf("  --random-power <F>     Jitter magnitude exponent (default: %v)\n", params.DefaultRandomPower)
	fmt.Printf("  --random-max <F>       Maximum per-channel jitter, 0 disables jitter (default: %v)\n", params.DefaultRandomMax)
	fmt.Printf("  --gamma <F>            Gamma correction exponent (default: %v)\n", params.DefaultGamma)
	fmt.Println("  --start-color <C>      Seed pixel color: '#rrggbb' or 'random' (default: random)")
	fmt.Println("  --seed <HEX>           64 hex characters (random if not specified)")
	fmt.Println("  --output <PATH>        Output image path (default: 'plumage.bmp')")
	fmt.Printf("  --params <PATH>        Load parameters from YAML file (default: ./%s if present)\n", defaultParamsFile)
	fmt.Println("  --save-params <PATH>   Save the fully resolved parameters after generation")
	fmt.Println("  -i, --interactive      Launch interactive wizard")
	fmt.Println("  --quiet                Suppress progress output")
	fmt.Println("  --help                 Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Generate with all defaults (4K image, random seed and start color)")
	fmt.Println("  plumage --output art.bmp")
	fmt.Println()
	fmt.Println("  # Smaller image with a tighter, rounder spread")
	fmt.Println("  plumage --width 800 --height 600 --spread quarter-circle:3 --output art.bmp")
	fmt.Println()
	fmt.Println("  # Reproduce a previous run exactly")
	fmt.Println("  plumage --params art.params.yaml --output art.bmp")
	fmt.Println()
	fmt.Println("  # Keep the resolved parameters for later reproduction")
	fmt.Println("  plumage --output art.bmp --save-params art.params.yaml")
	fmt.Println()
	fmt.Println("Reproducibility:")
	fmt.Println("  The same seed with the same parameters produces a byte-identical image.")
	fmt.Println("  Auto-generated seeds are printed and can be saved with --save-params.")
}
