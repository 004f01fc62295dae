// Package wizard provides an interactive form for configuring a
// generation run without memorizing flags.
package wizard

import (
	"crypto/rand"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/taylordotfish/plumage/internal/generate"
	"github.com/taylordotfish/plumage/internal/params"
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("63")).
	MarginBottom(1)

// answers holds the raw form input. huh binds to strings; conversion and
// validation happen when the form is submitted.
type answers struct {
	width         string
	height        string
	spreadShape   string
	spreadSize    string
	distancePower string
	randomPower   string
	randomMax     string
	gamma         string
	startColor    string
	seed          string
	output        string
	saveParams    bool
}

// Run walks the user through one generation: collect parameters, resolve
// defaults, generate the image, optionally save the resolved parameters.
func Run() error {
	a := answers{
		width:         strconv.Itoa(params.DefaultWidth),
		height:        strconv.Itoa(params.DefaultHeight),
		spreadShape:   string(params.ShapeSquare),
		spreadSize:    strconv.Itoa(params.DefaultSpreadSize),
		distancePower: formatFloat(params.DefaultDistancePower),
		randomPower:   formatFloat(params.DefaultRandomPower),
		randomMax:     formatFloat(params.DefaultRandomMax),
		gamma:         formatFloat(params.DefaultGamma),
		startColor:    "random",
		output:        "plumage.bmp",
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("width").
				Title("Image Width").
				Value(&a.width).
				Validate(validatePositiveInt),

			huh.NewInput().
				Key("height").
				Title("Image Height").
				Value(&a.height).
				Validate(validatePositiveInt),

			huh.NewSelect[string]().
				Key("spread_shape").
				Title("Spread Shape").
				Options(
					huh.NewOption("Square window", string(params.ShapeSquare)),
					huh.NewOption("Quarter circle (rounder blends)", string(params.ShapeQuarterCircle)),
				).
				Value(&a.spreadShape),

			huh.NewInput().
				Key("spread_size").
				Title("Spread Size").
				Description("How far the color diffusion looks back (1 or more)").
				Value(&a.spreadSize).
				Validate(validatePositiveInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("distance_power").
				Title("Distance Power").
				Description("Negative values weigh near neighbors more heavily").
				Value(&a.distancePower).
				Validate(validateFloat),

			huh.NewInput().
				Key("random_power").
				Title("Random Power").
				Value(&a.randomPower).
				Validate(validateFloat),

			huh.NewInput().
				Key("random_max").
				Title("Random Max").
				Description("Maximum per-channel jitter; 0 disables jitter").
				Value(&a.randomMax).
				Validate(validateNonNegativeFloat),

			huh.NewInput().
				Key("gamma").
				Title("Gamma").
				Value(&a.gamma).
				Validate(validatePositiveFloat),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("start_color").
				Title("Start Color").
				Placeholder("#rrggbb or random").
				Value(&a.startColor).
				Validate(validateColor),

			huh.NewInput().
				Key("seed").
				Title("Seed").
				Description("64 hex characters; leave empty for a random seed").
				Value(&a.seed).
				Validate(validateSeed),

			huh.NewInput().
				Key("output").
				Title("Output File").
				Value(&a.output).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("output file is required")
					}
					return nil
				}),

			huh.NewConfirm().
				Key("save_params").
				Title("Save resolved parameters next to the image?").
				Value(&a.saveParams),
		),
	)

	fmt.Println(titleStyle.Render("plumage — image generation wizard"))
	if err := form.Run(); err != nil {
		return err
	}

	cfg, err := a.toConfig()
	if err != nil {
		return err
	}
	resolved, err := cfg.Resolve(rand.Reader)
	if err != nil {
		return err
	}

	fmt.Printf("Using seed: %s\n", resolved.Seed)

	f, err := os.Create(a.output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := generate.New(resolved).Generate(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("generate image: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("finish output file: %w", err)
	}

	if a.saveParams {
		paramsPath := strings.TrimSuffix(a.output, ".bmp") + ".params.yaml"
		if err := params.Save(resolved, paramsPath); err != nil {
			return fmt.Errorf("save params: %w", err)
		}
		fmt.Printf("Parameters saved to %s\n", paramsPath)
	}

	fmt.Printf("\n✓ Image written to %s\n", a.output)
	return nil
}

// toConfig converts validated form input into a parameter file config.
func (a answers) toConfig() (params.Config, error) {
	var cfg params.Config

	width, err := strconv.Atoi(strings.TrimSpace(a.width))
	if err != nil {
		return cfg, fmt.Errorf("invalid width: %w", err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(a.height))
	if err != nil {
		return cfg, fmt.Errorf("invalid height: %w", err)
	}
	cfg.Dimensions = &params.DimensionsConfig{Width: width, Height: height}

	size, err := strconv.Atoi(strings.TrimSpace(a.spreadSize))
	if err != nil {
		return cfg, fmt.Errorf("invalid spread size: %w", err)
	}
	cfg.Spread = &params.SpreadConfig{Shape: a.spreadShape, Size: size}

	assign := func(dst **float64, value, name string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = &v
		return nil
	}
	if err := assign(&cfg.DistancePower, a.distancePower, "distance power"); err != nil {
		return cfg, err
	}
	if err := assign(&cfg.RandomPower, a.randomPower, "random power"); err != nil {
		return cfg, err
	}
	if err := assign(&cfg.RandomMax, a.randomMax, "random max"); err != nil {
		return cfg, err
	}
	if err := assign(&cfg.Gamma, a.gamma, "gamma"); err != nil {
		return cfg, err
	}

	color, err := params.ParseStartColor(a.startColor)
	if err != nil {
		return cfg, err
	}
	cfg.StartColor = color
	cfg.Seed = strings.TrimSpace(a.seed)

	return cfg, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}

func validateFloat(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func validateNonNegativeFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v < 0 {
		return fmt.Errorf("must be 0 or greater")
	}
	return nil
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v <= 0 {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}

func validateColor(s string) error {
	_, err := params.ParseStartColor(s)
	return err
}

func validateSeed(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := params.ParseSeed(s)
	return err
}
