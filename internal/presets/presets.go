// Package presets bundles a small library of ready-to-run configurations as
// embedded YAML, in the same YAML-manifest idiom the teacher's
// InputParameters.Parse uses for its own model configuration, and
// materializes each one into the plaintext input file format
// internal/config parses. This is a convenience layer above the plaintext
// contract, never a replacement for it.
package presets

import (
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"
)

//go:embed data/*.yaml
var data embed.FS

// componentDoc mirrors config.ComponentSpec with JSON tags; presets are
// authored in YAML for readability and rendered to the plaintext wire
// format on save.
type componentDoc struct {
	Name                    string    `json:"name"`
	CarrierGas              bool      `json:"carrierGas"`
	Yi0                     float64   `json:"yi0"`
	MassTransferCoefficient float64   `json:"massTransferCoefficient"`
	DispersionCoefficient   float64   `json:"dispersionCoefficient"`
	IsothermModel           string    `json:"isothermModel"`
	IsothermParams          []float64 `json:"isothermParams"`
}

// doc mirrors config.RunConfig with JSON tags (ghodss/yaml decodes YAML via
// its JSON tags, matching the teacher's own InputParameters2D convention).
type doc struct {
	SimulationType string `json:"simulationType"`
	DisplayName    string `json:"displayName"`

	Temperature      float64 `json:"temperature"`
	TotalPressure    float64 `json:"totalPressure"`
	PressureGradient float64 `json:"pressureGradient"`

	ColumnVoidFraction     float64 `json:"columnVoidFraction"`
	ParticleDensity        float64 `json:"particleDensity"`
	ColumnLength           float64 `json:"columnLength"`
	ColumnEntranceVelocity float64 `json:"columnEntranceVelocity"`

	NumberOfGridPoints    int     `json:"numberOfGridPoints"`
	NumberOfTimeSteps     int     `json:"numberOfTimeSteps"`
	TimeStep              float64 `json:"timeStep"`
	AutoNumberOfTimeSteps bool    `json:"autoNumberOfTimeSteps"`

	PrintEvery int `json:"printEvery"`
	WriteEvery int `json:"writeEvery"`

	PulseBreakthrough bool    `json:"pulseBreakthrough"`
	PulseTime         float64 `json:"pulseTime"`

	Components []componentDoc `json:"components"`
}

// List returns the names of the bundled presets, sorted.
func List() ([]string, error) {
	entries, err := data.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("presets: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Save renders preset `name` to the plaintext input-file format at path,
// through fs so tests can substitute afero.NewMemMapFs().
func Save(fs afero.Fs, name, path string) error {
	raw, err := data.ReadFile("data/" + name + ".yaml")
	if err != nil {
		return fmt.Errorf("presets: unknown preset %q: %w", name, err)
	}
	var d doc
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("presets: %q: %w", name, err)
	}
	return afero.WriteFile(fs, path, []byte(render(d)), 0o644)
}

func render(d doc) string {
	var b strings.Builder
	line := func(key, value string) { fmt.Fprintf(&b, "%s %s\n", key, value) }
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	i := func(v int) string { return strconv.Itoa(v) }
	bo := func(v bool) string { return strconv.FormatBool(v) }

	line("SimulationType", d.SimulationType)
	line("DisplayName", d.DisplayName)
	line("Temperature", f(d.Temperature))
	line("TotalPressure", f(d.TotalPressure))
	line("PressureGradient", f(d.PressureGradient))
	line("ColumnVoidFraction", f(d.ColumnVoidFraction))
	line("ParticleDensity", f(d.ParticleDensity))
	line("ColumnLength", f(d.ColumnLength))
	line("ColumnEntranceVelocity", f(d.ColumnEntranceVelocity))
	line("NumberOfGridPoints", i(d.NumberOfGridPoints))
	line("NumberOfTimeSteps", i(d.NumberOfTimeSteps))
	line("TimeStep", f(d.TimeStep))
	line("AutoNumberOfTimeSteps", bo(d.AutoNumberOfTimeSteps))
	line("PrintEvery", i(d.PrintEvery))
	line("WriteEvery", i(d.WriteEvery))
	line("PulseBreakthrough", bo(d.PulseBreakthrough))
	line("PulseTime", f(d.PulseTime))

	for _, c := range d.Components {
		b.WriteString("Component\n")
		line("Name", c.Name)
		line("CarrierGas", bo(c.CarrierGas))
		line("Yi0", f(c.Yi0))
		line("MassTransferCoefficient", f(c.MassTransferCoefficient))
		line("DispersionCoefficient", f(c.DispersionCoefficient))
		line("IsothermModel", c.IsothermModel)
		params := make([]string, len(c.IsothermParams))
		for k, v := range c.IsothermParams {
			params[k] = f(v)
		}
		line("IsothermParams", strings.Join(params, " "))
	}
	return b.String()
}
