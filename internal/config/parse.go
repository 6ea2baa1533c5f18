package config

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// Load reads and parses path from fs. Using afero.Fs rather than the os
// package directly lets tests substitute afero.NewMemMapFs() instead of
// touching disk.
func Load(fs afero.Fs, path string) (*RunConfig, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg := &RunConfig{}
	var current *ComponentSpec

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		key, value, ok := splitAssignment(line)
		if !ok {
			continue
		}

		if key == "Component" {
			if current != nil {
				cfg.Components = append(cfg.Components, *current)
			}
			current = &ComponentSpec{}
			continue
		}
		if current != nil {
			if applyComponentField(current, key, value) {
				continue
			}
		}
		applyTopLevelField(cfg, key, value)
	}
	if current != nil {
		cfg.Components = append(cfg.Components, *current)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func splitAssignment(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(strings.Replace(line, "=", " ", 1))
	fields := strings.SplitN(line, " ", 2)
	if len(fields) == 0 || fields[0] == "" {
		return "", "", false
	}
	key = fields[0]
	if len(fields) == 2 {
		value = strings.TrimSpace(fields[1])
	}
	return key, value, true
}

func applyTopLevelField(cfg *RunConfig, key, value string) {
	switch key {
	case "SimulationType":
		cfg.SimulationType = value
	case "DisplayName":
		cfg.DisplayName = value
	case "Temperature":
		cfg.Temperature = cast.ToFloat64(value)
	case "TotalPressure":
		cfg.TotalPressure = cast.ToFloat64(value)
	case "PressureGradient":
		cfg.PressureGradient = cast.ToFloat64(value)
	case "ColumnVoidFraction":
		cfg.ColumnVoidFraction = cast.ToFloat64(value)
	case "ParticleDensity":
		cfg.ParticleDensity = cast.ToFloat64(value)
	case "ColumnLength":
		cfg.ColumnLength = cast.ToFloat64(value)
	case "ColumnEntranceVelocity":
		cfg.ColumnEntranceVelocity = cast.ToFloat64(value)
	case "NumberOfGridPoints":
		cfg.NumberOfGridPoints = cast.ToInt(value)
	case "NumberOfTimeSteps":
		cfg.NumberOfTimeSteps = cast.ToInt(value)
	case "TimeStep":
		cfg.TimeStep = cast.ToFloat64(value)
	case "AutoNumberOfTimeSteps":
		cfg.AutoNumberOfTimeSteps = cast.ToBool(value)
	case "PrintEvery":
		cfg.PrintEvery = cast.ToInt(value)
	case "WriteEvery":
		cfg.WriteEvery = cast.ToInt(value)
	case "PulseBreakthrough":
		cfg.PulseBreakthrough = cast.ToBool(value)
	case "PulseTime":
		cfg.PulseTime = cast.ToFloat64(value)
	}
}

func applyComponentField(c *ComponentSpec, key, value string) bool {
	switch key {
	case "Name":
		c.Name = value
	case "CarrierGas":
		c.CarrierGas = cast.ToBool(value)
	case "Yi0":
		c.Yi0 = cast.ToFloat64(value)
	case "MassTransferCoefficient":
		c.MassTransferCoefficient = cast.ToFloat64(value)
	case "DispersionCoefficient":
		c.DispersionCoefficient = cast.ToFloat64(value)
	case "IsothermModel":
		c.IsothermModel = value
	case "IsothermParams":
		for _, tok := range strings.Fields(value) {
			c.IsothermParams = append(c.IsothermParams, cast.ToFloat64(tok))
		}
	default:
		return false
	}
	return true
}
