package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
SimulationType ContinuityRK3
# a comment line
DisplayName Single component CO2/He
Temperature = 298.15
TotalPressure 1e5
ColumnVoidFraction 0.4
ParticleDensity 700
ColumnLength 1.0
ColumnEntranceVelocity 0.1
NumberOfGridPoints 100
NumberOfTimeSteps 5000
TimeStep 0.001 # trailing comment
AutoNumberOfTimeSteps true
PulseBreakthrough false

Component
Name He
CarrierGas true
Yi0 0.9

Component
Name CO2
CarrierGas false
Yi0 0.1
MassTransferCoefficient 0.05
IsothermModel Langmuir
IsothermParams 5.0 1.2e-5
`

func writeConfig(t *testing.T, contents string) (afero.Fs, string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	path := "/run.in"
	require.NoError(t, afero.WriteFile(fs, path, []byte(contents), 0o644))
	return fs, path
}

func TestLoadParsesTopLevelFields(t *testing.T) {
	fs, path := writeConfig(t, sampleConfig)
	cfg, err := Load(fs, path)
	require.NoError(t, err)

	assert.Equal(t, "ContinuityRK3", cfg.SimulationType)
	assert.Equal(t, "Single component CO2/He", cfg.DisplayName)
	assert.InDelta(t, 298.15, cfg.Temperature, 1e-9)
	assert.InDelta(t, 1e5, cfg.TotalPressure, 1e-9)
	assert.Equal(t, 100, cfg.NumberOfGridPoints)
	assert.True(t, cfg.AutoNumberOfTimeSteps)
	assert.False(t, cfg.PulseBreakthrough)
}

func TestLoadParsesComponentBlocks(t *testing.T) {
	fs, path := writeConfig(t, sampleConfig)
	cfg, err := Load(fs, path)
	require.NoError(t, err)

	require.Len(t, cfg.Components, 2)
	assert.Equal(t, "He", cfg.Components[0].Name)
	assert.True(t, cfg.Components[0].CarrierGas)
	assert.Equal(t, "CO2", cfg.Components[1].Name)
	assert.InDelta(t, 0.05, cfg.Components[1].MassTransferCoefficient, 1e-9)
	assert.Equal(t, []float64{5.0, 1.2e-5}, cfg.Components[1].IsothermParams)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Load(fs, "/does-not-exist.in")
	assert.Error(t, err)
}
