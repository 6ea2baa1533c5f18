package presets

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorbentlab/breakthrough/internal/config"
)

func TestListReturnsBundledPresetsSorted(t *testing.T) {
	names, err := List()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.True(t, isSorted(names))
}

func isSorted(names []string) bool {
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			return false
		}
	}
	return true
}

func TestSaveRendersPresetLoadableByConfig(t *testing.T) {
	names, err := List()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	fs := afero.NewMemMapFs()
	path := "/preset.in"
	require.NoError(t, Save(fs, names[0], path))

	cfg, err := config.Load(fs, path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.SimulationType)
	assert.NotEmpty(t, cfg.Components)
}

func TestSaveUnknownPresetReturnsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	err := Save(fs, "does-not-exist", "/preset.in")
	assert.Error(t, err)
}
