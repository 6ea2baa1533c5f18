package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorbentlab/breakthrough/internal/column"
)

func TestComponentWriterNormalizesBreakthroughCurve(t *testing.T) {
	g := testGrid(t)
	s := column.NewState(g)
	s.P[g.Idx(g.N, 1)] = 0.05e5

	var buf bytes.Buffer
	cw := NewComponentWriter(&buf, 1, 0.1, 0.1, 1.0, 1e5, 0)
	require.NoError(t, cw.WriteRow(g, s, 30))

	fields := strings.Fields(buf.String())
	require.Len(t, fields, 3)
	assert.Equal(t, "3", fields[0])
	assert.Equal(t, "0.5", fields[1])
	assert.Equal(t, "0.5", fields[2])
}

func TestComponentWriterZeroDenomYieldsZero(t *testing.T) {
	g := testGrid(t)
	s := column.NewState(g)

	var buf bytes.Buffer
	cw := NewComponentWriter(&buf, 1, 0, 0.1, 1.0, 1e5, 0)
	require.NoError(t, cw.WriteRow(g, s, 0))

	fields := strings.Fields(buf.String())
	assert.Equal(t, "0", fields[2])
}
