package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

const linearQBFYAML = `
name_to_id:
  u: 1
  e: 2
  g: 3
dependencies:
  e: [u]
matrix:
  - [-3, -1, 2]
  - [-3, 1, -2]
  - [3, 1, 2]
  - [3, -1, -2]
universal_vars: [u]
output_gate_id: 3
`

func TestLoadParsesInstance(t *testing.T) {
	in, err := Load([]byte(linearQBFYAML))
	require.NoError(t, err)

	assert.Equal(t, prop.ID(1), in.NameToID["u"])
	assert.Equal(t, prop.ID(2), in.NameToID["e"])
	assert.Equal(t, []string{"u"}, in.Dependencies["e"])
	assert.Equal(t, prop.ID(3), in.OutputGateID)
	assert.Equal(t, []string{"u"}, in.UniversalVars)
	require.Len(t, in.Matrix, 4)
	assert.Equal(t, []prop.Lit{-3, -1, 2}, in.Matrix[0])
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load([]byte("not: [valid"))
	require.Error(t, err)
}

func TestLoadFileMissingPath(t *testing.T) {
	_, err := LoadFile("/nonexistent/path/instance.yaml")
	require.Error(t, err)
}
