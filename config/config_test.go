package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/logging"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/mesh"
)

func TestDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 0.1, cfg.Mesh.Padding)
	assert.Equal(t, math.Sqrt2, cfg.Refinement.Bound)
	assert.Equal(t, mesh.DefaultMaxSteinerPoints, cfg.Mesh.MaxSteinerPoints, "refinement is capped unless configured otherwise")
	mode, err := cfg.Mode()
	require.NoError(t, err)
	assert.Equal(t, mesh.Ungor, mode)
	policy, err := cfg.StartPolicy()
	require.NoError(t, err)
	assert.Equal(t, mesh.PseudoPeripheralStart, policy)
	mon, err := cfg.Monitor()
	require.NoError(t, err)
	assert.Equal(t, "laplacian", mon.Name())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
mesh:
  padding: 0.5
  max_steiner_points: 1000
refinement:
  mode: ruppert
  bound: 1.5
reorder:
  start: mindegree
`))
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Mesh.Padding)
	assert.Equal(t, 1e-14, cfg.Mesh.CollinearTolerance, "untouched keys keep their default")
	assert.True(t, cfg.Reorder.Reverse)

	opts := cfg.MeshOptions(logging.NewTestLogger(t))
	assert.Equal(t, 0.5, opts.Padding)
	assert.Equal(t, 1000, opts.MaxSteinerPoints)
	assert.NotNil(t, opts.Logger)
	assert.NotNil(t, cfg.MeshOptions(nil).Logger)
}

func TestParseRejects(t *testing.T) {
	_, err := Parse(strings.NewReader("mesh:\n  pading: 0.5\n"))
	assert.Error(t, err, "unknown key")

	_, err = Parse(strings.NewReader(`
mesh:
  padding: -1
refinement:
  mode: chew
  bound: 0
moving:
  monitor: spring
logging:
  level: loud
`))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 5)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("moving:\n  steps: 4\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Moving.Steps)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
