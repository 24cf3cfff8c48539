// Package config loads the YAML settings of the mesh generator.
package config

import (
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/mesh"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/movingmesh"
)

type Config struct {
	Mesh       MeshConfig       `yaml:"mesh"`
	Refinement RefinementConfig `yaml:"refinement"`
	Reorder    ReorderConfig    `yaml:"reorder"`
	Moving     MovingConfig     `yaml:"moving"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type MeshConfig struct {
	Padding            float64 `yaml:"padding"`
	CollinearTolerance float64 `yaml:"collinear_tolerance"`
	IncircleTolerance  float64 `yaml:"incircle_tolerance"`
	MaxSteinerPoints   int     `yaml:"max_steiner_points"`
	Seed               uint64  `yaml:"seed"`
}

type RefinementConfig struct {
	Bound float64 `yaml:"bound"` // Radius/edge ratio bound, sqrt(2) guarantees termination
	Mode  string  `yaml:"mode"`  // ruppert or ungor
}

type ReorderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Reverse bool   `yaml:"reverse"`
	Start   string `yaml:"start"` // random, pseudoperipheral or mindegree
}

type MovingConfig struct {
	Monitor    string  `yaml:"monitor"`
	Relaxation float64 `yaml:"relaxation"`
	Steps      int     `yaml:"steps"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	opts := mesh.DefaultOptions()
	return &Config{
		Mesh: MeshConfig{
			Padding:            opts.Padding,
			CollinearTolerance: opts.CollinearTolerance,
			IncircleTolerance:  opts.IncircleTolerance,
			MaxSteinerPoints:   opts.MaxSteinerPoints,
		},
		Refinement: RefinementConfig{Bound: math.Sqrt2, Mode: mesh.Ungor.String()},
		Reorder:    ReorderConfig{Enabled: true, Reverse: true, Start: mesh.PseudoPeripheralStart.String()},
		Moving:     MovingConfig{Monitor: "laplacian", Relaxation: 0.5},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// Parse reads YAML over the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() (err error) {
	if c.Mesh.Padding < 0 {
		err = multierr.Append(err, errors.Errorf("mesh.padding %g is negative", c.Mesh.Padding))
	}
	if c.Mesh.CollinearTolerance < 0 || c.Mesh.CollinearTolerance >= 1 {
		err = multierr.Append(err, errors.Errorf("mesh.collinear_tolerance %g outside [0,1)", c.Mesh.CollinearTolerance))
	}
	if c.Mesh.IncircleTolerance < 0 || c.Mesh.IncircleTolerance >= 1 {
		err = multierr.Append(err, errors.Errorf("mesh.incircle_tolerance %g outside [0,1)", c.Mesh.IncircleTolerance))
	}
	if c.Mesh.MaxSteinerPoints < 0 {
		err = multierr.Append(err, errors.Errorf("mesh.max_steiner_points %d is negative", c.Mesh.MaxSteinerPoints))
	}
	if c.Refinement.Bound <= 0 {
		err = multierr.Append(err, errors.Errorf("refinement.bound %g must be positive", c.Refinement.Bound))
	}
	if _, e := c.Mode(); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "refinement.mode"))
	}
	if _, e := c.StartPolicy(); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "reorder.start"))
	}
	if _, e := movingmesh.Lookup(c.Moving.Monitor, c.Moving.Relaxation); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "moving"))
	}
	if c.Moving.Steps < 0 {
		err = multierr.Append(err, errors.Errorf("moving.steps %d is negative", c.Moving.Steps))
	}
	if _, e := zapcore.ParseLevel(c.Logging.Level); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "logging.level"))
	}
	return
}

func (c *Config) Mode() (mesh.RefinementMode, error) {
	return mesh.ParseRefinementMode(c.Refinement.Mode)
}

func (c *Config) StartPolicy() (mesh.StartPolicy, error) {
	return mesh.ParseStartPolicy(c.Reorder.Start)
}

func (c *Config) Monitor() (movingmesh.Monitor, error) {
	return movingmesh.Lookup(c.Moving.Monitor, c.Moving.Relaxation)
}

// MeshOptions maps the mesh section onto mesh.Options
func (c *Config) MeshOptions(logger *zap.SugaredLogger) mesh.Options {
	opts := mesh.DefaultOptions()
	opts.Padding = c.Mesh.Padding
	opts.CollinearTolerance = c.Mesh.CollinearTolerance
	opts.IncircleTolerance = c.Mesh.IncircleTolerance
	opts.MaxSteinerPoints = c.Mesh.MaxSteinerPoints
	opts.Seed = c.Mesh.Seed
	if logger != nil {
		opts.Logger = logger
	}
	return opts
}
