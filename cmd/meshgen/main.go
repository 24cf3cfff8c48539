// Package main is the mesh generator command.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/config"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/logging"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/partitions"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/pslg"
)

const (
	flagConfig  = "config"
	flagBound   = "bound"
	flagMode    = "mode"
	flagPadding = "padding"
	flagSteps   = "steps"
	flagMaxPts  = "max-steiner"
	flagKeepBox = "keep-box"
	flagOut     = "out"
	flagDebug   = "debug"
	flagPartSz  = "partition-size"
	flagPartBy  = "partition-strategy"
)

func main() {
	app := &cli.App{
		Name:      "meshgen",
		Usage:     "build a quality constrained Delaunay mesh from a PSLG file",
		ArgsUsage: "<pslg file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load settings from YAML `FILE`",
			},
			&cli.Float64Flag{
				Name:  flagBound,
				Usage: "radius/edge ratio bound",
			},
			&cli.StringFlag{
				Name:  flagMode,
				Usage: "refinement mode, ruppert or ungor",
			},
			&cli.Float64Flag{
				Name:  flagPadding,
				Usage: "bounding box padding as a fraction of the input extent",
			},
			&cli.IntFlag{
				Name:  flagSteps,
				Usage: "moving mesh steps after the initial refinement",
			},
			&cli.IntFlag{
				Name:  flagMaxPts,
				Usage: "cap on Steiner points per refinement, 0 for none",
			},
			&cli.BoolFlag{
				Name:  flagKeepBox,
				Usage: "keep the triangles outside the input boundary",
			},
			&cli.StringFlag{
				Name:    flagOut,
				Aliases: []string{"o"},
				Usage:   "write vertices and triangles to `FILE`",
			},
			&cli.IntFlag{
				Name:  flagPartSz,
				Usage: "target triangles per partition, 0 disables partitioning",
			},
			&cli.StringFlag{
				Name:  flagPartBy,
				Value: "graph",
				Usage: "partition strategy, block, roundrobin or graph",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Action: generate,
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "validate a PSLG file and a configuration without meshing",
				ArgsUsage: "<pslg file>",
				Action: func(c *cli.Context) error {
					if _, err := loadConfig(c); err != nil {
						return err
					}
					g, err := pslg.ReadFile(c.Args().First())
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%d points, %d segments: ok\n", len(g.Points), len(g.Segments))
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, then applies explicit flags
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if c.IsSet(flagBound) {
		cfg.Refinement.Bound = c.Float64(flagBound)
	}
	if c.IsSet(flagMode) {
		cfg.Refinement.Mode = c.String(flagMode)
	}
	if c.IsSet(flagPadding) {
		cfg.Mesh.Padding = c.Float64(flagPadding)
	}
	if c.IsSet(flagSteps) {
		cfg.Moving.Steps = c.Int(flagSteps)
	}
	if c.IsSet(flagMaxPts) {
		cfg.Mesh.MaxSteinerPoints = c.Int(flagMaxPts)
	}
	if c.Bool(flagDebug) {
		cfg.Logging.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func generate(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one PSLG file")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger("meshgen", cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	g, err := pslg.ReadFile(c.Args().First())
	if err != nil {
		return err
	}
	m, err := Build(g, cfg, !c.Bool(flagKeepBox), logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, m)

	var layout *partitions.PartitionLayout
	if size := c.Int(flagPartSz); size > 0 {
		strategy, err := partitions.ParseStrategy(c.String(flagPartBy))
		if err != nil {
			return err
		}
		if layout, err = Partition(m, size, strategy, logger); err != nil {
			return err
		}
	}
	if out := c.String(flagOut); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer f.Close()
		if err := WriteMesh(f, m); err != nil {
			return err
		}
		if layout != nil {
			return WritePartitions(f, layout)
		}
	}
	return nil
}
