package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zeusync/quadworld/internal/config"
	"github.com/zeusync/quadworld/internal/core/events/bus"
	"github.com/zeusync/quadworld/internal/core/observability/log"
	"github.com/zeusync/quadworld/internal/core/scene"
	"github.com/zeusync/quadworld/internal/core/system"
	"github.com/zeusync/quadworld/internal/injector"
)

type simulateOptions struct {
	frames int
}

func simulateCmd() *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate [scenario.yaml]",
		Short: "Run a scripted scenario and print a frame summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			scenario, err := config.LoadScenario(args[0])
			if err != nil {
				return err
			}
			if opts.frames > 0 {
				scenario.Frames = opts.frames
			}
			return runSimulate(cmd.OutOrStdout(), injector.InitializeWorld(cfg), scenario)
		},
	}

	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 0, "override the scenario frame count")
	return cmd
}

// summary accumulates what a simulation did.
type summary struct {
	frames      int
	updated     int
	resolutions int
	gestures    map[string]int
	errors      int
	scene       scene.Stats
}

func runSimulate(out io.Writer, w *system.World, scenario *config.Scenario) error {
	defer w.Close()

	if _, err := scenario.Populate(w); err != nil {
		return err
	}

	sum := summary{gestures: make(map[string]int)}
	for _, typ := range []string{system.EventGestureCircle, system.EventGestureUnrecognized} {
		if _, err := w.Bus().Subscribe(typ, func(e bus.Event) error {
			g := e.Data().(system.GestureEvent)
			sum.gestures[g.Kind.String()]++
			fmt.Fprintf(out, "frame %d: touch %d drew %s around (%.2f, %.2f)\n",
				e.Frame(), g.TouchID, g.Kind, g.Center.X, g.Center.Y)
			return nil
		}); err != nil {
			return err
		}
	}

	logger := log.Provide()
	for frame := 0; frame < scenario.Frames; frame++ {
		stats, err := w.Step(scenario.DT, scenario.Touches(frame))
		if err != nil {
			sum.errors++
			logger.Warn("frame reported errors", log.Int("frame", frame), log.Error(err))
		}
		sum.frames++
		sum.updated += stats.Updated
		sum.resolutions += stats.Resolutions
		sum.scene = stats.Scene
	}

	fmt.Fprintf(out, "scenario %q: %d frames, %d updates, %d collisions resolved, %d frames with errors\n",
		scenario.Name, sum.frames, sum.updated, sum.resolutions, sum.errors)
	fmt.Fprintf(out, "gestures: circle=%d unrecognized=%d\n",
		sum.gestures["circle"], sum.gestures["unrecognized"])
	fmt.Fprintf(out, "scene: %d entities, %d nodes, %d leaves, depth %d, %d orphans\n",
		sum.scene.Entities, sum.scene.Nodes, sum.scene.Leaves, sum.scene.Depth, sum.scene.Orphans)
	events := w.EventMetrics()
	fmt.Fprintf(out, "events: %d delivered, %d failed\n", events.Delivered, events.Errors)
	return nil
}
