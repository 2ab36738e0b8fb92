// cmd/ballpit/run.go
package main

import (
	"context"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/event"
	"github.com/opd-ai/go-ballpit/pkg/health"
	"github.com/opd-ai/go-ballpit/pkg/logging"
	"github.com/opd-ai/go-ballpit/pkg/spawn"
)

const maxMemoryMB = 500

// stats counts events between two reports.
type stats struct {
	collisions  int
	wallBounces int
	outOfBounds int
	subs        []*event.Subscription
}

func newStats(bus *event.Bus) *stats {
	s := &stats{}
	s.subs = append(s.subs,
		bus.Subscribe(event.BodyCollision, func(event.Event) { s.collisions++ }),
		bus.Subscribe(event.WallBounce, func(event.Event) { s.wallBounces++ }),
		bus.Subscribe(event.BodyOutOfBounds, func(event.Event) { s.outOfBounds++ }),
	)
	return s
}

func (s *stats) reset() {
	s.collisions, s.wallBounces, s.outOfBounds = 0, 0, 0
}

func (s *stats) close() {
	for _, sub := range s.subs {
		sub.Cancel()
	}
}

// run spawns the population and steps it at cfg.Run.TickRate until
// cfg.Run.Ticks have passed or ctx is cancelled.
func run(ctx context.Context, cfg *config.SimConfig, logger *logging.Logger) error {
	seed := cfg.Bodies.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	bus := event.NewEventBus()
	sim, err := engine.NewSimulation(cfg, logger, bus)
	if err != nil {
		return err
	}

	bodies, err := spawn.Population(spawn.NewRand(seed), sim.Arena(), spawn.Options{
		Count:     cfg.Bodies.Count,
		MinRadius: cfg.Bodies.MinRadius,
		MaxRadius: cfg.Bodies.MaxRadius,
		MaxSpeed:  cfg.Bodies.MaxSpeed,
	})
	if err != nil {
		return logging.WrapError(err, "spawn population")
	}
	if err := sim.Add(bodies...); err != nil {
		return logging.WrapError(err, "add population")
	}

	world := ecs.World{}
	world.AddSystem(sim)

	counters := newStats(bus)
	defer counters.close()

	checker := health.NewHealthChecker()
	checker.AddCheck(health.NewProgressHealthCheck(
		func() bool { return sim.Status() == engine.SimulationRunning },
		sim.Tick,
	))
	checker.AddCheck(health.NewFiniteStateHealthCheck(sim.NonFiniteBodies))
	checker.AddCheck(health.NewContainmentHealthCheck(cfg.Bodies.Count/10, func() int { return counters.outOfBounds }))
	checker.AddCheck(health.NewMemoryHealthCheck(maxMemoryMB, health.CurrentMemoryMB))

	logger.Info(ctx, "Starting simulation",
		"seed", seed,
		"bodies", sim.Len(),
		"tick_rate", cfg.Run.TickRate,
		"ticks", cfg.Run.Ticks,
	)
	sim.Start(ctx)
	defer sim.Stop(ctx)

	dt := 1 / float32(cfg.Run.TickRate)
	ticker := time.NewTicker(time.Second / time.Duration(cfg.Run.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Simulation interrupted", "tick", sim.Tick())
			return nil
		case <-ticker.C:
		}

		world.Update(dt)
		tick := sim.Tick()

		if interval := uint64(cfg.Run.ReportInterval); interval > 0 && tick%interval == 0 {
			report(ctx, logger, sim, counters, checker)
			counters.reset()
		}
		if cfg.Run.Ticks > 0 && tick >= uint64(cfg.Run.Ticks) {
			logger.Info(ctx, "Simulation finished", "tick", tick)
			return nil
		}
	}
}

func report(ctx context.Context, logger *logging.Logger, sim *engine.Simulation, counters *stats, checker *health.HealthChecker) {
	momentum := sim.TotalMomentum()
	logger.Info(ctx, "Simulation stats",
		"tick", sim.Tick(),
		"collisions", counters.collisions,
		"wall_bounces", counters.wallBounces,
		"out_of_bounds", counters.outOfBounds,
		"momentum_x", momentum.X,
		"momentum_y", momentum.Y,
		"kinetic_energy", sim.KineticEnergy(),
	)

	status := checker.CheckHealth(ctx)
	if !status.Healthy() {
		for _, name := range status.Failing() {
			logger.Warn(ctx, "Health check failed",
				"check", name,
				"message", status.Checks[name].Message,
			)
		}
	}
}
