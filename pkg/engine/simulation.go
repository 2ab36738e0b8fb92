// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-ballpit/pkg/collision"
	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/entity"
	"github.com/opd-ai/go-ballpit/pkg/event"
	"github.com/opd-ai/go-ballpit/pkg/logging"
	"github.com/opd-ai/go-ballpit/pkg/physics"
	"github.com/opd-ai/go-ballpit/pkg/quadtree"
)

// SimulationStatus tracks whether Start has been called.
type SimulationStatus int

const (
	SimulationIdle SimulationStatus = iota
	SimulationRunning
	SimulationStopped
)

// TickReport summarises one call to Step.
type TickReport struct {
	// Tick is the number of the step just taken, starting at 1.
	Tick uint64
	// Pairs holds every contact in the order it was detected and bounced.
	Pairs []collision.Pair
	// OutOfBounds lists bodies the index refused; they sat out the broad
	// phase this tick.
	OutOfBounds []*quadtree.OutOfBoundsError
	// WallHits counts bodies that bounced off at least one wall.
	WallHits int
	// Regions counts leaves holding two or more bodies.
	Regions int
	// Skipped counts pairs whose bodies vanished before they could bounce.
	Skipped int
}

// Collisions is len(Pairs).
func (r TickReport) Collisions() int { return len(r.Pairs) }

// Simulation advances a set of circular bodies inside a walled arena. A
// fresh quadtree is built every step and each of its leaves is checked
// pairwise for contacts.
//
// Simulation implements ecs.System so it can be driven by an ecs.World.
type Simulation struct {
	mu sync.RWMutex

	arena       physics.Bounds
	edges       collision.Edges
	treeOptions quadtree.Options
	friction    float64
	dedupPairs  bool

	bodies *entity.Store
	tree   *quadtree.QuadTree
	tick   uint64
	status SimulationStatus

	logger   *logging.Logger
	eventBus *event.Bus
}

// NewSimulation creates an empty simulation from cfg. A nil logger discards
// output; a nil bus gets a private one.
func NewSimulation(cfg *config.SimConfig, logger *logging.Logger, bus *event.Bus) (*Simulation, error) {
	if cfg == nil {
		return nil, errors.New("simulation config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	options := cfg.TreeOptions()
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree options: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if bus == nil {
		bus = event.NewEventBus()
	}

	arena := cfg.ArenaBounds()
	return &Simulation{
		arena:       arena,
		edges:       collision.NewEdges(arena),
		treeOptions: options,
		friction:    cfg.Physics.Friction,
		dedupPairs:  cfg.Physics.DedupPairs,
		bodies:      entity.NewStore(),
		tree:        quadtree.New(arena, options),
		logger:      logger.With("component", "simulation"),
		eventBus:    bus,
	}, nil
}

// Arena returns the walled rectangle.
func (s *Simulation) Arena() physics.Bounds { return s.arena }

// EventBus returns the bus events are published on.
func (s *Simulation) EventBus() *event.Bus { return s.eventBus }

// Tick returns the number of completed steps.
func (s *Simulation) Tick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Status returns the lifecycle state.
func (s *Simulation) Status() SimulationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Start marks the simulation running and publishes SimulationStarted.
func (s *Simulation) Start(ctx context.Context) {
	s.mu.Lock()
	s.status = SimulationRunning
	count := s.bodies.Len()
	s.mu.Unlock()

	s.logger.Info(ctx, "simulation started", "bodies", count, "arena", s.arena.String())
	s.eventBus.Publish(&event.BaseEvent{EventType: event.SimulationStarted, Source: s})
}

// Stop marks the simulation stopped and publishes SimulationStopped.
func (s *Simulation) Stop(ctx context.Context) {
	s.mu.Lock()
	s.status = SimulationStopped
	tick := s.tick
	s.mu.Unlock()

	s.logger.Info(ctx, "simulation stopped", "tick", tick)
	s.eventBus.Publish(&event.BaseEvent{EventType: event.SimulationStopped, Source: s})
}

// Add puts bodies into the simulation. It stops at the first body that is
// nil or whose id is already present.
func (s *Simulation) Add(bodies ...*entity.Body) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bodies {
		if err := s.bodies.Add(b); err != nil {
			return err
		}
	}
	return nil
}

// RemoveBody drops the body with id and reports whether it was present.
func (s *Simulation) RemoveBody(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies.Remove(id)
}

// Body returns the body with id.
func (s *Simulation) Body(id uint64) (*entity.Body, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bodies.Get(id)
}

// Bodies returns a snapshot of the bodies in insertion order.
func (s *Simulation) Bodies() []*entity.Body {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.bodies.All()
	out := make([]*entity.Body, len(all))
	copy(out, all)
	return out
}

// Len returns the number of bodies.
func (s *Simulation) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bodies.Len()
}

// Tree returns the index built by the last step.
func (s *Simulation) Tree() *quadtree.QuadTree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// BodiesIn returns the bodies whose footprints overlapped area when the last
// step indexed them.
func (s *Simulation) BodiesIn(area physics.Bounds) []*entity.Body {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.tree.Query(area)
	found := make([]*entity.Body, 0, len(ids))
	for _, id := range ids {
		if b, ok := s.bodies.Get(id); ok {
			found = append(found, b)
		}
	}
	return found
}

// TotalMomentum sums mass * velocity over all bodies.
func (s *Simulation) TotalMomentum() physics.Vector2D {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total physics.Vector2D
	for _, b := range s.bodies.All() {
		total = total.Add(b.Momentum())
	}
	return total
}

// KineticEnergy sums 1/2 m |v|^2 over all bodies.
func (s *Simulation) KineticEnergy() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, b := range s.bodies.All() {
		total += b.KineticEnergy()
	}
	return total
}

// NonFiniteBodies counts bodies whose position or velocity is NaN or
// infinite.
func (s *Simulation) NonFiniteBodies() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.bodies.All() {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			n++
		}
	}
	return n
}

// Step advances the simulation by dt seconds.
func (s *Simulation) Step(dt float64) TickReport {
	return s.StepContext(context.Background(), dt)
}

// StepContext advances the simulation by dt seconds. ctx only carries
// logging values. Events are published after the step has released its
// lock, so handlers may read the simulation.
func (s *Simulation) StepContext(ctx context.Context, dt float64) TickReport {
	s.mu.Lock()
	report, pending := s.step(ctx, dt)
	s.mu.Unlock()

	for _, e := range pending {
		s.eventBus.Publish(e)
	}
	return report
}

func (s *Simulation) step(ctx context.Context, dt float64) (TickReport, []event.Event) {
	s.tick++
	report := TickReport{Tick: s.tick}
	bodies := s.bodies.All()
	var pending []event.Event

	pending = s.integrate(bodies, dt, &report, pending)
	s.tree, pending = s.index(ctx, bodies, &report, pending)
	contacts := s.broadPhase(&report)

	report.Pairs = contacts.Pairs()
	report.Skipped = collision.Resolve(report.Pairs, s.bodies.Get)
	if s.eventBus.HasSubscribers(event.BodyCollision) {
		for _, p := range report.Pairs {
			pending = append(pending, event.NewCollisionEvent(s, report.Tick, p.A, p.B))
		}
	}

	s.logger.Debug(ctx, "tick",
		"tick", report.Tick,
		"collisions", report.Collisions(),
		"regions", report.Regions,
		"wall_hits", report.WallHits,
		"out_of_bounds", len(report.OutOfBounds),
	)
	return report, pending
}

// integrate applies friction, moves every body and bounces it off the walls.
func (s *Simulation) integrate(bodies []*entity.Body, dt float64, report *TickReport, pending []event.Event) []event.Event {
	publishWalls := s.eventBus.HasSubscribers(event.WallBounce)
	for _, b := range bodies {
		b.ApplyFriction(s.friction, dt)
		b.Move(dt)
		hits := s.edges.Resolve(b)
		if !hits.Any() {
			continue
		}
		report.WallHits++
		if publishWalls {
			pending = append(pending, event.NewWallEvent(s, report.Tick, b.ID(), uint8(hits)))
		}
	}
	return pending
}

// index builds this step's quadtree from the bodies' footprints.
func (s *Simulation) index(ctx context.Context, bodies []*entity.Body, report *TickReport, pending []event.Event) (*quadtree.QuadTree, []event.Event) {
	tree := quadtree.New(s.arena, s.treeOptions)
	for _, b := range bodies {
		err := tree.Insert(b.Footprint(), b.ID())
		if err == nil {
			continue
		}
		var oob *quadtree.OutOfBoundsError
		if !errors.As(err, &oob) {
			s.logger.Error(ctx, "index insert failed", err, "body", b.ID())
			continue
		}
		report.OutOfBounds = append(report.OutOfBounds, oob)
		s.logger.Warn(ctx, "body outside arena",
			"tick", report.Tick,
			"body", b.ID(),
			"x", b.Position.X,
			"y", b.Position.Y,
		)
		pending = append(pending, event.NewOutOfBoundsEvent(s, report.Tick, b.ID(), oob))
	}
	return tree, pending
}

// broadPhase checks every pair of bodies sharing a leaf. Overlaps are
// corrected here; velocities change only after the whole tree is scanned.
func (s *Simulation) broadPhase(report *TickReport) *collision.Collisions {
	contacts := collision.NewCollisions(s.bodies.Len())
	if s.dedupPairs {
		contacts.WithDedup()
	}

	var region []*entity.Body
	s.tree.Walk(func(leaf *quadtree.QuadTree) bool {
		entries := leaf.Entries()
		if len(entries) < 2 {
			return true
		}
		region = region[:0]
		for _, e := range entries {
			if b, ok := s.bodies.Get(e.ID); ok {
				region = append(region, b)
			}
		}
		report.Regions++
		contacts.CheckRegion(region)
		return true
	})
	return contacts
}

// Update implements ecs.System. dt is in seconds.
func (s *Simulation) Update(dt float32) {
	s.Step(float64(dt))
}

// Remove implements ecs.System by dropping the body owned by e.
func (s *Simulation) Remove(e ecs.BasicEntity) {
	s.RemoveBody(e.ID())
}
