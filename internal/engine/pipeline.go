package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/voxelop/worldopt/internal/catalog"
	"github.com/voxelop/worldopt/internal/world"
)

// Default clamp maxima for light normalization. Chosen to avoid
// pathological render and shadow cost; configuration constants, not
// derived from content.
const (
	DefaultLightRadiusMax     = 100.0
	DefaultLightBrightnessMax = 4.0
)

// Pipeline is the mutation orchestrator. It sequences the classifier,
// the freeze and light passes, the revision compactor, and the final
// integrity validation over one world graph.
//
// A Pipeline is configured once and may be reused across worlds; each
// Run gets its own token. Run itself mutates the given world in place
// and must not be called concurrently for the same world.
type Pipeline struct {
	cat               *catalog.Catalog
	tokens            RunTokenGenerator
	lightRadiusMax    float64
	lightBrightness   float64
	compaction        bool
	zeroPhysicsWeight bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCatalog overrides the shape catalog consulted by the classifier.
func WithCatalog(c *catalog.Catalog) Option {
	return func(p *Pipeline) { p.cat = c }
}

// WithRunTokens overrides the run token generator (tests use
// FixedGenerator for deterministic logs).
func WithRunTokens(g RunTokenGenerator) Option {
	return func(p *Pipeline) { p.tokens = g }
}

// WithLightRadiusMax sets the light radius clamp.
func WithLightRadiusMax(max float64) Option {
	return func(p *Pipeline) { p.lightRadiusMax = max }
}

// WithLightBrightnessMax sets the light brightness clamp.
func WithLightBrightnessMax(max float64) Option {
	return func(p *Pipeline) { p.lightBrightness = max }
}

// WithCompaction toggles revision history compaction. Enabled by
// default, but callers must treat it as an explicit choice: compaction
// discards ALL prior history, including revisions a user may have
// wanted for undo. That loss is documented behavior, not a bug.
func WithCompaction(enabled bool) Option {
	return func(p *Pipeline) { p.compaction = enabled }
}

// WithZeroPhysicsGridWeight extends wheel-engine weight zeroing to
// physics grids. The described behavior zeroes weight only on the main
// grid while freezing velocity everywhere; this asymmetry is the
// default, and the option exists because the source material leaves
// the physics-grid case ambiguous.
func WithZeroPhysicsGridWeight(enabled bool) Option {
	return func(p *Pipeline) { p.zeroPhysicsWeight = enabled }
}

// New creates a Pipeline with the default catalog, UUIDv7 run tokens,
// default light clamps, and compaction enabled.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		cat:             catalog.Default(),
		tokens:          UUIDv7Generator{},
		lightRadiusMax:  DefaultLightRadiusMax,
		lightBrightness: DefaultLightBrightnessMax,
		compaction:      true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result reports what one pipeline run changed.
type Result struct {
	RunToken string `json:"run_token"`

	Grids        int `json:"grids"`
	PhysicsGrids int `json:"physics_grids"`
	Bricks       int `json:"bricks"`
	Wheels       int `json:"wheels"`
	Spheres      int `json:"spheres"`

	FrozenBricks  int `json:"frozen_bricks"`
	ZeroedMass    int `json:"zeroed_mass"`
	ZeroedEngines int `json:"zeroed_engines"`
	ShadowsOff    int `json:"shadows_off"`
	ClampedLights int `json:"clamped_lights"`

	Compacted          bool `json:"compacted"`
	DiscardedRevisions int  `json:"discarded_revisions"`

	DigestBefore string `json:"digest_before"`
	DigestAfter  string `json:"digest_after"`
}

// Changed reports whether the run mutated anything.
func (r *Result) Changed() bool {
	return r.DigestBefore != r.DigestAfter
}

// Run executes the full pipeline on w, mutating it in place, and
// returns the run report. On a GraphIntegrityError the world must be
// considered poisoned and must not be handed to the codec.
//
// The context is only consulted between stages; the engine performs no
// I/O and individual passes are not cancellable mid-grid.
func (p *Pipeline) Run(ctx context.Context, w *world.World) (*Result, error) {
	res := &Result{
		RunToken: p.tokens.Generate(),
		Grids:    len(w.Grids),
		Bricks:   w.BrickCount(),
	}
	log := slog.With("run", res.RunToken, "world", w.Name)

	digest, err := world.DigestWorld(w)
	if err != nil {
		return nil, fmt.Errorf("digest before run: %w", err)
	}
	res.DigestBefore = digest

	// Stage 1: pure classification.
	cls := Classify(w, p.cat)
	res.Wheels = cls.Wheels()
	res.Spheres = cls.Spheres()
	res.PhysicsGrids = len(w.Grids) - cls.MainGrids()
	log.Debug("classified world",
		"grids", res.Grids,
		"physics_grids", res.PhysicsGrids,
		"bricks", res.Bricks,
		"wheels", res.Wheels,
		"spheres", res.Spheres,
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: freeze + light passes, one worker per grid. The
	// partition is shared-nothing (a worker touches only its own
	// grid's bricks), so no locking is needed; per-grid stats land in
	// slots indexed by grid position and are summed in order for a
	// deterministic report.
	type gridStats struct {
		freeze freezeStats
		lights lightStats
	}
	stats := make([]gridStats, len(w.Grids))

	var wg sync.WaitGroup
	for i, g := range w.Grids {
		wg.Add(1)
		go func(i int, g *world.Grid) {
			defer wg.Done()
			kind := cls.GridKind(g.ID)
			stats[i].freeze = freezeGrid(g, kind, cls, p.zeroPhysicsWeight)
			stats[i].lights = normalizeGridLights(g, p.lightRadiusMax, p.lightBrightness)
		}(i, g)
	}
	// Barrier: compaction snapshots global state and requires all
	// per-entity mutation to have settled.
	wg.Wait()

	for _, s := range stats {
		res.FrozenBricks += s.freeze.frozen
		res.ZeroedMass += s.freeze.zeroedMass
		res.ZeroedEngines += s.freeze.zeroedEngines
		res.ShadowsOff += s.lights.shadowsOff
		res.ClampedLights += s.lights.clamped
	}
	log.Debug("per-entity passes complete",
		"frozen", res.FrozenBricks,
		"zeroed_mass", res.ZeroedMass,
		"zeroed_engines", res.ZeroedEngines,
		"shadows_off", res.ShadowsOff,
		"clamped_lights", res.ClampedLights,
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: compaction, strictly after the barrier.
	if p.compaction {
		res.Compacted = true
		res.DiscardedRevisions = compact(w)
		log.Info("revision history compacted",
			"discarded", res.DiscardedRevisions,
		)
	}

	// Stage 4: validate invariants before handing the graph back.
	if err := validate(w, cls, res.RunToken); err != nil {
		log.Error("graph integrity violated", "error", err)
		return nil, err
	}

	digest, err = world.DigestWorld(w)
	if err != nil {
		return nil, fmt.Errorf("digest after run: %w", err)
	}
	res.DigestAfter = digest

	log.Info("pipeline complete",
		"frozen", res.FrozenBricks,
		"shadows_off", res.ShadowsOff,
		"discarded_revisions", res.DiscardedRevisions,
		"changed", res.Changed(),
	)
	return res, nil
}
