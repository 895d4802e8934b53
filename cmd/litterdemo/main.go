// Command litterdemo builds a forest of spinning transforms and ticks it.
package main

import (
	"os"
	"time"

	"github.com/TheBitDrifter/litter"
	"github.com/TheBitDrifter/litter/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Spin rotates the transform on its entity around Z every update.
type Spin struct {
	Speed float32
	guard litter.SelfReferenceGuard
}

func (*Spin) Dependencies() []litter.ComponentType {
	return []litter.ComponentType{transform.Component}
}

func (s *Spin) SetSelfReference(g litter.SelfReferenceGuard) { s.guard = g }

func (s *Spin) Update() {
	tr, err := litter.GuardComponent[transform.Transform](s.guard)
	if err != nil {
		return
	}
	tr.Write(func(t *transform.Transform) {
		t.Rotation = mgl32.QuatRotate(s.Speed, mgl32.Vec3{0, 0, 1}).Mul(t.Rotation).Normalize()
	})
}

// Expiry removes its entity from the world after a number of updates.
type Expiry struct {
	world *litter.World
	id    litter.EntityID
	ticks int
}

func (e *Expiry) Update() {
	e.ticks--
	if e.ticks == 0 {
		_ = e.world.EnqueueRemoveEntityByID(e.id)
	}
}

func main() {
	if err := run(); err != nil {
		log := zerolog.New(os.Stderr)
		log.Fatal().Err(err).Msg("litterdemo failed")
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return eris.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Str("component", "litterdemo").Logger()
	litter.Config.SetLogger(logger)

	world := litter.Factory.NewWorld()
	defer world.Close()

	leaves, err := buildForest(world, cfg)
	if err != nil {
		return err
	}
	logger.Info().Int("entities", world.EntityCount()).Int("depth", cfg.Depth).Msg("forest built")

	start := time.Now()
	for tick := range cfg.Ticks {
		if err := world.Update(); err != nil {
			return eris.Wrapf(err, "tick %d", tick)
		}
	}
	logger.Info().
		Int("ticks", cfg.Ticks).
		Dur("elapsed", time.Since(start)).
		Int("entities", world.EntityCount()).
		Msg("simulation finished")

	for _, leaf := range leaves {
		if !leaf.Valid() {
			continue
		}
		leaf.Read(func(t *transform.Transform) {
			p := t.PositionGlobal()
			logger.Info().Float32("x", p.X()).Float32("y", p.Y()).Float32("z", p.Z()).Msg("first surviving leaf")
		})
		break
	}

	stats := world.CacheStats()
	logger.Info().Uint64("scans", stats.Scans).Uint64("hits", stats.Hits).Msg("query cache")
	return nil
}

// buildForest lays out cfg.Entities transforms as chains of cfg.Depth links,
// each link one unit along X from its parent. Every link spins, and the leaf
// of every second chain expires halfway through the run.
func buildForest(w *litter.World, cfg Config) ([]litter.ComponentReference[transform.Transform], error) {
	var leaves []litter.ComponentReference[transform.Transform]
	chain := 0
	for made := 0; made < cfg.Entities; chain++ {
		var parent litter.ComponentReference[transform.Transform]
		for link := 0; link < cfg.Depth && made < cfg.Entities; link++ {
			var tr *transform.Transform
			if link == 0 {
				tr = transform.New(mgl32.Vec3{0, float32(chain), 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
			} else {
				tr = transform.NewWithParent(parent)
				tr.Position = mgl32.Vec3{1, 0, 0}
			}

			b := litter.Factory.NewEntityBuilder()
			litter.AddExistingComponent(b, tr)
			litter.AddExistingComponent(b, &Spin{Speed: 0.01 * float32(link+1)})
			leaf := link == cfg.Depth-1 || made == cfg.Entities-1
			expiry := &Expiry{world: w, ticks: cfg.Ticks / 2}
			if leaf && chain%2 == 1 && expiry.ticks > 0 {
				litter.AddExistingComponent(b, expiry)
			}
			e, err := b.Create()
			if err != nil {
				return nil, eris.Wrap(err, "failed to build transform entity")
			}
			expiry.id = e.ID()

			if _, err := w.AddEntity(e); err != nil {
				return nil, eris.Wrap(err, "failed to add transform entity")
			}
			ref, err := transform.Component.GetFromEntity(e)
			if err != nil {
				return nil, err
			}
			parent = ref
			made++
		}
		leaves = append(leaves, parent)
	}
	return leaves, nil
}
