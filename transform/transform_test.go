package transform

import (
	"math"
	"testing"

	"github.com/TheBitDrifter/litter"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawn(t *testing.T, w *litter.World, tr *Transform) litter.ComponentReference[Transform] {
	t.Helper()
	b := litter.Factory.NewEntityBuilder()
	if tr == nil {
		b.AddComponent(Component)
	} else {
		litter.AddExistingComponent(b, tr)
	}
	e, err := b.Create()
	require.NoError(t, err)
	_, err = w.AddEntity(e)
	require.NoError(t, err)
	ref, err := Component.GetFromEntity(e)
	require.NoError(t, err)
	return ref
}

func childCount(ref litter.ComponentReference[Transform]) int {
	n := 0
	ref.Read(func(t *Transform) { n = len(t.Children()) })
	return n
}

func newWorld(t *testing.T) *litter.World {
	w := litter.Factory.NewWorld()
	t.Cleanup(w.Close)
	return w
}

func TestTransformInit(t *testing.T) {
	t.Parallel()
	world := newWorld(t)
	ref := spawn(t, world, nil)
	ref.Read(func(tr *Transform) {
		assert.Equal(t, mgl32.QuatIdent(), tr.Rotation)
		assert.Equal(t, mgl32.Vec3{1, 1, 1}, tr.Scale)
		assert.Equal(t, mgl32.Vec3{}, tr.Position)
		assert.True(t, tr.Matrix().ApproxEqual(mgl32.Ident4()))
		_, ok := tr.Parent()
		assert.False(t, ok)
	})
}

func TestTransformChildrenFromConstructor(t *testing.T) {
	t.Parallel()
	world := newWorld(t)
	parent := spawn(t, world, nil)

	for range 3 {
		spawn(t, world, NewWithParent(parent))
	}
	assert.Equal(t, 3, childCount(parent))
}

func TestTransformLinksOnWorldAdd(t *testing.T) {
	t.Parallel()
	world := newWorld(t)
	parent := spawn(t, world, nil)

	b := litter.Factory.NewEntityBuilder()
	litter.AddExistingComponent(b, NewWithParent(parent))
	child, err := b.Create()
	require.NoError(t, err)
	assert.Equal(t, 0, childCount(parent), "a transform outside a world cannot name itself yet")

	_, err = world.AddEntity(child)
	require.NoError(t, err)
	assert.Equal(t, 1, childCount(parent))
}

func TestTransformSetParent(t *testing.T) {
	t.Parallel()
	world := newWorld(t)
	parent := spawn(t, world, nil)

	children := make([]litter.ComponentReference[Transform], 3)
	for i := range children {
		children[i] = spawn(t, world, nil)
		children[i].Write(func(c *Transform) {
			require.NoError(t, c.SetParent(parent))
		})
	}
	assert.Equal(t, 3, childCount(parent))

	parent.Read(func(p *Transform) {
		assert.Equal(t, children, p.Children())
	})
	children[0].Read(func(c *Transform) {
		got, ok := c.Parent()
		require.True(t, ok)
		assert.Equal(t, parent, got)
	})
}

func TestTransformCycles(t *testing.T) {
	t.Parallel()
	world := newWorld(t)
	root := spawn(t, world, nil)
	mid := spawn(t, world, NewWithParent(root))
	leaf := spawn(t, world, NewWithParent(mid))

	tests := []struct {
		name   string
		target litter.ComponentReference[Transform]
		parent litter.ComponentReference[Transform]
	}{
		{"Self", root, root},
		{"Direct child", root, mid},
		{"Grandchild", root, leaf},
		{"Child of leaf", mid, leaf},
	}

	for _, tt := range tests {
		tt.target.Write(func(tr *Transform) {
			err := tr.SetParent(tt.parent)
			assert.True(t, eris.Is(err, ErrParentCycle), "%s: got %v", tt.name, err)
		})
	}

	root.Read(func(tr *Transform) {
		_, ok := tr.Parent()
		assert.False(t, ok, "rejected parents leave the transform unchanged")
	})
	assert.Equal(t, 1, childCount(mid))
}

func TestTransformGlobals(t *testing.T) {
	t.Parallel()
	world := newWorld(t)

	rot := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1})
	parent := spawn(t, world, New(mgl32.Vec3{1, 2, 3}, rot, mgl32.Vec3{2, 2, 2}))

	childTr := NewWithParent(parent)
	childTr.Position = mgl32.Vec3{1, 0, 0}
	childTr.Scale = mgl32.Vec3{1, 3, 1}
	child := spawn(t, world, childTr)

	var parentMatrix mgl32.Mat4
	parent.Read(func(p *Transform) { parentMatrix = p.Matrix() })

	child.Read(func(c *Transform) {
		global := c.PositionGlobal()
		assert.True(t, global.ApproxEqualThreshold(mgl32.Vec3{1, 4, 3}, 1e-5), "got %v", global)
		assert.True(t, global.ApproxEqualThreshold(parentMatrix.Mul4x1(c.Position.Vec4(1)).Vec3(), 1e-5))

		assert.True(t, c.Matrix().ApproxEqualThreshold(parentMatrix.Mul4(c.local()), 1e-5))
		assert.Equal(t, c.Matrix().Transpose(), c.MatrixTransposed())

		assert.True(t, c.RotationGlobal().ApproxEqualThreshold(rot, 1e-5))
		assert.Equal(t, mgl32.Vec3{2, 6, 2}, c.ScaleGlobal())
	})

	parent.Read(func(p *Transform) {
		assert.Equal(t, p.Position, p.PositionGlobal())
		assert.Equal(t, p.Rotation, p.RotationGlobal())
		assert.Equal(t, p.Scale, p.ScaleGlobal())
	})
}

func TestTransformPruneChildren(t *testing.T) {
	t.Parallel()
	world := newWorld(t)
	parent := spawn(t, world, nil)
	other := spawn(t, world, nil)

	var entities []*litter.Entity
	for range 3 {
		b := litter.Factory.NewEntityBuilder()
		litter.AddExistingComponent(b, NewWithParent(parent))
		e, err := b.Create()
		require.NoError(t, err)
		_, err = world.AddEntity(e)
		require.NoError(t, err)
		entities = append(entities, e)
	}

	require.NoError(t, world.RemoveEntity(entities[0]))
	moved, err := Component.GetFromEntity(entities[1])
	require.NoError(t, err)
	moved.Write(func(c *Transform) { require.NoError(t, c.SetParent(other)) })

	assert.Equal(t, 3, childCount(parent), "stale children are kept until pruned")

	dropped := 0
	parent.Write(func(p *Transform) { dropped = p.PruneChildren() })
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 1, childCount(parent))
	assert.Equal(t, 1, childCount(other))
}

func TestTransformParentGone(t *testing.T) {
	t.Parallel()
	world := newWorld(t)

	b := litter.Factory.NewEntityBuilder().AddComponent(Component)
	parentEntity, err := b.Create()
	require.NoError(t, err)
	_, err = world.AddEntity(parentEntity)
	require.NoError(t, err)
	parent, err := Component.GetFromEntity(parentEntity)
	require.NoError(t, err)

	child := spawn(t, world, NewWithParent(parent))
	require.NoError(t, world.RemoveEntity(parentEntity))

	child.Read(func(c *Transform) {
		assert.Panics(t, func() { c.PositionGlobal() })
	})
}

func TestTransformCounts(t *testing.T) {
	t.Parallel()
	world := newWorld(t)
	root := spawn(t, world, nil)
	for range 199 {
		spawn(t, world, NewWithParent(root))
	}

	refs, ok := Component.GetAll(world)
	require.True(t, ok)
	assert.Len(t, refs, 200)

	b := litter.Factory.NewEntityBuilder().AddComponent(Component)
	extra, err := b.Create()
	require.NoError(t, err)
	_, err = world.AddEntity(extra)
	require.NoError(t, err)
	refs, _ = Component.GetAll(world)
	assert.Len(t, refs, 201)

	require.NoError(t, world.RemoveEntityByID(extra.ID()))
	refs, _ = Component.GetAll(world)
	assert.Len(t, refs, 200)
	assert.Equal(t, 199, childCount(root))
}

func TestTransformCycleCheckNeedsWorld(t *testing.T) {
	t.Parallel()
	world := newWorld(t)
	parent := spawn(t, world, nil)

	detached := New(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	require.NoError(t, detached.SetParent(parent))
	assert.False(t, detached.hasSelf)
	assert.Equal(t, 0, childCount(parent), "linking waits for the world")

	child := spawn(t, world, detached)
	assert.Equal(t, 1, childCount(parent))
	child.Write(func(c *Transform) {
		assert.True(t, eris.Is(c.SetParent(child), ErrParentCycle))
	})
}
