// Package transform implements the Transform component: position, rotation
// and scale, optionally composed with a parent transform.
package transform

import (
	"github.com/TheBitDrifter/litter"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
)

// Component is the typed descriptor of Transform.
var Component = litter.FactoryNewComponent[Transform]()

// ErrParentCycle is returned by SetParent when the new parent is the
// transform itself or one of its descendants.
var ErrParentCycle = eris.New("transform cannot be parented to itself or to a descendant")

// Transform is a component that places its entity in space. The parent link
// and child list are kept consistent in one direction only: setting a parent
// appends to that parent's children, but nothing ever removes stale
// children. See PruneChildren.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	parent    litter.ComponentReference[Transform]
	hasParent bool
	linked    bool // self appended to parent's children
	children  []litter.ComponentReference[Transform]

	self    litter.ComponentReference[Transform]
	hasSelf bool
}

// New returns a detached transform.
func New(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) *Transform {
	return &Transform{Position: position, Rotation: rotation, Scale: scale}
}

// NewWithParent returns an identity transform that joins parent's children
// once it is attached to an entity inside a world.
func NewWithParent(parent litter.ComponentReference[Transform]) *Transform {
	t := &Transform{}
	t.Init()
	t.parent = parent
	t.hasParent = true
	return t
}

// Init sets the identity rotation and unit scale.
func (t *Transform) Init() {
	t.Rotation = mgl32.QuatIdent()
	t.Scale = mgl32.Vec3{1, 1, 1}
}

func (t *Transform) SetSelfReference(g litter.SelfReferenceGuard) {
	self, err := litter.GuardComponent[Transform](g)
	if err != nil {
		return
	}
	t.self = self
	t.hasSelf = true
	t.link()
}

func (t *Transform) OnAttach() {
	t.link()
}

// link appends t to its parent's children once t can name itself.
func (t *Transform) link() {
	if !t.hasParent || t.linked || !t.hasSelf {
		return
	}
	self := t.self
	t.parent.Write(func(p *Transform) {
		p.children = append(p.children, self)
	})
	t.linked = true
}

// SetParent makes p the parent of t. When t is already attached it joins p's
// children immediately, otherwise once it is attached.
//
// Cycles are only detected once t is inside a world, since a detached
// transform does not know its own reference yet. Parenting a detached
// transform to itself or a descendant is not caught, and Matrix then never
// returns.
func (t *Transform) SetParent(p litter.ComponentReference[Transform]) error {
	if t.hasSelf {
		cur := p
		for {
			if cur == t.self {
				return ErrParentCycle
			}
			var next litter.ComponentReference[Transform]
			var ok bool
			cur.Read(func(c *Transform) {
				next, ok = c.parent, c.hasParent
			})
			if !ok {
				break
			}
			cur = next
		}
	}
	t.parent = p
	t.hasParent = true
	t.linked = false
	t.link()
	return nil
}

// Parent returns the parent reference, if any.
func (t *Transform) Parent() (litter.ComponentReference[Transform], bool) {
	return t.parent, t.hasParent
}

// Children returns every transform that was ever parented to t, including
// ones since destroyed or reparented.
func (t *Transform) Children() []litter.ComponentReference[Transform] {
	return t.children
}

// PruneChildren drops children that were destroyed or reparented away and
// returns how many were dropped. It must be called while no child is
// mutably borrowed.
func (t *Transform) PruneChildren() int {
	kept := t.children[:0]
	for _, child := range t.children {
		if !child.Valid() {
			continue
		}
		mine := false
		child.Read(func(c *Transform) {
			mine = c.hasParent && t.hasSelf && c.parent == t.self
		})
		if mine {
			kept = append(kept, child)
		}
	}
	dropped := len(t.children) - len(kept)
	clear(t.children[len(kept):])
	t.children = kept
	return dropped
}

func (t *Transform) local() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// Matrix returns the local-to-world matrix, composed through every ancestor.
func (t *Transform) Matrix() mgl32.Mat4 {
	m := t.local()
	if t.hasParent {
		t.parent.Read(func(p *Transform) {
			m = p.Matrix().Mul4(m)
		})
	}
	return m
}

func (t *Transform) MatrixTransposed() mgl32.Mat4 {
	return t.Matrix().Transpose()
}

func (t *Transform) PositionGlobal() mgl32.Vec3 {
	if !t.hasParent {
		return t.Position
	}
	var pos mgl32.Vec3
	t.parent.Read(func(p *Transform) {
		pos = p.Matrix().Mul4x1(t.Position.Vec4(1)).Vec3()
	})
	return pos
}

func (t *Transform) RotationGlobal() mgl32.Quat {
	if !t.hasParent {
		return t.Rotation
	}
	var rot mgl32.Quat
	t.parent.Read(func(p *Transform) {
		rot = p.RotationGlobal().Mul(t.Rotation)
	})
	return rot
}

func (t *Transform) ScaleGlobal() mgl32.Vec3 {
	if !t.hasParent {
		return t.Scale
	}
	var scale mgl32.Vec3
	t.parent.Read(func(p *Transform) {
		ps := p.ScaleGlobal()
		scale = mgl32.Vec3{ps[0] * t.Scale[0], ps[1] * t.Scale[1], ps[2] * t.Scale[2]}
	})
	return scale
}
