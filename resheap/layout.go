package resheap

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/descheap/native"
)

// BindFlags describe how a binding slot's resource is accessed by shaders
type BindFlags int32

var bindFlagsMapping = common.NewFlagStringMapping[BindFlags]()

func (f BindFlags) Register(str string) {
	bindFlagsMapping.Register(f, str)
}
func (f BindFlags) String() string {
	return bindFlagsMapping.FlagsToString(f)
}

const (
	// BindConstantBuffer binds a buffer as a constant-buffer view
	BindConstantBuffer BindFlags = 1 << iota
	// BindSampled binds a resource as a read-only shader-resource view
	BindSampled
	// BindStorage binds a resource as a writable unordered-access view. Resources in storage slots
	// take part in barrier tracking.
	BindStorage
)

func init() {
	BindConstantBuffer.Register("BindConstantBuffer")
	BindSampled.Register("BindSampled")
	BindStorage.Register("BindStorage")
}

// StageFlags are the shader stages a binding slot is visible to. They are carried for the
// pipeline-layout collaborator and have no effect on descriptor placement.
type StageFlags int32

var stageFlagsMapping = common.NewFlagStringMapping[StageFlags]()

func (f StageFlags) Register(str string) {
	stageFlagsMapping.Register(f, str)
}
func (f StageFlags) String() string {
	return stageFlagsMapping.FlagsToString(f)
}

const (
	StageVertex StageFlags = 1 << iota
	StageTessControl
	StageTessEvaluation
	StageGeometry
	StageFragment
	StageCompute

	StageAllGraphics = StageVertex | StageTessControl | StageTessEvaluation | StageGeometry | StageFragment
	StageAll         = StageAllGraphics | StageCompute
)

func init() {
	StageVertex.Register("StageVertex")
	StageTessControl.Register("StageTessControl")
	StageTessEvaluation.Register("StageTessEvaluation")
	StageGeometry.Register("StageGeometry")
	StageFragment.Register("StageFragment")
	StageCompute.Register("StageCompute")
}

// BindingSlot is a single entry of a descriptor set layout
type BindingSlot struct {
	// Type is the kind of resource the slot holds. It must not be native.ResourceTypeUndefined.
	Type native.ResourceType
	// BindFlags selects the view written for buffer and texture slots. It is ignored for samplers.
	BindFlags BindFlags
	Stages    StageFlags
	// Name is an optional debug label
	Name string
}

// ViewKind returns the kind of descriptor that is written for this slot
func (s BindingSlot) ViewKind() native.ViewKind {
	switch {
	case s.Type == native.ResourceTypeSampler:
		return native.ViewKindSampler
	case s.BindFlags&BindConstantBuffer != 0:
		return native.ViewKindConstantBuffer
	case s.BindFlags&BindStorage != 0:
		return native.ViewKindUnorderedAccess
	default:
		return native.ViewKindShaderResource
	}
}

// RegionKind returns the kind of region that this slot's descriptors live in
func (s BindingSlot) RegionKind() native.RegionKind {
	return s.ViewKind().RegionKind()
}

// IsWritable returns true if resources bound to this slot may be written by shaders
func (s BindingSlot) IsWritable() bool {
	return s.ViewKind() == native.ViewKindUnorderedAccess
}

// Validate returns an error if the slot describes an impossible binding
func (s BindingSlot) Validate() error {
	switch s.Type {
	case native.ResourceTypeBuffer, native.ResourceTypeSampler:
	case native.ResourceTypeTexture:
		if s.BindFlags&BindConstantBuffer != 0 {
			return errors.Newf("texture slot %q cannot be bound as a constant buffer", s.Name)
		}
	default:
		return errors.Newf("slot %q has invalid resource type %s", s.Name, s.Type)
	}

	if s.Type != native.ResourceTypeSampler && s.BindFlags&BindConstantBuffer != 0 && s.BindFlags&BindStorage != 0 {
		return errors.Newf("slot %q cannot be bound as both a constant buffer and storage", s.Name)
	}

	return nil
}

// Layout is the ordered list of binding slots shared by every descriptor set of a heap
type Layout []BindingSlot

// Validate returns an error if the layout is empty or any slot is invalid
func (l Layout) Validate() error {
	if len(l) == 0 {
		return errors.New("layout must contain at least one binding slot")
	}

	for index, slot := range l {
		err := slot.Validate()
		if err != nil {
			return errors.Wrapf(err, "binding slot %d", index)
		}
	}

	return nil
}

// NumSlots returns the number of slots of the provided region kind
func (l Layout) NumSlots(kind native.RegionKind) int {
	count := 0
	for _, slot := range l {
		if slot.RegionKind() == kind {
			count++
		}
	}
	return count
}

// NumWritableSlots returns the number of slots whose resources take part in barrier tracking
func (l Layout) NumWritableSlots() int {
	count := 0
	for _, slot := range l {
		if slot.IsWritable() {
			count++
		}
	}
	return count
}
