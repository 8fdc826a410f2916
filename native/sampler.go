package native

type Filter uint32

const (
	FilterNearest Filter = iota
	FilterLinear
)

type AddressMode uint32

const (
	AddressModeRepeat AddressMode = iota
	AddressModeMirror
	AddressModeClamp
	AddressModeBorder
	AddressModeMirrorOnce
)

type CompareOp uint32

const (
	CompareNever CompareOp = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

type SamplerDescriptor struct {
	MinFilter    Filter
	MagFilter    Filter
	MipMapFilter Filter
	MipMapping   bool

	AddressModeU AddressMode
	AddressModeV AddressMode
	AddressModeW AddressMode

	MipMapLODBias float32
	MinLOD        float32
	MaxLOD        float32
	MaxAnisotropy int

	CompareEnabled bool
	CompareOp      CompareOp
	BorderColor    [4]float32
}
