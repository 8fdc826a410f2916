package null

import (
	"encoding/binary"
	"math"

	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/descheap/native"
)

// Every descriptor starts with a 32-bit header:
//
//	bit 31     written
//	bit 30     null view
//	bits 0-7   native.ViewKind
//	bits 8-15  native.TextureType, or 0xff for buffers
const (
	headerWritten    uint32 = 1 << 31
	headerNull       uint32 = 1 << 30
	headerKindMask   uint32 = 0xff
	headerTypeShift         = 8
	headerBufferType uint32 = 0xff
)

// Descriptor is the decoded form of one descriptor written by the null device
type Descriptor struct {
	// Written is false for descriptors that were never written
	Written bool
	// Null is true for descriptors written with CreateNullView
	Null bool
	Kind native.ViewKind

	Resource native.ResourceHandle
	IsBuffer bool
	Buffer   native.BufferViewDesc
	Texture  native.TextureViewDesc
	Sampler  native.SamplerDescriptor
}

func putHeader(target []byte, kind native.ViewKind, typeBits uint32, null bool) {
	header := headerWritten | uint32(kind)&headerKindMask | typeBits<<headerTypeShift
	if null {
		header |= headerNull
	}
	binary.LittleEndian.PutUint32(target[0:], header)
}

func clearDescriptor(target []byte) {
	for i := range target {
		target[i] = 0
	}
}

func encodeBufferView(target []byte, kind native.ViewKind, resource native.ResourceHandle, desc native.BufferViewDesc) {
	clearDescriptor(target)
	putHeader(target, kind, headerBufferType, false)
	binary.LittleEndian.PutUint32(target[4:], uint32(desc.Stride))
	binary.LittleEndian.PutUint64(target[8:], uint64(resource))
	binary.LittleEndian.PutUint64(target[16:], uint64(desc.Offset))
	binary.LittleEndian.PutUint32(target[24:], uint32(desc.Size))
	binary.LittleEndian.PutUint32(target[28:], uint32(desc.Format))
}

func encodeTextureView(target []byte, kind native.ViewKind, resource native.ResourceHandle, desc native.TextureViewDesc) {
	clearDescriptor(target)
	putHeader(target, kind, uint32(desc.Type)&0x7f, false)
	binary.LittleEndian.PutUint32(target[4:], uint32(desc.Format))
	binary.LittleEndian.PutUint64(target[8:], uint64(resource))
	binary.LittleEndian.PutUint32(target[16:], uint32(desc.BaseMipLevel))
	binary.LittleEndian.PutUint32(target[20:], uint32(desc.NumMipLevels))
	binary.LittleEndian.PutUint32(target[24:], uint32(desc.BaseArrayLayer))
	binary.LittleEndian.PutUint32(target[28:], uint32(desc.NumArrayLayers))
}

func encodeNull(target []byte, kind native.ViewKind) {
	clearDescriptor(target)
	putHeader(target, kind, 0, true)
}

func boolBit(value bool) uint32 {
	if value {
		return 1
	}
	return 0
}

func unorm8(value float32) uint32 {
	if value <= 0 {
		return 0
	}
	if value >= 1 {
		return 0xff
	}
	return uint32(value*255 + 0.5)
}

func encodeSampler(target []byte, desc native.SamplerDescriptor) {
	clearDescriptor(target)
	putHeader(target, native.ViewKindSampler, 0, false)

	filters := uint32(desc.MinFilter)&0xf |
		(uint32(desc.MagFilter)&0xf)<<4 |
		(uint32(desc.MipMapFilter)&0xf)<<8 |
		boolBit(desc.MipMapping)<<12 |
		boolBit(desc.CompareEnabled)<<13
	addressing := uint32(desc.AddressModeU)&0xf |
		(uint32(desc.AddressModeV)&0xf)<<4 |
		(uint32(desc.AddressModeW)&0xf)<<8 |
		(uint32(desc.CompareOp)&0xf)<<12
	border := unorm8(desc.BorderColor[0]) |
		unorm8(desc.BorderColor[1])<<8 |
		unorm8(desc.BorderColor[2])<<16 |
		unorm8(desc.BorderColor[3])<<24

	binary.LittleEndian.PutUint32(target[4:], filters)
	binary.LittleEndian.PutUint32(target[8:], addressing)
	binary.LittleEndian.PutUint32(target[12:], uint32(desc.MaxAnisotropy))
	binary.LittleEndian.PutUint32(target[16:], math.Float32bits(desc.MipMapLODBias))
	binary.LittleEndian.PutUint32(target[20:], math.Float32bits(desc.MinLOD))
	binary.LittleEndian.PutUint32(target[24:], math.Float32bits(desc.MaxLOD))
	binary.LittleEndian.PutUint32(target[28:], border)
}

func decodeDescriptor(source []byte, regionKind native.RegionKind) Descriptor {
	header := binary.LittleEndian.Uint32(source[0:])
	if header&headerWritten == 0 {
		return Descriptor{}
	}

	desc := Descriptor{
		Written: true,
		Null:    header&headerNull != 0,
		Kind:    native.ViewKind(header & headerKindMask),
	}

	if desc.Null {
		return desc
	}

	if regionKind == native.RegionSamplers {
		filters := binary.LittleEndian.Uint32(source[4:])
		addressing := binary.LittleEndian.Uint32(source[8:])
		border := binary.LittleEndian.Uint32(source[28:])

		desc.Sampler = native.SamplerDescriptor{
			MinFilter:      native.Filter(filters & 0xf),
			MagFilter:      native.Filter((filters >> 4) & 0xf),
			MipMapFilter:   native.Filter((filters >> 8) & 0xf),
			MipMapping:     filters&(1<<12) != 0,
			CompareEnabled: filters&(1<<13) != 0,
			AddressModeU:   native.AddressMode(addressing & 0xf),
			AddressModeV:   native.AddressMode((addressing >> 4) & 0xf),
			AddressModeW:   native.AddressMode((addressing >> 8) & 0xf),
			CompareOp:      native.CompareOp((addressing >> 12) & 0xf),
			MaxAnisotropy:  int(binary.LittleEndian.Uint32(source[12:])),
			MipMapLODBias:  math.Float32frombits(binary.LittleEndian.Uint32(source[16:])),
			MinLOD:         math.Float32frombits(binary.LittleEndian.Uint32(source[20:])),
			MaxLOD:         math.Float32frombits(binary.LittleEndian.Uint32(source[24:])),
		}
		for i := 0; i < 4; i++ {
			desc.Sampler.BorderColor[i] = float32((border>>(8*i))&0xff) / 255
		}
		return desc
	}

	desc.Resource = native.ResourceHandle(binary.LittleEndian.Uint64(source[8:]))

	if (header>>headerTypeShift)&0xff == headerBufferType {
		desc.IsBuffer = true
		desc.Buffer = native.BufferViewDesc{
			Stride: int(binary.LittleEndian.Uint32(source[4:])),
			Offset: int(binary.LittleEndian.Uint64(source[16:])),
			Size:   int(binary.LittleEndian.Uint32(source[24:])),
			Format: core1_0.Format(binary.LittleEndian.Uint32(source[28:])),
		}
		return desc
	}

	desc.Texture = native.TextureViewDesc{
		Type:           native.TextureType((header >> headerTypeShift) & 0x7f),
		Format:         core1_0.Format(binary.LittleEndian.Uint32(source[4:])),
		BaseMipLevel:   int(binary.LittleEndian.Uint32(source[16:])),
		NumMipLevels:   int(binary.LittleEndian.Uint32(source[20:])),
		BaseArrayLayer: int(binary.LittleEndian.Uint32(source[24:])),
		NumArrayLayers: int(binary.LittleEndian.Uint32(source[28:])),
	}
	return desc
}
