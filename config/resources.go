package config

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/descheap/native"
	"github.com/vkngwrapper/descheap/null"
)

// Resource is a buffer, texture, or sampler created on the null device before views are written
type Resource struct {
	Name string `toml:"name"`
	Type string `toml:"type"`

	Size   int      `toml:"size"`
	Stride int      `toml:"stride"`
	Usage  []string `toml:"usage"`

	TextureType string `toml:"texture_type"`
	Format      string `toml:"format"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Depth       int    `toml:"depth"`
	MipLevels   int    `toml:"mip_levels"`
	ArrayLayers int    `toml:"array_layers"`

	Sampler Sampler `toml:"sampler"`
}

// Sampler holds sampler state. Blank strings select nearest filtering, repeat addressing, and
// no comparison.
type Sampler struct {
	MinFilter     string     `toml:"min_filter"`
	MagFilter     string     `toml:"mag_filter"`
	MipMapFilter  string     `toml:"mip_map_filter"`
	MipMapping    bool       `toml:"mip_mapping"`
	AddressModeU  string     `toml:"address_mode_u"`
	AddressModeV  string     `toml:"address_mode_v"`
	AddressModeW  string     `toml:"address_mode_w"`
	MipMapLODBias float32    `toml:"mip_map_lod_bias"`
	MinLOD        float32    `toml:"min_lod"`
	MaxLOD        float32    `toml:"max_lod"`
	MaxAnisotropy int        `toml:"max_anisotropy"`
	Compare       string     `toml:"compare"`
	BorderColor   [4]float32 `toml:"border_color"`
}

var bufferUsages = map[string]core1_0.BufferUsageFlags{
	"storage":      core1_0.BufferUsageStorageBuffer,
	"uniform":      core1_0.BufferUsageUniformBuffer,
	"transfer-src": core1_0.BufferUsageTransferSrc,
	"transfer-dst": core1_0.BufferUsageTransferDst,
}

var imageUsages = map[string]core1_0.ImageUsageFlags{
	"sampled":      core1_0.ImageUsageSampled,
	"storage":      core1_0.ImageUsageStorage,
	"transfer-src": core1_0.ImageUsageTransferSrc,
	"transfer-dst": core1_0.ImageUsageTransferDst,
}

var textureTypes = map[string]native.TextureType{
	"1d":          native.Texture1D,
	"2d":          native.Texture2D,
	"3d":          native.Texture3D,
	"cube":        native.TextureCube,
	"1d-array":    native.Texture1DArray,
	"2d-array":    native.Texture2DArray,
	"cube-array":  native.TextureCubeArray,
	"2d-ms":       native.Texture2DMS,
	"2d-ms-array": native.Texture2DMSArray,
}

var formats = map[string]core1_0.Format{
	"a1r5g5b5-unorm-pack16": core1_0.FormatA1R5G5B5UnsignedNormalizedPacked,
	"a8b8g8r8-uint-pack32":  core1_0.FormatA8B8G8R8UnsignedIntPacked,
}

var filters = map[string]native.Filter{
	"":        native.FilterNearest,
	"nearest": native.FilterNearest,
	"linear":  native.FilterLinear,
}

var addressModes = map[string]native.AddressMode{
	"":            native.AddressModeRepeat,
	"repeat":      native.AddressModeRepeat,
	"mirror":      native.AddressModeMirror,
	"clamp":       native.AddressModeClamp,
	"border":      native.AddressModeBorder,
	"mirror-once": native.AddressModeMirrorOnce,
}

var compareOps = map[string]native.CompareOp{
	"never":         native.CompareNever,
	"less":          native.CompareLess,
	"equal":         native.CompareEqual,
	"less-equal":    native.CompareLessEqual,
	"greater":       native.CompareGreater,
	"not-equal":     native.CompareNotEqual,
	"greater-equal": native.CompareGreaterEqual,
	"always":        native.CompareAlways,
}

func parseTextureType(name string) (native.TextureType, error) {
	return lookup(textureTypes, "texture type", name)
}

// parseFormat accepts a format name, a raw numeric format value, or a blank string for no format
func parseFormat(name string) (core1_0.Format, error) {
	if name == "" {
		return 0, nil
	}

	if value, err := strconv.Atoi(name); err == nil {
		if value < 0 {
			return 0, errors.Newf("format %d must not be negative", value)
		}
		return core1_0.Format(value), nil
	}

	return lookup(formats, "format", name)
}

func (r Resource) validate() error {
	switch strings.ToLower(r.Type) {
	case "buffer":
		_, err := r.bufferDescriptor()
		return err
	case "texture":
		_, err := r.textureDescriptor()
		return err
	case "sampler":
		_, err := r.samplerDescriptor()
		return err
	default:
		return errors.Newf("unknown resource type %q", r.Type)
	}
}

func (r Resource) bufferDescriptor() (null.BufferDescriptor, error) {
	desc := null.BufferDescriptor{
		Size:   r.Size,
		Stride: r.Stride,
	}

	for _, name := range r.Usage {
		usage, err := lookup(bufferUsages, "buffer usage", name)
		if err != nil {
			return null.BufferDescriptor{}, err
		}
		desc.Usage |= usage
	}

	if desc.Size < 1 {
		return null.BufferDescriptor{}, errors.Newf("buffer size must be at least 1, but was %d", desc.Size)
	}

	return desc, nil
}

func (r Resource) textureDescriptor() (null.TextureDescriptor, error) {
	textureType, err := parseTextureType(r.TextureType)
	if err != nil {
		return null.TextureDescriptor{}, err
	}

	format, err := parseFormat(r.Format)
	if err != nil {
		return null.TextureDescriptor{}, err
	}

	desc := null.TextureDescriptor{
		Type:        textureType,
		Format:      format,
		Extent:      native.Extent3D{Width: r.Width, Height: r.Height, Depth: r.Depth},
		MipLevels:   r.MipLevels,
		ArrayLayers: r.ArrayLayers,
	}

	if desc.Extent.Height == 0 {
		desc.Extent.Height = 1
	}
	if desc.Extent.Depth == 0 {
		desc.Extent.Depth = 1
	}

	for _, name := range r.Usage {
		usage, err := lookup(imageUsages, "texture usage", name)
		if err != nil {
			return null.TextureDescriptor{}, err
		}
		desc.Usage |= usage
	}

	return desc, nil
}

func (r Resource) samplerDescriptor() (native.SamplerDescriptor, error) {
	s := r.Sampler
	var desc native.SamplerDescriptor
	var err error

	for _, filter := range []struct {
		name   string
		target *native.Filter
	}{
		{s.MinFilter, &desc.MinFilter},
		{s.MagFilter, &desc.MagFilter},
		{s.MipMapFilter, &desc.MipMapFilter},
	} {
		*filter.target, err = lookup(filters, "filter", filter.name)
		if err != nil {
			return native.SamplerDescriptor{}, err
		}
	}

	for _, mode := range []struct {
		name   string
		target *native.AddressMode
	}{
		{s.AddressModeU, &desc.AddressModeU},
		{s.AddressModeV, &desc.AddressModeV},
		{s.AddressModeW, &desc.AddressModeW},
	} {
		*mode.target, err = lookup(addressModes, "address mode", mode.name)
		if err != nil {
			return native.SamplerDescriptor{}, err
		}
	}

	if s.Compare != "" {
		desc.CompareEnabled = true
		desc.CompareOp, err = lookup(compareOps, "compare op", s.Compare)
		if err != nil {
			return native.SamplerDescriptor{}, err
		}
	}

	desc.MipMapping = s.MipMapping
	desc.MipMapLODBias = s.MipMapLODBias
	desc.MinLOD = s.MinLOD
	desc.MaxLOD = s.MaxLOD
	desc.MaxAnisotropy = s.MaxAnisotropy
	desc.BorderColor = s.BorderColor

	return desc, nil
}

// Create creates the resource on the provided device
func (r Resource) Create(device *null.Device) (native.Resource, error) {
	switch strings.ToLower(r.Type) {
	case "buffer":
		desc, err := r.bufferDescriptor()
		if err != nil {
			return nil, err
		}
		buffer, err := device.NewBuffer(desc)
		if err != nil {
			return nil, err
		}
		return buffer, nil
	case "texture":
		desc, err := r.textureDescriptor()
		if err != nil {
			return nil, err
		}
		texture, err := device.NewTexture(desc)
		if err != nil {
			return nil, err
		}
		return texture, nil
	case "sampler":
		desc, err := r.samplerDescriptor()
		if err != nil {
			return nil, err
		}
		return device.NewSampler(desc), nil
	default:
		return nil, errors.Newf("unknown resource type %q", r.Type)
	}
}

// CreateResources creates every resource in the file and returns them by name
func (f *File) CreateResources(device *null.Device) (map[string]native.Resource, error) {
	resources := make(map[string]native.Resource, len(f.Resources))
	for _, resource := range f.Resources {
		created, err := resource.Create(device)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create resource %q", resource.Name)
		}
		resources[resource.Name] = created
	}

	return resources, nil
}
