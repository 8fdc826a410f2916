// Package config reads resource heap descriptions from TOML files. A file describes a heap's
// slot layout and set count, the limits of the null device it is built on, the resources that
// exist on that device, and the views written into the heap.
package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/vkngwrapper/descheap/native"
	"github.com/vkngwrapper/descheap/null"
	"github.com/vkngwrapper/descheap/resheap"
)

// File is the root of a heap description
type File struct {
	Heap      Heap       `toml:"heap"`
	Device    Device     `toml:"device"`
	Resources []Resource `toml:"resources"`
	Views     []View     `toml:"views"`
}

// Heap describes the heap's shape
type Heap struct {
	Name string `toml:"name"`
	// Sets may be left out when the views fill a whole number of sets, starting from descriptor 0
	Sets                   int    `toml:"sets"`
	ExternallySynchronized bool   `toml:"externally_synchronized"`
	Slots                  []Slot `toml:"slots"`
}

// Slot is one binding slot of the layout
type Slot struct {
	Name   string   `toml:"name"`
	Type   string   `toml:"type"`
	Bind   []string `toml:"bind"`
	Stages []string `toml:"stages"`
}

// Device holds null device limits. Zero values use the device defaults.
type Device struct {
	ViewDescriptorSize      int `toml:"view_descriptor_size"`
	SamplerDescriptorSize   int `toml:"sampler_descriptor_size"`
	MaxViewDescriptors      int `toml:"max_view_descriptors"`
	MaxSamplerDescriptors   int `toml:"max_sampler_descriptors"`
	ViewPoolCapacity        int `toml:"view_pool_capacity"`
	SamplerPoolCapacity     int `toml:"sampler_pool_capacity"`
	ConstantBufferAlignment int `toml:"constant_buffer_alignment"`
}

// View is one view written to the heap. Descriptor is the global descriptor index; when it is
// left out the view goes to the descriptor after the previous view's.
type View struct {
	Descriptor *int   `toml:"descriptor"`
	Resource   string `toml:"resource"`

	Offset int    `toml:"offset"`
	Size   int    `toml:"size"`
	Format string `toml:"format"`

	TextureType    string `toml:"texture_type"`
	BaseMipLevel   int    `toml:"base_mip_level"`
	NumMipLevels   int    `toml:"num_mip_levels"`
	BaseArrayLayer int    `toml:"base_array_layer"`
	NumArrayLayers int    `toml:"num_array_layers"`
}

// Load reads and validates the file at path
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read heap description %s", path)
	}

	file, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid heap description %s", path)
	}

	return file, nil
}

// Parse decodes and validates a heap description. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var file File
	err := decoder.Decode(&file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode toml")
	}

	err = file.Validate()
	if err != nil {
		return nil, err
	}

	return &file, nil
}

// Validate checks that every name in the file resolves and every resource is well formed
func (f *File) Validate() error {
	layout, err := f.Layout()
	if err != nil {
		return err
	}

	err = layout.Validate()
	if err != nil {
		return err
	}

	if f.Heap.Sets < 0 {
		return errors.Newf("heap.sets must not be negative, but was %d", f.Heap.Sets)
	}

	names := make(map[string]struct{}, len(f.Resources))
	for index, resource := range f.Resources {
		if resource.Name == "" {
			return errors.Newf("resources[%d] has no name", index)
		}

		if _, exists := names[resource.Name]; exists {
			return errors.Newf("resource %q is declared twice", resource.Name)
		}
		names[resource.Name] = struct{}{}

		err = resource.validate()
		if err != nil {
			return errors.Wrapf(err, "resource %q", resource.Name)
		}
	}

	for index, view := range f.Views {
		if _, exists := names[view.Resource]; !exists {
			return errors.Newf("views[%d] refers to unknown resource %q", index, view.Resource)
		}

		if view.Descriptor != nil && *view.Descriptor < 0 {
			return errors.Newf("views[%d] has negative descriptor %d", index, *view.Descriptor)
		}

		if view.TextureType != "" {
			_, err = parseTextureType(view.TextureType)
			if err != nil {
				return errors.Wrapf(err, "views[%d]", index)
			}
		}

		_, err = parseFormat(view.Format)
		if err != nil {
			return errors.Wrapf(err, "views[%d]", index)
		}
	}

	return nil
}

// Layout converts the heap's slots into a resheap.Layout
func (f *File) Layout() (resheap.Layout, error) {
	layout := make(resheap.Layout, 0, len(f.Heap.Slots))
	for index, slot := range f.Heap.Slots {
		bindingSlot, err := slot.bindingSlot()
		if err != nil {
			return nil, errors.Wrapf(err, "heap.slots[%d]", index)
		}
		layout = append(layout, bindingSlot)
	}

	return layout, nil
}

// HeapDescriptor returns the heap's layout and set count
func (f *File) HeapDescriptor() (resheap.HeapDescriptor, error) {
	layout, err := f.Layout()
	if err != nil {
		return resheap.HeapDescriptor{}, err
	}

	return resheap.HeapDescriptor{
		Layout:            layout,
		NumDescriptorSets: f.Heap.Sets,
	}, nil
}

// CreateOptions returns the heap creation options
func (f *File) CreateOptions() resheap.CreateOptions {
	var options resheap.CreateOptions
	options.Name = f.Heap.Name
	if f.Heap.ExternallySynchronized {
		options.Flags |= resheap.HeapCreateExternallySynchronized
	}
	return options
}

// DeviceOptions returns the null device limits
func (f *File) DeviceOptions() null.DeviceOptions {
	return null.DeviceOptions{
		ViewDescriptorSize:      f.Device.ViewDescriptorSize,
		SamplerDescriptorSize:   f.Device.SamplerDescriptorSize,
		MaxViewDescriptors:      f.Device.MaxViewDescriptors,
		MaxSamplerDescriptors:   f.Device.MaxSamplerDescriptors,
		ViewPoolCapacity:        f.Device.ViewPoolCapacity,
		SamplerPoolCapacity:     f.Device.SamplerPoolCapacity,
		ConstantBufferAlignment: f.Device.ConstantBufferAlignment,
	}
}

// ViewBatch is a run of views written to consecutive descriptors
type ViewBatch struct {
	First int
	Views []resheap.ResourceViewDescriptor
}

// ViewBatches resolves the file's views against created resources and groups them into runs of
// consecutive descriptors, in file order
func (f *File) ViewBatches(resources map[string]native.Resource) ([]ViewBatch, error) {
	var batches []ViewBatch
	next := 0

	for index, view := range f.Views {
		resource, ok := resources[view.Resource]
		if !ok {
			return nil, errors.Newf("views[%d] refers to resource %q, which was not created", index, view.Resource)
		}

		descriptor := next
		if view.Descriptor != nil {
			descriptor = *view.Descriptor
		}

		desc, err := view.descriptor(resource)
		if err != nil {
			return nil, errors.Wrapf(err, "views[%d]", index)
		}

		if len(batches) == 0 || descriptor != next {
			batches = append(batches, ViewBatch{First: descriptor})
		}

		last := &batches[len(batches)-1]
		last.Views = append(last.Views, desc)
		next = descriptor + 1
	}

	return batches, nil
}

func (v View) descriptor(resource native.Resource) (resheap.ResourceViewDescriptor, error) {
	format, err := parseFormat(v.Format)
	if err != nil {
		return resheap.ResourceViewDescriptor{}, err
	}

	desc := resheap.ResourceViewDescriptor{
		Resource: resource,
		BufferView: resheap.BufferViewDescriptor{
			Offset: v.Offset,
			Size:   v.Size,
			Format: format,
		},
	}

	if resource.ResourceType() == native.ResourceTypeTexture {
		textureType := native.TextureTypeUndefined
		if v.TextureType != "" {
			textureType, err = parseTextureType(v.TextureType)
			if err != nil {
				return resheap.ResourceViewDescriptor{}, err
			}
		}

		desc.TextureView = resheap.TextureViewDescriptor{
			Type:   textureType,
			Format: format,
			Subresource: resheap.Subresource{
				BaseMipLevel:   v.BaseMipLevel,
				NumMipLevels:   v.NumMipLevels,
				BaseArrayLayer: v.BaseArrayLayer,
				NumArrayLayers: v.NumArrayLayers,
			},
		}
	}

	return desc, nil
}

var resourceTypes = map[string]native.ResourceType{
	"buffer":  native.ResourceTypeBuffer,
	"texture": native.ResourceTypeTexture,
	"sampler": native.ResourceTypeSampler,
}

var bindFlags = map[string]resheap.BindFlags{
	"constant-buffer": resheap.BindConstantBuffer,
	"sampled":         resheap.BindSampled,
	"storage":         resheap.BindStorage,
}

var stageFlags = map[string]resheap.StageFlags{
	"vertex":          resheap.StageVertex,
	"tess-control":    resheap.StageTessControl,
	"tess-evaluation": resheap.StageTessEvaluation,
	"geometry":        resheap.StageGeometry,
	"fragment":        resheap.StageFragment,
	"compute":         resheap.StageCompute,
	"all-graphics":    resheap.StageAllGraphics,
	"all":             resheap.StageAll,
}

func lookup[T any](table map[string]T, kind, name string) (T, error) {
	value, ok := table[strings.ToLower(name)]
	if !ok {
		var zero T
		return zero, errors.Newf("unknown %s %q", kind, name)
	}
	return value, nil
}

func (s Slot) bindingSlot() (resheap.BindingSlot, error) {
	resourceType, err := lookup(resourceTypes, "resource type", s.Type)
	if err != nil {
		return resheap.BindingSlot{}, err
	}

	slot := resheap.BindingSlot{
		Type: resourceType,
		Name: s.Name,
	}

	for _, name := range s.Bind {
		flag, err := lookup(bindFlags, "bind flag", name)
		if err != nil {
			return resheap.BindingSlot{}, err
		}
		slot.BindFlags |= flag
	}

	for _, name := range s.Stages {
		flag, err := lookup(stageFlags, "stage", name)
		if err != nil {
			return resheap.BindingSlot{}, err
		}
		slot.Stages |= flag
	}

	return slot, nil
}
