package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/descheap/native"
)

type report struct {
	Heap struct {
		Name           string
		DescriptorSets int
		Sets           []struct {
			Slots []struct {
				Name      string
				Populated bool
			}
		}
	}
	Device struct {
		RegionViews struct {
			DescriptorSize int
			Regions        []struct {
				Name string
				Free bool
			}
		}
	}
	BarrierSubmissions [][]struct {
		Type     string
		Resource int
	}
	DescriptorWrites struct {
		Views          int
		ViewsPerSet    int
		SamplersPerSet int
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunParticles(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(testLogger(), &out, "../../config/testdata/particles.toml", true))

	var parsed report
	require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))

	require.Equal(t, "particles", parsed.Heap.Name)
	require.Equal(t, 4, parsed.Heap.DescriptorSets)
	require.Len(t, parsed.Heap.Sets, 4)

	// The misaligned constant-buffer view at descriptor 6 is skipped
	require.True(t, parsed.Heap.Sets[1].Slots[1].Populated)
	require.False(t, parsed.Heap.Sets[1].Slots[2].Populated)

	require.Equal(t, 64, parsed.Device.RegionViews.DescriptorSize)
	require.Equal(t, 4, parsed.DescriptorWrites.Views)
	require.Equal(t, 3, parsed.DescriptorWrites.ViewsPerSet)
	require.Equal(t, 1, parsed.DescriptorWrites.SamplersPerSet)

	// Only the two sets with a storage view bound record barriers
	require.Len(t, parsed.BarrierSubmissions, 2)
	for _, submission := range parsed.BarrierSubmissions {
		require.Len(t, submission, 1)
		require.Equal(t, native.BarrierTypeUnorderedAccess.String(), submission[0].Type)
	}
	require.NotEqual(t, parsed.BarrierSubmissions[0][0].Resource, parsed.BarrierSubmissions[1][0].Resource)
}

func TestRunDerivesSetCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[heap]
[[heap.slots]]
name = "output"
type = "buffer"
bind = ["storage"]

[[resources]]
name = "output"
type = "buffer"
size = 256
usage = ["storage"]

[[views]]
resource = "output"

[[views]]
resource = "output"

[[views]]
resource = "output"
`), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(testLogger(), &out, path, false))

	var parsed report
	require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))
	require.Equal(t, 3, parsed.Heap.DescriptorSets)
	require.Empty(t, parsed.Heap.Sets)
	require.Len(t, parsed.BarrierSubmissions, 3)
}

func TestRunRejectsSparseViewsWithoutSetCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[heap]
[[heap.slots]]
name = "input"
type = "buffer"
bind = ["sampled"]

[[resources]]
name = "input"
type = "buffer"
size = 256

[[views]]
descriptor = 2
resource = "input"
`), 0o644))

	var out bytes.Buffer
	require.Error(t, run(testLogger(), &out, path, false))
	require.Zero(t, out.Len())
}

func TestRunMissingFile(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, run(testLogger(), &out, filepath.Join(t.TempDir(), "missing.toml"), false))
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = newLogger("loud")
	require.Error(t, err)
}
