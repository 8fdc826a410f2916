package memutils

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestCheckPow2(t *testing.T) {
	require.NoError(t, CheckPow2(1, "one"))
	require.NoError(t, CheckPow2(256, "cbv alignment"))
	require.NoError(t, CheckPow2(uint32(1<<31), "high bit"))

	err := CheckPow2(100, "offset")
	require.Error(t, err)
	require.True(t, errors.Is(err, PowerOfTwoError))

	require.Error(t, CheckPow2(0, "zero"))
}

func TestCheckIndex(t *testing.T) {
	require.NoError(t, CheckIndex(0, 4, "set"))
	require.NoError(t, CheckIndex(3, 4, "set"))

	err := CheckIndex(4, 4, "set")
	require.True(t, errors.Is(err, IndexOutOfRangeError))

	err = CheckIndex(-1, 4, "slot")
	require.True(t, errors.Is(err, IndexOutOfRangeError))
}

func TestCheckEqual(t *testing.T) {
	require.NoError(t, CheckEqual(3, 3, "kind"))

	err := CheckEqual(3, 4, "kind")
	require.True(t, errors.Is(err, MismatchError))
	require.ErrorContains(t, err, "kind is 3, but must be 4")
}

func TestAlignment(t *testing.T) {
	require.Equal(t, 256, AlignUp(1, 256))
	require.Equal(t, 256, AlignUp(256, 256))
	require.Equal(t, 512, AlignUp(257, 256))
	require.Equal(t, 0, AlignDown(255, 256))
	require.Equal(t, 256, AlignDown(300, 256))

	require.True(t, IsAligned(512, 256))
	require.False(t, IsAligned(100, 256))
	require.True(t, IsAligned(100, 0))
	require.True(t, IsAligned(48, 12))

	require.Equal(t, 3, DivideRoundingUp(9, 4))
	require.Equal(t, 2, DivideRoundingUp(8, 4))
}

func TestDetailedStatistics(t *testing.T) {
	var stats DetailedStatistics
	stats.Clear()
	stats.BlockCount++
	stats.BlockSize += 100
	stats.AddAllocation(30)
	stats.AddAllocation(10)
	stats.AddUnusedRange(60)

	var total DetailedStatistics
	total.Clear()
	total.AddDetailedStatistics(&stats)

	require.Equal(t, 2, total.AllocationCount)
	require.Equal(t, 40, total.AllocationSize)
	require.Equal(t, 10, total.AllocationSizeMin)
	require.Equal(t, 30, total.AllocationSizeMax)
	require.Equal(t, 60, total.UnusedRangeSizeMin)
	require.Equal(t, 60, total.FreeSize())
}
