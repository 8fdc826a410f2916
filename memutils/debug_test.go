//go:build debug_mem_utils

package memutils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDebugCheckIndexPanics(t *testing.T) {
	require.True(t, DebugEnabled)
	require.NotPanics(t, func() { DebugCheckIndex(1, 2, "slot") })
	require.Panics(t, func() { DebugCheckIndex(2, 2, "slot") })
	require.Panics(t, func() { DebugCheckPow2(3, "stride") })
	require.NotPanics(t, func() { DebugCheckEqual("views", "views", "region") })
	require.Panics(t, func() { DebugCheckEqual(1, 2, "region") })
}
