package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitSet(t *testing.T) {
	set := NewBitSet(70)
	require.Equal(t, 70, set.Len())
	require.Equal(t, 0, set.Count())

	set.Set(0)
	set.Set(64)
	set.Set(69)
	require.True(t, set.IsSet(0))
	require.True(t, set.IsSet(64))
	require.False(t, set.IsSet(63))
	require.Equal(t, 3, set.Count())

	set.Unset(64)
	require.False(t, set.IsSet(64))
	require.Equal(t, 2, set.Count())

	set.Clear()
	require.Equal(t, 0, set.Count())
}

func TestOptionalMutexDisabled(t *testing.T) {
	var mutex OptionalMutex
	mutex.Lock()
	// A disabled mutex never blocks, so locking twice is fine
	mutex.Lock()
	mutex.Unlock()
	mutex.Unlock()

	rw := OptionalRWMutex{UseMutex: true}
	rw.RLock()
	rw.RLock()
	rw.RUnlock()
	rw.RUnlock()
	rw.Lock()
	rw.Unlock()
}
