package null

import (
	"github.com/vkngwrapper/descheap/internal/utils"
	"github.com/vkngwrapper/descheap/native"
)

// CommandList is a native.CommandList that records every barrier batch it receives
type CommandList struct {
	mutex       utils.OptionalMutex
	submissions [][]native.ResourceBarrier
}

var _ native.CommandList = &CommandList{}

// NewCommandList creates an empty CommandList
func NewCommandList() *CommandList {
	return &CommandList{
		mutex: utils.OptionalMutex{UseMutex: true},
	}
}

// ResourceBarrier decodes and records the batch. Empty buffers are recorded too, so callers can
// verify that they never submit one.
func (c *CommandList) ResourceBarrier(barriers native.BarrierBuffer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.submissions = append(c.submissions, barriers.Barriers())
}

// BarrierCalls returns the number of ResourceBarrier calls recorded since the last Reset
func (c *CommandList) BarrierCalls() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.submissions)
}

// Submissions returns a copy of every barrier batch recorded since the last Reset
func (c *CommandList) Submissions() [][]native.ResourceBarrier {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	submissions := make([][]native.ResourceBarrier, len(c.submissions))
	copy(submissions, c.submissions)
	return submissions
}

// Reset forgets all recorded barriers
func (c *CommandList) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.submissions = nil
}
