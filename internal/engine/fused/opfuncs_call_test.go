package fused

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCallDropPopsArenaParamsAndDiscardsResult covers the non-fast-path
// "call; drop" shape: params live in the arena (not a ring), and whatever
// the bridge wrote back is thrown away.
func TestCallDropPopsArenaParamsAndDiscardsResult(t *testing.T) {
	s := NewState(chainedOptNoRing(), 0, nil, nil)
	s.PushArena(10)
	s.PushArena(32)

	called := false
	callee := func(moduleID, functionIndex uint32, scratch []uint64) {
		called = true
		a, b := scratch[0], scratch[1]
		scratch[0] = a + b
	}
	halt := func(s *State) ChainedRecord { return nil }
	program := MakeCallDrop(callee, 0, 0, 2, 1, halt)

	trap, err := RunChained(s, program)
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.True(t, called)
	assert.Equal(t, 0, len(s.Arena))
	assert.Equal(t, 0, s.SP)
}

// TestCallLocalSetStoresResultWithoutPushing covers "call; local.set":
// the two arena-resident params are consumed, the bridge's single result
// lands in the destination local, and the logical stack stays empty.
func TestCallLocalSetStoresResultWithoutPushing(t *testing.T) {
	s := NewState(chainedOptNoRing(), 1, nil, nil)
	s.PushArena(10)
	s.PushArena(32)

	callee := func(moduleID, functionIndex uint32, scratch []uint64) {
		a, b := scratch[0], scratch[1]
		scratch[0] = a + b
	}
	halt := func(s *State) ChainedRecord { return nil }
	program := MakeCallLocalSet(callee, 0, 0, 2, 0, halt)

	trap, err := RunChained(s, program)
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(42), s.Locals[0])
	assert.Equal(t, 0, len(s.Arena))
}

// TestCallLocalTeeStoresAndPushesResult covers "call; local.tee": same as
// local.set but the result is also left on the logical i32 stack.
func TestCallLocalTeeStoresAndPushesResult(t *testing.T) {
	s := NewState(chainedOptNoRing(), 1, nil, nil)
	s.PushArena(10)
	s.PushArena(32)

	callee := func(moduleID, functionIndex uint32, scratch []uint64) {
		a, b := scratch[0], scratch[1]
		scratch[0] = a + b
	}
	halt := func(s *State) ChainedRecord { return nil }
	program := MakeCallLocalTee(callee, 0, 0, 2, 0, halt)

	trap, err := RunChained(s, program)
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(42), s.Locals[0])
	assert.Equal(t, uint32(42), s.TopI32())
}
