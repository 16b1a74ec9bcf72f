package fused

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBoundsCheckAtExactLength is boundary case B1: an access ending
// exactly at length succeeds; one byte further traps.
func TestBoundsCheckAtExactLength(t *testing.T) {
	length := uint64(64)
	width := uint32(4)

	okEff := length - uint64(width)
	assert.False(t, GenericBoundsCheck(length, okEff, width, false))

	trapEff := length - uint64(width) + 1
	assert.True(t, GenericBoundsCheck(length, trapEff, width, false))
}

// TestEffectiveOffsetOverflow is boundary case B2: address + static
// offset crossing 2^32 is flagged as overflow even though both inputs
// are individually in range.
func TestEffectiveOffsetOverflow(t *testing.T) {
	eff, overflow := EffectiveOffset(0xFFFFFFFF, 1)
	assert.True(t, overflow)
	assert.Equal(t, uint64(0x100000000), eff)

	eff, overflow = EffectiveOffset(0xFFFFFFFF, 0)
	assert.False(t, overflow)
	assert.Equal(t, uint64(0xFFFFFFFF), eff)
}

func TestGenericBoundsCheckTrapsOnOverflowRegardlessOfLength(t *testing.T) {
	assert.True(t, GenericBoundsCheck(1<<40, 0, 4, true))
}

func TestSpecializedNoCheckNeverTraps(t *testing.T) {
	assert.False(t, SpecializedNoCheck(0, 1<<40, 8, true))
}

// TestStoreThenLoadRoundTrip is round-trip law R2: storing a value and
// loading it back at the same address returns the identical value,
// little-endian byte-exact.
func TestStoreThenLoadRoundTrip(t *testing.T) {
	mem := NewMemory(0, make([]byte, 64))

	trap := mem.WriteUint32Le(0, 8, 10, 0x12345678, GenericBoundsCheck)
	require.Nil(t, trap)

	v, trap := mem.ReadUint32Le(0, 8, 10, GenericBoundsCheck)
	require.Nil(t, trap)
	assert.Equal(t, uint32(0x12345678), v)

	assert.Equal(t, byte(0x78), mem.base[18])
	assert.Equal(t, byte(0x12), mem.base[21])
}

func TestStoreThenLoadRoundTrip64(t *testing.T) {
	mem := NewMemory(0, make([]byte, 64))
	require.Nil(t, mem.WriteUint64Le(0, 0, 16, 0x1122334455667788, GenericBoundsCheck))
	v, trap := mem.ReadUint64Le(0, 0, 16, GenericBoundsCheck)
	require.Nil(t, trap)
	assert.Equal(t, uint64(0x1122334455667788), v)
}

// TestMemoryOOBTrapPayload is the concrete scenario 5 of spec.md §8:
// length 64, store at addr=60 with static offset 8 and width 4
// (effective = 68) traps with payload (0, 8, 68, 64, 4) and does not
// write any bytes.
func TestMemoryOOBTrapPayload(t *testing.T) {
	mem := NewMemory(0, make([]byte, 64))
	before := append([]byte(nil), mem.base...)

	trap := mem.WriteUint32Le(7, 8, 60, 0xdeadbeef, GenericBoundsCheck)
	require.NotNil(t, trap)
	assert.Equal(t, TrapMemoryOutOfBounds, trap.Kind)
	assert.Equal(t, uint32(0), trap.Memory.MemoryIndex)
	assert.Equal(t, uint32(8), trap.Memory.DeclaredOffset)
	assert.Equal(t, uint64(68), trap.Memory.EffectiveOffset)
	assert.Equal(t, uint64(64), trap.Memory.MemoryLength)
	assert.Equal(t, uint32(4), trap.Memory.AccessWidth)
	assert.Equal(t, 7, trap.IP)

	assert.Equal(t, before, mem.base)
}

func TestMemoryGrowIsVisibleToSubsequentOps(t *testing.T) {
	mem := NewMemory(0, make([]byte, 16))
	_, trap := mem.ReadUint32Le(0, 0, 14, GenericBoundsCheck)
	require.NotNil(t, trap)

	mem.Grow(make([]byte, 32))
	_, trap = mem.ReadUint32Le(0, 0, 14, GenericBoundsCheck)
	require.Nil(t, trap)
}
