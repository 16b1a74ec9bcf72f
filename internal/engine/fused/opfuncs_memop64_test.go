package fused

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryWithI64At(addr int, v uint64) *Memory {
	base := make([]byte, 128)
	leStore64(base[addr:addr+8], v)
	return NewMemory(0, base)
}

func TestLoadPush64(t *testing.T) {
	mem := memoryWithI64At(16, 0x1122334455667788)
	s := NewState(chainedOptNoRing(), 1, mem, nil)
	s.Locals[0] = 16

	halt := func(s *State) ChainedRecord { return nil }
	trap, err := RunChained(s, MakeLoadPush64(mem, 0, 0, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(0x1122334455667788), s.TopI64())
}

func TestLoadAddressCalcFused64(t *testing.T) {
	mem := memoryWithI64At(16, 42)
	s := NewState(chainedOptNoRing(), 0, mem, nil)
	s.PushI32(16)

	halt := func(s *State) ChainedRecord { return nil }
	trap, err := RunChained(s, MakeLoadAddressCalcFused64(mem, 0, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(42), s.TopI64())
}

func TestLoadTwoLocalBaseReuse64(t *testing.T) {
	mem := memoryWithI64At(20, 7)
	s := NewState(chainedOptNoRing(), 2, mem, nil)
	s.Locals[0] = 12
	s.Locals[1] = 8

	halt := func(s *State) ChainedRecord { return nil }
	trap, err := RunChained(s, MakeLoadTwoLocalBaseReuse64(mem, 0, 1, 0, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(7), s.TopI64())
}

func TestLoadLocalSetAndTee64(t *testing.T) {
	mem := memoryWithI64At(0, 99)
	s := NewState(chainedOptNoRing(), 2, mem, nil)
	s.Locals[0] = 0

	halt := func(s *State) ChainedRecord { return nil }
	trap, err := RunChained(s, MakeLoadLocalSet64(mem, 0, 0, 1, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(99), s.Locals[1])
	assert.Equal(t, 0, len(s.Arena))

	s2 := NewState(chainedOptNoRing(), 2, mem, nil)
	s2.Locals[0] = 0
	trap, err = RunChained(s2, MakeLoadLocalTee64(mem, 0, 0, 1, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(99), s2.Locals[1])
	assert.Equal(t, uint64(99), s2.TopI64())
}

func TestStoreFromLocalAndImm64(t *testing.T) {
	mem := NewMemory(0, make([]byte, 64))
	s := NewState(chainedOptNoRing(), 2, mem, nil)
	s.Locals[0] = 8
	s.Locals[1] = 0xDEADBEEFCAFE

	halt := func(s *State) ChainedRecord { return nil }
	trap, err := RunChained(s, MakeStoreFromLocal64(mem, 0, 0, 1, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	got, trap := mem.ReadUint64Le(0, 0, 8, GenericBoundsCheck)
	require.Nil(t, trap)
	assert.Equal(t, uint64(0xDEADBEEFCAFE), got)

	s2 := NewState(chainedOptNoRing(), 1, mem, nil)
	s2.Locals[0] = 24
	trap, err = RunChained(s2, MakeStoreFromImm64(mem, 0, 0, 123456789, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	got, trap = mem.ReadUint64Le(0, 0, 24, GenericBoundsCheck)
	require.Nil(t, trap)
	assert.Equal(t, uint64(123456789), got)
}

func TestLoadNarrowExtendTo64(t *testing.T) {
	base := make([]byte, 64)
	base[0] = 0xFF // -1 as i8, 255 as u8
	leStore16(base[8:10], 0xFFFE)
	leStore32(base[16:20], 0xFFFFFFF0)
	mem := NewMemory(0, base)

	halt := func(s *State) ChainedRecord { return nil }

	s := NewState(chainedOptNoRing(), 1, mem, nil)
	trap, err := RunChained(s, MakeLoadSignExtend8To64(mem, 0, 0, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), s.TopI64())

	s = NewState(chainedOptNoRing(), 1, mem, nil)
	trap, err = RunChained(s, MakeLoadZeroExtend8To64(mem, 0, 0, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(0xFF), s.TopI64())

	s = NewState(chainedOptNoRing(), 1, mem, nil)
	s.Locals[0] = 8
	trap, err = RunChained(s, MakeLoadSignExtend16To64(mem, 0, 0, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFE), s.TopI64())

	s = NewState(chainedOptNoRing(), 1, mem, nil)
	s.Locals[0] = 8
	trap, err = RunChained(s, MakeLoadZeroExtend16To64(mem, 0, 0, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(0xFFFE), s.TopI64())

	s = NewState(chainedOptNoRing(), 1, mem, nil)
	s.Locals[0] = 16
	trap, err = RunChained(s, MakeLoadSignExtend32To64(mem, 0, 0, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFF0), s.TopI64())

	s = NewState(chainedOptNoRing(), 1, mem, nil)
	s.Locals[0] = 16
	trap, err = RunChained(s, MakeLoadZeroExtend32To64(mem, 0, 0, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(0xFFFFFFF0), s.TopI64())
}

func TestLoadImmArith32TwoLocal(t *testing.T) {
	base := make([]byte, 64)
	leStore32(base[20:24], 10)
	mem := NewMemory(0, base)

	s := NewState(chainedOptNoRing(), 2, mem, nil)
	s.Locals[0] = 12
	s.Locals[1] = 8

	halt := func(s *State) ChainedRecord { return nil }
	trap, err := RunChained(s, MakeLoadImmArith32TwoLocal(mem, 0, 1, 0, I32Add, 5, GenericBoundsCheck, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint32(15), s.TopI32())
}

func TestSelectMemoryLoad64AndStore64Wiring(t *testing.T) {
	mem := memoryWithI64At(0, 7)
	builder, ok := SelectMemoryLoad64(Load64ShapePush, mem, GenericBoundsCheck)
	require.True(t, ok)

	s := NewState(chainedOptNoRing(), 1, mem, nil)
	halt := func(s *State) ChainedRecord { return nil }
	trap, err := RunChained(s, builder(0, 0, 0, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, uint64(7), s.TopI64())

	storeBuilder, ok := SelectMemoryStore64(Store64ShapeFromImm, mem, GenericBoundsCheck)
	require.True(t, ok)
	s2 := NewState(chainedOptNoRing(), 1, mem, nil)
	s2.Locals[0] = 32
	trap, err = RunChained(s2, storeBuilder(0, 0, 555, halt))
	require.NoError(t, err)
	require.Nil(t, trap)
	got, trap := mem.ReadUint64Le(0, 0, 32, GenericBoundsCheck)
	require.Nil(t, trap)
	assert.Equal(t, uint64(555), got)
}
