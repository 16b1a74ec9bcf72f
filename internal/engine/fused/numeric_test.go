package fused

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestI32WrapArithmetic(t *testing.T) {
	assert.Equal(t, uint32(0), I32Add(math.MaxUint32, 1))
	assert.Equal(t, uint32(math.MaxUint32), I32Sub(0, 1))
	assert.Equal(t, uint32(0xfffffffe), I32Mul(math.MaxUint32, 2))
}

func TestI64WrapArithmetic(t *testing.T) {
	assert.Equal(t, uint64(0), I64Add(math.MaxUint64, 1))
	assert.Equal(t, uint64(math.MaxUint64), I64Sub(0, 1))
}

// TestShiftAmountMasking is boundary case B3: a shift amount is masked
// modulo the operand width, so i32.shl by 33 behaves exactly like shl by
// 1, and i64.shl by 65 like shl by 1.
func TestShiftAmountMasking(t *testing.T) {
	assert.Equal(t, I32Shl(5, 1), I32Shl(5, 33))
	assert.Equal(t, I32ShrU(0x80000000, 1), I32ShrU(0x80000000, 33))
	assert.Equal(t, I64Shl(5, 1), I64Shl(5, 65))
	assert.Equal(t, I64ShrU(1<<63, 1), I64ShrU(1<<63, 65))
}

func TestI32DivTrapsOnZero(t *testing.T) {
	_, trap := I32DivS(10, 0)
	if assert.NotNil(t, trap) {
		assert.Equal(t, TrapIntegerDivideByZero, trap.Kind)
	}
	_, trap = I32DivU(10, 0)
	if assert.NotNil(t, trap) {
		assert.Equal(t, TrapIntegerDivideByZero, trap.Kind)
	}
	_, trap = I32RemS(10, 0)
	if assert.NotNil(t, trap) {
		assert.Equal(t, TrapIntegerDivideByZero, trap.Kind)
	}
}

func TestI32DivSTrapsOnMinIntOverNegOne(t *testing.T) {
	_, trap := I32DivS(math.MinInt32, -1)
	if assert.NotNil(t, trap) {
		assert.Equal(t, TrapIntegerOverflow, trap.Kind)
	}
}

func TestI32DivSNoTrapOnOrdinaryInputs(t *testing.T) {
	v, trap := I32DivS(10, -3)
	assert.Nil(t, trap)
	assert.Equal(t, int32(-3), v)
}

func TestI64DivTrapsOnZeroAndOverflow(t *testing.T) {
	_, trap := I64DivS(10, 0)
	if assert.NotNil(t, trap) {
		assert.Equal(t, TrapIntegerDivideByZero, trap.Kind)
	}
	_, trap = I64DivS(math.MinInt64, -1)
	if assert.NotNil(t, trap) {
		assert.Equal(t, TrapIntegerOverflow, trap.Kind)
	}
}

func TestI32Compares(t *testing.T) {
	assert.Equal(t, uint32(1), I32LtS(uint32(int32(-1)), 0))
	assert.Equal(t, uint32(0), I32LtU(uint32(int32(-1)), 0))
	assert.Equal(t, uint32(1), I32Eq(7, 7))
	assert.Equal(t, uint32(0), I32Eqz(1))
	assert.Equal(t, uint32(1), I32Eqz(0))
}

func TestI64Compares(t *testing.T) {
	assert.Equal(t, uint32(1), I64LtS(uint64(int64(-1)), 0))
	assert.Equal(t, uint32(0), I64LtU(uint64(int64(-1)), 0))
}

// TestCanonicalNaN verifies every produced NaN carries the canonical
// quiet bit pattern regardless of which operand NaN it came from.
func TestCanonicalNaN(t *testing.T) {
	weirdNaN := math.Float32frombits(0x7fc01234)
	bits := F32Add(weirdNaN, 1.0)
	assert.Equal(t, canonicalF32NaN, bits)

	weirdNaN64 := math.Float64frombits(0x7ff8000000000001)
	bits64 := F64Mul(weirdNaN64, 2.0)
	assert.Equal(t, canonicalF64NaN, bits64)
}

func TestFloatMinMaxNaNPropagation(t *testing.T) {
	nan := float32(math.NaN())
	assert.Equal(t, canonicalF32NaN, F32Min(nan, 1.0))
	assert.Equal(t, canonicalF32NaN, F32Max(1.0, nan))
}

func TestLittleEndianRoundTrip(t *testing.T) {
	b := make([]byte, 8)
	leStore64(b, 0x1122334455667788)
	assert.Equal(t, uint64(0x1122334455667788), leLoad64(b))
	assert.Equal(t, byte(0x88), b[0])
	assert.Equal(t, byte(0x11), b[7])
}
