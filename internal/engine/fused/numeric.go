package fused

import (
	"math"
	"math/bits"

	"github.com/wasmfuse/fusedcore/internal/moremath"
)

// This file implements the bit-exact Wasm numeric kernels (spec.md §4.D).
// Integer binops mined directly from interpreter.go's OperationKindDiv/
// Rem/Shl/Shr/compare cases before that file was removed from the tree
// (see DESIGN.md): shl/shr mask the shift amount by width-1 via %32/%64,
// div_s traps on MinInt32/-1 before dividing, div/rem trap on a zero
// divisor, and compares push 0/1 as an i32 exactly as wazero's
// OperationKindEq/Lt/... do.

// --- i32 ---

func I32Add(a, b uint32) uint32 { return a + b }
func I32Sub(a, b uint32) uint32 { return a - b }
func I32Mul(a, b uint32) uint32 { return a * b }
func I32And(a, b uint32) uint32 { return a & b }
func I32Or(a, b uint32) uint32  { return a | b }
func I32Xor(a, b uint32) uint32 { return a ^ b }
func I32Shl(a, b uint32) uint32 { return a << (b % 32) }
func I32ShrU(a, b uint32) uint32 { return a >> (b % 32) }
func I32ShrS(a, b uint32) uint32 { return uint32(int32(a) >> (b % 32)) }
func I32Rotl(a, b uint32) uint32 { return bits.RotateLeft32(a, int(b)) }
func I32Rotr(a, b uint32) uint32 { return bits.RotateLeft32(a, -int(b)) }

// I32DivS implements signed i32 division, trapping on zero divisor and on
// the MinInt32/-1 overflow case per the Wasm spec (not fused into this
// core's families per spec.md §4.D, kept here as the shared kernel used
// by the non-fused div/rem opcodes and exercised by property tests).
func I32DivS(a, b int32) (int32, *TrapError) {
	if b == 0 {
		return 0, &TrapError{Kind: TrapIntegerDivideByZero}
	}
	if a == math.MinInt32 && b == -1 {
		return 0, &TrapError{Kind: TrapIntegerOverflow}
	}
	return a / b, nil
}

func I32DivU(a, b uint32) (uint32, *TrapError) {
	if b == 0 {
		return 0, &TrapError{Kind: TrapIntegerDivideByZero}
	}
	return a / b, nil
}

func I32RemS(a, b int32) (int32, *TrapError) {
	if b == 0 {
		return 0, &TrapError{Kind: TrapIntegerDivideByZero}
	}
	return a % b, nil
}

func I32RemU(a, b uint32) (uint32, *TrapError) {
	if b == 0 {
		return 0, &TrapError{Kind: TrapIntegerDivideByZero}
	}
	return a % b, nil
}

// --- i64 ---

func I64Add(a, b uint64) uint64  { return a + b }
func I64Sub(a, b uint64) uint64  { return a - b }
func I64Mul(a, b uint64) uint64  { return a * b }
func I64And(a, b uint64) uint64  { return a & b }
func I64Or(a, b uint64) uint64   { return a | b }
func I64Xor(a, b uint64) uint64  { return a ^ b }
func I64Shl(a, b uint64) uint64  { return a << (b % 64) }
func I64ShrU(a, b uint64) uint64 { return a >> (b % 64) }
func I64ShrS(a, b uint64) uint64 { return uint64(int64(a) >> (b % 64)) }
func I64Rotl(a, b uint64) uint64 { return bits.RotateLeft64(a, int(b)) }
func I64Rotr(a, b uint64) uint64 { return bits.RotateLeft64(a, -int(b)) }

func I64DivS(a, b int64) (int64, *TrapError) {
	if b == 0 {
		return 0, &TrapError{Kind: TrapIntegerDivideByZero}
	}
	if a == math.MinInt64 && b == -1 {
		return 0, &TrapError{Kind: TrapIntegerOverflow}
	}
	return a / b, nil
}

func I64DivU(a, b uint64) (uint64, *TrapError) {
	if b == 0 {
		return 0, &TrapError{Kind: TrapIntegerDivideByZero}
	}
	return a / b, nil
}

func I64RemS(a, b int64) (int64, *TrapError) {
	if b == 0 {
		return 0, &TrapError{Kind: TrapIntegerDivideByZero}
	}
	return a % b, nil
}

func I64RemU(a, b uint64) (uint64, *TrapError) {
	if b == 0 {
		return 0, &TrapError{Kind: TrapIntegerDivideByZero}
	}
	return a % b, nil
}

// --- comparisons: 0/1 encoded as an i32, per spec.md §4.C family 4 ---

func boolToI32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func I32Eq(a, b uint32) uint32  { return boolToI32(a == b) }
func I32Ne(a, b uint32) uint32  { return boolToI32(a != b) }
func I32LtS(a, b uint32) uint32 { return boolToI32(int32(a) < int32(b)) }
func I32LtU(a, b uint32) uint32 { return boolToI32(a < b) }
func I32LeS(a, b uint32) uint32 { return boolToI32(int32(a) <= int32(b)) }
func I32LeU(a, b uint32) uint32 { return boolToI32(a <= b) }
func I32GtS(a, b uint32) uint32 { return boolToI32(int32(a) > int32(b)) }
func I32GtU(a, b uint32) uint32 { return boolToI32(a > b) }
func I32GeS(a, b uint32) uint32 { return boolToI32(int32(a) >= int32(b)) }
func I32GeU(a, b uint32) uint32 { return boolToI32(a >= b) }
func I32Eqz(a uint32) uint32    { return boolToI32(a == 0) }

func I64Eq(a, b uint64) uint32  { return boolToI32(a == b) }
func I64Ne(a, b uint64) uint32  { return boolToI32(a != b) }
func I64LtS(a, b uint64) uint32 { return boolToI32(int64(a) < int64(b)) }
func I64LtU(a, b uint64) uint32 { return boolToI32(a < b) }
func I64LeS(a, b uint64) uint32 { return boolToI32(int64(a) <= int64(b)) }
func I64LeU(a, b uint64) uint32 { return boolToI32(a <= b) }
func I64GtS(a, b uint64) uint32 { return boolToI32(int64(a) > int64(b)) }
func I64GtU(a, b uint64) uint32 { return boolToI32(a > b) }
func I64GeS(a, b uint64) uint32 { return boolToI32(int64(a) >= int64(b)) }
func I64GeU(a, b uint64) uint32 { return boolToI32(a >= b) }
func I64Eqz(a uint64) uint32    { return boolToI32(a == 0) }

// --- float kernels: canonical NaN applied to every produced NaN ---

// canonicalF32NaN/canonicalF64NaN are the canonical quiet-NaN bit
// patterns spec.md §3 requires every produced NaN to carry.
const (
	canonicalF32NaN uint32 = 0x7fc00000
	canonicalF64NaN uint64 = 0x7ff8000000000000
)

func canonicalizeF32(v float32) uint32 {
	if math.IsNaN(float64(v)) {
		return canonicalF32NaN
	}
	return math.Float32bits(v)
}

func canonicalizeF64(v float64) uint64 {
	if math.IsNaN(v) {
		return canonicalF64NaN
	}
	return math.Float64bits(v)
}

func F32Add(a, b float32) uint32 { return canonicalizeF32(a + b) }
func F32Sub(a, b float32) uint32 { return canonicalizeF32(a - b) }
func F32Mul(a, b float32) uint32 { return canonicalizeF32(a * b) }
func F32Div(a, b float32) uint32 { return canonicalizeF32(a / b) }

// F32Min/F32Max follow the Wasm spec's NaN propagation, which differs
// from Go's math.Min/Max — internal/moremath carries the fix for exactly
// this, operating on float64 so it is applied here at float64 precision
// and narrowed back to float32.
func F32Min(a, b float32) uint32 {
	return canonicalizeF32(float32(moremath.WasmCompatMin(float64(a), float64(b))))
}

func F32Max(a, b float32) uint32 {
	return canonicalizeF32(float32(moremath.WasmCompatMax(float64(a), float64(b))))
}

func F64Add(a, b float64) uint64 { return canonicalizeF64(a + b) }
func F64Sub(a, b float64) uint64 { return canonicalizeF64(a - b) }
func F64Mul(a, b float64) uint64 { return canonicalizeF64(a * b) }
func F64Div(a, b float64) uint64 { return canonicalizeF64(a / b) }
func F64Min(a, b float64) uint64 { return canonicalizeF64(moremath.WasmCompatMin(a, b)) }
func F64Max(a, b float64) uint64 { return canonicalizeF64(moremath.WasmCompatMax(a, b)) }

func F32Eq(a, b float32) uint32 { return boolToI32(a == b) }
func F32Ne(a, b float32) uint32 { return boolToI32(a != b) }
func F32Lt(a, b float32) uint32 { return boolToI32(a < b) }
func F32Le(a, b float32) uint32 { return boolToI32(a <= b) }
func F32Gt(a, b float32) uint32 { return boolToI32(a > b) }
func F32Ge(a, b float32) uint32 { return boolToI32(a >= b) }

func F64Eq(a, b float64) uint32 { return boolToI32(a == b) }
func F64Ne(a, b float64) uint32 { return boolToI32(a != b) }
func F64Lt(a, b float64) uint32 { return boolToI32(a < b) }
func F64Le(a, b float64) uint32 { return boolToI32(a <= b) }
func F64Gt(a, b float64) uint32 { return boolToI32(a > b) }
func F64Ge(a, b float64) uint32 { return boolToI32(a >= b) }

// --- little-endian memory access: explicit byte-copy, independent of
// host endianness, per spec.md §4.D ---

func leLoad16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func leLoad32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leLoad64(b []byte) uint64 {
	return uint64(leLoad32(b)) | uint64(leLoad32(b[4:]))<<32
}

func leStore16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func leStore32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func leStore64(b []byte, v uint64) {
	leStore32(b, uint32(v))
	leStore32(b[4:], uint32(v>>32))
}
