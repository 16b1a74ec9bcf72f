package fused

import "github.com/wasmfuse/fusedcore/api"

// ValueType reuses api's wire-format byte values for i32/i64/f32/f64 rather
// than inventing a parallel enum; api predates the SIMD proposal landing in
// that package, so v128 is added here with the byte value the Wasm binary
// format assigns it (0x7b).
type ValueType = api.ValueType

const (
	ValueTypeI32  = api.ValueTypeI32
	ValueTypeI64  = api.ValueTypeI64
	ValueTypeF32  = api.ValueTypeF32
	ValueTypeF64  = api.ValueTypeF64
	ValueTypeV128 ValueType = 0x7b
)
