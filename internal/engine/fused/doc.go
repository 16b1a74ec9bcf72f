// Package fused implements the fused-opcode execution core of the
// interpreter: a threaded dispatch loop, a compile-time stack-top ring
// cache, the fused opfunc families, bit-exact Wasm numeric and memory
// semantics, and the translation-time selector that specializes every
// opfunc to the current ring position and memory bounds-check strategy.
//
// This package does not parse or validate Wasm, translate function
// bodies into the bytecode stream it executes, bridge host functions,
// instantiate modules, or allocate linear memory or globals — those are
// external collaborators that hand this package an already-translated
// stream of records, a CompileOption, and a Memory, and it executes them.
//
// Two dispatch modes are supported, selected once per stream by
// CompileOption.IsTailCall: chained (RunChained) and stepped (RunStepped).
// Both share the same opfunc families, numeric kernels, and memory guard;
// they differ only in how control passes from one record to the next, and
// in whether the ring cache is active (stepped mode requires it disabled).
package fused
