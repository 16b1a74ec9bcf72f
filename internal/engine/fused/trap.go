package fused

import "errors"

// Internal invariant errors (spec.md §7): a host bug, never triggerable by
// a validated module. These are not recovered by RunChained/RunStepped;
// they are meant to
// abort the process (or, in test builds gated by buildoptions.IstTest,
// to fail loudly) because continuing would corrupt execution. Modeled as
// sentinel errors the same way interpreter.go modeled its wasmruntime
// package's fatal conditions, generalized to this core's own selector and
// ring invariants.
var (
	errSelectorNoMatch  = errors.New("fused: selector found no opfunc for the given compile option and ring position")
	errRingPositionOOR  = errors.New("fused: ring position out of [begin, end) range")
	errMisalignedRing   = errors.New("fused: i32/i64 or f32/f64/v128 ring ranges must be identical when both enabled")
	errOverlappingRings = errors.New("fused: int/fp ring ranges must be fully merged or fully disjoint")
	errInvalidValueType = errors.New("fused: invalid ValueType")
	errSteppedWithRing  = errors.New("fused: stepped dispatch mode requires every ring range to be empty")
)

// TrapKind identifies a guest-visible, fatal, non-resumable condition
// (spec.md §6/§7). Kinds outside MemoryOutOfBounds are listed for
// completeness of the taxonomy even though some (e.g. stack overflow) are
// raised outside the fused opfuncs proper.
type TrapKind int

const (
	TrapMemoryOutOfBounds TrapKind = iota
	TrapIntegerDivideByZero
	TrapIntegerOverflow
	TrapUnreachable
	TrapIndirectCallTypeMismatch
	TrapStackOverflow
)

func (k TrapKind) String() string {
	switch k {
	case TrapMemoryOutOfBounds:
		return "memory out of bounds"
	case TrapIntegerDivideByZero:
		return "integer divide by zero"
	case TrapIntegerOverflow:
		return "integer overflow"
	case TrapUnreachable:
		return "unreachable"
	case TrapIndirectCallTypeMismatch:
		return "indirect call type mismatch"
	case TrapStackOverflow:
		return "stack overflow"
	default:
		return "unknown trap"
	}
}

// MemoryOOBPayload is the structured record a memory-out-of-bounds trap
// carries, byte for byte what spec.md §6 names.
type MemoryOOBPayload struct {
	MemoryIndex      uint32
	DeclaredOffset    uint32
	EffectiveOffset   uint64
	MemoryLength      uint64
	AccessWidth       uint32
}

// TrapError is the sum-of-kinds the public entrypoint returns on a trap
// (spec.md §6, §7). It is never wrapped or logged inside the hot path —
// the internal invariant sentinels use the same bare-panic style,
// letting the outermost caller format it.
type TrapError struct {
	Kind TrapKind
	// Memory is populated only when Kind == TrapMemoryOutOfBounds.
	Memory MemoryOOBPayload
	// IP is the stream position of the record that trapped, captured
	// before any mutation (spec.md invariant 5).
	IP int
}

func (e *TrapError) Error() string {
	if e.Kind == TrapMemoryOutOfBounds {
		return "trap: " + e.Kind.String()
	}
	return "trap: " + e.Kind.String()
}

func newMemoryOOBTrap(ip int, memIdx, declared uint32, eff, length uint64, width uint32) *TrapError {
	return &TrapError{
		Kind: TrapMemoryOutOfBounds,
		Memory: MemoryOOBPayload{
			MemoryIndex:     memIdx,
			DeclaredOffset:  declared,
			EffectiveOffset: eff,
			MemoryLength:    length,
			AccessWidth:     width,
		},
		IP: ip,
	}
}
