package fused

// RingRange is a half-open compile-time range [Begin, End) over a type's
// slot pool (spec.md §3). Begin == End means the type bypasses the ring
// cache entirely: every operand of that type lives in the byte arena.
type RingRange struct {
	Begin, End int
}

// Disabled reports whether this type bypasses the ring cache.
func (r RingRange) Disabled() bool { return r.Begin == r.End }

// Size is the number of slots in the range.
func (r RingRange) Size() int { return r.End - r.Begin }

// CompileOption is the record-of-constants shared by the translator and
// this core (spec.md §6). It is built once, before dispatch begins, and
// never mutated — the same "single immutable config struct" pattern
// interpreter.go used for its engine-wide wasm.Features.
type CompileOption struct {
	// IsTailCall selects chained (true) vs stepped (false) dispatch.
	IsTailCall bool

	I32, I64, F32, F64, V128 RingRange
}

// Range returns the configured RingRange for t.
func (c CompileOption) Range(t ValueType) RingRange {
	switch t {
	case ValueTypeI32:
		return c.I32
	case ValueTypeI64:
		return c.I64
	case ValueTypeF32:
		return c.F32
	case ValueTypeF64:
		return c.F64
	case ValueTypeV128:
		return c.V128
	default:
		panic(errInvalidValueType)
	}
}

// Validate enforces the static cross-ring merge rules of spec.md §4.B:
//
//   - i32/i64, if both enabled, must share range.
//   - f32/f64/v128, if both enabled, must share range.
//   - if both an int ring and an fp ring are enabled, their ranges must
//     be fully merged (identical) or fully disjoint — never overlapping
//     without being identical. This is checked for every option, whether
//     or not the code it is used for has cross-ring ops.
//   - stepped dispatch (IsTailCall == false) must have every ring
//     disabled: spec.md §4.A requires state to be fully materialized
//     between steps.
//
// An invalid combination must fail translation, not silently corrupt
// execution (spec.md §6) — Validate is the static check that enforces
// that at the boundary between the translator and this core.
func (c CompileOption) Validate() error {
	if !c.IsTailCall {
		for _, r := range []RingRange{c.I32, c.I64, c.F32, c.F64, c.V128} {
			if !r.Disabled() {
				return errSteppedWithRing
			}
		}
		return nil
	}

	if !c.I32.Disabled() && !c.I64.Disabled() && c.I32 != c.I64 {
		return errMisalignedRing
	}
	fp := []RingRange{c.F32, c.F64, c.V128}
	var anchor *RingRange
	for i := range fp {
		if fp[i].Disabled() {
			continue
		}
		if anchor == nil {
			anchor = &fp[i]
		} else if *anchor != fp[i] {
			return errMisalignedRing
		}
	}

	intRanges := []RingRange{c.I32, c.I64}
	fpRanges := []RingRange{c.F32, c.F64, c.V128}
	for _, ir := range intRanges {
		if ir.Disabled() {
			continue
		}
		for _, fr := range fpRanges {
			if fr.Disabled() {
				continue
			}
			if ir != fr && rangesOverlap(ir, fr) {
				return errOverlappingRings
			}
		}
	}
	return nil
}

func rangesOverlap(a, b RingRange) bool {
	return a.Begin < b.End && b.Begin < a.End
}
