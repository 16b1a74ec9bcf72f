package fused

// The translation-time selector (spec.md §4.F): maps a fused operation's
// shape, the live CompileOption, and (for memory families) the target
// Memory to the one concrete opfunc closure that is correct for that
// combination. A selector that finds no match must abort translation
// rather than hand back something that would silently misbehave at run
// time (spec.md §4.F, §6). The compare, call_stacktop and result-kind
// selectors panic errSelectorNoMatch on a miss, the same "fail the build,
// don't fail the guest" contract trap.go documents for the other internal
// invariants; the memory load/store selectors instead return ok == false
// and leave the panic to the caller (see SelectMemoryStore32).

// FamilyKind names which of the fused op families (spec.md §4.C) a
// selector request is for. Only the families with more than one eligible
// concrete shape need a selector entry; families 1, 2, 3, 5, 6 have a
// single shape per operand-type pair and are constructed directly by the
// translator from opfuncs_imm.go/opfuncs_local.go/opfuncs_global.go.
type FamilyKind int

const (
	FamilyCompare FamilyKind = iota
	FamilyBranch
	FamilyCallStacktop
	FamilyMemoryLoad
	FamilyMemoryStore
)

// SelectI32CompareOp and SelectI64CompareOp resolve family 4's op token to
// the I32CompareOp or I64CompareOp kernel in numeric.go. The translator passes the decoded
// comparison mnemonic; mismatched (kind, token) pairs are a translator
// bug, not a guest-reachable condition.
func SelectI32CompareOp(token string) I32CompareOp {
	switch token {
	case "eq":
		return I32Eq
	case "ne":
		return I32Ne
	case "lt_s":
		return I32LtS
	case "lt_u":
		return I32LtU
	case "le_s":
		return I32LeS
	case "le_u":
		return I32LeU
	case "gt_s":
		return I32GtS
	case "gt_u":
		return I32GtU
	case "ge_s":
		return I32GeS
	case "ge_u":
		return I32GeU
	default:
		panic(errSelectorNoMatch)
	}
}

func SelectI64CompareOp(token string) I64CompareOp {
	switch token {
	case "eq":
		return I64Eq
	case "ne":
		return I64Ne
	case "lt_s":
		return I64LtS
	case "lt_u":
		return I64LtU
	case "le_s":
		return I64LeS
	case "le_u":
		return I64LeU
	case "gt_s":
		return I64GtS
	case "gt_u":
		return I64GtU
	case "ge_s":
		return I64GeS
	case "ge_u":
		return I64GeU
	default:
		panic(errSelectorNoMatch)
	}
}

// SelectBoundsCheckStrategy resolves family 12's memory opfuncs to either
// the always-evaluated generic check or the elided specialized path
// (spec.md §4.E point 3). provenSafe is the translator's own static proof
// result: this selector never performs that proof itself, it only routes
// to the strategy the translator has already earned the right to use.
func SelectBoundsCheckStrategy(provenSafe bool) BoundsCheckStrategy {
	if provenSafe {
		return SpecializedNoCheck
	}
	return GenericBoundsCheck
}

// SelectCallStacktopResultKind resolves call_stacktop_T's result shape
// (spec.md §9's call_stacktop_T fast path and its Open Question on the
// f32/f64 cross form) against the live CompileOption. paramFamily and
// resultFamily are ValueTypeI32/I64/F32/F64; a void result is requested
// with hasResult == false, and resultFamily is then ignored. This is the
// one place that open question's resolution
// (DESIGN.md) is enforced at translation time rather than left to the
// opfunc body to discover at run time.
func SelectCallStacktopResultKind(opt CompileOption, paramFamily, resultFamily ValueType, hasResult bool) CallResultKind {
	if !hasResult {
		return CallResultVoid
	}
	switch resultFamily {
	case ValueTypeI32:
		return CallResultSameI32
	case ValueTypeI64:
		return CallResultSameI64
	case ValueTypeF32:
		if paramFamily == ValueTypeF64 {
			if !ringsShared(opt, ValueTypeF32, ValueTypeF64) {
				panic(errSelectorNoMatch)
			}
			return CallResultCrossF64ToF32
		}
		return CallResultSameF32
	case ValueTypeF64:
		if paramFamily == ValueTypeF32 {
			if !ringsShared(opt, ValueTypeF32, ValueTypeF64) {
				panic(errSelectorNoMatch)
			}
			return CallResultCrossF32ToF64
		}
		return CallResultSameF64
	default:
		panic(errSelectorNoMatch)
	}
}

// ringsShared reports whether a and b both have a ring enabled and share
// the identical range, the precondition for a cross-type ring transform
// (e.g. call_stacktop_T's f32/f64 cross form) to be well-defined. Goes
// through CompileOption.Range rather than naming the two fields directly
// so it generalizes to whichever pair of families the caller passes.
func ringsShared(opt CompileOption, a, b ValueType) bool {
	ra, rb := opt.Range(a), opt.Range(b)
	return !ra.Disabled() && !rb.Disabled() && ra == rb
}

// SelectCallStacktopBuilder resolves which of MakeCallStacktopI32/I64/
// F32F64 applies for a given parameter family, returning a closure that
// finishes construction once next is known. Memory is not a parameter
// here (call_stacktop_T never touches linear memory directly), unlike
// the memory-family selectors below.
func SelectCallStacktopBuilder(paramFamily ValueType, spec CallStacktopSpec) func(next ChainedRecord) ChainedRecord {
	switch paramFamily {
	case ValueTypeI32:
		return func(next ChainedRecord) ChainedRecord { return MakeCallStacktopI32(spec, next) }
	case ValueTypeI64:
		return func(next ChainedRecord) ChainedRecord { return MakeCallStacktopI64(spec, next) }
	case ValueTypeF32:
		return func(next ChainedRecord) ChainedRecord { return MakeCallStacktopF32F64(spec, true, next) }
	case ValueTypeF64:
		return func(next ChainedRecord) ChainedRecord { return MakeCallStacktopF32F64(spec, false, next) }
	default:
		panic(errSelectorNoMatch)
	}
}

// MemoryLoadShape and MemoryStoreShape enumerate family 12's eligible
// concrete opfunc shapes; the translator picks one per static site based
// on what it already knows about the address expression feeding the op
// (plain local, fused address calc, two-local base reuse, ...).
type MemoryLoadShape int

const (
	LoadShapePush MemoryLoadShape = iota
	LoadShapeAddressCalcFused
	LoadShapeTwoLocalBaseReuse
	LoadShapeLocalSet
	LoadShapeLocalTee
	LoadShapeSignExtend8
	LoadShapeSignExtend16
	LoadShapeZeroExtend8
	LoadShapeZeroExtend16
)

// SelectMemoryLoad32 resolves a 32-bit-result memory load family 12 site
// to its concrete opfunc constructor, already bound to mem and strategy.
// The extra local a shape needs (the index local of the base-reuse shape,
// the destination local of the set/tee shapes) is passed through the
// returned builder's extra parameter, which the other shapes ignore.
func SelectMemoryLoad32(shape MemoryLoadShape, mem *Memory, strategy BoundsCheckStrategy) (func(addrLocal int, staticOffset uint32, extra int, next ChainedRecord) ChainedRecord, bool) {
	switch shape {
	case LoadShapePush:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadPush32(mem, addrLocal, staticOffset, strategy, next)
		}, true
	case LoadShapeAddressCalcFused:
		return func(_ int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadAddressCalcFused32(mem, staticOffset, strategy, next)
		}, true
	case LoadShapeTwoLocalBaseReuse:
		return func(addrLocal int, staticOffset uint32, idxLocal int, next ChainedRecord) ChainedRecord {
			return MakeLoadTwoLocalBaseReuse32(mem, addrLocal, idxLocal, staticOffset, strategy, next)
		}, true
	case LoadShapeLocalSet:
		return func(addrLocal int, staticOffset uint32, destLocal int, next ChainedRecord) ChainedRecord {
			return MakeLoadLocalSet32(mem, addrLocal, staticOffset, destLocal, strategy, next)
		}, true
	case LoadShapeLocalTee:
		return func(addrLocal int, staticOffset uint32, destLocal int, next ChainedRecord) ChainedRecord {
			return MakeLoadLocalTee32(mem, addrLocal, staticOffset, destLocal, strategy, next)
		}, true
	case LoadShapeSignExtend8:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadSignExtend8(mem, addrLocal, staticOffset, strategy, next)
		}, true
	case LoadShapeSignExtend16:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadSignExtend16(mem, addrLocal, staticOffset, strategy, next)
		}, true
	case LoadShapeZeroExtend8:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadZeroExtend8(mem, addrLocal, staticOffset, strategy, next)
		}, true
	case LoadShapeZeroExtend16:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadZeroExtend16(mem, addrLocal, staticOffset, strategy, next)
		}, true
	default:
		return nil, false
	}
}

type MemoryStoreShape int

const (
	StoreShapeFromLocal MemoryStoreShape = iota
	StoreShapeFromImm
	StoreShapeNarrow8
	StoreShapeNarrow16
	StoreShapeNarrowI64ToI32
)

// SelectMemoryStore32 is SelectMemoryLoad32's counterpart for stores.
// ok is false when the caller asked for a shape this selector does not
// recognize — the translator is expected to panic errSelectorNoMatch
// itself in that case rather than this function doing so, since the
// caller holds more context (the op site) to put in the panic message.
func SelectMemoryStore32(shape MemoryStoreShape, mem *Memory, strategy BoundsCheckStrategy) (func(addrLocal int, staticOffset uint32, valueLocalOrImm uint32, next ChainedRecord) ChainedRecord, bool) {
	switch shape {
	case StoreShapeFromLocal:
		return func(addrLocal int, staticOffset uint32, valueLocal uint32, next ChainedRecord) ChainedRecord {
			return MakeStoreFromLocal32(mem, addrLocal, staticOffset, int(valueLocal), strategy, next)
		}, true
	case StoreShapeFromImm:
		return func(addrLocal int, staticOffset uint32, imm uint32, next ChainedRecord) ChainedRecord {
			return MakeStoreFromImm32(mem, addrLocal, staticOffset, imm, strategy, next)
		}, true
	case StoreShapeNarrow8:
		return func(addrLocal int, staticOffset uint32, valueLocal uint32, next ChainedRecord) ChainedRecord {
			return MakeStoreNarrowI32(mem, addrLocal, staticOffset, int(valueLocal), 1, strategy, next)
		}, true
	case StoreShapeNarrow16:
		return func(addrLocal int, staticOffset uint32, valueLocal uint32, next ChainedRecord) ChainedRecord {
			return MakeStoreNarrowI32(mem, addrLocal, staticOffset, int(valueLocal), 2, strategy, next)
		}, true
	case StoreShapeNarrowI64ToI32:
		return func(addrLocal int, staticOffset uint32, valueLocal uint32, next ChainedRecord) ChainedRecord {
			return MakeStoreNarrowI64(mem, addrLocal, staticOffset, int(valueLocal), strategy, next)
		}, true
	default:
		return nil, false
	}
}

// MemoryLoad64Shape mirrors MemoryLoadShape for the i64-result family 12
// shapes: the push, address-calc, base-reuse and write-through (set/tee)
// shapes are identical in kind to their 32-bit counterparts, and the narrow loads
// have one more width (i64.load32_s/u has no i32 analog).
type MemoryLoad64Shape int

const (
	Load64ShapePush MemoryLoad64Shape = iota
	Load64ShapeAddressCalcFused
	Load64ShapeTwoLocalBaseReuse
	Load64ShapeLocalSet
	Load64ShapeLocalTee
	Load64ShapeSignExtend8
	Load64ShapeSignExtend16
	Load64ShapeSignExtend32
	Load64ShapeZeroExtend8
	Load64ShapeZeroExtend16
	Load64ShapeZeroExtend32
)

// SelectMemoryLoad64 is SelectMemoryLoad32's i64-result counterpart.
func SelectMemoryLoad64(shape MemoryLoad64Shape, mem *Memory, strategy BoundsCheckStrategy) (func(addrLocal int, staticOffset uint32, extra int, next ChainedRecord) ChainedRecord, bool) {
	switch shape {
	case Load64ShapePush:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadPush64(mem, addrLocal, staticOffset, strategy, next)
		}, true
	case Load64ShapeAddressCalcFused:
		return func(_ int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadAddressCalcFused64(mem, staticOffset, strategy, next)
		}, true
	case Load64ShapeTwoLocalBaseReuse:
		return func(addrLocal int, staticOffset uint32, idxLocal int, next ChainedRecord) ChainedRecord {
			return MakeLoadTwoLocalBaseReuse64(mem, addrLocal, idxLocal, staticOffset, strategy, next)
		}, true
	case Load64ShapeLocalSet:
		return func(addrLocal int, staticOffset uint32, destLocal int, next ChainedRecord) ChainedRecord {
			return MakeLoadLocalSet64(mem, addrLocal, staticOffset, destLocal, strategy, next)
		}, true
	case Load64ShapeLocalTee:
		return func(addrLocal int, staticOffset uint32, destLocal int, next ChainedRecord) ChainedRecord {
			return MakeLoadLocalTee64(mem, addrLocal, staticOffset, destLocal, strategy, next)
		}, true
	case Load64ShapeSignExtend8:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadSignExtend8To64(mem, addrLocal, staticOffset, strategy, next)
		}, true
	case Load64ShapeSignExtend16:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadSignExtend16To64(mem, addrLocal, staticOffset, strategy, next)
		}, true
	case Load64ShapeSignExtend32:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadSignExtend32To64(mem, addrLocal, staticOffset, strategy, next)
		}, true
	case Load64ShapeZeroExtend8:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadZeroExtend8To64(mem, addrLocal, staticOffset, strategy, next)
		}, true
	case Load64ShapeZeroExtend16:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadZeroExtend16To64(mem, addrLocal, staticOffset, strategy, next)
		}, true
	case Load64ShapeZeroExtend32:
		return func(addrLocal int, staticOffset uint32, _ int, next ChainedRecord) ChainedRecord {
			return MakeLoadZeroExtend32To64(mem, addrLocal, staticOffset, strategy, next)
		}, true
	default:
		return nil, false
	}
}

// MemoryStore64Shape mirrors MemoryStoreShape for i64 stores. Per spec.md
// §4.C.12, narrowing stores are only defined for i32->i8/i16 and
// i64->i32 (MakeStoreNarrowI64, already selected through
// SelectMemoryStore32's StoreShapeNarrowI64ToI32) — there is no
// i64->i8/i16 narrowing shape to select here.
type MemoryStore64Shape int

const (
	Store64ShapeFromLocal MemoryStore64Shape = iota
	Store64ShapeFromImm
)

// SelectMemoryStore64 is SelectMemoryStore32's full-width i64 counterpart.
func SelectMemoryStore64(shape MemoryStore64Shape, mem *Memory, strategy BoundsCheckStrategy) (func(addrLocal int, staticOffset uint32, valueLocalOrImm uint64, next ChainedRecord) ChainedRecord, bool) {
	switch shape {
	case Store64ShapeFromLocal:
		return func(addrLocal int, staticOffset uint32, valueLocal uint64, next ChainedRecord) ChainedRecord {
			return MakeStoreFromLocal64(mem, addrLocal, staticOffset, int(valueLocal), strategy, next)
		}, true
	case Store64ShapeFromImm:
		return func(addrLocal int, staticOffset uint32, imm uint64, next ChainedRecord) ChainedRecord {
			return MakeStoreFromImm64(mem, addrLocal, staticOffset, imm, strategy, next)
		}, true
	default:
		return nil, false
	}
}
