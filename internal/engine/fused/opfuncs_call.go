package fused

// Family 11 of spec.md §4.C: call fusions. scratch is a per-call-site
// buffer sized to max(param_bytes, return_bytes) at translation time and
// reused across invocations (spec.md §4.C, call_stacktop_T).
//
// call_drop and call+local.set/tee are the non-fast-path call shapes: the
// translator only emits these when the callee's parameters are not all
// cache-resident in one ring (the case call_stacktop_T fast-paths), so
// their N parameters live in the operand arena, the general "logical
// stack" spec.md §6's stack_pointer_cell describes. callViaArena pops them
// from there into scratch, invokes the bridge, and shrinks the arena by
// the params it consumed — mirroring interpreter.go's callGoFuncWithStack
// popping N args off ce.stack before a host call.

// callViaArena implements the host-call bridge's "read N params downward,
// write K results back at the same base" contract (spec.md §6) directly
// against s.Arena: it pops paramCount values into a max(paramCount,
// resultCount)-sized scratch buffer, invokes the bridge, and leaves the
// arena shrunk by paramCount. The caller is responsible for consuming
// scratch's first resultCount slots (into a local, the ring, or nowhere
// for call_drop) and for any net stack growth the result requires.
func callViaArena(s *State, bridge HostCallBridge, moduleID, functionIndex uint32, paramCount, resultCount int) []uint64 {
	scratchLen := paramCount
	if resultCount > scratchLen {
		scratchLen = resultCount
	}
	scratch := make([]uint64, scratchLen)
	base := len(s.Arena) - paramCount
	copy(scratch, s.Arena[base:])
	scratchCall(bridge, moduleID, functionIndex, scratch)
	s.Arena = s.Arena[:base]
	s.SP -= paramCount
	return scratch
}

// MakeCallDrop builds "call; drop every return value": pops paramCount
// parameters off the arena, invokes the bridge, and discards whatever it
// wrote back (resultCount is still needed to size the scratch buffer
// correctly even though nothing reads it afterward).
func MakeCallDrop(bridge HostCallBridge, moduleID, functionIndex uint32, paramCount, resultCount int, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		callViaArena(s, bridge, moduleID, functionIndex, paramCount, resultCount)
		s.IP++
		return next
	}
}

// MakeCallLocalSet builds "call; local.set" for a single i32 result: pops
// paramCount parameters off the arena, invokes the bridge, and stores the
// one result into localIdx without touching the logical stack.
func MakeCallLocalSet(bridge HostCallBridge, moduleID, functionIndex uint32, paramCount int, localIdx int, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		scratch := callViaArena(s, bridge, moduleID, functionIndex, paramCount, 1)
		s.Locals[s.LP+localIdx] = scratch[0]
		s.IP++
		return next
	}
}

// MakeCallLocalTee builds "call; local.tee": same as MakeCallLocalSet but
// additionally pushes the result onto the logical i32 stack.
func MakeCallLocalTee(bridge HostCallBridge, moduleID, functionIndex uint32, paramCount int, localIdx int, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		scratch := callViaArena(s, bridge, moduleID, functionIndex, paramCount, 1)
		v := uint32(scratch[0])
		s.Locals[s.LP+localIdx] = uint64(v)
		s.PushI32(v)
		s.IP++
		return next
	}
}

// CallStacktopSpec describes a call_stacktop_T fast path fully resolved
// at translation time: the call's N parameters live ring-resident in a
// single type family's ring (spec.md §9), and its result (if any) is
// either void, the same family T, or an f32/f64 cross — the cross form
// is only reachable when the f32 and f64 ranges were found fully merged
// at selection time (spec.md §9 Open Question; see DESIGN.md). The
// selector (selector.go) is responsible for only ever constructing a
// CallStacktopSpec whose ResultKind it has already validated against the
// live CompileOption; this type does not re-validate that invariant.
type CallStacktopSpec struct {
	Bridge         HostCallBridge
	ModuleID       uint32
	FunctionIndex  uint32
	Scratch        []uint64
	ParamCount     int
	ResultKind     CallResultKind
}

type CallResultKind int

const (
	CallResultVoid CallResultKind = iota
	CallResultSameI32
	CallResultSameI64
	CallResultSameF32
	CallResultSameF64
	CallResultCrossF32ToF64
	CallResultCrossF64ToF32
)

// MakeCallStacktopI32 builds call_stacktop_T specialized to the i32 ring:
// the call's N i32 parameters are ring-resident, the last one at curr_i32
// and earlier ones at successive ring_next positions; scratch is filled
// from the ring in param order (param 0 at index 0), the bridge is invoked,
// and any result is written back into the ring at
// ring_next^(N-1)(curr_i32) per spec.md §4.C.
func MakeCallStacktopI32(spec CallStacktopSpec, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		r := &s.Ring
		opt := s.opt
		n := spec.ParamCount
		pos := r.currI32
		for i := 0; i < n; i++ {
			spec.Scratch[n-1-i] = uint64(r.i32[pos])
			pos = ringNext(pos, opt.I32)
		}
		scratchCall(spec.Bridge, spec.ModuleID, spec.FunctionIndex, spec.Scratch)
		switch spec.ResultKind {
		case CallResultVoid:
		case CallResultSameI32:
			resultPos := r.currI32
			for i := 0; i < n-1; i++ {
				resultPos = ringNext(resultPos, opt.I32)
			}
			r.i32[resultPos] = uint32(spec.Scratch[0])
			r.currI32 = resultPos
		default:
			panic(errSelectorNoMatch)
		}
		s.IP++
		return next
	}
}

// MakeCallStacktopI64 is the i64-ring specialization of call_stacktop_T.
func MakeCallStacktopI64(spec CallStacktopSpec, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		r := &s.Ring
		opt := s.opt
		n := spec.ParamCount
		pos := r.currI64
		for i := 0; i < n; i++ {
			spec.Scratch[n-1-i] = r.i64[pos]
			pos = ringNext(pos, opt.I64)
		}
		scratchCall(spec.Bridge, spec.ModuleID, spec.FunctionIndex, spec.Scratch)
		switch spec.ResultKind {
		case CallResultVoid:
		case CallResultSameI64:
			resultPos := r.currI64
			for i := 0; i < n-1; i++ {
				resultPos = ringNext(resultPos, opt.I64)
			}
			r.i64[resultPos] = spec.Scratch[0]
			r.currI64 = resultPos
		default:
			panic(errSelectorNoMatch)
		}
		s.IP++
		return next
	}
}

// MakeCallStacktopF32F64 is the f32/f64-ring specialization, including
// the f32/f64 cross-return case. The selector must only build one of
// these when opt.F32 and opt.F64 are fully merged (Validate already
// forbids partial overlap, so "merged" here means identical ranges); a
// mismatched ResultKind against that invariant is an internal bug, not a
// guest-reachable trap, hence the panic rather than a *TrapError.
func MakeCallStacktopF32F64(spec CallStacktopSpec, isF32Params bool, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		r := &s.Ring
		opt := s.opt
		n := spec.ParamCount
		if isF32Params {
			pos := r.currF32
			for i := 0; i < n; i++ {
				spec.Scratch[n-1-i] = uint64(r.f32[pos])
				pos = ringNext(pos, opt.F32)
			}
		} else {
			pos := r.currF64
			for i := 0; i < n; i++ {
				spec.Scratch[n-1-i] = r.f64[pos]
				pos = ringNext(pos, opt.F64)
			}
		}
		scratchCall(spec.Bridge, spec.ModuleID, spec.FunctionIndex, spec.Scratch)
		switch spec.ResultKind {
		case CallResultVoid:
		case CallResultSameF32:
			resultPos := r.currF32
			for i := 0; i < n-1; i++ {
				resultPos = ringNext(resultPos, opt.F32)
			}
			r.f32[resultPos] = uint32(spec.Scratch[0])
			r.currF32 = resultPos
		case CallResultSameF64:
			resultPos := r.currF64
			for i := 0; i < n-1; i++ {
				resultPos = ringNext(resultPos, opt.F64)
			}
			r.f64[resultPos] = spec.Scratch[0]
			r.currF64 = resultPos
		case CallResultCrossF32ToF64:
			if opt.F32 != opt.F64 {
				panic(errOverlappingRings)
			}
			resultPos := r.currF64
			for i := 0; i < n-1; i++ {
				resultPos = ringNext(resultPos, opt.F64)
			}
			r.f64[resultPos] = spec.Scratch[0]
			r.currF64 = resultPos
		case CallResultCrossF64ToF32:
			if opt.F32 != opt.F64 {
				panic(errOverlappingRings)
			}
			resultPos := r.currF32
			for i := 0; i < n-1; i++ {
				resultPos = ringNext(resultPos, opt.F32)
			}
			r.f32[resultPos] = uint32(spec.Scratch[0])
			r.currF32 = resultPos
		default:
			panic(errSelectorNoMatch)
		}
		s.IP++
		return next
	}
}
