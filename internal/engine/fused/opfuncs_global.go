package fused

// Family 6 of spec.md §4.C: global.get; imm op; global.set on the same
// global. Globals live directly in State.Globals (spec.md places them
// outside this core's allocator scope, §1, but the storage slice itself
// is threaded through State so the fused op can read/write it in place
// without a round trip through the arena).

func MakeI32GlobalUpdateInPlace(op I32BinOp, globalIdx int, imm uint32, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := uint32(s.Globals[globalIdx])
		s.Globals[globalIdx] = uint64(op(v, imm))
		s.IP++
		return next
	}
}

func MakeI64GlobalUpdateInPlace(op I64BinOp, globalIdx int, imm uint64, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := s.Globals[globalIdx]
		s.Globals[globalIdx] = op(v, imm)
		s.IP++
		return next
	}
}
