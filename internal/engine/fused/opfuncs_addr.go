package fused

// Families 7 and 8 of spec.md §4.C: address-calculation fusion (array
// indexing) and bit-pack fusion. Both are pure integer-register fusions
// with no memory access of their own — the computed address is pushed
// for a following, separately-selected memory opfunc to consume.

// MakeAddressCalcShift builds family 7's "base + (idx << k)" shape.
func MakeAddressCalcShift(baseLocal, idxLocal int, shift uint32, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		base := uint32(s.Locals[s.LP+baseLocal])
		idx := uint32(s.Locals[s.LP+idxLocal])
		s.PushI32(base + (idx << shift))
		s.IP++
		return next
	}
}

// MakeAddressCalcMul builds family 7's "base + (idx * k)" shape.
func MakeAddressCalcMul(baseLocal, idxLocal int, k uint32, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		base := uint32(s.Locals[s.LP+baseLocal])
		idx := uint32(s.Locals[s.LP+idxLocal])
		s.PushI32(base + (idx * k))
		s.IP++
		return next
	}
}

// MakeBitPack builds family 8: lo | (hi << k), consuming the current
// i32 top as hi and the one below it as lo (both ring- or arena-resident
// depending on CompileOption), pushing the packed result.
func MakeBitPack(shift uint32, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		hi := s.PopI32()
		lo := s.PopI32()
		s.PushI32(lo | (hi << shift))
		s.IP++
		return next
	}
}

// MakeBitPackLocal builds the local-operand variant of family 8, for
// when lo/hi are known to live in locals rather than on the stack.
func MakeBitPackLocal(loLocal, hiLocal int, shift uint32, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		lo := uint32(s.Locals[s.LP+loLocal])
		hi := uint32(s.Locals[s.LP+hiLocal])
		s.PushI32(lo | (hi << shift))
		s.IP++
		return next
	}
}
