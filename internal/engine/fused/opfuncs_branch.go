package fused

// Families 9 and 10 of spec.md §4.C: br_if fusions and the stack-top
// transform that precedes an unconditional br.
//
// Each br_if fusion carries both possible next records and their stream
// positions: targetIP/targetRec for the taken path, fallIP/fallRec for
// fallthrough. spec.md §4.C family 9 notes a "nomerge" hint used by the
// sampled file's backend to keep the two tail-jump sites from being
// folded together; this core has no native-code backend to hint (pure-Go
// trampoline, spec.md §9 Design Notes), so there is nothing to preserve
// here — noted as not applicable rather than silently dropped (DESIGN.md).

// MakeBrIfLocalEqz builds "br_if of local eqz": branch taken when the
// local is zero.
func MakeBrIfLocalEqz(localIdx int, targetIP int, targetRec ChainedRecord, fallIP int, fallRec ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := uint32(s.Locals[s.LP+localIdx])
		if v == 0 {
			s.IP = targetIP
			return targetRec
		}
		s.IP = fallIP
		return fallRec
	}
}

// MakeBrIfStackEqz builds "br_if of stack top eqz", consuming the i32 top.
func MakeBrIfStackEqz(targetIP int, targetRec ChainedRecord, fallIP int, fallRec ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := s.PopI32()
		if v == 0 {
			s.IP = targetIP
			return targetRec
		}
		s.IP = fallIP
		return fallRec
	}
}

// MakeBrIfStackCompare builds "br_if of stack cmp": pops two i32 operands
// and branches when op(a, b) is non-zero (e.g. a typed compare result).
func MakeBrIfStackCompare(op I32CompareOp, targetIP int, targetRec ChainedRecord, fallIP int, fallRec ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		b := s.PopI32()
		a := s.PopI32()
		if op(a, b) != 0 {
			s.IP = targetIP
			return targetRec
		}
		s.IP = fallIP
		return fallRec
	}
}

// MakeBrIfLocalCompareImm builds "br_if of local cmp vs imm".
func MakeBrIfLocalCompareImm(op I32CompareOp, localIdx int, imm uint32, targetIP int, targetRec ChainedRecord, fallIP int, fallRec ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := uint32(s.Locals[s.LP+localIdx])
		if op(v, imm) != 0 {
			s.IP = targetIP
			return targetRec
		}
		s.IP = fallIP
		return fallRec
	}
}

// MakeBrIfStackAndNonZero builds "br_if of stack x & y != 0": pops two
// i32 operands and branches when their bitwise AND is non-zero.
func MakeBrIfStackAndNonZero(targetIP int, targetRec ChainedRecord, fallIP int, fallRec ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		b := s.PopI32()
		a := s.PopI32()
		if a&b != 0 {
			s.IP = targetIP
			return targetRec
		}
		s.IP = fallIP
		return fallRec
	}
}

// MakeBrIfLocalTeeNonZero builds "local.tee + non-zero test": stores the
// current i32 top into localIdx, leaves it on the stack, and branches
// when it is non-zero.
func MakeBrIfLocalTeeNonZero(localIdx int, targetIP int, targetRec ChainedRecord, fallIP int, fallRec ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := s.TopI32()
		s.Locals[s.LP+localIdx] = uint64(v)
		if v != 0 {
			s.IP = targetIP
			return targetRec
		}
		s.IP = fallIP
		return fallRec
	}
}

// MakeStackTopTransform builds family 10: not a Wasm op, emitted by the
// translator immediately before a br to re-canonicalize every enabled
// ring so curr_T == begin_T (spec.md §4.B, property P4).
func MakeStackTopTransform(next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		opt := s.Option()
		s.Ring.Transform(opt)
		s.IP++
		return next
	}
}
