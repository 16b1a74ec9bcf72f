package fused

// Families 3, 4, and 5 of spec.md §4.C.

// I32CompareOp and I64CompareOp name family 4's shape: two operands of a
// given type, one i32 0/1 result. numeric.go's I32Eq/I32LtS/... and
// I64Eq/I64LtS/... satisfy these (note I64 compares return uint32, not
// uint64, so they need their own named type distinct from I64BinOp).
type I32CompareOp func(a, b uint32) uint32
type I64CompareOp func(a, b uint64) uint32

// MakeI32TwoLocalOp builds family 3 for i32: consume two local loads,
// push one binop result.
func MakeI32TwoLocalOp(op I32BinOp, localA, localB int, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		a := uint32(s.Locals[s.LP+localA])
		b := uint32(s.Locals[s.LP+localB])
		s.PushI32(op(a, b))
		s.IP++
		return next
	}
}

func MakeI64TwoLocalOp(op I64BinOp, localA, localB int, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		a := s.Locals[s.LP+localA]
		b := s.Locals[s.LP+localB]
		s.PushI64(op(a, b))
		s.IP++
		return next
	}
}

// MakeI32CompareImmLocal builds family 4's local/imm shape: load local,
// compare against an encoded immediate, push the i32 0/1 result.
func MakeI32CompareImmLocal(op I32CompareOp, localIdx int, imm uint32, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := uint32(s.Locals[s.LP+localIdx])
		s.PushI32(op(v, imm))
		s.IP++
		return next
	}
}

// MakeI64CompareImmLocal is MakeI32CompareImmLocal's i64 counterpart.
func MakeI64CompareImmLocal(op I64CompareOp, localIdx int, imm uint64, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := s.Locals[s.LP+localIdx]
		s.PushI32(op(v, imm))
		s.IP++
		return next
	}
}

// MakeI32CompareTwoLocal builds family 4's two-local shape.
func MakeI32CompareTwoLocal(op I32CompareOp, localA, localB int, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		a := uint32(s.Locals[s.LP+localA])
		b := uint32(s.Locals[s.LP+localB])
		s.PushI32(op(a, b))
		s.IP++
		return next
	}
}

func MakeI64CompareTwoLocal(op I64CompareOp, localA, localB int, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		a := s.Locals[s.LP+localA]
		b := s.Locals[s.LP+localB]
		s.PushI32(op(a, b))
		s.IP++
		return next
	}
}

// MakeI32UpdateInPlace builds family 5: local.get x; imm op; local.set x
// on the same local, net stack delta 0.
func MakeI32UpdateInPlace(op I32BinOp, localIdx int, imm uint32, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := uint32(s.Locals[s.LP+localIdx])
		s.Locals[s.LP+localIdx] = uint64(op(v, imm))
		s.IP++
		return next
	}
}

// MakeI32UpdateInPlaceTee builds the local.tee variant of family 5: same
// as MakeI32UpdateInPlace but additionally leaves the new value on the
// logical stack.
func MakeI32UpdateInPlaceTee(op I32BinOp, localIdx int, imm uint32, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := uint32(s.Locals[s.LP+localIdx])
		result := op(v, imm)
		s.Locals[s.LP+localIdx] = uint64(result)
		s.PushI32(result)
		s.IP++
		return next
	}
}

func MakeI64UpdateInPlace(op I64BinOp, localIdx int, imm uint64, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := s.Locals[s.LP+localIdx]
		s.Locals[s.LP+localIdx] = op(v, imm)
		s.IP++
		return next
	}
}

func MakeI64UpdateInPlaceTee(op I64BinOp, localIdx int, imm uint64, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := s.Locals[s.LP+localIdx]
		result := op(v, imm)
		s.Locals[s.LP+localIdx] = result
		s.PushI64(result)
		s.IP++
		return next
	}
}
