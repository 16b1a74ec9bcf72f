package fused

// Families 1 and 2 of spec.md §4.C: an immediate combined with a local
// or with the current stack top via an integer binary op. div/rem are
// excluded from both families per spec.md ("div/rem not fused because of
// trap-on-zero handling") — those remain non-fused opcodes built from the
// numeric.go kernels directly by the translator.

// I32BinOp and I64BinOp name the shape every family-1/2/3 integer
// opfunc constructor is parameterized over; numeric.go's I32Add, I32And,
// etc. all satisfy these.
type I32BinOp func(a, b uint32) uint32
type I64BinOp func(a, b uint64) uint64

// MakeI32AddImmLocal builds family 1: "load local x, combine with
// encoded constant, push result" for i32. localIdx is relative to the
// current frame (s.LP); imm is the encoded constant baked into the
// closure at selection time (see dispatch.go's doc comment on why
// immediates are captured rather than stream-decoded here).
func MakeI32AddImmLocal(op I32BinOp, localIdx int, imm uint32, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := uint32(s.Locals[s.LP+localIdx])
		s.PushI32(op(v, imm))
		s.IP++
		return next
	}
}

func MakeI64AddImmLocal(op I64BinOp, localIdx int, imm uint64, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		v := s.Locals[s.LP+localIdx]
		s.PushI64(op(v, imm))
		s.IP++
		return next
	}
}

// MakeI32ImmOpStackTop builds family 2: replace the current i32 top with
// op(top, imm); net stack delta 0.
func MakeI32ImmOpStackTop(op I32BinOp, imm uint32, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		s.ReplaceTopI32(op(s.TopI32(), imm))
		s.IP++
		return next
	}
}

func MakeI64ImmOpStackTop(op I64BinOp, imm uint64, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		s.ReplaceTopI64(op(s.TopI64(), imm))
		s.IP++
		return next
	}
}

// Stepped-mode equivalents. The ring is always disabled in stepped mode
// (CompileOption.Validate enforces this), so these read/write the arena
// through the same Push/Pop/Top methods — the methods already fall back
// to the arena when a type's range is disabled, so the bodies are
// identical to the chained versions minus the next-record threading.

func MakeSteppedI32AddImmLocal(op I32BinOp, localIdx int, imm uint32) SteppedRecord {
	return func(s *State) {
		v := uint32(s.Locals[s.LP+localIdx])
		s.PushI32(op(v, imm))
		s.IP++
	}
}

func MakeSteppedI64AddImmLocal(op I64BinOp, localIdx int, imm uint64) SteppedRecord {
	return func(s *State) {
		v := s.Locals[s.LP+localIdx]
		s.PushI64(op(v, imm))
		s.IP++
	}
}
