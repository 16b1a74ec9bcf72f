package fused

// Family 12 of spec.md §4.C.12: memory load/store fusions. Every
// constructor here captures startIP (s.IP at entry, for trapAt's
// rollback) before touching any mutable state, per invariant 5.

// MakeLoadPush builds the plain push-load shape: load width bytes at
// local+staticOffset, zero-extend into i32/i64, push.
func MakeLoadPush32(mem *Memory, localIdx int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+localIdx])
		v, trap := mem.ReadUint32Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI32(v)
		s.IP++
		return next
	}
}

func MakeLoadPush64(mem *Memory, localIdx int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+localIdx])
		v, trap := mem.ReadUint64Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI64(v)
		s.IP++
		return next
	}
}

// MakeLoadAddressCalcFused builds the "address local+imm fused" shape:
// the address itself is base+staticOffset folded with an index already
// computed by an address-calc opfunc (family 7) sitting on the stack, so
// this opfunc pops the address rather than reading a local.
func MakeLoadAddressCalcFused32(mem *Memory, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := s.PopI32()
		v, trap := mem.ReadUint32Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			s.PushI32(addr)
			trapAt(s, startIP, trap)
		}
		s.PushI32(v)
		s.IP++
		return next
	}
}

// MakeLoadAddressCalcFused64 is the i64.load counterpart of
// MakeLoadAddressCalcFused32.
func MakeLoadAddressCalcFused64(mem *Memory, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := s.PopI32()
		v, trap := mem.ReadUint64Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			s.PushI32(addr)
			trapAt(s, startIP, trap)
		}
		s.PushI64(v)
		s.IP++
		return next
	}
}

// MakeLoadTwoLocalBaseReuse builds the two-local-get base-reuse variant:
// base and index both come from locals (no stack traffic for the
// address calculation), reusing the base across repeated accesses.
func MakeLoadTwoLocalBaseReuse32(mem *Memory, baseLocal, idxLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+baseLocal]) + uint32(s.Locals[s.LP+idxLocal])
		v, trap := mem.ReadUint32Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI32(v)
		s.IP++
		return next
	}
}

// MakeLoadTwoLocalBaseReuse64 is the i64.load counterpart of
// MakeLoadTwoLocalBaseReuse32.
func MakeLoadTwoLocalBaseReuse64(mem *Memory, baseLocal, idxLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+baseLocal]) + uint32(s.Locals[s.LP+idxLocal])
		v, trap := mem.ReadUint64Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI64(v)
		s.IP++
		return next
	}
}

// MakeLoadLocalSet builds "load; local.set": the loaded value never
// touches the logical stack, only the destination local.
func MakeLoadLocalSet32(mem *Memory, addrLocal int, staticOffset uint32, destLocal int, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint32Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.Locals[s.LP+destLocal] = uint64(v)
		s.IP++
		return next
	}
}

// MakeLoadLocalTee builds "load; local.tee": same as MakeLoadLocalSet32
// but additionally pushes the loaded value.
func MakeLoadLocalTee32(mem *Memory, addrLocal int, staticOffset uint32, destLocal int, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint32Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.Locals[s.LP+destLocal] = uint64(v)
		s.PushI32(v)
		s.IP++
		return next
	}
}

// MakeLoadLocalSet64 is the i64.load "load; local.set" shape.
func MakeLoadLocalSet64(mem *Memory, addrLocal int, staticOffset uint32, destLocal int, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint64Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.Locals[s.LP+destLocal] = v
		s.IP++
		return next
	}
}

// MakeLoadLocalTee64 is the i64.load "load; local.tee" shape.
func MakeLoadLocalTee64(mem *Memory, addrLocal int, staticOffset uint32, destLocal int, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint64Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.Locals[s.LP+destLocal] = v
		s.PushI64(v)
		s.IP++
		return next
	}
}

// MakeStoreFromLocal builds the store-from-local shape (full width, no
// narrowing).
func MakeStoreFromLocal32(mem *Memory, addrLocal int, staticOffset uint32, valueLocal int, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v := uint32(s.Locals[s.LP+valueLocal])
		if trap := mem.WriteUint32Le(startIP, staticOffset, addr, v, strategy); trap != nil {
			trapAt(s, startIP, trap)
		}
		s.IP++
		return next
	}
}

// MakeStoreFromImm builds the store-from-immediate shape.
func MakeStoreFromImm32(mem *Memory, addrLocal int, staticOffset uint32, imm uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		if trap := mem.WriteUint32Le(startIP, staticOffset, addr, imm, strategy); trap != nil {
			trapAt(s, startIP, trap)
		}
		s.IP++
		return next
	}
}

// MakeStoreFromLocal64 is the i64.store counterpart of
// MakeStoreFromLocal32 (full 8-byte width, no narrowing).
func MakeStoreFromLocal64(mem *Memory, addrLocal int, staticOffset uint32, valueLocal int, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v := s.Locals[s.LP+valueLocal]
		if trap := mem.WriteUint64Le(startIP, staticOffset, addr, v, strategy); trap != nil {
			trapAt(s, startIP, trap)
		}
		s.IP++
		return next
	}
}

// MakeStoreFromImm64 is the i64.store-from-immediate counterpart of
// MakeStoreFromImm32.
func MakeStoreFromImm64(mem *Memory, addrLocal int, staticOffset uint32, imm uint64, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		if trap := mem.WriteUint64Le(startIP, staticOffset, addr, imm, strategy); trap != nil {
			trapAt(s, startIP, trap)
		}
		s.IP++
		return next
	}
}

// MakeStoreNarrowI32 builds the narrowing i32 -> i8/i16 store shape.
// width must be 1 or 2; the value is truncated, never sign-checked (Wasm
// narrow stores are pure truncation regardless of the store's signedness
// mnemonic, which only matters on the load side).
func MakeStoreNarrowI32(mem *Memory, addrLocal int, staticOffset uint32, valueLocal int, width int, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v := uint32(s.Locals[s.LP+valueLocal])
		var trap *TrapError
		switch width {
		case 1:
			trap = mem.WriteByte(startIP, staticOffset, addr, byte(v), strategy)
		case 2:
			trap = mem.WriteUint16Le(startIP, staticOffset, addr, uint16(v), strategy)
		default:
			panic(errInvalidValueType)
		}
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.IP++
		return next
	}
}

// MakeStoreNarrowI64 builds the narrowing i64 -> i32 store shape.
func MakeStoreNarrowI64(mem *Memory, addrLocal int, staticOffset uint32, valueLocal int, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v := s.Locals[s.LP+valueLocal]
		if trap := mem.WriteUint32Le(startIP, staticOffset, addr, uint32(v), strategy); trap != nil {
			trapAt(s, startIP, trap)
		}
		s.IP++
		return next
	}
}

// MakeLoadSignExtend8 / MakeLoadSignExtend16 build the signed narrow load
// shapes (i32.load8_s / i32.load16_s): read the narrow width, then
// sign-extend to 32 bits.
func MakeLoadSignExtend8(mem *Memory, addrLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		b, trap := mem.ReadByte(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI32(uint32(int32(int8(b))))
		s.IP++
		return next
	}
}

func MakeLoadSignExtend16(mem *Memory, addrLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint16Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI32(uint32(int32(int16(v))))
		s.IP++
		return next
	}
}

// MakeLoadZeroExtend8 / MakeLoadZeroExtend16 build the unsigned narrow
// load shapes.
func MakeLoadZeroExtend8(mem *Memory, addrLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		b, trap := mem.ReadByte(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI32(uint32(b))
		s.IP++
		return next
	}
}

func MakeLoadZeroExtend16(mem *Memory, addrLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint16Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI32(uint32(v))
		s.IP++
		return next
	}
}

// MakeLoadSignExtend8To64 / MakeLoadSignExtend16To64 / MakeLoadSignExtend32To64
// build the i64-result signed narrow load shapes (i64.load8_s,
// i64.load16_s, i64.load32_s): read the narrow width, sign-extend to 64
// bits.
func MakeLoadSignExtend8To64(mem *Memory, addrLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		b, trap := mem.ReadByte(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI64(uint64(int64(int8(b))))
		s.IP++
		return next
	}
}

func MakeLoadSignExtend16To64(mem *Memory, addrLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint16Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI64(uint64(int64(int16(v))))
		s.IP++
		return next
	}
}

func MakeLoadSignExtend32To64(mem *Memory, addrLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint32Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI64(uint64(int64(int32(v))))
		s.IP++
		return next
	}
}

// MakeLoadZeroExtend8To64 / MakeLoadZeroExtend16To64 / MakeLoadZeroExtend32To64
// build the i64-result unsigned narrow load shapes.
func MakeLoadZeroExtend8To64(mem *Memory, addrLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		b, trap := mem.ReadByte(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI64(uint64(b))
		s.IP++
		return next
	}
}

func MakeLoadZeroExtend16To64(mem *Memory, addrLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint16Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI64(uint64(v))
		s.IP++
		return next
	}
}

func MakeLoadZeroExtend32To64(mem *Memory, addrLocal int, staticOffset uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint32Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI64(uint64(v))
		s.IP++
		return next
	}
}

// MakeLoadImmArith builds "load; imm op" fusion: load, then apply an i32
// binop against an encoded immediate, push once.
func MakeLoadImmArith32(mem *Memory, addrLocal int, staticOffset uint32, op I32BinOp, imm uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+addrLocal])
		v, trap := mem.ReadUint32Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI32(op(v, imm))
		s.IP++
		return next
	}
}

// MakeLoadImmArith32TwoLocal is the two-local-address variant of
// MakeLoadImmArith32 (spec.md §4.C.12: "also the two-local variant"): the
// address is base+idx from two locals rather than a single addrLocal,
// matching MakeLoadTwoLocalBaseReuse32's address computation.
func MakeLoadImmArith32TwoLocal(mem *Memory, baseLocal, idxLocal int, staticOffset uint32, op I32BinOp, imm uint32, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		addr := uint32(s.Locals[s.LP+baseLocal]) + uint32(s.Locals[s.LP+idxLocal])
		v, trap := mem.ReadUint32Le(startIP, staticOffset, addr, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		s.PushI32(op(v, imm))
		s.IP++
		return next
	}
}

// MakeMemcpy4 builds the 4-byte memcpy fusion: two local.get for dst/src,
// a load, a store, net stack delta zero.
func MakeMemcpy4(mem *Memory, dstLocal, srcLocal int, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		src := uint32(s.Locals[s.LP+srcLocal])
		dst := uint32(s.Locals[s.LP+dstLocal])
		v, trap := mem.ReadUint32Le(startIP, 0, src, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		if trap := mem.WriteUint32Le(startIP, 0, dst, v, strategy); trap != nil {
			trapAt(s, startIP, trap)
		}
		s.IP++
		return next
	}
}

// MakeMemcpy8 builds the 8-byte memcpy fusion.
func MakeMemcpy8(mem *Memory, dstLocal, srcLocal int, strategy BoundsCheckStrategy, next ChainedRecord) ChainedRecord {
	return func(s *State) ChainedRecord {
		startIP := s.IP
		src := uint32(s.Locals[s.LP+srcLocal])
		dst := uint32(s.Locals[s.LP+dstLocal])
		v, trap := mem.ReadUint64Le(startIP, 0, src, strategy)
		if trap != nil {
			trapAt(s, startIP, trap)
		}
		if trap := mem.WriteUint64Le(startIP, 0, dst, v, strategy); trap != nil {
			trapAt(s, startIP, trap)
		}
		s.IP++
		return next
	}
}
