package fused

import "sync"

// Memory is a linear memory instance (spec.md §3/§4.E). Grow is external
// to this core (spec.md §4.E: "Grow operations are outside this core");
// what lives here is the reader side every fused memory opfunc goes
// through: the shared-read lock, the effective-offset computation, and
// the two bounds-check strategies.
type Memory struct {
	mu     sync.RWMutex
	base   []byte
	length uint64
	index  uint32
}

// NewMemory wraps base as linear memory index idx. base's capacity may
// exceed length; Grow (owned by the external allocator) is expected to
// reslice base and update length under an exclusive lock.
func NewMemory(idx uint32, base []byte) *Memory {
	return &Memory{base: base, length: uint64(len(base)), index: idx}
}

// EnterMemoryOperationLock acquires the shared-read lock (spec.md §4.E
// enter_memory_operation_memory_lock). It must not be held across a host
// call (spec.md Design Notes).
func (m *Memory) EnterMemoryOperationLock() { m.mu.RLock() }

// ExitMemoryOperationLock releases the shared-read lock.
func (m *Memory) ExitMemoryOperationLock() { m.mu.RUnlock() }

// Grow is the external, exclusive-writer mutation (spec.md §4.E): it
// acquires an exclusive lock, relocates base/length, and releases. It is
// not invoked by any fused opfunc directly — the translator's memory.grow
// handling calls it — but lives alongside the reader lock it is
// serialized against.
func (m *Memory) Grow(newBase []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.base = newBase
	m.length = uint64(len(newBase))
}

// Length returns the current length. Must be called while holding the
// shared-read lock for the read to be meaningful against a concurrent
// grow.
func (m *Memory) Length() uint64 { return m.length }

// EffectiveOffset computes address + staticOffset in the 33-bit integer
// domain spec.md §3 describes: both operands are 32-bit, so their sum
// fits in 33 bits and overflow (effective >= 2^32) is detected by a
// plain uint64 comparison rather than address-arithmetic wraparound.
// This is the same check interpreter.go's popMemoryOffset performed
// (mined before removal, see DESIGN.md): "offset := op.us[1] +
// ce.popValue(); if offset > math.MaxUint32 { panic(...) }".
func EffectiveOffset(address, staticOffset uint32) (effective uint64, overflow bool) {
	effective = uint64(address) + uint64(staticOffset)
	return effective, effective > 0xFFFFFFFF
}

// BoundsCheckStrategy is the selector-chosen policy (spec.md §4.E/§4.F):
// generic evaluates the inequality; specialized is statically known to
// never trap for a given memory and is elided entirely.
type BoundsCheckStrategy func(length uint64, effective uint64, width uint32, overflow bool) bool

// GenericBoundsCheck is the always-evaluated inequality test (spec.md
// §4.E point 3): trap if effective+width > length or the 33-bit overflow
// bit is set.
func GenericBoundsCheck(length, effective uint64, width uint32, overflow bool) bool {
	if overflow {
		return true
	}
	return effective+uint64(width) > length
}

// SpecializedNoCheck is the elided bounds-check strategy the selector
// hands out for memories with a known-safe upper bound (spec.md §4.E
// point 3: "a specialized path... is statically known to never trap and
// is elided"). It is only correct to select this when the translator has
// independently proven the access range safe; this core does not itself
// perform that proof (that is the translator's job, per §1's scope cut).
func SpecializedNoCheck(uint64, uint64, uint32, bool) bool { return false }

// checkRange performs the bounds-check half of the memory-op contract of
// spec.md §4.C.12 / §4.E: it must be called while already holding the
// shared-read lock, and returns the effective offset to read/write at.
// The caller performs the actual little-endian access itself, still under
// the same lock, then releases it — so the access and the lock it depends
// on for a consistent base/length (Design Notes) never straddle an unlock.
func (m *Memory) checkRange(ip int, staticOffset, address uint32, width uint32, strategy BoundsCheckStrategy) (uint64, *TrapError) {
	eff, overflow := EffectiveOffset(address, staticOffset)
	if strategy(m.length, eff, width, overflow) {
		return 0, newMemoryOOBTrap(ip, m.index, staticOffset, eff, m.length, width)
	}
	return eff, nil
}

// ReadByte, ReadUint16Le, ReadUint32Le, ReadUint64Le and their Write
// counterparts are the declared-width accessors spec.md §4.C.12 lists:
// signed narrow loads sign-extend and unsigned narrow loads zero-extend
// at the opfunc level (see opfuncs_memop.go); this layer only guarantees
// the raw little-endian bytes. Each holds the shared-read lock across the
// bounds check *and* the byte copy, so a concurrent Grow (exclusive lock)
// can never land between the check and the access it validated.

func (m *Memory) ReadByte(ip int, staticOffset, address uint32, strategy BoundsCheckStrategy) (byte, *TrapError) {
	m.EnterMemoryOperationLock()
	defer m.ExitMemoryOperationLock()
	eff, trap := m.checkRange(ip, staticOffset, address, 1, strategy)
	if trap != nil {
		return 0, trap
	}
	return m.base[eff], nil
}

func (m *Memory) ReadUint16Le(ip int, staticOffset, address uint32, strategy BoundsCheckStrategy) (uint16, *TrapError) {
	m.EnterMemoryOperationLock()
	defer m.ExitMemoryOperationLock()
	eff, trap := m.checkRange(ip, staticOffset, address, 2, strategy)
	if trap != nil {
		return 0, trap
	}
	return leLoad16(m.base[eff : eff+2]), nil
}

func (m *Memory) ReadUint32Le(ip int, staticOffset, address uint32, strategy BoundsCheckStrategy) (uint32, *TrapError) {
	m.EnterMemoryOperationLock()
	defer m.ExitMemoryOperationLock()
	eff, trap := m.checkRange(ip, staticOffset, address, 4, strategy)
	if trap != nil {
		return 0, trap
	}
	return leLoad32(m.base[eff : eff+4]), nil
}

func (m *Memory) ReadUint64Le(ip int, staticOffset, address uint32, strategy BoundsCheckStrategy) (uint64, *TrapError) {
	m.EnterMemoryOperationLock()
	defer m.ExitMemoryOperationLock()
	eff, trap := m.checkRange(ip, staticOffset, address, 8, strategy)
	if trap != nil {
		return 0, trap
	}
	return leLoad64(m.base[eff : eff+8]), nil
}

func (m *Memory) WriteByte(ip int, staticOffset, address uint32, v byte, strategy BoundsCheckStrategy) *TrapError {
	m.EnterMemoryOperationLock()
	defer m.ExitMemoryOperationLock()
	eff, trap := m.checkRange(ip, staticOffset, address, 1, strategy)
	if trap != nil {
		return trap
	}
	m.base[eff] = v
	return nil
}

func (m *Memory) WriteUint16Le(ip int, staticOffset, address uint32, v uint16, strategy BoundsCheckStrategy) *TrapError {
	m.EnterMemoryOperationLock()
	defer m.ExitMemoryOperationLock()
	eff, trap := m.checkRange(ip, staticOffset, address, 2, strategy)
	if trap != nil {
		return trap
	}
	leStore16(m.base[eff:eff+2], v)
	return nil
}

func (m *Memory) WriteUint32Le(ip int, staticOffset, address uint32, v uint32, strategy BoundsCheckStrategy) *TrapError {
	m.EnterMemoryOperationLock()
	defer m.ExitMemoryOperationLock()
	eff, trap := m.checkRange(ip, staticOffset, address, 4, strategy)
	if trap != nil {
		return trap
	}
	leStore32(m.base[eff:eff+4], v)
	return nil
}

func (m *Memory) WriteUint64Le(ip int, staticOffset, address uint32, v uint64, strategy BoundsCheckStrategy) *TrapError {
	m.EnterMemoryOperationLock()
	defer m.ExitMemoryOperationLock()
	eff, trap := m.checkRange(ip, staticOffset, address, 8, strategy)
	if trap != nil {
		return trap
	}
	leStore64(m.base[eff:eff+8], v)
	return nil
}
