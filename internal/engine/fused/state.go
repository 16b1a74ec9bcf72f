package fused

// State is the fixed parameter pack threaded through every opfunc
// (spec.md §3). It is activation-private: no field here is ever touched
// by more than one goroutine, so nothing in State needs synchronization
// (spec.md §5) — only Memory, which is reachable from State.Mem but
// shared across activations, carries its own lock.
//
// The "parameter pack" is modeled as a single mutable struct passed by
// pointer, per spec.md §9's Design Notes, rather than as individually
// threaded values; Go gives no control over whether such a struct stays
// register-resident, so the chained/stepped split (dispatch.go) is what
// carries the actual performance-relevant shape, not this struct's layout.
type State struct {
	// IP is the current read cursor into the bytecode stream: the
	// position of the current record. For RunStepped it indexes the
	// []SteppedRecord slice, and len of that slice is the terminator.
	IP int

	// SP mirrors len(Arena); spec.md §3 defines it as an explicit slot
	// in the parameter pack, mutable by opfuncs and checked by property
	// P1, so it is kept as a plain field rather than derived on every
	// read.
	SP int

	// Arena is the operand-stack byte arena (spec.md §3 invariant 2).
	// Each logical slot occupies one uint64 regardless of its Wasm
	// width, mirroring interpreter.go's callEngine.stack []uint64 and
	// kept for the same reason: the arena only ever holds values not
	// resident in the ring, so its element width need not track the
	// ring's packed per-type layout.
	Arena []uint64

	// Locals is the current frame's local-variable storage; LP is the
	// base index of the current frame within it (spec.md §3 "lp").
	Locals []uint64
	LP     int

	// Globals is indexed directly by global index; global.get/set fused
	// opfuncs (family 6) read and write it in place.
	Globals []uint64

	Ring Ring

	// Mem is the linear memory this activation's memory ops address.
	// Nil if the function never accesses memory.
	Mem *Memory

	opt CompileOption
}

// NewState constructs activation-private state for a function with the
// given local count, linear memory (nil if unused), and global table; it
// panics if opt fails Validate. Ring slot contents start at zero; Ring's curr_T fields start at
// each enabled type's Begin, matching the canonical position a function
// entry is defined to start in (spec.md §4.B: branch targets expect
// curr_T == begin_T, and so does function entry by the same contract).
func NewState(opt CompileOption, locals int, mem *Memory, globals []uint64) *State {
	if err := opt.Validate(); err != nil {
		panic(err)
	}
	s := &State{
		Locals:  make([]uint64, locals),
		Globals: globals,
		Mem:     mem,
		opt:     opt,
	}
	s.Ring.currI32 = opt.I32.Begin
	s.Ring.currI64 = opt.I64.Begin
	s.Ring.currF32 = opt.F32.Begin
	s.Ring.currF64 = opt.F64.Begin
	s.Ring.currV128 = opt.V128.Begin
	return s
}

// PushArena/PopArena implement the byte-arena portion of the operand
// stack for operand types the CompileOption maps outside the ring, or
// for the excess operands of an op whose ring capacity is smaller than
// the number of simultaneous operands it needs (spec.md §4.B).
func (s *State) PushArena(v uint64) {
	s.Arena = append(s.Arena, v)
	s.SP++
}

func (s *State) PopArena() uint64 {
	v := s.Arena[len(s.Arena)-1]
	s.Arena = s.Arena[:len(s.Arena)-1]
	s.SP--
	return v
}

// Option returns the CompileOption this state was built from.
func (s *State) Option() CompileOption { return s.opt }

// The Push*/Pop*/Top* family below is the logical "operand stack top"
// interface every fused opfunc is written against: each reads s.opt to
// decide whether a type's top lives in the ring or the byte arena
// (begin_T == end_T), so the same opfunc body works unchanged whether or
// not that type's cache is enabled — only the selector (selector.go)
// varies which concrete closure gets wired into the stream, not the
// logic within it.

func (s *State) PushI32(v uint32) {
	r := s.opt.I32
	if r.Disabled() {
		s.PushArena(uint64(v))
		return
	}
	s.Ring.PushI32(r, v)
}

func (s *State) PopI32() uint32 {
	r := s.opt.I32
	if r.Disabled() {
		return uint32(s.PopArena())
	}
	return s.Ring.PopI32(r)
}

func (s *State) TopI32() uint32 {
	r := s.opt.I32
	if r.Disabled() {
		return uint32(s.Arena[len(s.Arena)-1])
	}
	return s.Ring.TopI32(r)
}

// ReplaceTopI32 implements family 2's replace-the-top shape: overwrite
// the current top without changing curr_T/sp (net stack delta 0).
func (s *State) ReplaceTopI32(v uint32) {
	r := s.opt.I32
	if r.Disabled() {
		s.Arena[len(s.Arena)-1] = uint64(v)
		return
	}
	s.Ring.i32[s.Ring.currI32] = v
}

func (s *State) PushI64(v uint64) {
	r := s.opt.I64
	if r.Disabled() {
		s.PushArena(v)
		return
	}
	s.Ring.PushI64(r, v)
}

func (s *State) PopI64() uint64 {
	r := s.opt.I64
	if r.Disabled() {
		return s.PopArena()
	}
	return s.Ring.PopI64(r)
}

func (s *State) TopI64() uint64 {
	r := s.opt.I64
	if r.Disabled() {
		return s.Arena[len(s.Arena)-1]
	}
	return s.Ring.TopI64(r)
}

func (s *State) ReplaceTopI64(v uint64) {
	r := s.opt.I64
	if r.Disabled() {
		s.Arena[len(s.Arena)-1] = v
		return
	}
	s.Ring.i64[s.Ring.currI64] = v
}

func (s *State) PushF32(bits uint32) {
	r := s.opt.F32
	if r.Disabled() {
		s.PushArena(uint64(bits))
		return
	}
	s.Ring.PushF32(r, bits)
}

func (s *State) PopF32() uint32 {
	r := s.opt.F32
	if r.Disabled() {
		return uint32(s.PopArena())
	}
	return s.Ring.PopF32(r)
}

func (s *State) TopF32() uint32 {
	r := s.opt.F32
	if r.Disabled() {
		return uint32(s.Arena[len(s.Arena)-1])
	}
	return s.Ring.TopF32(r)
}

func (s *State) ReplaceTopF32(bits uint32) {
	r := s.opt.F32
	if r.Disabled() {
		s.Arena[len(s.Arena)-1] = uint64(bits)
		return
	}
	s.Ring.f32[s.Ring.currF32] = bits
}

func (s *State) PushF64(bits uint64) {
	r := s.opt.F64
	if r.Disabled() {
		s.PushArena(bits)
		return
	}
	s.Ring.PushF64(r, bits)
}

func (s *State) PopF64() uint64 {
	r := s.opt.F64
	if r.Disabled() {
		return s.PopArena()
	}
	return s.Ring.PopF64(r)
}

func (s *State) TopF64() uint64 {
	r := s.opt.F64
	if r.Disabled() {
		return s.Arena[len(s.Arena)-1]
	}
	return s.Ring.TopF64(r)
}

func (s *State) ReplaceTopF64(bits uint64) {
	r := s.opt.F64
	if r.Disabled() {
		s.Arena[len(s.Arena)-1] = bits
		return
	}
	s.Ring.f64[s.Ring.currF64] = bits
}

// PushV128/PopV128: when the v128 ring is disabled, the opaque 16-byte
// value occupies two consecutive arena slots (lo 8 bytes, then hi 8
// bytes) rather than one, since Arena's element width is fixed at 8
// bytes (see State.Arena's doc comment) and v128 is carried opaquely,
// never interpreted, by this core (spec.md §3).
func (s *State) PushV128(v [16]byte) {
	r := s.opt.V128
	if r.Disabled() {
		s.PushArena(leLoad64(v[:8]))
		s.PushArena(leLoad64(v[8:]))
		return
	}
	s.Ring.PushV128(r, v)
}

func (s *State) PopV128() [16]byte {
	r := s.opt.V128
	if r.Disabled() {
		var v [16]byte
		hi := s.PopArena()
		lo := s.PopArena()
		leStore64(v[:8], lo)
		leStore64(v[8:], hi)
		return v
	}
	return s.Ring.PopV128(r)
}
