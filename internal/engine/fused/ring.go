package fused

import "github.com/wasmfuse/fusedcore/internal/buildoptions"

// maxRingSlots bounds the fixed-size arrays backing each type's ring.
// Neither Validate nor the selector checks a RingRange against this
// bound: a range reaching past maxRingSlots passes Validate, and the
// first ring access beyond the arrays panics with a Go index-out-of-range
// error.
const maxRingSlots = 8

// Ring holds the stack-top cache slots for all five value-type families
// (spec.md §4.B). curr_T (named currI32 etc.) is a runtime field here,
// read and advanced by every Push/Pop/Top call. Opfuncs are not
// specialized per ring position: one closure serves every curr_T, and
// no selector in selector.go takes a ring position as input.
type Ring struct {
	i32  [maxRingSlots]uint32
	i64  [maxRingSlots]uint64
	f32  [maxRingSlots]uint32 // bit pattern
	f64  [maxRingSlots]uint64 // bit pattern
	v128 [maxRingSlots][16]byte

	currI32, currI64, currF32, currF64, currV128 int
}

func ringNext(pos int, r RingRange) int {
	pos++
	if pos >= r.End {
		return r.Begin
	}
	return pos
}

func ringPrev(pos int, r RingRange) int {
	pos--
	if pos < r.Begin {
		return r.End - 1
	}
	return pos
}

func checkRingPos(pos int, r RingRange) {
	if buildoptions.IstTest {
		if pos < r.Begin || pos >= r.End {
			panic(errRingPositionOOR)
		}
	}
}

// PushI32 advances curr_i32 one step backward (ring_prev) and writes v
// into the new top slot, per spec.md §4.B's "push" rule.
func (ring *Ring) PushI32(r RingRange, v uint32) {
	ring.currI32 = ringPrev(ring.currI32, r)
	checkRingPos(ring.currI32, r)
	ring.i32[ring.currI32] = v
}

// PopI32 reads the current top and advances curr_i32 forward (ring_next).
func (ring *Ring) PopI32(r RingRange) uint32 {
	checkRingPos(ring.currI32, r)
	v := ring.i32[ring.currI32]
	ring.currI32 = ringNext(ring.currI32, r)
	return v
}

// TopI32 reads the current top without advancing the position.
func (ring *Ring) TopI32(r RingRange) uint32 {
	checkRingPos(ring.currI32, r)
	return ring.i32[ring.currI32]
}

func (ring *Ring) PushI64(r RingRange, v uint64) {
	ring.currI64 = ringPrev(ring.currI64, r)
	checkRingPos(ring.currI64, r)
	ring.i64[ring.currI64] = v
}

func (ring *Ring) PopI64(r RingRange) uint64 {
	checkRingPos(ring.currI64, r)
	v := ring.i64[ring.currI64]
	ring.currI64 = ringNext(ring.currI64, r)
	return v
}

func (ring *Ring) TopI64(r RingRange) uint64 {
	checkRingPos(ring.currI64, r)
	return ring.i64[ring.currI64]
}

func (ring *Ring) PushF32(r RingRange, bits uint32) {
	ring.currF32 = ringPrev(ring.currF32, r)
	checkRingPos(ring.currF32, r)
	ring.f32[ring.currF32] = bits
}

func (ring *Ring) PopF32(r RingRange) uint32 {
	checkRingPos(ring.currF32, r)
	v := ring.f32[ring.currF32]
	ring.currF32 = ringNext(ring.currF32, r)
	return v
}

func (ring *Ring) TopF32(r RingRange) uint32 {
	checkRingPos(ring.currF32, r)
	return ring.f32[ring.currF32]
}

func (ring *Ring) PushF64(r RingRange, bits uint64) {
	ring.currF64 = ringPrev(ring.currF64, r)
	checkRingPos(ring.currF64, r)
	ring.f64[ring.currF64] = bits
}

func (ring *Ring) PopF64(r RingRange) uint64 {
	checkRingPos(ring.currF64, r)
	v := ring.f64[ring.currF64]
	ring.currF64 = ringNext(ring.currF64, r)
	return v
}

func (ring *Ring) TopF64(r RingRange) uint64 {
	checkRingPos(ring.currF64, r)
	return ring.f64[ring.currF64]
}

func (ring *Ring) PushV128(r RingRange, v [16]byte) {
	ring.currV128 = ringPrev(ring.currV128, r)
	checkRingPos(ring.currV128, r)
	ring.v128[ring.currV128] = v
}

func (ring *Ring) PopV128(r RingRange) [16]byte {
	checkRingPos(ring.currV128, r)
	v := ring.v128[ring.currV128]
	ring.currV128 = ringNext(ring.currV128, r)
	return v
}

// Transform rotates every enabled ring so curr_T == begin_T for all T,
// the "stack-top transform" primitive emitted before an unconditional br
// (spec.md §4.B, §4.C family 10, property P4). Rotation preserves the
// relative order of the logically-still-on-stack values: what was at
// curr_T moves to begin_T, what was at ring_next(curr_T) moves to
// begin_T+1, and so on.
func (ring *Ring) Transform(opt CompileOption) {
	if !opt.I32.Disabled() {
		ring.rotateI32(opt.I32)
	}
	if !opt.I64.Disabled() {
		ring.rotateI64(opt.I64)
	}
	if !opt.F32.Disabled() {
		ring.rotateF32(opt.F32)
	}
	if !opt.F64.Disabled() {
		ring.rotateF64(opt.F64)
	}
	if !opt.V128.Disabled() {
		ring.rotateV128(opt.V128)
	}
}

func (ring *Ring) rotateI32(r RingRange) {
	if ring.currI32 == r.Begin {
		return
	}
	var tmp [maxRingSlots]uint32
	pos := ring.currI32
	for i := 0; i < r.Size(); i++ {
		tmp[i] = ring.i32[pos]
		pos = ringNext(pos, r)
	}
	copy(ring.i32[r.Begin:r.End], tmp[:r.Size()])
	ring.currI32 = r.Begin
}

func (ring *Ring) rotateI64(r RingRange) {
	if ring.currI64 == r.Begin {
		return
	}
	var tmp [maxRingSlots]uint64
	pos := ring.currI64
	for i := 0; i < r.Size(); i++ {
		tmp[i] = ring.i64[pos]
		pos = ringNext(pos, r)
	}
	copy(ring.i64[r.Begin:r.End], tmp[:r.Size()])
	ring.currI64 = r.Begin
}

func (ring *Ring) rotateF32(r RingRange) {
	if ring.currF32 == r.Begin {
		return
	}
	var tmp [maxRingSlots]uint32
	pos := ring.currF32
	for i := 0; i < r.Size(); i++ {
		tmp[i] = ring.f32[pos]
		pos = ringNext(pos, r)
	}
	copy(ring.f32[r.Begin:r.End], tmp[:r.Size()])
	ring.currF32 = r.Begin
}

func (ring *Ring) rotateF64(r RingRange) {
	if ring.currF64 == r.Begin {
		return
	}
	var tmp [maxRingSlots]uint64
	pos := ring.currF64
	for i := 0; i < r.Size(); i++ {
		tmp[i] = ring.f64[pos]
		pos = ringNext(pos, r)
	}
	copy(ring.f64[r.Begin:r.End], tmp[:r.Size()])
	ring.currF64 = r.Begin
}

func (ring *Ring) rotateV128(r RingRange) {
	if ring.currV128 == r.Begin {
		return
	}
	var tmp [maxRingSlots][16]byte
	pos := ring.currV128
	for i := 0; i < r.Size(); i++ {
		tmp[i] = ring.v128[pos]
		pos = ringNext(pos, r)
	}
	copy(ring.v128[r.Begin:r.End], tmp[:r.Size()])
	ring.currV128 = r.Begin
}
