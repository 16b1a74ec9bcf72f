package fused

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingPushPopOrder(t *testing.T) {
	r := &Ring{}
	rr := RingRange{Begin: 0, End: 4}
	r.currI32 = rr.Begin

	r.PushI32(rr, 10)
	r.PushI32(rr, 20)
	r.PushI32(rr, 30)

	assert.Equal(t, uint32(30), r.TopI32(rr))
	assert.Equal(t, uint32(30), r.PopI32(rr))
	assert.Equal(t, uint32(20), r.PopI32(rr))
	assert.Equal(t, uint32(10), r.PopI32(rr))
}

func TestRingWrapsAtRangeBoundary(t *testing.T) {
	rr := RingRange{Begin: 2, End: 5}
	r := &Ring{currI32: rr.Begin}

	for i := 0; i < 10; i++ {
		r.PushI32(rr, uint32(i))
		require.GreaterOrEqual(t, r.currI32, rr.Begin)
		require.Less(t, r.currI32, rr.End)
	}
}

// TestRingTransformCanonicalizesPosition is property P4 at the ring
// level: after Transform, curr_T == begin_T for every enabled type, and the
// logical top-of-stack ordering is preserved.
func TestRingTransformCanonicalizesPosition(t *testing.T) {
	opt := CompileOption{
		IsTailCall: true,
		I32:        RingRange{Begin: 0, End: 4},
	}
	r := &Ring{currI32: opt.I32.Begin}
	r.PushI32(opt.I32, 1)
	r.PushI32(opt.I32, 2)
	r.PushI32(opt.I32, 3)

	top := r.TopI32(opt.I32)
	second := r.i32[ringNext(r.currI32, opt.I32)]

	r.Transform(opt)

	assert.Equal(t, opt.I32.Begin, r.currI32)
	assert.Equal(t, top, r.TopI32(opt.I32))
	assert.Equal(t, second, r.i32[ringNext(r.currI32, opt.I32)])
}

func TestRingTransformNoopWhenAlreadyCanonical(t *testing.T) {
	// A single-slot range always leaves curr_T at Begin after any push,
	// so Transform has nothing to rotate.
	opt := CompileOption{IsTailCall: true, I64: RingRange{Begin: 1, End: 2}}
	r := &Ring{currI64: opt.I64.Begin}
	r.PushI64(opt.I64, 99)
	require.Equal(t, opt.I64.Begin, r.currI64)
	before := r.i64

	r.Transform(opt)

	assert.Equal(t, opt.I64.Begin, r.currI64)
	assert.Equal(t, before, r.i64)
}

func TestRingTransformSkipsDisabledTypes(t *testing.T) {
	opt := CompileOption{IsTailCall: true}
	r := &Ring{}
	assert.NotPanics(t, func() { r.Transform(opt) })
}
