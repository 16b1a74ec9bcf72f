package fused

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainedOptNoRing() CompileOption {
	return CompileOption{IsTailCall: true}
}

func chainedOptWithI32Ring() CompileOption {
	return CompileOption{IsTailCall: true, I32: RingRange{Begin: 0, End: 4}}
}

// TestRunChainedSimpleProgram runs "push 7; add 5; halt" and checks the
// final arena value, exercising property P1 (sp delta matches the net
// effect of the executed records).
func TestRunChainedSimpleProgram(t *testing.T) {
	opt := chainedOptNoRing()
	s := NewState(opt, 1, nil, nil)

	var program ChainedRecord
	program = func(s *State) ChainedRecord {
		s.PushI32(7)
		s.IP++
		return func(s *State) ChainedRecord {
			s.ReplaceTopI32(I32Add(s.TopI32(), 5))
			s.IP++
			return nil
		}
	}

	trap, err := RunChained(s, program)
	require.Nil(t, trap)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), s.TopI32())
	assert.Equal(t, 1, s.SP)
}

// TestRunSteppedEquivalentToChained runs the same computation through
// both dispatch modes and checks they agree (both must disable the ring
// for stepped mode per CompileOption.Validate).
func TestRunSteppedEquivalentToChained(t *testing.T) {
	chainedState := NewState(chainedOptNoRing(), 1, nil, nil)
	var chainedProgram ChainedRecord
	chainedProgram = func(s *State) ChainedRecord {
		s.PushI32(7)
		s.IP++
		return func(s *State) ChainedRecord {
			s.ReplaceTopI32(I32Add(s.TopI32(), 5))
			s.IP++
			return nil
		}
	}
	trap, err := RunChained(chainedState, chainedProgram)
	require.Nil(t, trap)
	require.NoError(t, err)

	steppedState := NewState(CompileOption{IsTailCall: false}, 1, nil, nil)
	steppedProgram := []SteppedRecord{
		func(s *State) { s.PushI32(7); s.IP++ },
		func(s *State) { s.ReplaceTopI32(I32Add(s.TopI32(), 5)); s.IP++ },
	}
	trap, err = RunStepped(steppedState, steppedProgram)
	require.Nil(t, trap)
	require.NoError(t, err)

	assert.Equal(t, chainedState.TopI32(), steppedState.TopI32())
}

// TestTrapRollsIPBackAndStopsExecution is property P3: a trap never
// mutates state beyond the roll-back of ip, and no record past the
// trapping one runs.
func TestTrapRollsIPBackAndStopsExecution(t *testing.T) {
	opt := chainedOptNoRing()
	s := NewState(opt, 1, nil, nil)
	ran := false

	var program ChainedRecord
	program = func(s *State) ChainedRecord {
		startIP := s.IP
		trapAt(s, startIP, &TrapError{Kind: TrapUnreachable})
		ran = true
		return nil
	}

	trap, err := RunChained(s, program)
	require.NoError(t, err)
	require.NotNil(t, trap)
	assert.Equal(t, TrapUnreachable, trap.Kind)
	assert.False(t, ran)
	assert.Equal(t, 0, s.IP)
}

// TestNonTrapPanicPropagates verifies internal invariant violations are
// not swallowed by the trap-recovery boundary (spec.md §7: only
// guest-visible traps are recovered).
func TestNonTrapPanicPropagates(t *testing.T) {
	opt := chainedOptNoRing()
	s := NewState(opt, 1, nil, nil)

	var program ChainedRecord
	program = func(s *State) ChainedRecord {
		panic(errSelectorNoMatch)
	}

	assert.Panics(t, func() {
		_, _ = RunChained(s, program)
	})
}

// TestStackTopTransformLeavesRingAtBegin is property P4.
func TestStackTopTransformLeavesRingAtBegin(t *testing.T) {
	opt := chainedOptWithI32Ring()
	s := NewState(opt, 0, nil, nil)
	s.PushI32(1)
	s.PushI32(2)

	next := func(s *State) ChainedRecord { return nil }
	rec := MakeStackTopTransform(next)

	_, err := RunChained(s, rec)
	require.NoError(t, err)
	assert.Equal(t, opt.I32.Begin, s.Ring.currI32)
}
