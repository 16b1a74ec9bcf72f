package fused

// This file implements the two dispatch modes of spec.md §4.A.
//
// Go has no guaranteed tail call (the Design Notes in spec.md §9
// anticipate exactly this): "If the target environment cannot express
// this as a direct tail jump, use a central dispatch loop with a 'next
// opfunc' register... and inline the opfunc bodies". ChainedRecord is
// that register made concrete: each opfunc, on exit, *returns* the next
// record instead of calling it, and RunChained's for-loop is the single
// call frame that ever exists regardless of how long the function body
// is — Go stack depth is therefore O(1) in program length, which is the
// actual guarantee spec.md §4.A requires ("stack depth is bounded
// regardless of program length"), just expressed as a trampoline rather
// than a literal tail-call instruction.
//
// Each fused opfunc's immediates are baked into its ChainedRecord/
// SteppedRecord closure at selection time (selector.go), rather than
// decoded from a raw byte stream at every execution — spec.md §3
// describes the immediates as embedded in the stream and read "byte-
// identical" on each pass; a closure capturing those same byte-identical
// values once, at translation time, and never re-decoding them satisfies
// the same contract while fitting Go's closure idiom instead of C's
// flat-struct-plus-pointer-arithmetic idiom the sampled file used.

// ChainedRecord is one record of the chained bytecode stream: calling it
// executes the fused operation and returns the next record to execute,
// or nil at the stream terminator.
type ChainedRecord func(s *State) ChainedRecord

// SteppedRecord is one record of the stepped bytecode stream: calling it
// executes the fused operation, updates State by reference (including
// advancing s.IP), and returns. Control always returns to RunStepped's
// loop after each record.
type SteppedRecord func(s *State)

// RunChained executes a chained-layout stream starting at first. It is
// the threaded dispatch loop of spec.md §4.A: the stream is its own
// program counter, and the loop below is the only Go call frame involved
// for the whole function body.
//
// On a trap, the panicking opfunc has already rolled s.IP back to the
// start of the trapping record (invariant 5) before panicking; RunChained
// recovers it here and returns it as trap (err stays nil) instead of letting it
// propagate past the activation, per spec.md §7's "does not partially
// execute on trap".
func RunChained(s *State, first ChainedRecord) (trap *TrapError, err error) {
	defer func() {
		if r := recover(); r != nil {
			if te, ok := r.(*TrapError); ok {
				trap = te
				return
			}
			panic(r) // an internal invariant violation: not recoverable here.
		}
	}()
	rec := first
	for rec != nil {
		rec = rec(s)
	}
	return nil, nil
}

// RunStepped executes a stepped-layout stream. s's CompileOption must have
// every ring range disabled (spec.md §4.A: "This mode disables the ring cache...
// so that state is fully materialized between steps") — CompileOption.
// Validate enforces this before a State is even constructed, so RunStepped
// itself just trusts the invariant rather than re-checking it per step.
func RunStepped(s *State, stream []SteppedRecord) (trap *TrapError, err error) {
	defer func() {
		if r := recover(); r != nil {
			if te, ok := r.(*TrapError); ok {
				trap = te
				return
			}
			panic(r)
		}
	}()
	for s.IP < len(stream) {
		stream[s.IP](s)
	}
	return nil, nil
}

// trapAt rolls s back to startIP (the position captured before the
// opfunc performed any mutation) and panics with trap, completing the
// invariant-5 contract: "all traps are observed either before any
// mutation or after a full local rollback of ip to the start of the
// trapping record".
func trapAt(s *State, startIP int, trap *TrapError) {
	s.IP = startIP
	trap.IP = startIP
	panic(trap)
}
