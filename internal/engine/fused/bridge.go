package fused

// HostCallBridge is the call(module_id, function_index, stack_pointer)
// contract of spec.md §6. Reads N parameters from scratch (parameter 0 at
// index 0), invokes the callee, and writes K results back at the same
// base (result 0 at index 0). Synchronous trap propagation: if the callee traps, the
// bridge is expected to panic a *TrapError, unwinding via the same
// recover() boundary RunChained/RunStepped install — there is no
// separate fatal path for calls, per spec.md §4.E's single fatal-error
// handler.
//
// This is an external collaborator (spec.md §1: "host-function bridging"
// is out of scope) — this core only defines the shape of the contract
// its call fusions (family 11, opfuncs_call.go) invoke through.
type HostCallBridge func(moduleID, functionIndex uint32, scratch []uint64)

// scratchCall is the shared plumbing for family 11's call fusions
// (call_drop, call+local.set/tee, call_stacktop_T): it hands an
// already-filled scratch buffer to the bridge. The caller builds scratch
// beforehand (from the arena in callViaArena, from the ring in the
// call_stacktop_T fast paths) and unpacks the results from it afterwards.
// Grounded on interpreter.go's callGoFuncWithStack, which pops N params
// into a slice, invokes the call, and pushes K results back.
func scratchCall(bridge HostCallBridge, moduleID, functionIndex uint32, scratch []uint64) {
	bridge(moduleID, functionIndex, scratch)
}
