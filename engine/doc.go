// Package engine hosts the analysis engine, compiled to a wasm32 module,
// inside a wazero runtime.
//
// The module follows the C calling convention on wasm32: every entry point
// takes i32 arguments (pointers and ints) and returns an i32 status; result
// records live in the module's linear memory. The package provides:
//
//	Engine   - wazero runtime with WASI preview1 and the env host module
//	Instance - one instantiated module; implements salience.Native
//
// # Module Contract
//
// The module must export "memory", an allocator ("malloc"/"free", or
// "cabi_realloc"), and the entry points in RequiredExports. The remaining
// lxa* entry points are resolved on first call. It may import
// env.lxaStatusCallback(param, status, message) -> i32, which routes to the
// callback.Dispatcher with the context of the call in flight.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Instance serializes its own calls but
// the sessions it hosts are single-operation-at-a-time; see the session
// package. Handlers receiving status notifications must not call back into
// the same instance.
package engine
