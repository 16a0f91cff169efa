// Package layout describes the engine's native records and computes their
// wasm32 C layouts.
//
// Each record is declared as a WIT record whose fields use u32 for pointers,
// s32 for ints, f32 for floats, nested records for embedded structs and a
// tuple of u8 for fixed character arrays. With those primitives the
// record layout rules match sequential C struct layout: each field is
// aligned to its natural alignment and the total size is rounded up to the
// largest field alignment.
package layout
