// Package salience exposes a natural-language-analysis engine, reachable only
// through a flat C-style interface, as trees of Go-owned result values.
//
// The engine is compiled to a wasm32 module and hosted by wazero. Its result
// records are fixed-layout C structs inside the module's linear memory, valid
// until the matching release call. This library walks those records, rebuilds
// an independent Go value graph, and releases every native allocation exactly
// once.
//
// # Architecture Overview
//
//	salience/            Root package with Memory, Allocator, Native and result types
//	├── session/         High-level API: license, session, options, fetches, markup
//	├── marshal/         Scoped fetch and recursive walkers over native records
//	├── markup/          Run-length span markup over token streams
//	├── option/          Option catalogue, typed values and the option setter
//	├── callback/        Status notification dispatch through context
//	├── codec/           NUL-terminated string encoding at the boundary
//	├── engine/          wazero host for the engine module
//	├── resource/        Handle table and leak detection for native resources
//	├── errors/          Structured error types
//	└── internal/layout/ C struct layouts of every native record
//
// # Quick Start
//
//	eng, err := engine.New(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	inst, err := eng.Load(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := session.Open(ctx, inst, session.Config{
//	    LicensePath:   "/salience/license.v5",
//	    DataDirectory: "/salience/data",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close(ctx)
//
//	if err := s.PrepareText(ctx, "Paris is nice"); err != nil {
//	    log.Fatal(err)
//	}
//	entities, err := s.NamedEntities(ctx, session.DefaultEntityParams(), "")
//
// # Thread Safety
//
// A Session is not safe for concurrent use; the engine assumes one operation
// in flight per session. Independent sessions may be used concurrently.
package salience
