// Package callback routes the engine's asynchronous status notifications to
// the operation that caused them.
//
// The engine calls a single imported function while long-running operations
// (collection preparation, collection themes, entities and facets) execute.
// Instead of a mutable "current handler" slot, the handler travels in the
// context.Context of the call that is in flight:
//
//	ctx = callback.WithHandler(ctx, func(ctx context.Context, n callback.Notification) {
//	    log.Printf("%d: %s", n.Status, n.Message)
//	})
//	themes, err := s.CollectionThemes(ctx, "")
//
// wazero hands the caller's context to host functions, so two operations on
// different sessions never see each other's notifications. A session may
// also register a fallback handler for calls made without one.
package callback
