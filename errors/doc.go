// Package errors provides structured error types for the salience library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the context needed to diagnose a failure without re-running
// it: field path, native record name, the engine status code, the option id and the
// error string the engine reported for the session.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseFetch, errors.KindEngine).
//		Record("SalienceEntityList").
//		Status(3).
//		EngineMessage("no text prepared").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FromStatus(errors.PhaseFetch, status, "lxaGetThemes", msg)
//	err := errors.OptionFailed(3003, status)
//
// Status codes map to kinds: 4 is KindInvalidParameter, 12 is KindUnsupportedOption,
// every other failing code is KindEngine. A target with an empty Phase matches any
// phase, so callers can test for a kind alone:
//
//	if errors.Is(err, &errors.Error{Kind: errors.KindUnsupportedOption}) { ... }
package errors
