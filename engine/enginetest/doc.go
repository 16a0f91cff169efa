// Package enginetest provides an in-process fake of the native engine for
// tests.
//
// Engine implements salience.Native over an Arena. Entry points are Go
// functions registered with Handle; Result, StringResult and Fail cover the
// common fetch shapes, and InstallSession adds license, session, option,
// prepare and callback entry points backed by an inspectable State.
//
// Results are laid out with Tree, which writes owned values as native
// records using the same layouts the marshaler reads. Every release entry
// point counts its calls per descriptor, so tests can assert that each
// fetched result was released exactly once:
//
//	e := enginetest.New()
//	e.Result(engine.GetThemes, func(t *enginetest.Tree, desc uint32) {
//		t.ThemeList(desc, themes)
//	})
package enginetest
