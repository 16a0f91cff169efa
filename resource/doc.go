// Package resource tracks native engine resources by handle.
//
// A session holds a handful of native resources whose release order and
// exactly-once release matter: the license, the session, any registered
// configurations, and each result tree between its fetch and its free.
// The Table records them under opaque handles:
//
//	table := resource.NewTable()
//	h := table.Insert(resource.KindSession, sessionPtr, "", nil)
//	ptr, ok := table.Lookup(h, resource.KindSession)
//	table.Remove(h) // false on the second call
//
// # Observers
//
// Observers see every insert and remove. LeakDetector is an observer that
// keeps the set of live resources:
//
//	leaks := resource.Watch(table)
//	...
//	if err := leaks.Check(); err != nil {
//	    // unreleased handles, or releases of unknown handles
//	}
//
// Nothing is released by the garbage collector. Owners call Remove when
// the native release succeeds and Close when the table is retired.
package resource
