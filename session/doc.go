// Package session opens engine sessions and exposes every analysis the
// engine offers as calls returning owned Go values.
//
// A session is opened against a loaded engine (see Runtime, or any
// salience.Native such as the fake in engine/enginetest):
//
//	s, err := session.Open(ctx, native, session.Config{
//		LicensePath:   "/data/license.v5",
//		DataDirectory: "/data",
//	})
//	if err != nil {
//		return err
//	}
//	defer s.Close(ctx)
//
//	if err := s.PrepareText(ctx, text); err != nil {
//		return err
//	}
//	themes, err := s.Themes(ctx)
//
// Options and fetches address configurations through a Scope. The session
// itself is the scope of every configuration; In and AddConfiguration
// return scopes for one.
//
// Progress notifications of long operations go to the handler carried by
// the operation's context (callback.WithHandler), or else to the session's
// default handler.
package session
