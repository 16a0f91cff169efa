// Package option sets engine options.
//
// Options are addressed by a numeric ID from a fixed catalogue grouped by
// subsystem (text preparation 1000s, concepts 2000s, entities 3000s,
// sentiment 4000s, topics 5000s, collections and classification 6000s,
// themes 7000, categories 8000, summaries 9000s). A Value is a tagged
// union of the five shapes an option takes; Check rejects a value whose
// shape does not match the catalogue before anything reaches the engine.
//
// Setter writes the native option record and keeps a mirror of accepted
// values per configuration scope. The mirror only changes after the
// engine accepted a value.
package option
