// Package marshal converts engine results into owned Go values.
//
// Every fetch follows the same scoped sequence: allocate a zeroed
// descriptor, call the entry point, check the status, walk the native tree
// into salience types, then release the descriptor with its matching free
// call. The release is deferred, so it runs once on every path after the
// engine reported success, including decode failures. Nothing returned
// refers to engine memory.
//
// Status 6 (soft success) is treated as success; Fetcher.LastStatus keeps
// it observable. Any other non-zero status becomes an *errors.Error
// carrying the session's error string.
//
// Walkers live on Reader, which reads records through internal/layout
// offsets and keeps the first error it meets. Topic trees are walked with
// a depth bound so a malformed tree cannot recurse without end.
package marshal
