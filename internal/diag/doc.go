// Package diag defines the diagnostic model shared by the walker, the
// resolver and the renderers.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – warning or error; each Code carries a default.
//   - Code – compact identifier with a stable string form (ID) that users
//     write in no-lint directives, e.g. `no-lint:unused-local`.
//   - Message – the catalog template rendered with the offending name and,
//     for loop-shadowed, the line of the earlier binding.
//   - Primary – line/column span; unknown for findings without a node.
//   - Notes – optional secondary spans (the shadowed binding).
//
// Package diag does not perform formatting beyond the single-line short
// form; rendering lives in internal/diagfmt.
package diag
