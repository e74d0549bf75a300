// Package autocomplete implements the finite-state controller behind a
// typeahead search input.
//
// The controller is split in two layers:
//
//   - Machine is a pure, synchronous state machine. Each call to Send
//     processes one event to completion (transition, actions, eventless
//     follow-ups) and returns the resulting Snapshot plus the side effects
//     the caller must run. It never starts goroutines.
//   - Service interprets a Machine: it runs fetch effects against a
//     suggestion Source on goroutines, cancels stale fetches and feeds the
//     results back through a single event loop.
//
// Every entry into the fetching state bumps an activation generation. Fetch
// results carry the generation they were started with and are dropped
// unless it still matches the active one, so a slow response can never
// overwrite the outcome of newer input.
package autocomplete
