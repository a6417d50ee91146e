// Package outreachservice implements candidate outreach tracking inside the
// chapter-operations context.
//
// The module records approaches made to prospective leaders for a position,
// captures their response exactly once under normal flow, and serves the
// acceptance-rate statistics the succession dashboard renders. Responses are
// append-only history: a re-approach creates a new record, and corrections go
// through an explicit administrative override.
package outreachservice
